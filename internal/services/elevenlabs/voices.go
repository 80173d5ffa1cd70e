package elevenlabs

// Voice describes one entry in the built-in narrator catalog.
type Voice struct {
	ID          string
	Name        string
	Description string
}

// DefaultVoiceID is used when a project has no voice configured.
const DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

// Premade voices available to every account.
var catalog = []Voice{
	{ID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel", Description: "calm, american, female"},
	{ID: "29vD33N1CtxCmqQRPOHJ", Name: "Drew", Description: "well-rounded, american, male"},
	{ID: "2EiwWnXFnvU5JabPnv8n", Name: "Clyde", Description: "war veteran, american, male"},
	{ID: "AZnzlk1XvdvUeBnXmlld", Name: "Domi", Description: "strong, american, female"},
	{ID: "EXAVITQu4vr4xnSDxMaL", Name: "Bella", Description: "soft, american, female"},
	{ID: "ErXwobaYiN019PkySvjV", Name: "Antoni", Description: "well-rounded, american, male"},
	{ID: "MF3mGyEYCl7XYWbV9V6O", Name: "Elli", Description: "emotional, american, female"},
	{ID: "TxGEqnHWrfWFTfGW9XjX", Name: "Josh", Description: "deep, american, male"},
	{ID: "VR6AewLTigWG4xSOukaG", Name: "Arnold", Description: "crisp, american, male"},
	{ID: "pNInz6obpgDQGcFmaJgB", Name: "Adam", Description: "deep, american, male"},
	{ID: "yoZ06aMxZJJ28mfd3POQ", Name: "Sam", Description: "raspy, american, male"},
}

// Voices returns the built-in narrator catalog.
func Voices() []Voice {
	out := make([]Voice, len(catalog))
	copy(out, catalog)
	return out
}
