package minimax

// Voice describes one entry in the built-in narrator catalog.
type Voice struct {
	ID          string
	Name        string
	Description string
}

// DefaultVoiceID is used when a project has no voice configured.
const DefaultVoiceID = "English_expressive_narrator"

// System voices available to every account.
var catalog = []Voice{
	{ID: "English_expressive_narrator", Name: "Expressive Narrator", Description: "warm, engaging, male"},
	{ID: "English_radiant_girl", Name: "Radiant Girl", Description: "bright, youthful, female"},
	{ID: "English_magnetic_voiced_man", Name: "Magnetic Voice", Description: "deep, confident, male"},
	{ID: "English_compelling_lady1", Name: "Compelling Lady", Description: "persuasive, clear, female"},
	{ID: "English_Aussie_Bloke", Name: "Aussie Bloke", Description: "casual, australian, male"},
	{ID: "English_captivating_female1", Name: "Captivating Female", Description: "smooth, storytelling, female"},
	{ID: "English_Upbeat_Woman", Name: "Upbeat Woman", Description: "energetic, friendly, female"},
	{ID: "English_Trustworth_Man", Name: "Trustworthy Man", Description: "calm, reliable, male"},
}

// Voices returns the built-in narrator catalog.
func Voices() []Voice {
	out := make([]Voice, len(catalog))
	copy(out, catalog)
	return out
}
