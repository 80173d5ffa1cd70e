package ffmpeg

import (
	"fmt"
	"strings"
)

// CaptionStyle controls how burned-in captions are rendered.
type CaptionStyle struct {
	// Color and BgColor are CSS-style hex values like "#FFFFFF".
	Color   string
	BgColor string
	// Position is "top", "center", or "bottom".
	Position string
}

// forceStyle renders the ASS force_style string passed to the subtitles
// filter. Unknown positions fall back to bottom placement.
func (s CaptionStyle) forceStyle() string {
	alignment, marginV := 2, 30
	switch strings.ToLower(strings.TrimSpace(s.Position)) {
	case "top":
		alignment, marginV = 8, 40
	case "center":
		alignment, marginV = 5, 200
	}

	parts := []string{
		"FontSize=28",
		"Bold=1",
		fmt.Sprintf("PrimaryColour=%s", assColor(s.Color, "&H00FFFFFF&")),
		fmt.Sprintf("BackColour=%s", assColor(s.BgColor, "&H80000000&")),
		"BorderStyle=4",
		fmt.Sprintf("Alignment=%d", alignment),
		fmt.Sprintf("MarginV=%d", marginV),
	}
	return strings.Join(parts, ",")
}

// assColor converts "#RRGGBB" to the ASS "&HBBGGRR&" form. Anything
// unparseable yields the fallback.
func assColor(hex, fallback string) string {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 || !isHex(hex) {
		return fallback
	}
	rr, gg, bb := hex[0:2], hex[2:4], hex[4:6]
	return fmt.Sprintf("&H%s%s%s&", strings.ToUpper(bb), strings.ToUpper(gg), strings.ToUpper(rr))
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
