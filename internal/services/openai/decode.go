package openai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeModelJSON unmarshals a model response into out, tolerating markdown
// code fences and leading prose around the JSON payload.
func DecodeModelJSON(content string, out any) error {
	cleaned := sanitizeModelJSON(content)
	if cleaned == "" {
		return fmt.Errorf("decode model json: empty content")
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("decode model json: %w (content: %s)", err, snippet(cleaned, 200))
	}
	return nil
}

func sanitizeModelJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return trimmed
	}
	// Some models wrap the payload in prose despite json_object mode.
	start := strings.IndexAny(trimmed, "{[")
	if start < 0 {
		return ""
	}
	var end int
	if trimmed[start] == '{' {
		end = strings.LastIndex(trimmed, "}")
	} else {
		end = strings.LastIndex(trimmed, "]")
	}
	if end <= start {
		return ""
	}
	return trimmed[start : end+1]
}

func snippet(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
