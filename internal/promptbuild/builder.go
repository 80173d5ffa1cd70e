// Package promptbuild constructs deterministic image-generation prompts from
// scene visual descriptions. It is the refiner used when no text-generation
// provider is configured.
package promptbuild

import (
	"strings"

	"contentgen/internal/store"
)

// Style suffixes keyed by the project's image style setting.
var styleSuffixes = map[string]string{
	"realistic": "photorealistic, natural lighting, high detail, 4k",
	"cinematic": "cinematic still, dramatic lighting, shallow depth of field, film grain",
	"anime":     "anime style, vibrant colors, clean line art",
	"cartoon":   "cartoon illustration, bold outlines, flat colors",
	"3d":        "3d render, octane render, soft studio lighting",
	"minimal":   "minimalist composition, negative space, muted palette",
}

const defaultSuffix = "high quality, detailed, professional composition"

// Build returns one prompt per scene, index-aligned with the input. Scenes
// with an empty visual description fall back to their narration text.
func Build(scenes []store.Scene, style, niche string) []string {
	prompts := make([]string, len(scenes))
	for i, scene := range scenes {
		prompts[i] = buildOne(scene, style, niche)
	}
	return prompts
}

func buildOne(scene store.Scene, style, niche string) string {
	base := strings.TrimSpace(scene.VisualDescription)
	if base == "" {
		base = strings.TrimSpace(scene.Narration)
	}

	parts := make([]string, 0, 3)
	if base != "" {
		parts = append(parts, base)
	}
	if niche = strings.TrimSpace(niche); niche != "" {
		parts = append(parts, niche+" theme")
	}
	parts = append(parts, suffixFor(style))
	return strings.Join(parts, ", ")
}

func suffixFor(style string) string {
	if suffix, ok := styleSuffixes[strings.ToLower(strings.TrimSpace(style))]; ok {
		return suffix
	}
	return defaultSuffix
}
