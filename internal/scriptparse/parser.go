// Package scriptparse converts hand-written scripts into structured scene
// data without calling a text-generation provider. It understands explicit
// [SCENE n] markers and falls back to paragraph and sentence splitting.
package scriptparse

import (
	"regexp"
	"strings"

	"contentgen/internal/store"
)

var (
	sceneMarker  = regexp.MustCompile(`(?mi)^\s*\[scene\s*\d*\]\s*$`)
	visualPrefix = regexp.MustCompile(`(?i)^visual\s*:\s*`)
	sentenceEnd  = regexp.MustCompile(`[.!?]+\s+`)
)

const sentencesPerScene = 2

// Parse builds scene data from a free-form script. Scene numbers are 1-based
// and follow input order.
func Parse(title, script string) *store.SceneData {
	data := &store.SceneData{Title: strings.TrimSpace(title)}
	script = strings.ReplaceAll(script, "\r\n", "\n")
	if strings.TrimSpace(script) == "" {
		return data
	}

	var blocks []string
	if sceneMarker.MatchString(script) {
		blocks = splitOnMarkers(script)
	} else {
		blocks = splitParagraphs(script)
		if len(blocks) == 1 {
			blocks = splitSentenceGroups(blocks[0])
		}
	}

	for _, block := range blocks {
		scene := parseBlock(block)
		if scene.Narration == "" {
			continue
		}
		scene.SceneNumber = len(data.Scenes) + 1
		data.Scenes = append(data.Scenes, scene)
	}
	return data
}

func splitOnMarkers(script string) []string {
	parts := sceneMarker.Split(script, -1)
	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			blocks = append(blocks, part)
		}
	}
	return blocks
}

func splitParagraphs(script string) []string {
	parts := strings.Split(script, "\n\n")
	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			blocks = append(blocks, part)
		}
	}
	return blocks
}

func splitSentenceGroups(paragraph string) []string {
	text := strings.TrimSpace(paragraph)
	if text == "" {
		return nil
	}

	var sentences []string
	rest := text
	for {
		loc := sentenceEnd.FindStringIndex(rest)
		if loc == nil {
			if trimmed := strings.TrimSpace(rest); trimmed != "" {
				sentences = append(sentences, trimmed)
			}
			break
		}
		sentences = append(sentences, strings.TrimSpace(rest[:loc[1]]))
		rest = rest[loc[1]:]
	}

	blocks := make([]string, 0, len(sentences)/sentencesPerScene+1)
	for start := 0; start < len(sentences); start += sentencesPerScene {
		end := start + sentencesPerScene
		if end > len(sentences) {
			end = len(sentences)
		}
		blocks = append(blocks, strings.Join(sentences[start:end], " "))
	}
	return blocks
}

func parseBlock(block string) store.Scene {
	var narration []string
	var visual []string
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if visualPrefix.MatchString(trimmed) {
			visual = append(visual, visualPrefix.ReplaceAllString(trimmed, ""))
			continue
		}
		narration = append(narration, trimmed)
	}

	scene := store.Scene{
		Narration:         strings.Join(narration, " "),
		VisualDescription: strings.Join(visual, " "),
	}
	if scene.VisualDescription == "" {
		scene.VisualDescription = scene.Narration
	}
	return scene
}
