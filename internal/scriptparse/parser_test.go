package scriptparse_test

import (
	"testing"

	"contentgen/internal/scriptparse"
)

func TestParseSceneMarkers(t *testing.T) {
	script := `[SCENE 1]
Welcome to the channel.
Visual: a sunrise over mountains

[SCENE 2]
Here is the first tip.
Visual: a person stretching in a gym`

	data := scriptparse.Parse("Morning Routine", script)
	if data.Title != "Morning Routine" {
		t.Fatalf("title = %q", data.Title)
	}
	if len(data.Scenes) != 2 {
		t.Fatalf("scene count = %d, want 2", len(data.Scenes))
	}
	if data.Scenes[0].SceneNumber != 1 || data.Scenes[1].SceneNumber != 2 {
		t.Fatalf("scene numbers wrong: %+v", data.Scenes)
	}
	if data.Scenes[0].Narration != "Welcome to the channel." {
		t.Fatalf("narration = %q", data.Scenes[0].Narration)
	}
	if data.Scenes[1].VisualDescription != "a person stretching in a gym" {
		t.Fatalf("visual = %q", data.Scenes[1].VisualDescription)
	}
}

func TestParseParagraphs(t *testing.T) {
	script := "First paragraph here.\n\nSecond paragraph here.\n\nThird paragraph."
	data := scriptparse.Parse("Untitled", script)
	if len(data.Scenes) != 3 {
		t.Fatalf("scene count = %d, want 3", len(data.Scenes))
	}
	// Visual description defaults to the narration when none is given.
	if data.Scenes[0].VisualDescription != data.Scenes[0].Narration {
		t.Fatalf("visual fallback missing: %+v", data.Scenes[0])
	}
}

func TestParseSingleParagraphSplitsSentences(t *testing.T) {
	script := "One sentence. Two sentence. Three sentence. Four sentence. Five sentence."
	data := scriptparse.Parse("", script)
	if len(data.Scenes) != 3 {
		t.Fatalf("scene count = %d, want 3 (two sentences per scene)", len(data.Scenes))
	}
	if data.Scenes[0].Narration != "One sentence. Two sentence." {
		t.Fatalf("first scene narration = %q", data.Scenes[0].Narration)
	}
}

func TestParseEmptyScript(t *testing.T) {
	data := scriptparse.Parse("Empty", "   \n  ")
	if len(data.Scenes) != 0 {
		t.Fatalf("expected no scenes, got %+v", data.Scenes)
	}
}
