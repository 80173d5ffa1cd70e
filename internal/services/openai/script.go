package openai

import (
	"context"
	"fmt"
	"strings"

	"contentgen/internal/services"
	"contentgen/internal/store"
)

// ScriptRequest describes the video a script should be generated for.
type ScriptRequest struct {
	Title       string
	Niche       string
	Platform    string
	Description string
	Context     string
	ContentType store.ContentType
	Language    string
}

// ScriptResult carries the structured scenes plus the flat narration text.
type ScriptResult struct {
	SceneData  store.SceneData
	FullScript string
	TokensUsed int
}

const scriptSystemPrompt = `You are a short-form video scriptwriter. Respond with a single JSON object:
{"title": string, "scenes": [{"sceneNumber": int, "narration": string, "visualDescription": string}]}
Scene numbers start at 1 and increase by one. Narration is spoken text only,
no stage directions. Visual descriptions are concrete, filmable shots.`

// GenerateScript asks the model for a scene-structured narration script.
func (c *Client) GenerateScript(ctx context.Context, req ScriptRequest) (*ScriptResult, error) {
	const op = "generate_script"

	sceneRange := "5 to 8"
	lengthHint := "The narration should run roughly 30 to 60 seconds when spoken."
	if req.ContentType == store.ContentLong {
		sceneRange = "8 to 14"
		lengthHint = "The narration should run roughly 2 to 4 minutes when spoken."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a video script titled %q", req.Title)
	if req.Niche != "" {
		fmt.Fprintf(&b, " for the %s niche", req.Niche)
	}
	if req.Platform != "" {
		fmt.Fprintf(&b, ", targeting %s", req.Platform)
	}
	b.WriteString(".\n")
	if req.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", req.Description)
	}
	if req.Context != "" {
		fmt.Fprintf(&b, "Creative direction: %s\n", req.Context)
	}
	if req.Language != "" {
		fmt.Fprintf(&b, "Write all narration in %s.\n", req.Language)
	}
	fmt.Fprintf(&b, "Use %s scenes. %s", sceneRange, lengthHint)

	content, tokens, err := c.completeJSON(ctx, op, scriptSystemPrompt, b.String())
	if err != nil {
		return nil, err
	}

	var data store.SceneData
	if err := DecodeModelJSON(content, &data); err != nil {
		return nil, services.Wrap(services.ErrProvider, "", op, "malformed script response", err)
	}
	if len(data.Scenes) == 0 {
		return nil, services.Wrap(services.ErrProvider, "", op, "script response contained no scenes", nil)
	}
	if data.Title == "" {
		data.Title = req.Title
	}
	for i := range data.Scenes {
		data.Scenes[i].SceneNumber = i + 1
	}

	narration := make([]string, 0, len(data.Scenes))
	for _, scene := range data.Scenes {
		if text := strings.TrimSpace(scene.Narration); text != "" {
			narration = append(narration, text)
		}
	}
	return &ScriptResult{
		SceneData:  data,
		FullScript: strings.Join(narration, "\n\n"),
		TokensUsed: tokens,
	}, nil
}

const refineSystemPrompt = `You turn video scene descriptions into image-generation prompts. Respond with
a single JSON object: {"prompts": [string]}. Return exactly one prompt per
input scene, in input order. Prompts describe a single still image with
concrete subjects, composition, and lighting.`

// RefinePrompts returns one image prompt per scene, aligned by index with the
// input slice.
func (c *Client) RefinePrompts(ctx context.Context, scenes []store.Scene, style, niche string) ([]string, error) {
	const op = "refine_prompts"
	if len(scenes) == 0 {
		return nil, nil
	}

	var b strings.Builder
	if style != "" {
		fmt.Fprintf(&b, "Target style: %s.\n", style)
	}
	if niche != "" {
		fmt.Fprintf(&b, "Content niche: %s.\n", niche)
	}
	fmt.Fprintf(&b, "Scenes (%d):\n", len(scenes))
	for _, scene := range scenes {
		desc := strings.TrimSpace(scene.VisualDescription)
		if desc == "" {
			desc = strings.TrimSpace(scene.Narration)
		}
		fmt.Fprintf(&b, "%d. %s\n", scene.SceneNumber, desc)
	}

	content, _, err := c.completeJSON(ctx, op, refineSystemPrompt, b.String())
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Prompts []string `json:"prompts"`
	}
	if err := DecodeModelJSON(content, &parsed); err != nil {
		return nil, services.Wrap(services.ErrProvider, "", op, "malformed prompt response", err)
	}
	if len(parsed.Prompts) == 0 {
		return nil, services.Wrap(services.ErrProvider, "", op, "prompt response contained no prompts", nil)
	}
	return parsed.Prompts, nil
}
