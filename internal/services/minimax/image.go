package minimax

import (
	"context"
	"strings"

	"contentgen/internal/services"
)

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	AspectRatio    string `json:"aspect_ratio"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data struct {
		ImageURLs []string `json:"image_urls"`
	} `json:"data"`
	BaseResp baseResp `json:"base_resp"`
}

// GenerateImage renders one image for the prompt at the given dimensions and
// returns the downloaded bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string, width, height int) ([]byte, error) {
	const op = "generate_image"
	if !c.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "", op, "minimax api key and group id required", nil)
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, services.Wrap(services.ErrValidation, "", op, "prompt must not be empty", nil)
	}

	payload := imageRequest{
		Model:          c.cfg.ImageModel,
		Prompt:         prompt,
		AspectRatio:    aspectRatio(width, height),
		N:              1,
		ResponseFormat: "url",
	}

	var parsed imageResponse
	if err := c.postJSON(ctx, op, "/v1/image_generation", payload, &parsed); err != nil {
		return nil, err
	}
	if !parsed.BaseResp.ok() {
		return nil, services.NewProviderError(providerName, parsed.BaseResp.StatusCode, parsed.BaseResp.StatusMsg)
	}
	if len(parsed.Data.ImageURLs) == 0 {
		return nil, services.Wrap(services.ErrProvider, "", op, "no image urls returned", nil)
	}
	return c.download(ctx, op, parsed.Data.ImageURLs[0])
}

// aspectRatio maps pixel dimensions onto the closest ratio string the API
// accepts. Portrait defaults to 9:16 and landscape to 16:9.
func aspectRatio(width, height int) string {
	switch {
	case width <= 0 || height <= 0:
		return "9:16"
	case width == height:
		return "1:1"
	case width < height:
		return "9:16"
	default:
		return "16:9"
	}
}
