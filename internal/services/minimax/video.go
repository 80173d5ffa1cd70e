package minimax

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"contentgen/internal/services"
)

type videoRequest struct {
	Model           string `json:"model"`
	Prompt          string `json:"prompt,omitempty"`
	FirstFrameImage string `json:"first_frame_image"`
}

type videoSubmitResponse struct {
	TaskID   string   `json:"task_id"`
	BaseResp baseResp `json:"base_resp"`
}

type videoQueryResponse struct {
	TaskID   string   `json:"task_id"`
	Status   string   `json:"status"`
	FileID   string   `json:"file_id"`
	BaseResp baseResp `json:"base_resp"`
}

type fileRetrieveResponse struct {
	File struct {
		DownloadURL string `json:"download_url"`
	} `json:"file"`
	BaseResp baseResp `json:"base_resp"`
}

// GenerateClip animates a still image into a short video clip. The image is
// submitted inline as a base64 data URL; the call blocks while the remote
// task is polled and returns the finished MP4 bytes.
func (c *Client) GenerateClip(ctx context.Context, imageData []byte, prompt string) ([]byte, error) {
	const op = "generate_clip"
	if !c.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "", op, "minimax api key and group id required", nil)
	}
	if len(imageData) == 0 {
		return nil, services.Wrap(services.ErrValidation, "", op, "image data must not be empty", nil)
	}

	payload := videoRequest{
		Model:           c.cfg.VideoModel,
		Prompt:          strings.TrimSpace(prompt),
		FirstFrameImage: "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageData),
	}

	var submitted videoSubmitResponse
	if err := c.postJSON(ctx, op, "/v1/video_generation", payload, &submitted); err != nil {
		return nil, err
	}
	if !submitted.BaseResp.ok() {
		return nil, services.NewProviderError(providerName, submitted.BaseResp.StatusCode, submitted.BaseResp.StatusMsg)
	}
	if submitted.TaskID == "" {
		return nil, services.Wrap(services.ErrProvider, "", op, "submit returned no task id", nil)
	}

	fileID, err := c.pollVideoTask(ctx, submitted.TaskID)
	if err != nil {
		return nil, err
	}
	return c.retrieveFile(ctx, fileID)
}

func (c *Client) pollVideoTask(ctx context.Context, taskID string) (string, error) {
	const op = "poll_video_task"
	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return "", err
		}

		var parsed videoQueryResponse
		path := "/v1/query/video_generation?task_id=" + url.QueryEscape(taskID)
		if err := c.getJSON(ctx, op, path, &parsed); err != nil {
			return "", err
		}
		if !parsed.BaseResp.ok() {
			return "", services.NewProviderError(providerName, parsed.BaseResp.StatusCode, parsed.BaseResp.StatusMsg)
		}

		switch strings.ToLower(parsed.Status) {
		case "success":
			if parsed.FileID == "" {
				return "", services.Wrap(services.ErrProvider, "", op, "task succeeded without file id", nil)
			}
			return parsed.FileID, nil
		case "fail":
			return "", services.Wrap(services.ErrProvider, "", op, fmt.Sprintf("video task %s failed", taskID), nil)
		default:
			// queueing, preparing, processing: keep waiting.
		}
	}
	return "", services.Wrap(services.ErrTimeout, "", op,
		fmt.Sprintf("video task %s not finished after %d polls", taskID, c.pollAttempts), nil)
}

func (c *Client) retrieveFile(ctx context.Context, fileID string) ([]byte, error) {
	const op = "retrieve_file"
	var parsed fileRetrieveResponse
	path := fmt.Sprintf("/v1/files/retrieve?GroupId=%s&file_id=%s", url.QueryEscape(c.cfg.GroupID), url.QueryEscape(fileID))
	if err := c.getJSON(ctx, op, path, &parsed); err != nil {
		return nil, err
	}
	if !parsed.BaseResp.ok() {
		return nil, services.NewProviderError(providerName, parsed.BaseResp.StatusCode, parsed.BaseResp.StatusMsg)
	}
	if parsed.File.DownloadURL == "" {
		return nil, services.Wrap(services.ErrProvider, "", op, "file has no download url", nil)
	}
	return c.download(ctx, op, parsed.File.DownloadURL)
}
