package minimax

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"contentgen/internal/services"
)

type ttsRequest struct {
	Model        string       `json:"model"`
	Text         string       `json:"text"`
	VoiceSetting voiceSetting `json:"voice_setting"`
	AudioSetting audioSetting `json:"audio_setting"`
}

type voiceSetting struct {
	VoiceID string  `json:"voice_id"`
	Speed   float64 `json:"speed"`
	Volume  float64 `json:"vol"`
	Pitch   int     `json:"pitch"`
}

type audioSetting struct {
	Format     string `json:"format"`
	SampleRate int    `json:"sample_rate"`
	Bitrate    int    `json:"bitrate"`
}

type ttsResponse struct {
	Data struct {
		Audio string `json:"audio"`
	} `json:"data"`
	BaseResp baseResp `json:"base_resp"`
}

// Synthesize renders text to MP3 audio. The API returns the audio payload
// hex-encoded; the decoded bytes are returned. An empty voiceID falls back to
// the default narrator voice.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	const op = "synthesize"
	if !c.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "", op, "minimax api key and group id required", nil)
	}
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrValidation, "", op, "text must not be empty", nil)
	}
	if voiceID = strings.TrimSpace(voiceID); voiceID == "" {
		voiceID = DefaultVoiceID
	}

	payload := ttsRequest{
		Model: c.cfg.TTSModel,
		Text:  text,
		VoiceSetting: voiceSetting{
			VoiceID: voiceID,
			Speed:   1.0,
			Volume:  1.0,
		},
		AudioSetting: audioSetting{
			Format:     "mp3",
			SampleRate: 32000,
			Bitrate:    128000,
		},
	}

	var parsed ttsResponse
	path := fmt.Sprintf("/v1/t2a_v2?GroupId=%s", c.cfg.GroupID)
	if err := c.postJSON(ctx, op, path, payload, &parsed); err != nil {
		return nil, err
	}
	if !parsed.BaseResp.ok() {
		return nil, services.NewProviderError(providerName, parsed.BaseResp.StatusCode, parsed.BaseResp.StatusMsg)
	}
	if parsed.Data.Audio == "" {
		return nil, services.Wrap(services.ErrProvider, "", op, "empty audio payload", nil)
	}
	audio, err := hex.DecodeString(parsed.Data.Audio)
	if err != nil {
		return nil, services.Wrap(services.ErrProvider, "", op, "audio payload is not valid hex", err)
	}
	return audio, nil
}
