package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"contentgen/internal/services"
	"contentgen/internal/subtitles"
)

type transcriptionResponse struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Language string  `json:"language"`
	Words    []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
	Segments []struct {
		ID    int     `json:"id"`
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"segments"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe uploads an audio file and returns its word-level transcript.
// lang is an optional hint such as "en" or "pt-BR"; it is normalized to the
// two-letter base language the API expects.
func (c *Client) Transcribe(ctx context.Context, audioPath, lang string) (*subtitles.Transcript, error) {
	const op = "transcribe"
	if !c.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "", op, "openai api key required", nil)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("%s: open audio: %w", op, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("%s: form file: %w", op, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("%s: copy audio: %w", op, err)
	}
	fields := map[string]string{
		"model":                     c.cfg.TranscribeModel,
		"response_format":           "verbose_json",
		"timestamp_granularities[]": "word",
	}
	if iso := BaseLanguage(lang); iso != "" {
		fields["language"] = iso
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("%s: form field %s: %w", op, name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%s: close form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/audio/transcriptions", &body)
	if err != nil {
		return nil, fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: http error: %w", op, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.NewProviderError(providerName, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if parsed.Error != nil {
		return nil, services.NewProviderError(providerName, resp.StatusCode, parsed.Error.Message)
	}

	transcript := &subtitles.Transcript{
		Text:     parsed.Text,
		Duration: parsed.Duration,
		Language: parsed.Language,
	}
	for _, w := range parsed.Words {
		transcript.Words = append(transcript.Words, subtitles.Word{
			Word:  strings.TrimSpace(w.Word),
			Start: w.Start,
			End:   w.End,
		})
	}
	for _, s := range parsed.Segments {
		transcript.Segments = append(transcript.Segments, subtitles.Segment{
			ID:    s.ID,
			Text:  strings.TrimSpace(s.Text),
			Start: s.Start,
			End:   s.End,
		})
	}
	if transcript.Duration == 0 && len(transcript.Words) > 0 {
		transcript.Duration = transcript.Words[len(transcript.Words)-1].End
	}
	return transcript, nil
}

// BaseLanguage normalizes a language tag like "pt-BR" or "en_US" to its
// two-letter base ("pt", "en"). Unparseable input yields "".
func BaseLanguage(tag string) string {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return ""
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	base, conf := parsed.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}
