// Package minimax wraps the MiniMax API: text-to-speech, image generation,
// and image-to-video generation with task polling.
package minimax

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"contentgen/internal/services"
)

const (
	providerName       = "minimax"
	defaultHTTPTimeout = 120 * time.Second

	defaultPollInterval = 5 * time.Second
	defaultPollAttempts = 120
)

// Config captures the runtime settings required to talk to the API.
type Config struct {
	APIKey              string
	GroupID             string
	BaseURL             string
	TTSModel            string
	ImageModel          string
	VideoModel          string
	PollIntervalSeconds int
	PollMaxAttempts     int
	TimeoutSeconds      int
}

// Client issues MiniMax API requests.
type Client struct {
	cfg        Config
	httpClient *http.Client

	pollInterval time.Duration
	pollAttempts int
	sleeper      func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides how poll waits are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a MiniMax client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:     strings.TrimSpace(cfg.APIKey),
			GroupID:    strings.TrimSpace(cfg.GroupID),
			BaseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TTSModel:   strings.TrimSpace(cfg.TTSModel),
			ImageModel: strings.TrimSpace(cfg.ImageModel),
			VideoModel: strings.TrimSpace(cfg.VideoModel),
		},
		httpClient:   &http.Client{Timeout: timeout},
		pollInterval: defaultPollInterval,
		pollAttempts: defaultPollAttempts,
	}
	if cfg.PollIntervalSeconds > 0 {
		client.pollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second
	}
	if cfg.PollMaxAttempts > 0 {
		client.pollAttempts = cfg.PollMaxAttempts
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.minimax.io"
	}
	if client.cfg.TTSModel == "" {
		client.cfg.TTSModel = "speech-02-hd"
	}
	if client.cfg.ImageModel == "" {
		client.cfg.ImageModel = "image-01"
	}
	if client.cfg.VideoModel == "" {
		client.cfg.VideoModel = "I2V-01-Director"
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Name returns the provider identifier used in settings and logs.
func (c *Client) Name() string { return providerName }

// Configured reports whether both the API key and group id are present.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != "" && c.cfg.GroupID != ""
}

// baseResp is the status envelope MiniMax attaches to every response.
type baseResp struct {
	StatusCode int    `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
}

func (b baseResp) ok() bool { return b.StatusCode == 0 }

func (c *Client) postJSON(ctx context.Context, op, path string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode body: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op, out)
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	return c.do(req, op, out)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: http error: %w", op, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return services.NewProviderError(providerName, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// download fetches the bytes behind a URL returned by the API.
func (c *Client) download(ctx context.Context, op, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new request: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: download: %w", op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.NewProviderError(providerName, resp.StatusCode, "download failed")
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read download: %w", op, err)
	}
	return data, nil
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
