// Package replicate wraps the Replicate predictions API for image
// generation.
package replicate

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
	providerName       = "replicate"
	defaultHTTPTimeout = 120 * time.Second

	defaultPollInterval = 2 * time.Second
	defaultPollAttempts = 60
)

// Config captures the runtime settings required to talk to the API.
type Config struct {
	APIToken            string
	BaseURL             string
	ImageVersion        string
	PollIntervalSeconds int
	PollMaxAttempts     int
	TimeoutSeconds      int
}

// Client issues prediction requests and polls for their output.
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

// NewClient constructs a Replicate client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIToken:     strings.TrimSpace(cfg.APIToken),
			BaseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			ImageVersion: strings.TrimSpace(cfg.ImageVersion),
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
		client.cfg.BaseURL = "https://api.replicate.com"
	}
	if client.cfg.ImageVersion == "" {
		client.cfg.ImageVersion = "black-forest-labs/flux-schnell"
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Name returns the provider identifier used in settings and logs.
func (c *Client) Name() string { return providerName }

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIToken != ""
}

type predictionRequest struct {
	Version string         `json:"version,omitempty"`
	Input   map[string]any `json:"input"`
}

type prediction struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  string   `json:"error"`
}

// UnmarshalJSON tolerates both array and single-string outputs, which vary
// between models.
func (p *prediction) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     string          `json:"id"`
		Status string          `json:"status"`
		Output json.RawMessage `json:"output"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.ID = raw.ID
	p.Status = raw.Status
	p.Error = raw.Error
	p.Output = nil
	if len(raw.Output) == 0 || string(raw.Output) == "null" {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw.Output, &list); err == nil {
		p.Output = list
		return nil
	}
	var single string
	if err := json.Unmarshal(raw.Output, &single); err == nil {
		p.Output = []string{single}
		return nil
	}
	return fmt.Errorf("unexpected prediction output: %s", string(raw.Output))
}

// GenerateImage renders one image for the prompt at the given dimensions and
// returns the downloaded bytes. The call blocks while the prediction is
// polled to completion.
func (c *Client) GenerateImage(ctx context.Context, prompt string, width, height int) ([]byte, error) {
	const op = "generate_image"
	if !c.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "", op, "replicate api token required", nil)
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, services.Wrap(services.ErrValidation, "", op, "prompt must not be empty", nil)
	}

	input := map[string]any{
		"prompt":      prompt,
		"num_outputs": 1,
	}
	if width > 0 && height > 0 {
		input["width"] = width
		input["height"] = height
	}

	created, err := c.createPrediction(ctx, op, predictionRequest{Input: input})
	if err != nil {
		return nil, err
	}

	final, err := c.pollPrediction(ctx, created)
	if err != nil {
		return nil, err
	}
	if len(final.Output) == 0 {
		return nil, services.Wrap(services.ErrProvider, "", op, "prediction produced no output", nil)
	}
	return c.download(ctx, op, final.Output[0])
}

func (c *Client) createPrediction(ctx context.Context, op string, payload predictionRequest) (*prediction, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode body: %w", op, err)
	}

	// Named model versions like owner/name use the models endpoint; bare
	// version hashes go through /v1/predictions.
	url := c.cfg.BaseURL + "/v1/predictions"
	if strings.Contains(c.cfg.ImageVersion, "/") {
		url = fmt.Sprintf("%s/v1/models/%s/predictions", c.cfg.BaseURL, c.cfg.ImageVersion)
	} else {
		payload.Version = c.cfg.ImageVersion
		if encoded, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")
	return c.doPrediction(req, op)
}

func (c *Client) pollPrediction(ctx context.Context, p *prediction) (*prediction, error) {
	const op = "poll_prediction"
	current := p
	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		switch current.Status {
		case "succeeded":
			return current, nil
		case "failed", "canceled":
			message := current.Error
			if message == "" {
				message = "prediction " + current.Status
			}
			return nil, services.Wrap(services.ErrProvider, "", op, message, nil)
		}

		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/v1/predictions/"+current.ID, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: new request: %w", op, err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
		if current, err = c.doPrediction(req, op); err != nil {
			return nil, err
		}
	}
	return nil, services.Wrap(services.ErrTimeout, "", op,
		fmt.Sprintf("prediction %s not finished after %d polls", current.ID, c.pollAttempts), nil)
}

func (c *Client) doPrediction(req *http.Request, op string) (*prediction, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: http error: %w", op, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.NewProviderError(providerName, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var parsed prediction
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return &parsed, nil
}

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
