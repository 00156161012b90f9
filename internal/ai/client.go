// Package ai calls the hosted model service that answers chat messages and
// writes revision notes.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/noteship/noteship/internal/config"
	apierrors "github.com/noteship/noteship/internal/errors"
	"github.com/noteship/noteship/internal/transport"
)

// Defaults used when the corresponding option is not set
const (
	DefaultBaseURL     = "https://api.bytez.com/models/v2"
	DefaultModel       = "google/gemini-2.5-pro"
	DefaultTimeout     = 5 * time.Second
	DefaultTemperature = 0.7
	DefaultMaxLength   = 1000
)

// Replier produces a completion for a system prompt and a user prompt.
type Replier interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Client talks to the model service
type Client struct {
	httpClient  transport.Doer
	baseURL     string
	apiKey      string
	model       string
	fallbacks   []string
	timeout     time.Duration
	temperature float64
	maxLength   int
	logger      zerolog.Logger
}

var _ Replier = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the TLS client
func WithHTTPClient(d transport.Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = d
	}
}

// WithBaseURL sets the model service base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout bounds each model call
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithFallbackModels sets the models tried after the primary one fails
func WithFallbackModels(models ...string) ClientOption {
	return func(c *Client) {
		c.fallbacks = append([]string(nil), models...)
	}
}

// WithParams sets the sampling temperature and the maximum reply length
func WithParams(temperature float64, maxLength int) ClientOption {
	return func(c *Client) {
		c.temperature = temperature
		c.maxLength = maxLength
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a model service client. An empty apiKey is accepted;
// Complete then fails with ErrNotConfigured.
func NewClient(apiKey, model string, opts ...ClientOption) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}

	c := &Client{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		model:       model,
		timeout:     DefaultTimeout,
		temperature: DefaultTemperature,
		maxLength:   DefaultMaxLength,
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		httpClient, err := transport.New(c.timeout + 5*time.Second)
		if err != nil {
			return nil, err
		}
		c.httpClient = httpClient
	}

	return c, nil
}

// NewClientFromConfig creates a client from the model section of the config
func NewClientFromConfig(cfg config.ModelConfig, opts ...ClientOption) (*Client, error) {
	base := []ClientOption{
		WithBaseURL(cfg.BaseURL),
		WithFallbackModels(cfg.FallbackModels...),
		WithParams(cfg.Temperature, cfg.MaxLength),
	}
	if cfg.TimeoutSeconds > 0 {
		base = append(base, WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	return NewClient(cfg.APIKey, cfg.ID, append(base, opts...)...)
}

// Model returns the primary model ID
func (c *Client) Model() string {
	return c.model
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete asks the primary model for a reply, then each fallback model in
// order. The last error is returned when every model fails.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if !c.Configured() {
		return "", apierrors.ErrNotConfigured
	}

	reply, err := c.complete(ctx, c.model, system, prompt)
	if err == nil || len(c.fallbacks) == 0 {
		return reply, err
	}

	c.logger.Warn().Err(err).Str("model", c.model).Msg("primary model failed, trying fallbacks")

	lastErr := err
	for i, model := range c.fallbacks {
		if ctx.Err() != nil {
			break
		}
		reply, lastErr = c.complete(ctx, model, system, prompt)
		if lastErr == nil {
			c.logger.Info().Int("fallback", i+1).Str("model", model).Msg("fallback succeeded")
			return reply, nil
		}
		c.logger.Warn().Err(lastErr).Int("fallback", i+1).Str("model", model).Msg("fallback failed")
	}

	return "", fmt.Errorf("all models failed, last error: %w", lastErr)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatParams struct {
	Temperature float64 `json:"temperature"`
	MaxLength   int     `json:"max_length"`
}

type chatPayload struct {
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Params   chatParams    `json:"params"`
}

func (c *Client) endpoint(model string) string {
	return c.baseURL + "/" + model
}

func (c *Client) complete(ctx context.Context, model, system, prompt string) (string, error) {
	payload, err := json.Marshal(chatPayload{
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Params: chatParams{Temperature: c.temperature, MaxLength: c.maxLength},
	})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.endpoint(model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || apierrors.IsTimeoutError(err) {
			return "", apierrors.NewTimeoutError(fmt.Sprintf("%s limit", c.timeout))
		}
		return "", apierrors.NewNetworkError(endpoint, err)
	}
	defer transport.Close(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := transport.ReadBody(resp, transport.MaxErrorBody)
		return "", apierrors.NewAPIError(resp.StatusCode, endpoint, strings.TrimSpace(string(body)))
	}

	body, err := transport.ReadBody(resp, transport.MaxBody)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apierrors.NewTimeoutError(fmt.Sprintf("%s limit", c.timeout))
		}
		return "", apierrors.NewNetworkError(endpoint, err)
	}

	c.logger.Debug().
		Str("model", model).
		Dur("elapsed", time.Since(start)).
		Int("bytes", len(body)).
		Msg("model replied")

	return parseReply(body, model)
}

// parseReply extracts output.content, or turns the error field into an
// UpstreamError.
func parseReply(body []byte, model string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("reply is not valid JSON", "")
	}

	if content := gjson.GetBytes(body, "output.content"); content.Exists() && content.String() != "" {
		return content.String(), nil
	}

	if e := gjson.GetBytes(body, "error"); e.Exists() && e.Type != gjson.Null && e.String() != "" {
		return "", apierrors.NewUpstreamError(model, e.String())
	}

	return "", apierrors.NewParseError("no output returned by model", "output.content")
}
