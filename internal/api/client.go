// Package api is the client for the noteship chat backend and the session
// state behind the chat widgets.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/noteship/noteship/internal/errors"
	"github.com/noteship/noteship/internal/models"
	"github.com/noteship/noteship/internal/render"
	"github.com/noteship/noteship/internal/transport"
)

// DefaultUserAgent is sent with every request unless overridden
const DefaultUserAgent = "noteship-cli"

// ChatClientInterface is the part of Client the widgets depend on
type ChatClientInterface interface {
	Chat(ctx context.Context, message string) (*models.ChatReply, error)
	Notes(ctx context.Context, topic string) (*models.NotesReply, error)
	Health(ctx context.Context) (*models.HealthReply, error)
}

// Client talks to a noteship backend
type Client struct {
	httpClient transport.Doer
	baseURL    string
	timeout    time.Duration
	userAgent  string
	htmlOpts   render.HTMLOptions
}

var _ ChatClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the TLS client
func WithHTTPClient(d transport.Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = d
	}
}

// WithTimeout sets the overall timeout of the underlying HTTP client
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHTMLOptions sets how replies are converted to HTML
func WithHTMLOptions(opts render.HTMLOptions) ClientOption {
	return func(c *Client) {
		c.htmlOpts = opts
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}

	c := &Client{
		baseURL:   baseURL,
		timeout:   60 * time.Second,
		userAgent: DefaultUserAgent,
		htmlOpts:  render.DefaultHTMLOptions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		httpClient, err := transport.New(c.timeout)
		if err != nil {
			return nil, err
		}
		c.httpClient = httpClient
	}

	return c, nil
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat sends one message and returns the reply. The reply's HTML field is
// computed locally from the reply text.
func (c *Client) Chat(ctx context.Context, message string) (*models.ChatReply, error) {
	body, err := c.do(ctx, http.MethodPost, models.PathChat, models.ChatRequest{Message: message})
	if err != nil {
		return nil, err
	}

	if err := checkStatus(body); err != nil {
		return nil, err
	}

	reply := gjson.GetBytes(body, "reply")
	if !reply.Exists() {
		return nil, apierrors.NewParseError("reply field missing", "reply")
	}

	return &models.ChatReply{
		Status: models.StatusSuccess,
		Query:  gjson.GetBytes(body, "query").String(),
		Reply:  reply.String(),
		HTML:   render.HTMLWithOptions(reply.String(), c.htmlOpts),
	}, nil
}

// Notes asks the backend for a revision sheet on topic
func (c *Client) Notes(ctx context.Context, topic string) (*models.NotesReply, error) {
	body, err := c.do(ctx, http.MethodPost, models.PathNotes, models.NotesRequest{Topic: topic})
	if err != nil {
		return nil, err
	}

	if err := checkStatus(body); err != nil {
		return nil, err
	}

	reply := gjson.GetBytes(body, "reply")
	if !reply.Exists() {
		return nil, apierrors.NewParseError("reply field missing", "reply")
	}

	return &models.NotesReply{
		Status: models.StatusSuccess,
		Topic:  gjson.GetBytes(body, "topic").String(),
		Reply:  reply.String(),
		HTML:   render.HTMLWithOptions(reply.String(), c.htmlOpts),
	}, nil
}

// Health checks that the backend is up
func (c *Client) Health(ctx context.Context) (*models.HealthReply, error) {
	body, err := c.do(ctx, http.MethodGet, models.PathHealth, nil)
	if err != nil {
		return nil, err
	}

	var reply models.HealthReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, apierrors.NewParseError(err.Error(), "")
	}
	if reply.Status != models.StatusSuccess {
		return nil, apierrors.NewStatusError(reply.Status, reply.Message)
	}
	return &reply, nil
}

// checkStatus turns a 2xx body whose status is not "success" into a
// StatusError. A body without a status field passes.
func checkStatus(body []byte) error {
	if !gjson.ValidBytes(body) {
		return apierrors.NewParseError("reply is not valid JSON", "")
	}
	status := gjson.GetBytes(body, "status")
	if status.Exists() && status.String() != models.StatusSuccess {
		return apierrors.NewStatusError(status.String(), gjson.GetBytes(body, "message").String())
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	endpoint := c.baseURL + path

	var reqBody *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || apierrors.IsTimeoutError(err) {
			return nil, apierrors.NewTimeoutError(path)
		}
		return nil, apierrors.NewNetworkError(endpoint, err)
	}
	defer transport.Close(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := transport.ReadBody(resp, transport.MaxErrorBody)
		return nil, apierrors.NewAPIError(resp.StatusCode, endpoint, errorText(raw))
	}

	body, err := transport.ReadBody(resp, transport.MaxBody)
	if err != nil {
		return nil, apierrors.NewNetworkError(endpoint, err)
	}
	return body, nil
}

// errorText picks the message of a JSON error body, falling back to the
// raw text.
func errorText(raw []byte) string {
	if gjson.ValidBytes(raw) {
		if msg := gjson.GetBytes(raw, "message"); msg.Type == gjson.String && msg.String() != "" {
			return msg.String()
		}
	}
	return strings.TrimSpace(string(raw))
}
