package api

import (
	"encoding/json"
	"io"
	"strings"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
)

// MockHttpClient records requests and replies with a fixed response
type MockHttpClient struct {
	mu         sync.Mutex
	StatusCode int
	Body       string
	Err        error
	Requests   []*fhttp.Request
	Bodies     []map[string]any
}

// Do implements transport.Doer
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	var body map[string]any
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(raw, &body)
	}

	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.Bodies = append(m.Bodies, body)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return &fhttp.Response{
		StatusCode: m.StatusCode,
		Header:     make(fhttp.Header),
		Body:       io.NopCloser(strings.NewReader(m.Body)),
	}, nil
}

// NewMockHttpClient creates a MockHttpClient with a fixed response
func NewMockHttpClient(body string, statusCode int) *MockHttpClient {
	return &MockHttpClient{Body: body, StatusCode: statusCode}
}

// NewMockHttpClientWithError creates a MockHttpClient that returns an error
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{Err: err}
}
