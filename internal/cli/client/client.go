package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client represents an HTTP client for the storefront API. One Client is
// shared by every command of a process.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	log            zerolog.Logger
	requestStages  []RequestInterceptor
	responseStages []ResponseInterceptor
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds each call; zero keeps the HTTP client's own timeout.
// It applies to whichever HTTP client is in use, without modifying one
// passed to WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used by the client and its default stages
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithRequestInterceptor appends a stage after the defaults
func WithRequestInterceptor(ic RequestInterceptor) Option {
	return func(c *Client) {
		c.requestStages = append(c.requestStages, ic)
	}
}

// WithResponseInterceptor appends a stage after the defaults
func WithResponseInterceptor(ic ResponseInterceptor) Option {
	return func(c *Client) {
		c.responseStages = append(c.responseStages, ic)
	}
}

// New creates a new API client. With non-nil creds the request pipeline
// attaches the stored bearer token and a 401 clears the store.
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "transport").Logger()

	if c.timeout > 0 {
		httpClient := *c.httpClient
		httpClient.Timeout = c.timeout
		c.httpClient = &httpClient
	}

	// Option stages run after the defaults
	extraRequest, extraResponse := c.requestStages, c.responseStages
	c.requestStages, c.responseStages = nil, nil

	if creds != nil {
		c.requestStages = append(c.requestStages, BearerToken(creds))
	}
	c.requestStages = append(c.requestStages, RequestID())
	c.requestStages = append(c.requestStages, extraRequest...)

	c.responseStages = append(c.responseStages, NormalizeErrors(c.log))
	if creds != nil {
		c.responseStages = append(c.responseStages, ClearOnUnauthorized(creds, c.log))
	}
	c.responseStages = append(c.responseStages, extraResponse...)

	return c
}

// BaseURL returns the API root every path is resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends one request and decodes a successful JSON body into out
// (when out is non-nil). Every failure is returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	outcome := c.send(ctx, method, path, in)
	for _, stage := range c.responseStages {
		outcome = stage(outcome)
	}

	if outcome.Err != nil {
		return outcome.Err
	}
	if out == nil || len(bytes.TrimSpace(outcome.Body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(outcome.Body, out); err != nil {
		return &APIError{
			DisplayMessage: MsgInvalidResponse,
			Status:         outcome.Status(),
			Kind:           KindServer,
			Raw:            fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

// Put performs a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPut, path, in, out)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// send makes exactly one attempt
func (c *Client) send(ctx context.Context, method, path string, in any) *Outcome {
	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return &Outcome{Err: wrapStage(ErrBuildRequest, err)}
	}

	for _, stage := range c.requestStages {
		if err := stage(req); err != nil {
			return &Outcome{Request: req, Err: wrapStage(ErrBuildRequest, err)}
		}
	}

	c.log.Debug().Str("method", method).Str("url", req.URL.Redacted()).Msg("HTTP request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Outcome{Request: req, Err: wrapStage(ErrNoResponse, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Outcome{Request: req, Err: wrapStage(ErrNoResponse, fmt.Errorf("failed to read response: %w", err))}
	}

	c.log.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("HTTP response")

	return &Outcome{Request: req, Response: resp, Body: body}
}

func (c *Client) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return req, nil
}
