package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// User-facing messages for failures that carry no server message
const (
	MsgDefault         = "an error occurred while processing the request"
	MsgNoConnection    = "could not connect to the server"
	MsgBadRequest      = "the request could not be prepared"
	MsgInvalidResponse = "invalid response from server"
)

var (
	// ErrBuildRequest marks failures before the request left the client
	ErrBuildRequest = errors.New("failed to create request")
	// ErrNoResponse marks requests that were sent but got no response
	ErrNoResponse = errors.New("no response from server")
)

// Kind classifies a failed call
type Kind string

const (
	KindServer  Kind = "server"  // the server answered with an error status
	KindNetwork Kind = "network" // sent, no response
	KindLocal   Kind = "local"   // never left the client
)

// APIError is the normalized envelope every failed call returns, so
// callers never parse transport errors themselves.
type APIError struct {
	DisplayMessage string
	Status         int // zero when no response was received
	Kind           Kind
	Raw            error
}

func (e *APIError) Error() string {
	return e.DisplayMessage
}

func (e *APIError) Unwrap() error {
	return e.Raw
}

// Unauthorized reports a 401 from the server
func (e *APIError) Unauthorized() bool {
	return e.Kind == KindServer && e.Status == http.StatusUnauthorized
}

// StatusError is the raw error behind a server-side failure
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, truncate(e.Body, 200))
}

// AsAPIError unwraps err into an envelope
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsUnauthorized reports whether err is a 401 envelope
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Unauthorized()
}

// messageFields are checked in priority order
var messageFields = []string{"error", "message", "msg"}

// ExtractMessage picks a human-readable message out of an error body:
// the error, message or msg field of a JSON object, then a JSON string,
// then the raw text, then MsgDefault.
func ExtractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return MsgDefault
	}

	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		// Not JSON: a plain string body
		return string(trimmed)
	}

	switch v := decoded.(type) {
	case map[string]any:
		for _, field := range messageFields {
			if msg, ok := v[field].(string); ok && msg != "" {
				return msg
			}
		}
	case string:
		if v != "" {
			return v
		}
	}

	return MsgDefault
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
