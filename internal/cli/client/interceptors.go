package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/nutrabionics/storefront/internal/cli/auth"
)

const (
	bearerPrefix    = "Bearer "
	requestIDHeader = "X-Request-ID"
)

// RequestInterceptor mutates an outgoing request. An error aborts the
// call as a local failure.
type RequestInterceptor func(req *http.Request) error

// Outcome is what a single attempt produced: a response with its body,
// or an error
type Outcome struct {
	Request  *http.Request
	Response *http.Response
	Body     []byte
	Err      error
}

// Status returns the response status code, or zero
func (o *Outcome) Status() int {
	if o.Response == nil {
		return 0
	}
	return o.Response.StatusCode
}

// ResponseInterceptor transforms an outcome before the caller sees it
type ResponseInterceptor func(o *Outcome) *Outcome

// Credentials is what the default stages need from the credential store
type Credentials interface {
	auth.TokenSource
	Clear() error
}

// BearerToken attaches the current token to every request. A missing
// token is not an error: the server decides.
func BearerToken(tokens auth.TokenSource) RequestInterceptor {
	return func(req *http.Request) error {
		if token := tokens.Token(); token != "" {
			req.Header.Set("Authorization", bearerPrefix+token)
		}
		return nil
	}
}

// RequestID tags each request with a fresh ULID
func RequestID() RequestInterceptor {
	return func(req *http.Request) error {
		if req.Header.Get(requestIDHeader) == "" {
			req.Header.Set(requestIDHeader, ulid.Make().String())
		}
		return nil
	}
}

// NormalizeErrors turns every failed outcome into an *APIError
func NormalizeErrors(log zerolog.Logger) ResponseInterceptor {
	return func(o *Outcome) *Outcome {
		if _, ok := AsAPIError(o.Err); ok {
			return o
		}

		event := log.Debug()
		if o.Request != nil {
			event = event.Str("method", o.Request.Method).Str("url", o.Request.URL.Redacted())
		}

		switch {
		case o.Err == nil && o.Response != nil && !success(o.Response.StatusCode):
			status := o.Response.StatusCode
			o.Err = &APIError{
				DisplayMessage: ExtractMessage(o.Body),
				Status:         status,
				Kind:           KindServer,
				Raw:            &StatusError{StatusCode: status, Body: o.Body},
			}
			event.Int("status", status).Bytes("body", o.Body).Msg("API error response")

		case errors.Is(o.Err, ErrNoResponse):
			event.Err(o.Err).Msg("No response received")
			o.Err = &APIError{DisplayMessage: MsgNoConnection, Kind: KindNetwork, Raw: o.Err}

		case o.Err != nil:
			event.Err(o.Err).Msg("Error setting up request")
			o.Err = &APIError{DisplayMessage: MsgBadRequest, Kind: KindLocal, Raw: o.Err}
		}

		return o
	}
}

// ClearOnUnauthorized drops the stored session when the server answers
// 401. The error still propagates so the caller can show it; nothing
// redirects here.
func ClearOnUnauthorized(creds Credentials, log zerolog.Logger) ResponseInterceptor {
	return func(o *Outcome) *Outcome {
		if !IsUnauthorized(o.Err) {
			return o
		}
		if err := creds.Clear(); err != nil {
			log.Warn().Err(err).Msg("Failed to clear credentials after 401")
		} else {
			log.Info().Msg("Session rejected by server, credentials cleared")
		}
		return o
	}
}

func success(status int) bool {
	return status >= 200 && status < 300
}

func wrapStage(sentinel error, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}
