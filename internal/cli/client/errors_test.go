package client

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"X"}`, "X"},
		{"message field", `{"message":"Y"}`, "Y"},
		{"msg field", `{"msg":"Z"}`, "Z"},
		{"error wins over message", `{"message":"Y","error":"X","msg":"Z"}`, "X"},
		{"message wins over msg", `{"msg":"Z","message":"Y"}`, "Y"},
		{"empty error falls through", `{"error":"","message":"Y"}`, "Y"},
		{"non-string error falls through", `{"error":{"code":1},"msg":"Z"}`, "Z"},
		{"object without known fields", `{"detail":"nope"}`, MsgDefault},
		{"json string", `"plain message"`, "plain message"},
		{"raw text", "Service Unavailable", "Service Unavailable"},
		{"raw text trimmed", "  gateway timeout\n", "gateway timeout"},
		{"empty body", "", MsgDefault},
		{"whitespace body", " \n ", MsgDefault},
		{"json number", `42`, MsgDefault},
		{"json array", `["a"]`, MsgDefault},
		{"json null", `null`, MsgDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMessage([]byte(tt.body)))
		})
	}
}

func TestAPIError(t *testing.T) {
	raw := &StatusError{StatusCode: http.StatusUnauthorized, Body: []byte(`{"error":"X"}`)}
	err := error(&APIError{DisplayMessage: "X", Status: http.StatusUnauthorized, Kind: KindServer, Raw: raw})

	assert.Equal(t, "X", err.Error())
	assert.True(t, IsUnauthorized(err))

	var statusErr *StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)

	wrapped := errors.Join(errors.New("context"), err)
	apiErr, ok := AsAPIError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "X", apiErr.DisplayMessage)

	assert.False(t, IsUnauthorized(&APIError{Status: http.StatusForbidden, Kind: KindServer}))
	assert.False(t, IsUnauthorized(errors.New("plain")))
}

func TestStatusError_TruncatesBody(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	msg := (&StatusError{StatusCode: 500, Body: long}).Error()
	assert.Less(t, len(msg), 300)
	assert.Contains(t, msg, "unexpected status 500")
}
