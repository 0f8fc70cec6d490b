package auth

import "errors"

// ErrNotFound is returned by a KV when the key has no value
var ErrNotFound = errors.New("credential not found")

// KV is the persistent key/value storage behind the credential store.
// This allows us to swap the OS keyring for a file or memory in tests.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// TokenSource hands the current bearer token to the transport layer
type TokenSource interface {
	Token() string
}
