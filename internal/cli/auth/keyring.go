package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const servicePrefix = "storefront-cli"

// Keyring stores credentials in the OS keychain/credential manager
type Keyring struct {
	service string
}

// NewKeyring returns a keychain backend scoped to one API host, so
// sessions against different backends do not overwrite each other
func NewKeyring(apiHost string) *Keyring {
	service := servicePrefix
	if apiHost != "" {
		service = fmt.Sprintf("%s:%s", servicePrefix, apiHost)
	}
	return &Keyring{service: service}
}

func (k *Keyring) Get(key string) (string, error) {
	value, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return value, nil
}

func (k *Keyring) Set(key, value string) error {
	if err := keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

func (k *Keyring) Delete(key string) error {
	if err := keyring.Delete(k.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}
