package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Persisted keys. Both are written together and removed together.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Store persists the session token and cached user record on top of a KV
type Store struct {
	kv  KV
	log zerolog.Logger
}

// NewStore wraps kv as the credential store
func NewStore(kv KV, log zerolog.Logger) *Store {
	return &Store{
		kv:  kv,
		log: log.With().Str("component", "credentials").Logger(),
	}
}

// Save persists token and user, overwriting any existing entry
func (s *Store) Save(session Session) error {
	if !session.Present() {
		return fmt.Errorf("cannot save an incomplete session")
	}

	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := s.kv.Set(TokenKey, session.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if err := s.kv.Set(UserKey, string(userJSON)); err != nil {
		// A token without a user is not a session; don't leave one behind
		if rbErr := s.kv.Delete(TokenKey); rbErr != nil {
			s.log.Warn().Err(rbErr).Msg("Failed to roll back token after user write failure")
		}
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// Load reads the persisted session. Missing keys and an unparseable,
// null or ID-less user degrade to the absent session with a nil error; only a storage read
// failure is returned, still alongside the absent session.
func (s *Store) Load() (Session, error) {
	token, err := s.get(TokenKey)
	if err != nil || token == "" {
		return Session{}, err
	}

	userJSON, err := s.get(UserKey)
	if err != nil || userJSON == "" {
		return Session{}, err
	}

	var user *User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		s.log.Warn().Err(err).Msg("Stored user record is not valid JSON, treating session as absent")
		return Session{}, nil
	}

	session := Session{User: user, Token: token}
	if !session.Present() {
		s.log.Warn().Msg("Stored user record is empty, treating session as absent")
		return Session{}, nil
	}
	return session, nil
}

// Clear removes both entries; clearing an empty store is not an error
func (s *Store) Clear() error {
	tokenErr := s.kv.Delete(TokenKey)
	userErr := s.kv.Delete(UserKey)
	if err := errors.Join(tokenErr, userErr); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// IsPersisted reports whether both token and user are present. No
// validity check is made; the server is the only authority on that.
func (s *Store) IsPersisted() bool {
	token, err := s.get(TokenKey)
	if err != nil || token == "" {
		return false
	}
	user, err := s.get(UserKey)
	return err == nil && user != ""
}

// Token returns the persisted bearer token, or "" when there is none
func (s *Store) Token() string {
	token, err := s.get(TokenKey)
	if err != nil {
		s.log.Debug().Err(err).Msg("Failed to read token")
		return ""
	}
	return token
}

// get maps ErrNotFound to an empty value
func (s *Store) get(key string) (string, error) {
	value, err := s.kv.Get(key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return value, err
}
