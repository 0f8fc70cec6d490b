package session

import "github.com/nutrabionics/storefront/internal/cli/auth"

// AuthFlags are the booleans views gate on
type AuthFlags struct {
	IsAuthenticated bool `json:"isAuthenticated"`
	IsAdmin         bool `json:"isAdmin"`
}

// DeriveAuthFlags computes the flags from what the credential store holds
// right now and the in-memory user. Call it at every observation point;
// the result is never cached. Credentials without a user are not a login.
func DeriveAuthFlags(persisted bool, user *auth.User) AuthFlags {
	return AuthFlags{
		IsAuthenticated: persisted && user != nil,
		IsAdmin:         user.IsAdmin(),
	}
}

// State is a snapshot of the session as a view sees it
type State struct {
	User *auth.User `json:"user"`
	AuthFlags
	IsInitialized bool `json:"isInitialized"`
}

func (s State) equal(o State) bool {
	if s.AuthFlags != o.AuthFlags || s.IsInitialized != o.IsInitialized {
		return false
	}
	if s.User == nil || o.User == nil {
		return s.User == o.User
	}
	return *s.User == *o.User
}
