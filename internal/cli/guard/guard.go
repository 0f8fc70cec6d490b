// Package guard decides whether a protected view may render for the
// current session state.
package guard

import (
	"context"

	"github.com/nutrabionics/storefront/internal/cli/session"
)

// Redirect targets
const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

// Requirement is the capability a view needs
type Requirement int

const (
	// Authenticated views need a logged-in user
	Authenticated Requirement = iota
	// Admin views need a logged-in admin
	Admin
)

// RequireAdmin maps the requireAdmin flag to a Requirement
func RequireAdmin(requireAdmin bool) Requirement {
	if requireAdmin {
		return Admin
	}
	return Authenticated
}

func (r Requirement) String() string {
	if r == Admin {
		return "admin"
	}
	return "authenticated"
}

// Outcome of a guard check
type Outcome int

const (
	// Pending means the session is not initialized yet; render a neutral
	// loading state and decide nothing
	Pending Outcome = iota
	Allow
	Redirect
)

// Decision is the result of evaluating a requirement
type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

// Evaluate applies req to state
func Evaluate(req Requirement, state session.State) Decision {
	switch {
	case !state.IsInitialized:
		return Decision{Outcome: Pending}
	case !state.IsAuthenticated:
		return Decision{Outcome: Redirect, RedirectTo: LoginPath}
	case req == Admin && !state.IsAdmin:
		return Decision{Outcome: Redirect, RedirectTo: LandingPath}
	}
	return Decision{Outcome: Allow}
}

// Watch re-evaluates req on every state from states and hands the
// decision to fn until fn returns false, states closes or ctx is done.
// It returns the last decision made.
func Watch(ctx context.Context, states <-chan session.State, req Requirement, fn func(Decision) bool) Decision {
	last := Decision{Outcome: Pending}
	for {
		select {
		case <-ctx.Done():
			return last
		case state, ok := <-states:
			if !ok {
				return last
			}
			last = Evaluate(req, state)
			if !fn(last) {
				return last
			}
		}
	}
}
