package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutrabionics/storefront/internal/cli/guard"
	"github.com/nutrabionics/storefront/internal/cli/session"
)

const requirementAnnotation = "storefront.requires"

var (
	// ErrLoginRequired is returned when a protected command runs without a session
	ErrLoginRequired = errors.New("not logged in")
	// ErrAdminRequired is returned when a non-admin runs an admin command
	ErrAdminRequired = errors.New("admin access required")
	// ErrSessionPending is returned if the session never initialized
	ErrSessionPending = errors.New("session is still initializing")
)

// Require marks cmd and its subcommands as protected
func Require(cmd *cobra.Command, req guard.Requirement) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[requirementAnnotation] = req.String()
	return cmd
}

// RequirementOf returns the nearest requirement on cmd or its parents
func RequirementOf(cmd *cobra.Command) (guard.Requirement, bool) {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Annotations[requirementAnnotation] {
		case guard.Admin.String():
			return guard.Admin, true
		case guard.Authenticated.String():
			return guard.Authenticated, true
		}
	}
	return 0, false
}

// Authorize initializes the session and applies cmd's requirement.
// Public commands always pass.
func Authorize(cmd *cobra.Command) error {
	m, ok := session.FromContext(cmd.Context())
	if !ok {
		return errors.New("session manager not configured")
	}
	m.Init()

	req, protected := RequirementOf(cmd)
	if !protected {
		return nil
	}
	return DecisionError(guard.Evaluate(req, m.State()))
}

// DecisionError turns a guard decision into the error shown to the user
func DecisionError(d guard.Decision) error {
	switch d.Outcome {
	case guard.Allow:
		return nil
	case guard.Pending:
		return ErrSessionPending
	}

	if d.RedirectTo == guard.LandingPath {
		return fmt.Errorf("%w: run 'storefront dashboard' to see what you can do", ErrAdminRequired)
	}
	return fmt.Errorf("%w: run 'storefront login' first", ErrLoginRequired)
}
