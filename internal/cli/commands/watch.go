package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutrabionics/storefront/internal/cli/guard"
	"github.com/nutrabionics/storefront/internal/cli/session"
)

// NewWatchCmd creates the watch command. It stays mounted while the
// session lasts and exits with the redirect once it ends or loses the
// required role.
func NewWatchCmd() *cobra.Command {
	var admin bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the session until it ends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), guard.RequireAdmin(admin))
		},
	}

	cmd.Flags().BoolVar(&admin, "admin", false, "Require the admin role instead of any login")

	return Require(cmd, guard.Authenticated)
}

func runWatch(ctx context.Context, req guard.Requirement) error {
	env, err := EnvFrom(ctx)
	if err != nil {
		return err
	}
	m := session.MustFromContext(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	last := guard.Watch(ctx, m.Subscribe(ctx), req, func(d guard.Decision) bool {
		if d.Outcome != guard.Allow {
			return d.Outcome == guard.Pending
		}
		fmt.Fprintln(env.Out, describe(m.State()))
		return true
	})

	if last.Outcome == guard.Redirect {
		if last.RedirectTo == guard.LoginPath {
			fmt.Fprintln(env.Out, "Session ended.")
		}
		return DecisionError(last)
	}
	return nil
}

func describe(state session.State) string {
	if state.User == nil {
		return "session: anonymous"
	}
	role := "customer"
	if state.IsAdmin {
		role = "admin"
	}
	return fmt.Sprintf("session: %s <%s> (%s)", state.User.FullName(), state.User.Email, role)
}
