package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutrabionics/storefront/internal/cli/session"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context())
		},
	}
}

func runLogout(ctx context.Context) error {
	env, err := EnvFrom(ctx)
	if err != nil {
		return err
	}
	m := session.MustFromContext(ctx)

	wasAuthenticated := m.IsAuthenticated()
	if err := m.Logout(); err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}

	if !wasAuthenticated {
		fmt.Fprintln(env.Out, "Not logged in.")
		return nil
	}
	fmt.Fprintln(env.Out, "✓ Logged out")
	return nil
}
