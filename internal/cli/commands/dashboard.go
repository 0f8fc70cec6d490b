package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutrabionics/storefront/internal/cli/guard"
	"github.com/nutrabionics/storefront/internal/cli/session"
)

// NewDashboardCmd creates the dashboard command, the landing view for
// any logged-in user
func NewDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash", "whoami"},
		Short:   "Show the current user and what they can do",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context())
		},
	}

	return Require(cmd, guard.Authenticated)
}

func runDashboard(ctx context.Context) error {
	env, err := EnvFrom(ctx)
	if err != nil {
		return err
	}
	m := session.MustFromContext(ctx)

	user := m.User()
	if user == nil {
		return fmt.Errorf("%w: run 'storefront login' first", ErrLoginRequired)
	}

	w := env.Out
	fmt.Fprintf(w, "Hello, %s. Welcome to Nutrabionics.\n\n", user.FullName())
	fmt.Fprintf(w, "  Email: %s\n", user.Email)
	role := "Customer"
	if m.IsAdmin() {
		role = "Admin"
	}
	fmt.Fprintf(w, "  Role:  %s\n\n", role)

	fmt.Fprintln(w, "Available commands:")
	if m.IsAdmin() {
		fmt.Fprintln(w, "  storefront products ls      Manage the catalog")
		fmt.Fprintln(w, "  storefront orders ls        All orders")
	} else {
		fmt.Fprintln(w, "  storefront orders ls        Your orders")
		fmt.Fprintln(w, "  storefront orders create    Place an order")
	}
	fmt.Fprintln(w, "  storefront logout           Log out")

	return nil
}
