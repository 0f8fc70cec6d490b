package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nutrabionics/storefront/internal/cli/auth"
	"github.com/nutrabionics/storefront/internal/cli/forms"
	"github.com/nutrabionics/storefront/internal/cli/session"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the storefront",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set STOREFRONT_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set STOREFRONT_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, email, password string) error {
	env, err := EnvFrom(ctx)
	if err != nil {
		return err
	}
	m := session.MustFromContext(ctx)

	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("STOREFRONT_EMAIL")
	}
	if password == "" {
		password = os.Getenv("STOREFRONT_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or STOREFRONT_EMAIL env var)")
	}

	password, err = secret(env.Prompt, password, "Password", "use --password flag or STOREFRONT_PASSWORD env var")
	if err != nil {
		return err
	}

	form := forms.LoginForm{Email: email, Password: password}
	if err := forms.Validate(form); err != nil {
		return err
	}

	// Take the epoch before the round trip so a logout meanwhile wins
	epoch := m.Epoch()
	issued, err := env.API.Login(ctx, form.Request())
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := establish(m, epoch, issued); err != nil {
		return err
	}

	env.Log.Debug().Str("user_id", issued.User.ID).Msg("Logged in")
	printWelcome(env.Out, "Login successful!", issued.User)
	return nil
}

// establish stores a freshly issued session unless a logout happened
// after epoch was taken
func establish(m *session.Manager, epoch uint64, issued *auth.Session) error {
	err := m.LoginAt(epoch, *issued)
	switch {
	case errors.Is(err, session.ErrStaleLogin):
		return fmt.Errorf("logged out while the request was in flight, not saving the session")
	case err != nil:
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func printWelcome(w io.Writer, headline string, user *auth.User) {
	fmt.Fprintf(w, "✓ %s\n", headline)
	fmt.Fprintf(w, "  User: %s (%s)\n", user.FullName(), user.Email)
	if user.IsAdmin() {
		fmt.Fprintln(w, "  Role: Admin")
	}
}
