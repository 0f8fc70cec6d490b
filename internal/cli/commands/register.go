package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutrabionics/storefront/internal/cli/forms"
	"github.com/nutrabionics/storefront/internal/cli/session"
)

type registerOptions struct {
	firstName string
	lastName  string
	email     string
	password  string
	confirm   string
}

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var opts registerOptions

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a storefront account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&opts.lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&opts.email, "email", "", "Email address")
	cmd.Flags().StringVar(&opts.password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&opts.confirm, "confirm-password", "", "Password confirmation (will prompt if not provided)")

	return cmd
}

func runRegister(ctx context.Context, opts registerOptions) error {
	env, err := EnvFrom(ctx)
	if err != nil {
		return err
	}
	m := session.MustFromContext(ctx)

	const hint = "use --password and --confirm-password flags"
	if opts.password, err = secret(env.Prompt, opts.password, "Password", hint); err != nil {
		return err
	}
	if opts.confirm, err = secret(env.Prompt, opts.confirm, "Confirm password", hint); err != nil {
		return err
	}

	form := forms.RegisterForm{
		FirstName:       opts.firstName,
		LastName:        opts.lastName,
		Email:           opts.email,
		Password:        opts.password,
		ConfirmPassword: opts.confirm,
	}
	if err := forms.Validate(form); err != nil {
		return err
	}

	epoch := m.Epoch()
	issued, err := env.API.Register(ctx, form.Request())
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if err := establish(m, epoch, issued); err != nil {
		return err
	}

	printWelcome(env.Out, "Account created!", issued.User)
	return nil
}
