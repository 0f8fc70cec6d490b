package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nutrabionics/storefront/internal/cli/auth"
	"github.com/nutrabionics/storefront/internal/cli/client"
	"github.com/nutrabionics/storefront/internal/cli/commands"
	"github.com/nutrabionics/storefront/internal/cli/config"
	"github.com/nutrabionics/storefront/internal/cli/output"
	"github.com/nutrabionics/storefront/internal/cli/session"
	"github.com/nutrabionics/storefront/internal/logger"
)

var version = "dev" // Will be set during build

// Option customizes how the root command builds its dependencies
type Option func(*rootOptions)

type rootOptions struct {
	loadConfig func() (*config.Config, error)
	kv         auth.KV
	httpClient *http.Client
	prompt     commands.Prompter
	logOut     io.Writer
}

// WithConfigLoader replaces config.Load
func WithConfigLoader(load func() (*config.Config, error)) Option {
	return func(o *rootOptions) {
		o.loadConfig = load
	}
}

// WithCredentialKV replaces the configured credentials backend
func WithCredentialKV(kv auth.KV) Option {
	return func(o *rootOptions) {
		o.kv = kv
	}
}

// WithHTTPClient sets the HTTP client used for API calls
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *rootOptions) {
		o.httpClient = httpClient
	}
}

// WithPrompter replaces the terminal prompter
func WithPrompter(p commands.Prompter) Option {
	return func(o *rootOptions) {
		o.prompt = p
	}
}

// WithLogOutput sends logs to w instead of stderr
func WithLogOutput(w io.Writer) Option {
	return func(o *rootOptions) {
		o.logOut = w
	}
}

// NewRootCmd builds the storefront command tree
func NewRootCmd(opts ...Option) *cobra.Command {
	o := rootOptions{
		loadConfig: config.Load,
		prompt:     commands.TerminalPrompter{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	var apiURL, credentials, format string

	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "Nutrabionics storefront client",
		Long: `Storefront CLI - Browse and manage the Nutrabionics storefront.

Log in once and the session is kept in your OS keychain (or a credentials
file) until you log out or the server rejects it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsSession(cmd) {
				return nil
			}

			cfg, err := o.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("api-url") {
				cfg.API.URL = apiURL
			}
			if cmd.Flags().Changed("credentials") {
				cfg.Credentials.Backend = credentials
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			outFormat, err := output.ParseFormat(format)
			if err != nil {
				return err
			}

			return setup(cmd, o, cfg, outFormat)
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Storefront API base URL (or set STOREFRONT_API_URL)")
	rootCmd.PersistentFlags().StringVar(&credentials, "credentials", "", "Credentials backend: keyring, file or memory (or set STOREFRONT_CREDENTIALS)")
	rootCmd.PersistentFlags().StringVarP(&format, "output", "o", "table", "Output format: table, json or yaml")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "storefront version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewDashboardCmd())
	rootCmd.AddCommand(commands.NewProductsCmd())
	rootCmd.AddCommand(commands.NewOrdersCmd())
	rootCmd.AddCommand(commands.NewWatchCmd())

	return rootCmd
}

// setup builds the process-wide session, mounts it on cmd's context,
// applies the guard and starts reconciliation until the context ends
func setup(cmd *cobra.Command, o rootOptions, cfg *config.Config, format output.Format) error {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, o.logOut)

	kv := o.kv
	if kv == nil {
		kv = credentialBackend(cfg)
	}
	store := auth.NewStore(kv, log)

	clientOpts := []client.Option{
		client.WithLogger(log),
		client.WithTimeout(cfg.API.Timeout),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(o.httpClient))
	}
	api := client.New(cfg.API.URL, store, clientOpts...)

	manager := session.New(store,
		session.WithCheckInterval(cfg.Session.CheckInterval),
		session.WithLogger(log),
	)

	ctx := session.NewContext(cmd.Context(), manager)
	ctx = commands.NewContext(ctx, &commands.Env{
		API:    api,
		Out:    cmd.OutOrStdout(),
		Prompt: o.prompt,
		Format: format,
		Log:    log,
	})
	cmd.SetContext(ctx)

	log.Debug().
		Str("api_url", cfg.API.URL).
		Str("credentials", cfg.Credentials.Backend).
		Str("command", cmd.CommandPath()).
		Msg("Starting command")

	if err := commands.Authorize(cmd); err != nil {
		return err
	}

	go manager.Run(ctx)

	return nil
}

func credentialBackend(cfg *config.Config) auth.KV {
	switch cfg.Credentials.Backend {
	case config.BackendFile:
		return auth.NewFileKV(cfg.Credentials.File)
	case config.BackendMemory:
		return auth.NewMemoryKV()
	}
	return auth.NewKeyring(cfg.APIHost())
}

// needsSession is false for commands that never touch the API
func needsSession(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// Execute runs the root command until it returns or the process is
// interrupted. Cancelling the context stops session reconciliation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
