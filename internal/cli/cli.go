// Package cli is a terminal client for the delivery platform. It keeps its
// session record in a local file and talks to the same gateway as the web
// client.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"bybud-web/internal/apiclient"
	"bybud-web/internal/locale"
	"bybud-web/internal/logx"
	"bybud-web/internal/service/auth"
	"bybud-web/internal/service/delivery"
	"bybud-web/internal/session"
)

// SessionID names the single local session.
const SessionID = "cli"

// Deps are the services the commands use.
type Deps struct {
	Auth       authService
	Deliveries deliveryService
	Sessions   *session.Provider
	Locale     locale.Locale
}

// Options are the root flags.
type Options struct {
	GatewayURL string
	SessionDir string
	Timeout    time.Duration
	Verbose    bool
}

// Build wires real services from opts. Logs go to stderr.
func Build(opts Options, stderr io.Writer) (*Deps, error) {
	level, _ := logx.ParseLevel("warn")
	if opts.Verbose {
		level, _ = logx.ParseLevel("debug")
	}
	logger := logx.NewJSON(stderr, level)

	backend, err := session.NewFileBackend(opts.SessionDir)
	if err != nil {
		return nil, err
	}
	clients := apiclient.NewClients(opts.GatewayURL, opts.Timeout, logger, nil)
	return &Deps{
		Auth:       auth.New(clients.Auth, logger),
		Deliveries: delivery.New(clients.Delivery, logger),
		Sessions:   session.NewProvider(session.NewStore(backend, nil, logger, nil), logger),
		Locale:     locale.Default(time.Local),
	}, nil
}

func defaultSessionDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".bybud"
	}
	return filepath.Join(dir, "bybud")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewRootCmd returns the bybudctl command tree. When deps is nil it is built
// from the root flags before any subcommand runs.
func NewRootCmd(deps *Deps) *cobra.Command {
	opts := Options{
		GatewayURL: envOr("GATEWAY_URL", "http://localhost:8080"),
		SessionDir: envOr("BYBUD_SESSION_DIR", defaultSessionDir()),
		Timeout:    10 * time.Second,
	}
	a := &cliApp{deps: deps}

	root := &cobra.Command{
		Use:           "bybudctl",
		Short:         "Terminal client for ByBud deliveries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.deps != nil {
				return nil
			}
			d, err := Build(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.deps = d
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.GatewayURL, "gateway", opts.GatewayURL, "API gateway base URL")
	root.PersistentFlags().StringVar(&opts.SessionDir, "session-dir", opts.SessionDir, "directory holding the session record")
	root.PersistentFlags().DurationVar(&opts.Timeout, "timeout", opts.Timeout, "gateway request timeout (0 for none)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log gateway traffic")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.deliveriesCmd(),
		a.createCmd(),
		a.acceptCmd(),
		a.statusCmd(),
		a.cancelCmd(),
		a.unassignCmd(),
	)
	return root
}

// Execute runs the command tree with ctx and reports a failure on stderr.
func Execute(ctx context.Context, root *cobra.Command) int {
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", err)
		return 1
	}
	return 0
}

type cliApp struct {
	deps *Deps
}

// state loads the local session and returns a context carrying its record.
func (a *cliApp) state(ctx context.Context) (session.State, context.Context) {
	st := a.deps.Sessions.Load(ctx, SessionID)
	return st, session.WithState(ctx, st)
}
