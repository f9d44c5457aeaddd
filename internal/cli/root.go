// Package cli implements the navigate command line.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/samirrijal/mapdispatch/internal/adapters/apphost"
	natsadapter "github.com/samirrijal/mapdispatch/internal/adapters/nats"
	"github.com/samirrijal/mapdispatch/internal/adapters/tui"
	"github.com/samirrijal/mapdispatch/internal/bootstrap"
	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/ports"
	"github.com/samirrijal/mapdispatch/internal/core/usecases"
	"github.com/samirrijal/mapdispatch/internal/pkg/config"
	"github.com/samirrijal/mapdispatch/internal/pkg/logging"
)

// Globals are the persistent flags shared by every subcommand.
type Globals struct {
	Backend string
	Scope   string
	Publish bool
	Verbose bool
}

// Env is what a subcommand runs against.
type Env struct {
	Catalog   *domain.Catalog
	Store     ports.KeyValueStore
	Host      ports.AppHost
	UI        ports.ChooserUI
	Publisher ports.EventPublisher
	Prompt    usecases.Prompt
	Scope     string

	closers []func()
}

// Close releases the env's connections.
func (e *Env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// Preferences returns the preference service for the env's scope.
func (e *Env) Preferences() *usecases.PreferenceService {
	return usecases.NewPreferenceService(e.Store, e.Scope)
}

// Dispatcher wires a DispatchService from the env.
func (e *Env) Dispatcher() *usecases.DispatchService {
	return usecases.NewDispatchService(
		usecases.NewAvailabilityService(e.Catalog, e.Host),
		e.Preferences(),
		usecases.NewChooserService(e.UI),
		e.Host,
		e.Publisher,
		e.Prompt,
	)
}

// EnvFactory builds the Env for one invocation.
type EnvFactory func(cmd *cobra.Command, g Globals) (*Env, error)

// NewRootCmd builds the navigate command tree.
func NewRootCmd(newEnv EnvFactory) *cobra.Command {
	var g Globals

	root := &cobra.Command{
		Use:   "navigate",
		Short: "Open directions in the navigation app of your choice",
		Long: `navigate asks which installed navigation app to use for directions,
optionally remembers the answer, and launches the app at the destination.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.Backend, "backend", config.BackendSQLite, "Preference store (valkey, postgres, sqlite, memory)")
	root.PersistentFlags().StringVar(&g.Scope, "scope", "", "Preference slot to use (default from config)")
	root.PersistentFlags().BoolVar(&g.Publish, "publish", false, "Publish launch events to NATS")
	root.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "Log debug output to stderr")

	var withEnv envRunner = func(run func(cmd *cobra.Command, args []string, env *Env) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			defer env.Close()
			return run(cmd, args, env)
		}
	}

	root.AddCommand(
		newAppsCmd(withEnv),
		newToCmd(withEnv),
		newAddressCmd(withEnv),
		newDefaultCmd(withEnv),
		newPreferenceCmd(withEnv),
		newResetCmd(withEnv),
	)
	return root
}

type envRunner func(run func(cmd *cobra.Command, args []string, env *Env) error) func(*cobra.Command, []string) error

// DefaultEnv loads configuration and wires the desktop host, the terminal
// chooser and the configured preference store.
func DefaultEnv(cmd *cobra.Command, g Globals) (*Env, error) {
	level := "warn"
	if g.Verbose {
		level = "debug"
	}
	logging.SetupWriter(cmd.ErrOrStderr(), level, "text")

	cfg, err := config.Load("mapdispatch-navigate")
	if err != nil {
		return nil, err
	}
	if g.Backend != "" {
		cfg.Preferences.Backend = g.Backend
	}
	if g.Scope != "" {
		cfg.Preferences.Scope = g.Scope
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog, err := domain.NewCatalog(cfg.Navigation.NativeMapsPrefix)
	if err != nil {
		return nil, err
	}
	backend, err := bootstrap.OpenBackend(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("preference store: %w", err)
	}

	var host ports.AppHost = apphost.NewDesktop(cfg.Navigation.Opener, cfg.Navigation.LaunchTimeout, nil, slog.Default())
	if !cfg.Navigation.DisableMapsFallback {
		host = apphost.NewMapsFallback(host)
	}

	env := &Env{
		Catalog: catalog,
		Store:   backend.Store,
		Host:    host,
		UI:      tui.NewSheet(cmd.InOrStdin(), cmd.ErrOrStderr(), slog.Default()),
		Prompt: usecases.Prompt{
			Title:       cfg.Chooser.Title,
			Message:     cfg.Chooser.Message,
			CancelLabel: cfg.Chooser.CancelLabel,
		},
		Scope:   cfg.Preferences.Scope,
		closers: []func(){backend.Close},
	}

	if g.Publish {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, launch events disabled", "error", err)
		} else {
			env.Publisher = pub
			env.closers = append(env.closers, pub.Close)
		}
	}
	return env, nil
}
