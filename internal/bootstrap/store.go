// Package bootstrap wires configured backends for the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/mapdispatch/internal/adapters/memory"
	"github.com/samirrijal/mapdispatch/internal/adapters/postgres"
	"github.com/samirrijal/mapdispatch/internal/adapters/sqlite"
	"github.com/samirrijal/mapdispatch/internal/adapters/valkey"
	"github.com/samirrijal/mapdispatch/internal/core/ports"
	"github.com/samirrijal/mapdispatch/internal/pkg/config"
)

// Backend is the preference store selected by configuration. DB and Valkey
// are set only for their backends so readiness can probe them.
type Backend struct {
	Store  ports.KeyValueStore
	DB     *postgres.DB
	Valkey *valkey.Store

	closers []func()
}

// Close releases every opened connection.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// OpenBackend connects the preference store named by cfg.Preferences.Backend.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{}

	switch cfg.Preferences.Backend {
	case config.BackendValkey:
		store, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			return nil, fmt.Errorf("valkey: %w", err)
		}
		b.Store, b.Valkey = store, store
		b.closers = append(b.closers, store.Close)

	case config.BackendPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		b.Store, b.DB = postgres.NewPreferenceRepo(db), db
		b.closers = append(b.closers, db.Close)

	case config.BackendSQLite:
		db, err := sqlite.OpenMigrated(cfg.Preferences.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		store := sqlite.NewStore(db)
		b.Store = store
		b.closers = append(b.closers, func() {
			if err := store.Close(); err != nil {
				slog.Warn("close sqlite", "error", err)
			}
		})

	case config.BackendMemory:
		b.Store = memory.New()

	default:
		return nil, fmt.Errorf("unknown preference backend %q", cfg.Preferences.Backend)
	}

	slog.Info("preference store ready", "backend", cfg.Preferences.Backend)
	return b, nil
}
