package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/samirrijal/mapdispatch/internal/adapters/memory"
	"github.com/samirrijal/mapdispatch/internal/adapters/sqlite"
	"github.com/samirrijal/mapdispatch/internal/pkg/config"
)

func TestOpenBackend_Memory(t *testing.T) {
	cfg := &config.Config{Preferences: config.PreferencesConfig{Backend: config.BackendMemory}}
	b, err := OpenBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer b.Close()
	if _, ok := b.Store.(*memory.Store); !ok {
		t.Errorf("expected memory store, got %T", b.Store)
	}
	if b.DB != nil || b.Valkey != nil {
		t.Error("memory backend must not expose readiness targets")
	}
}

func TestOpenBackend_SQLite(t *testing.T) {
	cfg := &config.Config{Preferences: config.PreferencesConfig{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "prefs.db"),
	}}
	b, err := OpenBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer b.Close()

	if _, ok := b.Store.(*sqlite.Store); !ok {
		t.Fatalf("expected sqlite store, got %T", b.Store)
	}
	ctx := context.Background()
	if err := b.Store.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, err := b.Store.Get(ctx, "k"); err != nil || string(got) != "v" {
		t.Errorf("get: %q %v", got, err)
	}
}

func TestOpenBackend_Unknown(t *testing.T) {
	cfg := &config.Config{Preferences: config.PreferencesConfig{Backend: "etcd"}}
	if _, err := OpenBackend(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}
