package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/samirrijal/mapdispatch/internal/pkg/config"
	"github.com/samirrijal/mapdispatch/migrations"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down|version>")
	}

	cfg, err := config.Load("mapdispatch-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	m, err := newMigrator(cfg)
	if err != nil {
		log.Fatalf("migrator: %v", err)
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		v, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return
		}
		if verr != nil {
			log.Fatalf("version: %v", verr)
		}
		fmt.Printf("version %d (dirty: %t)\n", v, dirty)
		return
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("no change")
		return
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
	log.Printf("%s: done", os.Args[1])
}

// newMigrator targets the configured preference backend with the embedded
// migrations for it.
func newMigrator(cfg *config.Config) (*migrate.Migrate, error) {
	var (
		files fs.FS
		dir   string
		dbURL string
	)
	switch cfg.Preferences.Backend {
	case config.BackendPostgres:
		files, dir = migrations.Postgres, "postgres"
		dbURL = "pgx5://" + strings.TrimPrefix(cfg.Database.DSN(), "postgres://")
	case config.BackendSQLite:
		files, dir = migrations.SQLite, "sqlite"
		dbURL = "sqlite3://" + cfg.Preferences.SQLitePath
	default:
		return nil, fmt.Errorf("backend %q has no schema to migrate", cfg.Preferences.Backend)
	}

	src, err := iofs.New(files, dir)
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", src, dbURL)
}
