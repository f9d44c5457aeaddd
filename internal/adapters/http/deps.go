package http

import (
	natsadapter "github.com/samirrijal/mapdispatch/internal/adapters/nats"
	"github.com/samirrijal/mapdispatch/internal/adapters/postgres"
	"github.com/samirrijal/mapdispatch/internal/adapters/valkey"
	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/ports"
	"github.com/samirrijal/mapdispatch/internal/core/usecases"
)

// Dependencies holds everything the HTTP handlers and sessions need.
type Dependencies struct {
	Catalog *domain.Catalog
	// Store backs the per-scope preference slots.
	Store     ports.KeyValueStore
	Publisher ports.EventPublisher
	Prompt    usecases.Prompt
	// MapsFallback rewrites unopenable maps:// links to the web endpoint in sessions.
	MapsFallback bool

	// Readiness targets; nil when the backend is not in use.
	DB     *postgres.DB
	Valkey *valkey.Store
	NATS   *natsadapter.Publisher
}

// Preferences returns the preference service for one scope.
func (d *Dependencies) Preferences(scope string) *usecases.PreferenceService {
	return usecases.NewPreferenceService(d.Store, scope)
}
