package usecases

import (
	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/ports"
)

// AvailabilityService discovers which catalog apps the host can launch.
type AvailabilityService struct {
	catalog *domain.Catalog
	host    ports.AppHost
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(catalog *domain.Catalog, host ports.AppHost) *AvailabilityService {
	return &AvailabilityService{catalog: catalog, host: host}
}

// Catalog returns the catalog being probed.
func (s *AvailabilityService) Catalog() *domain.Catalog {
	return s.catalog
}

// Probe reports whether the host can open the app's scheme prefix.
func (s *AvailabilityService) Probe(app domain.NavigationApp) bool {
	u, err := domain.ParseLaunchURL(app.Prefix)
	if err != nil {
		return false
	}
	return s.host.CanOpen(u)
}

// AvailableApps returns the launchable apps in catalog order. The answer can
// change between calls, so callers must not cache it across requests.
func (s *AvailabilityService) AvailableApps() []domain.NavigationApp {
	var out []domain.NavigationApp
	for _, app := range s.catalog.All() {
		if s.Probe(app) {
			out = append(out, app)
		}
	}
	return out
}
