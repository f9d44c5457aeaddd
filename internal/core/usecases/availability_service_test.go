package usecases_test

import (
	"net/url"
	"testing"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/usecases"
)

func TestAvailability_CatalogOrder(t *testing.T) {
	host := newMockHost(domain.CoPilot, domain.Waze, domain.AppleMaps)
	svc := usecases.NewAvailabilityService(domain.MustCatalog(), host)

	got := svc.AvailableApps()
	want := []domain.AppID{domain.AppleMaps, domain.Waze, domain.CoPilot}
	if len(got) != len(want) {
		t.Fatalf("expected %d apps, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i].ID)
		}
	}
}

func TestAvailability_ReprobesEveryCall(t *testing.T) {
	host := newMockHost(domain.AppleMaps)
	svc := usecases.NewAvailabilityService(domain.MustCatalog(), host)

	if n := len(svc.AvailableApps()); n != 1 {
		t.Fatalf("expected 1 app, got %d", n)
	}
	host.install(domain.GoogleMaps)
	if n := len(svc.AvailableApps()); n != 2 {
		t.Errorf("expected 2 apps after install, got %d", n)
	}
}

func TestAvailability_ProbesBarePrefix(t *testing.T) {
	var probed []string
	host := newMockHost()
	host.canOpenFn = func(u *url.URL) bool {
		probed = append(probed, u.String())
		return false
	}
	svc := usecases.NewAvailabilityService(domain.MustCatalog(), host)

	if apps := svc.AvailableApps(); len(apps) != 0 {
		t.Errorf("expected nothing available, got %v", apps)
	}
	want := []string{"http://maps.apple.com/", "citymapper://", "comgooglemaps://", "navigon://", "transit://", "waze://", "yandexnavi://", "copilot://"}
	if len(probed) != len(want) {
		t.Fatalf("expected %d probes, got %v", len(want), probed)
	}
	for i := range want {
		if probed[i] != want[i] {
			t.Errorf("probe %d: got %s, want %s", i, probed[i], want[i])
		}
	}
}
