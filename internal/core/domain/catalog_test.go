package domain

import (
	"errors"
	"math"
	"testing"
)

func TestCatalog_OrderAndNames(t *testing.T) {
	apps := MustCatalog().All()
	if len(apps) != len(AllAppIDs) {
		t.Fatalf("expected %d entries, got %d", len(AllAppIDs), len(apps))
	}
	for i, app := range apps {
		if app.ID != AllAppIDs[i] {
			t.Errorf("position %d: expected %s, got %s", i, AllAppIDs[i], app.ID)
		}
		if app.Name != app.ID.DisplayName() {
			t.Errorf("%s: unexpected name %q", app.ID, app.Name)
		}
	}
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c := MustCatalog()
	apps := c.All()
	apps[0].Prefix = "tampered://"
	if c.Default().Prefix != NativeMapsWebPrefix {
		t.Error("catalog mutated through All()")
	}
}

func TestCatalog_NativePrefix(t *testing.T) {
	c, err := NewCatalog(NativeMapsPrefix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := c.Default()
	if def.ID != AppleMaps || def.Prefix != "maps://" || def.CoordinateTemplate != "maps://?daddr=%f,%f" {
		t.Errorf("unexpected default %+v", def)
	}
	if _, err := NewCatalog("geo:"); err == nil {
		t.Error("expected error for unsupported prefix")
	}
}

func TestCatalog_Lookup(t *testing.T) {
	c := MustCatalog()
	coord, addr, err := c.TemplateFor(Navigon)
	if err != nil || coord != "navigon://coordinate/Destination/%f/%f" || addr != "" {
		t.Errorf("unexpected templates %q %q %v", coord, addr, err)
	}
	if _, err := c.Lookup(AppID(15)); !errors.Is(err, ErrUnknownApp) {
		t.Errorf("expected ErrUnknownApp, got %v", err)
	}
}

func TestCatalog_RejectsDuplicates(t *testing.T) {
	_, err := newCatalog([]NavigationApp{{ID: Waze}, {ID: Waze}})
	if err == nil {
		t.Fatal("expected duplicate error")
	}
}

func TestGeoPoint_Validate(t *testing.T) {
	ok := []GeoPoint{{0, 0}, {90, 180}, {-90, -180}, {43.263, -2.935}}
	for _, p := range ok {
		if err := p.Validate(); err != nil {
			t.Errorf("%v: unexpected error %v", p, err)
		}
	}
	bad := []GeoPoint{
		{90.1, 0}, {0, -180.5},
		{math.NaN(), 0}, {0, math.NaN()},
		{math.Inf(1), 0}, {0, math.Inf(-1)},
	}
	for _, p := range bad {
		if err := p.Validate(); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("%v: expected ErrInvalidCoordinates, got %v", p, err)
		}
	}
}
