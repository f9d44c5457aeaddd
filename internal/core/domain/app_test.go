package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAppID_SlugRoundTrip(t *testing.T) {
	for _, id := range AllAppIDs {
		got, err := ParseAppID(id.Slug())
		if err != nil || got != id {
			t.Errorf("%s: got %v, %v", id.Slug(), got, err)
		}
	}
}

func TestParseAppID_Normalises(t *testing.T) {
	cases := map[string]AppID{
		"Google-Maps":      GoogleMaps,
		" waze ":           Waze,
		"YANDEX_NAVIGATOR": YandexNavigator,
		"apple-maps":       AppleMaps,
	}
	for in, want := range cases {
		if got, err := ParseAppID(in); err != nil || got != want {
			t.Errorf("%q: got %v, %v", in, got, err)
		}
	}
	if _, err := ParseAppID("mapquest"); !errors.Is(err, ErrUnknownApp) {
		t.Errorf("expected ErrUnknownApp, got %v", err)
	}
}

func TestParseAppIDs_FailsOnUnknown(t *testing.T) {
	if _, err := ParseAppIDs([]string{"waze", "nope"}); !errors.Is(err, ErrUnknownApp) {
		t.Errorf("expected ErrUnknownApp, got %v", err)
	}
	ids, err := ParseAppIDs([]string{"waze", "copilot"})
	if err != nil || len(ids) != 2 || ids[1] != CoPilot {
		t.Errorf("unexpected result %v, %v", ids, err)
	}
}

func TestAppID_JSON(t *testing.T) {
	in := map[AppID]string{Waze: "waze://x"}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"waze":"waze://x"}` {
		t.Errorf("unexpected json %s", data)
	}

	var out struct {
		App AppID `json:"app"`
	}
	if err := json.Unmarshal([]byte(`{"app":"citymapper"}`), &out); err != nil || out.App != Citymapper {
		t.Errorf("unmarshal: got %v, %v", out.App, err)
	}
	if _, err := json.Marshal(AppID(11)); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestAppID_StableValues(t *testing.T) {
	want := []int{10, 20, 30, 40, 50, 60, 70, 80}
	for i, id := range AllAppIDs {
		if int(id) != want[i] {
			t.Errorf("%s: expected %d, got %d", id, want[i], int(id))
		}
	}
}

func TestNavigationApp_Capabilities(t *testing.T) {
	c := MustCatalog()
	for _, id := range []AppID{Navigon, YandexNavigator, CoPilot} {
		app, _ := c.Lookup(id)
		if app.SupportsAddress() {
			t.Errorf("%s should not support addresses", id)
		}
	}
	for _, id := range AllAppIDs {
		app, _ := c.Lookup(id)
		if app.UsesOverride() != (id == CoPilot) {
			t.Errorf("%s: unexpected UsesOverride", id)
		}
	}
}
