package domain

import (
	"fmt"
	"strings"
)

// AppID identifies a supported navigation app. Values are stable and never reused.
type AppID int

const (
	AppleMaps       AppID = 10
	Citymapper      AppID = 20
	GoogleMaps      AppID = 30
	Navigon         AppID = 40
	TransitApp      AppID = 50
	Waze            AppID = 60
	YandexNavigator AppID = 70
	CoPilot         AppID = 80
)

// AllAppIDs lists every identifier in catalog order.
var AllAppIDs = []AppID{AppleMaps, Citymapper, GoogleMaps, Navigon, TransitApp, Waze, YandexNavigator, CoPilot}

// Slug returns the wire name of the app.
func (id AppID) Slug() string {
	switch id {
	case AppleMaps:
		return "apple_maps"
	case Citymapper:
		return "citymapper"
	case GoogleMaps:
		return "google_maps"
	case Navigon:
		return "navigon"
	case TransitApp:
		return "transit"
	case Waze:
		return "waze"
	case YandexNavigator:
		return "yandex_navigator"
	case CoPilot:
		return "copilot"
	}
	return fmt.Sprintf("app_%d", int(id))
}

// DisplayName is the label shown in the chooser.
func (id AppID) DisplayName() string {
	switch id {
	case AppleMaps:
		return "Apple Maps"
	case Citymapper:
		return "Citymapper"
	case GoogleMaps:
		return "Google Maps"
	case Navigon:
		return "Navigon"
	case TransitApp:
		return "Transit App"
	case Waze:
		return "Waze"
	case YandexNavigator:
		return "Yandex Navigator"
	case CoPilot:
		return "CoPilot GPS"
	}
	return id.Slug()
}

func (id AppID) String() string { return id.Slug() }

// Valid reports whether id is one of the known identifiers.
func (id AppID) Valid() bool {
	for _, known := range AllAppIDs {
		if id == known {
			return true
		}
	}
	return false
}

// MarshalText encodes the app as its slug, so it works as a JSON value and map key.
func (id AppID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownApp, int(id))
	}
	return []byte(id.Slug()), nil
}

func (id *AppID) UnmarshalText(b []byte) error {
	parsed, err := ParseAppID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseAppID resolves a slug (case-insensitive, dashes allowed) to an AppID.
func ParseAppID(s string) (AppID, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, id := range AllAppIDs {
		if id.Slug() == norm {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownApp, s)
}

// ParseAppIDs parses a list of slugs, failing on the first unknown one.
func ParseAppIDs(slugs []string) ([]AppID, error) {
	ids := make([]AppID, 0, len(slugs))
	for _, s := range slugs {
		id, err := ParseAppID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// NavigationApp is an immutable catalog entry.
type NavigationApp struct {
	ID                 AppID  `json:"id"`
	Name               string `json:"name"`
	Prefix             string `json:"prefix"`
	CoordinateTemplate string `json:"coordinate_template,omitempty"`
	AddressTemplate    string `json:"address_template,omitempty"`
}

// SupportsAddress reports whether the app can navigate to a free-text address.
func (a NavigationApp) SupportsAddress() bool {
	return a.AddressTemplate != ""
}

// UsesOverride reports whether the app bypasses templates and is launched
// through a caller-supplied literal URL (or its bare prefix).
func (a NavigationApp) UsesOverride() bool {
	return a.ID == CoPilot
}
