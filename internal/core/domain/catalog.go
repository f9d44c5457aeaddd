package domain

import "fmt"

// Prefixes accepted for the native maps app.
const (
	NativeMapsWebPrefix = "http://maps.apple.com/"
	NativeMapsPrefix    = "maps://"
)

// Catalog is the fixed, ordered registry of supported navigation apps.
type Catalog struct {
	apps  []NavigationApp
	index map[AppID]int
}

// NewCatalog builds the catalog. nativePrefix selects how the default maps
// app is addressed; an empty value means NativeMapsWebPrefix.
func NewCatalog(nativePrefix string) (*Catalog, error) {
	if nativePrefix == "" {
		nativePrefix = NativeMapsWebPrefix
	}
	if nativePrefix != NativeMapsWebPrefix && nativePrefix != NativeMapsPrefix {
		return nil, fmt.Errorf("native maps prefix must be %q or %q, got %q", NativeMapsWebPrefix, NativeMapsPrefix, nativePrefix)
	}

	entries := []NavigationApp{
		{ID: AppleMaps, Prefix: nativePrefix, CoordinateTemplate: nativePrefix + "?daddr=%f,%f", AddressTemplate: nativePrefix + "?daddr=%s"},
		{ID: Citymapper, Prefix: "citymapper://", CoordinateTemplate: "citymapper://endcoord=%f,%f", AddressTemplate: "citymapper://endaddress=%s"},
		{ID: GoogleMaps, Prefix: "comgooglemaps://", CoordinateTemplate: "comgooglemaps://?daddr=%f,%f", AddressTemplate: "comgooglemaps://?daddr=%s&directionsmode=driving"},
		{ID: Navigon, Prefix: "navigon://", CoordinateTemplate: "navigon://coordinate/Destination/%f/%f"},
		{ID: TransitApp, Prefix: "transit://", CoordinateTemplate: "transit://routes?q=%f,%f", AddressTemplate: "transit://directions?to=%s"},
		{ID: Waze, Prefix: "waze://", CoordinateTemplate: "waze://?ll=%f,%f", AddressTemplate: "waze://?q=%s"},
		{ID: YandexNavigator, Prefix: "yandexnavi://", CoordinateTemplate: "yandexnavi://build_route_on_map?lat_to=%f&lon_to=%f"},
		{ID: CoPilot, Prefix: "copilot://"},
	}
	return newCatalog(entries)
}

// MustCatalog is NewCatalog for the default prefix; it panics on error.
func MustCatalog() *Catalog {
	c, err := NewCatalog("")
	if err != nil {
		panic(err)
	}
	return c
}

func newCatalog(entries []NavigationApp) (*Catalog, error) {
	c := &Catalog{index: make(map[AppID]int, len(entries))}
	for i, e := range entries {
		if _, dup := c.index[e.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %s", e.ID)
		}
		if e.Name == "" {
			e.Name = e.ID.DisplayName()
		}
		c.index[e.ID] = i
		c.apps = append(c.apps, e)
	}
	return c, nil
}

// All returns the catalog in order. The slice is a copy.
func (c *Catalog) All() []NavigationApp {
	return append([]NavigationApp(nil), c.apps...)
}

// Lookup returns the entry for id.
func (c *Catalog) Lookup(id AppID) (NavigationApp, error) {
	i, ok := c.index[id]
	if !ok {
		return NavigationApp{}, fmt.Errorf("%w: %d", ErrUnknownApp, int(id))
	}
	return c.apps[i], nil
}

// TemplateFor returns the coordinate template and the (possibly empty) address template.
func (c *Catalog) TemplateFor(id AppID) (coordinate, address string, err error) {
	app, err := c.Lookup(id)
	if err != nil {
		return "", "", err
	}
	return app.CoordinateTemplate, app.AddressTemplate, nil
}

// Default is the baseline, always-available native maps entry.
func (c *Catalog) Default() NavigationApp {
	return c.apps[c.index[AppleMaps]]
}

// Contains reports whether ids holds id.
func Contains(ids []AppID, id AppID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
