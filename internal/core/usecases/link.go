package usecases

import (
	"fmt"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
)

// BuildLink produces the launch URL for app and dest.
//
// Override-based apps use overrides[app] when present, else their bare
// prefix. Address destinations use the address template when the app has
// one and fall back to the coordinate template with the fallback
// coordinates otherwise.
func BuildLink(app domain.NavigationApp, dest domain.Destination, overrides map[domain.AppID]string) (string, error) {
	if app.UsesOverride() {
		if custom, ok := overrides[app.ID]; ok {
			if custom == "" {
				return "", fmt.Errorf("%w: empty override for %s", domain.ErrURLBuildFailed, app.ID)
			}
			return custom, nil
		}
		return app.Prefix, nil
	}

	if dest.IsAddress() && app.SupportsAddress() {
		link := fmt.Sprintf(app.AddressTemplate, domain.EscapeAddress(dest.Address))
		if link == "" {
			return "", fmt.Errorf("%w: no address template for %s", domain.ErrURLBuildFailed, app.ID)
		}
		return link, nil
	}

	if app.CoordinateTemplate == "" {
		return "", fmt.Errorf("%w: no coordinate template for %s", domain.ErrURLBuildFailed, app.ID)
	}
	return fmt.Sprintf(app.CoordinateTemplate, dest.Coordinates.Lat, dest.Coordinates.Lon), nil
}
