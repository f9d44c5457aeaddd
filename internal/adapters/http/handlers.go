package http

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/mapdispatch/internal/adapters/apphost"
	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/usecases"
	"github.com/samirrijal/mapdispatch/internal/pkg/logging"
)

var scopePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// validScope reports whether s can name a preference slot.
func validScope(s string) bool {
	return scopePattern.MatchString(s)
}

// AppResponse is the public view of a catalog entry.
type AppResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Prefix          string `json:"prefix"`
	SupportsAddress bool   `json:"supports_address"`
	UsesOverride    bool   `json:"uses_override"`
}

func toAppResponse(a domain.NavigationApp) AppResponse {
	return AppResponse{
		ID:              a.ID.Slug(),
		Name:            a.Name,
		Prefix:          a.Prefix,
		SupportsAddress: a.SupportsAddress(),
		UsesOverride:    a.UsesOverride(),
	}
}

// listApps returns the catalog, or only the apps a client with the given
// schemes installed could launch.
func listApps(catalog *domain.Catalog, schemes []string) []AppResponse {
	apps := catalog.All()
	if schemes != nil {
		apps = usecases.NewAvailabilityService(catalog, apphost.NewAnnounced(schemes)).AvailableApps()
	}
	out := make([]AppResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toAppResponse(a))
	}
	return out
}

// ListAppsHandler returns the app catalog in order.
// ?schemes=waze,comgooglemaps filters it to what those schemes can launch.
func ListAppsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var schemes []string
		if raw := c.Query("schemes"); raw != "" {
			schemes = strings.Split(raw, ",")
		}
		return c.JSON(fiber.Map{"data": listApps(deps.Catalog, schemes)})
	}
}

// GetAppHandler returns one catalog entry by slug.
func GetAppHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params("id")
		id, err := domain.ParseAppID(raw)
		if err != nil {
			return errNotFound(c, unknownAppMessage(raw))
		}
		app, err := deps.Catalog.Lookup(id)
		if err != nil {
			return errNotFound(c, unknownAppMessage(raw))
		}
		return c.JSON(toAppResponse(app))
	}
}

// LinkRequest asks for the launch URL of one app without launching it.
type LinkRequest struct {
	App      string   `json:"app"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	Address  string   `json:"address,omitempty"`
	Override *string  `json:"override,omitempty"`
}

// LinkResponse carries a built launch URL.
type LinkResponse struct {
	App string `json:"app"`
	URL string `json:"url"`
}

// buildLink validates req and produces its URL. Errors wrapping
// domain.ErrUnknownApp or domain.ErrInvalidCoordinates are the caller's fault.
func buildLink(catalog *domain.Catalog, req LinkRequest) (LinkResponse, error) {
	id, err := domain.ParseAppID(req.App)
	if err != nil {
		return LinkResponse{}, err
	}
	app, err := catalog.Lookup(id)
	if err != nil {
		return LinkResponse{}, err
	}
	if req.Lat == nil || req.Lon == nil {
		return LinkResponse{}, errors.Join(domain.ErrInvalidCoordinates, errors.New("lat and lon are required"))
	}
	to := domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon}
	if err := to.Validate(); err != nil {
		return LinkResponse{}, err
	}

	dest := domain.ToCoordinates(to)
	if req.Address != "" {
		dest = domain.ToAddress(req.Address, to)
	}
	var overrides map[domain.AppID]string
	if req.Override != nil {
		overrides = map[domain.AppID]string{id: *req.Override}
	}

	link, err := usecases.BuildLink(app, dest, overrides)
	if err != nil {
		return LinkResponse{}, err
	}
	return LinkResponse{App: id.Slug(), URL: link}, nil
}

// CreateLinkHandler builds the launch URL for one app and destination.
func CreateLinkHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LinkRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		resp, err := buildLink(deps.Catalog, req)
		switch {
		case err == nil:
			return c.Status(fiber.StatusCreated).JSON(resp)
		case errors.Is(err, domain.ErrUnknownApp):
			return errBadRequest(c, unknownAppMessage(req.App))
		case errors.Is(err, domain.ErrInvalidCoordinates):
			return errBadRequest(c, err.Error())
		case errors.Is(err, domain.ErrURLBuildFailed):
			return errUnprocessable(c, err.Error())
		default:
			return errInternal(c, err.Error())
		}
	}
}

// PreferenceResponse is the stored slot of one scope.
type PreferenceResponse struct {
	Scope       string `json:"scope"`
	App         string `json:"app"`
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint"`
	SavedAt     string `json:"saved_at"`
}

// GetPreferenceHandler returns the remembered app of a scope, whatever app
// set it was chosen from.
func GetPreferenceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := c.Params("scope")
		if !validScope(scope) {
			return errBadRequest(c, "invalid scope")
		}

		choice, err := deps.Preferences(scope).Current(c.UserContext())
		if errors.Is(err, domain.ErrPreferenceNotSet) {
			return errNotFound(c, "no remembered app for scope "+scope)
		}
		if err != nil {
			logging.FromContext(c.UserContext()).Error("read preference", "scope", scope, "error", err)
			return errInternal(c, "preference store unavailable")
		}

		return c.JSON(PreferenceResponse{
			Scope:       scope,
			App:         choice.App.Slug(),
			Name:        choice.App.DisplayName(),
			Fingerprint: choice.Fingerprint,
			SavedAt:     choice.SavedAt.Format(time.RFC3339),
		})
	}
}

// DeletePreferenceHandler forgets the remembered app of a scope.
func DeletePreferenceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := c.Params("scope")
		if !validScope(scope) {
			return errBadRequest(c, "invalid scope")
		}
		if err := deps.Preferences(scope).Reset(c.UserContext()); err != nil {
			logging.FromContext(c.UserContext()).Error("reset preference", "scope", scope, "error", err)
			return errInternal(c, "preference store unavailable")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
