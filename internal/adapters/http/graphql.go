package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to the catalog and store.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	appType := graphql.NewObject(graphql.ObjectConfig{
		Name: "App",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"name":             &graphql.Field{Type: graphql.String},
			"prefix":           &graphql.Field{Type: graphql.String},
			"supports_address": &graphql.Field{Type: graphql.Boolean},
			"uses_override":    &graphql.Field{Type: graphql.Boolean},
		},
	})

	preferenceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Preference",
		Fields: graphql.Fields{
			"scope":       &graphql.Field{Type: graphql.String},
			"app":         &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"fingerprint": &graphql.Field{Type: graphql.String},
			"saved_at":    &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"apps": &graphql.Field{
				Type:        graphql.NewList(appType),
				Description: "List navigation apps in catalog order, optionally only those the given URL schemes can launch",
				Args: graphql.FieldConfigArgument{
					"schemes": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, ok := p.Args["schemes"].([]interface{})
					if !ok {
						return listApps(deps.Catalog, nil), nil
					}
					schemes := make([]string, 0, len(raw))
					for _, s := range raw {
						if str, ok := s.(string); ok {
							schemes = append(schemes, str)
						}
					}
					return listApps(deps.Catalog, schemes), nil
				},
			},
			"app": &graphql.Field{
				Type:        appType,
				Description: "Get a navigation app by id",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw := p.Args["id"].(string)
					id, err := domain.ParseAppID(raw)
					if err != nil {
						return nil, errors.New(unknownAppMessage(raw))
					}
					app, err := deps.Catalog.Lookup(id)
					if err != nil {
						return nil, err
					}
					return toAppResponse(app), nil
				},
			},
			"link": &graphql.Field{
				Type:        graphql.String,
				Description: "Build the launch URL for an app and destination",
				Args: graphql.FieldConfigArgument{
					"app":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lat":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"address":  &graphql.ArgumentConfig{Type: graphql.String},
					"override": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					req := LinkRequest{App: p.Args["app"].(string), Lat: &lat, Lon: &lon}
					if addr, ok := p.Args["address"].(string); ok {
						req.Address = addr
					}
					if override, ok := p.Args["override"].(string); ok {
						req.Override = &override
					}
					resp, err := buildLink(deps.Catalog, req)
					if errors.Is(err, domain.ErrUnknownApp) {
						return nil, errors.New(unknownAppMessage(req.App))
					}
					if err != nil {
						return nil, err
					}
					return resp.URL, nil
				},
			},
			"preference": &graphql.Field{
				Type:        preferenceType,
				Description: "The remembered app of a scope, or null",
				Args: graphql.FieldConfigArgument{
					"scope": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					scope := p.Args["scope"].(string)
					if !validScope(scope) {
						return nil, errors.New("invalid scope")
					}
					choice, err := deps.Preferences(scope).Current(p.Context)
					if errors.Is(err, domain.ErrPreferenceNotSet) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"scope":       scope,
						"app":         choice.App.Slug(),
						"name":        choice.App.DisplayName(),
						"fingerprint": choice.Fingerprint,
						"saved_at":    choice.SavedAt.UTC().Format("2006-01-02T15:04:05Z"),
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
