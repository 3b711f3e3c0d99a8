package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/clubin-web/internal/ratelimit"
)

const (
	tagCatalog    = "Catalog"
	tagShortLinks = "Short links"
)

// RegisterRoutes registers the JSON API.
func RegisterRoutes(api huma.API, catalogHandler *CatalogHandler, shortLinkHandler *ShortLinkHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-clubs",
		Method:      http.MethodGet,
		Path:        "/api/clubs",
		Summary:     "List clubs",
		Tags:        []string{tagCatalog},
	}, catalogHandler.ListClubs)

	huma.Register(api, huma.Operation{
		OperationID: "get-club",
		Method:      http.MethodGet,
		Path:        "/api/clubs/{id}",
		Summary:     "Get a club",
		Tags:        []string{tagCatalog},
	}, catalogHandler.GetClub)

	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "List events",
		Tags:        []string{tagCatalog},
	}, catalogHandler.ListEvents)

	huma.Register(api, huma.Operation{
		OperationID: "get-event",
		Method:      http.MethodGet,
		Path:        "/api/events/{id}",
		Summary:     "Get an event",
		Tags:        []string{tagCatalog},
	}, catalogHandler.GetEvent)

	huma.Register(api, huma.Operation{
		OperationID: "get-promoter",
		Method:      http.MethodGet,
		Path:        "/api/promoters/{id}",
		Summary:     "Get a promoter profile",
		Tags:        []string{tagCatalog},
	}, catalogHandler.GetPromoter)

	huma.Register(api, huma.Operation{
		OperationID:   "create-short-link",
		Method:        http.MethodPost,
		Path:          "/api/shortlinks",
		Summary:       "Create a short link",
		Description:   "Creates a short code for an event or club.",
		Tags:          []string{tagShortLinks},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: ratelimit.ShortLinkLimits(),
			},
		},
	}, shortLinkHandler.CreateShortLink)

	huma.Register(api, huma.Operation{
		OperationID: "resolve-short-link",
		Method:      http.MethodGet,
		Path:        "/api/shortlinks/{code}",
		Summary:     "Resolve a short link",
		Description: "Returns the short link together with the event or club it points to.",
		Tags:        []string{tagShortLinks},
	}, shortLinkHandler.ResolveShortLink)
}

// RegisterPages registers the server rendered pages. They are kept out of
// the OpenAPI document.
func RegisterPages(api huma.API, h *PageHandler) {
	page := func(id, path string) huma.Operation {
		return huma.Operation{
			OperationID: id,
			Method:      http.MethodGet,
			Path:        path,
			Hidden:      true,
			Metadata: map[string]any{
				ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeRead},
			},
		}
	}

	huma.Register(api, page("page-home", "/"), h.Home)
	huma.Register(api, page("page-event-short-link", "/e/{code}"), h.EventShortLink)
	huma.Register(api, page("page-club-short-link", "/c/{code}"), h.ClubShortLink)
	huma.Register(api, page("page-event", "/events/{id}"), h.Event)
	huma.Register(api, page("page-clubs", "/clubs"), h.Clubs)
	huma.Register(api, page("page-city", "/clubs/{city}"), h.City)
	huma.Register(api, page("page-club", "/clubs/{city}/{id}"), h.Club)
	huma.Register(api, page("page-promoter", "/promoters/{id}"), h.Promoter)
	huma.Register(api, page("page-open", "/open/{type}/{id}"), h.Open)
	huma.Register(api, page("page-list-your-club", "/list-your-club"), h.ListYourClub)
	huma.Register(api, page("page-terms", "/terms"), h.Terms)
	huma.Register(api, page("page-privacy", "/privacy"), h.Privacy)
}

// NotFoundRouter is a router that takes a handler for unmatched paths.
type NotFoundRouter interface {
	NotFound(h http.HandlerFunc)
}

// RegisterFallback sends unmatched paths to the home page.
func RegisterFallback(router NotFoundRouter, h *PageHandler) {
	router.NotFound(h.Fallback)
}
