package handlers

import (
	"context"

	"github.com/serroba/clubin-web/internal/catalog"
)

// Catalog is the remote Clubin API as the handlers use it.
type Catalog interface {
	FetchClubs(ctx context.Context, city string) ([]catalog.Club, error)
	FetchClub(ctx context.Context, id string) (*catalog.Club, error)
	FetchEvents(ctx context.Context, filter catalog.EventFilter) ([]catalog.Event, error)
	FetchEvent(ctx context.Context, id string) (*catalog.Event, error)
	FetchPromoter(ctx context.Context, id string) (*catalog.PromoterPublic, error)
	FetchEntity(ctx context.Context, kind catalog.EntityType, id string) (catalog.Entity, error)
	FetchEntityList(ctx context.Context, kind catalog.EntityType, filter catalog.EventFilter) ([]catalog.Entity, error)
	CreateShortLink(ctx context.Context, kind catalog.EntityType, targetID string) (*catalog.CreatedShortLink, error)
	ResolveShortLink(ctx context.Context, code string) (*catalog.ResolvedLink, error)
}

// CatalogHandler proxies catalog reads as JSON.
type CatalogHandler struct {
	catalog Catalog
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(c Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

func (h *CatalogHandler) ListClubs(ctx context.Context, req *ListClubsRequest) (*ListClubsResponse, error) {
	clubs, err := h.catalog.FetchClubs(ctx, req.City)
	if err != nil {
		return nil, apiError(err)
	}

	return &ListClubsResponse{Body: nonNil(clubs)}, nil
}

func (h *CatalogHandler) GetClub(ctx context.Context, req *IDRequest) (*ClubResponse, error) {
	club, err := h.catalog.FetchClub(ctx, req.ID)
	if err != nil {
		return nil, apiError(err)
	}

	return &ClubResponse{Body: club}, nil
}

func (h *CatalogHandler) ListEvents(ctx context.Context, req *ListEventsRequest) (*ListEventsResponse, error) {
	events, err := h.catalog.FetchEvents(ctx, catalog.EventFilter{City: req.City, Upcoming: req.Upcoming})
	if err != nil {
		return nil, apiError(err)
	}

	return &ListEventsResponse{Body: nonNil(events)}, nil
}

func (h *CatalogHandler) GetEvent(ctx context.Context, req *IDRequest) (*EventResponse, error) {
	event, err := h.catalog.FetchEvent(ctx, req.ID)
	if err != nil {
		return nil, apiError(err)
	}

	return &EventResponse{Body: event}, nil
}

func (h *CatalogHandler) GetPromoter(ctx context.Context, req *IDRequest) (*PromoterResponse, error) {
	promoter, err := h.catalog.FetchPromoter(ctx, req.ID)
	if err != nil {
		return nil, apiError(err)
	}

	return &PromoterResponse{Body: promoter}, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}
