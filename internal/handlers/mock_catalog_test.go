package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/clubin-web/internal/analytics"
	"github.com/serroba/clubin-web/internal/catalog"
	"github.com/serroba/clubin-web/internal/deeplink"
	"github.com/serroba/clubin-web/internal/handlers"
	"github.com/serroba/clubin-web/internal/middleware"
	"github.com/serroba/clubin-web/internal/pages"
	"github.com/serroba/clubin-web/internal/seo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const siteURL = "https://clubin.co.in"

var testNow = time.Date(2026, 2, 14, 20, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// mockCatalog serves canned entities. Fields left nil answer ErrNotFound.
type mockCatalog struct {
	clubs     []catalog.Club
	events    []catalog.Event
	promoter  *catalog.PromoterPublic
	links     map[string]*catalog.ResolvedLink
	created   *catalog.CreatedShortLink
	err       error
	lastKind  catalog.EntityType
	lastID    string
	lastCity  string
	lastEvent catalog.EventFilter
}

func (m *mockCatalog) FetchClubs(_ context.Context, city string) ([]catalog.Club, error) {
	m.lastCity = city

	return m.clubs, m.err
}

func (m *mockCatalog) FetchClub(_ context.Context, id string) (*catalog.Club, error) {
	if m.err != nil {
		return nil, m.err
	}

	for i := range m.clubs {
		if m.clubs[i].ID == id {
			return &m.clubs[i], nil
		}
	}

	return nil, catalog.ErrNotFound
}

func (m *mockCatalog) FetchEvents(_ context.Context, filter catalog.EventFilter) ([]catalog.Event, error) {
	m.lastEvent = filter

	return m.events, m.err
}

func (m *mockCatalog) FetchEvent(_ context.Context, id string) (*catalog.Event, error) {
	if m.err != nil {
		return nil, m.err
	}

	for i := range m.events {
		if m.events[i].ID == id {
			return &m.events[i], nil
		}
	}

	return nil, catalog.ErrNotFound
}

func (m *mockCatalog) FetchPromoter(_ context.Context, id string) (*catalog.PromoterPublic, error) {
	if m.err != nil {
		return nil, m.err
	}

	if m.promoter == nil || m.promoter.Promoter.ID != id {
		return nil, catalog.ErrNotFound
	}

	return m.promoter, nil
}

func (m *mockCatalog) FetchEntity(ctx context.Context, kind catalog.EntityType, id string) (catalog.Entity, error) {
	if kind == catalog.EntityClub {
		club, err := m.FetchClub(ctx, id)
		if err != nil {
			return catalog.Entity{}, err
		}

		return catalog.Entity{Type: kind, Club: club}, nil
	}

	event, err := m.FetchEvent(ctx, id)
	if err != nil {
		return catalog.Entity{}, err
	}

	return catalog.Entity{Type: kind, Event: event}, nil
}

func (m *mockCatalog) FetchEntityList(
	ctx context.Context, kind catalog.EntityType, filter catalog.EventFilter,
) ([]catalog.Entity, error) {
	if kind == catalog.EntityClub {
		clubs, err := m.FetchClubs(ctx, filter.City)
		if err != nil {
			return nil, err
		}

		out := make([]catalog.Entity, len(clubs))
		for i := range clubs {
			out[i] = catalog.Entity{Type: kind, Club: &clubs[i]}
		}

		return out, nil
	}

	events, err := m.FetchEvents(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Entity, len(events))
	for i := range events {
		out[i] = catalog.Entity{Type: kind, Event: &events[i]}
	}

	return out, nil
}

func (m *mockCatalog) CreateShortLink(
	_ context.Context, kind catalog.EntityType, targetID string,
) (*catalog.CreatedShortLink, error) {
	m.lastKind = kind
	m.lastID = targetID

	if m.err != nil {
		return nil, m.err
	}

	return m.created, nil
}

func (m *mockCatalog) ResolveShortLink(_ context.Context, code string) (*catalog.ResolvedLink, error) {
	if m.err != nil {
		return nil, m.err
	}

	link, ok := m.links[code]
	if !ok {
		return nil, catalog.ErrNotFound
	}

	return link, nil
}

func eventLink(code string, event *catalog.Event) *catalog.ResolvedLink {
	return &catalog.ResolvedLink{
		ShortLink: catalog.ShortLink{Code: code, Type: catalog.EntityEvent, TargetID: event.ID},
		Entity:    catalog.Entity{Type: catalog.EntityEvent, Event: event},
	}
}

func clubLink(code string, club *catalog.Club) *catalog.ResolvedLink {
	return &catalog.ResolvedLink{
		ShortLink: catalog.ShortLink{Code: code, Type: catalog.EntityClub, TargetID: club.ID},
		Entity:    catalog.Entity{Type: catalog.EntityClub, Club: club},
	}
}

// recorder captures every published funnel event.
type recorder struct {
	mu       sync.Mutex
	created  []analytics.ShortLinkCreatedEvent
	resolved []analytics.ShortLinkResolvedEvent
	attempts []analytics.AppOpenAttemptedEvent
	err      error
}

func (r *recorder) publishers() analytics.Publishers {
	return analytics.Publishers{
		ShortLinkCreated: func(_ context.Context, e *analytics.ShortLinkCreatedEvent) error {
			r.mu.Lock()
			defer r.mu.Unlock()

			r.created = append(r.created, *e)

			return r.err
		},
		ShortLinkResolved: func(_ context.Context, e *analytics.ShortLinkResolvedEvent) error {
			r.mu.Lock()
			defer r.mu.Unlock()

			r.resolved = append(r.resolved, *e)

			return r.err
		},
		AppOpenAttempted: func(_ context.Context, e *analytics.AppOpenAttemptedEvent) error {
			r.mu.Lock()
			defer r.mu.Unlock()

			r.attempts = append(r.attempts, *e)

			return r.err
		},
	}
}

// newServer wires the API and pages over c the way the server does.
func newServer(t *testing.T, c handlers.Catalog, rec *recorder) *chi.Mux {
	t.Helper()

	renderer, err := pages.NewRenderer()
	require.NoError(t, err)

	dispatcher := deeplink.NewDispatcher(deeplink.DefaultConfig(), nil, fixedNow,
		deeplink.TimerScheduler, func() string { return "attempt-1" })

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))

	handlers.RegisterRoutes(api,
		handlers.NewCatalogHandler(c),
		handlers.NewShortLinkHandler(c, siteURL, rec.publishers(), fixedNow, zap.NewNop()),
	)
	pageHandler := handlers.NewPageHandler(c, renderer,
		seo.Site{URL: siteURL, DefaultImage: siteURL + "/og.png"},
		dispatcher, rec.publishers(), fixedNow, zap.NewNop())
	handlers.RegisterPages(api, pageHandler)
	handlers.RegisterFallback(router, pageHandler)

	return router
}

func get(router http.Handler, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, h := range headers {
		name, value, _ := strings.Cut(h, ": ")
		req.Header.Set(name, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func post(router http.Handler, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}
