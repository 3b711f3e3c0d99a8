package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/clubin-web/internal/analytics"
	"github.com/serroba/clubin-web/internal/catalog"
	"github.com/serroba/clubin-web/internal/deeplink"
	"github.com/serroba/clubin-web/internal/pages"
	"github.com/serroba/clubin-web/internal/seo"
	"github.com/serroba/clubin-web/internal/view"
	"go.uber.org/zap"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	cachePublic     = "public, max-age=300"
	cacheNone       = "no-store"

	msgUnknownCity = "We are not in this city yet."
)

// PageHandler serves the server rendered pages.
type PageHandler struct {
	catalog    Catalog
	renderer   *pages.Renderer
	site       seo.Site
	dispatcher *deeplink.Dispatcher
	publishers analytics.Publishers
	now        func() time.Time
	logger     *zap.Logger
}

// NewPageHandler creates a page handler.
func NewPageHandler(
	c Catalog,
	renderer *pages.Renderer,
	site seo.Site,
	dispatcher *deeplink.Dispatcher,
	publishers analytics.Publishers,
	now func() time.Time,
	logger *zap.Logger,
) *PageHandler {
	return &PageHandler{
		catalog:    c,
		renderer:   renderer,
		site:       site,
		dispatcher: dispatcher,
		publishers: publishers,
		now:        now,
		logger:     logger,
	}
}

// Home lists upcoming events.
func (h *PageHandler) Home(ctx context.Context, _ *struct{}) (*HTMLResponse, error) {
	scope := view.NewScope(ctx)
	defer scope.Close()

	entities, err := view.Load(scope, func(ctx context.Context) ([]catalog.Entity, error) {
		return h.catalog.FetchEntityList(ctx, catalog.EntityEvent, catalog.EventFilter{Upcoming: true})
	})
	if err != nil {
		return h.failed(err, "/")
	}

	events := make([]catalog.Event, 0, len(entities))
	for _, e := range entities {
		events = append(events, *e.Event)
	}

	return h.listing(seo.Meta{}, &pages.Listing{
		Heading: "Upcoming events",
		Intro:   "Guestlists and VIP tables at the best clubs in India.",
		Empty:   "No upcoming events right now.",
		Cards:   pages.EventCards(events),
	})
}

// EventShortLink resolves /e/{code}.
func (h *PageHandler) EventShortLink(ctx context.Context, req *ShortLinkPageRequest) (*HTMLResponse, error) {
	return h.shortLink(ctx, catalog.EntityEvent, req.Code, "/e/"+req.Code)
}

// ClubShortLink resolves /c/{code}.
func (h *PageHandler) ClubShortLink(ctx context.Context, req *ShortLinkPageRequest) (*HTMLResponse, error) {
	return h.shortLink(ctx, catalog.EntityClub, req.Code, "/c/"+req.Code)
}

func (h *PageHandler) shortLink(
	ctx context.Context, kind catalog.EntityType, code, retry string,
) (*HTMLResponse, error) {
	scope := view.NewScope(ctx)
	defer scope.Close()

	link, err := view.Load(scope, func(ctx context.Context) (*catalog.ResolvedLink, error) {
		return h.catalog.ResolveShortLink(ctx, code)
	})
	if err != nil {
		return h.failed(err, retry)
	}

	if link.Type != kind {
		h.logger.Info("short link type does not match route",
			zap.String("code", code),
			zap.String("route", string(kind)),
			zap.String("type", string(link.Type)),
		)

		return h.errorPage(http.StatusBadGateway, msgInvalid, retry)
	}

	publishResolved(ctx, h.publishers, link, h.now(), h.logger)

	return h.entity(ctx, link.Entity)
}

// Event renders /events/{id}.
func (h *PageHandler) Event(ctx context.Context, req *PageRequest) (*HTMLResponse, error) {
	return h.fetchEntity(ctx, catalog.EntityEvent, req.ID, "/events/"+req.ID)
}

// Club renders /clubs/{city}/{id}. The canonical URL carries the club's own
// city, so a stale city segment still renders.
func (h *PageHandler) Club(ctx context.Context, req *ClubPageRequest) (*HTMLResponse, error) {
	return h.fetchEntity(ctx, catalog.EntityClub, req.ID, "/clubs/"+req.City+"/"+req.ID)
}

func (h *PageHandler) fetchEntity(
	ctx context.Context, kind catalog.EntityType, id, retry string,
) (*HTMLResponse, error) {
	scope := view.NewScope(ctx)
	defer scope.Close()

	entity, err := view.Load(scope, func(ctx context.Context) (catalog.Entity, error) {
		return h.catalog.FetchEntity(ctx, kind, id)
	})
	if err != nil {
		return h.failed(err, retry)
	}

	return h.entity(ctx, entity)
}

// Clubs renders the city selection.
func (h *PageHandler) Clubs(_ context.Context, _ *struct{}) (*HTMLResponse, error) {
	return h.listing(h.site.ClubsIndexMeta(), &pages.Listing{
		Heading: "Choose your city",
		Cards:   pages.CityCards(),
	})
}

// ListYourClub renders the venue partnership page.
func (h *PageHandler) ListYourClub(_ context.Context, _ *struct{}) (*HTMLResponse, error) {
	return h.static(pages.ListYourClub())
}

// Terms renders the terms of service.
func (h *PageHandler) Terms(_ context.Context, _ *struct{}) (*HTMLResponse, error) {
	return h.static(pages.Terms())
}

// Privacy renders the privacy policy.
func (h *PageHandler) Privacy(_ context.Context, _ *struct{}) (*HTMLResponse, error) {
	return h.static(pages.Privacy())
}

// Fallback serves the home page for any other GET path. Unknown API paths
// and other methods get a plain 404.
func (h *PageHandler) Fallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)

		return
	}

	resp, err := h.Home(r.Context(), nil)
	if err != nil {
		status := http.StatusInternalServerError

		var se huma.StatusError
		if errors.As(err, &se) {
			status = se.GetStatus()
		}

		http.Error(w, http.StatusText(status), status)

		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("Cache-Control", resp.CacheControl)
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

// City renders /clubs/{city}.
func (h *PageHandler) City(ctx context.Context, req *CityPageRequest) (*HTMLResponse, error) {
	city, ok := catalog.LookupCity(req.City)
	if !ok {
		return h.errorPage(http.StatusNotFound, msgUnknownCity, "/clubs")
	}

	scope := view.NewScope(ctx)
	defer scope.Close()

	entities, err := view.Load(scope, func(ctx context.Context) ([]catalog.Entity, error) {
		return h.catalog.FetchEntityList(ctx, catalog.EntityClub, catalog.EventFilter{City: city.ID})
	})
	if err != nil {
		return h.failed(err, "/clubs/"+req.City)
	}

	clubs := make([]catalog.Club, 0, len(entities))
	for _, e := range entities {
		clubs = append(clubs, *e.Club)
	}

	return h.listing(h.site.CityMeta(city), &pages.Listing{
		Heading: "Clubs in " + city.Label,
		Empty:   "No clubs listed in " + city.Label + " yet.",
		Cards:   pages.ClubCards(clubs),
	})
}

// Promoter renders /promoters/{id}.
func (h *PageHandler) Promoter(ctx context.Context, req *PageRequest) (*HTMLResponse, error) {
	scope := view.NewScope(ctx)
	defer scope.Close()

	profile, err := view.Load(scope, func(ctx context.Context) (*catalog.PromoterPublic, error) {
		return h.catalog.FetchPromoter(ctx, req.ID)
	})
	if err != nil {
		return h.failed(err, "/promoters/"+req.ID)
	}

	return h.detail(ctx, h.site.PromoterMeta(profile.Promoter), pages.PromoterDetail(profile))
}

// Open renders the handoff page for /open/{type}/{id}: the browser tries the
// app scheme and falls back to the store listing.
func (h *PageHandler) Open(ctx context.Context, req *OpenRequest) (*HTMLResponse, error) {
	kind, err := catalog.ParseEntityType(req.Type)
	if err != nil || req.ID == "" {
		return h.errorPage(http.StatusBadRequest, msgBadInput, "/")
	}

	meta := RequestMetaFromContext(ctx)
	attempt := h.dispatcher.Plan(kind, req.ID, meta.UserAgent)

	event := &analytics.AppOpenAttemptedEvent{
		AttemptID:   attempt.ID,
		Type:        string(kind),
		TargetID:    req.ID,
		Platform:    string(attempt.Platform),
		DeepLink:    attempt.DeepLink,
		FallbackURL: attempt.FallbackURL,
		AttemptedAt: attempt.StartedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
		Referrer:    meta.Referrer,
	}

	if err := h.publishers.AppOpenAttempted(ctx, event); err != nil {
		h.logger.Error("failed to publish app open event",
			zap.String("attemptId", event.AttemptID),
			zap.Error(err),
		)
	}

	cfg := h.dispatcher.Config()
	head := h.site.NewHead()

	restore, err := head.Apply(seo.Meta{Title: "Opening Clubin"})
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to render page", err)
	}
	defer restore()

	body, err := h.renderer.Handoff(&pages.Handoff{
		Head: head,
		// the scheme is fixed by configuration
		DeepLink:         template.URL(attempt.DeepLink), //nolint:gosec
		FallbackURL:      attempt.FallbackURL,
		FallbackDelayMS:  cfg.FallbackDelay.Milliseconds(),
		LivenessWindowMS: cfg.LivenessWindow.Milliseconds(),
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to render page", err)
	}

	return htmlResponse(http.StatusOK, cacheNone, body), nil
}

func (h *PageHandler) entity(ctx context.Context, entity catalog.Entity) (*HTMLResponse, error) {
	switch entity.Type {
	case catalog.EntityEvent:
		return h.detail(ctx, h.site.EventMeta(entity.Event), pages.EventDetail(entity.Event))
	case catalog.EntityClub:
		return h.detail(ctx, h.site.ClubMeta(entity.Club), pages.ClubDetail(entity.Club))
	}

	return h.errorPage(http.StatusBadGateway, msgInvalid, "/")
}

func (h *PageHandler) detail(ctx context.Context, meta seo.Meta, data *pages.Detail) (*HTMLResponse, error) {
	head := h.site.NewHead()

	restore, err := head.Apply(meta)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to render page", err)
	}
	defer restore()

	cfg := h.dispatcher.Config()
	data.Head = head
	data.AppStoreURL = cfg.AppStoreURL
	data.PlayStoreURL = cfg.PlayStoreURL
	data.Mobile = deeplink.IsMobile(RequestMetaFromContext(ctx).UserAgent)

	body, err := h.renderer.Detail(data)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to render page", err)
	}

	return htmlResponse(http.StatusOK, cachePublic, body), nil
}

func (h *PageHandler) listing(meta seo.Meta, data *pages.Listing) (*HTMLResponse, error) {
	head := h.site.NewHead()

	if meta.Title != "" {
		restore, err := head.Apply(meta)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to render page", err)
		}
		defer restore()
	}

	data.Head = head

	body, err := h.renderer.Listing(data)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to render page", err)
	}

	return htmlResponse(http.StatusOK, cachePublic, body), nil
}

func (h *PageHandler) static(data *pages.Static) (*HTMLResponse, error) {
	head := h.site.NewHead()

	restore, err := head.Apply(h.site.StaticMeta(data.Path, data.Name, data.Description))
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to render page", err)
	}
	defer restore()

	data.Head = head

	body, err := h.renderer.Static(data)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to render page", err)
	}

	return htmlResponse(http.StatusOK, cachePublic, body), nil
}

func (h *PageHandler) failed(err error, retry string) (*HTMLResponse, error) {
	if errors.Is(err, view.ErrClosed) {
		h.logger.Debug("client went away before the page loaded", zap.String("path", retry))

		return nil, huma.Error503ServiceUnavailable("request abandoned")
	}

	status, message := pageError(err)

	h.logger.Warn("page load failed",
		zap.String("path", retry),
		zap.Int("status", status),
		zap.Error(err),
	)

	return h.errorPage(status, message, retry)
}

func (h *PageHandler) errorPage(status int, message, retry string) (*HTMLResponse, error) {
	head := h.site.NewHead()

	restore, err := head.Apply(h.site.ErrorMeta(message))
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to render page", err)
	}
	defer restore()

	body, err := h.renderer.Error(&pages.ErrorPage{Head: head, Message: message, RetryURL: retry})
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to render page", err)
	}

	return htmlResponse(status, cacheNone, body), nil
}

func htmlResponse(status int, cacheControl string, body []byte) *HTMLResponse {
	return &HTMLResponse{
		Status:       status,
		ContentType:  contentTypeHTML,
		CacheControl: cacheControl,
		Body:         body,
	}
}
