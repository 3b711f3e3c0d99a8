package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/clubin-web/internal/analytics"
	"github.com/serroba/clubin-web/internal/catalog"
	"go.uber.org/zap"
)

// ShortLinkHandler creates and resolves short links.
type ShortLinkHandler struct {
	catalog    Catalog
	siteURL    string
	publishers analytics.Publishers
	now        func() time.Time
	logger     *zap.Logger
}

// NewShortLinkHandler creates a short link handler.
func NewShortLinkHandler(
	c Catalog,
	siteURL string,
	publishers analytics.Publishers,
	now func() time.Time,
	logger *zap.Logger,
) *ShortLinkHandler {
	return &ShortLinkHandler{
		catalog:    c,
		siteURL:    strings.TrimRight(siteURL, "/"),
		publishers: publishers,
		now:        now,
		logger:     logger,
	}
}

func (h *ShortLinkHandler) CreateShortLink(
	ctx context.Context, req *CreateShortLinkRequest,
) (*CreateShortLinkResponse, error) {
	kind, err := catalog.ParseEntityType(req.Body.Type)
	if err != nil {
		return nil, huma.Error400BadRequest("type must be 'event' or 'club'")
	}

	targetID := strings.TrimSpace(req.Body.TargetID)
	if targetID == "" {
		return nil, huma.Error400BadRequest("targetId is required")
	}

	created, err := h.catalog.CreateShortLink(ctx, kind, targetID)
	if err != nil {
		h.logger.Warn("failed to create short link",
			zap.String("type", string(kind)),
			zap.String("targetId", targetID),
			zap.Error(err),
		)

		return nil, apiError(err)
	}

	shortURL := created.ShortURL
	if shortURL == "" {
		shortURL = ShortURL(h.siteURL, kind, created.Code)
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.ShortLinkCreatedEvent{
		Code:      created.Code,
		Type:      string(kind),
		TargetID:  targetID,
		ShortURL:  shortURL,
		CreatedAt: h.now(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publishers.ShortLinkCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &CreateShortLinkResponse{}
	resp.Headers.Location = shortURL
	resp.Body.Code = created.Code
	resp.Body.ShortURL = shortURL

	return resp, nil
}

func (h *ShortLinkHandler) ResolveShortLink(
	ctx context.Context, req *ResolveShortLinkRequest,
) (*ResolveShortLinkResponse, error) {
	link, err := h.catalog.ResolveShortLink(ctx, req.Code)
	if err != nil {
		return nil, apiError(err)
	}

	publishResolved(ctx, h.publishers, link, h.now(), h.logger)

	resp := &ResolveShortLinkResponse{}
	resp.Body.Code = link.Code
	resp.Body.Type = string(link.Type)
	resp.Body.TargetID = link.TargetID

	switch link.Type {
	case catalog.EntityEvent:
		resp.Body.Data = link.Entity.Event
	case catalog.EntityClub:
		resp.Body.Data = link.Entity.Club
	}

	return resp, nil
}

// ShortURL is the landing URL of a short code: /e/ for events, /c/ for clubs.
func ShortURL(siteURL string, kind catalog.EntityType, code string) string {
	prefix := "e"
	if kind == catalog.EntityClub {
		prefix = "c"
	}

	return fmt.Sprintf("%s/%s/%s", siteURL, prefix, code)
}

func publishResolved(
	ctx context.Context,
	publishers analytics.Publishers,
	link *catalog.ResolvedLink,
	at time.Time,
	logger *zap.Logger,
) {
	meta := RequestMetaFromContext(ctx)
	event := &analytics.ShortLinkResolvedEvent{
		Code:       link.Code,
		Type:       string(link.Type),
		TargetID:   link.Entity.ID(),
		ResolvedAt: at,
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := publishers.ShortLinkResolved(ctx, event); err != nil {
		logger.Error("failed to publish resolve event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}
}
