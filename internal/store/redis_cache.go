package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/clubin-web/internal/catalog"
	"github.com/serroba/clubin-web/internal/handlers"
	"go.uber.org/zap"
)

// cachedLink is the cached form of a resolved short link.
type cachedLink struct {
	Code     string             `json:"code"`
	Type     catalog.EntityType `json:"type"`
	TargetID string             `json:"targetId"`
	Data     json.RawMessage    `json:"data"`
}

// CachedCatalog wraps a Catalog with a Redis read-through cache for short
// link resolution. Everything else goes straight to the wrapped catalog.
//
// Cache failures are logged and fall through to the catalog.
type CachedCatalog struct {
	handlers.Catalog

	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedCatalog creates a caching decorator around c.
func NewCachedCatalog(c handlers.Catalog, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	return &CachedCatalog{
		Catalog: c,
		client:  client,
		prefix:  "shortlink:",
		ttl:     ttl,
		logger:  logger,
	}
}

// ResolveShortLink checks the cache first and populates it on a miss.
// Failed resolutions are not cached.
func (c *CachedCatalog) ResolveShortLink(ctx context.Context, code string) (*catalog.ResolvedLink, error) {
	if link, ok := c.get(ctx, code); ok {
		return link, nil
	}

	link, err := c.Catalog.ResolveShortLink(ctx, code)
	if err != nil {
		return nil, err
	}

	c.set(ctx, link)

	return link, nil
}

func (c *CachedCatalog) get(ctx context.Context, code string) (*catalog.ResolvedLink, bool) {
	raw, err := c.client.Get(ctx, c.prefix+code).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("short link cache read failed", zap.String("code", code), zap.Error(err))
		}

		return nil, false
	}

	var cached cachedLink
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.logger.Warn("dropping corrupt cache entry", zap.String("code", code), zap.Error(err))
		c.client.Del(ctx, c.prefix+code)

		return nil, false
	}

	entity, err := catalog.DecodeEntity(cached.Type, cached.Data)
	if err != nil {
		c.logger.Warn("dropping corrupt cache entry", zap.String("code", code), zap.Error(err))
		c.client.Del(ctx, c.prefix+code)

		return nil, false
	}

	return &catalog.ResolvedLink{
		ShortLink: catalog.ShortLink{Code: cached.Code, Type: cached.Type, TargetID: cached.TargetID},
		Entity:    entity,
	}, true
}

func (c *CachedCatalog) set(ctx context.Context, link *catalog.ResolvedLink) {
	data := link.Entity.Raw
	if len(data) == 0 {
		var err error
		if data, err = marshalEntity(link.Entity); err != nil {
			return
		}
	}

	raw, err := json.Marshal(cachedLink{
		Code:     link.Code,
		Type:     link.Type,
		TargetID: link.TargetID,
		Data:     data,
	})
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, c.prefix+link.Code, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("short link cache write failed", zap.String("code", link.Code), zap.Error(err))
	}
}

func marshalEntity(e catalog.Entity) ([]byte, error) {
	if e.Type == catalog.EntityClub {
		return json.Marshal(e.Club)
	}

	return json.Marshal(e.Event)
}
