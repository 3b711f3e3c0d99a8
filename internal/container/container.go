// Package container wires the application with samber/do. Each *Package
// function registers the providers for one concern; commands pick the
// packages they need.
package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/clubin-web/internal/analytics"
	analyticsstore "github.com/serroba/clubin-web/internal/analytics/store"
	"github.com/serroba/clubin-web/internal/apiclient"
	"github.com/serroba/clubin-web/internal/deeplink"
	"github.com/serroba/clubin-web/internal/handlers"
	"github.com/serroba/clubin-web/internal/health"
	"github.com/serroba/clubin-web/internal/messaging"
	"github.com/serroba/clubin-web/internal/middleware"
	"github.com/serroba/clubin-web/internal/pages"
	"github.com/serroba/clubin-web/internal/ratelimit"
	"github.com/serroba/clubin-web/internal/store"
	"go.uber.org/zap"
)

const (
	consumerGroup  = "clubin-analytics"
	attemptIDBytes = 12
)

// NewLogger builds a JSON production logger for "json" and a console
// development logger otherwise.
func NewLogger(format string) (*zap.Logger, error) {
	if format == "json" {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}

// LoggerPackage provides the zap logger.
func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		return NewLogger(do.MustInvoke[*Options](i).LogFormat)
	})
}

// RedisPackage provides the Redis client shared by rate limiting, caching
// and the event stream.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*redis.Client, error) {
		opts := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{Addr: opts.RedisAddr}), nil
	})
}

// PostgresPackage provides the analytics database pool.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*pgxpool.Pool, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		return pool, nil
	})
}

// Shutdown stops every service that implements do.Shutdownable, then closes
// the Postgres pool and the Redis client. The injector forgets its services
// on shutdown, so both are looked up first.
func Shutdown(i *do.Injector) error {
	redisClient, redisErr := do.Invoke[*redis.Client](i)

	var pool *pgxpool.Pool
	if opts, err := do.Invoke[*Options](i); err == nil && opts.DatabaseURL != "" {
		pool, _ = do.Invoke[*pgxpool.Pool](i)
	}

	errs := make([]error, 0, 2)

	if err := i.Shutdown(); err != nil {
		errs = append(errs, fmt.Errorf("shutdown services: %w", err))
	}

	if pool != nil {
		pool.Close()
	}

	// the stream publisher and subscriber may already have closed the client
	if redisErr == nil {
		if err := redisClient.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	return errors.Join(errs...)
}

// CatalogPackage provides the backend API client and the catalog the
// handlers read through.
func CatalogPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*apiclient.Client, error) {
		opts := do.MustInvoke[*Options](i)

		return apiclient.New(opts.APIBaseURL, opts.APITimeout()), nil
	})

	do.Provide(i, func(i *do.Injector) (handlers.Catalog, error) {
		opts := do.MustInvoke[*Options](i)
		client := do.MustInvoke[*apiclient.Client](i)

		if opts.CacheTTLSecs <= 0 {
			return client, nil
		}

		return store.NewCachedCatalog(
			client,
			do.MustInvoke[*redis.Client](i),
			opts.CacheTTL(),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// RateLimitPackage provides the policy limiter and scope resolver.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (ratelimit.Store, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.RateLimitStore {
		case "memory":
			return store.NewRateLimitMemoryStore(), nil
		case "redis", "":
			return store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i)), nil
		default:
			return nil, fmt.Errorf("unknown rate limit store %q", opts.RateLimitStore)
		}
	})

	do.Provide(i, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		return ratelimit.NewPolicyLimiter(do.MustInvoke[ratelimit.Store](i), ratelimit.DefaultPolicy()), nil
	})

	do.Provide(i, func(_ *do.Injector) (ratelimit.ScopeResolver, error) {
		return ratelimit.NewOperationScopeResolver(), nil
	})
}

// PublisherGroupPackage provides the Redis stream publisher and the typed
// analytics publish functions.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     do.MustInvoke[*redis.Client](i),
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i)))
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (analytics.Publishers, error) {
		return analytics.NewPublishers(do.MustInvoke[*messaging.PublisherGroup](i).Publisher()), nil
	})
}

// DeepLinkPackage provides the app handoff dispatcher. The server only plans
// attempts; the browser performs the navigation.
func DeepLinkPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*deeplink.Dispatcher, error) {
		opts := do.MustInvoke[*Options](i)

		newID, err := nanoid.Standard(attemptIDBytes)
		if err != nil {
			return nil, fmt.Errorf("create id generator: %w", err)
		}

		// navigation happens in the visitor's browser, from the rendered plan
		browser := deeplink.NavigatorFunc(func(string) {})

		return deeplink.NewDispatcher(opts.DeepLink(), browser, time.Now, deeplink.TimerScheduler, newID), nil
	})
}

// HTTPPackage provides the router and the huma API with every route
// registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		catalog := do.MustInvoke[handlers.Catalog](i)
		publishers := do.MustInvoke[analytics.Publishers](i)

		renderer, err := pages.NewRenderer()
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("Clubin Web", "1.0.0"))
		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.RateLimiter(
				api,
				do.MustInvoke[*ratelimit.PolicyLimiter](i),
				do.MustInvoke[ratelimit.ScopeResolver](i),
				logger,
			),
		)

		handlers.RegisterRoutes(api,
			handlers.NewCatalogHandler(catalog),
			handlers.NewShortLinkHandler(catalog, opts.Site().URL, publishers, time.Now, logger),
		)
		pageHandler := handlers.NewPageHandler(
			catalog,
			renderer,
			opts.Site(),
			do.MustInvoke[*deeplink.Dispatcher](i),
			publishers,
			time.Now,
			logger,
		)
		handlers.RegisterPages(api, pageHandler)
		handlers.RegisterFallback(router, pageHandler)
		health.RegisterRoutes(api, health.NewHandler(map[string]health.Checker{
			"redis": health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
		}))

		return api, nil
	})
}

// ConsumerGroupPackage provides the analytics consumers reading the Redis
// stream. Events go to Postgres when a database is configured and to the
// log otherwise.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (analytics.Store, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.DatabaseURL == "" {
			return analyticsstore.NewNoop(do.MustInvoke[*zap.Logger](i)), nil
		}

		return analyticsstore.NewPostgres(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(i, func(i *do.Injector) (message.Subscriber, error) {
		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: consumerGroup,
		}, messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i)))
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		return subscriber, nil
	})

	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		subscriber := do.MustInvoke[message.Subscriber](i)

		group := messaging.NewConsumerGroup(subscriber, logger)
		for _, consumer := range analytics.Consumers(subscriber, do.MustInvoke[analytics.Store](i), logger) {
			group.Add(consumer)
		}

		return group, nil
	})
}
