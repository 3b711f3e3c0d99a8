package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/clubin-web/internal/container"
	"github.com/serroba/clubin-web/internal/ratelimit"
	"github.com/serroba/clubin-web/internal/store"
	"go.uber.org/zap"
)

func registerPackages(injector *do.Injector, options *container.Options) {
	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.CatalogPackage(injector)
	container.RateLimitPackage(injector)
	container.PublisherGroupPackage(injector)
	container.DeepLinkPackage(injector)
	container.HTTPPackage(injector)
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := do.New()
		registerPackages(injector, options)

		logger := do.MustInvoke[*zap.Logger](injector)

		var server *http.Server

		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			router := do.MustInvoke[*chi.Mux](injector)

			// Invoke API to trigger route registration
			_ = do.MustInvoke[huma.API](injector)

			if memory, ok := do.MustInvoke[ratelimit.Store](injector).(*store.RateLimitMemoryStore); ok {
				go sweepRateLimits(ctx, memory, logger)
			}

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", options.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("server starting",
				zap.Int("port", options.Port),
				zap.String("site", options.SiteURL),
				zap.String("api", options.APIBaseURL),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")
			cancel()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			if server != nil {
				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.Error("server shutdown error", zap.Error(err))
				}
			}

			if err := container.Shutdown(injector); err != nil {
				logger.Error("shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
			_ = logger.Sync()
		})
	})

	cli.Run()
}

// sweepRateLimits evicts idle clients from in-memory rate limit counters.
func sweepRateLimits(ctx context.Context, s *store.RateLimitMemoryStore, logger *zap.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(24 * time.Hour); n > 0 {
				logger.Debug("swept idle rate limit keys", zap.Int("count", n))
			}
		}
	}
}
