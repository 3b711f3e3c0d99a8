package main

import (
	"context"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/samber/do"
	"github.com/serroba/clubin-web/internal/container"
	"github.com/serroba/clubin-web/internal/messaging"
	"go.uber.org/zap"
)

// Options configures the analytics consumer.
type Options struct {
	RedisAddr   string `default:"localhost:6379" help:"Redis server address"                          short:"r"`
	DatabaseURL string `default:""               help:"Postgres URL, empty logs the events instead"`
	LogFormat   string `default:"console"        help:"Log format: console or json"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		opts := &container.Options{
			RedisAddr:   options.RedisAddr,
			DatabaseURL: options.DatabaseURL,
			LogFormat:   options.LogFormat,
		}

		injector := do.New()
		do.ProvideValue(injector, opts)
		container.LoggerPackage(injector)
		container.RedisPackage(injector)
		container.PostgresPackage(injector)
		container.ConsumerGroupPackage(injector)

		logger := do.MustInvoke[*zap.Logger](injector)

		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			group := do.MustInvoke[*messaging.ConsumerGroup](injector)

			if err := group.Start(ctx); err != nil {
				logger.Fatal("failed to start consumer group", zap.Error(err))
			}

			logger.Info("consuming analytics events", zap.Bool("postgres", opts.DatabaseURL != ""))

			<-ctx.Done()
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")
			cancel()

			if err := container.Shutdown(injector); err != nil {
				logger.Error("shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
			_ = logger.Sync()
		})
	})

	cli.Run()
}
