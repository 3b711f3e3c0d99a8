package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/serroba/clubin-web/internal/apiclient"
	"github.com/serroba/clubin-web/internal/container"
	"github.com/serroba/clubin-web/internal/sitemap"
	"go.uber.org/zap"
)

// Options configures a sitemap run.
type Options struct {
	APIBaseURL     string `default:"http://localhost:3000/api" help:"Clubin backend API base URL"  short:"a"`
	APITimeoutSecs int    `default:"30"                        help:"Backend request timeout in seconds"`
	SiteURL        string `default:"https://clubin.co.in"      help:"Public origin of the site"`
	Out            string `default:"public/sitemap.xml"        help:"Where to write the sitemap"   short:"o"`
	Robots         string `default:"public/robots.txt"         help:"robots.txt to point at the new sitemap, empty skips it"`
	LogFormat      string `default:"console"                   help:"Log format: console or json"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		hooks.OnStart(func() {
			logger, err := container.NewLogger(options.LogFormat)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			defer func() { _ = logger.Sync() }()

			if err := run(context.Background(), options, logger); err != nil {
				logger.Error("sitemap generation failed", zap.Error(err))
				_ = logger.Sync()
				os.Exit(1)
			}
		})
	})

	cli.Run()
}

func run(ctx context.Context, options *Options, logger *zap.Logger) error {
	client := apiclient.New(options.APIBaseURL, time.Duration(options.APITimeoutSecs)*time.Second)
	now := time.Now

	logger.Info("generating sitemap", zap.String("api", client.BaseURL()), zap.String("site", options.SiteURL))

	set, stats, err := sitemap.NewGenerator(client, options.SiteURL, now).Generate(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := sitemap.Write(&buf, set); err != nil {
		return err
	}

	if err := writeFile(options.Out, buf.Bytes()); err != nil {
		return err
	}

	logger.Info("sitemap written",
		zap.String("path", options.Out),
		zap.Int("static", stats.Static),
		zap.Int("cities", stats.Cities),
		zap.Int("clubs", stats.Clubs),
		zap.Int("events", stats.Events),
		zap.Int("promoters", stats.Promoters),
		zap.Int("total", stats.Total()),
	)

	if options.Robots == "" {
		return nil
	}

	return bumpRobots(options.Robots, strings.TrimRight(options.SiteURL, "/"), now(), logger)
}

func bumpRobots(path, siteURL string, date time.Time, logger *zap.Logger) error {
	robots, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("robots.txt not found, skipping", zap.String("path", path))

		return nil
	}

	if err != nil {
		return fmt.Errorf("read robots.txt: %w", err)
	}

	updated, ok := sitemap.BumpRobots(string(robots), siteURL, date)
	if !ok {
		logger.Warn("robots.txt has no Sitemap line", zap.String("path", path))

		return nil
	}

	if err := writeFile(path, []byte(updated)); err != nil {
		return err
	}

	logger.Info("robots.txt updated", zap.String("path", path))

	return nil
}

// writeFile replaces path through a temporary file in the same directory so
// readers never see a partial document.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}
