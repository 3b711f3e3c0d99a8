package container

import (
	"strings"
	"time"

	"github.com/serroba/clubin-web/internal/deeplink"
	"github.com/serroba/clubin-web/internal/seo"
)

// Options configures the web server. Every field can be set by flag or by
// the matching SERVICE_* environment variable.
type Options struct {
	Port    int    `default:"8888"                 help:"Port to listen on"                               short:"p"`
	SiteURL string `default:"https://clubin.co.in" help:"Public origin used in canonical and short URLs"`
	OGImage string `default:""                     help:"Default social preview image, defaults to /og-image.png on the site"`

	APIBaseURL     string `default:"http://localhost:3000/api" help:"Clubin backend API base URL" short:"a"`
	APITimeoutSecs int    `default:"10"                        help:"Backend request timeout in seconds"`
	CacheTTLSecs   int    `default:"300"                       help:"Short link cache TTL in seconds, 0 disables caching"`

	AppScheme        string `default:""     help:"Custom URL scheme of the native app"`
	AppStoreURL      string `default:""     help:"App Store listing"`
	PlayStoreURL     string `default:""     help:"Play Store listing"`
	FallbackDelayMS  int    `default:"2000" help:"Delay in ms before redirecting to the store"`
	LivenessWindowMS int    `default:"2500" help:"Latest, in ms, a store redirect may still fire"`

	RedisAddr      string `default:"localhost:6379" help:"Redis server address"                  short:"r"`
	RateLimitStore string `default:"redis"          help:"Rate limit counters: redis or memory"`
	DatabaseURL    string `default:""               help:"Postgres URL for analytics, empty logs events only"`
	LogFormat      string `default:"console"        help:"Log format: console or json"`
}

// Site is the public site the pages describe.
func (o *Options) Site() seo.Site {
	url := strings.TrimRight(o.SiteURL, "/")

	image := o.OGImage
	if image == "" {
		image = url + "/og-image.png"
	}

	return seo.Site{URL: url, DefaultImage: image}
}

// APITimeout is the backend request timeout.
func (o *Options) APITimeout() time.Duration {
	return time.Duration(o.APITimeoutSecs) * time.Second
}

// CacheTTL is how long resolved short links stay cached.
func (o *Options) CacheTTL() time.Duration {
	return time.Duration(o.CacheTTLSecs) * time.Second
}

// DeepLink is the app handoff contract. Empty fields keep the defaults.
func (o *Options) DeepLink() deeplink.Config {
	cfg := deeplink.DefaultConfig()

	if o.AppScheme != "" {
		cfg.Scheme = o.AppScheme
	}

	if o.AppStoreURL != "" {
		cfg.AppStoreURL = o.AppStoreURL
	}

	if o.PlayStoreURL != "" {
		cfg.PlayStoreURL = o.PlayStoreURL
	}

	if o.FallbackDelayMS > 0 {
		cfg.FallbackDelay = time.Duration(o.FallbackDelayMS) * time.Millisecond
	}

	if o.LivenessWindowMS > 0 {
		cfg.LivenessWindow = time.Duration(o.LivenessWindowMS) * time.Millisecond
	}

	return cfg
}
