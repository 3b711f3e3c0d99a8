package deeplink

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/serroba/clubin-web/internal/catalog"
	"github.com/serroba/clubin-web/internal/view"
)

const (
	DefaultScheme         = "clubin"
	DefaultAppStoreURL    = "https://apps.apple.com/app/clubin/id123456789"
	DefaultPlayStoreURL   = "https://play.google.com/store/apps/details?id=com.kshitijdev02.afterhour"
	DefaultFallbackDelay  = 2000 * time.Millisecond
	DefaultLivenessWindow = 2500 * time.Millisecond
)

// Config holds the app handoff contract.
type Config struct {
	Scheme       string
	AppStoreURL  string
	PlayStoreURL string

	// FallbackDelay is when the store redirect is scheduled.
	FallbackDelay time.Duration

	// LivenessWindow bounds how late the fallback may run. A callback that
	// fires after this (backgrounded tab, starved timer) does nothing.
	LivenessWindow time.Duration
}

// DefaultConfig returns the production handoff contract.
func DefaultConfig() Config {
	return Config{
		Scheme:         DefaultScheme,
		AppStoreURL:    DefaultAppStoreURL,
		PlayStoreURL:   DefaultPlayStoreURL,
		FallbackDelay:  DefaultFallbackDelay,
		LivenessWindow: DefaultLivenessWindow,
	}
}

// StoreURL picks the store listing for a platform: App Store for Apple
// mobile devices, Play Store for everything else.
func (c Config) StoreURL(p Platform) string {
	if p == PlatformIOS {
		return c.AppStoreURL
	}

	return c.PlayStoreURL
}

// Link builds the custom scheme URL the native app intercepts.
func Link(scheme string, kind catalog.EntityType, id string) string {
	return fmt.Sprintf("%s://%s/%s", scheme, kind, id)
}

// State is the observable progress of one attempt. Whether the app actually
// opened cannot be observed.
type State int32

const (
	StateIdle State = iota
	StateAttempting
	StateFallbackRedirected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAttempting:
		return "attempting"
	case StateFallbackRedirected:
		return "fallback_redirected"
	}

	return "unknown"
}

// Attempt is one click on "open in app". It lives only as long as its
// fallback timer.
type Attempt struct {
	ID          string
	Kind        catalog.EntityType
	TargetID    string
	Platform    Platform
	DeepLink    string
	FallbackURL string
	StartedAt   time.Time

	state atomic.Int32
}

// State returns the current attempt state.
func (a *Attempt) State() State {
	return State(a.state.Load())
}

// Navigator moves the current browsing context to a URL. Navigating to a
// scheme nobody handles silently does nothing.
type Navigator interface {
	Navigate(url string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string)

func (f NavigatorFunc) Navigate(url string) { f(url) }

// Clock returns the current time.
type Clock func() time.Time

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func())

// IDGenerator generates attempt identifiers.
type IDGenerator func() string

// TimerScheduler schedules with time.AfterFunc.
func TimerScheduler(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Dispatcher tries to hand a page over to the native app and falls back to
// the store listing after a delay.
//
// The fallback is a liveness heuristic and inherently racy: there is no
// cross-platform signal that the handoff succeeded. A user who dismisses an
// OS "open in app?" prompt and stays on the page is still sent to the store,
// and there is no way to cancel a pending fallback.
type Dispatcher struct {
	cfg      Config
	nav      Navigator
	now      Clock
	schedule Scheduler
	newID    IDGenerator
}

// NewDispatcher creates a dispatcher with injectable time and timers. A nil
// nav discards navigations.
func NewDispatcher(cfg Config, nav Navigator, now Clock, schedule Scheduler, newID IDGenerator) *Dispatcher {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}

	return &Dispatcher{
		cfg:      cfg,
		nav:      nav,
		now:      now,
		schedule: schedule,
		newID:    newID,
	}
}

// Config returns the handoff contract in use.
func (d *Dispatcher) Config() Config {
	return d.cfg
}

// Plan computes the attempt for a target without side effects.
func (d *Dispatcher) Plan(kind catalog.EntityType, id, userAgent string) *Attempt {
	platform := ClassifyPlatform(userAgent)

	return &Attempt{
		ID:          d.newID(),
		Kind:        kind,
		TargetID:    id,
		Platform:    platform,
		DeepLink:    Link(d.cfg.Scheme, kind, id),
		FallbackURL: d.cfg.StoreURL(platform),
		StartedAt:   d.now(),
	}
}

// OpenInApp navigates page to the deep link and schedules the store
// fallback. It never reports failure: a handoff that did nothing looks the
// same as one that worked and is absorbed by the fallback.
//
// The fallback only runs while page is open, so a page torn down by the app
// taking over never redirects.
func (d *Dispatcher) OpenInApp(page *view.Scope, kind catalog.EntityType, id, userAgent string) *Attempt {
	attempt := d.Plan(kind, id, userAgent)
	attempt.state.Store(int32(StateAttempting))

	d.nav.Navigate(attempt.DeepLink)

	d.schedule(d.cfg.FallbackDelay, func() {
		page.Run(func() {
			if d.now().Sub(attempt.StartedAt) >= d.cfg.LivenessWindow {
				return
			}

			if attempt.state.CompareAndSwap(int32(StateAttempting), int32(StateFallbackRedirected)) {
				d.nav.Navigate(attempt.FallbackURL)
			}
		})
	})

	return attempt
}
