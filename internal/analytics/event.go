// Package analytics describes the share funnel events the web tier emits:
// short links created, short links resolved and app handoffs attempted.
package analytics

import "time"

const (
	TopicShortLinkCreated  = "shortlink.created"
	TopicShortLinkResolved = "shortlink.resolved"
	TopicAppOpenAttempted  = "app.open_attempted"
)

// ShortLinkCreatedEvent is emitted when a visitor shares an entity.
type ShortLinkCreatedEvent struct {
	Code      string    `json:"code"`
	Type      string    `json:"type"`
	TargetID  string    `json:"targetId"`
	ShortURL  string    `json:"shortUrl"`
	CreatedAt time.Time `json:"createdAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}

// ShortLinkResolvedEvent is emitted when a short link landing resolves.
type ShortLinkResolvedEvent struct {
	Code       string    `json:"code"`
	Type       string    `json:"type"`
	TargetID   string    `json:"targetId"`
	ResolvedAt time.Time `json:"resolvedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer,omitempty"`
}

// AppOpenAttemptedEvent is emitted when a handoff page is served. Whether
// the app actually opened is never known.
type AppOpenAttemptedEvent struct {
	AttemptID   string    `json:"attemptId"`
	Type        string    `json:"type"`
	TargetID    string    `json:"targetId"`
	Platform    string    `json:"platform"`
	DeepLink    string    `json:"deepLink"`
	FallbackURL string    `json:"fallbackUrl"`
	AttemptedAt time.Time `json:"attemptedAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
	Referrer    string    `json:"referrer,omitempty"`
}
