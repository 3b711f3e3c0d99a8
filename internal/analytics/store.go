package analytics

import "context"

// Store persists share funnel events.
type Store interface {
	SaveShortLinkCreated(ctx context.Context, event *ShortLinkCreatedEvent) error
	SaveShortLinkResolved(ctx context.Context, event *ShortLinkResolvedEvent) error
	SaveAppOpenAttempted(ctx context.Context, event *AppOpenAttemptedEvent) error
}
