package analytics_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/serroba/clubin-web/internal/analytics"
	"github.com/serroba/clubin-web/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingStore struct {
	mu       sync.Mutex
	created  []analytics.ShortLinkCreatedEvent
	resolved []analytics.ShortLinkResolvedEvent
	attempts []analytics.AppOpenAttemptedEvent
	seen     chan struct{}
}

func newRecordingStore() *recordingStore {
	return &recordingStore{seen: make(chan struct{}, 10)}
}

func (r *recordingStore) SaveShortLinkCreated(_ context.Context, e *analytics.ShortLinkCreatedEvent) error {
	r.mu.Lock()
	r.created = append(r.created, *e)
	r.mu.Unlock()
	r.seen <- struct{}{}

	return nil
}

func (r *recordingStore) SaveShortLinkResolved(_ context.Context, e *analytics.ShortLinkResolvedEvent) error {
	r.mu.Lock()
	r.resolved = append(r.resolved, *e)
	r.mu.Unlock()
	r.seen <- struct{}{}

	return nil
}

func (r *recordingStore) SaveAppOpenAttempted(_ context.Context, e *analytics.AppOpenAttemptedEvent) error {
	r.mu.Lock()
	r.attempts = append(r.attempts, *e)
	r.mu.Unlock()
	r.seen <- struct{}{}

	return nil
}

func TestPipeline(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	store := newRecordingStore()
	group := messaging.NewConsumerGroup(pubsub, zap.NewNop())

	for _, c := range analytics.Consumers(pubsub, store, zap.NewNop()) {
		group.Add(c)
	}

	require.NoError(t, group.Start(context.Background()))

	defer func() { _ = group.Shutdown() }()

	publishers := analytics.NewPublishers(pubsub)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, publishers.ShortLinkCreated(ctx, &analytics.ShortLinkCreatedEvent{
		Code: "abc123", Type: "club", TargetID: "c1", CreatedAt: now,
	}))
	require.NoError(t, publishers.ShortLinkResolved(ctx, &analytics.ShortLinkResolvedEvent{
		Code: "abc123", Type: "club", TargetID: "c1", ResolvedAt: now,
	}))
	require.NoError(t, publishers.AppOpenAttempted(ctx, &analytics.AppOpenAttemptedEvent{
		AttemptID: "att1", Type: "club", TargetID: "c1", Platform: "ios", AttemptedAt: now,
	}))

	for range 3 {
		select {
		case <-store.seen:
		case <-time.After(time.Second):
			t.Fatal("event was not persisted")
		}
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	require.Len(t, store.created, 1)
	require.Len(t, store.resolved, 1)
	require.Len(t, store.attempts, 1)
	assert.Equal(t, "abc123", store.created[0].Code)
	assert.Equal(t, "c1", store.resolved[0].TargetID)
	assert.Equal(t, "ios", store.attempts[0].Platform)
}
