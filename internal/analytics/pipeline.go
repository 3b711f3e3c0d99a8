package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/clubin-web/internal/messaging"
	"go.uber.org/zap"
)

// Publishers holds one publish function per share funnel topic.
type Publishers struct {
	ShortLinkCreated  messaging.Publish[ShortLinkCreatedEvent]
	ShortLinkResolved messaging.Publish[ShortLinkResolvedEvent]
	AppOpenAttempted  messaging.Publish[AppOpenAttemptedEvent]
}

// NewPublishers binds the funnel topics to publisher.
func NewPublishers(publisher message.Publisher) Publishers {
	return Publishers{
		ShortLinkCreated:  messaging.NewPublishFunc[ShortLinkCreatedEvent](publisher, TopicShortLinkCreated),
		ShortLinkResolved: messaging.NewPublishFunc[ShortLinkResolvedEvent](publisher, TopicShortLinkResolved),
		AppOpenAttempted:  messaging.NewPublishFunc[AppOpenAttemptedEvent](publisher, TopicAppOpenAttempted),
	}
}

// Consumers returns one consumer per funnel topic, each persisting into store.
func Consumers(subscriber message.Subscriber, store Store, logger *zap.Logger) []messaging.Runnable {
	return []messaging.Runnable{
		messaging.NewConsumer[ShortLinkCreatedEvent](
			subscriber, TopicShortLinkCreated, store.SaveShortLinkCreated, logger),
		messaging.NewConsumer[ShortLinkResolvedEvent](
			subscriber, TopicShortLinkResolved, store.SaveShortLinkResolved, logger),
		messaging.NewConsumer[AppOpenAttemptedEvent](
			subscriber, TopicAppOpenAttempted, store.SaveAppOpenAttempted, logger),
	}
}
