package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable is a component with a start and stop lifecycle.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

type topicNamer interface {
	Topic() string
}

// ConsumerGroup starts and stops the consumers sharing one subscriber.
type ConsumerGroup struct {
	consumers  []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger
}

// NewConsumerGroup creates a consumer group over subscriber.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers consumers with the group.
func (g *ConsumerGroup) Add(consumers ...Runnable) {
	g.consumers = append(g.consumers, consumers...)
}

// Start starts every consumer. If one fails, the ones already started are
// shut down again.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	for i, consumer := range g.consumers {
		if err := consumer.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = g.consumers[j].Shutdown()
			}

			return fmt.Errorf("start consumer %s: %w", name(consumer, i), err)
		}

		g.logger.Debug("consumer started", zap.String("consumer", name(consumer, i)))
	}

	g.logger.Info("consumer group started", zap.Int("count", len(g.consumers)))

	return nil
}

// Shutdown stops every consumer and closes the subscriber. All of them are
// attempted and every failure is reported.
func (g *ConsumerGroup) Shutdown() error {
	g.logger.Info("shutting down consumer group")

	errs := make([]error, 0, len(g.consumers)+1)

	for i, consumer := range g.consumers {
		if err := consumer.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("stop consumer %s: %w", name(consumer, i), err))
		}
	}

	if err := g.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close subscriber: %w", err))
	}

	return errors.Join(errs...)
}

func name(consumer Runnable, i int) string {
	if n, ok := consumer.(topicNamer); ok {
		return n.Topic()
	}

	return fmt.Sprintf("#%d", i)
}
