package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/shareit-hub/service-booking/pkg/kafka"
)

const eventSource = "service-booking"

// EventPublisher sends CloudEvents to a topic. *kafka.Producer implements it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error
}

// Transactor runs fn inside one database transaction. *database.TxManager implements it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// publishEvent is fire-and-forget: failures are logged and never reach the caller.
func publishEvent(ctx context.Context, producer EventPublisher, logger *zap.Logger, topic, eventType, key string, data interface{}) {
	if producer == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = key

	if err := producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
