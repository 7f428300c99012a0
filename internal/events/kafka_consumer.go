package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shareit-hub/service-booking/internal/application"
	itemDomain "github.com/shareit-hub/service-booking/internal/domain/item"
	"github.com/shareit-hub/service-booking/pkg/domain"
	"github.com/shareit-hub/service-booking/pkg/events"
	"github.com/shareit-hub/service-booking/pkg/kafka"
	"github.com/shareit-hub/service-booking/pkg/metrics"
)

// CatalogEventConsumer keeps the local users and items tables in step with
// the user and item services.
type CatalogEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.CatalogService
	logger   *zap.Logger
}

// NewCatalogEventConsumer creates a new CatalogEventConsumer.
func NewCatalogEventConsumer(
	brokers []string,
	groupID string,
	service *application.CatalogService,
	logger *zap.Logger,
) *CatalogEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, []string{events.TopicUserEvents, events.TopicItemEvents}, logger)
	return &CatalogEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming catalog events. This blocks until the context is cancelled.
func (c *CatalogEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *CatalogEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *CatalogEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from catalog topic",
			zap.String("topic", msg.Topic),
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		metrics.ObserveEventConsumed("unknown", false)
		return nil // Don't retry malformed messages
	}

	err = c.dispatch(ctx, cloudEvent)
	metrics.ObserveEventConsumed(cloudEvent.Type, err == nil)
	return err
}

func (c *CatalogEventConsumer) dispatch(ctx context.Context, ce kafka.CloudEvent) error {
	switch ce.Type {
	case events.UserRegistered, events.UserUpdated:
		var evt events.UserEvent
		if !c.parse(ce, &evt) {
			return nil
		}
		return c.settle(ce, c.service.SaveUser(ctx, evt.UserID, evt.Name, evt.Email))

	case events.UserDeleted:
		var evt events.UserEvent
		if !c.parse(ce, &evt) {
			return nil
		}
		return c.settle(ce, c.service.RemoveUser(ctx, evt.UserID))

	case events.ItemListed:
		var evt events.ItemListedEvent
		if !c.parse(ce, &evt) {
			return nil
		}
		return c.settle(ce, c.service.SaveItem(ctx, evt.ItemID, evt.OwnerID, evt.Name, evt.Description, evt.Available))

	case events.ItemUpdated:
		var evt events.ItemUpdatedEvent
		if !c.parse(ce, &evt) {
			return nil
		}
		patch := itemDomain.Patch{Name: evt.Name, Description: evt.Description, Available: evt.Available}
		return c.settle(ce, c.service.PatchItem(ctx, evt.ItemID, patch))

	case events.ItemDelisted:
		var evt events.ItemDelistedEvent
		if !c.parse(ce, &evt) {
			return nil
		}
		return c.settle(ce, c.service.RemoveItem(ctx, evt.ItemID))

	default:
		c.logger.Debug("ignoring unhandled catalog event type",
			zap.String("type", ce.Type),
		)
		return nil
	}
}

func (c *CatalogEventConsumer) parse(ce kafka.CloudEvent, v any) bool {
	if err := ce.ParseData(v); err != nil {
		c.logger.Error("failed to parse catalog event data",
			zap.String("type", ce.Type),
			zap.String("id", ce.ID),
			zap.Error(err),
		)
		return false // Don't retry malformed data
	}
	return true
}

// settle decides whether a handler error is worth a retry. Only version
// conflicts and infrastructure failures are; rule violations never succeed.
func (c *CatalogEventConsumer) settle(ce kafka.CloudEvent, err error) error {
	if err == nil {
		return nil
	}
	switch domain.KindOf(err) {
	case "", domain.KindConflict:
		return err
	default:
		c.logger.Warn("skipping catalog event",
			zap.String("type", ce.Type),
			zap.String("id", ce.ID),
			zap.Error(err),
		)
		return nil
	}
}
