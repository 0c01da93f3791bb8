package broker

import (
	"context"
	"fmt"

	"atelier-dashboard/internal/models"
)

// Publisher publishes dashboard domain events. The broker is optional
// infrastructure; when no brokers are configured a no-op implementation is
// wired instead.
type Publisher interface {
	PublishStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishSyncCompleted(ctx context.Context, event *models.SyncCompletedEvent) error
	PublishSyncFailed(ctx context.Context, event *models.SyncFailedEvent) error
	Close() error
}

// EventPublisher publishes domain events through a Kafka producer.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishStatusChanged publishes an OrderStatusChanged event, keyed by order
// so per-order history stays in partition order.
func (ep *EventPublisher) PublishStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishSyncCompleted publishes a SyncCompleted event
func (ep *EventPublisher) PublishSyncCompleted(ctx context.Context, event *models.SyncCompletedEvent) error {
	return ep.producer.PublishEvent(ctx, "sync", event)
}

// PublishSyncFailed publishes a SyncFailed event
func (ep *EventPublisher) PublishSyncFailed(ctx context.Context, event *models.SyncFailedEvent) error {
	return ep.producer.PublishEvent(ctx, "sync", event)
}

// Close closes the underlying producer
func (ep *EventPublisher) Close() error {
	return ep.producer.Close()
}

// NoopPublisher satisfies Publisher when eventing is disabled.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (*NoopPublisher) PublishStatusChanged(context.Context, *models.OrderStatusChangedEvent) error {
	return nil
}
func (*NoopPublisher) PublishSyncCompleted(context.Context, *models.SyncCompletedEvent) error {
	return nil
}
func (*NoopPublisher) PublishSyncFailed(context.Context, *models.SyncFailedEvent) error { return nil }
func (*NoopPublisher) Close() error                                                     { return nil }
