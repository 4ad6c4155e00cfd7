package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stocker/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Envelope is the wire format published to Redis. Subscribing gateways
// fan the payload out to every client in the group.
type Envelope struct {
	Event       string    `json:"event"`
	Group       string    `json:"group"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     any       `json:"payload"`
}

// RedisNotifier publishes domain events to Redis pub/sub channels so
// realtime gateways can push them to connected clients. Publishing is
// best-effort: a failed publish is logged, never surfaced to the caller,
// because the state change has already been committed.
type RedisNotifier struct {
	client        *redis.Client
	channelPrefix string
	logger        *zap.Logger
}

// NewRedisNotifier creates a notifier over an existing Redis client.
// The caller retains ownership of the client.
func NewRedisNotifier(client *redis.Client, channelPrefix string, logger *zap.Logger) *RedisNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisNotifier{
		client:        client,
		channelPrefix: channelPrefix,
		logger:        logger,
	}
}

// Publish sends each event to its tenant group channel
func (n *RedisNotifier) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		envelope := Envelope{
			Event:       event.EventType(),
			Group:       GroupTenant(event.TenantID()),
			AggregateID: event.AggregateID().String(),
			OccurredAt:  event.OccurredAt(),
			Payload:     event,
		}

		data, err := json.Marshal(envelope)
		if err != nil {
			n.logger.Error("failed to marshal realtime event",
				zap.String("event", event.EventType()),
				zap.Error(err))
			continue
		}

		channel := n.channelPrefix + ":" + envelope.Group
		if err := n.client.Publish(ctx, channel, data).Err(); err != nil {
			n.logger.Warn("failed to publish realtime event",
				zap.String("event", event.EventType()),
				zap.String("channel", channel),
				zap.Error(err))
		}
	}
	return nil
}

var _ shared.EventPublisher = (*RedisNotifier)(nil)

// NoopNotifier discards all events. Used when realtime delivery is
// disabled in configuration.
type NoopNotifier struct{}

// NewNoopNotifier creates a notifier that discards everything
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

// Publish discards the events
func (n *NoopNotifier) Publish(context.Context, ...shared.DomainEvent) error {
	return nil
}

var _ shared.EventPublisher = (*NoopNotifier)(nil)
