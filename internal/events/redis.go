package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/tempohub/tempohub-service/internal/metrics"
	"github.com/tempohub/tempohub-service/internal/models"
)

// NewRedisClient parses url, connects and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisPublisher publishes JSON-encoded events on a single Redis channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	env     envelopes
	logger  *zap.Logger
}

// NewRedisPublisher creates a publisher writing to channel.
func NewRedisPublisher(client *redis.Client, channel string, logger *zap.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{
		client:  client,
		channel: channel,
		env:     defaultEnvelopes(),
		logger:  logger.Named("publisher"),
	}
}

// Publish wraps payload in an Event envelope and publishes it. Failures are
// counted here and logged by the caller.
func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	event := p.env.wrap(eventType, payload)

	data, err := json.Marshal(event)
	if err != nil {
		metrics.TrackPublishFailure(eventType)
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	if err := p.client.Publish(ctx, p.channel, string(data)).Err(); err != nil {
		metrics.TrackPublishFailure(eventType)
		return fmt.Errorf("failed to publish %s event on %s: %w", eventType, p.channel, err)
	}

	p.logger.Debug("Published event",
		zap.String("id", event.ID),
		zap.String("type", eventType),
		zap.String("channel", p.channel),
	)
	return nil
}

// Ping reports whether Redis is reachable.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

func (p *RedisPublisher) PublishEventCreated(ctx context.Context, event models.Event) error {
	return p.Publish(ctx, TypeEventCreated, eventCreatedPayload(event))
}

func (p *RedisPublisher) PublishEventRegistered(ctx context.Context, eventID, userID string) error {
	return p.Publish(ctx, TypeEventRegistered, eventRegisteredPayload(eventID, userID))
}

func (p *RedisPublisher) PublishPostCreated(ctx context.Context, post models.Post) error {
	return p.Publish(ctx, TypePostCreated, postCreatedPayload(post))
}

func (p *RedisPublisher) PublishMessageSent(ctx context.Context, chatID string, msg models.Message) error {
	return p.Publish(ctx, TypeMessageSent, messageSentPayload(chatID, msg))
}

func (p *RedisPublisher) PublishUserRegistered(ctx context.Context, account models.Account) error {
	return p.Publish(ctx, TypeUserRegistered, userRegisteredPayload(account))
}

func (p *RedisPublisher) PublishGroupJoined(ctx context.Context, groupID, userID string) error {
	return p.Publish(ctx, TypeGroupJoined, groupJoinedPayload(groupID, userID))
}
