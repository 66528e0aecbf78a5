package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tempohub/tempohub-service/internal/models"
)

// Event types
const (
	TypeEventCreated    = "event_created"
	TypeEventRegistered = "event_registered"
	TypePostCreated     = "post_created"
	TypeMessageSent     = "message_sent"
	TypeUserRegistered  = "user_registered"
	TypeGroupJoined     = "group_joined"
)

// DefaultChannel is the pub/sub channel used when none is configured
const DefaultChannel = "tempohub_events"

// Event represents a domain event
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Publisher announces things that happened in TempoHub to other services.
type Publisher interface {
	PublishEventCreated(ctx context.Context, event models.Event) error
	PublishEventRegistered(ctx context.Context, eventID, userID string) error
	PublishPostCreated(ctx context.Context, post models.Post) error
	PublishMessageSent(ctx context.Context, chatID string, msg models.Message) error
	PublishUserRegistered(ctx context.Context, account models.Account) error
	PublishGroupJoined(ctx context.Context, groupID, userID string) error
}

// envelopes builds Event values; split out so tests can pin IDs and clocks.
type envelopes struct {
	newID func() string
	now   func() time.Time
}

func defaultEnvelopes() envelopes {
	return envelopes{
		newID: func() string { return uuid.New().String() },
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (e envelopes) wrap(eventType string, payload interface{}) Event {
	return Event{
		ID:        e.newID(),
		Type:      eventType,
		Timestamp: e.now(),
		Payload:   payload,
	}
}

func eventCreatedPayload(event models.Event) map[string]interface{} {
	return map[string]interface{}{
		"event_id":        event.ID,
		"title":           event.Title,
		"date":            event.Date,
		"location":        event.Location,
		"tags":            event.Tags,
		"is_ai_generated": event.IsAIGenerated,
	}
}

func eventRegisteredPayload(eventID, userID string) map[string]interface{} {
	return map[string]interface{}{
		"event_id": eventID,
		"user_id":  userID,
	}
}

func postCreatedPayload(post models.Post) map[string]interface{} {
	return map[string]interface{}{
		"post_id":   post.ID,
		"author_id": post.Author.ID,
		"type":      post.Type,
	}
}

func messageSentPayload(chatID string, msg models.Message) map[string]interface{} {
	return map[string]interface{}{
		"chat_id":    chatID,
		"message_id": msg.ID,
		"sender_id":  msg.SenderID,
	}
}

func userRegisteredPayload(account models.Account) map[string]interface{} {
	return map[string]interface{}{
		"user_id": account.ID,
		"name":    account.Name,
		"email":   account.Email,
	}
}

func groupJoinedPayload(groupID, userID string) map[string]interface{} {
	return map[string]interface{}{
		"group_id": groupID,
		"user_id":  userID,
	}
}

// NopPublisher drops every event. It is used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishEventCreated(context.Context, models.Event) error { return nil }
func (NopPublisher) PublishEventRegistered(context.Context, string, string) error { return nil }
func (NopPublisher) PublishPostCreated(context.Context, models.Post) error { return nil }
func (NopPublisher) PublishMessageSent(context.Context, string, models.Message) error { return nil }
func (NopPublisher) PublishUserRegistered(context.Context, models.Account) error { return nil }
func (NopPublisher) PublishGroupJoined(context.Context, string, string) error { return nil }
