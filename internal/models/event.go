package models

import (
	"time"
)

// Event is a listing in the TempoHub catalog. Events are never mutated after
// creation.
type Event struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	Date          time.Time `json:"date" db:"date"`
	Location      string    `json:"location" db:"location"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	Tags          []string  `json:"tags" db:"tags"`
	Attendees     int       `json:"attendees" db:"attendees"`
	IsAIGenerated bool      `json:"is_ai_generated" db:"is_ai_generated"`
}

// CreateEventRequest represents the data needed to create an event through
// the AI-assisted flow
type CreateEventRequest struct {
	Title   string `json:"title"`
	Context string `json:"context,omitempty"`
}

// GenerationResult is the output of the AI event-detail generation.
type GenerationResult struct {
	Description        string   `json:"description"`
	Tags               []string `json:"tags"`
	LocationSuggestion string   `json:"location_suggestion"`
	ImageURL           string   `json:"image_url"`
}

// Registration records that a user signed up for an event.
type Registration struct {
	EventID      string    `json:"event_id" db:"event_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

