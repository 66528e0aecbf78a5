package repository

import (
	"context"
	"sync"
	"time"

	"github.com/tempohub/tempohub-service/internal/models"
)

// EventRepository defines the storage operations of the event catalog.
// List returns events in display order: the most recently created first,
// followed by the seed events in seed order.
type EventRepository interface {
	Seed(ctx context.Context, events []models.Event) error
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	AddRegistration(ctx context.Context, reg models.Registration) (bool, error)
	IsRegistered(ctx context.Context, eventID, userID string) (bool, error)
	CountRegistrations(ctx context.Context, eventID string) (int, error)
}

type memoryEventRepository struct {
	mu            sync.RWMutex
	events        []models.Event
	registrations map[string]map[string]time.Time
}

// NewMemoryEventRepository creates a repository that keeps everything in
// process memory. Its contents are lost on restart.
func NewMemoryEventRepository() EventRepository {
	return &memoryEventRepository{
		registrations: make(map[string]map[string]time.Time),
	}
}

// Seed replaces the catalog with events, kept in the given order.
func (r *memoryEventRepository) Seed(_ context.Context, events []models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]models.Event, 0, len(events))
	for _, e := range events {
		r.events = append(r.events, cloneEvent(e))
	}
	return nil
}

// Create puts event at the front of the catalog.
func (r *memoryEventRepository) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.events {
		if e.ID == event.ID {
			return ErrDuplicateEvent
		}
	}
	r.events = append([]models.Event{cloneEvent(*event)}, r.events...)
	return nil
}

func (r *memoryEventRepository) GetByID(_ context.Context, id string) (*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.events {
		if e.ID == id {
			event := cloneEvent(e)
			return &event, nil
		}
	}
	return nil, ErrEventNotFound
}

func (r *memoryEventRepository) List(_ context.Context) ([]models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]models.Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, cloneEvent(e))
	}
	return events, nil
}

// AddRegistration stores reg and reports whether it was new.
func (r *memoryEventRepository) AddRegistration(_ context.Context, reg models.Registration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasEvent(reg.EventID) {
		return false, ErrEventNotFound
	}

	users, ok := r.registrations[reg.EventID]
	if !ok {
		users = make(map[string]time.Time)
		r.registrations[reg.EventID] = users
	}
	if _, exists := users[reg.UserID]; exists {
		return false, nil
	}
	users[reg.UserID] = reg.RegisteredAt
	return true, nil
}

func (r *memoryEventRepository) IsRegistered(_ context.Context, eventID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.hasEvent(eventID) {
		return false, ErrEventNotFound
	}
	_, ok := r.registrations[eventID][userID]
	return ok, nil
}

func (r *memoryEventRepository) CountRegistrations(_ context.Context, eventID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.hasEvent(eventID) {
		return 0, ErrEventNotFound
	}
	return len(r.registrations[eventID]), nil
}

// hasEvent must be called with r.mu held.
func (r *memoryEventRepository) hasEvent(id string) bool {
	for _, e := range r.events {
		if e.ID == id {
			return true
		}
	}
	return false
}

func cloneEvent(e models.Event) models.Event {
	if e.Tags != nil {
		tags := make([]string, len(e.Tags))
		copy(tags, e.Tags)
		e.Tags = tags
	}
	return e
}
