// Package catalog owns the event listing: the launch seed, search and
// category filtering, AI-assisted creation and event registrations.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tempohub/tempohub-service/internal/events"
	"github.com/tempohub/tempohub-service/internal/metrics"
	"github.com/tempohub/tempohub-service/internal/models"
	"github.com/tempohub/tempohub-service/internal/repository"
)

// ErrTitleRequired is returned when an event is created with a blank title.
var ErrTitleRequired = errors.New("title is required")

// ErrEventNotFound is returned for unknown event IDs.
var ErrEventNotFound = repository.ErrEventNotFound

// Generator produces the AI-written details of a new event. It never fails.
type Generator interface {
	Generate(ctx context.Context, title, eventContext string) models.GenerationResult
}

// RegistrationStatus is what a user sees on the event details view.
// Attendees is the event's listed attendance plus the registrations made
// through this service.
type RegistrationStatus struct {
	EventID    string `json:"event_id"`
	Registered bool   `json:"registered"`
	Attendees  int    `json:"attendees"`
}

// Service is the event catalog.
type Service struct {
	repo      repository.EventRepository
	generator Generator
	publisher events.Publisher
	logger    *zap.Logger

	now   func() time.Time
	intn  func(n int) int
	newID func() string
}

// NewService creates a catalog backed by repo.
func NewService(repo repository.EventRepository, generator Generator, publisher events.Publisher, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		generator: generator,
		publisher: publisher,
		logger:    logger.Named("catalog"),
		now:       time.Now,
		intn:      rand.Intn,
		newID:     func() string { return uuid.New().String() },
	}
}

// LoadSeed fills the repository with the launch catalog.
func (s *Service) LoadSeed(ctx context.Context) error {
	seeds, err := SeedEvents(s.now())
	if err != nil {
		return err
	}
	if err := s.repo.Seed(ctx, seeds); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return nil
}

// List returns the events matching filter, newest creations first.
func (s *Service) List(ctx context.Context, filter Filter) ([]models.Event, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return filter.Apply(all), nil
}

// Get returns a single event.
func (s *Service) Get(ctx context.Context, id string) (*models.Event, error) {
	return s.repo.GetByID(ctx, id)
}

// Preview runs the generator for req without storing anything.
func (s *Service) Preview(ctx context.Context, req models.CreateEventRequest) (models.GenerationResult, error) {
	if strings.TrimSpace(req.Title) == "" {
		return models.GenerationResult{}, ErrTitleRequired
	}
	return s.generator.Generate(ctx, req.Title, req.Context), nil
}

// Create generates the details of a new event, stores it at the front of the
// catalog and announces it.
func (s *Service) Create(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}

	details := s.generator.Generate(ctx, req.Title, req.Context)

	days := time.Duration(s.intn(10) + 1)
	event := &models.Event{
		ID:            s.newID(),
		Title:         req.Title,
		Description:   details.Description,
		Date:          s.now().Add(days * 24 * time.Hour).UTC(),
		Location:      details.LocationSuggestion,
		ImageURL:      details.ImageURL,
		Tags:          details.Tags,
		Attendees:     s.intn(200) + 10,
		IsAIGenerated: true,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}
	metrics.TrackEventCreated()

	s.logger.Info("Event created",
		zap.String("event_id", event.ID),
		zap.String("title", event.Title),
		zap.Strings("tags", event.Tags),
	)

	if err := s.publisher.PublishEventCreated(ctx, *event); err != nil {
		s.logger.Warn("Failed to publish event_created", zap.String("event_id", event.ID), zap.Error(err))
	}
	return event, nil
}

// Register signs userID up for the event. Registering twice is a no-op.
func (s *Service) Register(ctx context.Context, eventID, userID string) (RegistrationStatus, error) {
	created, err := s.repo.AddRegistration(ctx, models.Registration{
		EventID:      eventID,
		UserID:       userID,
		RegisteredAt: s.now().UTC(),
	})
	if err != nil {
		return RegistrationStatus{}, err
	}

	if created {
		s.logger.Info("User registered for event", zap.String("event_id", eventID), zap.String("user_id", userID))
		if err := s.publisher.PublishEventRegistered(ctx, eventID, userID); err != nil {
			s.logger.Warn("Failed to publish event_registered", zap.String("event_id", eventID), zap.Error(err))
		}
	}
	return s.Registration(ctx, eventID, userID)
}

// Registration reports whether userID is registered for the event.
func (s *Service) Registration(ctx context.Context, eventID, userID string) (RegistrationStatus, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return RegistrationStatus{}, err
	}
	registered, err := s.repo.IsRegistered(ctx, eventID, userID)
	if err != nil {
		return RegistrationStatus{}, err
	}
	count, err := s.repo.CountRegistrations(ctx, eventID)
	if err != nil {
		return RegistrationStatus{}, err
	}
	return RegistrationStatus{
		EventID:    eventID,
		Registered: registered,
		Attendees:  event.Attendees + count,
	}, nil
}
