package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/tempohub/tempohub-service/internal/models"
)

type sqliteEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteEventRepository creates an event repository persisted in SQLite.
// The schema is created by database.NewSQLiteDB.
func NewSQLiteEventRepository(db *sql.DB, logger *zap.Logger) EventRepository {
	return &sqliteEventRepository{
		db:     db,
		logger: logger.Named("event_repository"),
	}
}

// Seed inserts events only when the catalog is empty, so restarts keep
// previously created events. Rows are inserted last-to-first because List
// orders by insertion sequence, newest first.
func (r *sqliteEventRepository) Seed(ctx context.Context, events []models.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count events: %w", err)
	}
	if count > 0 {
		r.logger.Debug("Catalog already populated, skipping seed", zap.Int("count", count))
		return nil
	}

	for i := len(events) - 1; i >= 0; i-- {
		if err := insertEvent(ctx, tx, &events[i]); err != nil {
			r.logger.Error("Failed to seed event", zap.String("event_id", events[i].ID), zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	r.logger.Info("Seeded event catalog", zap.Int("count", len(events)))
	return nil
}

func (r *sqliteEventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := insertEvent(ctx, r.db, event); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEvent
		}
		r.logger.Error("Failed to create event", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *sqliteEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := `
		SELECT id, title, description, date, location, image_url, tags, attendees, is_ai_generated
		FROM events
		WHERE id = ?
	`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		r.logger.Error("Failed to get event by ID", zap.String("event_id", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}

func (r *sqliteEventRepository) List(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT id, title, description, date, location, image_url, tags, attendees, is_ai_generated
		FROM events
		ORDER BY seq DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *sqliteEventRepository) AddRegistration(ctx context.Context, reg models.Registration) (bool, error) {
	if err := r.ensureEvent(ctx, reg.EventID); err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO event_registrations (event_id, user_id, registered_at) VALUES (?, ?, ?)`,
		reg.EventID, reg.UserID, reg.RegisteredAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to add registration",
			zap.String("event_id", reg.EventID),
			zap.String("user_id", reg.UserID),
			zap.Error(err),
		)
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *sqliteEventRepository) IsRegistered(ctx context.Context, eventID, userID string) (bool, error) {
	if err := r.ensureEvent(ctx, eventID); err != nil {
		return false, err
	}

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM event_registrations WHERE event_id = ? AND user_id = ?)`,
		eventID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *sqliteEventRepository) CountRegistrations(ctx context.Context, eventID string) (int, error) {
	if err := r.ensureEvent(ctx, eventID); err != nil {
		return 0, err
	}

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_registrations WHERE event_id = ?`, eventID,
	).Scan(&count)
	return count, err
}

func (r *sqliteEventRepository) ensureEvent(ctx context.Context, id string) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEventNotFound
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func insertEvent(ctx context.Context, db execer, event *models.Event) error {
	tags := event.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO events (id, title, description, date, location, image_url, tags, attendees, is_ai_generated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.Title,
		event.Description,
		event.Date.UTC(),
		event.Location,
		event.ImageURL,
		string(encoded),
		event.Attendees,
		event.IsAIGenerated,
	)
	return err
}

func scanEvent(row scanner) (*models.Event, error) {
	var (
		event models.Event
		tags  string
	)
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.ImageURL,
		&tags,
		&event.Attendees,
		&event.IsAIGenerated,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &event.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags of event %s: %w", event.ID, err)
	}
	return &event, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
