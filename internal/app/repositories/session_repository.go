package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerem/campusact/internal/app/models"
	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/pkg/policy"
)

// SessionRepository handles database operations for sessions.
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, offering_id, name, starts_at, ends_at, reward_points, recognized_hours,
	status, video_key, video_title, video_duration_seconds, created_at, updated_at
`

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	err := row.Scan(
		&s.ID, &s.OfferingID, &s.Name, &s.StartsAt, &s.EndsAt,
		&s.RewardPoints, &s.RecognizedHours, &s.Status,
		&s.Video.StorageKey, &s.Video.Title, &s.Video.DurationSeconds,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new session in OPEN status.
func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (offering_id, name, starts_at, ends_at, reward_points,
			recognized_hours, status, video_key, video_title, video_duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	if s.Status == "" {
		s.Status = policy.SessionOpen
	}
	err := r.db.QueryRow(ctx, query,
		s.OfferingID, s.Name, s.StartsAt, s.EndsAt, s.RewardPoints,
		s.RecognizedHours, s.Status, s.Video.StorageKey, s.Video.Title, s.Video.DurationSeconds,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// GetByID retrieves a session scoped to its offering. Returns (nil, nil)
// when no row exists.
func (r *SessionRepository) GetByID(ctx context.Context, offeringID, sessionID int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 AND offering_id = $2`

	session, err := scanSession(r.db.QueryRow(ctx, query, sessionID, offeringID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}
	return session, nil
}

// GetByOffering retrieves all sessions of an offering in schedule order.
func (r *SessionRepository) GetByOffering(ctx context.Context, offeringID int64) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE offering_id = $1 ORDER BY starts_at, id`

	rows, err := r.db.Query(ctx, query, offeringID)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Update applies a field diff to a session. Absent fields stay untouched.
// A video patch with a storage key atomically replaces the stored video
// reference as part of the same row update.
func (r *SessionRepository) Update(ctx context.Context, offeringID, sessionID int64, patch *dto.UpdateSessionRequest) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argPos := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if patch.Name != nil {
		addSet("name", *patch.Name)
	}
	if patch.StartsAt != nil {
		addSet("starts_at", *patch.StartsAt)
	}
	if patch.EndsAt != nil {
		addSet("ends_at", *patch.EndsAt)
	}
	if patch.RewardPoints != nil {
		addSet("reward_points", *patch.RewardPoints)
	}
	if patch.RecognizedHours != nil {
		addSet("recognized_hours", *patch.RecognizedHours)
	}
	if patch.Video != nil {
		if patch.Video.StorageKey != nil {
			addSet("video_key", *patch.Video.StorageKey)
		}
		if patch.Video.Title != nil {
			addSet("video_title", *patch.Video.Title)
		}
		if patch.Video.DurationSeconds != nil {
			addSet("video_duration_seconds", *patch.Video.DurationSeconds)
		}
	}

	query := fmt.Sprintf("UPDATE sessions SET %s WHERE id = $%d AND offering_id = $%d",
		strings.Join(sets, ", "), argPos, argPos+1)
	args = append(args, sessionID, offeringID)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatus transitions a session's status, guarded on the expected
// current status so concurrent transitions cannot both win.
func (r *SessionRepository) UpdateStatus(ctx context.Context, offeringID, sessionID int64, from, to policy.SessionStatus) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE sessions SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND offering_id = $3 AND status = $4`,
		to, sessionID, offeringID, from,
	)
	if err != nil {
		return false, fmt.Errorf("error updating session status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
