package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerem/campusact/internal/app/models"
	"github.com/kerem/campusact/internal/pkg/dberrors"
)

// ErrDuplicateAttendance is returned when a student confirms the same
// session twice.
var ErrDuplicateAttendance = errors.New("attendance already recorded")

// AttendanceRepository handles database operations for attendance records.
type AttendanceRepository struct {
	db *pgxpool.Pool
}

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts an attendance record. The unique constraint on
// (session_id, student_id) turns a duplicate confirm into
// ErrDuplicateAttendance instead of a second row.
func (r *AttendanceRepository) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (offering_id, session_id, student_id, attended, watched_seconds)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, confirmed_at
	`

	err := r.db.QueryRow(ctx, query,
		rec.OfferingID, rec.SessionID, rec.StudentID, rec.Attended, rec.WatchedSeconds,
	).Scan(&rec.ID, &rec.ConfirmedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "attendance_records_session_student_key") {
			return ErrDuplicateAttendance
		}
		return fmt.Errorf("error creating attendance record: %w", err)
	}
	return nil
}

// GetBySessionAndStudent fetches a student's record for a session.
// Returns (nil, nil) when the student has not confirmed yet.
func (r *AttendanceRepository) GetBySessionAndStudent(ctx context.Context, sessionID, studentID int64) (*models.AttendanceRecord, error) {
	query := `
		SELECT id, offering_id, session_id, student_id, attended, watched_seconds, confirmed_at
		FROM attendance_records
		WHERE session_id = $1 AND student_id = $2
	`

	var rec models.AttendanceRecord
	err := r.db.QueryRow(ctx, query, sessionID, studentID).Scan(
		&rec.ID, &rec.OfferingID, &rec.SessionID, &rec.StudentID,
		&rec.Attended, &rec.WatchedSeconds, &rec.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving attendance record: %w", err)
	}
	return &rec, nil
}
