package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerem/campusact/internal/app/models"
)

// SemesterRepository handles database operations for semesters.
type SemesterRepository struct {
	db *pgxpool.Pool
}

// NewSemesterRepository creates a new semester repository.
func NewSemesterRepository(db *pgxpool.Pool) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// Create inserts a semester. The code must be unique.
func (r *SemesterRepository) Create(ctx context.Context, code, name string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO semesters (code, name) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`,
		code, name)
	if err != nil {
		return fmt.Errorf("error creating semester: %w", err)
	}
	return nil
}

// GetByID retrieves a semester by ID. Returns (nil, nil) when absent.
func (r *SemesterRepository) GetByID(ctx context.Context, id int64) (*models.Semester, error) {
	var s models.Semester
	err := r.db.QueryRow(ctx, `SELECT id, code, name FROM semesters WHERE id = $1`, id).
		Scan(&s.ID, &s.Code, &s.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving semester: %w", err)
	}
	return &s, nil
}

// GetAll retrieves all semesters, newest code first.
func (r *SemesterRepository) GetAll(ctx context.Context) ([]*models.Semester, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name FROM semesters ORDER BY code DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing semesters: %w", err)
	}
	defer rows.Close()

	var semesters []*models.Semester
	for rows.Next() {
		var s models.Semester
		if err := rows.Scan(&s.ID, &s.Code, &s.Name); err != nil {
			return nil, err
		}
		semesters = append(semesters, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return semesters, nil
}
