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

// OfferingRepository handles database operations for offerings.
type OfferingRepository struct {
	db *pgxpool.Pool
}

// NewOfferingRepository creates a new offering repository.
func NewOfferingRepository(db *pgxpool.Pool) *OfferingRepository {
	return &OfferingRepository{db: db}
}

const offeringColumns = `
	o.id, o.code, o.name, o.reward_points, o.recognized_hours, o.semester_id,
	o.start_date, o.end_date, o.contact_name, o.contact_email, o.status,
	o.created_at, o.updated_at,
	(SELECT COUNT(*) FROM enrollments e WHERE e.offering_id = o.id) AS enrolled_count
`

func scanOffering(row pgx.Row) (*models.Offering, error) {
	var o models.Offering
	err := row.Scan(
		&o.ID, &o.Code, &o.Name, &o.RewardPoints, &o.RecognizedHours, &o.SemesterID,
		&o.StartDate, &o.EndDate, &o.ContactName, &o.ContactEmail, &o.Status,
		&o.CreatedAt, &o.UpdatedAt, &o.EnrolledCount,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a new offering in DRAFT status.
func (r *OfferingRepository) Create(ctx context.Context, o *models.Offering) error {
	query := `
		INSERT INTO offerings (code, name, reward_points, recognized_hours, semester_id,
			start_date, end_date, contact_name, contact_email, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	if o.Status == "" {
		o.Status = policy.OfferingDraft
	}
	err := r.db.QueryRow(ctx, query,
		o.Code, o.Name, o.RewardPoints, o.RecognizedHours, o.SemesterID,
		o.StartDate, o.EndDate, o.ContactName, o.ContactEmail, o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating offering: %w", err)
	}
	return nil
}

// GetByID retrieves an offering by ID, with its derived enrolled count.
// Returns (nil, nil) when no row exists.
func (r *OfferingRepository) GetByID(ctx context.Context, id int64) (*models.Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM offerings o WHERE o.id = $1`

	offering, err := scanOffering(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving offering: %w", err)
	}
	return offering, nil
}

// GetStatus fetches only the current status of an offering. Gating decisions
// must use this fresh value, never one cached from an earlier screen.
func (r *OfferingRepository) GetStatus(ctx context.Context, id int64) (policy.OfferingStatus, error) {
	var status policy.OfferingStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM offerings WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("error retrieving offering status: %w", err)
	}
	return status, nil
}

// GetAll retrieves offerings filtered by keyword and semester, paged.
func (r *OfferingRepository) GetAll(ctx context.Context, filter *dto.OfferingFilterRequest, offset uint64, limit int) ([]*models.Offering, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.Keyword != "" {
		conditions = append(conditions, fmt.Sprintf("(o.name ILIKE $%d OR o.code ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filter.Keyword+"%")
		argPos++
	}
	if filter.SemesterID > 0 {
		conditions = append(conditions, fmt.Sprintf("o.semester_id = $%d", argPos))
		args = append(args, filter.SemesterID)
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM offerings o WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting offerings: %w", err)
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM offerings o WHERE %s ORDER BY o.start_date DESC, o.id DESC LIMIT $%d OFFSET $%d`,
		offeringColumns, where, argPos, argPos+1,
	)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing offerings: %w", err)
	}
	defer rows.Close()

	var offerings []*models.Offering
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, 0, err
		}
		offerings = append(offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return offerings, total, nil
}

// Update applies a field diff to an offering. Absent fields stay untouched.
func (r *OfferingRepository) Update(ctx context.Context, id int64, patch *dto.UpdateOfferingRequest) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argPos := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if patch.Code != nil {
		addSet("code", *patch.Code)
	}
	if patch.Name != nil {
		addSet("name", *patch.Name)
	}
	if patch.RewardPoints != nil {
		addSet("reward_points", *patch.RewardPoints)
	}
	if patch.RecognizedHours != nil {
		addSet("recognized_hours", *patch.RecognizedHours)
	}
	if patch.SemesterID != nil {
		addSet("semester_id", *patch.SemesterID)
	}
	if patch.StartDate != nil {
		addSet("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		addSet("end_date", *patch.EndDate)
	}
	if patch.ContactName != nil {
		addSet("contact_name", *patch.ContactName)
	}
	if patch.ContactEmail != nil {
		addSet("contact_email", *patch.ContactEmail)
	}

	query := fmt.Sprintf("UPDATE offerings SET %s WHERE id = $%d", strings.Join(sets, ", "), argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating offering: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatus transitions an offering's status. The expected current status
// is part of the WHERE clause so concurrent transitions cannot both win.
func (r *OfferingRepository) UpdateStatus(ctx context.Context, id int64, from, to policy.OfferingStatus) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE offerings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return false, fmt.Errorf("error updating offering status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
