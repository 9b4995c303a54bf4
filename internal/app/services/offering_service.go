package services

import (
	"context"
	"fmt"

	"github.com/kerem/campusact/internal/app/models"
	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/pkg/apperrors"
	"github.com/kerem/campusact/internal/pkg/helpers"
	"github.com/kerem/campusact/internal/pkg/policy"
	"github.com/kerem/campusact/internal/pkg/validation"
)

// OfferingStore is the persistence surface OfferingService needs.
type OfferingStore interface {
	GetByID(ctx context.Context, id int64) (*models.Offering, error)
	GetStatus(ctx context.Context, id int64) (policy.OfferingStatus, error)
	GetAll(ctx context.Context, filter *dto.OfferingFilterRequest, offset uint64, limit int) ([]*models.Offering, int64, error)
	Update(ctx context.Context, id int64, patch *dto.UpdateOfferingRequest) error
	UpdateStatus(ctx context.Context, id int64, from, to policy.OfferingStatus) (bool, error)
}

// SemesterStore is the persistence surface for semester lookups.
type SemesterStore interface {
	GetByID(ctx context.Context, id int64) (*models.Semester, error)
	GetAll(ctx context.Context) ([]*models.Semester, error)
}

// OfferingService defines the interface for offering operations.
type OfferingService interface {
	GetAllOfferings(ctx context.Context, filter *dto.OfferingFilterRequest) ([]*models.Offering, dto.PaginationMeta, error)
	GetOfferingByID(ctx context.Context, id int64) (*models.Offering, error)
	UpdateOffering(ctx context.Context, id int64, patch *dto.UpdateOfferingRequest) (*models.Offering, error)
	ChangeOfferingStatus(ctx context.Context, id int64, target policy.OfferingStatus) (*models.Offering, error)
}

// offeringServiceImpl implements OfferingService.
type offeringServiceImpl struct {
	offeringRepo OfferingStore
	semesterRepo SemesterStore
}

// NewOfferingService creates a new OfferingService.
func NewOfferingService(offeringRepo OfferingStore, semesterRepo SemesterStore) OfferingService {
	return &offeringServiceImpl{
		offeringRepo: offeringRepo,
		semesterRepo: semesterRepo,
	}
}

// GetAllOfferings retrieves offerings with filtering and pagination.
func (s *offeringServiceImpl) GetAllOfferings(ctx context.Context, filter *dto.OfferingFilterRequest) ([]*models.Offering, dto.PaginationMeta, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	offerings, total, err := s.offeringRepo.GetAll(ctx, filter, offset, limit)
	if err != nil {
		return nil, dto.PaginationMeta{}, fmt.Errorf("error getting offerings: %w", err)
	}
	return offerings, helpers.NewPaginationMeta(total, filter.Page, limit), nil
}

// GetOfferingByID retrieves an offering by ID.
func (s *offeringServiceImpl) GetOfferingByID(ctx context.Context, id int64) (*models.Offering, error) {
	offering, err := s.offeringRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting offering: %w", err)
	}
	if offering == nil {
		return nil, apperrors.ErrOfferingNotFound
	}
	return offering, nil
}

// UpdateOffering applies a field diff to an offering. The current status is
// re-read from the database; an offering that left DRAFT rejects the edit
// before any row is touched.
func (s *offeringServiceImpl) UpdateOffering(ctx context.Context, id int64, patch *dto.UpdateOfferingRequest) (*models.Offering, error) {
	offering, err := s.GetOfferingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.OfferingEditable(offering.Status) {
		return nil, apperrors.NewPolicyError("offering can only be edited while in DRAFT status")
	}

	if patch.Empty() {
		return offering, nil
	}

	if err := s.validatePatch(ctx, offering, patch); err != nil {
		return nil, err
	}

	if err := s.offeringRepo.Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("error updating offering: %w", err)
	}

	return s.GetOfferingByID(ctx, id)
}

// validatePatch checks the resulting state of applying patch to offering.
func (s *offeringServiceImpl) validatePatch(ctx context.Context, offering *models.Offering, patch *dto.UpdateOfferingRequest) error {
	if patch.Code != nil && !validation.ValidOfferingCode(*patch.Code) {
		return apperrors.NewValidationError("offering code must be 2-32 letters, digits or dashes")
	}
	if patch.Name != nil && *patch.Name == "" {
		return apperrors.NewValidationError("offering name is required")
	}
	if patch.RewardPoints != nil && *patch.RewardPoints < 0 {
		return apperrors.NewValidationError("reward points must not be negative")
	}
	if patch.RecognizedHours != nil && *patch.RecognizedHours < 0 {
		return apperrors.NewValidationError("recognized hours must not be negative")
	}
	if patch.ContactEmail != nil && *patch.ContactEmail != "" && !validation.ValidEmail(*patch.ContactEmail) {
		return apperrors.NewValidationError("contact email is not a valid address")
	}

	start := offering.StartDate
	if patch.StartDate != nil {
		start = *patch.StartDate
	}
	end := offering.EndDate
	if patch.EndDate != nil {
		end = *patch.EndDate
	}
	if end.Before(start) {
		return apperrors.NewValidationError("operation end date must not be before start date")
	}

	if patch.SemesterID != nil {
		semester, err := s.semesterRepo.GetByID(ctx, *patch.SemesterID)
		if err != nil {
			return fmt.Errorf("error checking semester: %w", err)
		}
		if semester == nil {
			return apperrors.ErrSemesterNotFound
		}
	}

	return nil
}

// ChangeOfferingStatus transitions an offering per the allowed-transition
// table. The compare-and-set in the repository keeps two racing admins from
// both transitioning the same row.
func (s *offeringServiceImpl) ChangeOfferingStatus(ctx context.Context, id int64, target policy.OfferingStatus) (*models.Offering, error) {
	if !policy.KnownOfferingStatus(target) {
		return nil, apperrors.NewValidationErrorf("unknown offering status %q", target)
	}

	offering, err := s.GetOfferingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.ValidOfferingTransition(offering.Status, target) {
		return nil, apperrors.NewPolicyError(
			fmt.Sprintf("offering cannot move from %s to %s", offering.Status, target))
	}

	changed, err := s.offeringRepo.UpdateStatus(ctx, id, offering.Status, target)
	if err != nil {
		return nil, fmt.Errorf("error changing offering status: %w", err)
	}
	if !changed {
		return nil, apperrors.NewConflictError("offering status changed concurrently, reload and retry")
	}

	return s.GetOfferingByID(ctx, id)
}
