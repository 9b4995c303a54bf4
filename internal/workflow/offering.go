package workflow

import (
	"context"
	"time"

	"github.com/kerem/campusact/internal/app/models"
	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/pkg/apperrors"
	"github.com/kerem/campusact/internal/pkg/policy"
	"github.com/kerem/campusact/internal/pkg/validation"
)

// OfferingForm is the editable projection of an offering's detail fields.
// Dates are held at day precision, as the form submits them.
type OfferingForm struct {
	Code            string
	Name            string
	RewardPoints    int
	RecognizedHours int
	SemesterID      int64
	StartDate       time.Time
	EndDate         time.Time
	ContactName     string
	ContactEmail    string
}

// OfferingLifecycleManager orchestrates offering detail edits and status
// changes. The offering passed to Save and ChangeStatus must come from a
// fresh fetch; its status is the sole gate.
type OfferingLifecycleManager struct {
	client *Client
}

// NewOfferingLifecycleManager creates a manager using the given API client.
func NewOfferingLifecycleManager(client *Client) *OfferingLifecycleManager {
	return &OfferingLifecycleManager{client: client}
}

// Hydrate projects a persisted offering into its editable form, truncating
// dates to day precision.
func Hydrate(o *models.Offering) OfferingForm {
	return OfferingForm{
		Code:            o.Code,
		Name:            o.Name,
		RewardPoints:    o.RewardPoints,
		RecognizedHours: o.RecognizedHours,
		SemesterID:      o.SemesterID,
		StartDate:       ExpandStartOfDay(o.StartDate),
		EndDate:         ExpandStartOfDay(o.EndDate),
		ContactName:     o.ContactName,
		ContactEmail:    o.ContactEmail,
	}
}

// Validate runs the local field checks. The first failing rule is reported;
// nothing reaches the network on failure.
func Validate(form OfferingForm) error {
	if form.Code == "" {
		return apperrors.NewValidationError("offering code is required")
	}
	if !validation.ValidOfferingCode(form.Code) {
		return apperrors.NewValidationError("offering code may only contain letters, digits and dashes")
	}
	if form.Name == "" {
		return apperrors.NewValidationError("offering name is required")
	}
	if form.SemesterID < 1 {
		return apperrors.NewValidationError("a semester must be selected")
	}
	if form.StartDate.IsZero() || form.EndDate.IsZero() {
		return apperrors.NewValidationError("both operation dates are required")
	}
	if form.EndDate.Before(form.StartDate) {
		return apperrors.NewValidationError("operation end date must not be before the start date")
	}
	if form.RewardPoints < 0 {
		return apperrors.NewValidationError("reward points must not be negative")
	}
	if form.RecognizedHours < 0 {
		return apperrors.NewValidationError("recognized hours must not be negative")
	}
	if form.ContactEmail != "" && !validation.ValidEmail(form.ContactEmail) {
		return apperrors.NewValidationError("contact email is not a valid address")
	}
	return nil
}

// BuildPatch computes the minimal diff between the persisted offering and
// the form. A form identical to the hydrated original yields an empty patch.
func (m *OfferingLifecycleManager) BuildPatch(original *models.Offering, form OfferingForm) *dto.UpdateOfferingRequest {
	base := Hydrate(original)
	patch := &dto.UpdateOfferingRequest{}

	if form.Code != base.Code {
		code := form.Code
		patch.Code = &code
	}
	if form.Name != base.Name {
		name := form.Name
		patch.Name = &name
	}
	if form.RewardPoints != base.RewardPoints {
		points := form.RewardPoints
		patch.RewardPoints = &points
	}
	if form.RecognizedHours != base.RecognizedHours {
		hours := form.RecognizedHours
		patch.RecognizedHours = &hours
	}
	if form.SemesterID != base.SemesterID {
		semesterID := form.SemesterID
		patch.SemesterID = &semesterID
	}
	if !form.StartDate.Equal(base.StartDate) {
		startDate := ExpandStartOfDay(form.StartDate)
		patch.StartDate = &startDate
	}
	if !form.EndDate.Equal(base.EndDate) {
		endDate := ExpandEndOfDay(form.EndDate)
		patch.EndDate = &endDate
	}
	if form.ContactName != base.ContactName {
		contactName := form.ContactName
		patch.ContactName = &contactName
	}
	if form.ContactEmail != base.ContactEmail {
		contactEmail := form.ContactEmail
		patch.ContactEmail = &contactEmail
	}

	return patch
}

// Save validates and patches an offering's detail fields. The status gate and
// validation run before any network call; an empty diff short-circuits. On
// success the server's response is the fresh source of truth, including
// derived fields like the enrolled count.
func (m *OfferingLifecycleManager) Save(ctx context.Context, current *models.Offering, form OfferingForm) (*models.Offering, error) {
	if !policy.OfferingEditable(current.Status) {
		return nil, apperrors.NewPolicyError("offerings can only be edited while in DRAFT status")
	}
	if err := Validate(form); err != nil {
		return nil, err
	}

	patch := m.BuildPatch(current, form)
	if patch.Empty() {
		return current, nil
	}

	return m.client.UpdateOffering(ctx, current.ID, patch)
}

// ChangeStatus transitions an offering. The transition table gates locally
// before the call; the backend re-checks with compare-and-set semantics.
func (m *OfferingLifecycleManager) ChangeStatus(ctx context.Context, current *models.Offering, target policy.OfferingStatus) (*models.Offering, error) {
	if !policy.ValidOfferingTransition(current.Status, target) {
		return nil, apperrors.NewPolicyError("offering cannot move from " + string(current.Status) + " to " + string(target))
	}

	return m.client.ChangeOfferingStatus(ctx, current.ID, target)
}

// IsDirty reports whether the form differs from the persisted offering. The
// surrounding application uses this for unsaved-changes navigation guards.
func (m *OfferingLifecycleManager) IsDirty(original *models.Offering, form OfferingForm) bool {
	return !m.BuildPatch(original, form).Empty()
}
