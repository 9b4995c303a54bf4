package workflow

import (
	"context"
	"time"

	"github.com/kerem/campusact/internal/app/models"
	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/pkg/apperrors"
	"github.com/kerem/campusact/internal/pkg/policy"
)

// SessionForm is the editable projection of a session, as the edit screen
// holds it.
type SessionForm struct {
	Name            string
	StartsAt        time.Time
	EndsAt          time.Time
	RewardPoints    int
	RecognizedHours int
	VideoTitle      string
}

// SessionLifecycleManager orchestrates session creation, editing, and status
// changes. Every gate reads the offering status the caller passes in, which
// must come from a fresh fetch, never a cache carried across screens.
type SessionLifecycleManager struct {
	client *Client
}

// NewSessionLifecycleManager creates a manager using the given API client.
func NewSessionLifecycleManager(client *Client) *SessionLifecycleManager {
	return &SessionLifecycleManager{client: client}
}

func validateSessionForm(name string, startsAt, endsAt time.Time, points, hours int) error {
	if name == "" {
		return apperrors.NewValidationError("session name is required")
	}
	if startsAt.IsZero() || endsAt.IsZero() {
		return apperrors.NewValidationError("session start and end times are required")
	}
	if endsAt.Before(startsAt) {
		return apperrors.NewValidationError("session end must not be before its start")
	}
	if points < 0 {
		return apperrors.NewValidationError("reward points must not be negative")
	}
	if hours < 0 {
		return apperrors.NewValidationError("recognized hours must not be negative")
	}
	return nil
}

// Create validates the form and posts a new session. The video must already
// be committed to storage (a PendingVideo whose transfer succeeded).
func (m *SessionLifecycleManager) Create(ctx context.Context, offeringStatus policy.OfferingStatus, offeringID int64, form SessionForm, video *PendingVideo) (*models.Session, error) {
	if !policy.SessionEditable(offeringStatus) {
		return nil, apperrors.NewPolicyError("sessions can only be added while the offering is OPEN")
	}
	if err := validateSessionForm(form.Name, form.StartsAt, form.EndsAt, form.RewardPoints, form.RecognizedHours); err != nil {
		return nil, err
	}
	if video == nil || video.StorageKey == "" {
		return nil, apperrors.NewValidationError("a session requires an uploaded video")
	}

	title := form.VideoTitle
	if title == "" {
		title = video.Title
	}

	created, err := m.client.CreateSession(ctx, offeringID, &dto.CreateSessionRequest{
		Name:            form.Name,
		StartsAt:        form.StartsAt,
		EndsAt:          form.EndsAt,
		RewardPoints:    form.RewardPoints,
		RecognizedHours: form.RecognizedHours,
		Video: dto.VideoDescriptor{
			StorageKey:      video.StorageKey,
			Title:           title,
			DurationSeconds: video.DurationSeconds,
		},
	})
	if err != nil {
		return nil, err
	}
	video.Release()
	return created, nil
}

// HydrateSession projects a persisted session into its editable form.
func HydrateSession(s *models.Session) SessionForm {
	return SessionForm{
		Name:            s.Name,
		StartsAt:        s.StartsAt,
		EndsAt:          s.EndsAt,
		RewardPoints:    s.RewardPoints,
		RecognizedHours: s.RecognizedHours,
		VideoTitle:      s.Video.Title,
	}
}

// BuildPatch computes the minimal field diff between the persisted session
// and the form. The video sub-object is included only when the title changed
// or a pending replacement exists; a form identical to the original yields an
// empty patch, which means "nothing to save" and no network call.
func (m *SessionLifecycleManager) BuildPatch(original *models.Session, form SessionForm, pending *PendingVideo) *dto.UpdateSessionRequest {
	patch := &dto.UpdateSessionRequest{}

	if form.Name != original.Name {
		name := form.Name
		patch.Name = &name
	}
	if !form.StartsAt.Equal(original.StartsAt) {
		startsAt := form.StartsAt
		patch.StartsAt = &startsAt
	}
	if !form.EndsAt.Equal(original.EndsAt) {
		endsAt := form.EndsAt
		patch.EndsAt = &endsAt
	}
	if form.RewardPoints != original.RewardPoints {
		points := form.RewardPoints
		patch.RewardPoints = &points
	}
	if form.RecognizedHours != original.RecognizedHours {
		hours := form.RecognizedHours
		patch.RecognizedHours = &hours
	}

	titleChanged := form.VideoTitle != original.Video.Title
	if pending != nil {
		video := &dto.VideoPatch{
			StorageKey:      &pending.StorageKey,
			DurationSeconds: &pending.DurationSeconds,
		}
		title := form.VideoTitle
		if title == "" {
			title = pending.Title
		}
		video.Title = &title
		patch.Video = video
	} else if titleChanged {
		title := form.VideoTitle
		patch.Video = &dto.VideoPatch{Title: &title}
	}

	return patch
}

// Save applies a patch to a session. The gate runs before any network call;
// an empty patch short-circuits and reports the current session unchanged.
// On success any pending video reference has been committed and is released.
func (m *SessionLifecycleManager) Save(ctx context.Context, offeringStatus policy.OfferingStatus, offeringID int64, original *models.Session, patch *dto.UpdateSessionRequest, pending *PendingVideo) (*models.Session, error) {
	if !policy.SessionEditable(offeringStatus) {
		return nil, apperrors.NewPolicyError("sessions can only be edited while the offering is OPEN")
	}

	if patch.Empty() {
		return original, nil
	}

	name := original.Name
	if patch.Name != nil {
		name = *patch.Name
	}
	startsAt := original.StartsAt
	if patch.StartsAt != nil {
		startsAt = *patch.StartsAt
	}
	endsAt := original.EndsAt
	if patch.EndsAt != nil {
		endsAt = *patch.EndsAt
	}
	points := original.RewardPoints
	if patch.RewardPoints != nil {
		points = *patch.RewardPoints
	}
	hours := original.RecognizedHours
	if patch.RecognizedHours != nil {
		hours = *patch.RecognizedHours
	}
	if err := validateSessionForm(name, startsAt, endsAt, points, hours); err != nil {
		return nil, err
	}

	updated, err := m.client.UpdateSession(ctx, offeringID, original.ID, patch)
	if err != nil {
		return nil, err
	}
	pending.Release()
	return updated, nil
}

// ChangeStatus transitions a session. Cancellation is destructive and
// irreversible, so the caller must have obtained explicit confirmation
// before requesting CANCELED.
func (m *SessionLifecycleManager) ChangeStatus(ctx context.Context, offeringStatus policy.OfferingStatus, offeringID int64, session *models.Session, target policy.SessionStatus, confirmed bool) (*models.Session, error) {
	if !policy.SessionStatusChangeable(offeringStatus) {
		return nil, apperrors.NewPolicyError("session status can only change while the offering is IN_PROGRESS")
	}
	if !policy.ValidSessionTransition(session.Status, target) {
		return nil, apperrors.NewPolicyError("session cannot move from " + string(session.Status) + " to " + string(target))
	}
	if target == policy.SessionCanceled && !confirmed {
		return nil, apperrors.NewPolicyError("canceling a session requires explicit confirmation")
	}

	return m.client.ChangeSessionStatus(ctx, offeringID, session.ID, target)
}
