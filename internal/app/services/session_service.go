package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kerem/campusact/internal/app/models"
	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/pkg/apperrors"
	"github.com/kerem/campusact/internal/pkg/policy"
)

// SessionStore is the persistence surface SessionService needs.
type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, offeringID, sessionID int64) (*models.Session, error)
	GetByOffering(ctx context.Context, offeringID int64) ([]*models.Session, error)
	Update(ctx context.Context, offeringID, sessionID int64, patch *dto.UpdateSessionRequest) error
	UpdateStatus(ctx context.Context, offeringID, sessionID int64, from, to policy.SessionStatus) (bool, error)
}

// ObjectChecker reports whether an uploaded object is present in storage.
type ObjectChecker interface {
	Exists(key string) bool
}

// PlaybackSigner issues time-limited playback URLs for stored videos.
type PlaybackSigner interface {
	PlaybackURL(storageKey string) (string, time.Time)
}

// SessionService defines the interface for session operations.
type SessionService interface {
	GetSessions(ctx context.Context, offeringID int64) ([]*models.Session, error)
	CreateSession(ctx context.Context, offeringID int64, req *dto.CreateSessionRequest) (*models.Session, error)
	UpdateSession(ctx context.Context, offeringID, sessionID int64, patch *dto.UpdateSessionRequest) (*models.Session, error)
	ChangeSessionStatus(ctx context.Context, offeringID, sessionID int64, target policy.SessionStatus) (*models.Session, error)
	GetStudentSessionDetail(ctx context.Context, offeringID, sessionID int64) (*models.Session, error)
}

// sessionServiceImpl implements SessionService.
type sessionServiceImpl struct {
	sessionRepo  SessionStore
	offeringRepo OfferingStore
	objects      ObjectChecker
	signer       PlaybackSigner
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessionRepo SessionStore, offeringRepo OfferingStore, objects ObjectChecker, signer PlaybackSigner) SessionService {
	return &sessionServiceImpl{
		sessionRepo:  sessionRepo,
		offeringRepo: offeringRepo,
		objects:      objects,
		signer:       signer,
	}
}

// freshOfferingStatus re-reads the parent offering's status. Gating always
// works from this value, never from anything a caller remembered.
func (s *sessionServiceImpl) freshOfferingStatus(ctx context.Context, offeringID int64) (policy.OfferingStatus, error) {
	status, err := s.offeringRepo.GetStatus(ctx, offeringID)
	if err != nil {
		return "", fmt.Errorf("error getting offering status: %w", err)
	}
	if status == "" {
		return "", apperrors.ErrOfferingNotFound
	}
	return status, nil
}

// GetSessions lists an offering's sessions in schedule order.
func (s *sessionServiceImpl) GetSessions(ctx context.Context, offeringID int64) ([]*models.Session, error) {
	if _, err := s.freshOfferingStatus(ctx, offeringID); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.GetByOffering(ctx, offeringID)
	if err != nil {
		return nil, fmt.Errorf("error getting sessions: %w", err)
	}
	return sessions, nil
}

func validateSessionInput(name string, startsAt, endsAt time.Time, points, hours int) error {
	if name == "" {
		return apperrors.NewValidationError("session name is required")
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

// CreateSession creates a session under an offering. Sessions may only be
// added while the offering is OPEN, and only with a video object that has
// already been transferred to storage.
func (s *sessionServiceImpl) CreateSession(ctx context.Context, offeringID int64, req *dto.CreateSessionRequest) (*models.Session, error) {
	status, err := s.freshOfferingStatus(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if !policy.SessionEditable(status) {
		return nil, apperrors.NewPolicyError("sessions can only be added while the offering is OPEN")
	}

	if err := validateSessionInput(req.Name, req.StartsAt, req.EndsAt, req.RewardPoints, req.RecognizedHours); err != nil {
		return nil, err
	}
	if req.Video.StorageKey == "" || !s.objects.Exists(req.Video.StorageKey) {
		return nil, apperrors.ErrVideoMissing
	}

	session := &models.Session{
		OfferingID:      offeringID,
		Name:            req.Name,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		RewardPoints:    req.RewardPoints,
		RecognizedHours: req.RecognizedHours,
		Status:          policy.SessionOpen,
		Video: models.Video{
			StorageKey:      req.Video.StorageKey,
			Title:           req.Video.Title,
			DurationSeconds: req.Video.DurationSeconds,
		},
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	return session, nil
}

// UpdateSession applies a field diff. The parent offering's status gates the
// edit; an empty patch is a no-op returning the current session.
func (s *sessionServiceImpl) UpdateSession(ctx context.Context, offeringID, sessionID int64, patch *dto.UpdateSessionRequest) (*models.Session, error) {
	status, err := s.freshOfferingStatus(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if !policy.SessionEditable(status) {
		return nil, apperrors.NewPolicyError("sessions can only be edited while the offering is OPEN")
	}

	session, err := s.sessionRepo.GetByID(ctx, offeringID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}

	if patch.Empty() {
		return session, nil
	}

	name := session.Name
	if patch.Name != nil {
		name = *patch.Name
	}
	startsAt := session.StartsAt
	if patch.StartsAt != nil {
		startsAt = *patch.StartsAt
	}
	endsAt := session.EndsAt
	if patch.EndsAt != nil {
		endsAt = *patch.EndsAt
	}
	points := session.RewardPoints
	if patch.RewardPoints != nil {
		points = *patch.RewardPoints
	}
	hours := session.RecognizedHours
	if patch.RecognizedHours != nil {
		hours = *patch.RecognizedHours
	}
	if err := validateSessionInput(name, startsAt, endsAt, points, hours); err != nil {
		return nil, err
	}

	if patch.Video != nil && patch.Video.StorageKey != nil {
		if *patch.Video.StorageKey == "" || !s.objects.Exists(*patch.Video.StorageKey) {
			return nil, apperrors.ErrVideoMissing
		}
	}

	if err := s.sessionRepo.Update(ctx, offeringID, sessionID, patch); err != nil {
		return nil, fmt.Errorf("error updating session: %w", err)
	}

	return s.sessionRepo.GetByID(ctx, offeringID, sessionID)
}

// ChangeSessionStatus transitions a session per its transition table.
// Transitions are only permitted while the parent offering is IN_PROGRESS.
func (s *sessionServiceImpl) ChangeSessionStatus(ctx context.Context, offeringID, sessionID int64, target policy.SessionStatus) (*models.Session, error) {
	if !policy.KnownSessionStatus(target) {
		return nil, apperrors.NewValidationErrorf("unknown session status %q", target)
	}

	status, err := s.freshOfferingStatus(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if !policy.SessionStatusChangeable(status) {
		return nil, apperrors.NewPolicyError("session status can only change while the offering is IN_PROGRESS")
	}

	session, err := s.sessionRepo.GetByID(ctx, offeringID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}

	if !policy.ValidSessionTransition(session.Status, target) {
		return nil, apperrors.NewPolicyError(
			fmt.Sprintf("session cannot move from %s to %s", session.Status, target))
	}

	changed, err := s.sessionRepo.UpdateStatus(ctx, offeringID, sessionID, session.Status, target)
	if err != nil {
		return nil, fmt.Errorf("error changing session status: %w", err)
	}
	if !changed {
		return nil, apperrors.NewConflictError("session status changed concurrently, reload and retry")
	}

	return s.sessionRepo.GetByID(ctx, offeringID, sessionID)
}

// GetStudentSessionDetail returns a session with a freshly signed playback
// URL for its video.
func (s *sessionServiceImpl) GetStudentSessionDetail(ctx context.Context, offeringID, sessionID int64) (*models.Session, error) {
	if _, err := s.freshOfferingStatus(ctx, offeringID); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, offeringID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}

	if session.Video.StorageKey != "" {
		url, _ := s.signer.PlaybackURL(session.Video.StorageKey)
		session.Video.PlaybackURL = url
	}
	return session, nil
}
