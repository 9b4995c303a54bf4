package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kerem/campusact/internal/app/models"
	"github.com/kerem/campusact/internal/app/repositories"
	"github.com/kerem/campusact/internal/pkg/apperrors"
	"github.com/kerem/campusact/internal/pkg/policy"
)

// AttendanceStore is the persistence surface AttendanceService needs.
type AttendanceStore interface {
	Create(ctx context.Context, rec *models.AttendanceRecord) error
	GetBySessionAndStudent(ctx context.Context, sessionID, studentID int64) (*models.AttendanceRecord, error)
}

// AttendanceService defines the interface for attendance operations.
type AttendanceService interface {
	ConfirmAttendance(ctx context.Context, offeringID, sessionID, studentID int64, watchedSeconds int) (*models.AttendanceRecord, error)
	GetAttendance(ctx context.Context, sessionID, studentID int64) (*models.AttendanceRecord, error)
}

// attendanceServiceImpl implements AttendanceService.
type attendanceServiceImpl struct {
	attendanceRepo AttendanceStore
	sessionRepo    SessionStore
	offeringRepo   OfferingStore
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(attendanceRepo AttendanceStore, sessionRepo SessionStore, offeringRepo OfferingStore) AttendanceService {
	return &attendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		sessionRepo:    sessionRepo,
		offeringRepo:   offeringRepo,
	}
}

// ConfirmAttendance records that a student watched a session's video to
// completion. The offering's status is re-read here; attendance is only
// accepted while it is IN_PROGRESS. A second confirm for the same session
// is rejected, never silently merged.
func (s *attendanceServiceImpl) ConfirmAttendance(ctx context.Context, offeringID, sessionID, studentID int64, watchedSeconds int) (*models.AttendanceRecord, error) {
	if watchedSeconds <= 0 {
		return nil, apperrors.NewValidationError("watched seconds must be positive")
	}

	status, err := s.offeringRepo.GetStatus(ctx, offeringID)
	if err != nil {
		return nil, fmt.Errorf("error getting offering status: %w", err)
	}
	if status == "" {
		return nil, apperrors.ErrOfferingNotFound
	}
	if status != policy.OfferingInProgress {
		return nil, apperrors.NewPolicyError("attendance is only accepted while the offering is IN_PROGRESS")
	}

	session, err := s.sessionRepo.GetByID(ctx, offeringID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}

	rec := &models.AttendanceRecord{
		OfferingID:     offeringID,
		SessionID:      sessionID,
		StudentID:      studentID,
		Attended:       true,
		WatchedSeconds: watchedSeconds,
	}
	if err := s.attendanceRepo.Create(ctx, rec); err != nil {
		if errors.Is(err, repositories.ErrDuplicateAttendance) {
			return nil, apperrors.ErrAlreadyAttended
		}
		return nil, fmt.Errorf("error recording attendance: %w", err)
	}
	return rec, nil
}

// GetAttendance fetches a student's record for a session, or nil.
func (s *attendanceServiceImpl) GetAttendance(ctx context.Context, sessionID, studentID int64) (*models.AttendanceRecord, error) {
	rec, err := s.attendanceRepo.GetBySessionAndStudent(ctx, sessionID, studentID)
	if err != nil {
		return nil, fmt.Errorf("error getting attendance: %w", err)
	}
	return rec, nil
}
