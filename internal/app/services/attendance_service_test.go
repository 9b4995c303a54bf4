package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kerem/campusact/internal/pkg/apperrors"
	"github.com/kerem/campusact/internal/pkg/policy"
)

func newAttendanceService(offeringStatus policy.OfferingStatus) AttendanceService {
	o := draftOffering()
	o.Status = offeringStatus
	return NewAttendanceService(newFakeAttendanceStore(), newFakeSessionStore(sessionFixture()), newFakeOfferingStore(o))
}

func TestConfirmAttendanceWhileInProgress(t *testing.T) {
	svc := newAttendanceService(policy.OfferingInProgress)

	rec, err := svc.ConfirmAttendance(context.Background(), 1, 10, 500, 130)
	if err != nil {
		t.Fatalf("ConfirmAttendance: %v", err)
	}
	if !rec.Attended {
		t.Error("record should mark attendance")
	}
	if rec.WatchedSeconds != 130 {
		t.Errorf("watchedSeconds = %d, want 130", rec.WatchedSeconds)
	}
}

func TestConfirmAttendanceTwiceIsRejected(t *testing.T) {
	svc := newAttendanceService(policy.OfferingInProgress)

	if _, err := svc.ConfirmAttendance(context.Background(), 1, 10, 500, 130); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	_, err := svc.ConfirmAttendance(context.Background(), 1, 10, 500, 130)
	if !errors.Is(err, apperrors.ErrAlreadyAttended) {
		t.Fatalf("second confirm: want ErrAlreadyAttended, got %v", err)
	}
}

func TestConfirmAttendanceDistinctStudents(t *testing.T) {
	svc := newAttendanceService(policy.OfferingInProgress)

	if _, err := svc.ConfirmAttendance(context.Background(), 1, 10, 500, 130); err != nil {
		t.Fatalf("student 500: %v", err)
	}
	if _, err := svc.ConfirmAttendance(context.Background(), 1, 10, 501, 125); err != nil {
		t.Fatalf("student 501: %v", err)
	}
}

func TestConfirmAttendanceOutsideInProgress(t *testing.T) {
	for _, status := range []policy.OfferingStatus{
		policy.OfferingDraft,
		policy.OfferingOpen,
		policy.OfferingCompleted,
		policy.OfferingCanceled,
	} {
		svc := newAttendanceService(status)
		_, err := svc.ConfirmAttendance(context.Background(), 1, 10, 500, 130)
		if !errors.Is(err, apperrors.ErrPolicyViolation) {
			t.Errorf("offering %s: want ErrPolicyViolation, got %v", status, err)
		}
	}
}

func TestConfirmAttendanceNonPositiveWatchTime(t *testing.T) {
	svc := newAttendanceService(policy.OfferingInProgress)

	for _, secs := range []int{0, -1} {
		_, err := svc.ConfirmAttendance(context.Background(), 1, 10, 500, secs)
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("watchedSeconds=%d: want ErrValidationFailed, got %v", secs, err)
		}
	}
}

func TestConfirmAttendanceUnknownSession(t *testing.T) {
	svc := newAttendanceService(policy.OfferingInProgress)

	_, err := svc.ConfirmAttendance(context.Background(), 1, 999, 500, 130)
	if !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound, got %v", err)
	}
}

func TestGetAttendanceMissingReturnsNil(t *testing.T) {
	svc := newAttendanceService(policy.OfferingInProgress)

	rec, err := svc.GetAttendance(context.Background(), 10, 500)
	if err != nil {
		t.Fatalf("GetAttendance: %v", err)
	}
	if rec != nil {
		t.Errorf("want nil record before confirmation, got %+v", rec)
	}
}
