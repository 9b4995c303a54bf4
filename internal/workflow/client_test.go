package workflow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kerem/campusact/internal/app/models"
	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/pkg/policy"
)

func TestClientDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/offerings/7" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":7,"code":"CHESS-01","name":"Chess Club","status":"DRAFT","enrolledCount":12},"meta":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	offering, err := c.GetOffering(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetOffering: %v", err)
	}
	if offering.Code != "CHESS-01" || offering.Status != policy.OfferingDraft {
		t.Errorf("decoded offering = %+v", offering)
	}
	if offering.EnrolledCount != 12 {
		t.Errorf("enrolledCount = %d, want the server-derived 12", offering.EnrolledCount)
	}
}

func TestClientListCarriesPagingMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("keyword"); got != "chess" {
			t.Errorf("keyword = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":1,"code":"A"},{"id":2,"code":"B"}],"meta":{"currentPage":1,"totalPages":3,"pageSize":2,"totalItems":6}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	offerings, meta, err := c.ListOfferings(context.Background(), OfferingFilter{Page: 1, Size: 2, Keyword: "chess"})
	if err != nil {
		t.Fatalf("ListOfferings: %v", err)
	}
	if len(offerings) != 2 {
		t.Fatalf("len = %d, want 2", len(offerings))
	}
	if meta == nil || meta.TotalItems != 6 {
		t.Errorf("meta = %+v, want totalItems 6", meta)
	}
}

func TestClientExtractsBackendErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":{"code":"LC_001","message":"Offering can only be edited while in DRAFT status"},"timestamp":"2026-03-02T12:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.UpdateOffering(context.Background(), 7, &dto.UpdateOfferingRequest{})
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("want *BackendError, got %v", err)
	}
	if be.StatusCode != http.StatusConflict || be.Code != "LC_001" {
		t.Errorf("BackendError = %+v", be)
	}
	if be.Message != "Offering can only be edited while in DRAFT status" {
		t.Errorf("message %q should be the backend-provided one", be.Message)
	}
}

func TestClientFallsBackOnUnparsableErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.GetOffering(context.Background(), 1)
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("want *BackendError, got %v", err)
	}
	if be.Message != "request failed" {
		t.Errorf("message = %q, want the generic fallback", be.Message)
	}
}

func TestClientConfirmAttendance(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"sessionId":3,"attended":true,"watchedSeconds":120},"meta":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if err := c.ConfirmAttendance(context.Background(), 1, 3, 120); err != nil {
		t.Fatalf("ConfirmAttendance: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/offerings/1/sessions/3/attendance" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestExpandDayBounds(t *testing.T) {
	d := time.Date(2026, 1, 10, 14, 30, 45, 0, time.UTC)

	start := ExpandStartOfDay(d)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Errorf("start of day = %v", start)
	}
	end := ExpandEndOfDay(d)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("end of day = %v", end)
	}
	if start.Day() != 10 || end.Day() != 10 {
		t.Error("expansion must not shift the date")
	}
}

// newTestSession is shared by the manager tests.
func newTestSession() *models.Session {
	return &models.Session{
		ID:         3,
		OfferingID: 1,
		Name:       "Week 1",
		StartsAt:   time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		Status:     policy.SessionOpen,
		Video: models.Video{
			StorageKey:      "videos/week1.mp4",
			Title:           "Intro",
			DurationSeconds: 120,
		},
	}
}
