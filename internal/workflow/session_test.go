package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/pkg/apperrors"
	"github.com/kerem/campusact/internal/pkg/policy"
)

// countingServer responds to every request with the given body and counts
// how many requests arrive, so tests can assert "no network call was made".
func countingServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestSessionCreateValidationBeforeNetwork(t *testing.T) {
	srv, calls := countingServer(t, http.StatusCreated, `{"data":{"id":3},"meta":null}`)
	mgr := NewSessionLifecycleManager(NewClient(srv.URL, ""))

	pending := &PendingVideo{StorageKey: "videos/abc.mp4", Title: "Intro", DurationSeconds: 90}

	// end before start
	_, err := mgr.Create(context.Background(), policy.OfferingOpen, 1, SessionForm{
		Name:     "Week 1",
		StartsAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}, pending)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("want ErrValidationFailed, got %v", err)
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Error("validation failure must not reach the network")
	}

	// no uploaded video
	_, err = mgr.Create(context.Background(), policy.OfferingOpen, 1, SessionForm{
		Name:     "Week 1",
		StartsAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}, nil)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("want ErrValidationFailed for missing video, got %v", err)
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Error("validation failure must not reach the network")
	}
}

func TestSessionCreateGatedOnOfferingStatus(t *testing.T) {
	srv, calls := countingServer(t, http.StatusCreated, `{"data":{"id":3},"meta":null}`)
	mgr := NewSessionLifecycleManager(NewClient(srv.URL, ""))

	pending := &PendingVideo{StorageKey: "videos/abc.mp4", DurationSeconds: 90}
	form := SessionForm{
		Name:     "Week 1",
		StartsAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}

	for _, status := range []policy.OfferingStatus{policy.OfferingDraft, policy.OfferingInProgress, policy.OfferingCompleted} {
		_, err := mgr.Create(context.Background(), status, 1, form, pending)
		if !errors.Is(err, apperrors.ErrPolicyViolation) {
			t.Errorf("offering %s: want ErrPolicyViolation, got %v", status, err)
		}
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Error("policy rejection must happen before any network call")
	}
}

func TestSessionCreateReleasesPendingOnSuccess(t *testing.T) {
	srv, _ := countingServer(t, http.StatusCreated,
		`{"data":{"id":3,"offeringId":1,"name":"Week 1","status":"OPEN"},"meta":null}`)
	mgr := NewSessionLifecycleManager(NewClient(srv.URL, ""))

	released := false
	coordinator := NewMediaUploadCoordinator(nil)
	pending := coordinator.BuildPendingAsset("Intro", "videos/abc.mp4", 90, func() { released = true })

	created, err := mgr.Create(context.Background(), policy.OfferingOpen, 1, SessionForm{
		Name:     "Week 1",
		StartsAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}, pending)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 3 {
		t.Errorf("created.ID = %d", created.ID)
	}
	if !released {
		t.Error("pending video preview must be released after commit")
	}
}

func TestBuildPatchNoOpIsEmpty(t *testing.T) {
	mgr := NewSessionLifecycleManager(nil)
	original := newTestSession()

	patch := mgr.BuildPatch(original, HydrateSession(original), nil)
	if !patch.Empty() {
		t.Errorf("identical form must yield an empty patch, got %+v", patch)
	}
}

func TestBuildPatchMinimalDiff(t *testing.T) {
	mgr := NewSessionLifecycleManager(nil)
	original := newTestSession()

	form := HydrateSession(original)
	form.Name = "Week 1 (rescheduled)"

	patch := mgr.BuildPatch(original, form, nil)
	if patch.Name == nil || *patch.Name != "Week 1 (rescheduled)" {
		t.Error("changed name must be in the patch")
	}
	if patch.StartsAt != nil || patch.EndsAt != nil || patch.RewardPoints != nil ||
		patch.RecognizedHours != nil || patch.Video != nil {
		t.Errorf("unchanged fields leaked into the patch: %+v", patch)
	}
}

func TestBuildPatchVideoOnlyOnTitleChangeOrPending(t *testing.T) {
	mgr := NewSessionLifecycleManager(nil)
	original := newTestSession()

	// title change alone: video sub-object with only the title
	form := HydrateSession(original)
	form.VideoTitle = "Intro v2"
	patch := mgr.BuildPatch(original, form, nil)
	if patch.Video == nil || patch.Video.Title == nil || *patch.Video.Title != "Intro v2" {
		t.Fatalf("title change must produce a video patch, got %+v", patch.Video)
	}
	if patch.Video.StorageKey != nil {
		t.Error("a rename must not touch the storage key")
	}

	// pending replacement: full video descriptor
	pending := &PendingVideo{StorageKey: "videos/new.mp4", Title: "Fresh", DurationSeconds: 150}
	patch = mgr.BuildPatch(original, HydrateSession(original), pending)
	if patch.Video == nil || patch.Video.StorageKey == nil || *patch.Video.StorageKey != "videos/new.mp4" {
		t.Fatalf("pending video must produce a replacement patch, got %+v", patch.Video)
	}
	if patch.Video.DurationSeconds == nil || *patch.Video.DurationSeconds != 150 {
		t.Error("replacement must carry the probed duration")
	}
}

func TestSessionSaveGatedBeforeNetwork(t *testing.T) {
	srv, calls := countingServer(t, http.StatusOK, `{"data":{"id":3},"meta":null}`)
	mgr := NewSessionLifecycleManager(NewClient(srv.URL, ""))
	original := newTestSession()

	name := "x"
	patch := &dto.UpdateSessionRequest{Name: &name}

	_, err := mgr.Save(context.Background(), policy.OfferingInProgress, 1, original, patch, nil)
	if !errors.Is(err, apperrors.ErrPolicyViolation) {
		t.Fatalf("want ErrPolicyViolation while offering not OPEN, got %v", err)
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Error("policy rejection must happen before any network call")
	}
}

func TestSessionSaveEmptyPatchSkipsNetwork(t *testing.T) {
	srv, calls := countingServer(t, http.StatusOK, `{"data":{"id":3},"meta":null}`)
	mgr := NewSessionLifecycleManager(NewClient(srv.URL, ""))
	original := newTestSession()

	saved, err := mgr.Save(context.Background(), policy.OfferingOpen, 1, original, &dto.UpdateSessionRequest{}, nil)
	if err != nil {
		t.Fatalf("Save with empty patch: %v", err)
	}
	if saved != original {
		t.Error("empty patch must report the current session unchanged")
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Error("empty patch must not reach the network")
	}
}

func TestSessionSaveSendsPatch(t *testing.T) {
	var gotBody dto.UpdateSessionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":3,"name":"Week 1 (moved)","status":"OPEN"},"meta":null}`))
	}))
	defer srv.Close()

	mgr := NewSessionLifecycleManager(NewClient(srv.URL, ""))
	original := newTestSession()
	form := HydrateSession(original)
	form.Name = "Week 1 (moved)"

	updated, err := mgr.Save(context.Background(), policy.OfferingOpen, 1, original, mgr.BuildPatch(original, form, nil), nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if updated.Name != "Week 1 (moved)" {
		t.Errorf("updated.Name = %q, want the server's fresh view", updated.Name)
	}
	if gotBody.Name == nil || *gotBody.Name != "Week 1 (moved)" {
		t.Errorf("patch body = %+v", gotBody)
	}
	if gotBody.StartsAt != nil {
		t.Error("unchanged start time must not be in the wire patch")
	}
}

func TestSessionChangeStatusGates(t *testing.T) {
	srv, calls := countingServer(t, http.StatusOK, `{"data":{"id":3},"meta":null}`)
	mgr := NewSessionLifecycleManager(NewClient(srv.URL, ""))

	open := newTestSession()
	closed := newTestSession()
	closed.Status = policy.SessionClosed
	canceled := newTestSession()
	canceled.Status = policy.SessionCanceled

	// offering not IN_PROGRESS
	if _, err := mgr.ChangeStatus(context.Background(), policy.OfferingOpen, 1, open, policy.SessionClosed, false); !errors.Is(err, apperrors.ErrPolicyViolation) {
		t.Errorf("offering OPEN: want ErrPolicyViolation, got %v", err)
	}

	// reopening a closed session is not in the transition table
	if _, err := mgr.ChangeStatus(context.Background(), policy.OfferingInProgress, 1, closed, policy.SessionOpen, false); !errors.Is(err, apperrors.ErrPolicyViolation) {
		t.Errorf("CLOSED -> OPEN: want ErrPolicyViolation, got %v", err)
	}

	// canceled is terminal
	if _, err := mgr.ChangeStatus(context.Background(), policy.OfferingInProgress, 1, canceled, policy.SessionOpen, false); !errors.Is(err, apperrors.ErrPolicyViolation) {
		t.Errorf("CANCELED -> OPEN: want ErrPolicyViolation, got %v", err)
	}

	// cancellation without explicit confirmation
	if _, err := mgr.ChangeStatus(context.Background(), policy.OfferingInProgress, 1, open, policy.SessionCanceled, false); !errors.Is(err, apperrors.ErrPolicyViolation) {
		t.Errorf("unconfirmed cancel: want ErrPolicyViolation, got %v", err)
	}

	if atomic.LoadInt32(calls) != 0 {
		t.Error("all gates must reject before any network call")
	}
}

func TestSessionChangeStatusCloseSucceeds(t *testing.T) {
	srv, _ := countingServer(t, http.StatusOK, `{"data":{"id":3,"status":"CLOSED"},"meta":null}`)
	mgr := NewSessionLifecycleManager(NewClient(srv.URL, ""))

	updated, err := mgr.ChangeStatus(context.Background(), policy.OfferingInProgress, 1, newTestSession(), policy.SessionClosed, false)
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if updated.Status != policy.SessionClosed {
		t.Errorf("status = %s", updated.Status)
	}
}

func TestSessionChangeStatusConfirmedCancel(t *testing.T) {
	srv, _ := countingServer(t, http.StatusOK, `{"data":{"id":3,"status":"CANCELED"},"meta":null}`)
	mgr := NewSessionLifecycleManager(NewClient(srv.URL, ""))

	updated, err := mgr.ChangeStatus(context.Background(), policy.OfferingInProgress, 1, newTestSession(), policy.SessionCanceled, true)
	if err != nil {
		t.Fatalf("confirmed cancel: %v", err)
	}
	if updated.Status != policy.SessionCanceled {
		t.Errorf("status = %s", updated.Status)
	}
}
