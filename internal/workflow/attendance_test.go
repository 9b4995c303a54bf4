package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kerem/campusact/internal/app/models"
)

func TestOnPlaybackEnded(t *testing.T) {
	tracker := NewAttendanceTracker(nil)

	cases := []struct {
		name            string
		durationSeconds int
		playbackTime    float64
		want            int
	}{
		{"player stops just short of nominal duration", 120, 118.2, 120},
		{"exact end", 120, 120.0, 120},
		{"rewinds pushed playback past duration", 120, 130.5, 131},
		{"fractional overtime rounds up", 120, 120.1, 121},
		{"sentinel duration with real playback", 1, 95.0, 95},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			video := models.Video{DurationSeconds: tc.durationSeconds}
			if got := tracker.OnPlaybackEnded(video, tc.playbackTime); got != tc.want {
				t.Errorf("OnPlaybackEnded(%d, %v) = %d, want %d",
					tc.durationSeconds, tc.playbackTime, got, tc.want)
			}
		})
	}
}

// Whatever the player reports, the watched figure never undercuts the
// nominal duration once the end event fired.
func TestOnPlaybackEndedNeverBelowDuration(t *testing.T) {
	tracker := NewAttendanceTracker(nil)
	video := models.Video{DurationSeconds: 120}

	for _, playback := range []float64{0, 1.5, 60, 119.99, 120, 500} {
		if got := tracker.OnPlaybackEnded(video, playback); got < video.DurationSeconds {
			t.Errorf("playback %v: watched %d fell below duration %d", playback, got, video.DurationSeconds)
		}
	}
}

func TestConfirmAttendanceRequestShape(t *testing.T) {
	var gotPath string
	var gotBody struct {
		WatchedSeconds int `json:"watchedSeconds"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"attended":true,"watchedSeconds":120},"meta":null}`))
	}))
	defer srv.Close()

	tracker := NewAttendanceTracker(NewClient(srv.URL, "token"))
	if err := tracker.ConfirmAttendance(context.Background(), 1, 3, 120); err != nil {
		t.Fatalf("ConfirmAttendance: %v", err)
	}
	if gotPath != "/offerings/1/sessions/3/attendance" {
		t.Errorf("path = %s", gotPath)
	}
	if gotBody.WatchedSeconds != 120 {
		t.Errorf("watchedSeconds = %d", gotBody.WatchedSeconds)
	}
}

func TestConfirmAttendanceSurfacesConflict(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":{"code":"RES_002","message":"Attendance already confirmed for this session"},"timestamp":"2026-09-01T10:00:00Z"}`))
	}))
	defer srv.Close()

	tracker := NewAttendanceTracker(NewClient(srv.URL, "token"))
	err := tracker.ConfirmAttendance(context.Background(), 1, 3, 120)

	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("want *BackendError, got %v", err)
	}
	if backendErr.StatusCode != http.StatusConflict {
		t.Errorf("status = %d", backendErr.StatusCode)
	}
	if backendErr.Message != "Attendance already confirmed for this session" {
		t.Errorf("message = %q", backendErr.Message)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("conflict must not be retried, got %d calls", calls)
	}
}
