package workflow

import (
	"context"
	"math"

	"github.com/kerem/campusact/internal/app/models"
)

// AttendanceTracker turns a video end-of-playback event into an attendance
// confirmation. Playback ending alone never marks attendance; the UI asks
// the student to confirm once, then calls ConfirmAttendance exactly once.
type AttendanceTracker struct {
	client *Client
}

// NewAttendanceTracker creates a tracker using the given API client.
func NewAttendanceTracker(client *Client) *AttendanceTracker {
	return &AttendanceTracker{client: client}
}

// OnPlaybackEnded computes the watched seconds to report when the player
// fires its end event. Reaching the end counts as at least the full nominal
// duration; metadata sometimes under-reports the real playing time, so the
// larger of the two values wins.
func (t *AttendanceTracker) OnPlaybackEnded(video models.Video, currentPlaybackTime float64) int {
	watched := int(math.Ceil(currentPlaybackTime))
	if video.DurationSeconds > watched {
		return video.DurationSeconds
	}
	return watched
}

// ConfirmAttendance records the completed watch. Single attempt; an
// already-attended session is rejected by the backend with a conflict and
// must not be retried.
func (t *AttendanceTracker) ConfirmAttendance(ctx context.Context, offeringID, sessionID int64, watchedSeconds int) error {
	return t.client.ConfirmAttendance(ctx, offeringID, sessionID, watchedSeconds)
}
