package models

import (
	"time"

	"github.com/kerem/campusact/internal/pkg/policy"
)

// Session represents one meeting of an offering. Sessions are owned by their
// offering and removed with it.
type Session struct {
	ID              int64                `json:"id" db:"id"`
	OfferingID      int64                `json:"offeringId" db:"offering_id"`
	Name            string               `json:"name" db:"name"`
	StartsAt        time.Time            `json:"startsAt" db:"starts_at"`
	EndsAt          time.Time            `json:"endsAt" db:"ends_at"`
	RewardPoints    int                  `json:"rewardPoints" db:"reward_points"`
	RecognizedHours int                  `json:"recognizedHours" db:"recognized_hours"`
	Status          policy.SessionStatus `json:"status" db:"status"`
	Video           Video                `json:"video"`
	CreatedAt       time.Time            `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time            `json:"updatedAt" db:"updated_at"`
}

// Video is the media asset attached to a session. PlaybackURL is a
// time-limited signed URL filled in per response, never persisted.
type Video struct {
	StorageKey      string `json:"storageKey" db:"video_key"`
	Title           string `json:"title" db:"video_title"`
	DurationSeconds int    `json:"durationSeconds" db:"video_duration_seconds"`
	PlaybackURL     string `json:"playbackUrl,omitempty"`
}
