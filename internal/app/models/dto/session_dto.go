package dto

import (
	"time"

	"github.com/kerem/campusact/internal/pkg/policy"
)

// VideoDescriptor identifies an uploaded video object to attach to a session.
// The storage key must reference an object already transferred to the store.
type VideoDescriptor struct {
	StorageKey      string `json:"storageKey" binding:"required"`
	Title           string `json:"title" binding:"required"`
	DurationSeconds int    `json:"durationSeconds" binding:"required,min=1"`
}

// CreateSessionRequest creates a session under an offering.
type CreateSessionRequest struct {
	Name            string          `json:"name" binding:"required,min=1,max=200"`
	StartsAt        time.Time       `json:"startsAt" binding:"required"`
	EndsAt          time.Time       `json:"endsAt" binding:"required"`
	RewardPoints    int             `json:"rewardPoints" binding:"min=0"`
	RecognizedHours int             `json:"recognizedHours" binding:"min=0"`
	Video           VideoDescriptor `json:"video" binding:"required"`
}

// VideoPatch updates the video sub-object of a session. A patch without a
// storage key renames the existing video; one with a key replaces it.
type VideoPatch struct {
	StorageKey      *string `json:"storageKey,omitempty"`
	Title           *string `json:"title,omitempty"`
	DurationSeconds *int    `json:"durationSeconds,omitempty" binding:"omitempty,min=1"`
}

// UpdateSessionRequest is the field diff sent on session save. Only fields
// present in the patch are applied; nil means "leave unchanged".
type UpdateSessionRequest struct {
	Name            *string     `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	StartsAt        *time.Time  `json:"startsAt,omitempty"`
	EndsAt          *time.Time  `json:"endsAt,omitempty"`
	RewardPoints    *int        `json:"rewardPoints,omitempty" binding:"omitempty,min=0"`
	RecognizedHours *int        `json:"recognizedHours,omitempty" binding:"omitempty,min=0"`
	Video           *VideoPatch `json:"video,omitempty"`
}

// Empty reports whether the patch carries no changes at all.
func (r *UpdateSessionRequest) Empty() bool {
	return r.Name == nil && r.StartsAt == nil && r.EndsAt == nil &&
		r.RewardPoints == nil && r.RecognizedHours == nil && r.Video == nil
}

// ChangeSessionStatusRequest asks for a session status transition.
type ChangeSessionStatusRequest struct {
	Status policy.SessionStatus `json:"status" binding:"required"`
}

// SessionSummary is the list projection of a session.
type SessionSummary struct {
	ID         int64                `json:"id"`
	OfferingID int64                `json:"offeringId"`
	Name       string               `json:"name"`
	StartsAt   time.Time            `json:"startsAt"`
	EndsAt     time.Time            `json:"endsAt"`
	Status     policy.SessionStatus `json:"status"`
	VideoTitle string               `json:"videoTitle"`
}
