package models

import (
	"time"

	"github.com/kerem/campusact/internal/pkg/policy"
)

// Offering represents a scheduled extracurricular program for a semester.
type Offering struct {
	ID              int64                 `json:"id" db:"id"`
	Code            string                `json:"code" db:"code"`
	Name            string                `json:"name" db:"name"`
	RewardPoints    int                   `json:"rewardPoints" db:"reward_points"`
	RecognizedHours int                   `json:"recognizedHours" db:"recognized_hours"`
	SemesterID      int64                 `json:"semesterId" db:"semester_id"`
	StartDate       time.Time             `json:"startDate" db:"start_date"`
	EndDate         time.Time             `json:"endDate" db:"end_date"`
	ContactName     string                `json:"contactName" db:"contact_name"`
	ContactEmail    string                `json:"contactEmail" db:"contact_email"`
	Status          policy.OfferingStatus `json:"status" db:"status"`
	CreatedAt       time.Time             `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time             `json:"updatedAt" db:"updated_at"`

	// EnrolledCount is derived from enrollments; the server is the source
	// of truth and clients never write it.
	EnrolledCount int `json:"enrolledCount" db:"enrolled_count"`

	// Relations (populated when needed)
	Semester *Semester `json:"semester,omitempty"`
}
