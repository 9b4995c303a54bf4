package dto

import (
	"time"

	"github.com/kerem/campusact/internal/pkg/policy"
)

// OfferingFilterRequest carries list query parameters.
type OfferingFilterRequest struct {
	Page       int
	PageSize   int
	Keyword    string
	SemesterID int64
}

// UpdateOfferingRequest is the field diff sent on offering save. Only fields
// present in the patch are applied; nil means "leave unchanged".
type UpdateOfferingRequest struct {
	Code            *string    `json:"code,omitempty" binding:"omitempty,min=2,max=32"`
	Name            *string    `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	RewardPoints    *int       `json:"rewardPoints,omitempty" binding:"omitempty,min=0"`
	RecognizedHours *int       `json:"recognizedHours,omitempty" binding:"omitempty,min=0"`
	SemesterID      *int64     `json:"semesterId,omitempty" binding:"omitempty,min=1"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	ContactName     *string    `json:"contactName,omitempty"`
	ContactEmail    *string    `json:"contactEmail,omitempty" binding:"omitempty,email"`
}

// Empty reports whether the patch carries no changes at all.
func (r *UpdateOfferingRequest) Empty() bool {
	return r.Code == nil && r.Name == nil && r.RewardPoints == nil &&
		r.RecognizedHours == nil && r.SemesterID == nil && r.StartDate == nil &&
		r.EndDate == nil && r.ContactName == nil && r.ContactEmail == nil
}

// ChangeOfferingStatusRequest asks for a status transition.
type ChangeOfferingStatusRequest struct {
	Status policy.OfferingStatus `json:"status" binding:"required"`
}

// OfferingSummary is the list-screen projection of an offering.
type OfferingSummary struct {
	ID            int64                 `json:"id"`
	Code          string                `json:"code"`
	Name          string                `json:"name"`
	SemesterID    int64                 `json:"semesterId"`
	StartDate     time.Time             `json:"startDate"`
	EndDate       time.Time             `json:"endDate"`
	Status        policy.OfferingStatus `json:"status"`
	EnrolledCount int                   `json:"enrolledCount"`
}
