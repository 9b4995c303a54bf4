package models

import "time"

// AttendanceRecord records that a student watched a session's video to
// completion. One record per student per session; the confirm call creates
// it and never updates it afterwards.
type AttendanceRecord struct {
	ID             int64     `json:"id" db:"id"`
	OfferingID     int64     `json:"offeringId" db:"offering_id"`
	SessionID      int64     `json:"sessionId" db:"session_id"`
	StudentID      int64     `json:"studentId" db:"student_id"`
	Attended       bool      `json:"attended" db:"attended"`
	WatchedSeconds int       `json:"watchedSeconds" db:"watched_seconds"`
	ConfirmedAt    time.Time `json:"confirmedAt" db:"confirmed_at"`
}
