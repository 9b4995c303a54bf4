package dto

import "time"

// ConfirmAttendanceRequest records a completed watch of a session video.
type ConfirmAttendanceRequest struct {
	WatchedSeconds int `json:"watchedSeconds" binding:"required,min=1"`
}

// AttendanceResponse reports the stored attendance record.
type AttendanceResponse struct {
	SessionID      int64     `json:"sessionId"`
	Attended       bool      `json:"attended"`
	WatchedSeconds int       `json:"watchedSeconds"`
	ConfirmedAt    time.Time `json:"confirmedAt"`
}
