package models

// Semester represents an academic term offerings are scheduled in.
type Semester struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}
