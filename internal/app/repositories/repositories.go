package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances.
type Repositories struct {
	OfferingRepository   *OfferingRepository
	SessionRepository    *SessionRepository
	AttendanceRepository *AttendanceRepository
	SemesterRepository   *SemesterRepository
}

// NewRepositories initializes all repositories.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		OfferingRepository:   NewOfferingRepository(db),
		SessionRepository:    NewSessionRepository(db),
		AttendanceRepository: NewAttendanceRepository(db),
		SemesterRepository:   NewSemesterRepository(db),
	}
}
