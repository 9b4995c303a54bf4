package services

import (
	"context"
	"time"

	"github.com/kerem/campusact/internal/app/models"
	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/app/repositories"
	"github.com/kerem/campusact/internal/pkg/policy"
)

// fakeOfferingStore keeps offerings in memory and counts writes so tests can
// assert that rejected operations never touched persistence.
type fakeOfferingStore struct {
	offerings   map[int64]*models.Offering
	updateCalls int
	statusCalls int
}

func newFakeOfferingStore(offerings ...*models.Offering) *fakeOfferingStore {
	m := make(map[int64]*models.Offering)
	for _, o := range offerings {
		m[o.ID] = o
	}
	return &fakeOfferingStore{offerings: m}
}

func (f *fakeOfferingStore) GetByID(_ context.Context, id int64) (*models.Offering, error) {
	o, ok := f.offerings[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOfferingStore) GetStatus(_ context.Context, id int64) (policy.OfferingStatus, error) {
	o, ok := f.offerings[id]
	if !ok {
		return "", nil
	}
	return o.Status, nil
}

func (f *fakeOfferingStore) GetAll(_ context.Context, _ *dto.OfferingFilterRequest, _ uint64, _ int) ([]*models.Offering, int64, error) {
	var out []*models.Offering
	for _, o := range f.offerings {
		cp := *o
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOfferingStore) Update(_ context.Context, id int64, patch *dto.UpdateOfferingRequest) error {
	f.updateCalls++
	o := f.offerings[id]
	if patch.Code != nil {
		o.Code = *patch.Code
	}
	if patch.Name != nil {
		o.Name = *patch.Name
	}
	if patch.RewardPoints != nil {
		o.RewardPoints = *patch.RewardPoints
	}
	if patch.RecognizedHours != nil {
		o.RecognizedHours = *patch.RecognizedHours
	}
	if patch.SemesterID != nil {
		o.SemesterID = *patch.SemesterID
	}
	if patch.StartDate != nil {
		o.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		o.EndDate = *patch.EndDate
	}
	if patch.ContactName != nil {
		o.ContactName = *patch.ContactName
	}
	if patch.ContactEmail != nil {
		o.ContactEmail = *patch.ContactEmail
	}
	return nil
}

func (f *fakeOfferingStore) UpdateStatus(_ context.Context, id int64, from, to policy.OfferingStatus) (bool, error) {
	f.statusCalls++
	o := f.offerings[id]
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

type fakeSemesterStore struct {
	semesters map[int64]*models.Semester
}

func newFakeSemesterStore(semesters ...*models.Semester) *fakeSemesterStore {
	m := make(map[int64]*models.Semester)
	for _, s := range semesters {
		m[s.ID] = s
	}
	return &fakeSemesterStore{semesters: m}
}

func (f *fakeSemesterStore) GetByID(_ context.Context, id int64) (*models.Semester, error) {
	return f.semesters[id], nil
}

func (f *fakeSemesterStore) GetAll(_ context.Context) ([]*models.Semester, error) {
	var out []*models.Semester
	for _, s := range f.semesters {
		out = append(out, s)
	}
	return out, nil
}

type fakeSessionStore struct {
	sessions    map[int64]*models.Session
	nextID      int64
	createCalls int
	updateCalls int
}

func newFakeSessionStore(sessions ...*models.Session) *fakeSessionStore {
	m := make(map[int64]*models.Session)
	var maxID int64
	for _, s := range sessions {
		m[s.ID] = s
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	return &fakeSessionStore{sessions: m, nextID: maxID + 1}
}

func (f *fakeSessionStore) Create(_ context.Context, s *models.Session) error {
	f.createCalls++
	s.ID = f.nextID
	f.nextID++
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, offeringID, sessionID int64) (*models.Session, error) {
	s, ok := f.sessions[sessionID]
	if !ok || s.OfferingID != offeringID {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) GetByOffering(_ context.Context, offeringID int64) ([]*models.Session, error) {
	var out []*models.Session
	for _, s := range f.sessions {
		if s.OfferingID == offeringID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) Update(_ context.Context, offeringID, sessionID int64, patch *dto.UpdateSessionRequest) error {
	f.updateCalls++
	s := f.sessions[sessionID]
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.StartsAt != nil {
		s.StartsAt = *patch.StartsAt
	}
	if patch.EndsAt != nil {
		s.EndsAt = *patch.EndsAt
	}
	if patch.RewardPoints != nil {
		s.RewardPoints = *patch.RewardPoints
	}
	if patch.RecognizedHours != nil {
		s.RecognizedHours = *patch.RecognizedHours
	}
	if patch.Video != nil {
		if patch.Video.StorageKey != nil {
			s.Video.StorageKey = *patch.Video.StorageKey
		}
		if patch.Video.Title != nil {
			s.Video.Title = *patch.Video.Title
		}
		if patch.Video.DurationSeconds != nil {
			s.Video.DurationSeconds = *patch.Video.DurationSeconds
		}
	}
	return nil
}

func (f *fakeSessionStore) UpdateStatus(_ context.Context, offeringID, sessionID int64, from, to policy.SessionStatus) (bool, error) {
	s, ok := f.sessions[sessionID]
	if !ok || s.OfferingID != offeringID || s.Status != from {
		return false, nil
	}
	s.Status = to
	return true, nil
}

type fakeObjects struct {
	keys map[string]bool
}

func (f *fakeObjects) Exists(key string) bool { return f.keys[key] }

type fakeSigner struct{}

func (fakeSigner) PlaybackURL(key string) (string, time.Time) {
	exp := time.Now().Add(time.Hour)
	return "http://store.local/" + key + "?sig=test", exp
}

func (fakeSigner) UploadURL(key string) (string, time.Time) {
	exp := time.Now().Add(15 * time.Minute)
	return "http://store.local/" + key + "?sig=upload", exp
}

type fakeAttendanceStore struct {
	records map[[2]int64]*models.AttendanceRecord
	nextID  int64
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{records: make(map[[2]int64]*models.AttendanceRecord), nextID: 1}
}

func (f *fakeAttendanceStore) Create(_ context.Context, rec *models.AttendanceRecord) error {
	key := [2]int64{rec.SessionID, rec.StudentID}
	if _, exists := f.records[key]; exists {
		return repositories.ErrDuplicateAttendance
	}
	rec.ID = f.nextID
	f.nextID++
	rec.ConfirmedAt = time.Now()
	cp := *rec
	f.records[key] = &cp
	return nil
}

func (f *fakeAttendanceStore) GetBySessionAndStudent(_ context.Context, sessionID, studentID int64) (*models.AttendanceRecord, error) {
	rec, ok := f.records[[2]int64{sessionID, studentID}]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}
