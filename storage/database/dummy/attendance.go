package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTables
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) CreateSession(ctx context.Context, s attendance.AttendanceSession) (attendance.AttendanceSession, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = nextPK()
	repo.db.sessions[s.ID] = &s
	return s, nil
}

func (repo *attendanceRepository) GetSession(ctx context.Context, id string) (attendance.AttendanceSession, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.sessions[id]; ok {
		return *s, nil
	}
	return attendance.AttendanceSession{}, attendance.ErrSessionNotFound
}

func (repo *attendanceRepository) GetSessionByKey(ctx context.Context, date time.Time, dept, year, div string) (attendance.AttendanceSession, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.sessions {
		if s.Date.Equal(date) &&
			strings.EqualFold(s.Department, dept) &&
			strings.EqualFold(s.YearOfStudy, year) &&
			strings.EqualFold(s.Division, div) {
			return *s, nil
		}
	}
	return attendance.AttendanceSession{}, attendance.ErrSessionNotFound
}

func (repo *attendanceRepository) QuerySessions(ctx context.Context, from, to time.Time, ordering ...core.DBOrdering) ([]attendance.AttendanceSession, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sessions := make([]attendance.AttendanceSession, 0, len(repo.db.sessions))
	for _, s := range repo.db.sessions {
		if s.Date.Before(from) || s.Date.After(to) {
			continue
		}
		sessions = append(sessions, *s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Date.After(sessions[j].Date) })
	return sessions, nil
}

func (repo *attendanceRepository) LockSession(ctx context.Context, id string) (attendance.AttendanceSession, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s, ok := repo.db.sessions[id]
	if !ok {
		return attendance.AttendanceSession{}, attendance.ErrSessionNotFound
	}
	s.Locked = true
	return *s, nil
}

func (repo *attendanceRepository) UpsertRecords(ctx context.Context, recs []attendance.AttendanceRecord) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range recs {
		rec := recs[i]
		repo.db.records[rec.SessionID+"|"+rec.StudentPRN] = &rec
	}
	return nil
}

func (repo *attendanceRepository) QueryRecords(ctx context.Context, sessionID string) ([]attendance.AttendanceRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.AttendanceRecord, 0)
	for _, rec := range repo.db.records {
		if rec.SessionID == sessionID {
			recs = append(recs, *rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].StudentPRN < recs[j].StudentPRN })
	return recs, nil
}

func (repo *attendanceRepository) QueryAbsences(ctx context.Context, from, to time.Time) ([]attendance.AttendanceRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.AttendanceRecord, 0)
	for _, rec := range repo.db.records {
		if rec.Status != attendance.StatusAbsent {
			continue
		}
		s, ok := repo.db.sessions[rec.SessionID]
		if !ok || s.Date.Before(from) || s.Date.After(to) {
			continue
		}
		recs = append(recs, *rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].SessionID != recs[j].SessionID {
			return recs[i].SessionID < recs[j].SessionID
		}
		return recs[i].StudentPRN < recs[j].StudentPRN
	})
	return recs, nil
}
