package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
)

var (
	// errors
	ErrSessionNotFound = errors.New("attendance session not found")
	ErrSessionLocked   = errors.New("attendance session is locked")
)

type (
	Repository interface {
		CreateSession(ctx context.Context, s AttendanceSession) (AttendanceSession, error)
		GetSession(ctx context.Context, id string) (AttendanceSession, error)
		// GetSessionByKey looks a session up by its uniqueness tuple.
		GetSessionByKey(ctx context.Context, date time.Time, dept, year, div string) (AttendanceSession, error)
		QuerySessions(ctx context.Context, from, to time.Time, ordering ...core.DBOrdering) ([]AttendanceSession, error)
		LockSession(ctx context.Context, id string) (AttendanceSession, error)

		// UpsertRecords replaces existing (session, student) records and
		// inserts the rest.
		UpsertRecords(ctx context.Context, recs []AttendanceRecord) error
		QueryRecords(ctx context.Context, sessionID string) ([]AttendanceRecord, error)
		// QueryAbsences returns all Absent records whose session date falls in
		// [from, to] inclusive.
		QueryAbsences(ctx context.Context, from, to time.Time) ([]AttendanceRecord, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// OpenSession returns the session for the (date, department, year, division)
// tuple, creating it when none exists. Opening the same tuple twice yields
// the same session, locked or not.
func (svc *Service) OpenSession(ctx context.Context, ns NewSession) (AttendanceSession, error) {
	date := ns.ParsedDate()
	s, err := svc.repo.GetSessionByKey(ctx, date, ns.Department, ns.YearOfStudy, ns.Division)
	if err == nil {
		return s, nil
	}
	if errors.Cause(err) != ErrSessionNotFound {
		return AttendanceSession{}, err
	}
	s = AttendanceSession{
		Date:        date,
		Department:  ns.Department,
		YearOfStudy: ns.YearOfStudy,
		Division:    ns.Division,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateSession(ctx, s)
}

func (svc *Service) GetSession(ctx context.Context, id string) (AttendanceSession, error) {
	return svc.repo.GetSession(ctx, core.CleanString(id))
}

func (svc *Service) QuerySessions(ctx context.Context, from, to time.Time, ordering ...core.DBOrdering) ([]AttendanceSession, error) {
	return svc.repo.QuerySessions(ctx, DateOnly(from), DateOnly(to), ordering...)
}

// MarkAttendance upserts records into the session. Marking the same student
// twice keeps the latest status. Locked sessions reject all writes.
func (svc *Service) MarkAttendance(ctx context.Context, sessionID string, ma MarkAttendance) error {
	s, err := svc.repo.GetSession(ctx, core.CleanString(sessionID))
	if err != nil {
		return err
	}
	if s.Locked {
		return ErrSessionLocked
	}
	recs := make([]AttendanceRecord, 0, len(ma.Records))
	for _, entry := range ma.Records {
		recs = append(recs, AttendanceRecord{
			SessionID:  s.ID,
			StudentPRN: entry.StudentPRN,
			Status:     entry.Status,
			Remark:     entry.Remark,
		})
	}
	return svc.repo.UpsertRecords(ctx, recs)
}

// SubmitSession locks the session; submitting an already locked session is a
// no-op.
func (svc *Service) SubmitSession(ctx context.Context, id string) (AttendanceSession, error) {
	return svc.repo.LockSession(ctx, core.CleanString(id))
}

func (svc *Service) Records(ctx context.Context, sessionID string) ([]AttendanceRecord, error) {
	return svc.repo.QueryRecords(ctx, core.CleanString(sessionID))
}

// Absences lists Absent records whose session date falls in [from, to].
func (svc *Service) Absences(ctx context.Context, from, to time.Time) ([]AttendanceRecord, error) {
	return svc.repo.QueryAbsences(ctx, DateOnly(from), DateOnly(to))
}
