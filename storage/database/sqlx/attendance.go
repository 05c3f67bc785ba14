package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) CreateSession(ctx context.Context, s attendance.AttendanceSession) (attendance.AttendanceSession, error) {
	s.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO attendance_session (id, date, department, year_of_study, division, locked, created_at)
		VALUES (:id, :date, :department, :year_of_study, :division, :locked, :created_at)`, s)
	if err != nil {
		return attendance.AttendanceSession{}, errors.Wrap(err, "inserting session")
	}
	return s, nil
}

func (repo attendanceRepository) GetSession(ctx context.Context, id string) (attendance.AttendanceSession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return attendance.AttendanceSession{}, attendance.ErrSessionNotFound
	}
	var s attendance.AttendanceSession
	if err := repo.db.GetContext(ctx, &s, `SELECT * FROM attendance_session WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return attendance.AttendanceSession{}, attendance.ErrSessionNotFound
		}
		return attendance.AttendanceSession{}, errors.Wrap(err, "finding session")
	}
	return s, nil
}

func (repo attendanceRepository) GetSessionByKey(ctx context.Context, date time.Time, dept, year, div string) (attendance.AttendanceSession, error) {
	var s attendance.AttendanceSession
	err := repo.db.GetContext(ctx, &s, `
		SELECT * FROM attendance_session
		WHERE date = $1 AND department ILIKE $2 AND year_of_study ILIKE $3 AND division ILIKE $4`,
		date, dept, year, div)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return attendance.AttendanceSession{}, attendance.ErrSessionNotFound
		}
		return attendance.AttendanceSession{}, errors.Wrap(err, "finding session by key")
	}
	return s, nil
}

func (repo attendanceRepository) QuerySessions(ctx context.Context, from, to time.Time, ordering ...core.DBOrdering) ([]attendance.AttendanceSession, error) {
	q := `SELECT * FROM attendance_session WHERE date BETWEEN $1 AND $2`
	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		q += " ORDER BY " + strings.Join(orderList, ", ")
	} else {
		q += " ORDER BY date DESC"
	}

	var sessions []attendance.AttendanceSession
	if err := repo.db.SelectContext(ctx, &sessions, q, from, to); err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}
	return sessions, nil
}

func (repo attendanceRepository) LockSession(ctx context.Context, id string) (attendance.AttendanceSession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return attendance.AttendanceSession{}, attendance.ErrSessionNotFound
	}
	res, err := repo.db.ExecContext(ctx, `UPDATE attendance_session SET locked = TRUE WHERE id = $1`, id)
	if err != nil {
		return attendance.AttendanceSession{}, errors.Wrap(err, "locking session")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attendance.AttendanceSession{}, attendance.ErrSessionNotFound
	}
	return repo.GetSession(ctx, id)
}

func (repo attendanceRepository) UpsertRecords(ctx context.Context, recs []attendance.AttendanceRecord) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	for _, rec := range recs {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO attendance_record (session_id, student_prn, status, remark)
			VALUES (:session_id, :student_prn, :status, :remark)
			ON CONFLICT (session_id, student_prn) DO UPDATE
			SET status = EXCLUDED.status, remark = EXCLUDED.remark`, rec)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "upserting record")
		}
	}
	return errors.Wrap(tx.Commit(), "committing records")
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, sessionID string) ([]attendance.AttendanceRecord, error) {
	var recs []attendance.AttendanceRecord
	err := repo.db.SelectContext(ctx, &recs,
		`SELECT * FROM attendance_record WHERE session_id = $1 ORDER BY student_prn`, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "querying records")
	}
	return recs, nil
}

func (repo attendanceRepository) QueryAbsences(ctx context.Context, from, to time.Time) ([]attendance.AttendanceRecord, error) {
	var recs []attendance.AttendanceRecord
	err := repo.db.SelectContext(ctx, &recs, `
		SELECT r.* FROM attendance_record r
		JOIN attendance_session s ON s.id = r.session_id
		WHERE r.status = $1 AND s.date BETWEEN $2 AND $3
		ORDER BY s.date DESC, r.student_prn`,
		attendance.StatusAbsent, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "querying absences")
	}
	return recs, nil
}
