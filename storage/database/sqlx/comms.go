package sqlxrepos

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/comms"
)

type commsRepository struct {
	db *sqlx.DB
}

var _ comms.Repository = (*commsRepository)(nil) // interface compliance check

func NewCommsRepository(db *sqlx.DB) *commsRepository {
	return &commsRepository{db: db}
}

func (repo commsRepository) CreateLog(ctx context.Context, l comms.CommunicationLog) (comms.CommunicationLog, error) {
	l.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO communication_log (id, gfm_id, gfm_name, student_prn, communication_type, reason, custom_description, timestamp)
		VALUES (:id, :gfm_id, :gfm_name, :student_prn, :communication_type, :reason, :custom_description, :timestamp)`, l)
	if err != nil {
		return comms.CommunicationLog{}, errors.Wrap(err, "inserting communication log")
	}
	return l, nil
}

func (repo commsRepository) QueryLogs(ctx context.Context, from, to time.Time, studentPRN string, ordering ...core.DBOrdering) ([]comms.CommunicationLog, error) {
	// the window is in dates; the upper bound covers the whole day
	q := `SELECT * FROM communication_log WHERE timestamp >= $1 AND timestamp < $2`
	args := []interface{}{from, to.AddDate(0, 0, 1)}
	if studentPRN != "" {
		args = append(args, studentPRN)
		q += " AND student_prn = $" + strconv.Itoa(len(args))
	}
	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		q += " ORDER BY " + strings.Join(orderList, ", ")
	} else {
		q += " ORDER BY timestamp DESC"
	}

	var logs []comms.CommunicationLog
	if err := repo.db.SelectContext(ctx, &logs, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying communication logs")
	}
	return logs, nil
}

func (repo commsRepository) CreateLeaveNote(ctx context.Context, pia comms.PreInformedAbsence) (comms.PreInformedAbsence, error) {
	pia.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO pre_informed_absence (id, student_prn, gfm_id, start_date, end_date, reason, proof_url, informed_by, contact_method, created_at)
		VALUES (:id, :student_prn, :gfm_id, :start_date, :end_date, :reason, :proof_url, :informed_by, :contact_method, :created_at)`, pia)
	if err != nil {
		return comms.PreInformedAbsence{}, errors.Wrap(err, "inserting pre-informed absence")
	}
	return pia, nil
}

func (repo commsRepository) QueryLeaveNotes(ctx context.Context, from, to time.Time, studentPRN string) ([]comms.PreInformedAbsence, error) {
	// span overlap: start <= to AND end >= from
	q := `SELECT * FROM pre_informed_absence WHERE start_date <= $1 AND end_date >= $2`
	args := []interface{}{to, from}
	if studentPRN != "" {
		args = append(args, studentPRN)
		q += " AND student_prn = $" + strconv.Itoa(len(args))
	}
	q += " ORDER BY start_date DESC"

	var leaves []comms.PreInformedAbsence
	if err := repo.db.SelectContext(ctx, &leaves, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying pre-informed absences")
	}
	return leaves, nil
}
