package attendance

import (
	"time"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
)

// Record statuses
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// DateLayout is the wire format for session dates.
const DateLayout = "2006-01-02"

type (
	// AttendanceSession is one roll call for a (date, department, year,
	// division) tuple; at most one session exists per tuple. Once locked,
	// its records are immutable through the service.
	AttendanceSession struct {
		ID          string    `json:"id" db:"id"`
		Date        time.Time `json:"date" db:"date"` // date precision, UTC midnight
		Department  string    `json:"department" db:"department"`
		YearOfStudy string    `json:"year_of_study" db:"year_of_study"`
		Division    string    `json:"division" db:"division"`
		Locked      bool      `json:"locked" db:"locked"`
		CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	}

	// AttendanceRecord marks one student in one session; exactly one record
	// exists per (session, student) pair.
	AttendanceRecord struct {
		SessionID  string `json:"session_id" db:"session_id"`
		StudentPRN string `json:"student_prn" db:"student_prn"`
		Status     string `json:"status" db:"status"`
		Remark     string `json:"remark" db:"remark"`
	}
)

// DateOnly truncates a time to UTC midnight, the precision session dates and
// absence joins operate on.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewSession contains information needed to open an attendance session.
type NewSession struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Department  string `json:"department" validate:"required"`
	YearOfStudy string `json:"year_of_study" validate:"required"`
	Division    string `json:"division" validate:"required"`
}

func (ns *NewSession) Validate() error {
	ns.Date = core.CleanString(ns.Date)
	ns.Department = core.CleanString(ns.Department)
	ns.YearOfStudy = core.CleanString(ns.YearOfStudy)
	ns.Division = core.CleanString(ns.Division)
	return core.Validate.Struct(ns)
}

func (ns NewSession) ParsedDate() time.Time {
	d, _ := time.ParseInLocation(DateLayout, ns.Date, time.UTC)
	return d
}

type (
	// RecordEntry is one student's mark within a MarkAttendance call.
	RecordEntry struct {
		StudentPRN string `json:"student_prn" validate:"required"`
		Status     string `json:"status" validate:"required,oneof=Present Absent"`
		Remark     string `json:"remark"`
	}

	// MarkAttendance upserts records into an unlocked session.
	MarkAttendance struct {
		Records []RecordEntry `json:"records" validate:"required,min=1,dive"`
	}
)

func (ma *MarkAttendance) Validate() error {
	for i := range ma.Records {
		ma.Records[i].StudentPRN = core.CleanString(ma.Records[i].StudentPRN)
		ma.Records[i].Remark = core.CleanString(ma.Records[i].Remark)
	}
	return core.Validate.Struct(ma)
}
