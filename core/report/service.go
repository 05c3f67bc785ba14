package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/attendance"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/comms"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/roster"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/user"
)

// Filter selects the audit window and optional cohort narrowing. Dates are
// inclusive, "2006-01-02" form.
type Filter struct {
	From       string `json:"from" query:"from" validate:"required,datetime=2006-01-02"`
	To         string `json:"to" query:"to" validate:"required,datetime=2006-01-02"`
	Department string `json:"department" query:"department"`
	Year       string `json:"year" query:"year"`
	Division   string `json:"division" query:"division"`
}

func (f *Filter) Validate() error {
	f.From = core.CleanString(f.From)
	f.To = core.CleanString(f.To)
	f.Department = core.CleanString(f.Department)
	f.Year = core.CleanString(f.Year)
	f.Division = core.CleanString(f.Division)
	if err := core.Validate.Struct(f); err != nil {
		return err
	}
	if f.ParsedTo().Before(f.ParsedFrom()) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "to", Error: "to must not be before from",
		})
	}
	return nil
}

func (f Filter) ParsedFrom() time.Time {
	d, _ := time.ParseInLocation(attendance.DateLayout, f.From, time.UTC)
	return d
}

func (f Filter) ParsedTo() time.Time {
	d, _ := time.ParseInLocation(attendance.DateLayout, f.To, time.UTC)
	return d
}

func (f Filter) auditFilter() AuditFilter {
	return AuditFilter{Department: f.Department, Year: f.Year, Division: f.Division}
}

// Service computes compliance views by joining the roster, attendance and
// communication services over a date window.
type Service struct {
	rosterSvc     *roster.Service
	attendanceSvc *attendance.Service
	commsSvc      *comms.Service
	usrSvc        user.Service
	mailSvc       core.EmailService
	logger        core.Logger
}

func NewService(
	rosterSvc *roster.Service,
	attendanceSvc *attendance.Service,
	commsSvc *comms.Service,
	usrSvc user.Service,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		rosterSvc:     rosterSvc,
		attendanceSvc: attendanceSvc,
		commsSvc:      commsSvc,
		usrSvc:        usrSvc,
		mailSvc:       mailSvc,
		logger:        logger,
	}
}

func (svc *Service) snapshot(ctx context.Context, f Filter) (Snapshot, error) {
	from, to := f.ParsedFrom(), f.ParsedTo()

	students, err := svc.rosterSvc.QueryStudents(ctx, nil)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "fetching students")
	}
	defs, err := svc.rosterSvc.QueryBatches(ctx, nil)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "fetching batch definitions")
	}
	sessions, err := svc.attendanceSvc.QuerySessions(ctx, from, to)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "fetching sessions")
	}
	absences, err := svc.attendanceSvc.Absences(ctx, from, to)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "fetching absences")
	}
	logs, err := svc.commsSvc.Logs(ctx, from, to, "")
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "fetching communication logs")
	}
	leaves, err := svc.commsSvc.LeaveNotes(ctx, from, to, "")
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "fetching leave notes")
	}
	allocs, err := svc.rosterSvc.QueryAllocations(ctx)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "fetching allocations")
	}
	teachers := make(map[string]string, len(allocs))
	for _, a := range allocs {
		if _, ok := teachers[a.TeacherID]; ok {
			continue
		}
		usr, err := svc.usrSvc.GetByID(ctx, a.TeacherID)
		if err != nil {
			// a deleted account leaves the allocation unattributed
			if errors.Cause(err) == user.ErrNotFound {
				continue
			}
			return Snapshot{}, errors.Wrap(err, "fetching allocation owner")
		}
		teachers[a.TeacherID] = usr.Username
	}
	return Snapshot{
		Students:    students,
		Sessions:    sessions,
		Absences:    absences,
		Logs:        logs,
		Leaves:      leaves,
		Defs:        defs,
		Allocations: allocs,
		Teachers:    teachers,
		Aliases:     svc.rosterSvc.Aliases(),
	}, nil
}

// ComplianceAudit returns one row per absence in the window, newest first.
func (svc *Service) ComplianceAudit(ctx context.Context, f Filter) ([]AuditItem, error) {
	snap, err := svc.snapshot(ctx, f)
	if err != nil {
		return nil, err
	}
	return BuildAuditRows(snap, f.auditFilter())
}

// ComplianceSummary tallies the window's audit rows into cohort buckets.
// With a division filter set the rows all share one class, so the summary
// breaks down by batch instead.
func (svc *Service) ComplianceSummary(ctx context.Context, f Filter) ([]Bucket, error) {
	rows, err := svc.ComplianceAudit(ctx, f)
	if err != nil {
		return nil, err
	}
	return Summarize(rows, f.Division != ""), nil
}

// ExportCSV writes the window's audit rows to w as CSV.
func (svc *Service) ExportCSV(ctx context.Context, f Filter, w io.Writer) error {
	rows, err := svc.ComplianceAudit(ctx, f)
	if err != nil {
		return err
	}
	return WriteCSV(w, rows)
}

// EmailDigest mails the window's compliance summary to the recipients, with
// the full audit attached as CSV. Delivery is asynchronous.
func (svc *Service) EmailDigest(ctx context.Context, f Filter, to []mail.Address) error {
	rows, err := svc.ComplianceAudit(ctx, f)
	if err != nil {
		return err
	}
	buckets := Summarize(rows, f.Division != "")

	var pending int
	for _, row := range rows {
		if !row.IsCompliant {
			pending++
		}
	}

	msg := &core.EmailMessage{
		To:           to,
		Subject:      fmt.Sprintf("Attendance Compliance Digest %s to %s", f.From, f.To),
		TemplateName: "compliance_digest",
		TemplateData: struct {
			From, To string
			Buckets  []Bucket
			Total    int
			Pending  int
		}{f.From, f.To, buckets, len(rows), pending},
	}

	var buff bytes.Buffer
	if err := WriteCSV(&buff, rows); err != nil {
		return err
	}
	if err := msg.Attach(&buff, fmt.Sprintf("compliance_%s_%s.csv", f.From, f.To), "text/csv"); err != nil {
		return errors.Wrap(err, "attaching csv")
	}

	svc.mailSvc.SendMessages(msg)
	svc.logger.Info("compliance digest queued",
		map[string]interface{}{"from": f.From, "to": f.To, "rows": len(rows), "recipients": len(to)})
	return nil
}
