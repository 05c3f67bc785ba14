package comms

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
)

var (
	// errors
	ErrLogNotFound   = errors.New("communication log not found")
	ErrLeaveNotFound = errors.New("pre-informed absence not found")
)

type (
	Repository interface {
		// CreateLog appends; logs are never updated or deleted.
		CreateLog(ctx context.Context, l CommunicationLog) (CommunicationLog, error)
		// QueryLogs returns logs whose timestamp falls on a date in [from, to],
		// optionally narrowed to one student.
		QueryLogs(ctx context.Context, from, to time.Time, studentPRN string, ordering ...core.DBOrdering) ([]CommunicationLog, error)

		CreateLeaveNote(ctx context.Context, pia PreInformedAbsence) (PreInformedAbsence, error)
		// QueryLeaveNotes returns leaves whose [start, end] span overlaps
		// [from, to], optionally narrowed to one student.
		QueryLeaveNotes(ctx context.Context, from, to time.Time, studentPRN string) ([]PreInformedAbsence, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogCommunication appends a guardian contact entry attributed to the GFM.
func (svc *Service) LogCommunication(ctx context.Context, gfmID, gfmName string, nl NewCommunicationLog) (CommunicationLog, error) {
	l := CommunicationLog{
		GFMID:             gfmID,
		GFMName:           gfmName,
		StudentPRN:        nl.StudentPRN,
		CommunicationType: nl.CommunicationType,
		Reason:            nl.Reason,
		CustomDescription: nl.CustomDescription,
		Timestamp:         time.Now().UTC(),
	}
	return svc.repo.CreateLog(ctx, l)
}

// Logs lists communication entries on dates within [from, to]; studentPRN
// narrows to one student when non-empty.
func (svc *Service) Logs(ctx context.Context, from, to time.Time, studentPRN string, ordering ...core.DBOrdering) ([]CommunicationLog, error) {
	return svc.repo.QueryLogs(ctx, from, to, core.CleanString(studentPRN), ordering...)
}

// FileLeaveNote records a guardian-declared absence span for a student.
func (svc *Service) FileLeaveNote(ctx context.Context, gfmID string, na NewPreInformedAbsence) (PreInformedAbsence, error) {
	pia := PreInformedAbsence{
		StudentPRN:    na.StudentPRN,
		GFMID:         gfmID,
		StartDate:     na.ParsedStartDate(),
		EndDate:       na.ParsedEndDate(),
		Reason:        na.Reason,
		ProofURL:      na.ProofURL,
		InformedBy:    na.InformedBy,
		ContactMethod: na.ContactMethod,
		CreatedAt:     time.Now().UTC(),
	}
	return svc.repo.CreateLeaveNote(ctx, pia)
}

// LeaveNotes lists leaves overlapping [from, to]; studentPRN narrows to one
// student when non-empty.
func (svc *Service) LeaveNotes(ctx context.Context, from, to time.Time, studentPRN string) ([]PreInformedAbsence, error) {
	return svc.repo.QueryLeaveNotes(ctx, from, to, core.CleanString(studentPRN))
}
