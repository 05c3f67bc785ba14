package comms

import (
	"time"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
)

// Communication types
const (
	TypeCall     = "call"
	TypeWhatsApp = "whatsapp"
)

// DateLayout is the wire format for leave note dates.
const DateLayout = "2006-01-02"

type (
	// CommunicationLog is one guardian contact made by a GFM about a student.
	// Logs are append-only; corrections are new entries.
	CommunicationLog struct {
		ID                string    `json:"id" db:"id"`
		GFMID             string    `json:"gfm_id" db:"gfm_id"`
		GFMName           string    `json:"gfm_name" db:"gfm_name"`
		StudentPRN        string    `json:"student_prn" db:"student_prn"`
		CommunicationType string    `json:"communication_type" db:"communication_type"`
		Reason            string    `json:"reason" db:"reason"`
		CustomDescription string    `json:"custom_description" db:"custom_description"`
		Timestamp         time.Time `json:"timestamp" db:"timestamp"` // UTC
	}

	// PreInformedAbsence is a guardian-declared leave covering a date span.
	PreInformedAbsence struct {
		ID            string    `json:"id" db:"id"`
		StudentPRN    string    `json:"student_prn" db:"student_prn"`
		GFMID         string    `json:"gfm_id" db:"gfm_id"`
		StartDate     time.Time `json:"start_date" db:"start_date"` // date precision, UTC midnight
		EndDate       time.Time `json:"end_date" db:"end_date"`     // date precision, UTC midnight
		Reason        string    `json:"reason" db:"reason"`
		ProofURL      string    `json:"proof_url" db:"proof_url"`
		InformedBy    string    `json:"informed_by" db:"informed_by"`
		ContactMethod string    `json:"contact_method" db:"contact_method"`
		CreatedAt     time.Time `json:"created_at" db:"created_at"` // UTC
	}
)

// Covers reports whether the leave spans the given date, bounds inclusive.
// Comparison is at date precision.
func (pia PreInformedAbsence) Covers(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(dateOnly(pia.StartDate)) && !d.After(dateOnly(pia.EndDate))
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewCommunicationLog contains information needed to record a guardian
// contact.
type NewCommunicationLog struct {
	StudentPRN        string `json:"student_prn" validate:"required"`
	CommunicationType string `json:"communication_type" validate:"required,oneof=call whatsapp"`
	Reason            string `json:"reason" validate:"required"`
	CustomDescription string `json:"custom_description"`
}

func (nl *NewCommunicationLog) Validate() error {
	nl.StudentPRN = core.CleanString(nl.StudentPRN)
	nl.CommunicationType = core.CleanString(nl.CommunicationType, true /* lower */)
	nl.Reason = core.CleanString(nl.Reason)
	nl.CustomDescription = core.CleanString(nl.CustomDescription)
	return core.Validate.Struct(nl)
}

// NewPreInformedAbsence contains information needed to file a leave note.
type NewPreInformedAbsence struct {
	StudentPRN    string `json:"student_prn" validate:"required"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason        string `json:"reason" validate:"required"`
	ProofURL      string `json:"proof_url" validate:"omitempty,url"`
	InformedBy    string `json:"informed_by"`
	ContactMethod string `json:"contact_method"`
}

func (na *NewPreInformedAbsence) Validate() error {
	na.StudentPRN = core.CleanString(na.StudentPRN)
	na.StartDate = core.CleanString(na.StartDate)
	na.EndDate = core.CleanString(na.EndDate)
	na.Reason = core.CleanString(na.Reason)
	na.ProofURL = core.CleanString(na.ProofURL)
	na.InformedBy = core.CleanString(na.InformedBy)
	na.ContactMethod = core.CleanString(na.ContactMethod)
	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	if na.ParsedEndDate().Before(na.ParsedStartDate()) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "end_date", Error: "end_date must not be before start_date",
		})
	}
	return nil
}

func (na NewPreInformedAbsence) ParsedStartDate() time.Time {
	d, _ := time.ParseInLocation(DateLayout, na.StartDate, time.UTC)
	return d
}

func (na NewPreInformedAbsence) ParsedEndDate() time.Time {
	d, _ := time.ParseInLocation(DateLayout, na.EndDate, time.UTC)
	return d
}
