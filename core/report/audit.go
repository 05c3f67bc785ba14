package report

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/ViNit736/GFM-record-management-app-sub001/core/attendance"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/comms"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/roster"
)

// Compliance statuses, in precedence order. An absence with both a call and a
// covering leave reports Called; the leave still shows in LeaveNote.
const (
	StatusCalled      = "Called"
	StatusPreInformed = "Pre-Informed"
	StatusPending     = "Pending"
)

// UnassignedBatch labels rows whose student resolves to no batch definition.
const UnassignedBatch = "Unassigned"

type (
	// AuditItem is one absence occurrence annotated with its follow-up state.
	AuditItem struct {
		Department    string `json:"department"`
		YearOfStudy   string `json:"year_of_study"`
		Division      string `json:"division"`
		Batch         string `json:"batch"`
		StudentName   string `json:"student_name"`
		RollNo        string `json:"roll_no"`
		PRN           string `json:"prn"`
		Date          string `json:"date"`      // display form, "02 Jan"
		FullDate      string `json:"full_date"` // sortable form, "2006-01-02"
		Status        string `json:"status"`
		GFMName       string `json:"gfm_name"`
		CallTime      string `json:"call_time"`
		Reason        string `json:"reason"`
		LeaveNote     string `json:"leave_note"`
		LeaveProofURL string `json:"leave_proof_url"`
		IsCompliant   bool   `json:"is_compliant"`
	}

	// Snapshot is the raw data an audit is computed from, fetched as of one
	// moment so all rows see a consistent view.
	Snapshot struct {
		Students    []roster.Student
		Sessions    []attendance.AttendanceSession
		Absences    []attendance.AttendanceRecord
		Logs        []comms.CommunicationLog
		Leaves      []comms.PreInformedAbsence
		Defs        []roster.BatchDefinition
		Allocations []roster.TeacherBatchConfig
		Teachers    map[string]string // teacher ID to display name
		Aliases     roster.YearAliases
	}

	// AuditFilter narrows audit rows; empty fields match everything. Year
	// comparison honors year aliases.
	AuditFilter struct {
		Department string
		Year       string
		Division   string
	}
)

// BuildAuditRows joins each absence with its session, student, guardian
// contacts and leave notes, producing one row per absence occurrence. Rows
// come back sorted by date descending, roll number ascending within a date.
//
// Absences whose session or student no longer exists are dropped without
// error; they cannot be attributed. Missing Logs or Leaves mean no follow-up
// happened, so only the join-critical collections are mandatory.
func BuildAuditRows(snap Snapshot, filter AuditFilter) ([]AuditItem, error) {
	if snap.Students == nil || snap.Sessions == nil || snap.Absences == nil {
		return nil, errors.New("audit snapshot is missing students, sessions or absences")
	}
	aliases := snap.Aliases
	if aliases == nil {
		aliases = roster.DefaultYearAliases()
	}

	sessions := make(map[string]attendance.AttendanceSession, len(snap.Sessions))
	for _, s := range snap.Sessions {
		sessions[s.ID] = s
	}
	students := make(map[string]roster.Student, len(snap.Students))
	for _, st := range snap.Students {
		students[st.PRN] = st
	}
	// calls grouped by (PRN, date); only a log of type call satisfies the
	// Called status, a whatsapp contact does not
	callsByKey := make(map[string][]comms.CommunicationLog, len(snap.Logs))
	for _, l := range snap.Logs {
		if l.CommunicationType != comms.TypeCall {
			continue
		}
		k := l.StudentPRN + "|" + l.Timestamp.UTC().Format(attendance.DateLayout)
		callsByKey[k] = append(callsByKey[k], l)
	}
	// live allocation per batch, for attributing rows without a call
	allocsByBatch := make(map[string]roster.TeacherBatchConfig, len(snap.Allocations))
	for _, a := range snap.Allocations {
		if a.Status != roster.AllocationActive {
			continue
		}
		if _, ok := allocsByBatch[a.BatchDefinitionID]; !ok {
			allocsByBatch[a.BatchDefinitionID] = a
		}
	}
	leavesByPRN := make(map[string][]comms.PreInformedAbsence, len(snap.Leaves))
	for _, pia := range snap.Leaves {
		leavesByPRN[pia.StudentPRN] = append(leavesByPRN[pia.StudentPRN], pia)
	}

	rows := make([]AuditItem, 0, len(snap.Absences))
	for _, rec := range snap.Absences {
		session, ok := sessions[rec.SessionID]
		if !ok {
			continue
		}
		st, ok := students[rec.StudentPRN]
		if !ok {
			continue
		}
		if !filter.matches(session, aliases) {
			continue
		}
		rows = append(rows, buildRow(rec, session, st, snap, callsByKey, allocsByBatch, leavesByPRN, aliases))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].FullDate != rows[j].FullDate {
			return rows[i].FullDate > rows[j].FullDate
		}
		return rows[i].RollNo < rows[j].RollNo
	})
	return rows, nil
}

func (f AuditFilter) matches(s attendance.AttendanceSession, aliases roster.YearAliases) bool {
	if f.Department != "" && !strings.EqualFold(f.Department, s.Department) {
		return false
	}
	if f.Year != "" && !aliases.Match(f.Year, s.YearOfStudy) {
		return false
	}
	if f.Division != "" && !strings.EqualFold(f.Division, s.Division) {
		return false
	}
	return true
}

func buildRow(
	rec attendance.AttendanceRecord,
	session attendance.AttendanceSession,
	st roster.Student,
	snap Snapshot,
	callsByKey map[string][]comms.CommunicationLog,
	allocsByBatch map[string]roster.TeacherBatchConfig,
	leavesByPRN map[string][]comms.PreInformedAbsence,
	aliases roster.YearAliases,
) AuditItem {
	date := session.Date.UTC()
	item := AuditItem{
		Department:  session.Department,
		YearOfStudy: session.YearOfStudy,
		Division:    session.Division,
		Batch:       UnassignedBatch,
		StudentName: st.Name,
		RollNo:      st.RollKey(),
		PRN:         st.PRN,
		Date:        date.Format("02 Jan"),
		FullDate:    date.Format(attendance.DateLayout),
		Status:      StatusPending,
	}
	if def := roster.ResolveBatchForStudent(st, snap.Defs, aliases); def != nil {
		item.Batch = def.Label()
		// the batch's allocated teacher attributes the row; a same-day call
		// overrides this below
		if alloc, ok := allocsByBatch[def.ID]; ok {
			item.GFMName = snap.Teachers[alloc.TeacherID]
		}
	}

	// a leave covering the date always surfaces in LeaveNote, whatever the
	// final status
	var hasLeave bool
	for _, pia := range leavesByPRN[st.PRN] {
		if !pia.Covers(date) {
			continue
		}
		hasLeave = true
		item.LeaveNote = pia.Reason
		item.LeaveProofURL = pia.ProofURL
		break
	}

	calls := callsByKey[st.PRN+"|"+item.FullDate]
	if len(calls) > 0 {
		// latest call of the day wins the attribution
		latest := calls[0]
		for _, l := range calls[1:] {
			if l.Timestamp.After(latest.Timestamp) {
				latest = l
			}
		}
		item.Status = StatusCalled
		item.GFMName = latest.GFMName
		item.CallTime = latest.Timestamp.UTC().Format("15:04")
		item.Reason = latest.Reason
		item.IsCompliant = true
		return item
	}

	if hasLeave {
		item.Status = StatusPreInformed
		item.IsCompliant = true
	}
	return item
}
