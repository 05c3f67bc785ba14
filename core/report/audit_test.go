package report

import (
	"testing"
	"time"

	"github.com/ViNit736/GFM-record-management-app-sub001/core/attendance"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/comms"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/roster"
)

var (
	mon = time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
	tue = time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC)

	auditStudents = []roster.Student{
		{PRN: "72200001", RollNo: "CS2401", Name: "Asha", Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "A"},
		{PRN: "72200002", RollNo: "CS2402", Name: "Bala", Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "A"},
		{PRN: "72200003", RollNo: "CS2403", Name: "Chitra", Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "A"},
	}
	auditSessions = []attendance.AttendanceSession{
		{ID: "s-mon", Date: mon, Department: "Computer Engineering", YearOfStudy: "SE", Division: "A", Locked: true},
		{ID: "s-tue", Date: tue, Department: "Computer Engineering", YearOfStudy: "SE", Division: "A", Locked: true},
	}
	auditDefs = []roster.BatchDefinition{
		{ID: "b1", Department: "Computer Engineering", Class: "Second Year", Division: "A", SubBatch: "A1", RbtFrom: "CS2401", RbtTo: "CS2402"},
	}
)

func auditSnapshot() Snapshot {
	return Snapshot{
		Students: auditStudents,
		Sessions: auditSessions,
		Absences: []attendance.AttendanceRecord{
			{SessionID: "s-mon", StudentPRN: "72200001", Status: attendance.StatusAbsent},
			{SessionID: "s-mon", StudentPRN: "72200002", Status: attendance.StatusAbsent},
			{SessionID: "s-tue", StudentPRN: "72200003", Status: attendance.StatusAbsent},
		},
		Logs: []comms.CommunicationLog{
			{ID: "l1", GFMID: "u1", GFMName: "Prof. Rao", StudentPRN: "72200001",
				CommunicationType: comms.TypeCall, Reason: "Sick",
				Timestamp: mon.Add(10 * time.Hour)},
		},
		Leaves: []comms.PreInformedAbsence{
			{ID: "p1", StudentPRN: "72200001", StartDate: mon, EndDate: tue, Reason: "Family function", ProofURL: "https://proof.example/1"},
			{ID: "p2", StudentPRN: "72200003", StartDate: tue, EndDate: tue, Reason: "Medical"},
		},
		Defs:    auditDefs,
		Aliases: roster.DefaultYearAliases(),
	}
}

func findRow(t *testing.T, rows []AuditItem, prn, fullDate string) AuditItem {
	t.Helper()
	for _, r := range rows {
		if r.PRN == prn && r.FullDate == fullDate {
			return r
		}
	}
	t.Fatalf("no audit row for prn=%s date=%s", prn, fullDate)
	return AuditItem{}
}

func TestBuildAuditRows(t *testing.T) {
	rows, err := BuildAuditRows(auditSnapshot(), AuditFilter{})
	if err != nil {
		t.Fatalf("BuildAuditRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("BuildAuditRows() returned %d rows, want 3", len(rows))
	}

	// called wins over the covering leave, but the leave still surfaces
	called := findRow(t, rows, "72200001", "2024-08-05")
	if called.Status != StatusCalled {
		t.Errorf("status = %s, want %s", called.Status, StatusCalled)
	}
	if !called.IsCompliant {
		t.Error("called row should be compliant")
	}
	if called.GFMName != "Prof. Rao" || called.CallTime != "10:00" || called.Reason != "Sick" {
		t.Errorf("call attribution = %q %q %q", called.GFMName, called.CallTime, called.Reason)
	}
	if called.LeaveNote != "Family function" || called.LeaveProofURL != "https://proof.example/1" {
		t.Errorf("leave note should be populated alongside the call, got %q", called.LeaveNote)
	}
	if called.Batch != "A1" {
		t.Errorf("batch = %q, want A1", called.Batch)
	}

	pending := findRow(t, rows, "72200002", "2024-08-05")
	if pending.Status != StatusPending || pending.IsCompliant {
		t.Errorf("uncontacted absence = %s compliant=%v, want Pending non-compliant", pending.Status, pending.IsCompliant)
	}
	if pending.Batch != "A1" {
		t.Errorf("batch = %q, want A1", pending.Batch)
	}

	preInformed := findRow(t, rows, "72200003", "2024-08-06")
	if preInformed.Status != StatusPreInformed || !preInformed.IsCompliant {
		t.Errorf("leave-covered absence = %s compliant=%v, want Pre-Informed compliant", preInformed.Status, preInformed.IsCompliant)
	}
	if preInformed.LeaveNote != "Medical" {
		t.Errorf("leave note = %q, want Medical", preInformed.LeaveNote)
	}
	if preInformed.Batch != UnassignedBatch {
		t.Errorf("out-of-range student batch = %q, want %s", preInformed.Batch, UnassignedBatch)
	}

	// newest date first
	if rows[0].FullDate != "2024-08-06" {
		t.Errorf("rows[0].FullDate = %s, want 2024-08-06", rows[0].FullDate)
	}
}

func TestBuildAuditRowsWhatsAppIsNotACall(t *testing.T) {
	snap := auditSnapshot()
	snap.Logs = append(snap.Logs,
		// whatsapp-only contact for an otherwise uncontacted absence
		comms.CommunicationLog{ID: "l2", GFMID: "u1", GFMName: "Prof. Rao", StudentPRN: "72200002",
			CommunicationType: comms.TypeWhatsApp, Reason: "Absent",
			Timestamp: mon.Add(9 * time.Hour)},
		// whatsapp after the call must not steal the attribution either
		comms.CommunicationLog{ID: "l3", GFMID: "u2", GFMName: "Prof. Sen", StudentPRN: "72200001",
			CommunicationType: comms.TypeWhatsApp, Reason: "Follow-up",
			Timestamp: mon.Add(12 * time.Hour)},
	)

	rows, err := BuildAuditRows(snap, AuditFilter{})
	if err != nil {
		t.Fatalf("BuildAuditRows() error = %v", err)
	}

	messaged := findRow(t, rows, "72200002", "2024-08-05")
	if messaged.Status != StatusPending || messaged.IsCompliant {
		t.Errorf("whatsapp-only absence = %s compliant=%v, want Pending non-compliant",
			messaged.Status, messaged.IsCompliant)
	}
	if messaged.CallTime != "" {
		t.Errorf("whatsapp-only absence has call time %q", messaged.CallTime)
	}

	called := findRow(t, rows, "72200001", "2024-08-05")
	if called.GFMName != "Prof. Rao" || called.CallTime != "10:00" {
		t.Errorf("call attribution = %q %q, want the call not the later whatsapp", called.GFMName, called.CallTime)
	}
}

func TestBuildAuditRowsTeacherFallback(t *testing.T) {
	snap := auditSnapshot()
	snap.Allocations = []roster.TeacherBatchConfig{
		{TeacherID: "t1", BatchDefinitionID: "b1", Status: roster.AllocationActive},
	}
	snap.Teachers = map[string]string{"t1": "Prof. Sen"}

	rows, err := BuildAuditRows(snap, AuditFilter{})
	if err != nil {
		t.Fatalf("BuildAuditRows() error = %v", err)
	}

	// no call: the batch's allocated teacher attributes the row
	pending := findRow(t, rows, "72200002", "2024-08-05")
	if pending.GFMName != "Prof. Sen" {
		t.Errorf("pending row GFM = %q, want the allocated teacher", pending.GFMName)
	}
	if pending.Status != StatusPending || pending.IsCompliant {
		t.Errorf("attribution must not change the status, got %s compliant=%v", pending.Status, pending.IsCompliant)
	}

	// a same-day call overrides the allocation
	called := findRow(t, rows, "72200001", "2024-08-05")
	if called.GFMName != "Prof. Rao" {
		t.Errorf("called row GFM = %q, want the caller", called.GFMName)
	}

	// unassigned students have no batch teacher to fall back to
	unassigned := findRow(t, rows, "72200003", "2024-08-06")
	if unassigned.GFMName != "" {
		t.Errorf("unassigned row GFM = %q, want empty", unassigned.GFMName)
	}

	// an inactive allocation no longer attributes anyone
	snap.Allocations[0].Status = roster.AllocationInactive
	rows, err = BuildAuditRows(snap, AuditFilter{})
	if err != nil {
		t.Fatalf("BuildAuditRows() error = %v", err)
	}
	if row := findRow(t, rows, "72200002", "2024-08-05"); row.GFMName != "" {
		t.Errorf("inactive allocation still attributes %q", row.GFMName)
	}
}

func TestBuildAuditRowsDropsOrphans(t *testing.T) {
	snap := auditSnapshot()
	snap.Absences = append(snap.Absences,
		attendance.AttendanceRecord{SessionID: "gone", StudentPRN: "72200001", Status: attendance.StatusAbsent},
		attendance.AttendanceRecord{SessionID: "s-mon", StudentPRN: "nobody", Status: attendance.StatusAbsent},
	)

	rows, err := BuildAuditRows(snap, AuditFilter{})
	if err != nil {
		t.Fatalf("BuildAuditRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("orphaned absences should be dropped silently, got %d rows", len(rows))
	}
}

func TestBuildAuditRowsRequiredCollections(t *testing.T) {
	for _, tt := range []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{name: "nil students", mutate: func(s *Snapshot) { s.Students = nil }},
		{name: "nil sessions", mutate: func(s *Snapshot) { s.Sessions = nil }},
		{name: "nil absences", mutate: func(s *Snapshot) { s.Absences = nil }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			snap := auditSnapshot()
			tt.mutate(&snap)
			if _, err := BuildAuditRows(snap, AuditFilter{}); err == nil {
				t.Error("BuildAuditRows() should fail on missing required collection")
			}
		})
	}

	// no follow-up data at all is a valid state, not an error
	snap := auditSnapshot()
	snap.Logs, snap.Leaves = nil, nil
	rows, err := BuildAuditRows(snap, AuditFilter{})
	if err != nil {
		t.Fatalf("BuildAuditRows() error = %v", err)
	}
	for _, row := range rows {
		if row.Status != StatusPending {
			t.Errorf("row %s/%s = %s, want Pending", row.PRN, row.FullDate, row.Status)
		}
	}
}

func TestBuildAuditRowsFilter(t *testing.T) {
	// the year filter honors aliases: sessions say "SE", admin selects the
	// long spelling
	rows, err := BuildAuditRows(auditSnapshot(), AuditFilter{
		Department: "computer engineering",
		Year:       "Second Year",
		Division:   "a",
	})
	if err != nil {
		t.Fatalf("BuildAuditRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("alias-equivalent filter matched %d rows, want 3", len(rows))
	}

	rows, err = BuildAuditRows(auditSnapshot(), AuditFilter{Year: "TE"})
	if err != nil {
		t.Fatalf("BuildAuditRows() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("non-matching year filter matched %d rows, want 0", len(rows))
	}
}
