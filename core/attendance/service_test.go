package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/ViNit736/GFM-record-management-app-sub001/core/attendance"
	"github.com/ViNit736/GFM-record-management-app-sub001/storage/database/dummy"
	"github.com/ViNit736/GFM-record-management-app-sub001/tests"
)

func newService(t *testing.T) *attendance.Service {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	return attendance.NewService(dummydb.NewAttendanceRepository(db), testutil.NewLogger())
}

func validSession() attendance.NewSession {
	return attendance.NewSession{
		Date:        "2024-08-05",
		Department:  "Computer Engineering",
		YearOfStudy: "SE",
		Division:    "A",
	}
}

func TestOpenSessionIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	ns := validSession()
	if err := ns.Validate(); err != nil {
		t.Fatalf("Validate(): %v", err)
	}

	s1, err := svc.OpenSession(ctx, ns)
	if err != nil {
		t.Fatalf("OpenSession(): %v", err)
	}
	if s1.Date != attendance.DateOnly(time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("session date = %v", s1.Date)
	}

	// same tuple yields the same session
	s2, err := svc.OpenSession(ctx, ns)
	if err != nil {
		t.Fatalf("OpenSession(): %v", err)
	}
	if s2.ID != s1.ID {
		t.Errorf("OpenSession() opened a second session %s, want %s", s2.ID, s1.ID)
	}

	// a different division is a different session
	other := validSession()
	other.Division = "B"
	s3, err := svc.OpenSession(ctx, other)
	if err != nil {
		t.Fatalf("OpenSession(): %v", err)
	}
	if s3.ID == s1.ID {
		t.Error("distinct tuples must not share a session")
	}
}

func TestMarkAttendanceUpsert(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	s, err := svc.OpenSession(ctx, validSession())
	if err != nil {
		t.Fatalf("OpenSession(): %v", err)
	}

	err = svc.MarkAttendance(ctx, s.ID, attendance.MarkAttendance{Records: []attendance.RecordEntry{
		{StudentPRN: "72200001", Status: attendance.StatusAbsent},
		{StudentPRN: "72200002", Status: attendance.StatusPresent},
	}})
	if err != nil {
		t.Fatalf("MarkAttendance(): %v", err)
	}

	// re-marking keeps the latest status, one record per student
	err = svc.MarkAttendance(ctx, s.ID, attendance.MarkAttendance{Records: []attendance.RecordEntry{
		{StudentPRN: "72200001", Status: attendance.StatusPresent, Remark: "arrived late"},
	}})
	if err != nil {
		t.Fatalf("MarkAttendance(): %v", err)
	}

	recs, err := svc.Records(ctx, s.ID)
	if err != nil {
		t.Fatalf("Records(): %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Records() returned %d records, want 2", len(recs))
	}
	if recs[0].Status != attendance.StatusPresent || recs[0].Remark != "arrived late" {
		t.Errorf("re-marked record = %+v", recs[0])
	}
}

func TestSubmitSessionLocks(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	s, err := svc.OpenSession(ctx, validSession())
	if err != nil {
		t.Fatalf("OpenSession(): %v", err)
	}

	locked, err := svc.SubmitSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("SubmitSession(): %v", err)
	}
	if !locked.Locked {
		t.Error("SubmitSession() did not lock the session")
	}

	// submitting again is a no-op
	if _, err = svc.SubmitSession(ctx, s.ID); err != nil {
		t.Fatalf("SubmitSession() second call: %v", err)
	}

	err = svc.MarkAttendance(ctx, s.ID, attendance.MarkAttendance{Records: []attendance.RecordEntry{
		{StudentPRN: "72200001", Status: attendance.StatusAbsent},
	}})
	if err != attendance.ErrSessionLocked {
		t.Errorf("MarkAttendance() on locked session error = %v, want ErrSessionLocked", err)
	}

	// reopening the tuple returns the locked session untouched
	reopened, err := svc.OpenSession(ctx, validSession())
	if err != nil {
		t.Fatalf("OpenSession(): %v", err)
	}
	if reopened.ID != s.ID || !reopened.Locked {
		t.Errorf("OpenSession() after lock = %+v", reopened)
	}
}

func TestAbsences(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	mark := func(ns attendance.NewSession, prn, status string) {
		s, err := svc.OpenSession(ctx, ns)
		if err != nil {
			t.Fatalf("OpenSession(): %v", err)
		}
		err = svc.MarkAttendance(ctx, s.ID, attendance.MarkAttendance{Records: []attendance.RecordEntry{
			{StudentPRN: prn, Status: status},
		}})
		if err != nil {
			t.Fatalf("MarkAttendance(): %v", err)
		}
	}

	inWindow := validSession()
	mark(inWindow, "72200001", attendance.StatusAbsent)
	mark(inWindow, "72200002", attendance.StatusPresent)

	outOfWindow := validSession()
	outOfWindow.Date = "2024-07-01"
	mark(outOfWindow, "72200003", attendance.StatusAbsent)

	from := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)
	absences, err := svc.Absences(ctx, from, to)
	if err != nil {
		t.Fatalf("Absences(): %v", err)
	}
	if len(absences) != 1 {
		t.Fatalf("Absences() returned %d records, want 1", len(absences))
	}
	if absences[0].StudentPRN != "72200001" {
		t.Errorf("Absences()[0].StudentPRN = %s", absences[0].StudentPRN)
	}
}

func TestNewSessionValidation(t *testing.T) {
	ns := validSession()
	ns.Date = "05-08-2024"
	if err := ns.Validate(); err == nil {
		t.Error("Validate() should reject a malformed date")
	}

	ma := attendance.MarkAttendance{Records: []attendance.RecordEntry{
		{StudentPRN: "72200001", Status: "Late"},
	}}
	if err := ma.Validate(); err == nil {
		t.Error("Validate() should reject an unknown status")
	}
}
