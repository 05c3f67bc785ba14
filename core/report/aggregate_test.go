package report

import (
	"bytes"
	"strings"
	"testing"
)

func summaryRows() []AuditItem {
	return []AuditItem{
		{Department: "Computer Engineering", YearOfStudy: "SE", Division: "A", Batch: "A1", Status: StatusCalled, IsCompliant: true},
		{Department: "Computer Engineering", YearOfStudy: "SE", Division: "A", Batch: "A1", Status: StatusPending},
		{Department: "Computer Engineering", YearOfStudy: "SE", Division: "A", Batch: "A2", Status: StatusPreInformed, IsCompliant: true},
		{Department: "Mechanical Engineering", YearOfStudy: "SE", Division: "A", Batch: UnassignedBatch, Status: StatusPending},
	}
}

func TestSummarize(t *testing.T) {
	buckets := Summarize(summaryRows(), false)
	if len(buckets) != 2 {
		t.Fatalf("Summarize() returned %d buckets, want 2", len(buckets))
	}

	comp := buckets[0]
	if comp.Department != "Computer Engineering" || comp.Total != 3 {
		t.Fatalf("first bucket = %+v", comp)
	}
	if comp.Called != 1 || comp.PreInformed != 1 || comp.Pending != 1 {
		t.Errorf("tallies = %d/%d/%d, want 1/1/1", comp.Called, comp.PreInformed, comp.Pending)
	}
	if comp.Compliance < 66.6 || comp.Compliance > 66.7 {
		t.Errorf("compliance = %f, want ~66.67", comp.Compliance)
	}

	mech := buckets[1]
	if mech.Total != 1 || mech.Compliance != 0 {
		t.Errorf("mech bucket = %+v", mech)
	}
}

func TestSummarizeByBatch(t *testing.T) {
	buckets := Summarize(summaryRows(), true)
	if len(buckets) != 3 {
		t.Fatalf("Summarize(byBatch) returned %d buckets, want 3", len(buckets))
	}
	if buckets[0].Batch != "A1" || buckets[0].Total != 2 {
		t.Errorf("first batch bucket = %+v", buckets[0])
	}
	if buckets[1].Batch != "A2" || buckets[1].Compliance != 100 {
		t.Errorf("second batch bucket = %+v", buckets[1])
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if buckets := Summarize(nil, false); len(buckets) != 0 {
		t.Errorf("Summarize(nil) = %v, want empty", buckets)
	}
}

func TestWriteCSV(t *testing.T) {
	var buff bytes.Buffer
	rows := []AuditItem{
		{
			Department: "Computer Engineering", YearOfStudy: "SE", Division: "A", Batch: "A1",
			StudentName: "Asha, Jr.", RollNo: "CS2401", PRN: "72200001",
			FullDate: "2024-08-05", Status: StatusCalled, GFMName: "Prof. Rao",
			CallTime: "10:00", Reason: "Sick", IsCompliant: true,
		},
	}
	if err := WriteCSV(&buff, rows); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buff.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("WriteCSV() wrote %d lines, want header + 1 row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Department,Year,Division,Batch") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	// the comma in the student name must be quoted
	if !strings.Contains(lines[1], `"Asha, Jr."`) {
		t.Errorf("unexpected row: %s", lines[1])
	}
	if !strings.Contains(lines[1], "true") {
		t.Errorf("row should carry the compliant flag: %s", lines[1])
	}
}
