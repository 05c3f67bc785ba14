package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var csvHeader = []string{
	"Department", "Year", "Division", "Batch", "Student Name", "Roll No", "PRN",
	"Date", "Status", "GFM Name", "Call Time", "Reason", "Leave Note", "Leave Proof URL", "Compliant",
}

// WriteCSV streams audit rows as CSV, header first, preserving row order.
func WriteCSV(w io.Writer, rows []AuditItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, row := range rows {
		record := []string{
			row.Department, row.YearOfStudy, row.Division, row.Batch,
			row.StudentName, row.RollNo, row.PRN,
			row.FullDate, row.Status, row.GFMName, row.CallTime,
			row.Reason, row.LeaveNote, row.LeaveProofURL,
			strconv.FormatBool(row.IsCompliant),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
