package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/roster"
)

// seedRoster imports students from a CSV file with a header row:
// prn,roll_no,name,branch,year_of_study,division,guardian_email,guardian_phone
// Existing PRNs are skipped; the import never overwrites.
func (cli *commandLine) seedRoster(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening roster file")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 8

	header, err := r.Read()
	if err != nil {
		return errors.Wrap(err, "reading header")
	}
	if header[0] != "prn" {
		return errors.Errorf("unexpected header: %v", header)
	}

	ctx := context.Background()
	var created, skipped int
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "reading record")
		}

		now := time.Now().UTC()
		st := roster.Student{
			PRN:           core.CleanString(rec[0]),
			RollNo:        core.CleanString(rec[1]),
			Name:          core.CleanString(rec[2]),
			Branch:        core.CleanString(rec[3]),
			YearOfStudy:   core.CleanString(rec[4]),
			Division:      core.CleanString(rec[5]),
			GuardianEmail: core.CleanString(rec[6], true /* lower */),
			GuardianPhone: core.CleanString(rec[7]),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if st.PRN == "" {
			return errors.New("record with empty PRN")
		}

		if _, err := cli.rosterRepo.CreateStudent(ctx, st); err != nil {
			if errors.Cause(err) == roster.ErrStudentExists {
				skipped++
				continue
			}
			return errors.Wrapf(err, "importing student %s", st.PRN)
		}
		created++
	}

	fmt.Printf("roster import done: %d created, %d skipped\n", created, skipped)
	return nil
}
