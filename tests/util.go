package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/roster"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/user"
)

// Logger is a no-op core.Logger for tests.
type Logger struct{}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger { return &Logger{} }

func (l Logger) Debug(msg string, args ...interface{}) {}
func (l Logger) Info(msg string, args ...interface{})  {}
func (l Logger) Warn(msg string, args ...interface{})  {}
func (l Logger) Error(msg string, args ...interface{}) {}
func (l Logger) Fatal(msg string, args ...interface{}) {}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  &isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(
	t *testing.T,
	repo roster.Repository,
	prn, rollNo, name, branch, year, division string,
) roster.Student {
	t.Helper()

	now := time.Now().UTC()
	st, err := repo.CreateStudent(context.Background(), roster.Student{
		PRN:         prn,
		RollNo:      rollNo,
		Name:        name,
		Branch:      branch,
		YearOfStudy: year,
		Division:    division,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func CreateBatchDefinition(
	t *testing.T,
	repo roster.Repository,
	dept, class, division, subBatch, rbtFrom, rbtTo string,
) roster.BatchDefinition {
	t.Helper()

	now := time.Now().UTC()
	def, err := repo.CreateBatchDefinition(context.Background(), roster.BatchDefinition{
		Department:   dept,
		Class:        class,
		Division:     division,
		SubBatch:     subBatch,
		RbtFrom:      rbtFrom,
		RbtTo:        rbtTo,
		AcademicYear: "2024-25",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateBatchDefinition() failed: %v", err)
	}
	return def
}
