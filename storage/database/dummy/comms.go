package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/comms"
)

type commsRepository struct {
	db *commsTables
}

var _ comms.Repository = (*commsRepository)(nil) // interface compliance check

func NewCommsRepository(db *DB) *commsRepository {
	return &commsRepository{db: db.comms}
}

func (repo *commsRepository) CreateLog(ctx context.Context, l comms.CommunicationLog) (comms.CommunicationLog, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	l.ID = nextPK()
	repo.db.logs[l.ID] = &l
	return l, nil
}

func (repo *commsRepository) QueryLogs(ctx context.Context, from, to time.Time, studentPRN string, ordering ...core.DBOrdering) ([]comms.CommunicationLog, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	end := to.AddDate(0, 0, 1) // the upper bound covers the whole day
	logs := make([]comms.CommunicationLog, 0)
	for _, l := range repo.db.logs {
		if l.Timestamp.Before(from) || !l.Timestamp.Before(end) {
			continue
		}
		if studentPRN != "" && l.StudentPRN != studentPRN {
			continue
		}
		logs = append(logs, *l)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Timestamp.After(logs[j].Timestamp) })
	return logs, nil
}

func (repo *commsRepository) CreateLeaveNote(ctx context.Context, pia comms.PreInformedAbsence) (comms.PreInformedAbsence, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	pia.ID = nextPK()
	repo.db.leaves[pia.ID] = &pia
	return pia, nil
}

func (repo *commsRepository) QueryLeaveNotes(ctx context.Context, from, to time.Time, studentPRN string) ([]comms.PreInformedAbsence, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	leaves := make([]comms.PreInformedAbsence, 0)
	for _, pia := range repo.db.leaves {
		// span overlap: start <= to AND end >= from
		if pia.StartDate.After(to) || pia.EndDate.Before(from) {
			continue
		}
		if studentPRN != "" && pia.StudentPRN != studentPRN {
			continue
		}
		leaves = append(leaves, *pia)
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].StartDate.After(leaves[j].StartDate) })
	return leaves, nil
}
