package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/roster"
)

type rosterRepository struct {
	db *rosterTables
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *DB) *rosterRepository {
	return &rosterRepository{db: db.roster}
}

func (repo *rosterRepository) CreateStudent(ctx context.Context, st roster.Student) (roster.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[st.PRN]; ok {
		return roster.Student{}, roster.ErrStudentExists
	}
	repo.db.students[st.PRN] = &st
	return st, nil
}

func (repo *rosterRepository) GetStudent(ctx context.Context, prn string) (roster.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.students[prn]; ok {
		return *st, nil
	}
	return roster.Student{}, roster.ErrStudentNotFound
}

func (repo *rosterRepository) QueryStudents(ctx context.Context, filter *roster.QueryFilter, ordering ...core.DBOrdering) ([]roster.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]roster.Student, 0, len(repo.db.students))
	for _, st := range repo.db.students {
		if filter != nil {
			if filter.Department != "" && !strings.EqualFold(filter.Department, st.Branch) {
				continue
			}
			if filter.Year != "" && !strings.EqualFold(filter.Year, st.YearOfStudy) {
				continue
			}
			if filter.Division != "" && !strings.EqualFold(filter.Division, st.Division) {
				continue
			}
			if filter.Search != "" {
				kw := strings.ToLower(filter.Search)
				if !strings.Contains(strings.ToLower(st.Name), kw) &&
					!strings.Contains(strings.ToLower(st.RollNo), kw) &&
					!strings.Contains(strings.ToLower(st.PRN), kw) {
					continue
				}
			}
		}
		students = append(students, *st)
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].RollNo != students[j].RollNo {
			return students[i].RollNo < students[j].RollNo
		}
		return students[i].PRN < students[j].PRN
	})
	return students, nil
}

func (repo *rosterRepository) CreateBatchDefinition(ctx context.Context, def roster.BatchDefinition) (roster.BatchDefinition, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	def.ID = nextPK()
	repo.db.defs[def.ID] = &def
	return def, nil
}

func (repo *rosterRepository) GetBatchDefinition(ctx context.Context, id string) (roster.BatchDefinition, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if def, ok := repo.db.defs[id]; ok {
		return *def, nil
	}
	return roster.BatchDefinition{}, roster.ErrBatchNotFound
}

func (repo *rosterRepository) QueryBatchDefinitions(ctx context.Context, filter *roster.QueryFilter) ([]roster.BatchDefinition, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	defs := make([]roster.BatchDefinition, 0, len(repo.db.defs))
	for _, def := range repo.db.defs {
		if filter != nil {
			if filter.Department != "" && !strings.EqualFold(filter.Department, def.Department) {
				continue
			}
			if filter.Year != "" && !strings.EqualFold(filter.Year, def.Class) {
				continue
			}
			if filter.Division != "" && !strings.EqualFold(filter.Division, def.Division) {
				continue
			}
		}
		defs = append(defs, *def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs, nil
}

func (repo *rosterRepository) UpdateBatchDefinition(ctx context.Context, def roster.BatchDefinition) (roster.BatchDefinition, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.defs[def.ID]; !ok {
		return roster.BatchDefinition{}, roster.ErrBatchNotFound
	}
	repo.db.defs[def.ID] = &def
	return def, nil
}

func (repo *rosterRepository) DeleteBatchDefinition(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.defs, id)
	return nil
}

func (repo *rosterRepository) UpsertAllocation(ctx context.Context, alloc roster.TeacherBatchConfig) (roster.TeacherBatchConfig, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.allocs[alloc.TeacherID] = &alloc
	return alloc, nil
}

func (repo *rosterRepository) GetAllocationByTeacher(ctx context.Context, teacherID string) (roster.TeacherBatchConfig, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if alloc, ok := repo.db.allocs[teacherID]; ok {
		return *alloc, nil
	}
	return roster.TeacherBatchConfig{}, roster.ErrAllocationNotFound
}

func (repo *rosterRepository) QueryAllocations(ctx context.Context) ([]roster.TeacherBatchConfig, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	allocs := make([]roster.TeacherBatchConfig, 0, len(repo.db.allocs))
	for _, alloc := range repo.db.allocs {
		allocs = append(allocs, *alloc)
	}
	sort.Slice(allocs, func(i, j int) bool { return allocs[i].TeacherID < allocs[j].TeacherID })
	return allocs, nil
}

func (repo *rosterRepository) DeactivateAllocationsForBatch(ctx context.Context, batchDefinitionID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, alloc := range repo.db.allocs {
		if alloc.BatchDefinitionID == batchDefinitionID {
			alloc.Status = roster.AllocationInactive
		}
	}
	return nil
}
