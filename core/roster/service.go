package roster

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
)

var (
	// errors
	ErrStudentNotFound    = errors.New("student not found")
	ErrStudentExists      = errors.New("a student with this PRN already exists")
	ErrBatchNotFound      = errors.New("batch definition not found")
	ErrAllocationNotFound = errors.New("batch allocation not found")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, st Student) (Student, error)
		GetStudent(ctx context.Context, prn string) (Student, error)
		// QueryStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Name, RollNo or PRN.
		QueryStudents(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Student, error)

		CreateBatchDefinition(ctx context.Context, def BatchDefinition) (BatchDefinition, error)
		GetBatchDefinition(ctx context.Context, id string) (BatchDefinition, error)
		QueryBatchDefinitions(ctx context.Context, filter *QueryFilter) ([]BatchDefinition, error)
		UpdateBatchDefinition(ctx context.Context, def BatchDefinition) (BatchDefinition, error)
		// DeleteBatchDefinition removes the definition only; attendance history
		// is untouched (non-cascading by design).
		DeleteBatchDefinition(ctx context.Context, id string) error

		// UpsertAllocation replaces any live allocation keyed on TeacherID.
		UpsertAllocation(ctx context.Context, alloc TeacherBatchConfig) (TeacherBatchConfig, error)
		GetAllocationByTeacher(ctx context.Context, teacherID string) (TeacherBatchConfig, error)
		QueryAllocations(ctx context.Context) ([]TeacherBatchConfig, error)
		DeactivateAllocationsForBatch(ctx context.Context, batchDefinitionID string) error
	}

	Service struct {
		repo    Repository
		logger  core.Logger
		aliases YearAliases
	}
)

func NewService(repo Repository, logger core.Logger, aliases YearAliases) *Service {
	if aliases == nil {
		aliases = DefaultYearAliases()
	}
	return &Service{repo: repo, logger: logger, aliases: aliases}
}

func (svc *Service) Aliases() YearAliases { return svc.aliases }

// Students

func (svc *Service) AddStudent(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	st := Student{
		PRN:           ns.PRN,
		RollNo:        ns.RollNo,
		Name:          ns.Name,
		Branch:        ns.Branch,
		YearOfStudy:   ns.YearOfStudy,
		Division:      ns.Division,
		GuardianEmail: ns.GuardianEmail,
		GuardianPhone: ns.GuardianPhone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateStudent(ctx, st)
}

func (svc *Service) GetStudent(ctx context.Context, prn string) (Student, error) {
	return svc.repo.GetStudent(ctx, core.CleanString(prn))
}

func (svc *Service) QueryStudents(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, filter, ordering...)
}

// Batch definitions

func (svc *Service) CreateBatch(ctx context.Context, nb NewBatchDefinition) (BatchDefinition, error) {
	now := time.Now().UTC()
	def := BatchDefinition{
		Department:   nb.Department,
		Class:        nb.Class,
		Division:     nb.Division,
		SubBatch:     nb.SubBatch,
		RbtFrom:      nb.RbtFrom,
		RbtTo:        nb.RbtTo,
		AcademicYear: nb.AcademicYear,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	svc.warnOnEmptyRange(def)
	return svc.repo.CreateBatchDefinition(ctx, def)
}

func (svc *Service) GetBatch(ctx context.Context, id string) (BatchDefinition, error) {
	return svc.repo.GetBatchDefinition(ctx, id)
}

func (svc *Service) QueryBatches(ctx context.Context, filter *QueryFilter) ([]BatchDefinition, error) {
	return svc.repo.QueryBatchDefinitions(ctx, filter)
}

func (svc *Service) UpdateBatch(ctx context.Context, id string, ub UpdateBatchDefinition) (BatchDefinition, error) {
	def, err := svc.repo.GetBatchDefinition(ctx, id)
	if err != nil {
		return BatchDefinition{}, err
	}
	def.Department = ub.Department
	def.Class = ub.Class
	def.Division = ub.Division
	def.SubBatch = ub.SubBatch
	def.RbtFrom = ub.RbtFrom
	def.RbtTo = ub.RbtTo
	def.AcademicYear = ub.AcademicYear
	def.UpdatedAt = time.Now().UTC()
	svc.warnOnEmptyRange(def)
	return svc.repo.UpdateBatchDefinition(ctx, def)
}

// DeleteBatch removes the batch definition and deactivates allocations
// pointing at it. Attendance history keyed on sessions is left intact.
func (svc *Service) DeleteBatch(ctx context.Context, id string) error {
	if err := svc.repo.DeactivateAllocationsForBatch(ctx, id); err != nil {
		return errors.Wrap(err, "deactivating allocations")
	}
	return svc.repo.DeleteBatchDefinition(ctx, id)
}

// warnOnEmptyRange flags a range whose from-sequence exceeds its to-sequence:
// such a batch never matches any student. Data-quality warning only.
func (svc *Service) warnOnEmptyRange(def BatchDefinition) {
	fromSeq, fromOK := ExtractSequence(def.RbtFrom)
	toSeq, toOK := ExtractSequence(def.RbtTo)
	if fromOK && toOK && fromSeq%seqModulus > toSeq%seqModulus {
		svc.logger.Warn("batch range is empty: from-sequence exceeds to-sequence",
			map[string]interface{}{"rbt_from": def.RbtFrom, "rbt_to": def.RbtTo, "division": def.Division})
	}
}

// Allocations

// AssignBatch gives the teacher a batch, replacing any live allocation. The
// allocation copies the definition's range and scope at assignment time.
func (svc *Service) AssignBatch(ctx context.Context, na NewAllocation) (TeacherBatchConfig, error) {
	def, err := svc.repo.GetBatchDefinition(ctx, na.BatchDefinitionID)
	if err != nil {
		return TeacherBatchConfig{}, err
	}
	alloc := TeacherBatchConfig{
		TeacherID:         na.TeacherID,
		BatchDefinitionID: def.ID,
		RbtFrom:           def.RbtFrom,
		RbtTo:             def.RbtTo,
		Department:        def.Department,
		Division:          def.Division,
		AcademicYear:      def.AcademicYear,
		Status:            AllocationActive,
		AssignedAt:        time.Now().UTC(),
	}
	return svc.repo.UpsertAllocation(ctx, alloc)
}

func (svc *Service) TeacherAllocation(ctx context.Context, teacherID string) (TeacherBatchConfig, error) {
	return svc.repo.GetAllocationByTeacher(ctx, core.CleanString(teacherID))
}

func (svc *Service) QueryAllocations(ctx context.Context) ([]TeacherBatchConfig, error) {
	return svc.repo.QueryAllocations(ctx)
}

// Resolution

// ResolveBatch finds the batch the student belongs to among all current
// definitions. Zero matches resolve to nil (unassigned); multiple matches
// resolve to the first and log a data-quality warning.
func (svc *Service) ResolveBatch(ctx context.Context, prn string) (*BatchDefinition, error) {
	st, err := svc.repo.GetStudent(ctx, core.CleanString(prn))
	if err != nil {
		return nil, err
	}
	defs, err := svc.repo.QueryBatchDefinitions(ctx, nil)
	if err != nil {
		return nil, err
	}
	return svc.resolve(st, defs), nil
}

func (svc *Service) resolve(st Student, defs []BatchDefinition) *BatchDefinition {
	matches := MatchingBatches(st, defs, svc.aliases)
	if len(matches) == 0 {
		return nil
	}
	if len(matches) > 1 {
		svc.logger.Warn("student matches multiple batch definitions; using first",
			map[string]interface{}{"prn": st.PRN, "roll_no": st.RollNo, "matches": len(matches)})
	}
	return &matches[0]
}

// BatchStudents lists the students the batch definition's range covers.
func (svc *Service) BatchStudents(ctx context.Context, batchID string) ([]Student, error) {
	def, err := svc.repo.GetBatchDefinition(ctx, batchID)
	if err != nil {
		return nil, err
	}
	// filter on department only: year spellings and sub-batch divisions need
	// the alias/prefix matching that ResolveStudentsForBatch applies
	students, err := svc.repo.QueryStudents(ctx, &QueryFilter{Department: def.Department})
	if err != nil {
		return nil, err
	}
	return ResolveStudentsForBatch(def, students, svc.aliases), nil
}
