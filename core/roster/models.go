package roster

import (
	"time"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
)

// Allocation statuses
const (
	AllocationActive   = "active"
	AllocationInactive = "inactive"
)

type (
	// Student is a roster entry. The PRN is the immutable identity; the roll
	// number is the division-scoped identifier batches are defined over.
	Student struct {
		PRN           string    `json:"prn" db:"prn"`
		RollNo        string    `json:"roll_no" db:"roll_no"`
		Name          string    `json:"name" db:"name"`
		Branch        string    `json:"branch" db:"branch"`
		YearOfStudy   string    `json:"year_of_study" db:"year_of_study"`
		Division      string    `json:"division" db:"division"`
		GuardianEmail string    `json:"guardian_email" db:"guardian_email"`
		GuardianPhone string    `json:"guardian_phone" db:"guardian_phone"`
		CreatedAt     time.Time `json:"created_at" db:"created_at"` // UTC
		UpdatedAt     time.Time `json:"updated_at" db:"updated_at"` // UTC
	}

	// BatchDefinition is a contiguous roll-number range within one
	// department/year/division. Ranges are compared on the modulo-1000
	// sequence of their bounds, so a definition stays valid across admission
	// years without being redefined.
	BatchDefinition struct {
		ID           string    `json:"id" db:"id"`
		Department   string    `json:"department" db:"department"`
		Class        string    `json:"class" db:"class"` // year of study; short code or full name
		Division     string    `json:"division" db:"division"`
		SubBatch     string    `json:"sub_batch" db:"sub_batch"` // e.g. "A1"; empty when the batch is the whole division
		RbtFrom      string    `json:"rbt_from" db:"rbt_from"`
		RbtTo        string    `json:"rbt_to" db:"rbt_to"`
		AcademicYear string    `json:"academic_year" db:"academic_year"`
		CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
		UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
	}

	// TeacherBatchConfig is a teacher's live batch allocation; at most one per
	// teacher. The range and scope fields are copies taken from the
	// BatchDefinition at assignment time and do not track later edits.
	TeacherBatchConfig struct {
		TeacherID         string    `json:"teacher_id" db:"teacher_id"`
		BatchDefinitionID string    `json:"batch_definition_id" db:"batch_definition_id"`
		RbtFrom           string    `json:"rbt_from" db:"rbt_from"`
		RbtTo             string    `json:"rbt_to" db:"rbt_to"`
		Department        string    `json:"department" db:"department"`
		Division          string    `json:"division" db:"division"`
		AcademicYear      string    `json:"academic_year" db:"academic_year"`
		Status            string    `json:"status" db:"status"`
		AssignedAt        time.Time `json:"assigned_at" db:"assigned_at"` // UTC
	}
)

// RollKey is the value batch ranges are matched against: the roll number,
// falling back to the PRN when the roster has no roll number yet.
func (s Student) RollKey() string {
	if s.RollNo != "" {
		return s.RollNo
	}
	return s.PRN
}

// Label is the display name of the batch: the sub-batch when set, the
// division otherwise.
func (b BatchDefinition) Label() string {
	if b.SubBatch != "" {
		return b.SubBatch
	}
	return b.Division
}

// NewStudent contains information needed to add a roster entry.
type NewStudent struct {
	PRN           string `json:"prn" validate:"required"`
	RollNo        string `json:"roll_no" validate:"omitempty,rollrange"`
	Name          string `json:"name" validate:"required"`
	Branch        string `json:"branch" validate:"required"`
	YearOfStudy   string `json:"year_of_study" validate:"required"`
	Division      string `json:"division" validate:"required"`
	GuardianEmail string `json:"guardian_email" validate:"omitempty,email"`
	GuardianPhone string `json:"guardian_phone"`
}

func (ns *NewStudent) Validate() error {
	ns.PRN = core.CleanString(ns.PRN)
	ns.RollNo = core.CleanString(ns.RollNo)
	ns.Name = core.CleanString(ns.Name)
	ns.Branch = core.CleanString(ns.Branch)
	ns.YearOfStudy = core.CleanString(ns.YearOfStudy)
	ns.Division = core.CleanString(ns.Division)
	ns.GuardianEmail = core.CleanString(ns.GuardianEmail, true /* lower */)
	return core.Validate.Struct(ns)
}

// NewBatchDefinition contains information needed to create a BatchDefinition.
// Both range ends must end in a digit run; nothing enforces from <= to — an
// inverted range is a configuration error that simply never matches.
type NewBatchDefinition struct {
	Department   string `json:"department" validate:"required"`
	Class        string `json:"class" validate:"required"`
	Division     string `json:"division" validate:"required"`
	SubBatch     string `json:"sub_batch"`
	RbtFrom      string `json:"rbt_from" validate:"required,rollrange"`
	RbtTo        string `json:"rbt_to" validate:"required,rollrange"`
	AcademicYear string `json:"academic_year" validate:"required"`
}

func (nb *NewBatchDefinition) Validate() error {
	nb.Department = core.CleanString(nb.Department)
	nb.Class = core.CleanString(nb.Class)
	nb.Division = core.CleanString(nb.Division)
	nb.SubBatch = core.CleanString(nb.SubBatch)
	nb.RbtFrom = core.CleanString(nb.RbtFrom)
	nb.RbtTo = core.CleanString(nb.RbtTo)
	nb.AcademicYear = core.CleanString(nb.AcademicYear)
	return core.Validate.Struct(nb)
}

// UpdateBatchDefinition defines what may be modified on an existing
// BatchDefinition. Live allocations keep their copied range (see
// TeacherBatchConfig).
type UpdateBatchDefinition struct {
	Department   string `json:"department"`
	Class        string `json:"class"`
	Division     string `json:"division"`
	SubBatch     string `json:"sub_batch"`
	RbtFrom      string `json:"rbt_from" validate:"omitempty,rollrange"`
	RbtTo        string `json:"rbt_to" validate:"omitempty,rollrange"`
	AcademicYear string `json:"academic_year"`
}

func (ub *UpdateBatchDefinition) Validate(orig BatchDefinition) error {
	fill := func(val *string, fallback string) {
		*val = core.CleanString(*val)
		if *val == "" {
			*val = fallback
		}
	}
	fill(&ub.Department, orig.Department)
	fill(&ub.Class, orig.Class)
	fill(&ub.Division, orig.Division)
	fill(&ub.RbtFrom, orig.RbtFrom)
	fill(&ub.RbtTo, orig.RbtTo)
	fill(&ub.AcademicYear, orig.AcademicYear)
	ub.SubBatch = core.CleanString(ub.SubBatch)
	if ub.SubBatch == "" {
		ub.SubBatch = orig.SubBatch
	}
	return core.Validate.Struct(ub)
}

// NewAllocation assigns a batch to a teacher, replacing any live allocation.
type NewAllocation struct {
	TeacherID         string `json:"teacher_id" validate:"required"`
	BatchDefinitionID string `json:"batch_definition_id" validate:"required"`
}

func (na *NewAllocation) Validate() error {
	na.TeacherID = core.CleanString(na.TeacherID)
	na.BatchDefinitionID = core.CleanString(na.BatchDefinitionID)
	return core.Validate.Struct(na)
}

// QueryFilter narrows roster queries; empty fields match everything.
type QueryFilter struct {
	Department string `query:"dept"`
	Year       string `query:"year"`
	Division   string `query:"div"`
	Search     string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Department == "" && qf.Year == "" && qf.Division == "" && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Department = core.CleanString(qf.Department)
	qf.Year = core.CleanString(qf.Year)
	qf.Division = core.CleanString(qf.Division)
	qf.Search = core.CleanString(qf.Search)
}
