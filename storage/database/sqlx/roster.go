package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/roster"
)

type rosterRepository struct {
	db *sqlx.DB
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *sqlx.DB) *rosterRepository {
	return &rosterRepository{db: db}
}

// studentRow mirrors the student table; the guardian contacts are optional.
type studentRow struct {
	PRN           string      `db:"prn"`
	RollNo        string      `db:"roll_no"`
	Name          string      `db:"name"`
	Branch        string      `db:"branch"`
	YearOfStudy   string      `db:"year_of_study"`
	Division      string      `db:"division"`
	GuardianEmail null.String `db:"guardian_email"`
	GuardianPhone null.String `db:"guardian_phone"`
	CreatedAt     null.Time   `db:"created_at"`
	UpdatedAt     null.Time   `db:"updated_at"`
}

func (repo rosterRepository) toStudentRow(st roster.Student) studentRow {
	return studentRow{
		PRN:           st.PRN,
		RollNo:        st.RollNo,
		Name:          st.Name,
		Branch:        st.Branch,
		YearOfStudy:   st.YearOfStudy,
		Division:      st.Division,
		GuardianEmail: null.NewString(st.GuardianEmail, st.GuardianEmail != ""),
		GuardianPhone: null.NewString(st.GuardianPhone, st.GuardianPhone != ""),
		CreatedAt:     null.NewTime(st.CreatedAt.UTC(), !st.CreatedAt.IsZero()),
		UpdatedAt:     null.NewTime(st.UpdatedAt.UTC(), !st.UpdatedAt.IsZero()),
	}
}

func (repo rosterRepository) fromStudentRow(row studentRow) roster.Student {
	return roster.Student{
		PRN:           row.PRN,
		RollNo:        row.RollNo,
		Name:          row.Name,
		Branch:        row.Branch,
		YearOfStudy:   row.YearOfStudy,
		Division:      row.Division,
		GuardianEmail: row.GuardianEmail.String,
		GuardianPhone: row.GuardianPhone.String,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}

func (repo rosterRepository) CreateStudent(ctx context.Context, st roster.Student) (roster.Student, error) {
	row := repo.toStudentRow(st)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO student (prn, roll_no, name, branch, year_of_study, division, guardian_email, guardian_phone, created_at, updated_at)
		VALUES (:prn, :roll_no, :name, :branch, :year_of_study, :division, :guardian_email, :guardian_phone, :created_at, :updated_at)`, row)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == "23505" {
			return roster.Student{}, roster.ErrStudentExists
		}
		return roster.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

func (repo rosterRepository) GetStudent(ctx context.Context, prn string) (roster.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE prn = $1`, prn); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return roster.Student{}, roster.ErrStudentNotFound
		}
		return roster.Student{}, errors.Wrap(err, "finding student")
	}
	return repo.fromStudentRow(row), nil
}

func (repo rosterRepository) QueryStudents(ctx context.Context, filter *roster.QueryFilter, ordering ...core.DBOrdering) ([]roster.Student, error) {
	q := `SELECT * FROM student`
	var conds []string
	var args []interface{}

	arg := func(val interface{}) string {
		args = append(args, val)
		return "$" + strconv.Itoa(len(args))
	}

	if filter != nil {
		if filter.Department != "" {
			conds = append(conds, "branch ILIKE "+arg(filter.Department))
		}
		if filter.Year != "" {
			conds = append(conds, "year_of_study ILIKE "+arg(filter.Year))
		}
		if filter.Division != "" {
			conds = append(conds, "division ILIKE "+arg(filter.Division))
		}
		// students with Name, RollNo or PRN matching the search keyword
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			conds = append(conds, "(name ILIKE "+p+" OR roll_no ILIKE "+p+" OR prn ILIKE "+p+")")
		}
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		q += " ORDER BY " + strings.Join(orderList, ", ")
	} else {
		q += " ORDER BY roll_no, prn"
	}

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]roster.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, repo.fromStudentRow(row))
	}
	return students, nil
}

func (repo rosterRepository) CreateBatchDefinition(ctx context.Context, def roster.BatchDefinition) (roster.BatchDefinition, error) {
	def.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO batch_definition (id, department, class, division, sub_batch, rbt_from, rbt_to, academic_year, created_at, updated_at)
		VALUES (:id, :department, :class, :division, :sub_batch, :rbt_from, :rbt_to, :academic_year, :created_at, :updated_at)`, def)
	if err != nil {
		return roster.BatchDefinition{}, errors.Wrap(err, "inserting batch definition")
	}
	return def, nil
}

func (repo rosterRepository) GetBatchDefinition(ctx context.Context, id string) (roster.BatchDefinition, error) {
	if _, err := uuid.Parse(id); err != nil {
		return roster.BatchDefinition{}, roster.ErrBatchNotFound
	}
	var def roster.BatchDefinition
	if err := repo.db.GetContext(ctx, &def, `SELECT * FROM batch_definition WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return roster.BatchDefinition{}, roster.ErrBatchNotFound
		}
		return roster.BatchDefinition{}, errors.Wrap(err, "finding batch definition")
	}
	return def, nil
}

func (repo rosterRepository) QueryBatchDefinitions(ctx context.Context, filter *roster.QueryFilter) ([]roster.BatchDefinition, error) {
	q := `SELECT * FROM batch_definition`
	var conds []string
	var args []interface{}

	arg := func(val interface{}) string {
		args = append(args, val)
		return "$" + strconv.Itoa(len(args))
	}

	if filter != nil {
		if filter.Department != "" {
			conds = append(conds, "department ILIKE "+arg(filter.Department))
		}
		if filter.Year != "" {
			conds = append(conds, "class ILIKE "+arg(filter.Year))
		}
		if filter.Division != "" {
			conds = append(conds, "division ILIKE "+arg(filter.Division))
		}
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY department, class, division, sub_batch"

	var defs []roster.BatchDefinition
	if err := repo.db.SelectContext(ctx, &defs, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying batch definitions")
	}
	return defs, nil
}

func (repo rosterRepository) UpdateBatchDefinition(ctx context.Context, def roster.BatchDefinition) (roster.BatchDefinition, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE batch_definition
		SET department = :department, class = :class, division = :division, sub_batch = :sub_batch,
		    rbt_from = :rbt_from, rbt_to = :rbt_to, academic_year = :academic_year, updated_at = :updated_at
		WHERE id = :id`, def)
	if err != nil {
		return roster.BatchDefinition{}, errors.Wrap(err, "updating batch definition")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return roster.BatchDefinition{}, roster.ErrBatchNotFound
	}
	return def, nil
}

func (repo rosterRepository) DeleteBatchDefinition(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM batch_definition WHERE id = $1`, id)
	return errors.Wrap(err, "deleting batch definition")
}

func (repo rosterRepository) UpsertAllocation(ctx context.Context, alloc roster.TeacherBatchConfig) (roster.TeacherBatchConfig, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO teacher_batch_config (teacher_id, batch_definition_id, rbt_from, rbt_to, department, division, academic_year, status, assigned_at)
		VALUES (:teacher_id, :batch_definition_id, :rbt_from, :rbt_to, :department, :division, :academic_year, :status, :assigned_at)
		ON CONFLICT (teacher_id) DO UPDATE
		SET batch_definition_id = EXCLUDED.batch_definition_id, rbt_from = EXCLUDED.rbt_from, rbt_to = EXCLUDED.rbt_to,
		    department = EXCLUDED.department, division = EXCLUDED.division, academic_year = EXCLUDED.academic_year,
		    status = EXCLUDED.status, assigned_at = EXCLUDED.assigned_at`, alloc)
	if err != nil {
		return roster.TeacherBatchConfig{}, errors.Wrap(err, "upserting allocation")
	}
	return alloc, nil
}

func (repo rosterRepository) GetAllocationByTeacher(ctx context.Context, teacherID string) (roster.TeacherBatchConfig, error) {
	var alloc roster.TeacherBatchConfig
	if err := repo.db.GetContext(ctx, &alloc, `SELECT * FROM teacher_batch_config WHERE teacher_id = $1`, teacherID); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return roster.TeacherBatchConfig{}, roster.ErrAllocationNotFound
		}
		return roster.TeacherBatchConfig{}, errors.Wrap(err, "finding allocation")
	}
	return alloc, nil
}

func (repo rosterRepository) QueryAllocations(ctx context.Context) ([]roster.TeacherBatchConfig, error) {
	var allocs []roster.TeacherBatchConfig
	if err := repo.db.SelectContext(ctx, &allocs, `SELECT * FROM teacher_batch_config ORDER BY assigned_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying allocations")
	}
	return allocs, nil
}

func (repo rosterRepository) DeactivateAllocationsForBatch(ctx context.Context, batchDefinitionID string) error {
	_, err := repo.db.ExecContext(ctx,
		`UPDATE teacher_batch_config SET status = $1 WHERE batch_definition_id = $2`,
		roster.AllocationInactive, batchDefinitionID)
	return errors.Wrap(err, "deactivating allocations")
}
