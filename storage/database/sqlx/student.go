package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/student"
)

const selectStudent = `
SELECT id, student_id, first_name, last_name, email, date_of_birth, enrollment_date
FROM student`

var (
	studentOrderCols = map[string]string{
		"student_id":      "student_id",
		"first_name":      "first_name",
		"last_name":       "last_name",
		"email":           "email",
		"date_of_birth":   "date_of_birth",
		"enrollment_date": "enrollment_date",
	}
	studentDefaultOrder = "last_name ASC, first_name ASC"

	studentConstraints = map[string]error{
		"student_student_id_key": core.NewConstraintError(
			student.ErrStudentIDExists, core.FieldError{Field: "student_id", Error: student.ErrStudentIDExists.Error()}),
		"student_email_key": core.NewConstraintError(
			student.ErrEmailExists, core.FieldError{Field: "email", Error: student.ErrEmailExists.Error()}),
	}
)

type dbStudent struct {
	ID             string    `db:"id"`
	StudentID      string    `db:"student_id"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	Email          string    `db:"email"`
	DateOfBirth    null.Time `db:"date_of_birth"`
	EnrollmentDate time.Time `db:"enrollment_date"`
}

func (d dbStudent) toCore() student.Student {
	std := student.Student{
		ID:             d.ID,
		StudentID:      d.StudentID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		EnrollmentDate: core.NewDate(d.EnrollmentDate),
	}
	if d.DateOfBirth.Valid {
		dob := core.NewDate(d.DateOfBirth.Time)
		std.DateOfBirth = &dob
	}
	return std
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sql.DB) *studentRepository {
	return &studentRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo studentRepository) CheckStudentUniqueness(ctx context.Context, studentID, email string, excludedStudents ...student.Student) error {
	query := `SELECT student_id, email FROM student WHERE (student_id = $1 OR email = $2)`
	args := []interface{}{studentID, email}
	if len(excludedStudents) > 0 {
		ids := make([]string, 0, len(excludedStudents))
		for _, std := range excludedStudents {
			ids = append(ids, std.ID)
		}
		args = append(args, pq.Array(ids))
		query += fmt.Sprintf(" AND id::text <> ALL($%d)", len(args))
	}
	query += " LIMIT 1"

	var row struct {
		StudentID string `db:"student_id"`
		Email     string `db:"email"`
	}
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return wrapDBErr(err, "checking student uniqueness")
	}
	if row.StudentID == studentID {
		return student.ErrStudentIDExists
	}
	return student.ErrEmailExists
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO student (id, student_id, first_name, last_name, email, date_of_birth, enrollment_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		std.ID, std.StudentID, std.FirstName, std.LastName, std.Email, nullDate(std.DateOfBirth), std.EnrollmentDate.Time,
	)
	if err != nil {
		return student.Student{}, trapConstraintErr(err, studentConstraints, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	query := selectStudent
	var args []interface{}

	if filter != nil && filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		p := fmt.Sprintf("$%d", len(args))
		query += " WHERE " + fmt.Sprintf(
			"(first_name ILIKE %[1]s OR last_name ILIKE %[1]s OR student_id ILIKE %[1]s OR email ILIKE %[1]s)", p)
	}
	query += orderBy(ordering, studentOrderCols, studentDefaultOrder)

	var rows []dbStudent
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapDBErr(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toCore())
	}
	return students, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var row dbStudent
	if err := repo.db.GetContext(ctx, &row, selectStudent+" WHERE id::text = $1", id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student")
	}
	return row.toCore(), nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	// enrollment_date is deliberately left out; it is set once at creation
	res, err := repo.db.ExecContext(ctx,
		`UPDATE student SET student_id = $1, first_name = $2, last_name = $3, email = $4, date_of_birth = $5
		 WHERE id::text = $6`,
		std.StudentID, std.FirstName, std.LastName, std.Email, nullDate(std.DateOfBirth), std.ID,
	)
	if err != nil {
		return student.Student{}, trapConstraintErr(err, studentConstraints, "updating student")
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudentByID(ctx, std.ID)
}

func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE id::text = ANY($1)`, pq.Array(ids))
	if err != nil {
		return wrapDBErr(err, "deleting students")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}

// searchClause builds an OR of ILIKE matches over cols against the same
// placeholder; shared by the repos that search across joined tables.
func searchClause(p string, cols ...string) string {
	terms := make([]string, 0, len(cols))
	for _, col := range cols {
		terms = append(terms, col+" ILIKE "+p)
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}
