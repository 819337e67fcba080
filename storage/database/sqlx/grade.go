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

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/grade"
)

const selectGrade = `
SELECT g.id, g.score, g.date_recorded, COALESCE(g.notes, '') AS notes,
       st.id AS "student.id", st.student_id AS "student.student_id",
       st.first_name AS "student.first_name", st.last_name AS "student.last_name",
       st.email AS "student.email", st.date_of_birth AS "student.date_of_birth",
       st.enrollment_date AS "student.enrollment_date",
       p.id AS "paper.id", p.name AS "paper.name", p.paper_type AS "paper.paper_type",
       p.total_score AS "paper.total_score", p.date_assigned AS "paper.date_assigned",
       s.id AS "paper.subject.id", s.name AS "paper.subject.name", s.code AS "paper.subject.code",
       COALESCE(s.description, '') AS "paper.subject.description"
FROM grade g
JOIN student st ON st.id = g.student_id
JOIN paper p ON p.id = g.paper_id
JOIN subject s ON s.id = p.subject_id`

var (
	gradeOrderCols = map[string]string{
		"student":       "st.last_name",
		"subject":       "s.name",
		"paper":         "p.name",
		"score":         "g.score",
		"date_recorded": "g.date_recorded",
	}
	gradeDefaultOrder = "st.last_name ASC, st.first_name ASC, s.name ASC, p.name ASC, g.date_recorded ASC"

	gradeConstraints = map[string]error{
		"grade_student_id_paper_id_key": core.NewConstraintError(
			grade.ErrGradeExists,
			core.FieldError{Field: "student_id", Error: grade.ErrGradeExists.Error()},
			core.FieldError{Field: "paper_id", Error: grade.ErrGradeExists.Error()}),
		"grade_student_id_fkey": core.NewValidationError(
			nil, core.FieldError{Field: "student_id", Error: "student not found"}),
		"grade_paper_id_fkey": core.NewValidationError(
			nil, core.FieldError{Field: "paper_id", Error: "paper not found"}),
	}
)

type dbGrade struct {
	ID           string       `db:"id"`
	Score        core.Decimal `db:"score"`
	DateRecorded time.Time    `db:"date_recorded"`
	Notes        string       `db:"notes"`
	Student      dbStudent    `db:"student"`
	Paper        dbPaper      `db:"paper"`
}

func (d dbGrade) toCore() grade.Grade {
	return grade.Grade{
		ID:           d.ID,
		Student:      d.Student.toCore(),
		Paper:        d.Paper.toCore(),
		Score:        d.Score,
		DateRecorded: core.NewDate(d.DateRecorded),
		Notes:        d.Notes,
	}
}

type gradeRepository struct {
	db *sqlx.DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *sql.DB) *gradeRepository {
	return &gradeRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo gradeRepository) CheckGradeUniqueness(ctx context.Context, studentID, paperID string, excludedGrades ...grade.Grade) error {
	query := `SELECT true FROM grade WHERE student_id::text = $1 AND paper_id::text = $2`
	args := []interface{}{studentID, paperID}
	if len(excludedGrades) > 0 {
		ids := make([]string, 0, len(excludedGrades))
		for _, grd := range excludedGrades {
			ids = append(ids, grd.ID)
		}
		args = append(args, pq.Array(ids))
		query += fmt.Sprintf(" AND id::text <> ALL($%d)", len(args))
	}
	query += " LIMIT 1"

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return wrapDBErr(err, "checking grade uniqueness")
	}
	return grade.ErrGradeExists
}

func (repo gradeRepository) CreateGrade(ctx context.Context, grd grade.Grade) (grade.Grade, error) {
	grd.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO grade (id, student_id, paper_id, score, date_recorded, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		grd.ID, grd.Student.ID, grd.Paper.ID, grd.Score, grd.DateRecorded.Time, nullString(grd.Notes),
	)
	if err != nil {
		return grade.Grade{}, trapConstraintErr(err, gradeConstraints, "inserting grade")
	}
	return repo.GetGradeByID(ctx, grd.ID)
}

func (repo gradeRepository) QueryGrades(ctx context.Context, filter *grade.QueryFilter, ordering []core.DBOrdering) ([]grade.Grade, error) {
	query := selectGrade
	var clauses []string
	var args []interface{}

	if filter != nil {
		if filter.StudentID != "" {
			args = append(args, filter.StudentID)
			clauses = append(clauses, fmt.Sprintf("st.id::text = $%d", len(args)))
		}
		if filter.PaperID != "" {
			args = append(args, filter.PaperID)
			clauses = append(clauses, fmt.Sprintf("p.id::text = $%d", len(args)))
		}
		if filter.SubjectID != "" {
			args = append(args, filter.SubjectID)
			clauses = append(clauses, fmt.Sprintf("s.id::text = $%d", len(args)))
		}
		if ptype := filter.PaperTypeFilter(); ptype != "" {
			args = append(args, ptype)
			clauses = append(clauses, fmt.Sprintf("p.paper_type = $%d", len(args)))
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += orderBy(ordering, gradeOrderCols, gradeDefaultOrder)

	var rows []dbGrade
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapDBErr(err, "querying grades")
	}
	grades := make([]grade.Grade, 0, len(rows))
	for _, row := range rows {
		grades = append(grades, row.toCore())
	}
	return grades, nil
}

func (repo gradeRepository) GetGradeByID(ctx context.Context, id string) (grade.Grade, error) {
	var row dbGrade
	if err := repo.db.GetContext(ctx, &row, selectGrade+" WHERE g.id::text = $1", id); err != nil {
		return grade.Grade{}, trapNoRowsErr(err, grade.ErrNotFound, "getting grade")
	}
	return row.toCore(), nil
}

func (repo gradeRepository) UpdateGrade(ctx context.Context, grd grade.Grade) (grade.Grade, error) {
	// date_recorded is deliberately left out; it is set once at creation
	res, err := repo.db.ExecContext(ctx,
		`UPDATE grade SET student_id = $1, paper_id = $2, score = $3, notes = $4 WHERE id::text = $5`,
		grd.Student.ID, grd.Paper.ID, grd.Score, nullString(grd.Notes), grd.ID,
	)
	if err != nil {
		return grade.Grade{}, trapConstraintErr(err, gradeConstraints, "updating grade")
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return grade.Grade{}, grade.ErrNotFound
	}
	return repo.GetGradeByID(ctx, grd.ID)
}

func (repo gradeRepository) DeleteGradesByID(ctx context.Context, ids ...string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM grade WHERE id::text = ANY($1)`, pq.Array(ids))
	if err != nil {
		return wrapDBErr(err, "deleting grades")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return grade.ErrNotFound
	}
	return nil
}
