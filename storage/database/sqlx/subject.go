package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/subject"
)

const selectSubject = `
SELECT id, name, code, COALESCE(description, '') AS description
FROM subject`

var (
	subjectOrderCols = map[string]string{
		"name": "name",
		"code": "code",
	}
	subjectDefaultOrder = "name ASC"

	subjectConstraints = map[string]error{
		"subject_name_key": core.NewConstraintError(
			subject.ErrNameExists, core.FieldError{Field: "name", Error: subject.ErrNameExists.Error()}),
		"subject_code_key": core.NewConstraintError(
			subject.ErrCodeExists, core.FieldError{Field: "code", Error: subject.ErrCodeExists.Error()}),
	}
)

type dbSubject struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Code        string `db:"code"`
	Description string `db:"description"`
}

func (d dbSubject) toCore() subject.Subject {
	return subject.Subject(d)
}

type subjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sql.DB) *subjectRepository {
	return &subjectRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo subjectRepository) CheckSubjectUniqueness(ctx context.Context, name, code string, excludedSubjects ...subject.Subject) error {
	query := `SELECT name, code FROM subject WHERE (name = $1 OR code = $2)`
	args := []interface{}{name, code}
	if len(excludedSubjects) > 0 {
		ids := make([]string, 0, len(excludedSubjects))
		for _, sub := range excludedSubjects {
			ids = append(ids, sub.ID)
		}
		args = append(args, pq.Array(ids))
		query += fmt.Sprintf(" AND id::text <> ALL($%d)", len(args))
	}
	query += " LIMIT 1"

	var row struct {
		Name string `db:"name"`
		Code string `db:"code"`
	}
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return wrapDBErr(err, "checking subject uniqueness")
	}
	if row.Name == name {
		return subject.ErrNameExists
	}
	return subject.ErrCodeExists
}

func (repo subjectRepository) CreateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	sub.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO subject (id, name, code, description) VALUES ($1, $2, $3, $4)`,
		sub.ID, sub.Name, sub.Code, nullString(sub.Description),
	)
	if err != nil {
		return subject.Subject{}, trapConstraintErr(err, subjectConstraints, "inserting subject")
	}
	return sub, nil
}

func (repo subjectRepository) QuerySubjects(ctx context.Context, filter *subject.QueryFilter, ordering []core.DBOrdering) ([]subject.Subject, error) {
	query := selectSubject
	var args []interface{}

	if filter != nil && filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += " WHERE " + searchClause(fmt.Sprintf("$%d", len(args)), "name", "code")
	}
	query += orderBy(ordering, subjectOrderCols, subjectDefaultOrder)

	var rows []dbSubject
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapDBErr(err, "querying subjects")
	}
	subjects := make([]subject.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row.toCore())
	}
	return subjects, nil
}

func (repo subjectRepository) GetSubjectByID(ctx context.Context, id string) (subject.Subject, error) {
	var row dbSubject
	if err := repo.db.GetContext(ctx, &row, selectSubject+" WHERE id::text = $1", id); err != nil {
		return subject.Subject{}, trapNoRowsErr(err, subject.ErrNotFound, "getting subject")
	}
	return row.toCore(), nil
}

func (repo subjectRepository) UpdateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE subject SET name = $1, code = $2, description = $3 WHERE id::text = $4`,
		sub.Name, sub.Code, nullString(sub.Description), sub.ID,
	)
	if err != nil {
		return subject.Subject{}, trapConstraintErr(err, subjectConstraints, "updating subject")
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return subject.Subject{}, subject.ErrNotFound
	}
	return sub, nil
}

func (repo subjectRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) error {
	// papers and their grades go with it (ON DELETE CASCADE)
	res, err := repo.db.ExecContext(ctx, `DELETE FROM subject WHERE id::text = ANY($1)`, pq.Array(ids))
	if err != nil {
		return wrapDBErr(err, "deleting subjects")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return subject.ErrNotFound
	}
	return nil
}
