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
	"github.com/trezcool/daftari/core/paper"
)

const selectPaper = `
SELECT p.id, p.name, p.paper_type, p.total_score, p.date_assigned,
       s.id AS "subject.id", s.name AS "subject.name", s.code AS "subject.code",
       COALESCE(s.description, '') AS "subject.description"
FROM paper p
JOIN subject s ON s.id = p.subject_id`

var (
	paperOrderCols = map[string]string{
		"name":          "p.name",
		"paper_type":    "p.paper_type",
		"subject":       "s.name",
		"total_score":   "p.total_score",
		"date_assigned": "p.date_assigned",
	}
	paperDefaultOrder = "s.name ASC, p.paper_type ASC, p.name ASC"

	paperConstraints = map[string]error{
		"paper_name_subject_id_paper_type_key": core.NewConstraintError(
			paper.ErrPaperExists, core.FieldError{Field: "name", Error: paper.ErrPaperExists.Error()}),
		"paper_subject_id_fkey": core.NewValidationError(
			nil, core.FieldError{Field: "subject_id", Error: "subject not found"}),
	}
)

type dbPaper struct {
	ID           string       `db:"id"`
	Name         string       `db:"name"`
	PaperType    string       `db:"paper_type"`
	TotalScore   core.Decimal `db:"total_score"`
	DateAssigned time.Time    `db:"date_assigned"`
	Subject      dbSubject    `db:"subject"`
}

func (d dbPaper) toCore() paper.Paper {
	return paper.Paper{
		ID:           d.ID,
		Name:         d.Name,
		PaperType:    d.PaperType,
		Subject:      d.Subject.toCore(),
		TotalScore:   d.TotalScore,
		DateAssigned: core.NewDate(d.DateAssigned),
	}
}

type paperRepository struct {
	db *sqlx.DB
}

var _ paper.Repository = (*paperRepository)(nil) // interface compliance check

func NewPaperRepository(db *sql.DB) *paperRepository {
	return &paperRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo paperRepository) CheckPaperUniqueness(ctx context.Context, name, subjectID, paperType string, excludedPapers ...paper.Paper) error {
	query := `SELECT true FROM paper WHERE name = $1 AND subject_id::text = $2 AND paper_type = $3`
	args := []interface{}{name, subjectID, paperType}
	if len(excludedPapers) > 0 {
		ids := make([]string, 0, len(excludedPapers))
		for _, ppr := range excludedPapers {
			ids = append(ids, ppr.ID)
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
		return wrapDBErr(err, "checking paper uniqueness")
	}
	return paper.ErrPaperExists
}

func (repo paperRepository) CreatePaper(ctx context.Context, ppr paper.Paper) (paper.Paper, error) {
	ppr.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO paper (id, name, paper_type, subject_id, total_score, date_assigned)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ppr.ID, ppr.Name, ppr.PaperType, ppr.Subject.ID, ppr.TotalScore, ppr.DateAssigned.Time,
	)
	if err != nil {
		return paper.Paper{}, trapConstraintErr(err, paperConstraints, "inserting paper")
	}
	return repo.GetPaperByID(ctx, ppr.ID)
}

func (repo paperRepository) QueryPapers(ctx context.Context, filter *paper.QueryFilter, ordering []core.DBOrdering) ([]paper.Paper, error) {
	query := selectPaper
	var clauses []string
	var args []interface{}

	if filter != nil {
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			clauses = append(clauses, searchClause(fmt.Sprintf("$%d", len(args)),
				"p.name", "p.paper_type", "s.name", "s.code"))
		}
		if filter.SubjectID != "" {
			args = append(args, filter.SubjectID)
			clauses = append(clauses, fmt.Sprintf("s.id::text = $%d", len(args)))
		}
		if filter.PaperType != "" {
			args = append(args, filter.PaperType)
			clauses = append(clauses, fmt.Sprintf("p.paper_type = $%d", len(args)))
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += orderBy(ordering, paperOrderCols, paperDefaultOrder)

	var rows []dbPaper
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapDBErr(err, "querying papers")
	}
	papers := make([]paper.Paper, 0, len(rows))
	for _, row := range rows {
		papers = append(papers, row.toCore())
	}
	return papers, nil
}

func (repo paperRepository) GetPaperByID(ctx context.Context, id string) (paper.Paper, error) {
	var row dbPaper
	if err := repo.db.GetContext(ctx, &row, selectPaper+" WHERE p.id::text = $1", id); err != nil {
		return paper.Paper{}, trapNoRowsErr(err, paper.ErrNotFound, "getting paper")
	}
	return row.toCore(), nil
}

func (repo paperRepository) UpdatePaper(ctx context.Context, ppr paper.Paper) (paper.Paper, error) {
	// date_assigned is deliberately left out; it is set once at creation
	res, err := repo.db.ExecContext(ctx,
		`UPDATE paper SET name = $1, paper_type = $2, subject_id = $3, total_score = $4 WHERE id::text = $5`,
		ppr.Name, ppr.PaperType, ppr.Subject.ID, ppr.TotalScore, ppr.ID,
	)
	if err != nil {
		return paper.Paper{}, trapConstraintErr(err, paperConstraints, "updating paper")
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return paper.Paper{}, paper.ErrNotFound
	}
	return repo.GetPaperByID(ctx, ppr.ID)
}

func (repo paperRepository) DeletePapersByID(ctx context.Context, ids ...string) error {
	// grades go with it (ON DELETE CASCADE)
	res, err := repo.db.ExecContext(ctx, `DELETE FROM paper WHERE id::text = ANY($1)`, pq.Array(ids))
	if err != nil {
		return wrapDBErr(err, "deleting papers")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return paper.ErrNotFound
	}
	return nil
}
