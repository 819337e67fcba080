package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/grade"
)

type gradeRepository struct {
	db *DB
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) CheckGradeUniqueness(_ context.Context, studentID, paperID string, excludedGrades ...grade.Grade) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := make(map[string]bool, len(excludedGrades))
	for _, grd := range excludedGrades {
		excluded[grd.ID] = true
	}
	for _, row := range repo.db.grades {
		if excluded[row.id] {
			continue
		}
		if row.studentID == studentID && row.paperID == paperID {
			return grade.ErrGradeExists
		}
	}
	return nil
}

func (repo *gradeRepository) CreateGrade(_ context.Context, grd grade.Grade) (grade.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	row := gradeRow{
		id:           uuid.New().String(),
		studentID:    grd.Student.ID,
		paperID:      grd.Paper.ID,
		score:        grd.Score,
		dateRecorded: grd.DateRecorded,
		notes:        grd.Notes,
	}
	repo.db.grades[row.id] = row
	return repo.db.assembleGrade(row), nil
}

func (repo *gradeRepository) QueryGrades(_ context.Context, filter *grade.QueryFilter, ordering []core.DBOrdering) ([]grade.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	grades := make([]grade.Grade, 0, len(repo.db.grades))
	for _, row := range repo.db.grades {
		grd := repo.db.assembleGrade(row)
		if filter != nil {
			if filter.StudentID != "" && grd.Student.ID != filter.StudentID {
				continue
			}
			if filter.PaperID != "" && grd.Paper.ID != filter.PaperID {
				continue
			}
			if filter.SubjectID != "" && grd.Paper.Subject.ID != filter.SubjectID {
				continue
			}
			if ptype := filter.PaperTypeFilter(); ptype != "" && grd.Paper.PaperType != ptype {
				continue
			}
		}
		grades = append(grades, grd)
	}
	sortGrades(grades, ordering)
	return grades, nil
}

func (repo *gradeRepository) GetGradeByID(_ context.Context, id string) (grade.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if row, ok := repo.db.grades[id]; ok {
		return repo.db.assembleGrade(row), nil
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) UpdateGrade(_ context.Context, grd grade.Grade) (grade.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.grades[grd.ID]
	if !ok {
		return grade.Grade{}, grade.ErrNotFound
	}
	row := gradeRow{
		id:           grd.ID,
		studentID:    grd.Student.ID,
		paperID:      grd.Paper.ID,
		score:        grd.Score,
		dateRecorded: orig.dateRecorded, // set once at creation
		notes:        grd.Notes,
	}
	repo.db.grades[row.id] = row
	return repo.db.assembleGrade(row), nil
}

func (repo *gradeRepository) DeleteGradesByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var deleted bool
	for _, id := range ids {
		if _, ok := repo.db.grades[id]; !ok {
			continue
		}
		delete(repo.db.grades, id)
		deleted = true
	}
	if !deleted {
		return grade.ErrNotFound
	}
	return nil
}

func compareGrades(a, b grade.Grade, field string) int {
	switch field {
	case "student":
		return compareFold(a.Student.LastName, b.Student.LastName)
	case "subject":
		return compareFold(a.Paper.Subject.Name, b.Paper.Subject.Name)
	case "paper":
		return compareFold(a.Paper.Name, b.Paper.Name)
	case "score":
		return a.Score.Cmp(b.Score.Decimal)
	case "date_recorded":
		return compareFold(a.DateRecorded.String(), b.DateRecorded.String())
	}
	return 0
}

func sortGrades(grades []grade.Grade, ordering []core.DBOrdering) {
	sort.SliceStable(grades, func(i, j int) bool {
		for _, ord := range ordering {
			if c := compareGrades(grades[i], grades[j], ord.Field); c != 0 {
				if ord.Ascending {
					return c < 0
				}
				return c > 0
			}
		}
		if c := compareFold(grades[i].Student.LastName, grades[j].Student.LastName); c != 0 {
			return c < 0
		}
		if c := compareFold(grades[i].Student.FirstName, grades[j].Student.FirstName); c != 0 {
			return c < 0
		}
		for _, field := range []string{"subject", "paper", "date_recorded"} {
			if c := compareGrades(grades[i], grades[j], field); c != 0 {
				return c < 0
			}
		}
		return false
	})
}
