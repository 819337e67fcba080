package grade

import (
	"context"
	"errors"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/paper"
	"github.com/trezcool/daftari/core/student"
)

var (
	// errors
	ErrNotFound    = errors.New("grade not found")
	ErrGradeExists = errors.New("this student already has a grade for this paper")
)

type (
	Repository interface {
		CheckGradeUniqueness(ctx context.Context, studentID, paperID string, excludedGrades ...Grade) error
		CreateGrade(ctx context.Context, grd Grade) (Grade, error)
		// QueryGrades applies an AND operation on available QueryFilter fields,
		// ordered by student name, subject name, paper name then date recorded
		// unless overridden. Student and Paper are embedded in each result.
		QueryGrades(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Grade, error)
		GetGradeByID(ctx context.Context, id string) (Grade, error)
		UpdateGrade(ctx context.Context, grd Grade) (Grade, error)
		DeleteGradesByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo       Repository
		studentSvc *student.Service
		paperSvc   *paper.Service
	}
)

func NewService(repo Repository, studentSvc *student.Service, paperSvc *paper.Service) *Service {
	return &Service{repo: repo, studentSvc: studentSvc, paperSvc: paperSvc}
}

func (svc *Service) CheckUniqueness(ctx context.Context, studentID, paperID string, exclGrds ...Grade) error {
	if err := svc.repo.CheckGradeUniqueness(ctx, studentID, paperID, exclGrds...); err != nil {
		if err == ErrGradeExists {
			return core.NewConstraintError(err,
				core.FieldError{Field: "student_id", Error: err.Error()},
				core.FieldError{Field: "paper_id", Error: err.Error()},
			)
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ng NewGrade) (Grade, error) {
	grd := Grade{
		Student:      student.Student{ID: ng.StudentID},
		Paper:        paper.Paper{ID: ng.PaperID},
		Score:        *ng.Score,
		DateRecorded: core.Today(),
		Notes:        ng.Notes,
	}
	return svc.repo.CreateGrade(ctx, grd)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Grade, error) {
	return svc.repo.QueryGrades(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Grade, error) {
	return svc.repo.GetGradeByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, origGrd Grade, ug UpdateGrade) (Grade, error) {
	grd := Grade{
		ID:           origGrd.ID,
		Student:      student.Student{ID: ug.StudentID},
		Paper:        paper.Paper{ID: ug.PaperID},
		Score:        *ug.Score,
		DateRecorded: origGrd.DateRecorded, // system-assigned; never client-settable
		Notes:        *ug.Notes,
	}
	return svc.repo.UpdateGrade(ctx, grd)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteGradesByID(ctx, ids...)
}
