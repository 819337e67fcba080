package subject

import (
	"context"
	"errors"

	"github.com/trezcool/daftari/core"
)

var (
	// errors
	ErrNotFound   = errors.New("subject not found")
	ErrNameExists = errors.New("a subject with this name already exists")
	ErrCodeExists = errors.New("a subject with this code already exists")
)

type (
	Repository interface {
		CheckSubjectUniqueness(ctx context.Context, name, code string, excludedSubjects ...Subject) error
		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		QuerySubjects(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		UpdateSubject(ctx context.Context, sub Subject) (Subject, error)
		// DeleteSubjectsByID cascades to the subjects' papers and, transitively,
		// their grades.
		DeleteSubjectsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(ctx context.Context, name, code string, exclSubs ...Subject) error {
	if err := svc.repo.CheckSubjectUniqueness(ctx, name, code, exclSubs...); err != nil {
		var field string
		switch err {
		case ErrNameExists:
			field = "name"
		case ErrCodeExists:
			field = "code"
		default:
			return err
		}
		return core.NewConstraintError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	sub := Subject{
		Name:        ns.Name,
		Code:        ns.Code,
		Description: ns.Description,
	}
	return svc.repo.CreateSubject(ctx, sub)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubjectByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, origSub Subject, us UpdateSubject) (Subject, error) {
	sub := Subject{
		ID:   origSub.ID,
		Name: us.Name,
		Code: us.Code,
	}
	if us.Description != nil {
		sub.Description = *us.Description
	}
	return svc.repo.UpdateSubject(ctx, sub)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSubjectsByID(ctx, ids...)
}
