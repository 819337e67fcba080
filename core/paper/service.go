package paper

import (
	"context"
	"errors"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/subject"
)

var (
	// errors
	ErrNotFound    = errors.New("paper not found")
	ErrPaperExists = errors.New("a paper with this name and type already exists for this subject")
)

type (
	Repository interface {
		CheckPaperUniqueness(ctx context.Context, name, subjectID, paperType string, excludedPapers ...Paper) error
		CreatePaper(ctx context.Context, ppr Paper) (Paper, error)
		// QueryPapers applies an AND operation on available QueryFilter fields,
		// ordered by subject name, paper type then paper name unless overridden.
		// The owning Subject is embedded in each result.
		QueryPapers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Paper, error)
		GetPaperByID(ctx context.Context, id string) (Paper, error)
		UpdatePaper(ctx context.Context, ppr Paper) (Paper, error)
		// DeletePapersByID cascades to the papers' grades.
		DeletePapersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo       Repository
		subjectSvc *subject.Service
	}
)

func NewService(repo Repository, subjectSvc *subject.Service) *Service {
	return &Service{repo: repo, subjectSvc: subjectSvc}
}

func (svc *Service) CheckUniqueness(ctx context.Context, name, subjectID, paperType string, exclPprs ...Paper) error {
	if err := svc.repo.CheckPaperUniqueness(ctx, name, subjectID, paperType, exclPprs...); err != nil {
		if err == ErrPaperExists {
			return core.NewConstraintError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, np NewPaper) (Paper, error) {
	ppr := Paper{
		Name:         np.Name,
		PaperType:    np.PaperType,
		Subject:      subject.Subject{ID: np.SubjectID},
		TotalScore:   *np.TotalScore,
		DateAssigned: core.Today(),
	}
	return svc.repo.CreatePaper(ctx, ppr)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Paper, error) {
	return svc.repo.QueryPapers(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Paper, error) {
	return svc.repo.GetPaperByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, origPpr Paper, up UpdatePaper) (Paper, error) {
	ppr := Paper{
		ID:           origPpr.ID,
		Name:         up.Name,
		PaperType:    up.PaperType,
		Subject:      subject.Subject{ID: up.SubjectID},
		TotalScore:   *up.TotalScore,
		DateAssigned: origPpr.DateAssigned, // system-assigned; never client-settable
	}
	return svc.repo.UpdatePaper(ctx, ppr)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeletePapersByID(ctx, ids...)
}
