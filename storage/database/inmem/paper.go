package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/paper"
)

type paperRepository struct {
	db *DB
}

var _ paper.Repository = (*paperRepository)(nil)

func NewPaperRepository(db *DB) *paperRepository {
	return &paperRepository{db: db}
}

func (repo *paperRepository) CheckPaperUniqueness(_ context.Context, name, subjectID, paperType string, excludedPapers ...paper.Paper) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := make(map[string]bool, len(excludedPapers))
	for _, ppr := range excludedPapers {
		excluded[ppr.ID] = true
	}
	for _, row := range repo.db.papers {
		if excluded[row.id] {
			continue
		}
		if row.name == name && row.subjectID == subjectID && row.paperType == paperType {
			return paper.ErrPaperExists
		}
	}
	return nil
}

func (repo *paperRepository) CreatePaper(_ context.Context, ppr paper.Paper) (paper.Paper, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	row := paperRow{
		id:           uuid.New().String(),
		name:         ppr.Name,
		paperType:    ppr.PaperType,
		subjectID:    ppr.Subject.ID,
		totalScore:   ppr.TotalScore,
		dateAssigned: ppr.DateAssigned,
	}
	repo.db.papers[row.id] = row
	return repo.db.assemblePaper(row), nil
}

func (repo *paperRepository) QueryPapers(_ context.Context, filter *paper.QueryFilter, ordering []core.DBOrdering) ([]paper.Paper, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	papers := make([]paper.Paper, 0, len(repo.db.papers))
	for _, row := range repo.db.papers {
		ppr := repo.db.assemblePaper(row)
		if filter != nil {
			if filter.Search != "" &&
				!contains(filter.Search, ppr.Name, ppr.PaperType, ppr.Subject.Name, ppr.Subject.Code) {
				continue
			}
			if filter.SubjectID != "" && ppr.Subject.ID != filter.SubjectID {
				continue
			}
			if filter.PaperType != "" && ppr.PaperType != filter.PaperType {
				continue
			}
		}
		papers = append(papers, ppr)
	}
	sortPapers(papers, ordering)
	return papers, nil
}

func (repo *paperRepository) GetPaperByID(_ context.Context, id string) (paper.Paper, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if row, ok := repo.db.papers[id]; ok {
		return repo.db.assemblePaper(row), nil
	}
	return paper.Paper{}, paper.ErrNotFound
}

func (repo *paperRepository) UpdatePaper(_ context.Context, ppr paper.Paper) (paper.Paper, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.papers[ppr.ID]
	if !ok {
		return paper.Paper{}, paper.ErrNotFound
	}
	row := paperRow{
		id:           ppr.ID,
		name:         ppr.Name,
		paperType:    ppr.PaperType,
		subjectID:    ppr.Subject.ID,
		totalScore:   ppr.TotalScore,
		dateAssigned: orig.dateAssigned, // set once at creation
	}
	repo.db.papers[row.id] = row
	return repo.db.assemblePaper(row), nil
}

func (repo *paperRepository) DeletePapersByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var deleted bool
	for _, id := range ids {
		if _, ok := repo.db.papers[id]; !ok {
			continue
		}
		repo.db.deleteGradesOfPaper(id) // cascade
		delete(repo.db.papers, id)
		deleted = true
	}
	if !deleted {
		return paper.ErrNotFound
	}
	return nil
}

func comparePapers(a, b paper.Paper, field string) int {
	switch field {
	case "name":
		return compareFold(a.Name, b.Name)
	case "paper_type":
		return compareFold(a.PaperType, b.PaperType)
	case "subject":
		return compareFold(a.Subject.Name, b.Subject.Name)
	case "total_score":
		return a.TotalScore.Cmp(b.TotalScore.Decimal)
	case "date_assigned":
		return compareFold(a.DateAssigned.String(), b.DateAssigned.String())
	}
	return 0
}

func sortPapers(papers []paper.Paper, ordering []core.DBOrdering) {
	sort.SliceStable(papers, func(i, j int) bool {
		for _, ord := range ordering {
			if c := comparePapers(papers[i], papers[j], ord.Field); c != 0 {
				if ord.Ascending {
					return c < 0
				}
				return c > 0
			}
		}
		for _, field := range []string{"subject", "paper_type", "name"} {
			if c := comparePapers(papers[i], papers[j], field); c != 0 {
				return c < 0
			}
		}
		return false
	})
}
