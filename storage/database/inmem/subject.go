package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/subject"
)

type subjectRepository struct {
	db *DB
}

var _ subject.Repository = (*subjectRepository)(nil)

func NewSubjectRepository(db *DB) *subjectRepository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CheckSubjectUniqueness(_ context.Context, name, code string, excludedSubjects ...subject.Subject) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := make(map[string]bool, len(excludedSubjects))
	for _, sub := range excludedSubjects {
		excluded[sub.ID] = true
	}
	for _, sub := range repo.db.subjects {
		if excluded[sub.ID] {
			continue
		}
		if sub.Name == name {
			return subject.ErrNameExists
		}
		if sub.Code == code {
			return subject.ErrCodeExists
		}
	}
	return nil
}

func (repo *subjectRepository) CreateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sub.ID = uuid.New().String()
	repo.db.subjects[sub.ID] = sub
	return sub, nil
}

func (repo *subjectRepository) QuerySubjects(_ context.Context, filter *subject.QueryFilter, ordering []core.DBOrdering) ([]subject.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subjects := make([]subject.Subject, 0, len(repo.db.subjects))
	for _, sub := range repo.db.subjects {
		if filter != nil && filter.Search != "" && !contains(filter.Search, sub.Name, sub.Code) {
			continue
		}
		subjects = append(subjects, sub)
	}
	sortSubjects(subjects, ordering)
	return subjects, nil
}

func (repo *subjectRepository) GetSubjectByID(_ context.Context, id string) (subject.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sub, ok := repo.db.subjects[id]; ok {
		return sub, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) UpdateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.subjects[sub.ID]; !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	repo.db.subjects[sub.ID] = sub
	return sub, nil
}

func (repo *subjectRepository) DeleteSubjectsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var deleted bool
	for _, id := range ids {
		if _, ok := repo.db.subjects[id]; !ok {
			continue
		}
		repo.db.deletePapersOfSubject(id) // cascade
		delete(repo.db.subjects, id)
		deleted = true
	}
	if !deleted {
		return subject.ErrNotFound
	}
	return nil
}

func compareSubjects(a, b subject.Subject, field string) int {
	switch field {
	case "name":
		return compareFold(a.Name, b.Name)
	case "code":
		return compareFold(a.Code, b.Code)
	}
	return 0
}

func sortSubjects(subjects []subject.Subject, ordering []core.DBOrdering) {
	sort.SliceStable(subjects, func(i, j int) bool {
		for _, ord := range ordering {
			if c := compareSubjects(subjects[i], subjects[j], ord.Field); c != 0 {
				if ord.Ascending {
					return c < 0
				}
				return c > 0
			}
		}
		return compareSubjects(subjects[i], subjects[j], "name") < 0
	})
}
