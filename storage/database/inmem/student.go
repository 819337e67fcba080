package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckStudentUniqueness(_ context.Context, studentID, email string, excludedStudents ...student.Student) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := make(map[string]bool, len(excludedStudents))
	for _, std := range excludedStudents {
		excluded[std.ID] = true
	}
	for _, std := range repo.db.students {
		if excluded[std.ID] {
			continue
		}
		if std.StudentID == studentID {
			return student.ErrStudentIDExists
		}
		if std.Email == email {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	std.ID = uuid.New().String()
	repo.db.students[std.ID] = std
	return std, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0, len(repo.db.students))
	for _, std := range repo.db.students {
		if filter != nil && filter.Search != "" &&
			!contains(filter.Search, std.FirstName, std.LastName, std.StudentID, std.Email) {
			continue
		}
		students = append(students, std)
	}
	sortStudents(students, ordering)
	return students, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.students[std.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	std.EnrollmentDate = orig.EnrollmentDate // set once at creation
	repo.db.students[std.ID] = std
	return std, nil
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var deleted bool
	for _, id := range ids {
		if _, ok := repo.db.students[id]; !ok {
			continue
		}
		for gid, row := range repo.db.grades { // cascade
			if row.studentID == id {
				delete(repo.db.grades, gid)
			}
		}
		delete(repo.db.students, id)
		deleted = true
	}
	if !deleted {
		return student.ErrNotFound
	}
	return nil
}

func compareStudents(a, b student.Student, field string) int {
	switch field {
	case "student_id":
		return compareFold(a.StudentID, b.StudentID)
	case "first_name":
		return compareFold(a.FirstName, b.FirstName)
	case "last_name":
		return compareFold(a.LastName, b.LastName)
	case "email":
		return compareFold(a.Email, b.Email)
	case "enrollment_date":
		return compareFold(a.EnrollmentDate.String(), b.EnrollmentDate.String())
	}
	return 0
}

func sortStudents(students []student.Student, ordering []core.DBOrdering) {
	sort.SliceStable(students, func(i, j int) bool {
		for _, ord := range ordering {
			if c := compareStudents(students[i], students[j], ord.Field); c != 0 {
				if ord.Ascending {
					return c < 0
				}
				return c > 0
			}
		}
		if c := compareStudents(students[i], students[j], "last_name"); c != 0 {
			return c < 0
		}
		return compareStudents(students[i], students[j], "first_name") < 0
	})
}
