package student

import (
	"context"
	"errors"

	"github.com/trezcool/daftari/core"
)

var (
	// errors
	ErrNotFound        = errors.New("student not found")
	ErrStudentIDExists = errors.New("a student with this student ID already exists")
	ErrEmailExists     = errors.New("a student with this email already exists")
)

type (
	Repository interface {
		CheckStudentUniqueness(ctx context.Context, studentID, email string, excludedStudents ...Student) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		// QueryStudents applies an AND operation on available QueryFilter fields,
		// ordered by last name then first name unless overridden.
		QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		// DeleteStudentsByID cascades to the students' grades.
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(ctx context.Context, studentID, email string, exclStds ...Student) error {
	if err := svc.repo.CheckStudentUniqueness(ctx, studentID, email, exclStds...); err != nil {
		var field string
		switch err {
		case ErrStudentIDExists:
			field = "student_id"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewConstraintError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	std := Student{
		StudentID:      ns.StudentID,
		FirstName:      ns.FirstName,
		LastName:       ns.LastName,
		Email:          ns.Email,
		DateOfBirth:    ns.DateOfBirth,
		EnrollmentDate: core.Today(),
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, origStd Student, us UpdateStudent) (Student, error) {
	std := Student{
		ID:             origStd.ID,
		StudentID:      us.StudentID,
		FirstName:      us.FirstName,
		LastName:       us.LastName,
		Email:          us.Email,
		DateOfBirth:    us.DateOfBirth,
		EnrollmentDate: origStd.EnrollmentDate, // system-assigned; never client-settable
	}
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}
