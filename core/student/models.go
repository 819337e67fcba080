package student

import (
	"context"
	"encoding/json"

	"github.com/trezcool/daftari/core"
)

type Student struct {
	ID             string     `json:"id"`
	StudentID      string     `json:"student_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	DateOfBirth    *core.Date `json:"date_of_birth"`
	EnrollmentDate core.Date  `json:"enrollment_date"` // set on creation; immutable
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// MarshalJSON adds the derived read-only full_name field; it is recomputed on
// every read and never stored.
func (s Student) MarshalJSON() ([]byte, error) {
	type alias Student
	return json.Marshal(struct {
		alias
		FullName string `json:"full_name"`
	}{alias(s), s.FullName()})
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	StudentID   string     `json:"student_id" validate:"required,max=20,alphanum_"`
	FirstName   string     `json:"first_name" validate:"required,max=100"`
	LastName    string     `json:"last_name" validate:"required,max=100"`
	Email       string     `json:"email" validate:"required,max=254,email"`
	DateOfBirth *core.Date `json:"date_of_birth"`
}

func (ns *NewStudent) Validate(ctx context.Context, svc *Service) error {
	ns.StudentID = core.CleanString(ns.StudentID)
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ns.StudentID, ns.Email)
}

// UpdateStudent defines what information may be provided to modify an existing
// Student. Absent fields keep their stored values.
type UpdateStudent struct {
	StudentID   string     `json:"student_id" validate:"omitempty,max=20,alphanum_"`
	FirstName   string     `json:"first_name" validate:"omitempty,max=100"`
	LastName    string     `json:"last_name" validate:"omitempty,max=100"`
	Email       string     `json:"email" validate:"omitempty,max=254,email"`
	DateOfBirth *core.Date `json:"date_of_birth"`
}

func (us *UpdateStudent) Validate(ctx context.Context, origStd Student, svc *Service) error {
	sid := core.CleanString(us.StudentID)
	if sid != "" {
		us.StudentID = sid
	} else {
		us.StudentID = origStd.StudentID
	}

	fname := core.CleanString(us.FirstName)
	if fname != "" {
		us.FirstName = fname
	} else {
		us.FirstName = origStd.FirstName
	}

	lname := core.CleanString(us.LastName)
	if lname != "" {
		us.LastName = lname
	} else {
		us.LastName = origStd.LastName
	}

	email := core.CleanString(us.Email, true /* lower */)
	if email != "" {
		us.Email = email
	} else {
		us.Email = origStd.Email
	}

	if us.DateOfBirth == nil {
		us.DateOfBirth = origStd.DateOfBirth
	}

	if err := core.Validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, us.StudentID, us.Email, origStd)
}

// QueryFilter applies an AND operation on its available fields.
// Search does a case-insensitive substring match on any of StudentID,
// FirstName, LastName or Email.
type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
