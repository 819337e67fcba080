package subject

import (
	"context"

	"github.com/trezcool/daftari/core"
)

type Subject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name        string `json:"name" validate:"required,max=100"`
	Code        string `json:"code" validate:"required,max=10,alphanum_"`
	Description string `json:"description"`
}

func (ns *NewSubject) Validate(ctx context.Context, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = core.CleanString(ns.Code)
	ns.Description = core.CleanString(ns.Description)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ns.Name, ns.Code)
}

// UpdateSubject defines what information may be provided to modify an existing
// Subject. Absent fields keep their stored values.
type UpdateSubject struct {
	Name        string  `json:"name" validate:"omitempty,max=100"`
	Code        string  `json:"code" validate:"omitempty,max=10,alphanum_"`
	Description *string `json:"description"`
}

func (us *UpdateSubject) Validate(ctx context.Context, origSub Subject, svc *Service) error {
	name := core.CleanString(us.Name)
	if name != "" {
		us.Name = name
	} else {
		us.Name = origSub.Name
	}

	code := core.CleanString(us.Code)
	if code != "" {
		us.Code = code
	} else {
		us.Code = origSub.Code
	}

	if us.Description == nil {
		us.Description = &origSub.Description
	}

	if err := core.Validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, us.Name, us.Code, origSub)
}

// QueryFilter's Search does a case-insensitive substring match on Name or Code.
type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
