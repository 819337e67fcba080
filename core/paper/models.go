package paper

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/subject"
)

// Paper types
const (
	TypeActivity = "activity"
	TypeQuiz     = "quiz"
	TypeExam     = "exam"
)

var Types = []string{TypeActivity, TypeQuiz, TypeExam}

type Paper struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	PaperType    string          `json:"paper_type"`
	Subject      subject.Subject `json:"subject"`
	TotalScore   core.Decimal    `json:"total_score"`
	DateAssigned core.Date       `json:"date_assigned"` // set on creation; immutable
}

// NewPaper contains information needed to create a new Paper. The owning
// subject is referenced by id; the full object is only ever embedded on reads.
type NewPaper struct {
	Name       string        `json:"name" validate:"required,max=200"`
	PaperType  string        `json:"paper_type" validate:"required,papertype"`
	SubjectID  string        `json:"subject_id" validate:"required"`
	TotalScore *core.Decimal `json:"total_score" validate:"required"`
}

func (np *NewPaper) Validate(ctx context.Context, svc *Service) error {
	np.Name = core.CleanString(np.Name)
	np.PaperType = core.CleanString(np.PaperType, true /* lower */)
	np.SubjectID = core.CleanString(np.SubjectID)

	if err := core.Validate.Struct(np); err != nil {
		return err
	}
	if fldErr := core.CheckNumeric("total_score", *np.TotalScore); fldErr != nil {
		return core.NewValidationError(nil, *fldErr)
	}
	if err := svc.CheckSubjectRef(ctx, np.SubjectID); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, np.Name, np.SubjectID, np.PaperType)
}

// UpdatePaper defines what information may be provided to modify an existing
// Paper. Absent fields keep their stored values.
type UpdatePaper struct {
	Name       string        `json:"name" validate:"omitempty,max=200"`
	PaperType  string        `json:"paper_type" validate:"omitempty,papertype"`
	SubjectID  string        `json:"subject_id"`
	TotalScore *core.Decimal `json:"total_score"`
}

func (up *UpdatePaper) Validate(ctx context.Context, origPpr Paper, svc *Service) error {
	name := core.CleanString(up.Name)
	if name != "" {
		up.Name = name
	} else {
		up.Name = origPpr.Name
	}

	ptype := core.CleanString(up.PaperType, true /* lower */)
	if ptype != "" {
		up.PaperType = ptype
	} else {
		up.PaperType = origPpr.PaperType
	}

	subID := core.CleanString(up.SubjectID)
	if subID != "" {
		up.SubjectID = subID
	} else {
		up.SubjectID = origPpr.Subject.ID
	}

	if up.TotalScore == nil {
		up.TotalScore = &origPpr.TotalScore
	}

	if err := core.Validate.Struct(up); err != nil {
		return err
	}
	if fldErr := core.CheckNumeric("total_score", *up.TotalScore); fldErr != nil {
		return core.NewValidationError(nil, *fldErr)
	}
	if up.SubjectID != origPpr.Subject.ID {
		if err := svc.CheckSubjectRef(ctx, up.SubjectID); err != nil {
			return err
		}
	}
	return svc.CheckUniqueness(ctx, up.Name, up.SubjectID, up.PaperType, origPpr)
}

// QueryFilter applies an AND operation on its available fields.
// Search does a case-insensitive substring match on any of the paper's Name,
// PaperType, subject Name or subject Code.
type QueryFilter struct {
	Search    string `query:"search"`
	SubjectID string `query:"subject_id"`
	PaperType string `query:"paper_type"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.SubjectID == "" && qf.PaperType == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.SubjectID = core.CleanString(qf.SubjectID)
	qf.PaperType = core.CleanString(qf.PaperType, true /* lower */)
}

// CheckSubjectRef fails with a ValidationError on "subject_id" if the
// referenced Subject does not exist.
func (svc *Service) CheckSubjectRef(ctx context.Context, subjectID string) error {
	if _, err := svc.subjectSvc.GetByID(ctx, subjectID); err != nil {
		if errors.Cause(err) == subject.ErrNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "subject_id", Error: subject.ErrNotFound.Error()})
		}
		return err
	}
	return nil
}
