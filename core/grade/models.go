package grade

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/paper"
	"github.com/trezcool/daftari/core/student"
)

type Grade struct {
	ID           string          `json:"id"`
	Student      student.Student `json:"student"`
	Paper        paper.Paper     `json:"paper"`
	Score        core.Decimal    `json:"score"`
	DateRecorded core.Date       `json:"date_recorded"` // set on creation; immutable
	Notes        string          `json:"notes"`
}

// NewGrade contains information needed to record a new Grade. Student and
// paper are referenced by id; the full objects are only ever embedded on reads.
// The score is deliberately not checked against the paper's total score
// (bonus points are a thing).
type NewGrade struct {
	StudentID string        `json:"student_id" validate:"required"`
	PaperID   string        `json:"paper_id" validate:"required"`
	Score     *core.Decimal `json:"score" validate:"required"`
	Notes     string        `json:"notes"`
}

func (ng *NewGrade) Validate(ctx context.Context, svc *Service) error {
	ng.StudentID = core.CleanString(ng.StudentID)
	ng.PaperID = core.CleanString(ng.PaperID)
	ng.Notes = core.CleanString(ng.Notes)

	if err := core.Validate.Struct(ng); err != nil {
		return err
	}
	if fldErr := core.CheckNumeric("score", *ng.Score); fldErr != nil {
		return core.NewValidationError(nil, *fldErr)
	}
	if err := svc.CheckRefs(ctx, ng.StudentID, ng.PaperID); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ng.StudentID, ng.PaperID)
}

// UpdateGrade defines what information may be provided to modify an existing
// Grade. Absent fields keep their stored values.
type UpdateGrade struct {
	StudentID string        `json:"student_id"`
	PaperID   string        `json:"paper_id"`
	Score     *core.Decimal `json:"score"`
	Notes     *string       `json:"notes"`
}

func (ug *UpdateGrade) Validate(ctx context.Context, origGrd Grade, svc *Service) error {
	sid := core.CleanString(ug.StudentID)
	if sid != "" {
		ug.StudentID = sid
	} else {
		ug.StudentID = origGrd.Student.ID
	}

	pid := core.CleanString(ug.PaperID)
	if pid != "" {
		ug.PaperID = pid
	} else {
		ug.PaperID = origGrd.Paper.ID
	}

	if ug.Score == nil {
		ug.Score = &origGrd.Score
	}
	if ug.Notes == nil {
		ug.Notes = &origGrd.Notes
	}

	if err := core.Validate.Struct(ug); err != nil {
		return err
	}
	if fldErr := core.CheckNumeric("score", *ug.Score); fldErr != nil {
		return core.NewValidationError(nil, *fldErr)
	}
	if ug.StudentID != origGrd.Student.ID || ug.PaperID != origGrd.Paper.ID {
		if err := svc.CheckRefs(ctx, ug.StudentID, ug.PaperID); err != nil {
			return err
		}
		return svc.CheckUniqueness(ctx, ug.StudentID, ug.PaperID, origGrd)
	}
	return nil
}

// QueryFilter applies an AND operation on its available fields; all are
// exact-match. SubjectID and PaperType filter on the grade's paper.
// GradeType is an alias the API exposes for PaperType; it wins if both are set.
type QueryFilter struct {
	StudentID string `query:"student_id"`
	PaperID   string `query:"paper_id"`
	SubjectID string `query:"subject_id"`
	GradeType string `query:"grade_type"`
	PaperType string `query:"paper_type"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == "" && qf.PaperID == "" && qf.SubjectID == "" && qf.PaperTypeFilter() == ""
}

func (qf *QueryFilter) Clean() {
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.PaperID = core.CleanString(qf.PaperID)
	qf.SubjectID = core.CleanString(qf.SubjectID)
	qf.GradeType = core.CleanString(qf.GradeType, true /* lower */)
	qf.PaperType = core.CleanString(qf.PaperType, true /* lower */)
}

// PaperTypeFilter resolves the grade_type/paper_type parameter aliasing.
func (qf *QueryFilter) PaperTypeFilter() string {
	if qf.GradeType != "" {
		return qf.GradeType
	}
	return qf.PaperType
}

// CheckRefs fails with a ValidationError identifying the offending field(s)
// if a referenced Student or Paper does not exist.
func (svc *Service) CheckRefs(ctx context.Context, studentID, paperID string) error {
	var fldErrs []core.FieldError
	if _, err := svc.studentSvc.GetByID(ctx, studentID); err != nil {
		if errors.Cause(err) != student.ErrNotFound {
			return err
		}
		fldErrs = append(fldErrs, core.FieldError{Field: "student_id", Error: student.ErrNotFound.Error()})
	}
	if _, err := svc.paperSvc.GetByID(ctx, paperID); err != nil {
		if errors.Cause(err) != paper.ErrNotFound {
			return err
		}
		fldErrs = append(fldErrs, core.FieldError{Field: "paper_id", Error: paper.ErrNotFound.Error()})
	}
	if len(fldErrs) > 0 {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}
