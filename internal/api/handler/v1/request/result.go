package request

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/grading"
)

var errDaysPresent = errors.New("days present cannot exceed days opened")

type SubjectScoreRequest struct {
	Subject string  `json:"subject"`
	CA1     float64 `json:"ca1"`
	CA2     float64 `json:"ca2"`
	Exam    float64 `json:"exam"`
}

func (req SubjectScoreRequest) Validate() error {
	return validation.ValidateStruct(
		&req,
		validation.Field(&req.Subject, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.CA1, validation.Min(0.0), validation.Max(float64(grading.MaxCA1))),
		validation.Field(&req.CA2, validation.Min(0.0), validation.Max(float64(grading.MaxCA2))),
		validation.Field(&req.Exam, validation.Min(0.0), validation.Max(float64(grading.MaxExam))),
	)
}

type ResultRequest struct {
	StudentID        uint                  `json:"student_id"`
	ClassName        string                `json:"class_name"`
	Session          string                `json:"session" example:"2024/2025"`
	Term             string                `json:"term" example:"First Term"`
	Subjects         []SubjectScoreRequest `json:"subjects"`
	TeacherComment   string                `json:"teacher_comment"`
	PrincipalComment string                `json:"principal_comment"`
	DaysPresent      int                   `json:"days_present"`
	DaysOpened       int                   `json:"days_opened"`
	NextTermBegins   string                `json:"next_term_begins" example:"2025-01-06"`
}

func (req *ResultRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.StudentID, validation.Required),
		validation.Field(&req.Session, validation.Required, validation.Match(sessionExp)),
		validation.Field(&req.Term, validation.Required, validation.In(termValues()...)),
		validation.Field(&req.Subjects, validation.Required),
		validation.Field(&req.TeacherComment, validation.Length(0, 500)),
		validation.Field(&req.PrincipalComment, validation.Length(0, 500)),
		validation.Field(&req.DaysPresent, validation.Min(0)),
		validation.Field(&req.DaysOpened, validation.Min(0)),
		validation.Field(&req.NextTermBegins, validation.Date(DateLayout)),
	)
	if err != nil {
		return err
	}

	for i, s := range req.Subjects {
		if err = s.Validate(); err != nil {
			return fmt.Errorf("subjects[%d]: %w", i, err)
		}
	}
	if req.DaysOpened > 0 && req.DaysPresent > req.DaysOpened {
		return errDaysPresent
	}

	return nil
}

func (req *ResultRequest) ToDomain() (domain.Result, error) {
	next, err := parseDate(req.NextTermBegins)
	if err != nil {
		return domain.Result{}, err
	}

	subjects := make([]domain.SubjectScore, len(req.Subjects))
	for i, s := range req.Subjects {
		subjects[i] = domain.SubjectScore{Subject: s.Subject, CA1: s.CA1, CA2: s.CA2, Exam: s.Exam}
	}

	return domain.Result{
		StudentID:        req.StudentID,
		ClassName:        req.ClassName,
		Session:          req.Session,
		Term:             domain.Term(req.Term),
		Subjects:         subjects,
		TeacherComment:   req.TeacherComment,
		PrincipalComment: req.PrincipalComment,
		DaysPresent:      req.DaysPresent,
		DaysOpened:       req.DaysOpened,
		NextTermBegins:   next,
	}, nil
}

type ResultQuery struct {
	PageQuery
	StudentID uint   `form:"student_id"`
	ClassName string `form:"class_name"`
	Session   string `form:"session"`
	Term      string `form:"term"`
}

func (q ResultQuery) ToFilter() domain.ResultFilter {
	return domain.ResultFilter{
		StudentID: q.StudentID,
		ClassName: q.ClassName,
		Session:   q.Session,
		Term:      domain.Term(q.Term),
		Page:      q.ToPage(),
	}
}

// GroupQuery selects one class for a session, and optionally one term.
type GroupQuery struct {
	ClassName string `form:"class_name"`
	Session   string `form:"session"`
	Term      string `form:"term"`
}

func (q *GroupQuery) Validate(requireTerm bool) error {
	termRules := []validation.Rule{validation.In(termValues()...)}
	if requireTerm {
		termRules = append(termRules, validation.Required)
	}

	return validation.ValidateStruct(
		q,
		validation.Field(&q.ClassName, validation.Required),
		validation.Field(&q.Session, validation.Required, validation.Match(sessionExp)),
		validation.Field(&q.Term, termRules...),
	)
}
