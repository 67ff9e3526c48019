package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/grading"
	"github.com/vietanh2810/school-portal-api/internal/report"
	"github.com/vietanh2810/school-portal-api/internal/repository"
)

var (
	ErrResultNotFound   = repository.ErrResultNotFound
	ErrResultExists     = repository.ErrResultExists
	ErrDuplicateSubject = errors.New("subject listed more than once")
)

type ResultRepository interface {
	Create(ctx context.Context, result domain.Result) (domain.Result, error)
	FindByID(ctx context.Context, id uint) (domain.Result, error)
	FindByStudentSessionTerm(ctx context.Context, studentID uint, session string, term domain.Term) (domain.Result, error)
	List(ctx context.Context, filter domain.ResultFilter) ([]domain.Result, int64, error)
	FindByClassSession(ctx context.Context, className, session string) ([]domain.Result, error)
	FindGroup(ctx context.Context, className, session string, term domain.Term) ([]domain.Result, error)
	Update(ctx context.Context, result domain.Result) (domain.Result, error)
	Delete(ctx context.Context, id uint) error
	RecomputeGroup(ctx context.Context, className, session string, term domain.Term, assign func([]domain.Result)) error
	Count(ctx context.Context) (int64, error)
}

type SchoolInfoProvider interface {
	Get(ctx context.Context) (domain.SchoolInfo, error)
}

// ResultService grades results with one scheme and aggregates sessions with
// another; both come from configuration.
type ResultService struct {
	repo       ResultRepository
	students   StudentRepository
	school     SchoolInfoProvider
	scheme     grading.Scheme
	cumulative grading.Scheme
}

func NewResultService(
	repo ResultRepository,
	students StudentRepository,
	school SchoolInfoProvider,
	scheme, cumulative grading.Scheme,
) *ResultService {
	return &ResultService{
		repo:       repo,
		students:   students,
		school:     school,
		scheme:     scheme,
		cumulative: cumulative,
	}
}

func (s *ResultService) Scheme() grading.Scheme {
	return s.scheme
}

func (s *ResultService) Create(ctx context.Context, result domain.Result) (domain.Result, error) {
	student, err := s.students.FindByID(ctx, result.StudentID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("s.students.FindByID -> %w", err)
	}
	if err = s.prepare(&result, student); err != nil {
		return domain.Result{}, err
	}

	created, err := s.repo.Create(ctx, result)
	if err != nil {
		return domain.Result{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if err = s.recompute(ctx, created.ClassName, created.Session, created.Term); err != nil {
		return domain.Result{}, err
	}

	return s.Get(ctx, created.ID)
}

func (s *ResultService) Get(ctx context.Context, id uint) (domain.Result, error) {
	result, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Result{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return result, nil
}

func (s *ResultService) List(ctx context.Context, filter domain.ResultFilter) ([]domain.Result, int64, error) {
	results, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return results, total, nil
}

func (s *ResultService) Update(ctx context.Context, result domain.Result) (domain.Result, error) {
	existing, err := s.repo.FindByID(ctx, result.ID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	student, err := s.students.FindByID(ctx, result.StudentID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("s.students.FindByID -> %w", err)
	}
	if err = s.prepare(&result, student); err != nil {
		return domain.Result{}, err
	}

	updated, err := s.repo.Update(ctx, result)
	if err != nil {
		return domain.Result{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if err = s.recompute(ctx, updated.ClassName, updated.Session, updated.Term); err != nil {
		return domain.Result{}, err
	}
	if existing.ClassName != updated.ClassName || existing.Session != updated.Session || existing.Term != updated.Term {
		if err = s.recompute(ctx, existing.ClassName, existing.Session, existing.Term); err != nil {
			return domain.Result{}, err
		}
	}

	return s.Get(ctx, updated.ID)
}

func (s *ResultService) Delete(ctx context.Context, id uint) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return s.recompute(ctx, existing.ClassName, existing.Session, existing.Term)
}

// Cumulative ranks a class over the three terms of session.
func (s *ResultService) Cumulative(ctx context.Context, className, session string) ([]domain.CumulativeResult, error) {
	results, err := s.repo.FindByClassSession(ctx, className, session)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByClassSession -> %w", err)
	}

	return grading.Cumulative(s.cumulative, results), nil
}

// Broadsheet returns a term's class results with the overall grade taken
// from the cumulative scheme.
func (s *ResultService) Broadsheet(ctx context.Context, className, session string, term domain.Term) ([]domain.Result, error) {
	results, err := s.repo.FindGroup(ctx, className, session, term)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindGroup -> %w", err)
	}

	for i := range results {
		results[i].Grade = s.cumulative.Grade(results[i].Average)
	}

	return results, nil
}

// Sheet collects what a printed result needs.
func (s *ResultService) Sheet(ctx context.Context, id uint) (report.ResultSheet, error) {
	result, err := s.Get(ctx, id)
	if err != nil {
		return report.ResultSheet{}, err
	}

	return s.sheetFor(ctx, result)
}

func (s *ResultService) sheetFor(ctx context.Context, result domain.Result) (report.ResultSheet, error) {
	school, err := s.school.Get(ctx)
	if err != nil {
		return report.ResultSheet{}, fmt.Errorf("s.school.Get -> %w", err)
	}

	sheet := report.ResultSheet{School: school, Result: result}
	if result.Student != nil {
		sheet.Student = *result.Student
	} else {
		student, err := s.students.FindByID(ctx, result.StudentID)
		if err != nil {
			return report.ResultSheet{}, fmt.Errorf("s.students.FindByID -> %w", err)
		}
		sheet.Student = student
	}

	return sheet, nil
}

// prepare grades every subject and the overall result.
func (s *ResultService) prepare(result *domain.Result, student domain.Student) error {
	result.Session = strings.TrimSpace(result.Session)
	result.ClassName = strings.TrimSpace(result.ClassName)
	if result.ClassName == "" {
		result.ClassName = student.ClassName
	}

	seen := make(map[string]bool, len(result.Subjects))
	for i, sc := range result.Subjects {
		sc.Subject = strings.TrimSpace(sc.Subject)
		key := strings.ToLower(sc.Subject)
		if seen[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateSubject, sc.Subject)
		}
		seen[key] = true
		result.Subjects[i] = sc
	}
	s.scheme.Summarize(result)

	return nil
}

func (s *ResultService) recompute(ctx context.Context, className, session string, term domain.Term) error {
	if err := s.repo.RecomputeGroup(ctx, className, session, term, grading.AssignPositions); err != nil {
		return fmt.Errorf("s.repo.RecomputeGroup -> %w", err)
	}

	return nil
}
