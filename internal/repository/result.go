package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/repository/dao"
)

var (
	ErrResultExists   = dao.ErrResultExists
	ErrResultNotFound = dao.ErrResultNotFound
)

type ResultDAO interface {
	Insert(ctx context.Context, result dao.Result) (dao.Result, error)
	FindByID(ctx context.Context, id uint) (dao.Result, error)
	FindByStudentSessionTerm(ctx context.Context, studentID uint, session, term string) (dao.Result, error)
	List(ctx context.Context, filter dao.ResultFilter) ([]dao.Result, int64, error)
	FindByClassSession(ctx context.Context, className, session string) ([]dao.Result, error)
	FindGroup(ctx context.Context, className, session, term string) ([]dao.Result, error)
	Update(ctx context.Context, result dao.Result) (dao.Result, error)
	Delete(ctx context.Context, id uint) error
	UpdateGroup(ctx context.Context, className, session, term string, fn func([]dao.Result)) error
	Count(ctx context.Context) (int64, error)
}

type ResultRepository struct {
	dao ResultDAO
}

func NewResultRepository(dao ResultDAO) *ResultRepository {
	return &ResultRepository{
		dao: dao,
	}
}

func (r *ResultRepository) Create(ctx context.Context, result domain.Result) (domain.Result, error) {
	created, err := r.dao.Insert(ctx, resultDomainToDao(result))
	if err != nil {
		return domain.Result{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return resultDaoToDomain(created), nil
}

func (r *ResultRepository) FindByID(ctx context.Context, id uint) (domain.Result, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Result{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return resultDaoToDomain(found), nil
}

func (r *ResultRepository) FindByStudentSessionTerm(ctx context.Context, studentID uint, session string, term domain.Term) (domain.Result, error) {
	found, err := r.dao.FindByStudentSessionTerm(ctx, studentID, session, string(term))
	if err != nil {
		return domain.Result{}, fmt.Errorf("r.dao.FindByStudentSessionTerm -> %w", err)
	}

	return resultDaoToDomain(found), nil
}

func (r *ResultRepository) List(ctx context.Context, filter domain.ResultFilter) ([]domain.Result, int64, error) {
	found, total, err := r.dao.List(ctx, dao.ResultFilter{
		StudentID: filter.StudentID,
		ClassName: filter.ClassName,
		Session:   filter.Session,
		Term:      string(filter.Term),
		Limit:     filter.Limit,
		Offset:    filter.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	return resultsDaoToDomain(found), total, nil
}

func (r *ResultRepository) FindByClassSession(ctx context.Context, className, session string) ([]domain.Result, error) {
	found, err := r.dao.FindByClassSession(ctx, className, session)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByClassSession -> %w", err)
	}

	return resultsDaoToDomain(found), nil
}

func (r *ResultRepository) FindGroup(ctx context.Context, className, session string, term domain.Term) ([]domain.Result, error) {
	found, err := r.dao.FindGroup(ctx, className, session, string(term))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindGroup -> %w", err)
	}

	return resultsDaoToDomain(found), nil
}

func (r *ResultRepository) Update(ctx context.Context, result domain.Result) (domain.Result, error) {
	updated, err := r.dao.Update(ctx, resultDomainToDao(result))
	if err != nil {
		return domain.Result{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return resultDaoToDomain(updated), nil
}

func (r *ResultRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

// RecomputeGroup loads a (class, session, term) group, lets assign rewrite
// the positions and saves them in one transaction.
func (r *ResultRepository) RecomputeGroup(ctx context.Context, className, session string, term domain.Term, assign func([]domain.Result)) error {
	err := r.dao.UpdateGroup(ctx, className, session, string(term), func(rows []dao.Result) {
		results := resultsDaoToDomain(rows)
		assign(results)

		for i := range rows {
			rows[i].Position = results[i].Position
			rows[i].OutOf = results[i].OutOf
			for j := range rows[i].Subjects {
				rows[i].Subjects[j].Position = results[i].Subjects[j].Position
			}
		}
	})
	if err != nil {
		return fmt.Errorf("r.dao.UpdateGroup -> %w", err)
	}

	return nil
}

func (r *ResultRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return total, nil
}

func resultDomainToDao(r domain.Result) dao.Result {
	subjects := make([]dao.SubjectScore, len(r.Subjects))
	for i, s := range r.Subjects {
		subjects[i] = dao.SubjectScore{
			ID:       s.ID,
			ResultID: r.ID,
			Subject:  s.Subject,
			CA1:      s.CA1,
			CA2:      s.CA2,
			Exam:     s.Exam,
			Total:    s.Total,
			Grade:    s.Grade,
			Remark:   s.Remark,
			Position: s.Position,
		}
	}

	return dao.Result{
		ID:               r.ID,
		StudentID:        r.StudentID,
		ClassName:        r.ClassName,
		Session:          r.Session,
		Term:             string(r.Term),
		Subjects:         subjects,
		TotalScore:       r.TotalScore,
		Average:          r.Average,
		GPA:              r.GPA,
		Grade:            r.Grade,
		Position:         r.Position,
		OutOf:            r.OutOf,
		TeacherComment:   r.TeacherComment,
		PrincipalComment: r.PrincipalComment,
		DaysPresent:      r.DaysPresent,
		DaysOpened:       r.DaysOpened,
		NextTermBegins:   r.NextTermBegins,
	}
}

func resultDaoToDomain(r dao.Result) domain.Result {
	subjects := make([]domain.SubjectScore, len(r.Subjects))
	for i, s := range r.Subjects {
		subjects[i] = domain.SubjectScore{
			ID:       s.ID,
			Subject:  s.Subject,
			CA1:      s.CA1,
			CA2:      s.CA2,
			Exam:     s.Exam,
			Total:    s.Total,
			Grade:    s.Grade,
			Remark:   s.Remark,
			Position: s.Position,
		}
	}

	result := domain.Result{
		ID:               r.ID,
		StudentID:        r.StudentID,
		ClassName:        r.ClassName,
		Session:          r.Session,
		Term:             domain.Term(r.Term),
		Subjects:         subjects,
		TotalScore:       r.TotalScore,
		Average:          r.Average,
		GPA:              r.GPA,
		Grade:            r.Grade,
		Position:         r.Position,
		OutOf:            r.OutOf,
		TeacherComment:   r.TeacherComment,
		PrincipalComment: r.PrincipalComment,
		DaysPresent:      r.DaysPresent,
		DaysOpened:       r.DaysOpened,
		NextTermBegins:   r.NextTermBegins,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.Student.ID != 0 {
		student := studentDaoToDomain(r.Student)
		result.Student = &student
	}

	return result
}

func resultsDaoToDomain(rows []dao.Result) []domain.Result {
	results := make([]domain.Result, len(rows))
	for i, r := range rows {
		results[i] = resultDaoToDomain(r)
	}

	return results
}
