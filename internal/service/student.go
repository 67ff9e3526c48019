package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/report"
	"github.com/vietanh2810/school-portal-api/internal/repository"
)

var (
	ErrStudentNotFound       = repository.ErrStudentNotFound
	ErrAdmissionNumberExists = repository.ErrAdmissionNumberExists
)

type StudentRepository interface {
	Create(ctx context.Context, student domain.Student) (domain.Student, error)
	FindByID(ctx context.Context, id uint) (domain.Student, error)
	FindByAdmissionNumber(ctx context.Context, admissionNumber string) (domain.Student, error)
	List(ctx context.Context, filter domain.StudentFilter) ([]domain.Student, int64, error)
	Update(ctx context.Context, student domain.Student) (domain.Student, error)
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[domain.StudentStatus]int64, error)
}

type StudentService struct {
	repo StudentRepository
}

func NewStudentService(repo StudentRepository) *StudentService {
	return &StudentService{
		repo: repo,
	}
}

func (s *StudentService) Create(ctx context.Context, student domain.Student) (domain.Student, error) {
	student = normalizeStudent(student)

	created, err := s.repo.Create(ctx, student)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *StudentService) Get(ctx context.Context, id uint) (domain.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return student, nil
}

func (s *StudentService) List(ctx context.Context, filter domain.StudentFilter) ([]domain.Student, int64, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return students, total, nil
}

func (s *StudentService) Update(ctx context.Context, student domain.Student) (domain.Student, error) {
	student = normalizeStudent(student)

	updated, err := s.repo.Update(ctx, student)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *StudentService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// Import creates every valid row and reports the rest; one bad row never
// aborts the batch.
func (s *StudentService) Import(ctx context.Context, rows []report.StudentRow) (domain.StudentImport, error) {
	var summary domain.StudentImport

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		student := normalizeStudent(row.Student)

		msg := ""
		switch {
		case row.Err != nil:
			msg = row.Err.Error()
		case student.AdmissionNumber == "" || student.FirstName == "" ||
			student.LastName == "" || student.ClassName == "":
			msg = "admission number, first name, last name and class are required"
		case !student.Status.Valid():
			msg = fmt.Sprintf("invalid status %q", student.Status)
		}
		if msg == "" {
			_, err := s.Create(ctx, student)
			switch {
			case err == nil:
				summary.Imported++
				continue
			case errors.Is(err, ErrAdmissionNumberExists):
				msg = "admission number already exists"
			default:
				return summary, fmt.Errorf("s.Create row %d -> %w", row.Row, err)
			}
		}

		summary.Skipped++
		summary.Errors = append(summary.Errors, domain.ImportError{Row: row.Row, Message: msg})
	}

	return summary, nil
}

func normalizeStudent(student domain.Student) domain.Student {
	student.AdmissionNumber = strings.TrimSpace(student.AdmissionNumber)
	student.FirstName = strings.TrimSpace(student.FirstName)
	student.MiddleName = strings.TrimSpace(student.MiddleName)
	student.LastName = strings.TrimSpace(student.LastName)
	student.ClassName = strings.TrimSpace(student.ClassName)
	student.Email = normalizeEmail(student.Email)
	student.GuardianEmail = normalizeEmail(student.GuardianEmail)
	if student.Status == "" {
		student.Status = domain.StudentActive
	}

	return student
}
