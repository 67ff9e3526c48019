package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/repository/dao"
)

var (
	ErrAdmissionNumberExists = dao.ErrAdmissionNumberExists
	ErrStudentNotFound       = dao.ErrStudentNotFound
)

type StudentDAO interface {
	Insert(ctx context.Context, student dao.Student) (dao.Student, error)
	FindByID(ctx context.Context, id uint) (dao.Student, error)
	FindByAdmissionNumber(ctx context.Context, admissionNumber string) (dao.Student, error)
	List(ctx context.Context, filter dao.StudentFilter) ([]dao.Student, int64, error)
	Update(ctx context.Context, student dao.Student) (dao.Student, error)
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type StudentRepository struct {
	dao StudentDAO
}

func NewStudentRepository(dao StudentDAO) *StudentRepository {
	return &StudentRepository{
		dao: dao,
	}
}

func (r *StudentRepository) Create(ctx context.Context, student domain.Student) (domain.Student, error) {
	created, err := r.dao.Insert(ctx, studentDomainToDao(student))
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return studentDaoToDomain(created), nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id uint) (domain.Student, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return studentDaoToDomain(found), nil
}

func (r *StudentRepository) FindByAdmissionNumber(ctx context.Context, admissionNumber string) (domain.Student, error) {
	found, err := r.dao.FindByAdmissionNumber(ctx, admissionNumber)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.FindByAdmissionNumber -> %w", err)
	}

	return studentDaoToDomain(found), nil
}

func (r *StudentRepository) List(ctx context.Context, filter domain.StudentFilter) ([]domain.Student, int64, error) {
	found, total, err := r.dao.List(ctx, dao.StudentFilter{
		ClassName: filter.ClassName,
		Status:    string(filter.Status),
		Search:    filter.Search,
		Limit:     filter.Limit,
		Offset:    filter.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	students := make([]domain.Student, len(found))
	for i, s := range found {
		students[i] = studentDaoToDomain(s)
	}

	return students, total, nil
}

func (r *StudentRepository) Update(ctx context.Context, student domain.Student) (domain.Student, error) {
	updated, err := r.dao.Update(ctx, studentDomainToDao(student))
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return studentDaoToDomain(updated), nil
}

func (r *StudentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *StudentRepository) CountByStatus(ctx context.Context) (map[domain.StudentStatus]int64, error) {
	counts, err := r.dao.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountByStatus -> %w", err)
	}

	byStatus := make(map[domain.StudentStatus]int64, len(domain.StudentStatuses))
	for _, status := range domain.StudentStatuses {
		byStatus[status] = counts[string(status)]
	}

	return byStatus, nil
}

func studentDomainToDao(s domain.Student) dao.Student {
	return dao.Student{
		ID:                   s.ID,
		AdmissionNumber:      s.AdmissionNumber,
		FirstName:            s.FirstName,
		MiddleName:           s.MiddleName,
		LastName:             s.LastName,
		Gender:               s.Gender,
		DateOfBirth:          s.DateOfBirth,
		ClassName:            s.ClassName,
		Email:                s.Email,
		Phone:                s.Phone,
		Address:              s.Address,
		GuardianName:         s.GuardianName,
		GuardianPhone:        s.GuardianPhone,
		GuardianEmail:        s.GuardianEmail,
		GuardianRelationship: s.GuardianRelationship,
		Status:               string(s.Status),
	}
}

func studentDaoToDomain(s dao.Student) domain.Student {
	return domain.Student{
		ID:                   s.ID,
		AdmissionNumber:      s.AdmissionNumber,
		FirstName:            s.FirstName,
		MiddleName:           s.MiddleName,
		LastName:             s.LastName,
		Gender:               s.Gender,
		DateOfBirth:          s.DateOfBirth,
		ClassName:            s.ClassName,
		Email:                s.Email,
		Phone:                s.Phone,
		Address:              s.Address,
		GuardianName:         s.GuardianName,
		GuardianPhone:        s.GuardianPhone,
		GuardianEmail:        s.GuardianEmail,
		GuardianRelationship: s.GuardianRelationship,
		Status:               domain.StudentStatus(s.Status),
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}
