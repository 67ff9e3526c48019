package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/repository/dao"
)

var (
	ErrApplicationNotFound     = dao.ErrApplicationNotFound
	ErrApplicationNumberExists = dao.ErrApplicationNumberExists
)

type AdmissionDAO interface {
	Insert(ctx context.Context, app dao.AdmissionApplication) (dao.AdmissionApplication, error)
	FindByID(ctx context.Context, id uint) (dao.AdmissionApplication, error)
	List(ctx context.Context, filter dao.AdmissionFilter) ([]dao.AdmissionApplication, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) (dao.AdmissionApplication, error)
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	GetSettings(ctx context.Context) (dao.AdmissionSettings, error)
	SaveSettings(ctx context.Context, settings dao.AdmissionSettings) (dao.AdmissionSettings, error)
}

type AdmissionRepository struct {
	dao AdmissionDAO
}

func NewAdmissionRepository(dao AdmissionDAO) *AdmissionRepository {
	return &AdmissionRepository{
		dao: dao,
	}
}

func (r *AdmissionRepository) Create(ctx context.Context, app domain.AdmissionApplication) (domain.AdmissionApplication, error) {
	created, err := r.dao.Insert(ctx, dao.AdmissionApplication{
		ApplicationNumber: app.ApplicationNumber,
		FirstName:         app.FirstName,
		LastName:          app.LastName,
		Gender:            app.Gender,
		DateOfBirth:       app.DateOfBirth,
		ClassApplying:     app.ClassApplying,
		PreviousSchool:    app.PreviousSchool,
		ParentName:        app.ParentName,
		ParentEmail:       app.ParentEmail,
		ParentPhone:       app.ParentPhone,
		Address:           app.Address,
		Notes:             app.Notes,
		Status:            string(app.Status),
	})
	if err != nil {
		return domain.AdmissionApplication{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return applicationDaoToDomain(created), nil
}

func (r *AdmissionRepository) FindByID(ctx context.Context, id uint) (domain.AdmissionApplication, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.AdmissionApplication{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return applicationDaoToDomain(found), nil
}

func (r *AdmissionRepository) List(ctx context.Context, filter domain.AdmissionFilter) ([]domain.AdmissionApplication, int64, error) {
	found, total, err := r.dao.List(ctx, dao.AdmissionFilter{
		Status: string(filter.Status),
		Search: filter.Search,
		Limit:  filter.Limit,
		Offset: filter.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	apps := make([]domain.AdmissionApplication, len(found))
	for i, a := range found {
		apps[i] = applicationDaoToDomain(a)
	}

	return apps, total, nil
}

func (r *AdmissionRepository) UpdateStatus(ctx context.Context, id uint, status domain.AdmissionStatus) (domain.AdmissionApplication, error) {
	updated, err := r.dao.UpdateStatus(ctx, id, string(status))
	if err != nil {
		return domain.AdmissionApplication{}, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return applicationDaoToDomain(updated), nil
}

func (r *AdmissionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *AdmissionRepository) CountByStatus(ctx context.Context) (map[domain.AdmissionStatus]int64, error) {
	counts, err := r.dao.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountByStatus -> %w", err)
	}

	byStatus := make(map[domain.AdmissionStatus]int64, len(domain.AdmissionStatuses))
	for _, status := range domain.AdmissionStatuses {
		byStatus[status] = counts[string(status)]
	}

	return byStatus, nil
}

func (r *AdmissionRepository) GetSettings(ctx context.Context) (domain.AdmissionSettings, error) {
	found, err := r.dao.GetSettings(ctx)
	if err != nil {
		return domain.AdmissionSettings{}, fmt.Errorf("r.dao.GetSettings -> %w", err)
	}

	return settingsDaoToDomain(found)
}

func (r *AdmissionRepository) SaveSettings(ctx context.Context, settings domain.AdmissionSettings) (domain.AdmissionSettings, error) {
	classes, err := json.Marshal(nonNil(settings.AvailableClasses))
	if err != nil {
		return domain.AdmissionSettings{}, fmt.Errorf("json.Marshal -> %w", err)
	}
	requirements, err := json.Marshal(nonNil(settings.Requirements))
	if err != nil {
		return domain.AdmissionSettings{}, fmt.Errorf("json.Marshal -> %w", err)
	}

	saved, err := r.dao.SaveSettings(ctx, dao.AdmissionSettings{
		IsOpen:           settings.IsOpen,
		Session:          settings.Session,
		Deadline:         settings.Deadline,
		ApplicationFee:   settings.ApplicationFee,
		AvailableClasses: classes,
		Requirements:     requirements,
		Instructions:     settings.Instructions,
	})
	if err != nil {
		return domain.AdmissionSettings{}, fmt.Errorf("r.dao.SaveSettings -> %w", err)
	}

	return settingsDaoToDomain(saved)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func settingsDaoToDomain(s dao.AdmissionSettings) (domain.AdmissionSettings, error) {
	settings := domain.AdmissionSettings{
		IsOpen:           s.IsOpen,
		Session:          s.Session,
		Deadline:         s.Deadline,
		ApplicationFee:   s.ApplicationFee,
		AvailableClasses: []string{},
		Requirements:     []string{},
		Instructions:     s.Instructions,
		UpdatedAt:        s.UpdatedAt,
	}
	if len(s.AvailableClasses) > 0 {
		if err := json.Unmarshal(s.AvailableClasses, &settings.AvailableClasses); err != nil {
			return domain.AdmissionSettings{}, fmt.Errorf("json.Unmarshal -> %w", err)
		}
	}
	if len(s.Requirements) > 0 {
		if err := json.Unmarshal(s.Requirements, &settings.Requirements); err != nil {
			return domain.AdmissionSettings{}, fmt.Errorf("json.Unmarshal -> %w", err)
		}
	}

	return settings, nil
}

func applicationDaoToDomain(a dao.AdmissionApplication) domain.AdmissionApplication {
	return domain.AdmissionApplication{
		ID:                a.ID,
		ApplicationNumber: a.ApplicationNumber,
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		Gender:            a.Gender,
		DateOfBirth:       a.DateOfBirth,
		ClassApplying:     a.ClassApplying,
		PreviousSchool:    a.PreviousSchool,
		ParentName:        a.ParentName,
		ParentEmail:       a.ParentEmail,
		ParentPhone:       a.ParentPhone,
		Address:           a.Address,
		Notes:             a.Notes,
		Status:            domain.AdmissionStatus(a.Status),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
