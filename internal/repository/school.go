package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/repository/dao"
)

type SchoolInfoDAO interface {
	Get(ctx context.Context) (dao.SchoolInfo, error)
	Save(ctx context.Context, info dao.SchoolInfo) (dao.SchoolInfo, error)
}

type SchoolInfoRepository struct {
	dao SchoolInfoDAO
}

func NewSchoolInfoRepository(dao SchoolInfoDAO) *SchoolInfoRepository {
	return &SchoolInfoRepository{
		dao: dao,
	}
}

func (r *SchoolInfoRepository) Get(ctx context.Context) (domain.SchoolInfo, error) {
	found, err := r.dao.Get(ctx)
	if err != nil {
		return domain.SchoolInfo{}, fmt.Errorf("r.dao.Get -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SchoolInfoRepository) Save(ctx context.Context, info domain.SchoolInfo) (domain.SchoolInfo, error) {
	saved, err := r.dao.Save(ctx, dao.SchoolInfo{
		Name:               info.Name,
		Motto:              info.Motto,
		Address:            info.Address,
		Phone:              info.Phone,
		Email:              info.Email,
		PrincipalName:      info.PrincipalName,
		LogoURL:            info.LogoURL,
		About:              info.About,
		MaintenanceMode:    info.MaintenanceMode,
		MaintenanceMessage: info.MaintenanceMessage,
	})
	if err != nil {
		return domain.SchoolInfo{}, fmt.Errorf("r.dao.Save -> %w", err)
	}

	return r.daoToDomain(saved), nil
}

func (r *SchoolInfoRepository) daoToDomain(s dao.SchoolInfo) domain.SchoolInfo {
	return domain.SchoolInfo{
		Name:               s.Name,
		Motto:              s.Motto,
		Address:            s.Address,
		Phone:              s.Phone,
		Email:              s.Email,
		PrincipalName:      s.PrincipalName,
		LogoURL:            s.LogoURL,
		About:              s.About,
		MaintenanceMode:    s.MaintenanceMode,
		MaintenanceMessage: s.MaintenanceMessage,
		UpdatedAt:          s.UpdatedAt,
	}
}
