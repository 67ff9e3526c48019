package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/school-portal-api/internal/cache"
	"github.com/vietanh2810/school-portal-api/internal/domain"
)

const (
	publicCacheTTL = 5 * time.Minute
	schoolInfoKey  = "school:info"
)

type SchoolInfoRepository interface {
	Get(ctx context.Context) (domain.SchoolInfo, error)
	Save(ctx context.Context, info domain.SchoolInfo) (domain.SchoolInfo, error)
}

type SchoolService struct {
	repo   SchoolInfoRepository
	loader *cache.Loader
}

func NewSchoolService(repo SchoolInfoRepository, loader *cache.Loader) *SchoolService {
	return &SchoolService{
		repo:   repo,
		loader: loader,
	}
}

// Get serves school info from cache, loading it at most once per TTL.
func (s *SchoolService) Get(ctx context.Context) (domain.SchoolInfo, error) {
	var info domain.SchoolInfo

	err := s.loader.GetOrLoad(ctx, schoolInfoKey, publicCacheTTL, &info, func(ctx context.Context) (interface{}, error) {
		return s.repo.Get(ctx)
	})
	if err != nil {
		return domain.SchoolInfo{}, fmt.Errorf("s.loader.GetOrLoad -> %w", err)
	}

	return info, nil
}

func (s *SchoolService) Update(ctx context.Context, info domain.SchoolInfo) (domain.SchoolInfo, error) {
	saved, err := s.repo.Save(ctx, info)
	if err != nil {
		return domain.SchoolInfo{}, fmt.Errorf("s.repo.Save -> %w", err)
	}
	_ = s.loader.Invalidate(ctx, schoolInfoKey)

	return saved, nil
}

// Maintenance reports whether the public site is switched off.
func (s *SchoolService) Maintenance(ctx context.Context) (bool, string, error) {
	info, err := s.Get(ctx)
	if err != nil {
		return false, "", err
	}

	return info.MaintenanceMode, info.MaintenanceMessage, nil
}
