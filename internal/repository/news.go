package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/repository/dao"
)

var (
	ErrNewsNotFound   = dao.ErrNewsNotFound
	ErrNewsSlugExists = dao.ErrNewsSlugExists
)

type NewsDAO interface {
	Insert(ctx context.Context, news dao.News) (dao.News, error)
	FindByID(ctx context.Context, id uint) (dao.News, error)
	FindBySlug(ctx context.Context, slug string) (dao.News, error)
	List(ctx context.Context, filter dao.NewsFilter) ([]dao.News, int64, error)
	Update(ctx context.Context, news dao.News) (dao.News, error)
	Delete(ctx context.Context, id uint) error
	CountPublished(ctx context.Context) (int64, error)
}

type NewsRepository struct {
	dao NewsDAO
}

func NewNewsRepository(dao NewsDAO) *NewsRepository {
	return &NewsRepository{
		dao: dao,
	}
}

func (r *NewsRepository) Create(ctx context.Context, news domain.News) (domain.News, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(news))
	if err != nil {
		return domain.News{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *NewsRepository) FindByID(ctx context.Context, id uint) (domain.News, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.News{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *NewsRepository) FindBySlug(ctx context.Context, slug string) (domain.News, error) {
	found, err := r.dao.FindBySlug(ctx, slug)
	if err != nil {
		return domain.News{}, fmt.Errorf("r.dao.FindBySlug -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *NewsRepository) List(ctx context.Context, filter domain.NewsFilter) ([]domain.News, int64, error) {
	found, total, err := r.dao.List(ctx, dao.NewsFilter{
		PublishedOnly: filter.PublishedOnly,
		Category:      filter.Category,
		Search:        filter.Search,
		Limit:         filter.Limit,
		Offset:        filter.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	items := make([]domain.News, len(found))
	for i, n := range found {
		items[i] = r.daoToDomain(n)
	}

	return items, total, nil
}

func (r *NewsRepository) Update(ctx context.Context, news domain.News) (domain.News, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(news))
	if err != nil {
		return domain.News{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *NewsRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *NewsRepository) CountPublished(ctx context.Context) (int64, error) {
	total, err := r.dao.CountPublished(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountPublished -> %w", err)
	}

	return total, nil
}

func (r *NewsRepository) domainToDao(n domain.News) dao.News {
	return dao.News{
		ID:          n.ID,
		Title:       n.Title,
		Slug:        n.Slug,
		Content:     n.Content,
		Excerpt:     n.Excerpt,
		Author:      n.Author,
		Category:    n.Category,
		Published:   n.Published,
		PublishedAt: n.PublishedAt,
		ImageURL:    n.ImageURL,
	}
}

func (r *NewsRepository) daoToDomain(n dao.News) domain.News {
	return domain.News{
		ID:          n.ID,
		Title:       n.Title,
		Slug:        n.Slug,
		Content:     n.Content,
		Excerpt:     n.Excerpt,
		Author:      n.Author,
		Category:    n.Category,
		Published:   n.Published,
		PublishedAt: n.PublishedAt,
		ImageURL:    n.ImageURL,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}
