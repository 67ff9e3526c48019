package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNewsNotFound   = errors.New("news not found")
	ErrNewsSlugExists = errors.New("news slug already exists")
)

type News struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Slug        string `gorm:"unique;not null"`
	Content     string `gorm:"type:text;not null"`
	Excerpt     string
	Author      string
	Category    string `gorm:"index"`
	Published   bool   `gorm:"index;not null;default:false"`
	PublishedAt *time.Time
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (News) TableName() string {
	return "news"
}

type NewsFilter struct {
	PublishedOnly bool
	Category      string
	Search        string
	Limit         int
	Offset        int
}

type NewsDAO struct {
	db *gorm.DB
}

func NewNewsDAO(db *gorm.DB) *NewsDAO {
	return &NewsDAO{
		db: db,
	}
}

func (d *NewsDAO) Insert(ctx context.Context, news News) (News, error) {
	if err := d.db.WithContext(ctx).Create(&news).Error; err != nil {
		if isUniqueViolation(err, "uni_news_slug") {
			return News{}, ErrNewsSlugExists
		}

		return News{}, err
	}

	return news, nil
}

func (d *NewsDAO) FindByID(ctx context.Context, id uint) (News, error) {
	return d.findOne(ctx, "id = ?", id)
}

func (d *NewsDAO) FindBySlug(ctx context.Context, slug string) (News, error) {
	return d.findOne(ctx, "slug = ?", slug)
}

func (d *NewsDAO) findOne(ctx context.Context, query string, args ...interface{}) (News, error) {
	var news News

	err := d.db.WithContext(ctx).Where(query, args...).First(&news).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return News{}, ErrNewsNotFound
		}

		return News{}, err
	}

	return news, nil
}

func (d *NewsDAO) List(ctx context.Context, filter NewsFilter) ([]News, int64, error) {
	query := d.db.WithContext(ctx).Model(&News{})
	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("title ILIKE ? OR excerpt ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []News
	query = query.Order("COALESCE(published_at, created_at) DESC, id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (d *NewsDAO) Update(ctx context.Context, news News) (News, error) {
	result := d.db.WithContext(ctx).Model(&News{ID: news.ID}).Select("*").Omit("id", "created_at").Updates(&news)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_news_slug") {
			return News{}, ErrNewsSlugExists
		}

		return News{}, result.Error
	}
	if result.RowsAffected == 0 {
		return News{}, ErrNewsNotFound
	}

	return d.FindByID(ctx, news.ID)
}

func (d *NewsDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&News{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNewsNotFound
	}

	return nil
}

func (d *NewsDAO) CountPublished(ctx context.Context) (int64, error) {
	var total int64
	if err := d.db.WithContext(ctx).Model(&News{}).Where("published = ?", true).Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}
