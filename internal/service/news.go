package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/vietanh2810/school-portal-api/internal/cache"
	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/repository"
	"github.com/vietanh2810/school-portal-api/internal/storage"
)

const (
	newsCachePrefix = "news:"
	maxSlugAttempts = 20
)

var (
	ErrNewsNotFound   = repository.ErrNewsNotFound
	ErrNewsSlugExists = repository.ErrNewsSlugExists
	ErrInvalidImage   = errors.New("image must be a jpeg, png, gif or webp file")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type NewsRepository interface {
	Create(ctx context.Context, news domain.News) (domain.News, error)
	FindByID(ctx context.Context, id uint) (domain.News, error)
	FindBySlug(ctx context.Context, slug string) (domain.News, error)
	List(ctx context.Context, filter domain.NewsFilter) ([]domain.News, int64, error)
	Update(ctx context.Context, news domain.News) (domain.News, error)
	Delete(ctx context.Context, id uint) error
	CountPublished(ctx context.Context) (int64, error)
}

type NewsPage struct {
	Items []domain.News `json:"items"`
	Total int64         `json:"total"`
}

type NewsService struct {
	repo    NewsRepository
	loader  *cache.Loader
	storage storage.Storage
	now     func() time.Time
}

func NewNewsService(repo NewsRepository, loader *cache.Loader, storage storage.Storage) *NewsService {
	return &NewsService{
		repo:    repo,
		loader:  loader,
		storage: storage,
		now:     time.Now,
	}
}

// PublicList returns published news, newest first, through the cache.
func (s *NewsService) PublicList(ctx context.Context, filter domain.NewsFilter) ([]domain.News, int64, error) {
	filter.PublishedOnly = true
	key := fmt.Sprintf("%slist:%d:%d:%s:%s", newsCachePrefix, filter.Page.Page, filter.Limit, filter.Category, filter.Search)

	var page NewsPage
	err := s.loader.GetOrLoad(ctx, key, publicCacheTTL, &page, func(ctx context.Context) (interface{}, error) {
		items, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return NewsPage{Items: items, Total: total}, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("s.loader.GetOrLoad -> %w", err)
	}

	return page.Items, page.Total, nil
}

// PublicGet looks a published article up by numeric id or slug.
func (s *NewsService) PublicGet(ctx context.Context, idOrSlug string) (domain.News, error) {
	var news domain.News

	err := s.loader.GetOrLoad(ctx, newsCachePrefix+"item:"+idOrSlug, publicCacheTTL, &news, func(ctx context.Context) (interface{}, error) {
		if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil {
			return s.repo.FindByID(ctx, uint(id))
		}
		return s.repo.FindBySlug(ctx, idOrSlug)
	})
	if err != nil {
		return domain.News{}, fmt.Errorf("s.loader.GetOrLoad -> %w", err)
	}
	if !news.Published {
		return domain.News{}, ErrNewsNotFound
	}

	return news, nil
}

func (s *NewsService) List(ctx context.Context, filter domain.NewsFilter) ([]domain.News, int64, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return items, total, nil
}

func (s *NewsService) Get(ctx context.Context, id uint) (domain.News, error) {
	news, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.News{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return news, nil
}

// Create derives a unique slug from the title unless one is given.
func (s *NewsService) Create(ctx context.Context, news domain.News) (domain.News, error) {
	if news.Published && news.PublishedAt == nil {
		now := s.now()
		news.PublishedAt = &now
	}
	if news.Excerpt == "" {
		news.Excerpt = Excerpt(news.Content, 200)
	}

	explicit := news.Slug != ""
	base := Slugify(news.Slug)
	if !explicit {
		base = Slugify(news.Title)
	}

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		news.Slug = base
		if attempt > 1 {
			news.Slug = fmt.Sprintf("%s-%d", base, attempt)
		}

		created, err := s.repo.Create(ctx, news)
		if err == nil {
			s.invalidate(ctx)
			return created, nil
		}
		if !errors.Is(err, repository.ErrNewsSlugExists) || explicit {
			return domain.News{}, fmt.Errorf("s.repo.Create -> %w", err)
		}
	}

	return domain.News{}, ErrNewsSlugExists
}

func (s *NewsService) Update(ctx context.Context, news domain.News) (domain.News, error) {
	existing, err := s.repo.FindByID(ctx, news.ID)
	if err != nil {
		return domain.News{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if news.Slug == "" {
		news.Slug = existing.Slug
	} else {
		news.Slug = Slugify(news.Slug)
	}
	if news.ImageURL == "" {
		news.ImageURL = existing.ImageURL
	}
	if news.Excerpt == "" {
		news.Excerpt = Excerpt(news.Content, 200)
	}
	news.PublishedAt = existing.PublishedAt
	if news.Published && news.PublishedAt == nil {
		now := s.now()
		news.PublishedAt = &now
	}

	updated, err := s.repo.Update(ctx, news)
	if err != nil {
		return domain.News{}, fmt.Errorf("s.repo.Update -> %w", err)
	}
	s.invalidate(ctx)

	return updated, nil
}

func (s *NewsService) SetPublished(ctx context.Context, id uint, published bool) (domain.News, error) {
	news, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.News{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	news.Published = published
	if published && news.PublishedAt == nil {
		now := s.now()
		news.PublishedAt = &now
	}

	updated, err := s.repo.Update(ctx, news)
	if err != nil {
		return domain.News{}, fmt.Errorf("s.repo.Update -> %w", err)
	}
	s.invalidate(ctx)

	return updated, nil
}

func (s *NewsService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}
	s.invalidate(ctx)

	return nil
}

// UploadImage stores an article's cover image and records its URL.
func (s *NewsService) UploadImage(ctx context.Context, id uint, contentType string, r io.Reader) (domain.News, error) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return domain.News{}, ErrInvalidImage
	}

	news, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.News{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	key := path.Join("news", strconv.FormatUint(uint64(id), 10), fmt.Sprintf("%d%s", s.now().UnixNano(), ext))
	url, err := s.storage.Put(ctx, key, contentType, r)
	if err != nil {
		return domain.News{}, fmt.Errorf("s.storage.Put -> %w", err)
	}

	news.ImageURL = url
	updated, err := s.repo.Update(ctx, news)
	if err != nil {
		return domain.News{}, fmt.Errorf("s.repo.Update -> %w", err)
	}
	s.invalidate(ctx)

	return updated, nil
}

func (s *NewsService) CountPublished(ctx context.Context) (int64, error) {
	total, err := s.repo.CountPublished(ctx)
	if err != nil {
		return 0, fmt.Errorf("s.repo.CountPublished -> %w", err)
	}

	return total, nil
}

func (s *NewsService) invalidate(ctx context.Context) {
	_ = s.loader.InvalidatePrefix(ctx, newsCachePrefix)
}

// Slugify lower-cases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}

	if b.Len() == 0 {
		return "news"
	}
	return b.String()
}

// Excerpt cuts content to at most n runes on a word boundary.
func Excerpt(content string, n int) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}

	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
