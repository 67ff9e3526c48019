package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/school-portal-api/internal/cache"
	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/repository"
	"github.com/vietanh2810/school-portal-api/internal/storage"
)

type fakeNewsRepo struct {
	NewsRepository
	items     map[uint]domain.News
	nextID    uint
	listCalls int
}

func newFakeNewsRepo() *fakeNewsRepo {
	return &fakeNewsRepo{items: map[uint]domain.News{}}
}

func (r *fakeNewsRepo) Create(_ context.Context, n domain.News) (domain.News, error) {
	for _, existing := range r.items {
		if existing.Slug == n.Slug {
			return domain.News{}, repository.ErrNewsSlugExists
		}
	}
	r.nextID++
	n.ID = r.nextID
	r.items[n.ID] = n
	return n, nil
}

func (r *fakeNewsRepo) FindByID(_ context.Context, id uint) (domain.News, error) {
	n, ok := r.items[id]
	if !ok {
		return domain.News{}, repository.ErrNewsNotFound
	}
	return n, nil
}

func (r *fakeNewsRepo) FindBySlug(_ context.Context, slug string) (domain.News, error) {
	for _, n := range r.items {
		if n.Slug == slug {
			return n, nil
		}
	}
	return domain.News{}, repository.ErrNewsNotFound
}

func (r *fakeNewsRepo) List(_ context.Context, filter domain.NewsFilter) ([]domain.News, int64, error) {
	r.listCalls++
	var out []domain.News
	for id := uint(1); id <= r.nextID; id++ {
		n, ok := r.items[id]
		if ok && (!filter.PublishedOnly || n.Published) {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNewsRepo) Update(_ context.Context, n domain.News) (domain.News, error) {
	if _, ok := r.items[n.ID]; !ok {
		return domain.News{}, repository.ErrNewsNotFound
	}
	r.items[n.ID] = n
	return n, nil
}

func newNewsFixture(t *testing.T) (*NewsService, *fakeNewsRepo) {
	repo := newFakeNewsRepo()
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	svc := NewNewsService(repo, cache.NewLoader(cache.NewMemoryStore()), store)
	svc.now = func() time.Time { return testNow }

	return svc, repo
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Inter-House Sports 2026!":   "inter-house-sports-2026",
		"  PTA   meeting  ":          "pta-meeting",
		"Résumé day":                 "r-sum-day",
		"!!!":                        "news",
		"Second-Term Exams: Notice.": "second-term-exams-notice",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", Excerpt("short   text", 50))

	long := strings.Repeat("word ", 30)
	got := Excerpt(long, 22)
	assert.Equal(t, "word word word word...", got)
}

func TestNewsService_CreateDedupesSlug(t *testing.T) {
	svc, _ := newNewsFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, domain.News{Title: "Open Day", Content: "Come along"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, domain.News{Title: "Open day", Content: "Again"})
	require.NoError(t, err)

	assert.Equal(t, "open-day", a.Slug)
	assert.Equal(t, "open-day-2", b.Slug)
	assert.Equal(t, "Come along", a.Excerpt)

	_, err = svc.Create(ctx, domain.News{Title: "Other", Slug: "open-day"})
	assert.ErrorIs(t, err, ErrNewsSlugExists)
}

func TestNewsService_PublicReadsHideDrafts(t *testing.T) {
	svc, _ := newNewsFixture(t)
	ctx := context.Background()

	draft, err := svc.Create(ctx, domain.News{Title: "Draft"})
	require.NoError(t, err)
	assert.Nil(t, draft.PublishedAt)

	_, err = svc.PublicGet(ctx, draft.Slug)
	assert.ErrorIs(t, err, ErrNewsNotFound)

	published, err := svc.SetPublished(ctx, draft.ID, true)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.Equal(t, testNow, *published.PublishedAt)

	got, err := svc.PublicGet(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Draft", got.Title)
}

func TestNewsService_PublicListIsCachedUntilWrite(t *testing.T) {
	svc, repo := newNewsFixture(t)
	ctx := context.Background()
	filter := domain.NewsFilter{Page: domain.NewPage(1, 10)}

	_, err := svc.Create(ctx, domain.News{Title: "One", Published: true})
	require.NoError(t, err)

	items, total, err := svc.PublicList(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)

	_, _, err = svc.PublicList(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.Create(ctx, domain.News{Title: "Two", Published: true})
	require.NoError(t, err)

	_, total, err = svc.PublicList(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, 2, repo.listCalls)
}

func TestNewsService_UploadImage(t *testing.T) {
	svc, _ := newNewsFixture(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, domain.News{Title: "Gallery"})
	require.NoError(t, err)

	_, err = svc.UploadImage(ctx, n.ID, "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	updated, err := svc.UploadImage(ctx, n.ID, "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.ImageURL, "/uploads/news/1/"))
	assert.True(t, strings.HasSuffix(updated.ImageURL, ".png"))
}
