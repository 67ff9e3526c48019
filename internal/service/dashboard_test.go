package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/school-portal-api/internal/cache"
	"github.com/vietanh2810/school-portal-api/internal/domain"
)

type fakeSchoolRepo struct {
	info  domain.SchoolInfo
	reads int
}

func (r *fakeSchoolRepo) Get(context.Context) (domain.SchoolInfo, error) {
	r.reads++
	return r.info, nil
}

func (r *fakeSchoolRepo) Save(_ context.Context, info domain.SchoolInfo) (domain.SchoolInfo, error) {
	r.info = info
	return info, nil
}

type countingNewsRepo struct {
	NewsRepository
}

func (countingNewsRepo) CountPublished(context.Context) (int64, error) {
	return 4, nil
}

type countingAdmissionRepo struct {
	AdmissionRepository
}

func (countingAdmissionRepo) CountByStatus(context.Context) (map[domain.AdmissionStatus]int64, error) {
	return map[domain.AdmissionStatus]int64{domain.AdmissionPending: 3}, nil
}

func TestSchoolService_CachesUntilUpdate(t *testing.T) {
	repo := &fakeSchoolRepo{info: domain.SchoolInfo{Name: "Hilltop"}}
	svc := NewSchoolService(repo, cache.NewLoader(cache.NewMemoryStore()))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		info, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Hilltop", info.Name)
	}
	assert.Equal(t, 1, repo.reads)

	_, err := svc.Update(ctx, domain.SchoolInfo{Name: "Hilltop", MaintenanceMode: true, MaintenanceMessage: "Back soon"})
	require.NoError(t, err)

	on, msg, err := svc.Maintenance(ctx)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, "Back soon", msg)
	assert.Equal(t, 2, repo.reads)
}

func TestDashboardService_Stats(t *testing.T) {
	students := newFakeStudentRepo(
		domain.Student{ID: 1, Status: domain.StudentActive},
		domain.Student{ID: 2, Status: domain.StudentActive},
		domain.Student{ID: 3, Status: domain.StudentGraduated},
	)
	results := newFakeResultRepo(domain.Result{ID: 1}, domain.Result{ID: 2})
	expired := freshCard()
	expired.ID = 2
	expired.PIN = "999999999999"
	expired.ExpiryDate = testNow.Add(-time.Hour)
	cards := newFakeCardRepo(freshCard(), expired)
	contacts := &fakeContactRepo{msgs: []domain.ContactMessage{{Status: domain.MessageNew}, {Status: domain.MessageRead}}}
	school := NewSchoolService(&fakeSchoolRepo{}, cache.NewLoader(cache.NewMemoryStore()))

	svc := NewDashboardService(students, results, cards, countingAdmissionRepo{}, contacts, countingNewsRepo{}, school)
	svc.now = func() time.Time { return testNow }

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalStudents)
	assert.EqualValues(t, 2, stats.Students[domain.StudentActive])
	assert.EqualValues(t, 2, stats.Results)
	assert.EqualValues(t, 2, stats.Cards.Total)
	assert.EqualValues(t, 1, stats.Cards.Expired)
	assert.EqualValues(t, 3, stats.Admissions[domain.AdmissionPending])
	assert.EqualValues(t, 1, stats.UnreadMessages)
	assert.EqualValues(t, 4, stats.PublishedNews)
	assert.False(t, stats.MaintenanceMode)
}
