package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/school-portal-api/internal/cache"
	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/mail"
)

type fakeAdmissionRepo struct {
	AdmissionRepository
	settings      domain.AdmissionSettings
	apps          []domain.AdmissionApplication
	settingsReads int
}

func (r *fakeAdmissionRepo) GetSettings(context.Context) (domain.AdmissionSettings, error) {
	r.settingsReads++
	return r.settings, nil
}

func (r *fakeAdmissionRepo) SaveSettings(_ context.Context, s domain.AdmissionSettings) (domain.AdmissionSettings, error) {
	r.settings = s
	return s, nil
}

func (r *fakeAdmissionRepo) Create(_ context.Context, app domain.AdmissionApplication) (domain.AdmissionApplication, error) {
	app.ID = uint(len(r.apps) + 1)
	r.apps = append(r.apps, app)
	return app, nil
}

type admissionFixture struct {
	svc       *AdmissionService
	repo      *fakeAdmissionRepo
	mailer    *fakeMailer
	publisher *fakePublisher
}

func newAdmissionFixture(settings domain.AdmissionSettings) admissionFixture {
	repo := &fakeAdmissionRepo{settings: settings}
	mailer := &fakeMailer{}
	publisher := &fakePublisher{}

	svc := NewAdmissionService(repo, cache.NewLoader(cache.NewMemoryStore()), mailer, publisher, "office@school.test")
	svc.now = func() time.Time { return testNow }

	return admissionFixture{svc: svc, repo: repo, mailer: mailer, publisher: publisher}
}

func application() domain.AdmissionApplication {
	return domain.AdmissionApplication{
		FirstName:     "Ngozi",
		LastName:      "Okafor",
		ClassApplying: "JSS1",
		ParentName:    "Mrs Okafor",
		ParentEmail:   " Parent@Example.com ",
		Status:        domain.AdmissionAccepted,
	}
}

func TestAdmissionService_Apply(t *testing.T) {
	f := newAdmissionFixture(domain.AdmissionSettings{IsOpen: true, AvailableClasses: []string{"JSS1", "SS1"}})

	app, err := f.svc.Apply(context.Background(), application())
	require.NoError(t, err)

	assert.Regexp(t, `^APP-2026-[0-9A-F]{6}$`, app.ApplicationNumber)
	assert.Equal(t, domain.AdmissionPending, app.Status)
	assert.Equal(t, "parent@example.com", app.ParentEmail)

	require.Len(t, f.mailer.messages, 2)
	assert.Equal(t, mail.TemplateAdmissionReceived, f.mailer.messages[0].TemplateName)
	assert.Equal(t, "parent@example.com", f.mailer.messages[0].To[0].Address)
	assert.Equal(t, "office@school.test", f.mailer.messages[1].To[0].Address)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, domain.EventAdmissionSubmitted, f.publisher.events[0].Type)
}

func TestAdmissionService_ApplyRejected(t *testing.T) {
	past := testNow.Add(-24 * time.Hour)

	tests := []struct {
		name     string
		settings domain.AdmissionSettings
		want     error
	}{
		{"closed", domain.AdmissionSettings{IsOpen: false}, ErrAdmissionsClosed},
		{"deadline passed", domain.AdmissionSettings{IsOpen: true, Deadline: &past}, ErrAdmissionsClosed},
		{"class not offered", domain.AdmissionSettings{IsOpen: true, AvailableClasses: []string{"SS1"}}, ErrClassNotOffered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdmissionFixture(tt.settings)

			_, err := f.svc.Apply(context.Background(), application())
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.repo.apps)
			assert.Empty(t, f.mailer.messages)
		})
	}
}

func TestAdmissionService_SettingsCachedUntilUpdate(t *testing.T) {
	f := newAdmissionFixture(domain.AdmissionSettings{IsOpen: false})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s, err := f.svc.Settings(ctx)
		require.NoError(t, err)
		assert.False(t, s.IsOpen)
	}
	assert.Equal(t, 1, f.repo.settingsReads)

	_, err := f.svc.UpdateSettings(ctx, domain.AdmissionSettings{
		IsOpen:           true,
		AvailableClasses: []string{" JSS1 ", "", "SS1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"JSS1", "SS1"}, f.repo.settings.AvailableClasses)

	s, err := f.svc.Settings(ctx)
	require.NoError(t, err)
	assert.True(t, s.IsOpen)
	assert.Equal(t, 2, f.repo.settingsReads)
}

func TestAdmissionService_UpdateStatusValidates(t *testing.T) {
	f := newAdmissionFixture(domain.AdmissionSettings{})

	_, err := f.svc.UpdateStatus(context.Background(), 1, "enrolled")
	assert.ErrorIs(t, err, ErrInvalidAdmissionStep)
}
