package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vietanh2810/school-portal-api/internal/cache"
	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/mail"
	"github.com/vietanh2810/school-portal-api/internal/notify"
	"github.com/vietanh2810/school-portal-api/internal/repository"
)

const admissionSettingsKey = "admission:settings"

var (
	ErrApplicationNotFound  = repository.ErrApplicationNotFound
	ErrAdmissionsClosed     = errors.New("admissions are currently closed")
	ErrClassNotOffered      = errors.New("admission is not open for this class")
	ErrInvalidAdmissionStep = errors.New("invalid admission status")
)

type AdmissionRepository interface {
	Create(ctx context.Context, app domain.AdmissionApplication) (domain.AdmissionApplication, error)
	FindByID(ctx context.Context, id uint) (domain.AdmissionApplication, error)
	List(ctx context.Context, filter domain.AdmissionFilter) ([]domain.AdmissionApplication, int64, error)
	UpdateStatus(ctx context.Context, id uint, status domain.AdmissionStatus) (domain.AdmissionApplication, error)
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[domain.AdmissionStatus]int64, error)
	GetSettings(ctx context.Context) (domain.AdmissionSettings, error)
	SaveSettings(ctx context.Context, settings domain.AdmissionSettings) (domain.AdmissionSettings, error)
}

type AdmissionService struct {
	repo       AdmissionRepository
	loader     *cache.Loader
	mailer     mail.Sender
	publisher  notify.Publisher
	adminEmail string
	now        func() time.Time
}

func NewAdmissionService(
	repo AdmissionRepository,
	loader *cache.Loader,
	mailer mail.Sender,
	publisher notify.Publisher,
	adminEmail string,
) *AdmissionService {
	return &AdmissionService{
		repo:       repo,
		loader:     loader,
		mailer:     mailer,
		publisher:  publisher,
		adminEmail: adminEmail,
		now:        time.Now,
	}
}

func (s *AdmissionService) Settings(ctx context.Context) (domain.AdmissionSettings, error) {
	var settings domain.AdmissionSettings

	err := s.loader.GetOrLoad(ctx, admissionSettingsKey, publicCacheTTL, &settings, func(ctx context.Context) (interface{}, error) {
		return s.repo.GetSettings(ctx)
	})
	if err != nil {
		return domain.AdmissionSettings{}, fmt.Errorf("s.loader.GetOrLoad -> %w", err)
	}

	return settings, nil
}

func (s *AdmissionService) UpdateSettings(ctx context.Context, settings domain.AdmissionSettings) (domain.AdmissionSettings, error) {
	settings.AvailableClasses = trimAll(settings.AvailableClasses)
	settings.Requirements = trimAll(settings.Requirements)

	saved, err := s.repo.SaveSettings(ctx, settings)
	if err != nil {
		return domain.AdmissionSettings{}, fmt.Errorf("s.repo.SaveSettings -> %w", err)
	}
	_ = s.loader.Invalidate(ctx, admissionSettingsKey)

	return saved, nil
}

// Apply records a new application when admissions are open for its class,
// then acknowledges it to the parent and alerts the office.
func (s *AdmissionService) Apply(ctx context.Context, app domain.AdmissionApplication) (domain.AdmissionApplication, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return domain.AdmissionApplication{}, err
	}

	now := s.now()
	if !settings.AcceptingApplications(now) {
		return domain.AdmissionApplication{}, ErrAdmissionsClosed
	}
	if !settings.OffersClass(app.ClassApplying) {
		return domain.AdmissionApplication{}, ErrClassNotOffered
	}

	app.ParentEmail = strings.ToLower(strings.TrimSpace(app.ParentEmail))
	app.Status = domain.AdmissionPending

	var created domain.AdmissionApplication
	for attempt := 0; attempt < generateAttempts; attempt++ {
		app.ApplicationNumber, err = generateApplicationNumber(now)
		if err != nil {
			return domain.AdmissionApplication{}, err
		}

		created, err = s.repo.Create(ctx, app)
		if !errors.Is(err, repository.ErrApplicationNumberExists) {
			break
		}
	}
	if err != nil {
		return domain.AdmissionApplication{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.mailer.SendMessages(
		mail.AdmissionReceived(created),
		mail.AdmissionAlert(s.adminEmail, created),
	)
	s.publisher.Publish(domain.EventAdmissionSubmitted, created)

	return created, nil
}

func (s *AdmissionService) Get(ctx context.Context, id uint) (domain.AdmissionApplication, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.AdmissionApplication{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return app, nil
}

func (s *AdmissionService) List(ctx context.Context, filter domain.AdmissionFilter) ([]domain.AdmissionApplication, int64, error) {
	apps, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return apps, total, nil
}

func (s *AdmissionService) UpdateStatus(ctx context.Context, id uint, status domain.AdmissionStatus) (domain.AdmissionApplication, error) {
	if !status.Valid() {
		return domain.AdmissionApplication{}, ErrInvalidAdmissionStep
	}

	app, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.AdmissionApplication{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return app, nil
}

func (s *AdmissionService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *AdmissionService) CountByStatus(ctx context.Context) (map[domain.AdmissionStatus]int64, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.CountByStatus -> %w", err)
	}

	return counts, nil
}

// generateApplicationNumber returns APP-<year>-<6 upper hex>.
func generateApplicationNumber(now time.Time) (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read -> %w", err)
	}

	return fmt.Sprintf("APP-%d-%s", now.Year(), strings.ToUpper(hex.EncodeToString(b))), nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
