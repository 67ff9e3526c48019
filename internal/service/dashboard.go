package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

type DashboardService struct {
	students   StudentRepository
	results    ResultRepository
	cards      ScratchCardRepository
	admissions AdmissionRepository
	contacts   ContactRepository
	news       NewsRepository
	school     *SchoolService
	now        func() time.Time
}

func NewDashboardService(
	students StudentRepository,
	results ResultRepository,
	cards ScratchCardRepository,
	admissions AdmissionRepository,
	contacts ContactRepository,
	news NewsRepository,
	school *SchoolService,
) *DashboardService {
	return &DashboardService{
		students:   students,
		results:    results,
		cards:      cards,
		admissions: admissions,
		contacts:   contacts,
		news:       news,
		school:     school,
		now:        time.Now,
	}
}

// Stats gathers the dashboard counters concurrently.
func (s *DashboardService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		if stats.Students, err = s.students.CountByStatus(ctx); err != nil {
			return fmt.Errorf("s.students.CountByStatus -> %w", err)
		}
		for _, n := range stats.Students {
			stats.TotalStudents += n
		}
		return nil
	})
	g.Go(func() (err error) {
		if stats.Results, err = s.results.Count(ctx); err != nil {
			return fmt.Errorf("s.results.Count -> %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if stats.Cards, err = s.cards.Stats(ctx, s.now()); err != nil {
			return fmt.Errorf("s.cards.Stats -> %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if stats.Admissions, err = s.admissions.CountByStatus(ctx); err != nil {
			return fmt.Errorf("s.admissions.CountByStatus -> %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if stats.UnreadMessages, err = s.contacts.CountUnread(ctx); err != nil {
			return fmt.Errorf("s.contacts.CountUnread -> %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if stats.PublishedNews, err = s.news.CountPublished(ctx); err != nil {
			return fmt.Errorf("s.news.CountPublished -> %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		stats.MaintenanceMode, _, err = s.school.Maintenance(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.DashboardStats{}, err
	}

	return stats, nil
}
