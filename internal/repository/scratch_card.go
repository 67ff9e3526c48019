package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/repository/dao"
)

var (
	ErrCardNotFound    = dao.ErrCardNotFound
	ErrCardCollision   = dao.ErrCardCollision
	ErrCardUnavailable = dao.ErrCardUnavailable
)

type ScratchCardDAO interface {
	InsertBatch(ctx context.Context, cards []dao.ScratchCard) ([]dao.ScratchCard, error)
	FindByID(ctx context.Context, id uint) (dao.ScratchCard, error)
	FindByPIN(ctx context.Context, pin string) (dao.ScratchCard, error)
	List(ctx context.Context, filter dao.CardFilter) ([]dao.ScratchCard, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdatePIN(ctx context.Context, id uint, pin string) error
	RecordUsage(ctx context.Context, id, studentID uint, now time.Time) (dao.ScratchCard, error)
	Delete(ctx context.Context, id uint) error
	Counts(ctx context.Context, now time.Time) (dao.CardCounts, error)
}

type ScratchCardRepository struct {
	dao ScratchCardDAO
}

func NewScratchCardRepository(dao ScratchCardDAO) *ScratchCardRepository {
	return &ScratchCardRepository{
		dao: dao,
	}
}

func (r *ScratchCardRepository) CreateBatch(ctx context.Context, cards []domain.ScratchCard) ([]domain.ScratchCard, error) {
	rows := make([]dao.ScratchCard, len(cards))
	for i, c := range cards {
		rows[i] = dao.ScratchCard{
			SerialNumber: c.SerialNumber,
			PIN:          c.PIN,
			Status:       string(c.Status),
			UsageCount:   c.UsageCount,
			UsageLimit:   c.UsageLimit,
			ExpiryDate:   c.ExpiryDate,
		}
	}

	created, err := r.dao.InsertBatch(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertBatch -> %w", err)
	}

	return cardsDaoToDomain(created), nil
}

func (r *ScratchCardRepository) FindByID(ctx context.Context, id uint) (domain.ScratchCard, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.ScratchCard{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return cardDaoToDomain(found), nil
}

func (r *ScratchCardRepository) FindByPIN(ctx context.Context, pin string) (domain.ScratchCard, error) {
	found, err := r.dao.FindByPIN(ctx, pin)
	if err != nil {
		return domain.ScratchCard{}, fmt.Errorf("r.dao.FindByPIN -> %w", err)
	}

	return cardDaoToDomain(found), nil
}

func (r *ScratchCardRepository) List(ctx context.Context, filter domain.CardFilter, now time.Time) ([]domain.ScratchCard, int64, error) {
	found, total, err := r.dao.List(ctx, dao.CardFilter{
		Status: string(filter.Status),
		Search: filter.Search,
		Now:    now,
		Limit:  filter.Limit,
		Offset: filter.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	return cardsDaoToDomain(found), total, nil
}

func (r *ScratchCardRepository) UpdateStatus(ctx context.Context, id uint, status domain.CardStatus) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *ScratchCardRepository) UpdatePIN(ctx context.Context, id uint, pin string) error {
	if err := r.dao.UpdatePIN(ctx, id, pin); err != nil {
		return fmt.Errorf("r.dao.UpdatePIN -> %w", err)
	}

	return nil
}

func (r *ScratchCardRepository) RecordUsage(ctx context.Context, id, studentID uint, now time.Time) (domain.ScratchCard, error) {
	updated, err := r.dao.RecordUsage(ctx, id, studentID, now)
	if err != nil {
		return domain.ScratchCard{}, fmt.Errorf("r.dao.RecordUsage -> %w", err)
	}

	return cardDaoToDomain(updated), nil
}

func (r *ScratchCardRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ScratchCardRepository) Stats(ctx context.Context, now time.Time) (domain.CardStats, error) {
	counts, err := r.dao.Counts(ctx, now)
	if err != nil {
		return domain.CardStats{}, fmt.Errorf("r.dao.Counts -> %w", err)
	}

	return domain.CardStats{
		Total:       counts.Total,
		Unused:      counts.Unused,
		Used:        counts.Used,
		Expired:     counts.Expired,
		Deactivated: counts.Deactivated,
	}, nil
}

func cardDaoToDomain(c dao.ScratchCard) domain.ScratchCard {
	return domain.ScratchCard{
		ID:           c.ID,
		SerialNumber: c.SerialNumber,
		PIN:          c.PIN,
		Status:       domain.CardStatus(c.Status),
		UsageCount:   c.UsageCount,
		UsageLimit:   c.UsageLimit,
		ExpiryDate:   c.ExpiryDate,
		StudentID:    c.StudentID,
		LastUsedAt:   c.LastUsedAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func cardsDaoToDomain(rows []dao.ScratchCard) []domain.ScratchCard {
	cards := make([]domain.ScratchCard, len(rows))
	for i, c := range rows {
		cards[i] = cardDaoToDomain(c)
	}

	return cards
}
