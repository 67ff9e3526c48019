package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/repository/dao"
)

var ErrMessageNotFound = dao.ErrMessageNotFound

type ContactDAO interface {
	Insert(ctx context.Context, msg dao.ContactMessage) (dao.ContactMessage, error)
	List(ctx context.Context, filter dao.ContactFilter) ([]dao.ContactMessage, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) (dao.ContactMessage, error)
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type ContactRepository struct {
	dao ContactDAO
}

func NewContactRepository(dao ContactDAO) *ContactRepository {
	return &ContactRepository{
		dao: dao,
	}
}

func (r *ContactRepository) Create(ctx context.Context, msg domain.ContactMessage) (domain.ContactMessage, error) {
	created, err := r.dao.Insert(ctx, dao.ContactMessage{
		Name:    msg.Name,
		Email:   msg.Email,
		Phone:   msg.Phone,
		Subject: msg.Subject,
		Message: msg.Message,
		Status:  string(msg.Status),
	})
	if err != nil {
		return domain.ContactMessage{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ContactRepository) List(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, int64, error) {
	found, total, err := r.dao.List(ctx, dao.ContactFilter{
		Status: string(filter.Status),
		Limit:  filter.Limit,
		Offset: filter.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	msgs := make([]domain.ContactMessage, len(found))
	for i, m := range found {
		msgs[i] = r.daoToDomain(m)
	}

	return msgs, total, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id uint, status domain.MessageStatus) (domain.ContactMessage, error) {
	updated, err := r.dao.UpdateStatus(ctx, id, string(status))
	if err != nil {
		return domain.ContactMessage{}, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ContactRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ContactRepository) CountUnread(ctx context.Context) (int64, error) {
	total, err := r.dao.CountByStatus(ctx, string(domain.MessageNew))
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByStatus -> %w", err)
	}

	return total, nil
}

func (r *ContactRepository) daoToDomain(m dao.ContactMessage) domain.ContactMessage {
	return domain.ContactMessage{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Message,
		Status:    domain.MessageStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
