package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/mail"
	"github.com/vietanh2810/school-portal-api/internal/notify"
	"github.com/vietanh2810/school-portal-api/internal/repository"
)

var (
	ErrMessageNotFound      = repository.ErrMessageNotFound
	ErrInvalidMessageStatus = errors.New("invalid message status")
)

type ContactRepository interface {
	Create(ctx context.Context, msg domain.ContactMessage) (domain.ContactMessage, error)
	List(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, int64, error)
	UpdateStatus(ctx context.Context, id uint, status domain.MessageStatus) (domain.ContactMessage, error)
	Delete(ctx context.Context, id uint) error
	CountUnread(ctx context.Context) (int64, error)
}

type ContactService struct {
	repo       ContactRepository
	mailer     mail.Sender
	publisher  notify.Publisher
	adminEmail string
}

func NewContactService(repo ContactRepository, mailer mail.Sender, publisher notify.Publisher, adminEmail string) *ContactService {
	return &ContactService{
		repo:       repo,
		mailer:     mailer,
		publisher:  publisher,
		adminEmail: adminEmail,
	}
}

func (s *ContactService) Submit(ctx context.Context, msg domain.ContactMessage) (domain.ContactMessage, error) {
	msg.Status = domain.MessageNew

	created, err := s.repo.Create(ctx, msg)
	if err != nil {
		return domain.ContactMessage{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.mailer.SendMessages(mail.ContactAlert(s.adminEmail, created))
	s.publisher.Publish(domain.EventContactReceived, created)

	return created, nil
}

func (s *ContactService) List(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, int64, error) {
	msgs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return msgs, total, nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, id uint, status domain.MessageStatus) (domain.ContactMessage, error) {
	if !status.Valid() {
		return domain.ContactMessage{}, ErrInvalidMessageStatus
	}

	msg, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.ContactMessage{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return msg, nil
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *ContactService) CountUnread(ctx context.Context) (int64, error) {
	n, err := s.repo.CountUnread(ctx)
	if err != nil {
		return 0, fmt.Errorf("s.repo.CountUnread -> %w", err)
	}

	return n, nil
}
