package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/mail"
)

type fakeContactRepo struct {
	ContactRepository
	msgs []domain.ContactMessage
}

func (r *fakeContactRepo) Create(_ context.Context, m domain.ContactMessage) (domain.ContactMessage, error) {
	m.ID = uint(len(r.msgs) + 1)
	r.msgs = append(r.msgs, m)
	return m, nil
}

func (r *fakeContactRepo) CountUnread(context.Context) (int64, error) {
	var n int64
	for _, m := range r.msgs {
		if m.Status == domain.MessageNew {
			n++
		}
	}
	return n, nil
}

func TestContactService_Submit(t *testing.T) {
	repo := &fakeContactRepo{}
	mailer := &fakeMailer{}
	publisher := &fakePublisher{}
	svc := NewContactService(repo, mailer, publisher, "office@school.test")

	msg, err := svc.Submit(context.Background(), domain.ContactMessage{
		Name:    "Mr Bello",
		Email:   "bello@example.com",
		Subject: "Fees",
		Message: "When is the deadline?",
		Status:  domain.MessageReplied,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MessageNew, msg.Status)

	require.Len(t, mailer.messages, 1)
	assert.Equal(t, mail.TemplateContactAlert, mailer.messages[0].TemplateName)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, domain.EventContactReceived, publisher.events[0].Type)

	unread, err := svc.CountUnread(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}

func TestContactService_SubmitWithoutOfficeEmail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewContactService(&fakeContactRepo{}, mailer, &fakePublisher{}, "")

	_, err := svc.Submit(context.Background(), domain.ContactMessage{Name: "A", Email: "a@b.c", Message: "hi"})
	require.NoError(t, err)
	assert.Empty(t, mailer.messages)
}

func TestContactService_UpdateStatusValidates(t *testing.T) {
	svc := NewContactService(&fakeContactRepo{}, &fakeMailer{}, &fakePublisher{}, "")

	_, err := svc.UpdateStatus(context.Background(), 1, "archived")
	assert.ErrorIs(t, err, ErrInvalidMessageStatus)
}
