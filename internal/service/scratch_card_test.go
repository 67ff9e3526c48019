package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

const (
	testPIN    = "123456789012"
	testSerial = "SC2026ABCDEF01"
)

type cardFixture struct {
	svc       *ScratchCardService
	cards     *fakeCardRepo
	publisher *fakePublisher
}

func newCardFixture(card domain.ScratchCard) cardFixture {
	students := newFakeStudentRepo(
		domain.Student{ID: 1, AdmissionNumber: "ADM/001", FirstName: "Ada", LastName: "Obi", ClassName: "JSS1"},
		domain.Student{ID: 2, AdmissionNumber: "ADM/002", FirstName: "Bola", LastName: "Ade", ClassName: "JSS1"},
	)
	results := newFakeResultRepo(
		domain.Result{ID: 1, StudentID: 1, ClassName: "JSS1", Session: "2025/2026", Term: domain.FirstTerm, Average: 71},
		domain.Result{ID: 2, StudentID: 2, ClassName: "JSS1", Session: "2025/2026", Term: domain.FirstTerm, Average: 64},
	)
	cards := newFakeCardRepo(card)
	publisher := &fakePublisher{}

	svc := NewScratchCardService(cards, students, results, publisher)
	svc.now = func() time.Time { return testNow }

	return cardFixture{svc: svc, cards: cards, publisher: publisher}
}

func freshCard() domain.ScratchCard {
	return domain.ScratchCard{
		ID:           1,
		SerialNumber: testSerial,
		PIN:          testPIN,
		Status:       domain.CardUnused,
		UsageLimit:   DefaultCardUsageLimit,
		ExpiryDate:   testNow.AddDate(0, 6, 0),
	}
}

func checkRequest() CheckResultRequest {
	return CheckResultRequest{
		AdmissionNumber: "ADM/001",
		PIN:             testPIN,
		Session:         "2025/2026",
		Term:            domain.FirstTerm,
	}
}

func TestScratchCardService_Generate(t *testing.T) {
	f := newCardFixture(freshCard())

	cards, err := f.svc.Generate(context.Background(), GenerateCardsRequest{
		Count:      25,
		ExpiryDate: testNow.AddDate(1, 0, 0),
	})
	require.NoError(t, err)
	require.Len(t, cards, 25)

	serial := regexp.MustCompile(`^SC2026[0-9A-F]{8}$`)
	pin := regexp.MustCompile(`^[0-9]{12}$`)
	pins := map[string]bool{}
	for _, c := range cards {
		assert.Regexp(t, serial, c.SerialNumber)
		assert.Regexp(t, pin, c.PIN)
		assert.Equal(t, DefaultCardUsageLimit, c.UsageLimit)
		assert.Equal(t, domain.CardUnused, c.Status)
		assert.Zero(t, c.UsageCount)
		assert.False(t, pins[c.PIN], "duplicate pin in batch")
		pins[c.PIN] = true
	}
}

func TestScratchCardService_GenerateValidation(t *testing.T) {
	f := newCardFixture(freshCard())
	ctx := context.Background()
	future := testNow.AddDate(0, 1, 0)

	_, err := f.svc.Generate(ctx, GenerateCardsRequest{Count: 0, ExpiryDate: future})
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	_, err = f.svc.Generate(ctx, GenerateCardsRequest{Count: MaxCardBatch + 1, ExpiryDate: future})
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	_, err = f.svc.Generate(ctx, GenerateCardsRequest{Count: 1, ExpiryDate: testNow.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrExpiryInPast)

	cards, err := f.svc.Generate(ctx, GenerateCardsRequest{Count: 1, UsageLimit: 2, ExpiryDate: future})
	require.NoError(t, err)
	assert.Equal(t, 2, cards[0].UsageLimit)
}

func TestScratchCardService_GenerateRetriesCollision(t *testing.T) {
	f := newCardFixture(freshCard())
	f.cards.collisions = 1

	cards, err := f.svc.Generate(context.Background(), GenerateCardsRequest{Count: 3, ExpiryDate: testNow.AddDate(0, 1, 0)})
	require.NoError(t, err)
	assert.Len(t, cards, 3)
}

func TestScratchCardService_CheckResult(t *testing.T) {
	f := newCardFixture(freshCard())

	v, err := f.svc.CheckResult(context.Background(), checkRequest())
	require.NoError(t, err)

	assert.Equal(t, uint(1), v.Student.ID)
	assert.Equal(t, 71.0, v.Result.Average)
	assert.Equal(t, 1, v.Card.UsageCount)
	assert.Equal(t, DefaultCardUsageLimit-1, v.Card.RemainingUses)
	assert.Equal(t, domain.CardUsed, v.Card.Status)

	card, _ := f.cards.FindByID(context.Background(), 1)
	require.NotNil(t, card.StudentID)
	assert.Equal(t, uint(1), *card.StudentID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, domain.EventResultChecked, f.publisher.events[0].Type)
}

func TestScratchCardService_CheckResultSerialIsOptionalButMustMatch(t *testing.T) {
	f := newCardFixture(freshCard())
	ctx := context.Background()

	req := checkRequest()
	req.SerialNumber = "SC2026FFFFFFFF"
	_, err := f.svc.CheckResult(ctx, req)
	assert.ErrorIs(t, err, ErrCardNotFound)

	req.SerialNumber = "sc2026abcdef01"
	_, err = f.svc.CheckResult(ctx, req)
	assert.NoError(t, err)
}

func TestScratchCardService_CheckResultFailures(t *testing.T) {
	expired := freshCard()
	expired.ExpiryDate = testNow.Add(-time.Minute)

	deactivated := freshCard()
	deactivated.Status = domain.CardDeactivated

	exhausted := freshCard()
	exhausted.Status = domain.CardUsed
	exhausted.UsageCount = exhausted.UsageLimit

	exhaustedUnused := freshCard()
	exhaustedUnused.UsageCount = exhaustedUnused.UsageLimit

	other := uint(2)
	bound := freshCard()
	bound.Status = domain.CardUsed
	bound.UsageCount = 1
	bound.StudentID = &other

	tests := []struct {
		name   string
		card   domain.ScratchCard
		mutate func(*CheckResultRequest)
		want   error
	}{
		{"wrong pin", freshCard(), func(r *CheckResultRequest) { r.PIN = "000000000000" }, ErrCardNotFound},
		{"unknown student", freshCard(), func(r *CheckResultRequest) { r.AdmissionNumber = "ADM/999" }, ErrStudentNotFound},
		{"no result for term", freshCard(), func(r *CheckResultRequest) { r.Term = domain.SecondTerm }, ErrResultNotFound},
		{"expired", expired, nil, ErrCardExpired},
		{"deactivated", deactivated, nil, ErrCardDeactivated},
		{"exhausted", exhausted, nil, ErrCardUsageExhausted},
		{"exhausted while status reads unused", exhaustedUnused, nil, ErrCardUsageExhausted},
		{"bound to another student", bound, nil, ErrCardBoundElsewhere},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCardFixture(tt.card)
			req := checkRequest()
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			_, err := f.svc.CheckResult(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)

			card, _ := f.cards.FindByID(context.Background(), 1)
			assert.Equal(t, tt.card.UsageCount, card.UsageCount, "usage must not change")
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestScratchCardService_CheckResultLostRace(t *testing.T) {
	card := freshCard()
	card.UsageCount = card.UsageLimit - 1
	f := newCardFixture(card)
	f.cards.stealUse = true

	_, err := f.svc.CheckResult(context.Background(), checkRequest())
	assert.ErrorIs(t, err, ErrCardUsageExhausted)
}

func TestScratchCardService_ReuseBySameStudent(t *testing.T) {
	card := freshCard()
	card.UsageLimit = 2
	f := newCardFixture(card)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.svc.CheckResult(ctx, checkRequest())
		require.NoError(t, err)
	}

	_, err := f.svc.CheckResult(ctx, checkRequest())
	assert.ErrorIs(t, err, ErrCardUsageExhausted)
}

func TestScratchCardService_Toggle(t *testing.T) {
	f := newCardFixture(freshCard())
	ctx := context.Background()

	card, err := f.svc.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.CardDeactivated, card.Status)

	card, err = f.svc.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.CardUnused, card.Status)

	_, err = f.svc.CheckResult(ctx, checkRequest())
	require.NoError(t, err)

	_, err = f.svc.Toggle(ctx, 1)
	assert.ErrorIs(t, err, ErrCardNotToggleable)
}

func TestScratchCardService_ListDerivesExpiry(t *testing.T) {
	card := freshCard()
	card.ExpiryDate = testNow.Add(-time.Hour)
	f := newCardFixture(card)

	cards, total, err := f.svc.List(context.Background(), domain.CardFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, domain.CardExpired, cards[0].Status)

	stored, _ := f.cards.FindByID(context.Background(), 1)
	assert.Equal(t, domain.CardUnused, stored.Status)
}

func TestScratchCardService_RegeneratePIN(t *testing.T) {
	f := newCardFixture(freshCard())

	card, err := f.svc.RegeneratePIN(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEqual(t, testPIN, card.PIN)
	assert.Len(t, card.PIN, 12)
	assert.Equal(t, testSerial, card.SerialNumber)

	_, err = f.svc.RegeneratePIN(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCardNotFound)
}
