package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScratchCard_EffectiveStatus(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		card   ScratchCard
		expect CardStatus
	}{
		{"unused and valid", ScratchCard{Status: CardUnused, ExpiryDate: now.Add(time.Hour)}, CardUnused},
		{"used and valid", ScratchCard{Status: CardUsed, ExpiryDate: now.Add(time.Hour)}, CardUsed},
		{"unused but past expiry", ScratchCard{Status: CardUnused, ExpiryDate: now.Add(-time.Second)}, CardExpired},
		{"deactivated but past expiry", ScratchCard{Status: CardDeactivated, ExpiryDate: now.Add(-time.Hour)}, CardExpired},
		{"expires exactly now", ScratchCard{Status: CardUnused, ExpiryDate: now}, CardUnused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.card.EffectiveStatus(now))
		})
	}
}

func TestScratchCard_CheckUsable(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	other := uint(99)
	mine := uint(7)

	tests := []struct {
		name    string
		card    ScratchCard
		wantErr error
	}{
		{
			name: "fresh card",
			card: ScratchCard{Status: CardUnused, UsageLimit: 5, ExpiryDate: now.AddDate(0, 1, 0)},
		},
		{
			name:    "limit reached while status still unused",
			card:    ScratchCard{Status: CardUnused, UsageCount: 3, UsageLimit: 3, ExpiryDate: now.AddDate(0, 1, 0)},
			wantErr: ErrCardUsageExhausted,
		},
		{
			name:    "expired regardless of stored status",
			card:    ScratchCard{Status: CardUnused, UsageLimit: 5, ExpiryDate: now.AddDate(0, 0, -1)},
			wantErr: ErrCardExpired,
		},
		{
			name:    "deactivated",
			card:    ScratchCard{Status: CardDeactivated, UsageLimit: 5, ExpiryDate: now.AddDate(0, 1, 0)},
			wantErr: ErrCardDeactivated,
		},
		{
			name:    "bound to another student",
			card:    ScratchCard{Status: CardUsed, UsageCount: 1, UsageLimit: 5, StudentID: &other, ExpiryDate: now.AddDate(0, 1, 0)},
			wantErr: ErrCardBoundElsewhere,
		},
		{
			name: "bound to the same student",
			card: ScratchCard{Status: CardUsed, UsageCount: 1, UsageLimit: 5, StudentID: &mine, ExpiryDate: now.AddDate(0, 1, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.card.CheckUsable(now, mine)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestScratchCard_Toggle(t *testing.T) {
	card := ScratchCard{Status: CardUnused}
	assert.NoError(t, card.Toggle())
	assert.Equal(t, CardDeactivated, card.Status)

	assert.NoError(t, card.Toggle())
	assert.Equal(t, CardUnused, card.Status)

	used := ScratchCard{Status: CardUsed}
	assert.ErrorIs(t, used.Toggle(), ErrCardNotToggleable)
	assert.Equal(t, CardUsed, used.Status)
}

func TestScratchCard_RemainingUses(t *testing.T) {
	assert.Equal(t, 3, ScratchCard{UsageCount: 2, UsageLimit: 5}.RemainingUses())
	assert.Equal(t, 0, ScratchCard{UsageCount: 5, UsageLimit: 5}.RemainingUses())
	assert.Equal(t, 0, ScratchCard{UsageCount: 6, UsageLimit: 5}.RemainingUses())
}
