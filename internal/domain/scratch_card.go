package domain

import (
	"errors"
	"time"
)

var (
	ErrCardDeactivated    = errors.New("scratch card has been deactivated")
	ErrCardExpired        = errors.New("scratch card has expired")
	ErrCardUsageExhausted = errors.New("scratch card usage limit reached")
	ErrCardBoundElsewhere = errors.New("scratch card has already been used for another student")
	ErrCardNotToggleable  = errors.New("only unused or deactivated scratch cards can be toggled")
)

type CardStatus string

const (
	CardUnused      CardStatus = "unused"
	CardUsed        CardStatus = "used"
	CardExpired     CardStatus = "expired"
	CardDeactivated CardStatus = "deactivated"
)

var CardStatuses = []CardStatus{CardUnused, CardUsed, CardExpired, CardDeactivated}

func (s CardStatus) Valid() bool {
	for _, status := range CardStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type ScratchCard struct {
	ID           uint       `json:"id"`
	SerialNumber string     `json:"serial_number"`
	PIN          string     `json:"pin"`
	Status       CardStatus `json:"status"`
	UsageCount   int        `json:"usage_count"`
	UsageLimit   int        `json:"usage_limit"`
	ExpiryDate   time.Time  `json:"expiry_date"`
	StudentID    *uint      `json:"student_id,omitempty"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (c ScratchCard) IsExpired(now time.Time) bool {
	return now.After(c.ExpiryDate)
}

// EffectiveStatus is the status shown to users. Expiry is derived from the
// date at read time; the stored status is never rewritten to expired.
func (c ScratchCard) EffectiveStatus(now time.Time) CardStatus {
	if c.IsExpired(now) {
		return CardExpired
	}
	return c.Status
}

func (c ScratchCard) RemainingUses() int {
	if c.UsageCount >= c.UsageLimit {
		return 0
	}
	return c.UsageLimit - c.UsageCount
}

// CheckUsable reports why the card cannot be used to view studentID's result.
func (c ScratchCard) CheckUsable(now time.Time, studentID uint) error {
	switch {
	case c.Status == CardDeactivated:
		return ErrCardDeactivated
	case c.IsExpired(now):
		return ErrCardExpired
	case c.UsageCount >= c.UsageLimit:
		return ErrCardUsageExhausted
	case c.StudentID != nil && *c.StudentID != studentID:
		return ErrCardBoundElsewhere
	}
	return nil
}

// Toggle flips a card between unused and deactivated.
func (c *ScratchCard) Toggle() error {
	switch c.Status {
	case CardUnused:
		c.Status = CardDeactivated
	case CardDeactivated:
		c.Status = CardUnused
	default:
		return ErrCardNotToggleable
	}
	return nil
}

type CardFilter struct {
	Status CardStatus
	Search string
	Page
}

type CardStats struct {
	Total       int64 `json:"total"`
	Unused      int64 `json:"unused"`
	Used        int64 `json:"used"`
	Expired     int64 `json:"expired"`
	Deactivated int64 `json:"deactivated"`
}

type CardVerification struct {
	Student Student     `json:"student"`
	Result  Result      `json:"result"`
	Card    CardSummary `json:"card"`
}

type CardSummary struct {
	SerialNumber  string     `json:"serial_number"`
	Status        CardStatus `json:"status"`
	UsageCount    int        `json:"usage_count"`
	UsageLimit    int        `json:"usage_limit"`
	RemainingUses int        `json:"remaining_uses"`
	ExpiryDate    time.Time  `json:"expiry_date"`
}

func (c ScratchCard) Summary(now time.Time) CardSummary {
	return CardSummary{
		SerialNumber:  c.SerialNumber,
		Status:        c.EffectiveStatus(now),
		UsageCount:    c.UsageCount,
		UsageLimit:    c.UsageLimit,
		RemainingUses: c.RemainingUses(),
		ExpiryDate:    c.ExpiryDate,
	}
}
