package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrCardNotFound    = errors.New("scratch card not found")
	ErrCardCollision   = errors.New("scratch card pin or serial number already exists")
	ErrCardUnavailable = errors.New("scratch card can no longer be used")
)

type ScratchCard struct {
	ID           uint      `gorm:"primaryKey"`
	SerialNumber string    `gorm:"unique;not null"`
	PIN          string    `gorm:"column:pin;unique;not null"`
	Status       string    `gorm:"index;not null;default:unused"`
	UsageCount   int       `gorm:"not null;default:0"`
	UsageLimit   int       `gorm:"not null;default:5"`
	ExpiryDate   time.Time `gorm:"not null"`
	StudentID    *uint     `gorm:"index"`
	LastUsedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CardFilter struct {
	// Status is matched against the effective status, so "expired"
	// selects by date and the other statuses exclude expired cards.
	Status string
	Search string
	Now    time.Time
	Limit  int
	Offset int
}

type CardCounts struct {
	Total       int64
	Unused      int64
	Used        int64
	Expired     int64
	Deactivated int64
}

type ScratchCardDAO struct {
	db *gorm.DB
}

func NewScratchCardDAO(db *gorm.DB) *ScratchCardDAO {
	return &ScratchCardDAO{
		db: db,
	}
}

func (d *ScratchCardDAO) InsertBatch(ctx context.Context, cards []ScratchCard) ([]ScratchCard, error) {
	err := d.db.WithContext(ctx).CreateInBatches(&cards, 100).Error
	if err != nil {
		if isUniqueViolation(err, "uni_scratch_cards_pin") || isUniqueViolation(err, "uni_scratch_cards_serial_number") {
			return nil, ErrCardCollision
		}

		return nil, err
	}

	return cards, nil
}

func (d *ScratchCardDAO) FindByID(ctx context.Context, id uint) (ScratchCard, error) {
	return d.findOne(ctx, "id = ?", id)
}

func (d *ScratchCardDAO) FindByPIN(ctx context.Context, pin string) (ScratchCard, error) {
	return d.findOne(ctx, "pin = ?", pin)
}

func (d *ScratchCardDAO) findOne(ctx context.Context, query string, args ...interface{}) (ScratchCard, error) {
	var card ScratchCard

	err := d.db.WithContext(ctx).Where(query, args...).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ScratchCard{}, ErrCardNotFound
		}

		return ScratchCard{}, err
	}

	return card, nil
}

func (d *ScratchCardDAO) List(ctx context.Context, filter CardFilter) ([]ScratchCard, int64, error) {
	query := d.db.WithContext(ctx).Model(&ScratchCard{})
	switch filter.Status {
	case "":
	case "expired":
		query = query.Where("expiry_date < ?", filter.Now)
	default:
		query = query.Where("status = ? AND expiry_date >= ?", filter.Status, filter.Now)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("serial_number ILIKE ? OR pin ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cards []ScratchCard
	query = query.Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&cards).Error; err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

func (d *ScratchCardDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	return d.updateColumn(ctx, id, "status", status)
}

func (d *ScratchCardDAO) UpdatePIN(ctx context.Context, id uint, pin string) error {
	err := d.updateColumn(ctx, id, "pin", pin)
	if isUniqueViolation(err, "uni_scratch_cards_pin") {
		return ErrCardCollision
	}

	return err
}

func (d *ScratchCardDAO) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	result := d.db.WithContext(ctx).Model(&ScratchCard{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}

	return nil
}

// RecordUsage consumes one use of the card for studentID. The update is
// guarded so concurrent checks can never push usage_count past usage_limit.
func (d *ScratchCardDAO) RecordUsage(ctx context.Context, id, studentID uint, now time.Time) (ScratchCard, error) {
	result := d.db.WithContext(ctx).Model(&ScratchCard{}).
		Where("id = ?", id).
		Where("usage_count < usage_limit").
		Where("status <> ?", "deactivated").
		Where("expiry_date >= ?", now).
		Where("student_id IS NULL OR student_id = ?", studentID).
		Updates(map[string]interface{}{
			"usage_count":  gorm.Expr("usage_count + 1"),
			"status":       "used",
			"student_id":   studentID,
			"last_used_at": now,
		})
	if result.Error != nil {
		return ScratchCard{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ScratchCard{}, ErrCardUnavailable
	}

	return d.FindByID(ctx, id)
}

func (d *ScratchCardDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&ScratchCard{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}

	return nil
}

// Counts groups cards by effective status at now.
func (d *ScratchCardDAO) Counts(ctx context.Context, now time.Time) (CardCounts, error) {
	var counts CardCounts

	err := d.db.WithContext(ctx).Model(&ScratchCard{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE expiry_date >= ? AND status = 'unused') AS unused,
			COUNT(*) FILTER (WHERE expiry_date >= ? AND status = 'used') AS used,
			COUNT(*) FILTER (WHERE expiry_date < ?) AS expired,
			COUNT(*) FILTER (WHERE expiry_date >= ? AND status = 'deactivated') AS deactivated`,
			now, now, now, now).
		Scan(&counts).Error
	if err != nil {
		return CardCounts{}, err
	}

	return counts, nil
}
