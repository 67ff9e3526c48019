package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("contact message not found")

type ContactMessage struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null"`
	Phone     string
	Subject   string `gorm:"not null"`
	Message   string `gorm:"type:text;not null"`
	Status    string `gorm:"index;not null;default:new"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ContactFilter struct {
	Status string
	Limit  int
	Offset int
}

type ContactDAO struct {
	db *gorm.DB
}

func NewContactDAO(db *gorm.DB) *ContactDAO {
	return &ContactDAO{
		db: db,
	}
}

func (d *ContactDAO) Insert(ctx context.Context, msg ContactMessage) (ContactMessage, error) {
	if err := d.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return ContactMessage{}, err
	}

	return msg, nil
}

func (d *ContactDAO) List(ctx context.Context, filter ContactFilter) ([]ContactMessage, int64, error) {
	query := d.db.WithContext(ctx).Model(&ContactMessage{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgs []ContactMessage
	query = query.Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&msgs).Error; err != nil {
		return nil, 0, err
	}

	return msgs, total, nil
}

func (d *ContactDAO) UpdateStatus(ctx context.Context, id uint, status string) (ContactMessage, error) {
	result := d.db.WithContext(ctx).Model(&ContactMessage{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return ContactMessage{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ContactMessage{}, ErrMessageNotFound
	}

	var msg ContactMessage
	if err := d.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return ContactMessage{}, err
	}

	return msg, nil
}

func (d *ContactDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&ContactMessage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}

	return nil
}

func (d *ContactDAO) CountByStatus(ctx context.Context, status string) (int64, error) {
	var total int64
	if err := d.db.WithContext(ctx).Model(&ContactMessage{}).Where("status = ?", status).Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}
