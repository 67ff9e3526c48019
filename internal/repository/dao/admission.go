package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrApplicationNotFound     = errors.New("admission application not found")
	ErrApplicationNumberExists = errors.New("application number already exists")
)

type AdmissionApplication struct {
	ID                uint   `gorm:"primaryKey"`
	ApplicationNumber string `gorm:"unique;not null"`
	FirstName         string `gorm:"not null"`
	LastName          string `gorm:"not null"`
	Gender            string
	DateOfBirth       *time.Time
	ClassApplying     string `gorm:"not null"`
	PreviousSchool    string
	ParentName        string `gorm:"not null"`
	ParentEmail       string `gorm:"not null"`
	ParentPhone       string `gorm:"not null"`
	Address           string
	Notes             string `gorm:"type:text"`
	Status            string `gorm:"index;not null;default:pending"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AdmissionSettings holds a single row with ID 1.
type AdmissionSettings struct {
	ID               uint `gorm:"primaryKey"`
	IsOpen           bool `gorm:"not null;default:false"`
	Session          string
	Deadline         *time.Time
	ApplicationFee   float64
	AvailableClasses datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	Requirements     datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	Instructions     string         `gorm:"type:text"`
	UpdatedAt        time.Time
}

const admissionSettingsID = 1

type AdmissionFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

type AdmissionDAO struct {
	db *gorm.DB
}

func NewAdmissionDAO(db *gorm.DB) *AdmissionDAO {
	return &AdmissionDAO{
		db: db,
	}
}

func (d *AdmissionDAO) Insert(ctx context.Context, app AdmissionApplication) (AdmissionApplication, error) {
	if err := d.db.WithContext(ctx).Create(&app).Error; err != nil {
		if isUniqueViolation(err, "uni_admission_applications_application_number") {
			return AdmissionApplication{}, ErrApplicationNumberExists
		}

		return AdmissionApplication{}, err
	}

	return app, nil
}

func (d *AdmissionDAO) FindByID(ctx context.Context, id uint) (AdmissionApplication, error) {
	var app AdmissionApplication

	err := d.db.WithContext(ctx).First(&app, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdmissionApplication{}, ErrApplicationNotFound
		}

		return AdmissionApplication{}, err
	}

	return app, nil
}

func (d *AdmissionDAO) List(ctx context.Context, filter AdmissionFilter) ([]AdmissionApplication, int64, error) {
	query := d.db.WithContext(ctx).Model(&AdmissionApplication{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR application_number ILIKE ? OR parent_email ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []AdmissionApplication
	query = query.Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (d *AdmissionDAO) UpdateStatus(ctx context.Context, id uint, status string) (AdmissionApplication, error) {
	result := d.db.WithContext(ctx).Model(&AdmissionApplication{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return AdmissionApplication{}, result.Error
	}
	if result.RowsAffected == 0 {
		return AdmissionApplication{}, ErrApplicationNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *AdmissionDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&AdmissionApplication{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}

	return nil
}

func (d *AdmissionDAO) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	err := d.db.WithContext(ctx).Model(&AdmissionApplication{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}

	return counts, nil
}

// GetSettings returns the settings row, creating a closed default on first read.
func (d *AdmissionDAO) GetSettings(ctx context.Context) (AdmissionSettings, error) {
	settings := AdmissionSettings{
		ID:               admissionSettingsID,
		AvailableClasses: datatypes.JSON("[]"),
		Requirements:     datatypes.JSON("[]"),
	}

	err := d.db.WithContext(ctx).
		Where(AdmissionSettings{ID: admissionSettingsID}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return AdmissionSettings{}, err
	}

	return settings, nil
}

func (d *AdmissionDAO) SaveSettings(ctx context.Context, settings AdmissionSettings) (AdmissionSettings, error) {
	settings.ID = admissionSettingsID

	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&settings).Error
	if err != nil {
		return AdmissionSettings{}, err
	}

	return settings, nil
}
