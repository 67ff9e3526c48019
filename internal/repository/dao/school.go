package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const schoolInfoID = 1

type SchoolInfo struct {
	ID                 uint `gorm:"primaryKey"`
	Name               string
	Motto              string
	Address            string
	Phone              string
	Email              string
	PrincipalName      string
	LogoURL            string
	About              string `gorm:"type:text"`
	MaintenanceMode    bool   `gorm:"not null;default:false"`
	MaintenanceMessage string
	UpdatedAt          time.Time
}

type SchoolInfoDAO struct {
	db *gorm.DB
}

func NewSchoolInfoDAO(db *gorm.DB) *SchoolInfoDAO {
	return &SchoolInfoDAO{
		db: db,
	}
}

func (d *SchoolInfoDAO) Get(ctx context.Context) (SchoolInfo, error) {
	info := SchoolInfo{ID: schoolInfoID}

	err := d.db.WithContext(ctx).Where(SchoolInfo{ID: schoolInfoID}).FirstOrCreate(&info).Error
	if err != nil {
		return SchoolInfo{}, err
	}

	return info, nil
}

func (d *SchoolInfoDAO) Save(ctx context.Context, info SchoolInfo) (SchoolInfo, error) {
	info.ID = schoolInfoID

	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&info).Error
	if err != nil {
		return SchoolInfo{}, err
	}

	return info, nil
}
