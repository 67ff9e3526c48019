package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrAdmissionNumberExists = errors.New("admission number already exists")
	ErrStudentNotFound       = errors.New("student not found")
)

type Student struct {
	ID                   uint   `gorm:"primaryKey"`
	AdmissionNumber      string `gorm:"unique;not null"`
	FirstName            string `gorm:"not null"`
	MiddleName           string
	LastName             string `gorm:"not null"`
	Gender               string
	DateOfBirth          *time.Time
	ClassName            string `gorm:"index;not null"`
	Email                string
	Phone                string
	Address              string
	GuardianName         string
	GuardianPhone        string
	GuardianEmail        string
	GuardianRelationship string
	Status               string `gorm:"index;not null;default:active"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type StudentFilter struct {
	ClassName string
	Status    string
	Search    string
	Limit     int
	Offset    int
}

type StudentDAO struct {
	db *gorm.DB
}

func NewStudentDAO(db *gorm.DB) *StudentDAO {
	return &StudentDAO{
		db: db,
	}
}

func (d *StudentDAO) Insert(ctx context.Context, student Student) (Student, error) {
	result := d.db.WithContext(ctx).Create(&student)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_students_admission_number") {
			return Student{}, ErrAdmissionNumberExists
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) FindByID(ctx context.Context, id uint) (Student, error) {
	var student Student

	result := d.db.WithContext(ctx).First(&student, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Student{}, ErrStudentNotFound
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) FindByAdmissionNumber(ctx context.Context, admissionNumber string) (Student, error) {
	var student Student

	result := d.db.WithContext(ctx).First(&student, "LOWER(admission_number) = LOWER(?)", admissionNumber)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Student{}, ErrStudentNotFound
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) List(ctx context.Context, filter StudentFilter) ([]Student, int64, error) {
	query := d.db.WithContext(ctx).Model(&Student{})
	if filter.ClassName != "" {
		query = query.Where("class_name = ?", filter.ClassName)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR admission_number ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var students []Student
	query = query.Order("class_name, last_name, first_name, id")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (d *StudentDAO) Update(ctx context.Context, student Student) (Student, error) {
	result := d.db.WithContext(ctx).Model(&Student{ID: student.ID}).Select("*").Omit("id", "created_at").Updates(&student)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_students_admission_number") {
			return Student{}, ErrAdmissionNumberExists
		}

		return Student{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Student{}, ErrStudentNotFound
	}

	return d.FindByID(ctx, student.ID)
}

func (d *StudentDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Student{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStudentNotFound
	}

	return nil
}

func (d *StudentDAO) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	err := d.db.WithContext(ctx).Model(&Student{}).
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
