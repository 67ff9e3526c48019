package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrResultExists   = errors.New("result already exists for this student, session and term")
	ErrResultNotFound = errors.New("result not found")
)

const resultUniqueIndex = "idx_result_student_session_term"

type Result struct {
	ID               uint           `gorm:"primaryKey"`
	StudentID        uint           `gorm:"not null;uniqueIndex:idx_result_student_session_term"`
	Student          Student        `gorm:"constraint:OnDelete:CASCADE"`
	ClassName        string         `gorm:"not null;index:idx_result_group"`
	Session          string         `gorm:"not null;uniqueIndex:idx_result_student_session_term;index:idx_result_group"`
	Term             string         `gorm:"not null;uniqueIndex:idx_result_student_session_term;index:idx_result_group"`
	Subjects         []SubjectScore `gorm:"constraint:OnDelete:CASCADE"`
	TotalScore       float64
	Average          float64
	GPA              float64
	Grade            string
	Position         int
	OutOf            int
	TeacherComment   string
	PrincipalComment string
	DaysPresent      int
	DaysOpened       int
	NextTermBegins   *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type SubjectScore struct {
	ID       uint   `gorm:"primaryKey"`
	ResultID uint   `gorm:"not null;index"`
	Subject  string `gorm:"not null"`
	CA1      float64
	CA2      float64
	Exam     float64
	Total    float64
	Grade    string
	Remark   string
	Position int
}

type ResultFilter struct {
	StudentID uint
	ClassName string
	Session   string
	Term      string
	Limit     int
	Offset    int
}

type ResultDAO struct {
	db *gorm.DB
}

func NewResultDAO(db *gorm.DB) *ResultDAO {
	return &ResultDAO{
		db: db,
	}
}

func preloadResult(db *gorm.DB) *gorm.DB {
	return db.Preload("Student").Preload("Subjects", func(db *gorm.DB) *gorm.DB {
		return db.Order("subject_scores.id")
	})
}

func (d *ResultDAO) Insert(ctx context.Context, result Result) (Result, error) {
	err := d.db.WithContext(ctx).Omit("Student").Create(&result).Error
	if err != nil {
		if isUniqueViolation(err, resultUniqueIndex) {
			return Result{}, ErrResultExists
		}

		return Result{}, err
	}

	return d.FindByID(ctx, result.ID)
}

func (d *ResultDAO) FindByID(ctx context.Context, id uint) (Result, error) {
	var result Result

	err := preloadResult(d.db.WithContext(ctx)).First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{}, ErrResultNotFound
		}

		return Result{}, err
	}

	return result, nil
}

func (d *ResultDAO) FindByStudentSessionTerm(ctx context.Context, studentID uint, session, term string) (Result, error) {
	var result Result

	err := preloadResult(d.db.WithContext(ctx)).
		Where("student_id = ? AND session = ? AND term = ?", studentID, session, term).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{}, ErrResultNotFound
		}

		return Result{}, err
	}

	return result, nil
}

func (d *ResultDAO) List(ctx context.Context, filter ResultFilter) ([]Result, int64, error) {
	query := d.db.WithContext(ctx).Model(&Result{})
	if filter.StudentID != 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.ClassName != "" {
		query = query.Where("class_name = ?", filter.ClassName)
	}
	if filter.Session != "" {
		query = query.Where("session = ?", filter.Session)
	}
	if filter.Term != "" {
		query = query.Where("term = ?", filter.Term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []Result
	query = preloadResult(query).Order("session DESC, term, class_name, position, id")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// FindByClassSession returns every result of a class for a session, all terms.
func (d *ResultDAO) FindByClassSession(ctx context.Context, className, session string) ([]Result, error) {
	var results []Result

	err := preloadResult(d.db.WithContext(ctx)).
		Where("class_name = ? AND session = ?", className, session).
		Order("id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (d *ResultDAO) FindGroup(ctx context.Context, className, session, term string) ([]Result, error) {
	var results []Result

	err := preloadResult(d.db.WithContext(ctx)).
		Where("class_name = ? AND session = ? AND term = ?", className, session, term).
		Order("id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// Update replaces the result row and its subject rows.
func (d *ResultDAO) Update(ctx context.Context, result Result) (Result, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Result{ID: result.ID}).
			Select("*").
			Omit("id", "created_at", "Student", "Subjects").
			Updates(&result)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrResultNotFound
		}

		if err := tx.Where("result_id = ?", result.ID).Delete(&SubjectScore{}).Error; err != nil {
			return err
		}
		for i := range result.Subjects {
			result.Subjects[i].ID = 0
			result.Subjects[i].ResultID = result.ID
		}
		if len(result.Subjects) > 0 {
			if err := tx.Create(&result.Subjects).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if isUniqueViolation(err, resultUniqueIndex) {
			return Result{}, ErrResultExists
		}

		return Result{}, err
	}

	return d.FindByID(ctx, result.ID)
}

func (d *ResultDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("result_id = ?", id).Delete(&SubjectScore{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&Result{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrResultNotFound
		}

		return nil
	})
}

// UpdateGroup locks every result of a (class, session, term) group, lets fn
// rewrite their positions and persists them in the same transaction.
func (d *ResultDAO) UpdateGroup(ctx context.Context, className, session, term string, fn func([]Result)) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var results []Result

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("class_name = ? AND session = ? AND term = ?", className, session, term).
			Order("id").
			Find(&results).Error
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}

		ids := make([]uint, len(results))
		for i, r := range results {
			ids[i] = r.ID
		}

		var subjects []SubjectScore
		if err := tx.Where("result_id IN ?", ids).Order("id").Find(&subjects).Error; err != nil {
			return err
		}
		byResult := make(map[uint][]SubjectScore, len(results))
		for _, s := range subjects {
			byResult[s.ResultID] = append(byResult[s.ResultID], s)
		}
		for i := range results {
			results[i].Subjects = byResult[results[i].ID]
		}

		fn(results)

		for _, r := range results {
			err := tx.Model(&Result{}).Where("id = ?", r.ID).
				Updates(map[string]interface{}{"position": r.Position, "out_of": r.OutOf}).Error
			if err != nil {
				return err
			}
			for _, s := range r.Subjects {
				if err := tx.Model(&SubjectScore{}).Where("id = ?", s.ID).Update("position", s.Position).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

func (d *ResultDAO) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := d.db.WithContext(ctx).Model(&Result{}).Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}
