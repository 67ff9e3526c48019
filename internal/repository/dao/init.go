package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Admin{},
		&Student{},
		&Result{},
		&SubjectScore{},
		&ScratchCard{},
		&News{},
		&AdmissionApplication{},
		&AdmissionSettings{},
		&ContactMessage{},
		&SchoolInfo{},
	)
}

// truncateAll empties every table between integration tests.
func truncateAll(db *gorm.DB) error {
	return db.Exec(`TRUNCATE TABLE
		subject_scores, results, scratch_cards, students, admins, news,
		admission_applications, admission_settings, contact_messages, school_infos
		RESTART IDENTITY CASCADE`).Error
}
