package domain

import (
	"strings"
	"time"
)

type StudentStatus string

const (
	StudentActive      StudentStatus = "active"
	StudentInactive    StudentStatus = "inactive"
	StudentGraduated   StudentStatus = "graduated"
	StudentTransferred StudentStatus = "transferred"
)

var StudentStatuses = []StudentStatus{StudentActive, StudentInactive, StudentGraduated, StudentTransferred}

func (s StudentStatus) Valid() bool {
	for _, status := range StudentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Student struct {
	ID                   uint          `json:"id"`
	AdmissionNumber      string        `json:"admission_number"`
	FirstName            string        `json:"first_name"`
	MiddleName           string        `json:"middle_name"`
	LastName             string        `json:"last_name"`
	Gender               string        `json:"gender"`
	DateOfBirth          *time.Time    `json:"date_of_birth,omitempty"`
	ClassName            string        `json:"class_name"`
	Email                string        `json:"email"`
	Phone                string        `json:"phone"`
	Address              string        `json:"address"`
	GuardianName         string        `json:"guardian_name"`
	GuardianPhone        string        `json:"guardian_phone"`
	GuardianEmail        string        `json:"guardian_email"`
	GuardianRelationship string        `json:"guardian_relationship"`
	Status               StudentStatus `json:"status"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

func (s Student) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.FirstName, s.MiddleName, s.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

type StudentFilter struct {
	ClassName string
	Status    StudentStatus
	Search    string
	Page
}

// StudentImport summarises a bulk import. Failed rows are skipped, not fatal.
type StudentImport struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors,omitempty"`
}

type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
