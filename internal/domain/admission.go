package domain

import (
	"time"
)

type AdmissionStatus string

const (
	AdmissionPending   AdmissionStatus = "pending"
	AdmissionReviewing AdmissionStatus = "reviewing"
	AdmissionAccepted  AdmissionStatus = "accepted"
	AdmissionRejected  AdmissionStatus = "rejected"
)

var AdmissionStatuses = []AdmissionStatus{AdmissionPending, AdmissionReviewing, AdmissionAccepted, AdmissionRejected}

func (s AdmissionStatus) Valid() bool {
	for _, status := range AdmissionStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type AdmissionApplication struct {
	ID                uint            `json:"id"`
	ApplicationNumber string          `json:"application_number"`
	FirstName         string          `json:"first_name"`
	LastName          string          `json:"last_name"`
	Gender            string          `json:"gender"`
	DateOfBirth       *time.Time      `json:"date_of_birth,omitempty"`
	ClassApplying     string          `json:"class_applying"`
	PreviousSchool    string          `json:"previous_school"`
	ParentName        string          `json:"parent_name"`
	ParentEmail       string          `json:"parent_email"`
	ParentPhone       string          `json:"parent_phone"`
	Address           string          `json:"address"`
	Notes             string          `json:"notes"`
	Status            AdmissionStatus `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type AdmissionFilter struct {
	Status AdmissionStatus
	Search string
	Page
}

type AdmissionSettings struct {
	IsOpen           bool       `json:"is_open"`
	Session          string     `json:"session"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	ApplicationFee   float64    `json:"application_fee"`
	AvailableClasses []string   `json:"available_classes"`
	Requirements     []string   `json:"requirements"`
	Instructions     string     `json:"instructions"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// AcceptingApplications reports whether a new application may be submitted at now.
func (s AdmissionSettings) AcceptingApplications(now time.Time) bool {
	if !s.IsOpen {
		return false
	}
	return s.Deadline == nil || !now.After(*s.Deadline)
}

// OffersClass reports whether className is open for admission. An empty
// class list means every class is open.
func (s AdmissionSettings) OffersClass(className string) bool {
	if len(s.AvailableClasses) == 0 {
		return true
	}
	for _, c := range s.AvailableClasses {
		if c == className {
			return true
		}
	}
	return false
}
