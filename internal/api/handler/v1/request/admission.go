package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

type ApplicationRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Gender         string `json:"gender"`
	DateOfBirth    string `json:"date_of_birth" example:"2014-05-20"`
	ClassApplying  string `json:"class_applying"`
	PreviousSchool string `json:"previous_school"`
	ParentName     string `json:"parent_name"`
	ParentEmail    string `json:"parent_email"`
	ParentPhone    string `json:"parent_phone"`
	Address        string `json:"address"`
	Notes          string `json:"notes"`
}

func (req *ApplicationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Gender, validation.In("male", "female", "Male", "Female")),
		validation.Field(&req.DateOfBirth, validation.Required, validation.Date(DateLayout)),
		validation.Field(&req.ClassApplying, validation.Required),
		validation.Field(&req.ParentName, validation.Required),
		validation.Field(&req.ParentEmail, validation.Required, is.Email),
		validation.Field(&req.ParentPhone, validation.Required, validation.Match(phoneExp)),
		validation.Field(&req.Notes, validation.Length(0, 1000)),
	)
}

func (req *ApplicationRequest) ToDomain() (domain.AdmissionApplication, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return domain.AdmissionApplication{}, err
	}

	return domain.AdmissionApplication{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Gender:         req.Gender,
		DateOfBirth:    dob,
		ClassApplying:  req.ClassApplying,
		PreviousSchool: req.PreviousSchool,
		ParentName:     req.ParentName,
		ParentEmail:    req.ParentEmail,
		ParentPhone:    req.ParentPhone,
		Address:        req.Address,
		Notes:          req.Notes,
	}, nil
}

type AdmissionSettingsRequest struct {
	IsOpen           bool     `json:"is_open"`
	Session          string   `json:"session" example:"2025/2026"`
	Deadline         string   `json:"deadline" example:"2025-08-31"`
	ApplicationFee   float64  `json:"application_fee"`
	AvailableClasses []string `json:"available_classes"`
	Requirements     []string `json:"requirements"`
	Instructions     string   `json:"instructions"`
}

func (req *AdmissionSettingsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Session, validation.Match(sessionExp)),
		validation.Field(&req.Deadline, validation.Date(DateLayout)),
		validation.Field(&req.ApplicationFee, validation.Min(0.0)),
	)
}

// ToDomain keeps applications open until the end of the deadline day.
func (req *AdmissionSettingsRequest) ToDomain() (domain.AdmissionSettings, error) {
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return domain.AdmissionSettings{}, err
	}
	if deadline != nil {
		end := deadline.AddDate(0, 0, 1).Add(-1)
		deadline = &end
	}

	return domain.AdmissionSettings{
		IsOpen:           req.IsOpen,
		Session:          req.Session,
		Deadline:         deadline,
		ApplicationFee:   req.ApplicationFee,
		AvailableClasses: req.AvailableClasses,
		Requirements:     req.Requirements,
		Instructions:     req.Instructions,
	}, nil
}

type AdmissionQuery struct {
	PageQuery
	Status string `form:"status"`
}

func (q AdmissionQuery) ToFilter() domain.AdmissionFilter {
	return domain.AdmissionFilter{
		Status: domain.AdmissionStatus(q.Status),
		Search: q.Q,
		Page:   q.ToPage(),
	}
}
