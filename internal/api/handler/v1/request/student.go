package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

type StudentRequest struct {
	AdmissionNumber      string `json:"admission_number"`
	FirstName            string `json:"first_name"`
	MiddleName           string `json:"middle_name"`
	LastName             string `json:"last_name"`
	Gender               string `json:"gender"`
	DateOfBirth          string `json:"date_of_birth" example:"2012-09-01"`
	ClassName            string `json:"class_name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Address              string `json:"address"`
	GuardianName         string `json:"guardian_name"`
	GuardianPhone        string `json:"guardian_phone"`
	GuardianEmail        string `json:"guardian_email"`
	GuardianRelationship string `json:"guardian_relationship"`
	Status               string `json:"status"`
}

func (req *StudentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.AdmissionNumber, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Gender, validation.In("male", "female", "Male", "Female")),
		validation.Field(&req.DateOfBirth, validation.Date(DateLayout)),
		validation.Field(&req.ClassName, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Email, is.Email),
		validation.Field(&req.Phone, validation.Match(phoneExp)),
		validation.Field(&req.GuardianPhone, validation.Match(phoneExp)),
		validation.Field(&req.GuardianEmail, is.Email),
		validation.Field(&req.Status, validation.In("active", "inactive", "graduated", "transferred")),
	)
}

func (req *StudentRequest) ToDomain() (domain.Student, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return domain.Student{}, err
	}

	return domain.Student{
		AdmissionNumber:      req.AdmissionNumber,
		FirstName:            req.FirstName,
		MiddleName:           req.MiddleName,
		LastName:             req.LastName,
		Gender:               req.Gender,
		DateOfBirth:          dob,
		ClassName:            req.ClassName,
		Email:                req.Email,
		Phone:                req.Phone,
		Address:              req.Address,
		GuardianName:         req.GuardianName,
		GuardianPhone:        req.GuardianPhone,
		GuardianEmail:        req.GuardianEmail,
		GuardianRelationship: req.GuardianRelationship,
		Status:               domain.StudentStatus(req.Status),
	}, nil
}

type StudentQuery struct {
	PageQuery
	ClassName string `form:"class_name"`
	Status    string `form:"status"`
}

func (q StudentQuery) ToFilter() domain.StudentFilter {
	return domain.StudentFilter{
		ClassName: q.ClassName,
		Status:    domain.StudentStatus(q.Status),
		Search:    q.Q,
		Page:      q.ToPage(),
	}
}
