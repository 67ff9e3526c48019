package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

type SchoolInfoRequest struct {
	Name               string `json:"name"`
	Motto              string `json:"motto"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	PrincipalName      string `json:"principal_name"`
	LogoURL            string `json:"logo_url"`
	About              string `json:"about"`
	MaintenanceMode    bool   `json:"maintenance_mode"`
	MaintenanceMessage string `json:"maintenance_message"`
}

func (req *SchoolInfoRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Email, is.Email),
		validation.Field(&req.Phone, validation.Match(phoneExp)),
		validation.Field(&req.LogoURL, validation.Length(0, 500)),
		validation.Field(&req.MaintenanceMessage, validation.Length(0, 500)),
	)
}

func (req *SchoolInfoRequest) ToDomain() domain.SchoolInfo {
	return domain.SchoolInfo{
		Name:               req.Name,
		Motto:              req.Motto,
		Address:            req.Address,
		Phone:              req.Phone,
		Email:              req.Email,
		PrincipalName:      req.PrincipalName,
		LogoURL:            req.LogoURL,
		About:              req.About,
		MaintenanceMode:    req.MaintenanceMode,
		MaintenanceMessage: req.MaintenanceMessage,
	}
}
