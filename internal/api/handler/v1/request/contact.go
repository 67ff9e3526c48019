package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (req *ContactRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Phone, validation.Match(phoneExp)),
		validation.Field(&req.Subject, validation.Length(0, 200)),
		validation.Field(&req.Message, validation.Required, validation.Length(5, 5000)),
	)
}

func (req *ContactRequest) ToDomain() domain.ContactMessage {
	return domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
}

type ContactQuery struct {
	PageQuery
	Status string `form:"status"`
}

func (q ContactQuery) ToFilter() domain.ContactFilter {
	return domain.ContactFilter{
		Status: domain.MessageStatus(q.Status),
		Page:   q.ToPage(),
	}
}
