package request

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/service"
)

var pinExp = regexp.MustCompile(`^\d{12}$`)

type GenerateCardsRequest struct {
	Count      int    `json:"count" example:"50"`
	UsageLimit int    `json:"usage_limit" example:"5"`
	ExpiryDate string `json:"expiry_date" example:"2025-12-31"`
}

func (req *GenerateCardsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Count, validation.Required, validation.Min(1), validation.Max(service.MaxCardBatch)),
		validation.Field(&req.UsageLimit, validation.Min(0), validation.Max(100)),
		validation.Field(&req.ExpiryDate, validation.Required, validation.Date(DateLayout)),
	)
}

// ToDomain makes the card valid through the whole expiry day.
func (req *GenerateCardsRequest) ToDomain() (service.GenerateCardsRequest, error) {
	expiry, err := parseDate(req.ExpiryDate)
	if err != nil {
		return service.GenerateCardsRequest{}, err
	}

	return service.GenerateCardsRequest{
		Count:      req.Count,
		UsageLimit: req.UsageLimit,
		ExpiryDate: expiry.Add(24*time.Hour - time.Second),
	}, nil
}

type VerifyScratchCardRequest struct {
	AdmissionNumber string `json:"admission_number"`
	PIN             string `json:"pin"`
	SerialNumber    string `json:"serial_number"`
	Session         string `json:"session" example:"2024/2025"`
	Term            string `json:"term" example:"First Term"`
}

func (req *VerifyScratchCardRequest) Validate() error {
	req.PIN = strings.ReplaceAll(strings.TrimSpace(req.PIN), "-", "")

	return validation.ValidateStruct(
		req,
		validation.Field(&req.AdmissionNumber, validation.Required),
		validation.Field(&req.PIN, validation.Required, validation.Match(pinExp)),
		validation.Field(&req.Session, validation.Required, validation.Match(sessionExp)),
		validation.Field(&req.Term, validation.Required, validation.In(termValues()...)),
	)
}

func (req *VerifyScratchCardRequest) ToDomain() service.CheckResultRequest {
	return service.CheckResultRequest{
		AdmissionNumber: req.AdmissionNumber,
		PIN:             req.PIN,
		SerialNumber:    req.SerialNumber,
		Session:         req.Session,
		Term:            domain.Term(req.Term),
	}
}

type CardQuery struct {
	PageQuery
	Status string `form:"status"`
}

func (q CardQuery) ToFilter() domain.CardFilter {
	return domain.CardFilter{
		Status: domain.CardStatus(q.Status),
		Search: q.Q,
		Page:   q.ToPage(),
	}
}
