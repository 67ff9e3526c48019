package response

import (
	"time"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Admin     domain.Admin `json:"admin"`
}

type List struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func NewList(data interface{}, total int64, page domain.Page) List {
	return List{
		Data:  data,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	}
}

type Message struct {
	Message string `json:"message"`
}

type Health struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// VerifyResponse is returned by a successful scratch-card result check.
// DownloadURL carries a short-lived token for the PDF.
type VerifyResponse struct {
	domain.CardVerification
	DownloadURL string `json:"download_url"`
}

type Maintenance struct {
	MaintenanceMode bool   `json:"maintenanceMode"`
	Message         string `json:"message"`
}
