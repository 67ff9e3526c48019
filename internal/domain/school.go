package domain

import "time"

type SchoolInfo struct {
	Name               string    `json:"name"`
	Motto              string    `json:"motto"`
	Address            string    `json:"address"`
	Phone              string    `json:"phone"`
	Email              string    `json:"email"`
	PrincipalName      string    `json:"principal_name"`
	LogoURL            string    `json:"logo_url"`
	About              string    `json:"about"`
	MaintenanceMode    bool      `json:"maintenance_mode"`
	MaintenanceMessage string    `json:"maintenance_message"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type DashboardStats struct {
	Students        map[StudentStatus]int64   `json:"students"`
	TotalStudents   int64                     `json:"total_students"`
	Results         int64                     `json:"results"`
	Cards           CardStats                 `json:"cards"`
	Admissions      map[AdmissionStatus]int64 `json:"admissions"`
	UnreadMessages  int64                     `json:"unread_messages"`
	PublishedNews   int64                     `json:"published_news"`
	MaintenanceMode bool                      `json:"maintenance_mode"`
}
