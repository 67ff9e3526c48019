package domain

import "time"

const (
	EventAdmissionSubmitted = "admission.submitted"
	EventContactReceived    = "contact.received"
	EventResultChecked      = "result.checked"
)

// Event is pushed to connected admin dashboards.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}
