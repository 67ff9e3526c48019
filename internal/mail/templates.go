package mail

import (
	"errors"
	"net/mail"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

var ErrUnknownTemplate = errors.New("unknown email template")

const (
	TemplateAdmissionReceived = "admission_received"
	TemplateAdmissionAlert    = "admission_alert"
	TemplateContactAlert      = "contact_alert"
)

var templates = map[string]template{
	TemplateAdmissionReceived: newTemplate(TemplateAdmissionReceived,
		`Dear {{.ParentName}},

We have received the application for {{.FirstName}} {{.LastName}} into {{.ClassApplying}}.
Your application number is {{.ApplicationNumber}}. Please quote it in any correspondence.
`,
		`<p>Dear {{.ParentName}},</p>
<p>We have received the application for <strong>{{.FirstName}} {{.LastName}}</strong> into {{.ClassApplying}}.</p>
<p>Your application number is <strong>{{.ApplicationNumber}}</strong>. Please quote it in any correspondence.</p>
`),
	TemplateAdmissionAlert: newTemplate(TemplateAdmissionAlert,
		`New application {{.ApplicationNumber}}: {{.FirstName}} {{.LastName}} for {{.ClassApplying}} ({{.ParentEmail}}).
`,
		`<p>New application <strong>{{.ApplicationNumber}}</strong>: {{.FirstName}} {{.LastName}} for {{.ClassApplying}} ({{.ParentEmail}}).</p>
`),
	TemplateContactAlert: newTemplate(TemplateContactAlert,
		`From: {{.Name}} <{{.Email}}> {{.Phone}}
Subject: {{.Subject}}

{{.Message}}
`,
		`<p>From: {{.Name}} &lt;{{.Email}}&gt; {{.Phone}}</p>
<p>Subject: {{.Subject}}</p>
<p>{{.Message}}</p>
`),
}

func AdmissionReceived(app domain.AdmissionApplication) *Message {
	return &Message{
		To:           []mail.Address{{Name: app.ParentName, Address: app.ParentEmail}},
		Subject:      "Application received - " + app.ApplicationNumber,
		TemplateName: TemplateAdmissionReceived,
		TemplateData: app,
	}
}

// AdmissionAlert notifies the school office; it is nil when adminEmail is empty.
func AdmissionAlert(adminEmail string, app domain.AdmissionApplication) *Message {
	if adminEmail == "" {
		return nil
	}
	return &Message{
		To:           []mail.Address{{Address: adminEmail}},
		Subject:      "New admission application",
		TemplateName: TemplateAdmissionAlert,
		TemplateData: app,
	}
}

func ContactAlert(adminEmail string, msg domain.ContactMessage) *Message {
	if adminEmail == "" {
		return nil
	}
	return &Message{
		To:           []mail.Address{{Address: adminEmail}},
		Subject:      "Contact form: " + msg.Subject,
		TemplateName: TemplateContactAlert,
		TemplateData: msg,
	}
}
