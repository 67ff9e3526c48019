// Package mail sends transactional e-mail: admission acknowledgements and
// admin notifications.
package mail

import (
	htmltemplate "html/template"
	"net/mail"
	"strings"
	texttemplate "text/template"
)

type Message struct {
	To      []mail.Address
	Subject string

	TemplateName string
	TemplateData interface{}
	TextContent  string
	HTMLContent  string
}

// Sender delivers messages without blocking the caller.
type Sender interface {
	SendMessages(messages ...*Message)
}

func (m *Message) HasRecipients() bool {
	return len(m.To) > 0
}

func (m *Message) HasContent() bool {
	return m.TextContent != "" || m.HTMLContent != ""
}

// Render fills TextContent and HTMLContent from the named template.
func (m *Message) Render() error {
	if m.TemplateName == "" {
		return nil
	}
	tpl, ok := templates[m.TemplateName]
	if !ok {
		return ErrUnknownTemplate
	}

	text := new(strings.Builder)
	if err := tpl.text.Execute(text, m.TemplateData); err != nil {
		return err
	}
	html := new(strings.Builder)
	if err := tpl.html.Execute(html, m.TemplateData); err != nil {
		return err
	}
	m.TextContent = text.String()
	m.HTMLContent = html.String()

	return nil
}

type template struct {
	text *texttemplate.Template
	html *htmltemplate.Template
}

func newTemplate(name, text, html string) template {
	return template{
		text: texttemplate.Must(texttemplate.New(name).Parse(text)),
		html: htmltemplate.Must(htmltemplate.New(name).Parse(html)),
	}
}
