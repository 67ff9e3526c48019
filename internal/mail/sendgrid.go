package mail

import (
	"net/http"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type SendGridSender struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
}

var _ Sender = (*SendGridSender)(nil)

func NewSendGridSender(key, appName string, from mail.Address) *SendGridSender {
	return &SendGridSender{
		key:        key,
		from:       sgmail.NewEmail(from.Name, from.Address),
		subjPrefix: "[" + appName + "] ",
	}
}

func (s *SendGridSender) SendMessages(messages ...*Message) {
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		msg := msg
		go func() {
			if err := msg.Render(); err != nil {
				zap.L().Error("rendering email", zap.String("template", msg.TemplateName), zap.Error(err))
				return
			}
			if msg.HasRecipients() && msg.HasContent() {
				s.send(msg)
			}
		}()
	}
}

func (s *SendGridSender) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", msg.TextContent),
		sgmail.NewContent("text/html", msg.HTMLContent),
	)

	return m
}

func (s *SendGridSender) send(msg *Message) {
	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		zap.L().Error("sending email", zap.String("subject", msg.Subject), zap.Error(err))
	} else if res.StatusCode >= http.StatusBadRequest {
		zap.L().Error("sending email",
			zap.String("subject", msg.Subject),
			zap.Int("status", res.StatusCode),
			zap.String("body", res.Body),
		)
	}
}
