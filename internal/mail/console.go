package mail

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// ConsoleSender logs messages instead of sending them.
type ConsoleSender struct {
	from       mail.Address
	subjPrefix string
	sync       bool
}

var _ Sender = (*ConsoleSender)(nil)

func NewConsoleSender(appName string, from mail.Address) *ConsoleSender {
	return &ConsoleSender{
		from:       from,
		subjPrefix: "[" + appName + "] ",
	}
}

// NewSyncConsoleSender logs messages on the calling goroutine. Used by tests.
func NewSyncConsoleSender() *ConsoleSender {
	return &ConsoleSender{sync: true}
}

func (s *ConsoleSender) SendMessages(messages ...*Message) {
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		if s.sync {
			s.send(msg)
			continue
		}
		go s.send(msg)
	}
}

func (s *ConsoleSender) send(msg *Message) {
	if err := msg.Render(); err != nil {
		zap.L().Error("rendering email", zap.String("template", msg.TemplateName), zap.Error(err))
		return
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return
	}

	to := make([]string, 0, len(msg.To))
	for _, a := range msg.To {
		to = append(to, a.String())
	}

	zap.L().Info("email",
		zap.String("from", s.from.String()),
		zap.String("to", strings.Join(to, ", ")),
		zap.String("subject", s.subjPrefix+msg.Subject),
		zap.String("body", msg.TextContent),
	)
}
