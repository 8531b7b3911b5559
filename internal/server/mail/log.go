package mail

import (
	"context"

	"github.com/HazimBhatt/sharefolio/internal/logging"
)

// LogMailer writes messages to the log instead of sending them. It is used
// when no SMTP relay is configured and must not be used in production: the
// log then contains reset codes.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "log_mailer")}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info(ctx, "mail not sent, no SMTP relay configured",
		"to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}
