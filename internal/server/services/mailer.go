package services

import (
	"context"

	"github.com/dmitrijs2005/codehunt/internal/logging"
	"github.com/dmitrijs2005/codehunt/internal/masker"
)

// Mail is a transactional email carrying a single action link.
type Mail struct {
	To      string
	Subject string
	Link    string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// LogMailer writes mails to the log instead of delivering them. It is the
// development mailer: the link can be copied from the server output.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mailer")}
}

func (m *LogMailer) Send(ctx context.Context, mail Mail) error {
	m.logger.Info(ctx, "mail queued", "to", masker.Email(mail.To), "subject", mail.Subject, "link", mail.Link)
	return nil
}
