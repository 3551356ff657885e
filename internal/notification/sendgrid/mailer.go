// Package sendgrid e-mails registration decisions to prospective admins.
package sendgrid

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/at-ishikawa/microcourse/internal/config"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

// Message is a plain text e-mail to a single recipient.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

type Mailer struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
}

func NewMailer(cfg config.SendGridConfig) *Mailer {
	return &Mailer{
		key:        cfg.APIKey,
		host:       defaultHost,
		from:       sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		subjPrefix: "[" + cfg.FromName + "] ",
	}
}

// Send delivers msg. SendGrid answers 202 when the message is queued.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	mail := sgmail.NewV3Mail()
	mail.SetFrom(m.from)
	mail.AddPersonalizations(p)
	mail.AddContent(sgmail.NewContent("text/plain", msg.Body))

	req := sendgrid.GetRequest(m.key, endpoint, m.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(mail)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid.MakeRequestWithContext > %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid response error %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
