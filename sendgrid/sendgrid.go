// Package sendgrid sends report messages through the SendGrid v3 mail API, for deployments
// where the Gmail API is not available.
package sendgrid

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/machinelog/machinelog-app-sheets/report"
)

type client interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer sends messages as plain text mails with the exported reports attached.
type Mailer struct {
	client client
	from   *mail.Email
}

func NewMailer(key string, from string) *Mailer {
	return &Mailer{
		client: sendgrid.NewSendClient(key),
		from:   mail.NewEmail("", from),
	}
}

func (m *Mailer) Send(ctx context.Context, message report.Message) error {
	email := build(m.from, message)

	response, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return errors.Wrapf(err, "unable to send message to %v", message.To)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("SendGrid rejected message to %v (%v: %v)", message.To, response.StatusCode, response.Body)
	}

	return nil
}

func build(from *mail.Email, message report.Message) *mail.SGMailV3 {
	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", message.To))

	email := mail.NewV3Mail()
	email.SetFrom(from)
	email.Subject = message.Subject
	email.AddPersonalizations(personalization)
	email.AddContent(mail.NewContent("text/plain", message.Body))

	for _, a := range message.Attachments {
		attachment := mail.NewAttachment().
			SetContent(base64.StdEncoding.EncodeToString(a.Data)).
			SetType(a.MimeType).
			SetFilename(a.Name).
			SetDisposition("attachment")

		email.AddAttachment(attachment)
	}

	return email
}
