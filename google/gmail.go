package google

import (
	"context"
	"encoding/base64"

	"github.com/pkg/errors"
	"google.golang.org/api/gmail/v1"

	"github.com/machinelog/machinelog-app-sheets/report"
)

// Gmail sends report messages from the authorised account.
type Gmail struct {
	service *gmail.Service
	from    string
}

func NewGmail(service *gmail.Service, from string) *Gmail {
	return &Gmail{
		service: service,
		from:    from,
	}
}

func (g *Gmail) Send(ctx context.Context, message report.Message) error {
	raw, err := MIME(g.from, message)
	if err != nil {
		return err
	}

	msg := gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}

	if _, err := g.service.Users.Messages.Send("me", &msg).Context(ctx).Do(); err != nil {
		return errors.Wrapf(err, "unable to send message to %v", message.To)
	}

	return nil
}
