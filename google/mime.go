package google

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"

	"github.com/pkg/errors"

	"github.com/machinelog/machinelog-app-sheets/report"
)

// MIME formats a message as an RFC 2822 multipart/mixed message with base64 encoded attachments.
func MIME(from string, message report.Message) ([]byte, error) {
	var b bytes.Buffer

	w := multipart.NewWriter(&b)

	header := func(k, v string) {
		fmt.Fprintf(&b, "%v: %v\r\n", k, v)
	}

	if from != "" {
		header("From", from)
	}

	header("To", message.To)
	header("Subject", mime.QEncoding.Encode("utf-8", message.Subject))
	header("MIME-Version", "1.0")
	header("Content-Type", fmt.Sprintf(`multipart/mixed; boundary="%v"`, w.Boundary()))
	b.WriteString("\r\n")

	text, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=utf-8"},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := quoted(text, message.Body); err != nil {
		return nil, err
	}

	for _, a := range message.Attachments {
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {fmt.Sprintf(`%v; name="%v"`, a.MimeType, a.Name)},
			"Content-Disposition":       {fmt.Sprintf(`attachment; filename="%v"`, a.Name)},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return nil, errors.WithStack(err)
		}

		encoded := base64.StdEncoding.EncodeToString(a.Data)
		for len(encoded) > 76 {
			fmt.Fprintf(part, "%v\r\n", encoded[:76])
			encoded = encoded[76:]
		}

		if encoded != "" {
			fmt.Fprintf(part, "%v\r\n", encoded)
		}
	}

	if err := w.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	return b.Bytes(), nil
}

func quoted(w io.Writer, body string) error {
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(strings.ReplaceAll(body, "\n", "\r\n"))); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(qp.Close())
}
