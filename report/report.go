// Package report rebuilds a report worksheet from a form responses worksheet, highlights
// overdue entries, exports the report and e-mails it.
package report

import (
	"context"
	"fmt"
	"strings"
)

type Format string

const (
	PDF  Format = "pdf"
	XLSX Format = "xlsx"
)

// Sheet identifies a worksheet within a workbook.
type Sheet struct {
	ID    int64
	Title string
}

// Artifact is an exported report file.
type Artifact struct {
	Name     string
	MimeType string
	Data     []byte
}

type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Artifact
}

// Workbook is the set of worksheet operations used to build the report sheet. Sheet
// returns ok=false (and no error) if no worksheet has the (case-insensitive) title.
type Workbook interface {
	ID() string
	Sheet(ctx context.Context, title string) (sheet Sheet, ok bool, err error)
	Values(ctx context.Context, sheet Sheet) ([][]any, error)
	AddSheet(ctx context.Context, title string) (Sheet, error)
	DeleteSheet(ctx context.Context, sheet Sheet) error
	SetValues(ctx context.Context, sheet Sheet, values [][]any) error
	AutoResize(ctx context.Context, sheet Sheet, columns int) error
	AddConditionalFormat(ctx context.Context, sheet Sheet, rule Rule, area Range) error
}

// Exporter serializes a single worksheet to a binary artifact.
type Exporter interface {
	Export(ctx context.Context, workbook string, sheet Sheet, format Format) (Artifact, error)
}

// Mailer sends a message. Delivery is not confirmed.
type Mailer interface {
	Send(ctx context.Context, message Message) error
}

// Archiver keeps a copy of an exported report, returning a link to the copy.
type Archiver interface {
	Archive(ctx context.Context, artifact Artifact) (string, error)
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return PDF, nil

	case "xlsx", "excel":
		return XLSX, nil

	default:
		return "", fmt.Errorf("invalid export format '%v' - expected 'pdf' or 'xlsx'", s)
	}
}

func (f Format) MimeType() string {
	switch f {
	case PDF:
		return "application/pdf"

	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	default:
		return "application/octet-stream"
	}
}

func (f Format) Filename(name string) string {
	return fmt.Sprintf("%v.%v", name, f)
}
