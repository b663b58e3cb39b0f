package report

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrEmptyInput     = errors.New("empty table")
	ErrNotRectangular = errors.New("table is not rectangular")
)

// SourceNotFoundError is returned when the source worksheet does not exist.
type SourceNotFoundError struct {
	Sheet string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q does not exist", e.Sheet)
}

// ExportServiceError wraps a failure to export the report sheet.
type ExportServiceError struct {
	Format Format
	Err    error
}

func (e *ExportServiceError) Error() string {
	return fmt.Sprintf("error exporting report as %v (%v)", e.Format, e.Err)
}

func (e *ExportServiceError) Unwrap() error {
	return e.Err
}

// MailServiceError wraps a failure to send the report e-mail.
type MailServiceError struct {
	Recipient string
	Err       error
}

func (e *MailServiceError) Error() string {
	return fmt.Sprintf("error sending report to %v (%v)", e.Recipient, e.Err)
}

func (e *MailServiceError) Unwrap() error {
	return e.Err
}
