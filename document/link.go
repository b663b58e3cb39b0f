package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	HeaderRow = 1
	LinkText  = "Open Document"
)

var (
	ErrHeaderRowSelected = errors.New("please select a data row, not the header row")
	ErrInvalidCell       = errors.New("invalid cell")
)

// LinkTable is the write side of a worksheet, as used by WriteLink.
type LinkTable interface {
	SetFormula(ctx context.Context, sheet string, row, column int, formula string) error
}

// WriteLink writes a clickable '=HYPERLINK(...)' formula for the document into the 1-based
// (row, column) cell. The header row is never overwritten.
func WriteLink(ctx context.Context, table LinkTable, sheet string, row, column int, ref Ref) error {
	if row == HeaderRow {
		return errors.WithStack(ErrHeaderRowSelected)
	}

	if row < 1 || column < 1 {
		return errors.Wrapf(ErrInvalidCell, "row:%v column:%v", row, column)
	}

	if err := table.SetFormula(ctx, sheet, row, column, Hyperlink(ref.URL, LinkText)); err != nil {
		return errors.Wrapf(err, "error writing document link to %v", cell(sheet, row, column))
	}

	return nil
}

// Hyperlink returns a spreadsheet HYPERLINK formula. Embedded double quotes are escaped
// by doubling them.
func Hyperlink(url, text string) string {
	escape := func(s string) string {
		return strings.ReplaceAll(s, `"`, `""`)
	}

	return fmt.Sprintf(`=HYPERLINK("%s", "%s")`, escape(url), escape(text))
}

func cell(sheet string, row, column int) string {
	if name, err := excelize.CoordinatesToCellName(column, row); err == nil {
		return fmt.Sprintf("'%v'!%v", sheet, name)
	}

	return fmt.Sprintf("'%v'!R%vC%v", sheet, row, column)
}
