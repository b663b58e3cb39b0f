package document

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/machinelog/machinelog-app-sheets/log"
	"github.com/machinelog/machinelog-app-sheets/record"
)

// RowSource is the read side of a worksheet. Row must return exactly 'columns' cells,
// padding trailing empty cells with nil.
type RowSource interface {
	Headers(ctx context.Context, sheet string) ([]string, error)
	Row(ctx context.Context, sheet string, row int, columns int) ([]any, error)
}

type Table interface {
	RowSource
	LinkTable
}

// Store creates documents. Create is not idempotent: every call creates a new document.
type Store interface {
	Create(ctx context.Context, doc Document) (Ref, error)
}

// Generator creates a report document for a worksheet row and links it into the row.
type Generator struct {
	Table      Table
	Store      Store
	Sheet      string
	LinkColumn int
	Exclude    record.Exclusions
	Now        func() time.Time
}

// Record reads the header row and the 1-based data row and maps them to a Record.
func (g *Generator) Record(ctx context.Context, row int) (*record.Record, error) {
	if row == HeaderRow {
		return nil, errors.WithStack(ErrHeaderRowSelected)
	}

	if row < 1 {
		return nil, errors.Wrapf(ErrInvalidCell, "row:%v", row)
	}

	headers, err := g.Table.Headers(ctx, g.Sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read header row from '%v'", g.Sheet)
	}

	values, err := g.Table.Row(ctx, g.Sheet, row, len(headers))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read row %v from '%v'", row, g.Sheet)
	}

	return record.Map(headers, values, g.Exclude)
}

// Generate creates the document for the row and writes the link into the link column.
func (g *Generator) Generate(ctx context.Context, row int) (Ref, error) {
	r, err := g.Record(ctx, row)
	if err != nil {
		log.Errorf(err, "row %v: could not read worksheet row", row)
		return Ref{}, err
	}

	doc := Render(r, g.now())

	log.Debugf("row %v: creating document '%v' (%v blocks)", row, doc.Title, len(doc.Blocks))

	ref, err := g.Store.Create(ctx, doc)
	if err != nil {
		log.Errorf(err, "row %v: could not create document", row)
		return Ref{}, err
	}

	log.Infof("row %v: created document %v", row, ref.URL)

	if err := WriteLink(ctx, g.Table, g.Sheet, row, g.LinkColumn, ref); err != nil {
		log.Errorf(err, "row %v: could not write document link", row)
		return ref, err
	}

	log.Infof("row %v: document link added to %v", row, cell(g.Sheet, row, g.LinkColumn))

	return ref, nil
}

// Text returns the flattened text version of the row.
func (g *Generator) Text(ctx context.Context, row int) (string, error) {
	r, err := g.Record(ctx, row)
	if err != nil {
		log.Errorf(err, "row %v: could not read worksheet row", row)
		return "", err
	}

	return record.Text(r), nil
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}

	return time.Now()
}
