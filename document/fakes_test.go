package document

import (
	"context"
	"fmt"
)

type formula struct {
	sheet   string
	row     int
	column  int
	formula string
}

type table struct {
	headers  []string
	rows     map[int][]any
	formulas []formula
}

func (t *table) Headers(ctx context.Context, sheet string) ([]string, error) {
	return t.headers, nil
}

func (t *table) Row(ctx context.Context, sheet string, row int, columns int) ([]any, error) {
	values := make([]any, columns)
	copy(values, t.rows[row])

	return values, nil
}

func (t *table) SetFormula(ctx context.Context, sheet string, row, column int, f string) error {
	t.formulas = append(t.formulas, formula{sheet, row, column, f})

	return nil
}

type store struct {
	created []Document
	err     error
}

func (s *store) Create(ctx context.Context, doc Document) (Ref, error) {
	if s.err != nil {
		return Ref{}, s.err
	}

	s.created = append(s.created, doc)
	id := fmt.Sprintf("doc-%v", len(s.created))

	return Ref{
		ID:  id,
		URL: fmt.Sprintf("https://docs.google.com/document/d/%v/edit", id),
	}, nil
}
