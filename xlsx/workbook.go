// Package xlsx implements the worksheet ports on a local Excel workbook, for running the
// row exporter and report pipeline against a downloaded copy of the form responses.
package xlsx

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/machinelog/machinelog-app-sheets/report"
)

const (
	minColumnWidth = 8.0
	maxColumnWidth = 100.0
)

// Workbook wraps an excelize workbook. Changes are held in memory until Save.
type Workbook struct {
	file *excelize.File
	path string
}

func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open workbook %v", path)
	}

	return &Workbook{
		file: f,
		path: path,
	}, nil
}

func New(f *excelize.File, path string) *Workbook {
	return &Workbook{
		file: f,
		path: path,
	}
}

func (w *Workbook) ID() string {
	return w.path
}

func (w *Workbook) File() *excelize.File {
	return w.file
}

func (w *Workbook) Save() error {
	if err := w.file.SaveAs(w.path); err != nil {
		return errors.Wrapf(err, "unable to save workbook %v", w.path)
	}

	return nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

func (w *Workbook) Headers(ctx context.Context, sheet string) ([]string, error) {
	title, ok := w.title(sheet)
	if !ok {
		return nil, fmt.Errorf("no worksheet named '%v'", sheet)
	}

	rows, err := w.file.GetRows(title)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row in '%v'", sheet)
	}

	return rows[0], nil
}

// Row retrieves a single 1-based row, padded with nil to 'columns' cells.
func (w *Workbook) Row(ctx context.Context, sheet string, row int, columns int) ([]any, error) {
	title, ok := w.title(sheet)
	if !ok {
		return nil, fmt.Errorf("no worksheet named '%v'", sheet)
	}

	rows, err := w.file.GetRows(title)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	values := make([]any, columns)
	if row > 0 && row <= len(rows) {
		for i, v := range rows[row-1] {
			if i < columns && v != "" {
				values[i] = v
			}
		}
	}

	return values, nil
}

func (w *Workbook) SetFormula(ctx context.Context, sheet string, row, column int, formula string) error {
	title, ok := w.title(sheet)
	if !ok {
		return fmt.Errorf("no worksheet named '%v'", sheet)
	}

	cell, err := excelize.CoordinatesToCellName(column, row)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(w.file.SetCellFormula(title, cell, strings.TrimPrefix(formula, "=")))
}

func (w *Workbook) Sheet(ctx context.Context, title string) (report.Sheet, bool, error) {
	for id, name := range w.file.GetSheetMap() {
		if normalise(name) == normalise(title) {
			return report.Sheet{ID: int64(id), Title: name}, true, nil
		}
	}

	return report.Sheet{}, false, nil
}

func (w *Workbook) Values(ctx context.Context, sheet report.Sheet) ([][]any, error) {
	rows, err := w.file.GetRows(sheet.Title)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	values := [][]any{}
	for _, row := range rows {
		r := []any{}
		for _, v := range row {
			r = append(r, v)
		}

		values = append(values, r)
	}

	return values, nil
}

func (w *Workbook) AddSheet(ctx context.Context, title string) (report.Sheet, error) {
	if _, err := w.file.NewSheet(title); err != nil {
		return report.Sheet{}, errors.Wrapf(err, "unable to add worksheet '%v'", title)
	}

	sheet, ok, err := w.Sheet(ctx, title)
	if err != nil {
		return report.Sheet{}, err
	} else if !ok {
		return report.Sheet{}, fmt.Errorf("missing new worksheet '%v'", title)
	}

	return sheet, nil
}

func (w *Workbook) DeleteSheet(ctx context.Context, sheet report.Sheet) error {
	return errors.WithStack(w.file.DeleteSheet(sheet.Title))
}

func (w *Workbook) SetValues(ctx context.Context, sheet report.Sheet, values [][]any) error {
	for i, row := range values {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.WithStack(err)
		}

		r := row
		if err := w.file.SetSheetRow(sheet.Title, cell, &r); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

// AutoResize approximates column auto-fit by sizing each column to its longest value.
func (w *Workbook) AutoResize(ctx context.Context, sheet report.Sheet, columns int) error {
	rows, err := w.file.GetRows(sheet.Title)
	if err != nil {
		return errors.WithStack(err)
	}

	widths := make([]float64, columns)
	for _, row := range rows {
		for i, v := range row {
			if i < columns {
				widths[i] = max(widths[i], float64(utf8.RuneCountInString(v)+2))
			}
		}
	}

	for i, width := range widths {
		column, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return errors.WithStack(err)
		}

		width = min(max(width, minColumnWidth), maxColumnWidth)
		if err := w.file.SetColWidth(sheet.Title, column, column, width); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

func (w *Workbook) AddConditionalFormat(ctx context.Context, sheet report.Sheet, rule report.Rule, area report.Range) error {
	ref, err := area.A1()
	if err != nil {
		return err
	}

	colour := strings.TrimPrefix(strings.ToUpper(rule.Background), "#")
	style, err := w.file.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colour}},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	format := []excelize.ConditionalFormatOptions{
		{
			Type:     "formula",
			Criteria: strings.TrimPrefix(rule.Formula(1), "="),
			Format:   &style,
		},
	}

	return errors.WithStack(w.file.SetConditionalFormat(sheet.Title, ref, format))
}

// Sheets returns the worksheet titles in workbook order.
func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

func (w *Workbook) title(sheet string) (string, bool) {
	for _, t := range w.file.GetSheetList() {
		if normalise(t) == normalise(sheet) {
			return t, true
		}
	}

	return "", false
}

func normalise(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
