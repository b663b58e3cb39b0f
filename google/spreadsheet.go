// Package google implements the worksheet, document, export and mail ports on top of the
// Google Sheets, Docs, Drive and Gmail APIs.
package google

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/sheets/v4"

	"github.com/machinelog/machinelog-app-sheets/report"
)

// Spreadsheet adapts a Google Sheets spreadsheet to the row exporter and report pipeline.
type Spreadsheet struct {
	service *sheets.Service
	id      string
}

// SpreadsheetID extracts the spreadsheet ID from a Google Sheets URL.
func SpreadsheetID(url string) (string, error) {
	match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}

func NewSpreadsheet(service *sheets.Service, id string) *Spreadsheet {
	return &Spreadsheet{
		service: service,
		id:      id,
	}
}

func (s *Spreadsheet) ID() string {
	return s.id
}

func (s *Spreadsheet) Headers(ctx context.Context, sheet string) ([]string, error) {
	response, err := s.service.Spreadsheets.Values.Get(s.id, fmt.Sprintf("%v!1:1", quote(sheet))).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to retrieve header row from '%v'", sheet)
	}

	if len(response.Values) == 0 {
		return nil, fmt.Errorf("missing header row in '%v'", sheet)
	}

	headers := []string{}
	for _, v := range response.Values[0] {
		headers = append(headers, fmt.Sprintf("%v", v))
	}

	return headers, nil
}

// Row retrieves a single 1-based row, padded with nil to 'columns' cells (the Sheets API
// omits trailing empty cells).
func (s *Spreadsheet) Row(ctx context.Context, sheet string, row int, columns int) ([]any, error) {
	response, err := s.service.Spreadsheets.Values.Get(s.id, fmt.Sprintf("%v!%v:%v", quote(sheet), row, row)).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to retrieve row %v from '%v'", row, sheet)
	}

	values := make([]any, columns)
	if len(response.Values) > 0 {
		copy(values, response.Values[0])
	}

	return values, nil
}

func (s *Spreadsheet) SetFormula(ctx context.Context, sheet string, row, column int, formula string) error {
	cell, err := excelize.CoordinatesToCellName(column, row)
	if err != nil {
		return errors.WithStack(err)
	}

	rq := sheets.ValueRange{
		Values: [][]interface{}{
			[]interface{}{formula},
		},
	}

	if _, err := s.service.Spreadsheets.Values.Update(s.id, fmt.Sprintf("%v!%v", quote(sheet), cell), &rq).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *Spreadsheet) Sheet(ctx context.Context, title string) (report.Sheet, bool, error) {
	spreadsheet, err := s.service.Spreadsheets.Get(s.id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return report.Sheet{}, false, errors.Wrap(err, "failed to fetch spreadsheet")
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && normalise(sheet.Properties.Title) == normalise(title) {
			return report.Sheet{ID: sheet.Properties.SheetId, Title: sheet.Properties.Title}, true, nil
		}
	}

	return report.Sheet{}, false, nil
}

func (s *Spreadsheet) Values(ctx context.Context, sheet report.Sheet) ([][]any, error) {
	response, err := s.service.Spreadsheets.Values.Get(s.id, quote(sheet.Title)).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to retrieve data from '%v'", sheet.Title)
	}

	return response.Values, nil
}

func (s *Spreadsheet) AddSheet(ctx context.Context, title string) (report.Sheet, error) {
	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			&sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: title,
					},
				},
			},
		},
	}

	response, err := s.service.Spreadsheets.BatchUpdate(s.id, &rq).Context(ctx).Do()
	if err != nil {
		return report.Sheet{}, errors.WithStack(err)
	}

	if len(response.Replies) == 0 || response.Replies[0].AddSheet == nil || response.Replies[0].AddSheet.Properties == nil {
		return report.Sheet{}, fmt.Errorf("invalid response to add sheet '%v'", title)
	}

	properties := response.Replies[0].AddSheet.Properties

	return report.Sheet{ID: properties.SheetId, Title: properties.Title}, nil
}

func (s *Spreadsheet) DeleteSheet(ctx context.Context, sheet report.Sheet) error {
	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			&sheets.Request{
				DeleteSheet: &sheets.DeleteSheetRequest{
					SheetId:         sheet.ID,
					ForceSendFields: []string{"SheetId"},
				},
			},
		},
	}

	return s.batchUpdate(ctx, &rq)
}

func (s *Spreadsheet) SetValues(ctx context.Context, sheet report.Sheet, values [][]any) error {
	rq := sheets.ValueRange{
		Values: values,
	}

	if _, err := s.service.Spreadsheets.Values.Update(s.id, fmt.Sprintf("%v!A1", quote(sheet.Title)), &rq).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *Spreadsheet) AutoResize(ctx context.Context, sheet report.Sheet, columns int) error {
	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			&sheets.Request{
				AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
					Dimensions: &sheets.DimensionRange{
						SheetId:         sheet.ID,
						Dimension:       "COLUMNS",
						StartIndex:      0,
						EndIndex:        int64(columns),
						ForceSendFields: []string{"SheetId", "StartIndex"},
					},
				},
			},
		},
	}

	return s.batchUpdate(ctx, &rq)
}

func (s *Spreadsheet) AddConditionalFormat(ctx context.Context, sheet report.Sheet, rule report.Rule, area report.Range) error {
	rq, err := conditionalFormat(sheet, rule, area)
	if err != nil {
		return err
	}

	return s.batchUpdate(ctx, rq)
}

func (s *Spreadsheet) batchUpdate(ctx context.Context, rq *sheets.BatchUpdateSpreadsheetRequest) error {
	if _, err := s.service.Spreadsheets.BatchUpdate(s.id, rq).Context(ctx).Do(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func conditionalFormat(sheet report.Sheet, rule report.Rule, area report.Range) (*sheets.BatchUpdateSpreadsheetRequest, error) {
	red, green, blue, err := rule.RGB()
	if err != nil {
		return nil, err
	}

	return &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			&sheets.Request{
				AddConditionalFormatRule: &sheets.AddConditionalFormatRuleRequest{
					Index: 0,
					Rule: &sheets.ConditionalFormatRule{
						Ranges: []*sheets.GridRange{
							&sheets.GridRange{
								SheetId:          sheet.ID,
								StartRowIndex:    0,
								EndRowIndex:      int64(area.Rows),
								StartColumnIndex: 0,
								EndColumnIndex:   int64(area.Columns),
								ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
							},
						},
						BooleanRule: &sheets.BooleanRule{
							Condition: &sheets.BooleanCondition{
								Type: "CUSTOM_FORMULA",
								Values: []*sheets.ConditionValue{
									&sheets.ConditionValue{
										UserEnteredValue: rule.Formula(1),
									},
								},
							},
							Format: &sheets.CellFormat{
								BackgroundColor: &sheets.Color{
									Red:             red,
									Green:           green,
									Blue:            blue,
									ForceSendFields: []string{"Red", "Green", "Blue"},
								},
							},
						},
					},
					ForceSendFields: []string{"Index"},
				},
			},
		},
	}, nil
}

// quote returns a sheet title quoted for use in A1 notation.
func quote(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func normalise(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
