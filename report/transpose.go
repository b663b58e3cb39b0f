package report

import (
	"github.com/pkg/errors"
)

// Transpose returns the transpose of a non-empty rectangular table, i.e. out[i][j] = in[j][i].
func Transpose(rows [][]any) ([][]any, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.WithStack(ErrEmptyInput)
	}

	columns := len(rows[0])
	for i, row := range rows {
		if len(row) != columns {
			return nil, errors.Wrapf(ErrNotRectangular, "row %v has %v columns, expected %v", i+1, len(row), columns)
		}
	}

	out := make([][]any, columns)
	for i := range out {
		out[i] = make([]any, len(rows))
		for j, row := range rows {
			out[i][j] = row[i]
		}
	}

	return out, nil
}

// pad squares off a ragged table (as returned by the Sheets API, which trims trailing
// empty cells) by padding short rows with empty strings.
func pad(rows [][]any) [][]any {
	columns := 0
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
	}

	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = make([]any, columns)
		for j := range out[i] {
			if j < len(row) {
				out[i][j] = row[j]
			} else {
				out[i][j] = ""
			}
		}
	}

	return out
}
