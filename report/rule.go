package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	Overdue              = "Overdue"
	OverdueColour        = "#FFCCCC"
	DefaultOverdueColumn = "B"
)

// Rule is a single 'highlight the row when column X equals value' conditional format.
type Rule struct {
	Column     string
	Value      string
	Background string
}

// Range is a block of cells anchored at A1.
type Range struct {
	Rows    int
	Columns int
}

func OverdueRule(column string) Rule {
	return Rule{
		Column:     strings.ToUpper(strings.TrimSpace(column)),
		Value:      Overdue,
		Background: OverdueColour,
	}
}

func (r Rule) Validate() error {
	if !regexp.MustCompile(`^[A-Z]{1,3}$`).MatchString(r.Column) {
		return fmt.Errorf("invalid column '%v' - expected a column letter e.g. 'B'", r.Column)
	}

	if _, _, _, err := r.RGB(); err != nil {
		return err
	}

	return nil
}

// Formula returns the custom formula for the rule, relative to the first row of the
// range it is applied to e.g. =$B1="Overdue".
func (r Rule) Formula(row int) string {
	value := strings.ReplaceAll(r.Value, `"`, `""`)

	return fmt.Sprintf(`=$%v%v="%v"`, r.Column, row, value)
}

// RGB returns the background colour as fractional red, green and blue components.
func (r Rule) RGB() (float64, float64, float64, error) {
	match := regexp.MustCompile(`^#?([0-9a-fA-F]{2})([0-9a-fA-F]{2})([0-9a-fA-F]{2})$`).FindStringSubmatch(r.Background)
	if len(match) < 4 {
		return 0, 0, 0, fmt.Errorf("invalid background colour '%v' - expected something like '#FFCCCC'", r.Background)
	}

	rgb := [3]float64{}
	for i, hex := range match[1:] {
		v, err := strconv.ParseUint(hex, 16, 8)
		if err != nil {
			return 0, 0, 0, errors.WithStack(err)
		}

		rgb[i] = float64(v) / 255.0
	}

	return rgb[0], rgb[1], rgb[2], nil
}

// A1 returns the range in A1 notation e.g. A1:D12.
func (r Range) A1() (string, error) {
	if r.Rows < 1 || r.Columns < 1 {
		return "", errors.WithStack(ErrEmptyInput)
	}

	end, err := excelize.CoordinatesToCellName(r.Columns, r.Rows)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return "A1:" + end, nil
}
