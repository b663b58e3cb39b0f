// Package record maps a worksheet data row onto its header row.
package record

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	UnknownMachine    = "Unknown"
	UnknownTimestamp  = "Not Available"
	machineColumn     = "machine"
	timestampColumn   = "timestamp"
	reportColumn      = "report"
	defaultExclusions = machineColumn + "," + timestampColumn + "," + reportColumn
)

var ErrLengthMismatch = errors.New("header and row lengths differ")

// Record is the label -> value view of one data row.
type Record struct {
	MachineNumber string
	Timestamp     string
	Fields        []Field
}

type Field struct {
	Label string
	Value string
}

// Exclusions is a set of lowercase column names that are never copied into Record.Fields.
type Exclusions map[string]struct{}

// DefaultExclusions returns the {machine, timestamp, report} exclusion set.
func DefaultExclusions() Exclusions {
	return NewExclusions(strings.Split(defaultExclusions, ",")...)
}

func NewExclusions(columns ...string) Exclusions {
	set := Exclusions{}
	for _, c := range columns {
		if k := strings.ToLower(strings.TrimSpace(c)); k != "" {
			set[k] = struct{}{}
		}
	}

	return set
}

func (x Exclusions) Excludes(header string) bool {
	_, ok := x[strings.ToLower(header)]
	return ok
}

func (x Exclusions) String() string {
	list := []string{}
	for k := range x {
		list = append(list, k)
	}

	sort.Strings(list)

	return strings.Join(list, ",")
}

// Map builds the Record for row against headers. Cells that are empty (or 'falsy' i.e.
// nil, "", false or 0) and excluded columns are skipped. The machine number and timestamp
// are taken from the first header containing 'machine' and 'timestamp' respectively.
func Map(headers []string, row []any, exclude Exclusions) (*Record, error) {
	if len(headers) != len(row) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d headers, %d cells", len(headers), len(row))
	}

	if exclude == nil {
		exclude = DefaultExclusions()
	}

	r := Record{
		MachineNumber: UnknownMachine,
		Timestamp:     UnknownTimestamp,
		Fields:        []Field{},
	}

	if ix := find(headers, machineColumn); ix != -1 {
		r.MachineNumber = stringify(row[ix])
	}

	if ix := find(headers, timestampColumn); ix != -1 {
		r.Timestamp = stringify(row[ix])
	}

	for i, v := range row {
		if truthy(v) && !exclude.Excludes(headers[i]) {
			r.Fields = append(r.Fields, Field{
				Label: headers[i],
				Value: stringify(v),
			})
		}
	}

	return &r, nil
}

func find(headers []string, substr string) int {
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), substr) {
			return i
		}
	}

	return -1
}
