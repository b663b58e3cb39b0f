package record

import (
	"errors"
	"reflect"
	"testing"
)

func TestMap(t *testing.T) {
	expected := Record{
		MachineNumber: "M1",
		Timestamp:     "2024-01-01",
		Fields: []Field{
			{"Status", "Overdue"},
		},
	}

	headers := []string{"Machine", "Timestamp", "Status", "Report"}
	row := []any{"M1", "2024-01-01", "Overdue", ""}

	r, err := Map(headers, row, DefaultExclusions())
	if err != nil {
		t.Fatalf("Unexpected error returned from Map (%v)", err)
	}

	if !reflect.DeepEqual(*r, expected) {
		t.Errorf("Incorrect record\n   expected: %v\n   got:      %v\n", expected, *r)
	}
}

func TestMapPreservesColumnOrder(t *testing.T) {
	expected := []Field{
		{"Technician", "Ann"},
		{"Status", "Done"},
		{"Hours", "1.5"},
		{"Notes", "replaced belt"},
	}

	headers := []string{"Technician", "MACHINE", "Status", "timestamp", "Hours", "Report", "Notes"}
	row := []any{"Ann", "M7", "Done", "2024-03-04 10:00", 1.5, "=HYPERLINK(...)", "replaced belt"}

	r, err := Map(headers, row, nil)
	if err != nil {
		t.Fatalf("Unexpected error returned from Map (%v)", err)
	}

	if !reflect.DeepEqual(r.Fields, expected) {
		t.Errorf("Incorrect fields\n   expected: %v\n   got:      %v\n", expected, r.Fields)
	}
}

func TestMapExcludesOnlyExactColumnNames(t *testing.T) {
	expected := []Field{
		{"Machine Number", "M3"},
		{"Report Date", "2024-05-01"},
	}

	headers := []string{"Machine Number", "Report Date", "REPORT"}
	row := []any{"M3", "2024-05-01", "link"}

	r, err := Map(headers, row, DefaultExclusions())
	if err != nil {
		t.Fatalf("Unexpected error returned from Map (%v)", err)
	}

	if !reflect.DeepEqual(r.Fields, expected) {
		t.Errorf("Incorrect fields\n   expected: %v\n   got:      %v\n", expected, r.Fields)
	}

	if r.MachineNumber != "M3" {
		t.Errorf("Incorrect machine number - expected:%v, got:%v", "M3", r.MachineNumber)
	}
}

func TestMapSkipsFalsyCells(t *testing.T) {
	expected := []Field{
		{"D", "true"},
		{"F", "x"},
	}

	headers := []string{"A", "B", "C", "D", "E", "F"}
	row := []any{nil, "", false, true, 0.0, "x"}

	r, err := Map(headers, row, DefaultExclusions())
	if err != nil {
		t.Fatalf("Unexpected error returned from Map (%v)", err)
	}

	if !reflect.DeepEqual(r.Fields, expected) {
		t.Errorf("Incorrect fields\n   expected: %v\n   got:      %v\n", expected, r.Fields)
	}
}

func TestMapFirstMatchWins(t *testing.T) {
	headers := []string{"Machine ID", "Timestamp", "Machine Location", "Edit Timestamp"}
	row := []any{"M9", "2024-02-02", "Bay 4", "2024-02-03"}

	r, err := Map(headers, row, DefaultExclusions())
	if err != nil {
		t.Fatalf("Unexpected error returned from Map (%v)", err)
	}

	if r.MachineNumber != "M9" {
		t.Errorf("Incorrect machine number - expected:%v, got:%v", "M9", r.MachineNumber)
	}

	if r.Timestamp != "2024-02-02" {
		t.Errorf("Incorrect timestamp - expected:%v, got:%v", "2024-02-02", r.Timestamp)
	}
}

func TestMapWithoutMachineOrTimestamp(t *testing.T) {
	r, err := Map([]string{"Status"}, []any{"OK"}, DefaultExclusions())
	if err != nil {
		t.Fatalf("Unexpected error returned from Map (%v)", err)
	}

	if r.MachineNumber != "Unknown" {
		t.Errorf("Incorrect machine number - expected:%v, got:%v", "Unknown", r.MachineNumber)
	}

	if r.Timestamp != "Not Available" {
		t.Errorf("Incorrect timestamp - expected:%v, got:%v", "Not Available", r.Timestamp)
	}
}

func TestMapWithMismatchedLengths(t *testing.T) {
	_, err := Map([]string{"Machine", "Status"}, []any{"M1"}, DefaultExclusions())
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestMapWithCustomExclusions(t *testing.T) {
	expected := []Field{
		{"Report", "R1"},
	}

	headers := []string{"Machine", "Status", "Report"}
	row := []any{"M1", "Overdue", "R1"}

	r, err := Map(headers, row, NewExclusions("machine", " STATUS "))
	if err != nil {
		t.Fatalf("Unexpected error returned from Map (%v)", err)
	}

	if !reflect.DeepEqual(r.Fields, expected) {
		t.Errorf("Incorrect fields\n   expected: %v\n   got:      %v\n", expected, r.Fields)
	}
}

func TestExclusionsString(t *testing.T) {
	if s := DefaultExclusions().String(); s != "machine,report,timestamp" {
		t.Errorf("Incorrect exclusions - expected:%v, got:%v", "machine,report,timestamp", s)
	}
}
