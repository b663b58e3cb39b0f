package report

import (
	"context"
	"fmt"
	"strings"
)

type workbook struct {
	id     string
	nextID int64
	sheets []*worksheet
	calls  []string
	failOn string
}

type worksheet struct {
	sheet   Sheet
	values  [][]any
	columns int
	rules   []string
}

func newWorkbook(source string, values [][]any) *workbook {
	return &workbook{
		id:     "workbook-1",
		nextID: 1,
		sheets: []*worksheet{
			{sheet: Sheet{ID: 0, Title: source}, values: values},
		},
	}
}

func (w *workbook) ID() string {
	return w.id
}

func (w *workbook) find(title string) *worksheet {
	for _, s := range w.sheets {
		if strings.EqualFold(s.sheet.Title, title) {
			return s
		}
	}

	return nil
}

func (w *workbook) get(sheet Sheet) (*worksheet, error) {
	for _, s := range w.sheets {
		if s.sheet.ID == sheet.ID {
			return s, nil
		}
	}

	return nil, fmt.Errorf("no sheet with ID %v", sheet.ID)
}

func (w *workbook) call(name string) error {
	w.calls = append(w.calls, name)
	if name == w.failOn {
		return fmt.Errorf("%v failed", name)
	}

	return nil
}

func (w *workbook) Sheet(ctx context.Context, title string) (Sheet, bool, error) {
	if s := w.find(title); s != nil {
		return s.sheet, true, nil
	}

	return Sheet{}, false, nil
}

func (w *workbook) Values(ctx context.Context, sheet Sheet) ([][]any, error) {
	s, err := w.get(sheet)
	if err != nil {
		return nil, err
	}

	return s.values, nil
}

func (w *workbook) AddSheet(ctx context.Context, title string) (Sheet, error) {
	if err := w.call("add"); err != nil {
		return Sheet{}, err
	}

	if w.find(title) != nil {
		return Sheet{}, fmt.Errorf("sheet '%v' already exists", title)
	}

	s := worksheet{sheet: Sheet{ID: w.nextID, Title: title}}
	w.sheets = append(w.sheets, &s)
	w.nextID++

	return s.sheet, nil
}

func (w *workbook) DeleteSheet(ctx context.Context, sheet Sheet) error {
	if err := w.call("delete"); err != nil {
		return err
	}

	for i, s := range w.sheets {
		if s.sheet.ID == sheet.ID {
			w.sheets = append(w.sheets[:i], w.sheets[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("no sheet with ID %v", sheet.ID)
}

func (w *workbook) SetValues(ctx context.Context, sheet Sheet, values [][]any) error {
	if err := w.call("set"); err != nil {
		return err
	}

	s, err := w.get(sheet)
	if err != nil {
		return err
	}

	s.values = values

	return nil
}

func (w *workbook) AutoResize(ctx context.Context, sheet Sheet, columns int) error {
	if err := w.call("resize"); err != nil {
		return err
	}

	s, err := w.get(sheet)
	if err != nil {
		return err
	}

	s.columns = columns

	return nil
}

func (w *workbook) AddConditionalFormat(ctx context.Context, sheet Sheet, rule Rule, area Range) error {
	if err := w.call("format"); err != nil {
		return err
	}

	s, err := w.get(sheet)
	if err != nil {
		return err
	}

	a1, err := area.A1()
	if err != nil {
		return err
	}

	s.rules = append(s.rules, fmt.Sprintf("%v %v %v", a1, rule.Formula(1), rule.Background))

	return nil
}

type exporter struct {
	exported []Sheet
	err      error
}

func (x *exporter) Export(ctx context.Context, workbook string, sheet Sheet, format Format) (Artifact, error) {
	if x.err != nil {
		return Artifact{}, x.err
	}

	x.exported = append(x.exported, sheet)

	return Artifact{
		Data: []byte(fmt.Sprintf("%v/%v.%v", workbook, sheet.ID, format)),
	}, nil
}

type mailer struct {
	sent []Message
	err  error
}

func (m *mailer) Send(ctx context.Context, message Message) error {
	if m.err != nil {
		return m.err
	}

	m.sent = append(m.sent, message)

	return nil
}

type archiver struct {
	archived []string
}

func (a *archiver) Archive(ctx context.Context, artifact Artifact) (string, error) {
	a.archived = append(a.archived, artifact.Name)

	return "https://drive.google.com/file/d/" + artifact.Name, nil
}
