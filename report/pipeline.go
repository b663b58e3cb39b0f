package report

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/machinelog/machinelog-app-sheets/log"
)

// Options replaces the fixed constants of the report script. Transpose, OverdueColumn and
// Format select between the 'transposed PDF' and 'as-is Excel' report variants.
type Options struct {
	Source           string
	Report           string
	Transpose        bool
	OverdueColumn    string
	Format           Format
	FileName         string
	Recipient        string
	Subject          string
	Body             string
	CleanupOnFailure bool
	DryRun           bool
}

type Pipeline struct {
	Workbook Workbook
	Exporter Exporter
	Mailer   Mailer
	Archiver Archiver
	Options  Options
}

type Result struct {
	Sheet    Sheet
	Rows     int
	Columns  int
	Artifact Artifact
	Archived string
	Sent     bool
}

var locks = struct {
	sync.Mutex
	reports map[string]chan struct{}
}{
	reports: map[string]chan struct{}{},
}

// Run rebuilds the report sheet, exports it and e-mails the export. Any error is logged
// and returned as is; nothing is retried.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result, err := p.run(ctx)
	if err != nil {
		log.Errorf(err, "report '%v' failed", p.Options.Report)
	}

	return result, err
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	opts := p.Options
	rule := OverdueRule(opts.OverdueColumn)

	if err := rule.Validate(); err != nil {
		return nil, err
	}

	unlock, err := lock(ctx, p.Workbook.ID()+"/"+opts.Report)
	if err != nil {
		return nil, err
	}

	defer unlock()

	// ... verify source sheet exists
	source, ok, err := p.Workbook.Sheet(ctx, opts.Source)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to look up sheet '%v'", opts.Source)
	} else if !ok {
		return nil, &SourceNotFoundError{Sheet: opts.Source}
	}

	values, err := p.Workbook.Values(ctx, source)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to retrieve data from '%v'", opts.Source)
	}

	data := pad(values)
	if opts.Transpose {
		log.Infof("Transposing %v rows from '%v'", len(data), opts.Source)
		if data, err = Transpose(data); err != nil {
			return nil, err
		}
	} else if len(data) == 0 || len(data[0]) == 0 {
		return nil, errors.WithStack(ErrEmptyInput)
	}

	area := Range{
		Rows:    len(data),
		Columns: len(data[0]),
	}

	// ... recreate report sheet
	if existing, ok, err := p.Workbook.Sheet(ctx, opts.Report); err != nil {
		return nil, errors.Wrapf(err, "unable to look up sheet '%v'", opts.Report)
	} else if ok {
		log.Infof("Deleting existing report sheet: %v", opts.Report)
		if err := p.Workbook.DeleteSheet(ctx, existing); err != nil {
			return nil, errors.Wrapf(err, "unable to delete sheet '%v'", opts.Report)
		}
	}

	sheet, err := p.Workbook.AddSheet(ctx, opts.Report)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create sheet '%v'", opts.Report)
	}

	result := Result{
		Sheet:   sheet,
		Rows:    area.Rows,
		Columns: area.Columns,
	}

	if err := p.build(ctx, sheet, data, rule, area, &result); err != nil {
		p.cleanup(ctx, sheet)
		return &result, err
	}

	return &result, nil
}

func (p *Pipeline) build(ctx context.Context, sheet Sheet, data [][]any, rule Rule, area Range, result *Result) error {
	opts := p.Options

	log.Infof("Copying %vx%v cells to report sheet '%v'", area.Rows, area.Columns, sheet.Title)
	if err := p.Workbook.SetValues(ctx, sheet, data); err != nil {
		return errors.Wrapf(err, "unable to write report data to '%v'", sheet.Title)
	}

	log.Infof("Auto-resizing columns")
	if err := p.Workbook.AutoResize(ctx, sheet, area.Columns); err != nil {
		return errors.Wrapf(err, "unable to resize columns in '%v'", sheet.Title)
	}

	log.Infof("Adding conditional formatting (%v)", rule.Formula(1))
	if err := p.Workbook.AddConditionalFormat(ctx, sheet, rule, area); err != nil {
		return errors.Wrapf(err, "unable to add conditional formatting to '%v'", sheet.Title)
	}

	log.Infof("Exporting report sheet as %v", opts.Format)
	artifact, err := p.Exporter.Export(ctx, p.Workbook.ID(), sheet, opts.Format)
	if err != nil {
		return &ExportServiceError{Format: opts.Format, Err: err}
	}

	artifact.Name = opts.Format.Filename(opts.FileName)
	if artifact.MimeType == "" {
		artifact.MimeType = opts.Format.MimeType()
	}

	result.Artifact = artifact

	if p.Archiver != nil {
		link, err := p.Archiver.Archive(ctx, artifact)
		if err != nil {
			return errors.Wrapf(err, "unable to archive %v", artifact.Name)
		}

		log.Infof("Archived report to %v", link)
		result.Archived = link
	}

	if opts.DryRun {
		log.Infof("Dry run: report not sent to %v", opts.Recipient)
		return nil
	}

	log.Infof("Sending email with the report")
	message := Message{
		To:          opts.Recipient,
		Subject:     opts.Subject,
		Body:        opts.Body,
		Attachments: []Artifact{artifact},
	}

	if err := p.Mailer.Send(ctx, message); err != nil {
		return &MailServiceError{Recipient: opts.Recipient, Err: err}
	}

	result.Sent = true

	log.Infof("Report sent successfully to %v", opts.Recipient)

	return nil
}

func (p *Pipeline) cleanup(ctx context.Context, sheet Sheet) {
	if !p.Options.CleanupOnFailure {
		log.Warnf("Report sheet '%v' left in place after failure", sheet.Title)
		return
	}

	if err := p.Workbook.DeleteSheet(ctx, sheet); err != nil {
		log.Warnf("Could not delete report sheet '%v' (%v)", sheet.Title, err)
	} else {
		log.Infof("Deleted incomplete report sheet '%v'", sheet.Title)
	}
}

// lock serialises runs for the same workbook and report name. Waiting for the lock is
// abandoned if the context is cancelled.
func lock(ctx context.Context, name string) (func(), error) {
	locks.Lock()
	l, ok := locks.reports[name]
	if !ok {
		l = make(chan struct{}, 1)
		locks.reports[name] = l
	}
	locks.Unlock()

	select {
	case l <- struct{}{}:
		return func() { <-l }, nil

	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "waiting for report '%v'", name)
	}
}
