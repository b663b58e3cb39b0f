package commands

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/machinelog/machinelog-app-sheets/config"
	"github.com/machinelog/machinelog-app-sheets/google"
	"github.com/machinelog/machinelog-app-sheets/log"
	"github.com/machinelog/machinelog-app-sheets/report"
	"github.com/machinelog/machinelog-app-sheets/sendgrid"
	"github.com/machinelog/machinelog-app-sheets/xlsx"
)

var ReportCmd = Report{}

type Report struct {
	command
	transpose *bool
	cleanup   *bool
	overdue   string
	format    string
	to        string
	archive   string
	dryrun    bool
}

func (cmd *Report) Name() string {
	return "report"
}

func (cmd *Report) Description() string {
	return "Rebuilds the maintenance report sheet, exports it and e-mails it"
}

func (cmd *Report) Usage() string {
	return "--url <url> | --workbook <file.xlsx>"
}

func (cmd *Report) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] report [options] --url <URL> | --workbook <file.xlsx>\n", APP)
	fmt.Println()
	fmt.Println("  Rebuilds the report sheet from the form responses, exports it as a PDF or Excel file and")
	fmt.Println("  e-mails the export to the report recipient")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s report --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"`+"\n", APP)
	fmt.Printf(`    %s report --workbook "responses.xlsx" --transpose=false --format xlsx --dryrun`+"\n", APP)
	fmt.Println()
}

func (cmd *Report) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("report")

	flagset.BoolFunc("transpose", "Transposes the form responses so that each response is a column. Defaults to true", optional(&cmd.transpose))
	flagset.StringVar(&cmd.overdue, "overdue-column", cmd.overdue, "Report column holding the 'Overdue' status. Defaults to '"+report.DefaultOverdueColumn+"'")
	flagset.StringVar(&cmd.format, "format", cmd.format, "Export format ('pdf' or 'xlsx'). Defaults to 'pdf'")
	flagset.StringVar(&cmd.to, "to", cmd.to, "Report recipient")
	flagset.StringVar(&cmd.archive, "archive-folder", cmd.archive, "Google Drive folder ID for a copy of each exported report")
	flagset.BoolFunc("cleanup", "Deletes the report sheet if the export or e-mail fails", optional(&cmd.cleanup))
	flagset.BoolVar(&cmd.dryrun, "dryrun", cmd.dryrun, "Builds and exports the report but does not send it")

	return flagset
}

// optional sets a boolean flag that is only applied if it appears on the command line.
func optional(p **bool) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}

		*p = &v

		return nil
	}
}

func (cmd *Report) Execute(args ...any) error {
	ctx, options := arguments(args...)

	if err := cmd.validate(); err != nil {
		return err
	}

	cfg, err := configure(options)
	if err != nil {
		return err
	}

	cmd.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	opts.DryRun = cmd.dryrun

	session := session{config: cfg}
	pipeline := report.Pipeline{
		Options: opts,
	}

	var save func() error

	if cmd.workbook != "" {
		w, err := xlsx.Open(cmd.workbook)
		if err != nil {
			return err
		}

		defer w.Close()

		pipeline.Workbook = w
		pipeline.Exporter = &xlsx.Exporter{Workbook: w}
		save = w.Save
	} else {
		id, err := google.SpreadsheetID(cmd.url)
		if err != nil {
			return err
		}

		services, err := session.services(ctx)
		if err != nil {
			return err
		}

		pipeline.Workbook = google.NewSpreadsheet(services.sheets, id)
		pipeline.Exporter = &google.Exporter{
			Client: http.DefaultClient,
			Tokens: services.auth.Tokens,
			Sheets: services.sheets,
			Drive:  services.drive,
		}
		save = func() error { return nil }
	}

	if !opts.DryRun {
		if pipeline.Mailer, err = mailer(ctx, cfg, &session); err != nil {
			return err
		}
	}

	if cfg.Report.ArchiveFolder != "" {
		services, err := session.services(ctx)
		if err != nil {
			return err
		}

		pipeline.Archiver = google.NewArchive(services.drive, cfg.Report.ArchiveFolder)
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	if err := save(); err != nil {
		return err
	}

	fmt.Printf("Report '%v': %v rows x %v columns, exported as %v (%v bytes)\n",
		result.Sheet.Title, result.Rows, result.Columns, result.Artifact.Name, len(result.Artifact.Data))

	if result.Archived != "" {
		fmt.Printf("Archived to %v\n", result.Archived)
	}

	if result.Sent {
		fmt.Printf("Sent to %v\n", opts.Recipient)
	}

	return nil
}

// apply overrides the configuration with the options set on the command line.
func (cmd *Report) apply(cfg *config.Config) {
	if cmd.transpose != nil {
		cfg.Report.Transpose = *cmd.transpose
	}

	if cmd.cleanup != nil {
		cfg.Report.CleanupOnFailure = *cmd.cleanup
	}

	if cmd.overdue != "" {
		cfg.Report.OverdueColumn = cmd.overdue
	}

	if cmd.format != "" {
		cfg.Report.Format = cmd.format
	}

	if cmd.to != "" {
		cfg.Report.Recipient = cmd.to
	}

	if cmd.archive != "" {
		cfg.Report.ArchiveFolder = cmd.archive
	}
}

func mailer(ctx context.Context, cfg *config.Config, session *session) (report.Mailer, error) {
	switch strings.ToLower(cfg.Mail.Transport) {
	case "sendgrid":
		log.Debugf("sending mail with SendGrid")
		return sendgrid.NewMailer(cfg.Mail.SendGridKey, cfg.Mail.From), nil

	default:
		services, err := session.services(ctx)
		if err != nil {
			return nil, err
		}

		return google.NewGmail(services.gmail, cfg.Mail.From), nil
	}
}
