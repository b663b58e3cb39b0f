package commands

import (
	"flag"
	"fmt"

	"github.com/machinelog/machinelog-app-sheets/document"
	"github.com/machinelog/machinelog-app-sheets/google"
)

var CreateDocumentCmd = CreateDocument{}

type CreateDocument struct {
	command
	row    int
	sheet  string
	folder string
}

func (cmd *CreateDocument) Name() string {
	return "create-document"
}

func (cmd *CreateDocument) Description() string {
	return "Creates a Google Doc report for a worksheet row and links it into the row"
}

func (cmd *CreateDocument) Usage() string {
	return "--url <url> --row <row>"
}

func (cmd *CreateDocument) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] create-document [options] --url <URL> --row <row>\n", APP)
	fmt.Println()
	fmt.Println("  Creates a Google Doc from a worksheet row and writes a link to the document into the row")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s create-document --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" --row 7`+"\n", APP)
	fmt.Println()
}

func (cmd *CreateDocument) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("create-document")

	flagset.IntVar(&cmd.row, "row", cmd.row, "Worksheet row (1-based, the header is row 1)")
	flagset.StringVar(&cmd.sheet, "sheet", cmd.sheet, "Worksheet name. Defaults to 'Form Responses 1'")
	flagset.StringVar(&cmd.folder, "folder", cmd.folder, "Google Drive folder ID for the generated documents")

	return flagset
}

func (cmd *CreateDocument) Execute(args ...any) error {
	ctx, options := arguments(args...)

	if err := cmd.validate(); err != nil {
		return err
	}

	if cmd.row == document.HeaderRow {
		return document.ErrHeaderRowSelected
	} else if cmd.row < 1 {
		return fmt.Errorf("--row is a required option")
	}

	cfg, err := configure(options)
	if err != nil {
		return err
	}

	if cmd.sheet != "" {
		cfg.Rows.Sheet = cmd.sheet
	}

	if cmd.folder != "" {
		cfg.Rows.Folder = cmd.folder
	}

	if err := cfg.ValidateRows(); err != nil {
		return err
	}

	session := session{config: cfg}

	table, save, release, err := cmd.open(ctx, &session)
	if err != nil {
		return err
	}

	defer release()

	services, err := session.services(ctx)
	if err != nil {
		return err
	}

	generator := document.Generator{
		Table:      table,
		Store:      google.NewDocuments(services.docs, services.drive, cfg.Rows.Folder),
		Sheet:      cfg.Rows.Sheet,
		LinkColumn: cfg.Rows.LinkColumn,
		Exclude:    cfg.Exclusions(),
	}

	ref, err := generator.Generate(ctx, cmd.row)
	if err != nil {
		return err
	}

	if err := save(); err != nil {
		return err
	}

	fmt.Printf("%v\n", ref.URL)

	return nil
}
