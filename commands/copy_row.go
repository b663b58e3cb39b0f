package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/machinelog/machinelog-app-sheets/document"
	"github.com/machinelog/machinelog-app-sheets/log"
)

var CopyRowCmd = CopyRow{}

// CopyRow prints the text version of a worksheet row, for pasting into a message.
type CopyRow struct {
	command
	row   int
	sheet string
	file  string
}

func (cmd *CopyRow) Name() string {
	return "copy-row"
}

func (cmd *CopyRow) Description() string {
	return "Prints the text version of a worksheet row"
}

func (cmd *CopyRow) Usage() string {
	return "--url <url> --row <row> [--file <file>]"
}

func (cmd *CopyRow) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] copy-row [options] --url <URL> --row <row>\n", APP)
	fmt.Println()
	fmt.Println("  Prints the text version of a worksheet row (or writes it to a file) for pasting into a message")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s copy-row --workbook "responses.xlsx" --row 7 --file "M-17.txt"`+"\n", APP)
	fmt.Println()
}

func (cmd *CopyRow) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("copy-row")

	flagset.IntVar(&cmd.row, "row", cmd.row, "Worksheet row (1-based, the header is row 1)")
	flagset.StringVar(&cmd.sheet, "sheet", cmd.sheet, "Worksheet name. Defaults to 'Form Responses 1'")
	flagset.StringVar(&cmd.file, "file", cmd.file, "Writes the text to a file instead of the console")

	return flagset
}

func (cmd *CopyRow) Execute(args ...any) error {
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

	session := session{config: cfg}

	table, _, release, err := cmd.open(ctx, &session)
	if err != nil {
		return err
	}

	defer release()

	generator := document.Generator{
		Table:   table,
		Sheet:   cfg.Rows.Sheet,
		Exclude: cfg.Exclusions(),
	}

	text, err := generator.Text(ctx, cmd.row)
	if err != nil {
		return err
	}

	if cmd.file == "" {
		fmt.Print(text)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cmd.file), 0770); err != nil {
		return err
	}

	if err := os.WriteFile(cmd.file, []byte(text), 0660); err != nil {
		return err
	}

	log.Infof("row %v: text copied to %v", cmd.row, cmd.file)

	return nil
}
