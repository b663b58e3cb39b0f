package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/machinelog/machinelog-app-sheets/config"
	"github.com/machinelog/machinelog-app-sheets/document"
	"github.com/machinelog/machinelog-app-sheets/google"
	"github.com/machinelog/machinelog-app-sheets/xlsx"
)

const APP = "machinelog-app-sheets"

// Options are the global command line options. Empty values defer to the configuration
// file and environment.
type Options struct {
	Debug       bool
	Config      string
	Credentials string
	Workdir     string
	Env         string
}

// arguments unpacks the context and global options passed to Execute by main().
func arguments(args ...any) (context.Context, *Options) {
	ctx := context.Background()
	options := &Options{}

	for _, arg := range args {
		switch v := arg.(type) {
		case context.Context:
			ctx = v
		case *Options:
			options = v
		}
	}

	return ctx, options
}

func helpOptions(flagset *flag.FlagSet) {
	fmt.Println("  Options:")
	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-15s %s\n", f.Name, f.Usage)
	})
}

// command holds the worksheet source options shared by the row and report commands. Exactly
// one of url or workbook is required.
type command struct {
	url      string
	workbook string
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.url, "url", c.url, "Google Sheets spreadsheet URL")
	flagset.StringVar(&c.workbook, "workbook", c.workbook, "Local Excel workbook (.xlsx) to use instead of a Google Sheets spreadsheet")

	return flagset
}

func (c *command) validate() error {
	url := strings.TrimSpace(c.url)
	workbook := strings.TrimSpace(c.workbook)

	switch {
	case url == "" && workbook == "":
		return fmt.Errorf("--url or --workbook is a required option")

	case url != "" && workbook != "":
		return fmt.Errorf("--url and --workbook are mutually exclusive")

	case url != "":
		if _, err := google.SpreadsheetID(url); err != nil {
			return err
		}
	}

	return nil
}

// worksheet is the union of the row and report views of a spreadsheet.
type worksheet interface {
	document.Table
	ID() string
}

// open returns the worksheet source, a function that persists any changes and a function
// that releases the source. The caller must always invoke the release function.
func (c *command) open(ctx context.Context, session *session) (worksheet, func() error, func() error, error) {
	if c.workbook != "" {
		w, err := xlsx.Open(c.workbook)
		if err != nil {
			return nil, nil, nil, err
		}

		return w, w.Save, w.Close, nil
	}

	id, err := google.SpreadsheetID(c.url)
	if err != nil {
		return nil, nil, nil, err
	}

	services, err := session.services(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	nop := func() error { return nil }

	return google.NewSpreadsheet(services.sheets, id), nop, nop, nil
}

// configure loads the configuration and applies the global options.
func configure(options *Options) (*config.Config, error) {
	file, required := options.Config, true
	if file == "" {
		file, required = DEFAULT_CONFIG, false
	}

	cfg, err := config.Load(file, required, options.Env)
	if err != nil {
		return nil, err
	}

	switch {
	case options.Credentials != "":
		cfg.Credentials = options.Credentials
	case cfg.Credentials == "":
		cfg.Credentials = DEFAULT_CREDENTIALS
	}

	switch {
	case options.Workdir != "":
		cfg.Workdir = options.Workdir
	case cfg.Workdir == "":
		cfg.Workdir = DEFAULT_WORKDIR
	}

	return cfg, nil
}
