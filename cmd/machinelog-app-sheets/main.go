package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/uhppoted/uhppoted-lib/command"

	"github.com/machinelog/machinelog-app-sheets/commands"
	"github.com/machinelog/machinelog-app-sheets/log"
)

var cli = []uhppoted.Command{
	&commands.VersionCmd,
	&commands.AuthoriseCmd,
	&commands.CreateDocumentCmd,
	&commands.CopyRowCmd,
	&commands.ReportCmd,
}

var options = commands.Options{
	Debug: false,
	Env:   ".env",
}

var help = uhppoted.NewHelp(commands.APP, cli, nil)

func main() {
	flag.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	flag.StringVar(&options.Config, "config", options.Config, "Configuration file. Defaults to "+commands.DEFAULT_CONFIG)
	flag.StringVar(&options.Credentials, "credentials", options.Credentials, "Path for the 'credentials.json' file. Defaults to "+commands.DEFAULT_CREDENTIALS)
	flag.StringVar(&options.Workdir, "workdir", options.Workdir, "Directory for working files (tokens, etc). Defaults to "+commands.DEFAULT_WORKDIR)
	flag.StringVar(&options.Env, "env", options.Env, "Environment file")
	flag.Parse()

	log.SetDebug(options.Debug)

	cmd, err := uhppoted.Parse(cli, nil, help)
	if err != nil {
		fmt.Printf("\nError parsing command line: %v\n\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if cmd == nil {
		help.Execute(ctx)
		os.Exit(1)
	}

	if err = cmd.Execute(ctx, &options); err != nil {
		fmt.Printf("\nERROR: %v\n\n", err)
		os.Exit(1)
	}
}
