package commands

import (
	"flag"
	"fmt"

	"github.com/machinelog/machinelog-app-sheets/google"
)

var AuthoriseCmd = Authorise{}

type Authorise struct {
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises machinelog-app-sheets to access Google Sheets, Docs, Drive and Gmail"
}

func (cmd *Authorise) Usage() string {
	return ""
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--credentials <file>] [--workdir <dir>] authorise\n", APP)
	fmt.Println()
	fmt.Printf("  Authorises %s to access Google Sheets, Docs, Drive and Gmail and saves the OAuth2\n", APP)
	fmt.Println("  tokens to the working directory")
	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s --credentials "credentials.json" authorise`+"\n", APP)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	return flag.NewFlagSet("authorise", flag.ExitOnError)
}

func (cmd *Authorise) Execute(args ...any) error {
	ctx, options := arguments(args...)

	cfg, err := configure(options)
	if err != nil {
		return err
	}

	code := func() (string, error) {
		var code string
		if _, err := fmt.Scan(&code); err != nil {
			return "", err
		}

		return code, nil
	}

	tokens, err := google.Authorise(ctx, cfg.Credentials, cfg.Workdir, code)
	if err != nil {
		return fmt.Errorf("authorisation error (%v)", err)
	}

	fmt.Printf("Saved OAuth2 tokens to %v\n", tokens)

	return nil
}
