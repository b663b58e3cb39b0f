// Package config loads the exporter and report settings. Values are layered: built-in
// defaults, then an optional YAML file, then a .env file, then MACHINELOG_* environment
// variables. Command line flags are applied last by the commands.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/machinelog/machinelog-app-sheets/record"
	"github.com/machinelog/machinelog-app-sheets/report"
)

const Prefix = "machinelog"

type Config struct {
	Credentials string `yaml:"credentials"`
	Workdir     string `yaml:"workdir"`
	Rows        Rows   `yaml:"rows"`
	Report      Report `yaml:"report"`
	Mail        Mail   `yaml:"mail"`
}

// Rows configures the row to document exporter.
type Rows struct {
	Sheet      string   `yaml:"sheet"`
	LinkColumn int      `yaml:"link-column" split_words:"true"`
	Exclude    []string `yaml:"exclude"`
	Folder     string   `yaml:"folder"`
}

// Report configures the periodic report pipeline.
type Report struct {
	Source           string `yaml:"source"`
	Name             string `yaml:"name"`
	Transpose        bool   `yaml:"transpose"`
	OverdueColumn    string `yaml:"overdue-column" split_words:"true"`
	Format           string `yaml:"format"`
	FileName         string `yaml:"file-name" split_words:"true"`
	Recipient        string `yaml:"recipient"`
	Subject          string `yaml:"subject"`
	Body             string `yaml:"body"`
	ArchiveFolder    string `yaml:"archive-folder" split_words:"true"`
	CleanupOnFailure bool   `yaml:"cleanup-on-failure" split_words:"true"`
}

type Mail struct {
	Transport   string `yaml:"transport"`
	From        string `yaml:"from"`
	SendGridKey string `yaml:"sendgrid-key" envconfig:"SENDGRID_API_KEY"`
}

func Default() Config {
	return Config{
		Rows: Rows{
			Sheet:      "Form Responses 1",
			LinkColumn: 20,
			Exclude:    []string{"machine", "timestamp", "report"},
		},
		Report: Report{
			Source:        "Form Responses 1",
			Name:          "Weekly Maintenance Report",
			Transpose:     true,
			OverdueColumn: report.DefaultOverdueColumn,
			Format:        string(report.PDF),
			FileName:      "Weekly_Maintenance_Report",
			Recipient:     "avin@allied.com.sg",
			Subject:       "Weekly Maintenance Report",
			Body:          "Dear Team,\n\nPlease find attached the weekly maintenance report.\n\nBest regards,\nMaintenance Team",
		},
		Mail: Mail{
			Transport: "gmail",
		},
	}
}

// Load returns the default configuration overlaid with the YAML file (if any), the .env
// file (if any) and the environment. A missing YAML file is an error only if required.
func Load(file string, required bool, dotenv string) (*Config, error) {
	c := Default()

	if file != "" {
		if bytes, err := os.ReadFile(file); err != nil {
			if required || !os.IsNotExist(err) {
				return nil, errors.Wrapf(err, "unable to read configuration file %v", file)
			}
		} else if err := yaml.Unmarshal(bytes, &c); err != nil {
			return nil, errors.Wrapf(err, "invalid configuration file %v", file)
		}
	}

	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			if err := godotenv.Load(dotenv); err != nil {
				return nil, errors.Wrapf(err, "invalid .env file %v", dotenv)
			}
		}
	}

	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, errors.Wrap(err, "invalid environment configuration")
	}

	return &c, nil
}

// Validate checks both the row document and the report settings.
func (c *Config) Validate() error {
	if err := c.ValidateRows(); err != nil {
		return err
	}

	return c.ValidateReport()
}

// ValidateRows checks only the settings used by copy-row and create-document.
func (c *Config) ValidateRows() error {
	if c.Rows.LinkColumn < 1 {
		return fmt.Errorf("invalid link column %v - expected a 1-based column number", c.Rows.LinkColumn)
	}

	return nil
}

func (c *Config) ValidateReport() error {
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		return err
	}

	if err := report.OverdueRule(c.Report.OverdueColumn).Validate(); err != nil {
		return err
	}

	if !regexp.MustCompile(`^[^@\s]+@[^@\s]+$`).MatchString(strings.TrimSpace(c.Report.Recipient)) {
		return fmt.Errorf("invalid report recipient '%v'", c.Report.Recipient)
	}

	switch strings.ToLower(c.Mail.Transport) {
	case "gmail":
	case "sendgrid":
		if c.Mail.SendGridKey == "" {
			return fmt.Errorf("SendGrid transport requires an API key")
		}

		if c.Mail.From == "" {
			return fmt.Errorf("SendGrid transport requires a 'from' address")
		}

	default:
		return fmt.Errorf("invalid mail transport '%v' - expected 'gmail' or 'sendgrid'", c.Mail.Transport)
	}

	return nil
}

func (c *Config) Exclusions() record.Exclusions {
	return record.NewExclusions(c.Rows.Exclude...)
}

// Options returns the report pipeline options.
func (c *Config) Options() (report.Options, error) {
	format, err := report.ParseFormat(c.Report.Format)
	if err != nil {
		return report.Options{}, err
	}

	return report.Options{
		Source:           c.Report.Source,
		Report:           c.Report.Name,
		Transpose:        c.Report.Transpose,
		OverdueColumn:    c.Report.OverdueColumn,
		Format:           format,
		FileName:         c.Report.FileName,
		Recipient:        strings.TrimSpace(c.Report.Recipient),
		Subject:          c.Report.Subject,
		Body:             c.Report.Body,
		CleanupOnFailure: c.Report.CleanupOnFailure,
	}, nil
}
