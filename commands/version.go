package commands

import (
	"github.com/uhppoted/uhppoted-lib/command"
)

// VERSION is set at build time with -ldflags "-X ...commands.VERSION=..."
var VERSION = "v0.1.0"

// VersionCmd is an initialized Version command for the main() command list
var VersionCmd = uhppoted.Version{
	Application: APP,
	Version:     VERSION,
}
