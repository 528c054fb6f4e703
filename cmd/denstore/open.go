package main

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/denstore/internal/vault"
)

func cmdOpen(out, errOut io.Writer, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: denstore open [-c config]")
		fprintln(out, "")
		fprintln(out, "Creates the container file if it does not already exist.")

		return 0
	}

	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := addConfigFlag(fs)

	if err := fs.Parse(args); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if _, err := vault.Open(cfg.ContainerPath, cfg); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	fprintln(out, cfg.ContainerPath)

	return 0
}

func hasHelpFlag(args []string) bool {
	for _, a := range args {
		if a == "-h" || a == "--help" {
			return true
		}
	}

	return false
}
