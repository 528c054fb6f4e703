package main

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/denstore/internal/vault"
)

func cmdDelete(out, errOut io.Writer, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: denstore delete <name> [-c config]")
		fprintln(out, "")
		fprintln(out, "Removes the value stored under name.")

		return 0
	}

	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := addConfigFlag(fs)

	if err := fs.Parse(args); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if fs.NArg() == 0 {
		fprintln(errOut, "error:", errNameRequired)

		return 1
	}

	name := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	c, err := vault.Open(cfg.ContainerPath, cfg)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if err := c.Delete(name); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	return 0
}
