package main

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/denstore/internal/vault"
)

var errNameRequired = errors.New("name is required")

func cmdGet(out, errOut io.Writer, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: denstore get <name> [-c config]")
		fprintln(out, "")
		fprintln(out, "Prints the value stored under name. Exits 1 if name has no value.")

		return 0
	}

	fs := flag.NewFlagSet("get", flag.ContinueOnError)
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

	value, ok, err := c.Get(name)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if !ok {
		return 1
	}

	_, _ = out.Write(value)

	return 0
}
