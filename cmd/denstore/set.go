package main

import (
	"errors"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/denstore/internal/vault"
)

var errValueSourceRequired = errors.New("value source (- or a file path) is required")

func cmdSet(out, errOut io.Writer, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: denstore set <name> <-|file> [-c config]")
		fprintln(out, "")
		fprintln(out, "Stores the contents of file (or stdin, if the source is \"-\") under name.")

		return 0
	}

	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := addConfigFlag(fs)

	if err := fs.Parse(args); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if fs.NArg() < 1 {
		fprintln(errOut, "error:", errNameRequired)

		return 1
	}

	if fs.NArg() < 2 {
		fprintln(errOut, "error:", errValueSourceRequired)

		return 1
	}

	name := fs.Arg(0)
	source := fs.Arg(1)

	var (
		data []byte
		err  error
	)

	if source == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(source) //nolint:gosec // source is an explicit CLI argument
	}

	if err != nil {
		fprintln(errOut, "error: reading value:", err)

		return 1
	}

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

	if err := c.Set(name, data); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	return 0
}
