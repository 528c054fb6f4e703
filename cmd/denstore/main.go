// Command denstore is a CLI front-end over an encrypted, plausibly
// deniable key-value container.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

const rootHelp = `Usage: denstore <command> [options]

Commands:
  open                    Create the container file if it does not exist
  get <name>              Print the value stored under name
  set <name> <-|file>     Store the contents of file (or stdin, "-") under name
  delete <name>           Remove the value stored under name

Global options:
  -c, --config <path>     Path to a HuJSON config file [default: ./denstore.jsonc]
`

func run(out, errOut io.Writer, args []string) int {
	if len(args) == 0 {
		fprintln(errOut, rootHelp)

		return 1
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "open":
		return cmdOpen(out, errOut, rest)
	case "get":
		return cmdGet(out, errOut, rest)
	case "set":
		return cmdSet(out, errOut, rest)
	case "delete":
		return cmdDelete(out, errOut, rest)
	case "-h", "--help", "help":
		fprintln(out, rootHelp)

		return 0
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		fprintln(errOut, rootHelp)

		return 1
	}
}
