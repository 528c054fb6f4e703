//go:build cryptoblob_debug

package cryptoblob

import (
	"fmt"
	"os"
)

// debugPrint writes a trace line to stderr. Only compiled in with
// -tags cryptoblob_debug.
func debugPrint(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "cryptoblob: "+format+"\n", args...)
}
