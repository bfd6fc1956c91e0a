// Command jsontree is a small CLI front end over the library: it can
// re-serialize a JSON document (format) or pull a value out of one by
// path (get).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latticevalue/jsontree/jverr"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jsontree: %v\n", err)
		os.Exit(exitCodeForErr(err))
	}
}

// exitCodeForErr maps a parse failure to the status's own exit code so
// scripts can distinguish "bad input" from other failures; anything else
// (a missing file, a write error) exits 1.
func exitCodeForErr(err error) int {
	var pe *jverr.ParseError
	if errors.As(err, &pe) {
		return pe.Status.ExitCode()
	}
	return 1
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jsontree",
		Short:         "Parse, format, and query JSON documents",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newFormatCmd())
	root.AddCommand(newGetCmd())
	return root
}
