// main is the entry point for the strata CLI.
package main

import (
	"fmt"
	"os"

	"github.com/strata-dev/strata/cmd"
)

func main() {
	err := cmd.Execute()
	if perr := cmd.StopProfiling(); perr != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not stop profiling: %v\n", perr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
