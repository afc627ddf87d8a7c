// Command l1track runs the stub overlap-removal and digitization stage
// over JSON event files, validates the pair finder against truth and
// manages the SQLite run store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "l1track: %v\n", err)
		os.Exit(1)
	}
}
