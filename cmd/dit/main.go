// Command dit tracks items as append-only logs of (timestamp, key, value)
// changes, organized into named projects.
package main

import (
	"fmt"
	"os"

	"github.com/xaizek/dit/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
