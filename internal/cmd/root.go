// Package cmd wires the core packages (config, project, storage, item,
// filter, table, invocation, logdiff) to argv, stdout/stderr, and the
// environment, through a small custom dispatcher layered under a cobra
// root command.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dit",
	Short: "A command-line item tracker",
	Long: `dit tracks a set of items, each an ordered append-only log of
(timestamp, key, value) changes, organized into named projects.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(c *cobra.Command, args []string) error {
		if complete, _ := c.Flags().GetBool("complete"); complete {
			a, err := newApp(mustGetString(c, "config"), false)
			if err != nil {
				return err
			}
			return runCompletion(a, args)
		}
		return run(c, args)
	},
}

func mustGetString(c *cobra.Command, name string) string {
	v, _ := c.Flags().GetString(name)
	return v
}

var debugLog = log.New(os.Stderr, "dit: ", 0)

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config root (default: XDG config home)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("complete", false, "print completion candidates for args instead of running them")
	_ = rootCmd.PersistentFlags().MarkHidden("complete")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Execute runs the root command against os.Args.
func Execute() error {
	return rootCmd.Execute()
}

// colorEnabled reports whether decorated output should be emitted: stdout
// is a terminal and the user hasn't asked for plain output.
func colorEnabled(plain bool) bool {
	if plain {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func debugf(enabled bool, format string, args ...any) {
	if enabled {
		debugLog.Printf(format, args...)
	}
}

func fail(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
