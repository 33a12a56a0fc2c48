package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/xaizek/dit/internal/logdiff"
	"github.com/xaizek/dit/internal/project"
)

// cmdLog prints an item's history as a sequence of per-key transitions,
// optionally restricted to a set of keys and annotated with timestamps.
func cmdLog(a *app, prj *project.Project, args []string) error {
	withTimestamps := false
	var rest []string
	for _, arg := range args {
		if arg == "-t" || arg == "--timestamps" {
			withTimestamps = true
			continue
		}
		rest = append(rest, arg)
	}

	if len(rest) < 1 {
		return fail("expected at least one argument (id)")
	}

	it, err := prj.Storage().Get(rest[0])
	if err != nil {
		return err
	}

	only := map[string]bool{}
	for _, k := range rest[1:] {
		only[k] = true
	}

	changes, err := it.Changes()
	if err != nil {
		return err
	}

	values := map[string]string{}
	for _, ch := range changes {
		if len(only) > 0 && !only[ch.Key] {
			continue
		}

		fc := logdiff.FieldChange{
			Key:       ch.Key,
			Timestamp: ch.Timestamp,
			Kind:      logdiff.Classify(values[ch.Key], ch.Value),
		}

		header := logdiff.Header(fc, withTimestamps)
		deco := colorFor(fc.Kind)

		if a.color {
			color.New(deco...).Fprintln(a.stdout, header)
		} else {
			fmt.Fprintln(a.stdout, header)
		}

		if fc.Kind == logdiff.Changed {
			prevLines := strings.Split(values[ch.Key], "\n")
			currLines := strings.Split(ch.Value, "\n")
			for _, line := range logdiff.Diff(prevLines, currLines) {
				printDiffLine(a, line)
			}
		}

		values[ch.Key] = ch.Value
	}

	return nil
}

func colorFor(k logdiff.Kind) []color.Attribute {
	switch k {
	case logdiff.Created:
		return []color.Attribute{color.FgYellow, color.Bold}
	case logdiff.Deleted:
		return []color.Attribute{color.FgRed, color.Bold}
	default:
		return []color.Attribute{color.FgBlue, color.Bold}
	}
}

func printDiffLine(a *app, line string) {
	if !a.color || line == "" {
		fmt.Fprintln(a.stdout, line)
		return
	}

	switch line[0] {
	case '+':
		color.New(color.FgGreen).Fprintln(a.stdout, line)
	case '-':
		color.New(color.FgRed).Fprintln(a.stdout, line)
	case '<':
		color.New(color.FgBlack, color.Bold).Fprintln(a.stdout, line)
	default:
		fmt.Fprintln(a.stdout, line)
	}
}
