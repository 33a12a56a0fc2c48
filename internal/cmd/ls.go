package cmd

import (
	"errors"
	"os"

	"golang.org/x/term"

	"github.com/xaizek/dit/internal/filter"
	"github.com/xaizek/dit/internal/project"
	"github.com/xaizek/dit/internal/table"
)

// cmdLs lists items matching the given filter expressions, formatted and
// sorted per the project's "ui.ls.*" configuration.
func cmdLs(a *app, prj *project.Project, args []string) error {
	cfg := prj.Config(true)

	fmtSpec := cfg.GetDefault("ui.ls.fmt", "_id,title")
	sortSpec := cfg.GetDefault("ui.ls.sort", "title,_id")
	colorSpec := ""
	if a.color {
		colorSpec = cfg.GetDefault("ui.ls.color", "")
	}

	t, err := table.New(fmtSpec, sortSpec, colorSpec, terminalWidth())
	if err != nil {
		return err
	}

	f, err := filter.New(args)
	if err != nil {
		return err
	}

	items, err := prj.Storage().List()
	if err != nil {
		return err
	}

	for _, it := range items {
		ok, err := f.Passes(filter.ItemAccessor(it))
		if err != nil {
			// A *filter.Error from Passes only reports a non-matching item.
			var ferr *filter.Error
			if !errors.As(err, &ferr) {
				return err
			}
		}
		if ok {
			t.Append(table.ItemRow{Item: it})
		}
	}

	return t.Print(a.stdout)
}

// terminalWidth returns the width of the controlling terminal, or a
// conservative default when stdout isn't one.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
