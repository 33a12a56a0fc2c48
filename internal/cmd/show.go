package cmd

import (
	"fmt"
	"strings"

	"github.com/xaizek/dit/internal/project"
)

// cmdShow prints an item's fields: known ones first, in the order given by
// "ui.show.order", then the rest in their natural (sorted) order. An
// optional trailing list of keys restricts what's printed.
func cmdShow(a *app, prj *project.Project, args []string) error {
	if len(args) < 1 {
		return fail("expected at least one argument (id)")
	}

	it, err := prj.Storage().Get(args[0])
	if err != nil {
		return err
	}

	only := map[string]bool{}
	for _, k := range args[1:] {
		only[k] = true
	}

	var order []string
	for _, k := range strings.Split(prj.Config(true).GetDefault("ui.show.order", "title"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			order = append(order, k)
		}
	}

	printed := map[string]bool{}
	for _, key := range order {
		if len(only) > 0 && !only[key] {
			continue
		}
		val, err := it.Value(key)
		if err != nil {
			return err
		}
		if val == "" {
			continue
		}
		fmt.Fprintf(a.stdout, "%s: %s\n", key, val)
		printed[key] = true
	}

	names, err := it.ListRecordNames()
	if err != nil {
		return err
	}
	for _, key := range names {
		if printed[key] {
			continue
		}
		if len(only) > 0 && !only[key] {
			continue
		}
		val, err := it.Value(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s: %s\n", key, val)
	}

	return nil
}
