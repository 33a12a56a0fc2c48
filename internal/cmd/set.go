package cmd

import (
	"github.com/xaizek/dit/internal/project"
)

// cmdSet modifies fields on an existing item. Unlike add, a bare
// "key+=value" appends to the item's current value rather than to
// whatever else was supplied on the same command line.
func cmdSet(a *app, prj *project.Project, args []string) error {
	if len(args) < 2 {
		return fail("expected at least two arguments (id and key=value)")
	}

	it, err := prj.Storage().Get(args[0])
	if err != nil {
		return err
	}

	assigns, err := parseFieldAssigns(args[1:])
	if err != nil {
		return err
	}

	fields := map[string]string{}
	order := make([]string, 0, len(assigns))
	for _, as := range assigns {
		if _, seen := fields[as.key]; !seen {
			current, err := it.Value(as.key)
			if err != nil {
				return err
			}
			fields[as.key] = current
			order = append(order, as.key)
		}

		if as.value == editPromptSentinel {
			seed := ""
			if !as.append {
				seed = fields[as.key]
			}
			edited, err := editValue(as.key, seed)
			if err != nil {
				return err
			}
			as.value = edited
		}

		if as.append {
			fields[as.key] = applyFieldAssign(fields[as.key], as)
		} else {
			fields[as.key] = as.value
		}
	}

	for _, key := range order {
		if err := it.SetValue(key, fields[key]); err != nil {
			return err
		}
	}
	return nil
}
