package cmd

import (
	"fmt"

	"github.com/xaizek/dit/internal/parsing"
	"github.com/xaizek/dit/internal/project"
)

// cmdCheck walks every item in the project and reports the first
// integrity violation found: a corrupted change log (loading already
// enforces non-decreasing timestamps) or a field name that doesn't match
// the key-name grammar. A clean project prints a one-line summary.
func cmdCheck(a *app, prj *project.Project, args []string) error {
	items, err := prj.Storage().List()
	if err != nil {
		return err
	}

	for _, it := range items {
		changes, err := it.Changes()
		if err != nil {
			return fmt.Errorf("item %s: %w", it.ID(), err)
		}

		for _, ch := range changes {
			if parsing.IsPseudoField(ch.Key) || parsing.IsBuiltin(ch.Key) {
				return fail("item %s: reserved key %q recorded in change log", it.ID(), ch.Key)
			}
			if !parsing.IsKeyName(ch.Key) {
				return fail("item %s: malformed field name %q", it.ID(), ch.Key)
			}
		}
	}

	fmt.Fprintf(a.stdout, "checked %d items, no issues found\n", len(items))
	return nil
}
