package cmd

import (
	"fmt"
	"sort"

	"github.com/xaizek/dit/internal/project"
)

// cmdValues prints every distinct non-empty current value of a key across
// the project's items, sorted. Earlier values from item histories are not
// included.
func cmdValues(a *app, prj *project.Project, args []string) error {
	if len(args) != 1 {
		return fail("expected a single argument (key)")
	}
	key := args[0]

	items, err := prj.Storage().List()
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	var values []string
	for _, it := range items {
		val, err := it.Value(key)
		if err != nil {
			return err
		}
		if val == "" || seen[val] {
			continue
		}
		seen[val] = true
		values = append(values, val)
	}

	sort.Strings(values)
	for _, v := range values {
		fmt.Fprintln(a.stdout, v)
	}
	return nil
}
