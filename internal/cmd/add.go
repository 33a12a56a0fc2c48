package cmd

import (
	"fmt"

	"github.com/xaizek/dit/internal/parsing"
	"github.com/xaizek/dit/internal/project"
)

// fieldAssign is one key[+]=value pair parsed from add/set arguments,
// already split into its append flag.
type fieldAssign struct {
	key    string
	value  string
	append bool
}

// parseFieldAssigns folds paired "key: a b c" forms and splits each
// resulting "key=value"/"key+=value" token.
func parseFieldAssigns(args []string) ([]fieldAssign, error) {
	tokens := parsing.ParsePairedArgs(args)

	var out []fieldAssign
	for _, tok := range tokens {
		key, value, ok := splitAssignment(tok)
		if !ok {
			return nil, fail("malformed key=value argument: %q", tok)
		}

		isAppend := false
		if len(key) > 0 && key[len(key)-1] == '+' {
			isAppend = true
			key = key[:len(key)-1]
		}

		if err := parsing.ValidateItemKey(key); err != nil {
			return nil, fmt.Errorf("wrong key name %q: %w", key, err)
		}

		out = append(out, fieldAssign{key: key, value: value, append: isAppend})
	}
	return out, nil
}

func splitAssignment(tok string) (key, value string, ok bool) {
	for i := 0; i < len(tok); i++ {
		if tok[i] == '=' {
			return tok[:i], tok[i+1:], true
		}
	}
	return "", "", false
}

// cmdAdd creates a new item and sets the given fields on it, auto-filling
// any field named under "defaults.*" that the caller didn't supply.
func cmdAdd(a *app, prj *project.Project, args []string) error {
	assigns, err := parseFieldAssigns(args)
	if err != nil {
		return err
	}

	cfg := prj.Config(true)
	defaults, err := cfg.List("defaults")
	if err != nil {
		return err
	}

	it, err := prj.Storage().Create()
	if err != nil {
		return err
	}

	fields := map[string]string{}
	order := make([]string, 0, len(assigns))
	for _, as := range assigns {
		if _, seen := fields[as.key]; !seen {
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

		fields[as.key] = applyFieldAssign(fields[as.key], as)
	}

	for _, key := range defaults {
		if _, ok := fields[key]; ok {
			continue
		}
		val, err := cfg.Get("defaults." + key)
		if err != nil {
			continue
		}
		fields[key] = val
		order = append(order, key)
	}

	for _, key := range order {
		if err := it.SetValue(key, fields[key]); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.stdout, it.ID())
	return nil
}

// applyFieldAssign folds one more assignment onto current, honoring the
// "key+=value" append-after-newline rule.
func applyFieldAssign(current string, as fieldAssign) string {
	if !as.append {
		return as.value
	}
	if current == "" {
		return as.value
	}
	return current + "\n" + as.value
}
