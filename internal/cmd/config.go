package cmd

import (
	"fmt"

	"github.com/xaizek/dit/internal/config"
	"github.com/xaizek/dit/internal/parsing"
	"github.com/xaizek/dit/internal/project"
)

// cmdConfig reads or updates configuration. With no arguments it lists
// every non-builtin key; otherwise each "key", "key=value" (set) token is
// processed in turn. A leading "-g"/"--global" flag redirects the target
// from the project's persisted config to the global one.
func cmdConfig(a *app, prj *project.Project, args []string) error {
	cfg := prj.Config(false)

	rest := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "-g" || arg == "--global" {
			cfg = a.global
			continue
		}
		rest = append(rest, arg)
	}

	if len(rest) == 0 {
		return printAllConfigValues(a, cfg)
	}

	for _, tok := range parsing.ParsePairedArgs(rest) {
		key, value, hasValue := splitAssignment(tok)
		if !hasValue {
			key = tok
		}

		if key == "" || parsing.IsBuiltin(key) {
			fmt.Fprintf(a.stdout, "wrong key name: %q\n", key)
			continue
		}

		if !hasValue {
			printConfigKey(a, cfg, key)
			continue
		}

		if value == editPromptSentinel {
			current, _ := cfg.Get(key)
			edited, err := editValue(key, current)
			if err != nil {
				return err
			}
			value = edited
		}

		if err := cfg.Set(key, value); err != nil {
			return err
		}
	}

	return nil
}

func printConfigKey(a *app, cfg *config.Config, key string) {
	val, err := cfg.Get(key)
	if err != nil {
		val = ""
	}
	fmt.Fprintf(a.stdout, "%s=%s\n", key, val)
}

// printAllConfigValues walks the config tree depth-first, printing every
// leaf key with its effective value.
func printAllConfigValues(a *app, cfg *config.Config) error {
	return walkConfig(a, cfg, "")
}

func walkConfig(a *app, cfg *config.Config, path string) error {
	names, err := cfg.List(path)
	if err != nil {
		return err
	}

	for _, name := range names {
		full := name
		if path != "" {
			full = path + "." + name
		}

		children, err := cfg.List(full)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			if err := walkConfig(a, cfg, full); err != nil {
				return err
			}
			continue
		}

		printConfigKey(a, cfg, full)
	}
	return nil
}
