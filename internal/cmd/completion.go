package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xaizek/dit/internal/invocation"
	"github.com/xaizek/dit/internal/item"
	"github.com/xaizek/dit/internal/parsing"
	"github.com/xaizek/dit/internal/project"
)

const cursorMark = "::cursor::"

// runCompletion implements shell completion: it reparses args in
// completion mode and prints one candidate per line, mirroring the
// original dispatcher's cursor-mark convention instead of cobra's own
// completion machinery, since the command surface it completes (project
// selection, key=value pairs, alias expansion) isn't cobra subcommands.
func runCompletion(a *app, args []string) error {
	// The cursor mark ends in ':', so ParsePairedArgs would take the token
	// under the cursor for a "key:" opener; re-pair without it, then put it
	// back on the last token.
	hasCursor := len(args) > 0 && strings.HasSuffix(args[len(args)-1], cursorMark)
	if hasCursor {
		last := len(args) - 1
		args = append(append([]string{}, args[:last]...), strings.TrimSuffix(args[last], cursorMark))
	}
	args = parsing.ParsePairedArgs(args)
	if hasCursor && len(args) > 0 {
		args[len(args)-1] += cursorMark
	}

	inv, err := invocation.SetCmdLine(args)
	if err != nil {
		return nil // nolint: nilerr -- bad partial input completes to nothing
	}

	if strings.HasSuffix(inv.PrjName, cursorMark) {
		return completeProjectNames(a)
	}

	defaultCmdLine := a.global.GetDefault("core.defcmd", "ls")
	if err := inv.Parse(aliasResolver(a.global), defaultCmdLine, true); err != nil {
		return nil
	}

	if strings.HasSuffix(inv.CmdName, cursorMark) {
		return completeCommandNames(a, inv.CmdName)
	}

	return completeCommandArgs(a, inv)
}

func completeProjectNames(a *app) error {
	entries, err := os.ReadDir(a.projectsDir)
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && project.Exists(filepath.Join(a.projectsDir, e.Name())) {
			names = append(names, "."+e.Name())
		}
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(a.stdout, n)
	}
	return nil
}

func completeCommandNames(a *app, partial string) error {
	prefix := strings.TrimSuffix(partial, cursorMark)

	names := map[string]bool{}
	for name := range prjCommands {
		names[name] = true
	}
	for name := range globalCommands {
		names[name] = true
	}
	if aliases, err := a.global.List("alias"); err == nil {
		for _, name := range aliases {
			names[name] = true
		}
	}

	var matches []string
	for name := range names {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	for _, m := range matches {
		fmt.Fprintln(a.stdout, m)
	}
	return nil
}

// completeCommandArgs completes item ids or field keys depending on which
// project-scoped command is being typed. Commands this doesn't know how
// to complete produce no output, matching the original's silent fallback.
func completeCommandArgs(a *app, inv *invocation.Invocation) error {
	if _, ok := globalCommands[inv.CmdName]; ok {
		return nil
	}
	if _, ok := prjCommands[inv.CmdName]; !ok {
		return nil
	}

	prjName := inv.PrjName
	if prjName == "" {
		prjName = a.global.GetDefault("core.defprj", "")
	}
	prj, err := a.resolveProject(prjName)
	if err != nil {
		return nil
	}

	items, err := prj.Storage().List()
	if err != nil {
		return nil
	}

	switch inv.CmdName {
	case "show", "set", "log":
		if len(inv.CmdArgs) == 0 {
			for _, it := range items {
				fmt.Fprintln(a.stdout, it.ID())
			}
			return nil
		}
		return completeItemKeys(a, items, inv.CmdArgs[1:])
	case "values":
		return completeItemKeys(a, items, nil)
	default:
		return nil
	}
}

func completeItemKeys(a *app, items []*item.Item, used []string) error {
	seen := map[string]bool{}
	for _, u := range used {
		seen[u] = true
	}

	keys := map[string]bool{}
	for _, it := range items {
		names, err := it.ListRecordNames()
		if err != nil {
			continue
		}
		for _, n := range names {
			if !seen[n] {
				keys[n] = true
			}
		}
	}

	var sorted []string
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)
	for _, k := range sorted {
		fmt.Fprintln(a.stdout, k)
	}
	return nil
}
