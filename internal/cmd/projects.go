package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"

	"github.com/xaizek/dit/internal/config"
	"github.com/xaizek/dit/internal/project"
)

type projectInfo struct {
	name  string
	descr string
}

// cmdProjects lists every project directory, marking the default one (the
// "core.defprj" setting) with a leading "*" and printing any "prj.descr" it
// carries. A ".name" given on the command line does not change the mark.
func cmdProjects(a *app, args []string) error {
	if len(args) != 0 {
		return fail("expected no arguments")
	}

	entries, err := os.ReadDir(a.projectsDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var infos []projectInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		root := filepath.Join(a.projectsDir, e.Name())
		if !project.Exists(root) {
			continue
		}

		cfg := config.New(filepath.Join(root, "config"), a.global)
		descr := cfg.GetDefault("prj.descr", "")
		infos = append(infos, projectInfo{name: e.Name(), descr: descr})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].name < infos[j].name })

	active := a.global.GetDefault("core.defprj", "")

	for _, info := range infos {
		mark := " "
		if info.name == active {
			mark = "*"
		}

		line := mark + info.name
		if a.color {
			color.New(color.Bold).Fprint(a.stdout, line)
		} else {
			fmt.Fprint(a.stdout, line)
		}

		if info.descr != "" {
			fmt.Fprintf(a.stdout, " -- %s", info.descr)
		}
		fmt.Fprintln(a.stdout)
	}
	return nil
}
