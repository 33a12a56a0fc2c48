package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xaizek/dit/internal/invocation"
	"github.com/xaizek/dit/internal/parsing"
	"github.com/xaizek/dit/internal/project"
)

// prjHandler implements a domain command that needs an existing project.
type prjHandler func(a *app, prj *project.Project, args []string) error

// globalHandler implements a domain command that runs without resolving a
// project first: listing or renaming projects.
type globalHandler func(a *app, args []string) error

// prjCommands dispatch against an already-resolved project. None of these
// are registered as cobra subcommands: they only exist behind the custom
// invocation parser, which must see the project/config overrides before a
// command name is even known.
var prjCommands = map[string]prjHandler{
	"add":    cmdAdd,
	"set":    cmdSet,
	"ls":     cmdLs,
	"show":   cmdShow,
	"log":    cmdLog,
	"config": cmdConfig,
	"values": cmdValues,
	"new":    cmdNew,
	"check":  cmdCheck,
}

// globalCommands dispatch without resolving a project first, mirroring
// commands the original implementation runs against the top-level
// application object rather than a project.
var globalCommands = map[string]globalHandler{
	"projects": cmdProjects,
	"rename":   cmdRename,
}

// run is the root command's entry point. It mirrors the original
// dispatcher's two-tier lookup: a command implemented at the global level
// runs without a project; everything else requires one to already exist.
func run(c *cobra.Command, args []string) error {
	debug, _ := c.Flags().GetBool("debug")
	cfgRoot, _ := c.Flags().GetString("config")

	a, err := newApp(cfgRoot, debug)
	if err != nil {
		return err
	}

	args = parsing.ParsePairedArgs(args)

	inv, err := invocation.SetCmdLine(args)
	if err != nil {
		return err
	}

	if inv.Version {
		fmt.Fprintf(a.stdout, "dit %s (%s)\n", Version, GitCommit)
		return nil
	}
	if inv.Help {
		return cmdHelp(a)
	}

	defaultCmdLine := a.global.GetDefault("core.defcmd", "ls")
	if err := inv.Parse(aliasResolver(a.global), defaultCmdLine, false); err != nil {
		return err
	}

	if h, ok := globalCommands[inv.CmdName]; ok {
		debugf(a.debug, "dispatch (global) %s %v", inv.CmdName, inv.CmdArgs)
		if err := h(a, inv.CmdArgs); err != nil {
			return err
		}
		return a.global.Save()
	}

	h, ok := prjCommands[inv.CmdName]
	if !ok {
		return fail("unknown command: %s", inv.CmdName)
	}

	prjName := inv.PrjName
	if prjName == "" {
		prjName = a.global.GetDefault("core.defprj", "")
	}
	prj, err := a.resolveProject(prjName)
	if err != nil {
		return err
	}

	proxy := prj.Config(true)
	for _, assign := range inv.Confs {
		if err := applyConfAssign(proxy, assign); err != nil {
			return err
		}
	}

	debugf(a.debug, "dispatch %s %v (project %s)", inv.CmdName, inv.CmdArgs, prj.RootDir())

	if err := h(a, prj, inv.CmdArgs); err != nil {
		return err
	}

	if err := prj.Save(); err != nil {
		return err
	}
	return a.global.Save()
}

func cmdHelp(a *app) error {
	names := make([]string, 0, len(prjCommands)+len(globalCommands)+1)
	for name := range prjCommands {
		names = append(names, name)
	}
	for name := range globalCommands {
		names = append(names, name)
	}
	names = append(names, "version")
	sort.Strings(names)

	fmt.Fprintln(a.stdout, "Available commands:")
	for _, name := range names {
		fmt.Fprintf(a.stdout, "  %s\n", name)
	}
	return nil
}
