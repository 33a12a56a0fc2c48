package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xaizek/dit/internal/project"
)

// cmdRename moves one project directory to another name, refusing to
// clobber an existing destination.
func cmdRename(a *app, args []string) error {
	if len(args) != 2 {
		return fail("expected two arguments (old and new project names)")
	}

	oldName, newName := args[0], args[1]
	if strings.Contains(oldName, "/") {
		return fail("project name can't contain slash: %s", oldName)
	}
	if strings.Contains(newName, "/") {
		return fail("project name can't contain slash: %s", newName)
	}

	src := filepath.Join(a.projectsDir, oldName)
	dst := filepath.Join(a.projectsDir, newName)

	if !project.Exists(src) {
		return fail("source project not found")
	}
	if project.Exists(dst) {
		return fail("destination project already exists")
	}

	return os.Rename(src, dst)
}
