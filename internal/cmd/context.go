package cmd

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xaizek/dit/internal/config"
	"github.com/xaizek/dit/internal/invocation"
	"github.com/xaizek/dit/internal/item"
	"github.com/xaizek/dit/internal/project"
)

// app bundles the state a command handler needs: the global configuration,
// where projects live, output streams, and a clock for stamping changes.
type app struct {
	global      *config.Config
	projectsDir string

	stdout io.Writer
	stderr io.Writer

	color bool
	debug bool

	clock item.Clock
}

func newApp(configRootOverride string, debug bool) (*app, error) {
	var cfgPath, projDir string

	if configRootOverride != "" {
		cfgPath = filepath.Join(configRootOverride, "config")
		projDir = filepath.Join(configRootOverride, "projects")
	} else {
		var err error
		cfgPath, err = globalConfigPath(defaultEnv)
		if err != nil {
			return nil, err
		}
		projDir, err = projectsDir(defaultEnv)
		if err != nil {
			return nil, err
		}
	}

	return &app{
		global:      config.New(cfgPath, nil),
		projectsDir: projDir,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		color:       colorEnabled(false),
		debug:       debug,
		clock:       func() int64 { return time.Now().Unix() },
	}, nil
}

// resolveProject opens the named project. Callers resolve an empty name
// against "core.defprj" themselves before calling this; projects are never
// created implicitly.
func (a *app) resolveProject(name string) (*project.Project, error) {
	root := filepath.Join(a.projectsDir, name)
	if !project.Exists(root) {
		return nil, fail("project does not exist: %s", name)
	}

	return project.Open(root, a.global, a.clock), nil
}

// aliasResolver looks up "alias.<name>" in cfg, mirroring the original
// dispatcher's use of the global configuration for alias resolution
// (project config is not consulted here).
func aliasResolver(cfg *config.Config) invocation.Resolver {
	return func(name string) (string, bool) {
		v, err := cfg.Get("alias." + name)
		if err != nil || v == "" {
			return "", false
		}
		return v, true
	}
}

// applyConfAssign applies one invocation-level "key=value" or "key+=value"
// override to cfg. Append concatenates onto the key's current value rather
// than replacing it.
func applyConfAssign(cfg *config.Config, assign invocation.ConfAssign) error {
	value := assign.Value
	if assign.Append {
		value = cfg.GetDefault(assign.Key, "") + value
	}
	return cfg.Set(assign.Key, value)
}
