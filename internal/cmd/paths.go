package cmd

import (
	"os"
	"path/filepath"
)

const programName = "dit"

// configRoot resolves the global configuration root: the XDG config home
// (or $HOME/.config if unset) with the program name segment appended. A
// missing $HOME is a startup error, per spec.md §6.
func configRoot(getenv func(string) string) (string, error) {
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, programName), nil
	}

	home := getenv("HOME")
	if home == "" {
		return "", fail("cannot determine config directory: $HOME is not set")
	}
	return filepath.Join(home, ".config", programName), nil
}

func globalConfigPath(getenv func(string) string) (string, error) {
	root, err := configRoot(getenv)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "config"), nil
}

func projectsDir(getenv func(string) string) (string, error) {
	root, err := configRoot(getenv)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "projects"), nil
}

func defaultEnv(key string) string {
	return os.Getenv(key)
}
