package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const editPromptSentinel = "-"

// editValue spawns $EDITOR (falling back to vim) on a scratch file seeded
// with current and an instructional first line, then returns the trimmed
// remainder. The first line is always discarded, matching the temp-file
// convention the original tooling uses for "key=-" prompts.
func editValue(key, current string) (string, error) {
	f, err := os.CreateTemp("", "dit-edit-*.buf")
	if err != nil {
		return "", err
	}
	path := f.Name()
	defer os.Remove(path)

	header := fmt.Sprintf("# Edit value for %q below. This line is ignored.\n", key)
	if _, err := f.WriteString(header + current); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("failed to prompt for value of key %q: %w", key, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	_, rest, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(rest), nil
}
