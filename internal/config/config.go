// Package config implements dit's hierarchical, dotted-key configuration
// tree: per-project and global settings with parent fallback, reserved
// "!"-prefixed builtin keys, lazy load, and atomic persistence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Kind enumerates the ConfigError failure modes named in spec.md §7.
type Kind int

const (
	// NoSuchKey means the key is absent locally and in every ancestor.
	NoSuchKey Kind = iota
	// ParseFailed means an existing config file could not be parsed.
	ParseFailed
	// WriteFailed means persistence failed.
	WriteFailed
)

// Error is the ConfigError family from spec.md §7.
type Error struct {
	Kind Kind
	Key  string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case NoSuchKey:
		return fmt.Sprintf("no such key: %s", e.Key)
	case ParseFailed:
		return fmt.Sprintf("failed to parse config %s: %v", e.Path, e.Err)
	case WriteFailed:
		return fmt.Sprintf("failed to write config %s: %v", e.Path, e.Err)
	default:
		return "config error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Config is a node in a hierarchical key/value tree. Keys are dotted paths
// such as "ui.ls.fmt"; keys whose first path segment starts with "!" are
// builtin, reserved for internal bookkeeping (IdGenerator state and the
// like).
//
// A Config may have a parent: a get() for a key absent (or empty) here falls
// through to the parent chain. This backs both the global/project config
// hierarchy and the per-invocation override proxy (an in-memory first layer
// over the persisted project Config).
type Config struct {
	path   string // empty for purely in-memory (proxy) configs
	parent *Config

	loaded   bool
	modified bool
	tree     map[string]any
}

// New constructs a Config backed by the file at path, with an optional
// parent used as a fallback for keys this Config doesn't define. Loading is
// lazy: the file is not touched until the first operation.
func New(path string, parent *Config) *Config {
	return &Config{path: path, parent: parent}
}

// NewProxy constructs an in-memory-only Config layered in front of parent.
// It is never loaded from or saved to disk; it exists to carry per-invocation
// overrides without mutating the persisted configuration.
func NewProxy(parent *Config) *Config {
	c := &Config{parent: parent, loaded: true, tree: map[string]any{}}
	return c
}

func (c *Config) ensureLoaded() error {
	if c.loaded {
		return nil
	}
	c.loaded = true
	c.tree = map[string]any{}

	if c.path == "" {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Fresh config: silent, per spec.md §4.1.
			return nil
		}
		return &Error{Kind: ParseFailed, Path: c.path, Err: err}
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return &Error{Kind: ParseFailed, Path: c.path, Err: err}
	}
	if tree != nil {
		c.tree = tree
	}
	return nil
}

func splitKey(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, ".")
}

// lookupLocal returns the raw value stored at key in this Config only (no
// parent fallback), and whether it was found.
func (c *Config) lookupLocal(key string) (string, bool) {
	segs := splitKey(key)
	if len(segs) == 0 {
		return "", false
	}

	var node any = c.tree
	for i, seg := range segs {
		m, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		v, ok := m[seg]
		if !ok {
			return "", false
		}
		if i == len(segs)-1 {
			s, ok := asString(v)
			return s, ok
		}
		node = v
	}
	return "", false
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case map[string]any:
		return "", false
	default:
		return fmt.Sprint(t), true
	}
}

// Get retrieves the value of key, consulting the parent chain when it is
// absent or empty locally. It fails with a NoSuchKey Error when key is absent
// here and no ancestor has a non-empty value for it; a key present here with
// an empty value and no non-empty value further up yields "".
func (c *Config) Get(key string) (string, error) {
	if err := c.ensureLoaded(); err != nil {
		return "", err
	}

	val, found := c.lookupLocal(key)
	if found && val != "" {
		return val, nil
	}
	if c.parent != nil {
		if v, err := c.parent.Get(key); err == nil {
			return v, nil
		}
	}
	if found {
		// Present locally but empty, and no ancestor had a non-empty value.
		return "", nil
	}
	return "", &Error{Kind: NoSuchKey, Key: key}
}

// GetDefault retrieves key's value like Get, but returns def instead of an
// error when no ancestor has a non-empty value.
func (c *Config) GetDefault(key, def string) string {
	if v, err := c.Get(key); err == nil && v != "" {
		return v
	}
	return def
}

// List returns the names of the immediate children of path (default: the
// root), excluding builtin ("!"-prefixed) keys and keys whose effective
// (fallback-resolved) value is empty. If path has no local subtree, the
// lookup delegates to the parent.
func (c *Config) List(path string) ([]string, error) {
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}

	node, ok := c.subtree(path)
	if !ok {
		if c.parent != nil {
			return c.parent.List(path)
		}
		return nil, nil
	}

	var names []string
	for name := range node {
		if strings.HasPrefix(name, "!") {
			continue
		}
		full := name
		if path != "" {
			full = path + "." + name
		}
		val, _ := c.Get(full)
		if val == "" {
			if _, isBranch := node[name].(map[string]any); !isBranch {
				continue
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (c *Config) subtree(path string) (map[string]any, bool) {
	if path == "" {
		return c.tree, true
	}
	var node any = c.tree
	for _, seg := range splitKey(path) {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		node = v
	}
	m, ok := node.(map[string]any)
	return m, ok
}

// Set assigns value to key. It is a no-op if Get(key) already equals value;
// otherwise the value is written locally (not to the parent) and the Config
// is marked modified.
func (c *Config) Set(key, value string) error {
	if err := c.ensureLoaded(); err != nil {
		return err
	}

	if cur, err := c.Get(key); err == nil && cur == value {
		return nil
	}

	segs := splitKey(key)
	if len(segs) == 0 {
		return &Error{Kind: WriteFailed, Key: key, Err: fmt.Errorf("empty key")}
	}

	node := c.tree
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[seg] = child
		}
		node = child
	}
	node[segs[len(segs)-1]] = value

	c.modified = true
	return nil
}

// IsModified reports whether this Config has unsaved changes. Exposed for
// tests per spec.md §4.1.
func (c *Config) IsModified() bool {
	return c.modified
}

// Save atomically rewrites the backing file if and only if the Config is
// modified. Proxy (in-memory) configs and unmodified configs are no-ops.
func (c *Config) Save() error {
	if !c.modified || c.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return &Error{Kind: WriteFailed, Path: c.path, Err: err}
	}

	data, err := yaml.Marshal(c.tree)
	if err != nil {
		return &Error{Kind: WriteFailed, Path: c.path, Err: err}
	}

	tmp := c.path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &Error{Kind: WriteFailed, Path: c.path, Err: err}
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return &Error{Kind: WriteFailed, Path: c.path, Err: err}
	}

	c.modified = false
	return nil
}
