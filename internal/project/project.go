// Package project ties a root directory, its persisted Config, and its
// Storage together into the unit the command layer operates on.
package project

import (
	"os"
	"path/filepath"

	"github.com/xaizek/dit/internal/config"
	"github.com/xaizek/dit/internal/idgen"
	"github.com/xaizek/dit/internal/item"
	"github.com/xaizek/dit/internal/storage"
)

const defaultAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Project bundles a root directory with its Storage and its Config pair: a
// per-invocation in-memory proxy layered over the persisted project Config,
// which is in turn layered over a global Config.
type Project struct {
	rootDir string

	global    *config.Config
	persisted *config.Config
	proxy     *config.Config

	ids   *idgen.Generator
	store *storage.Storage
}

// Open attaches to an existing project directory without touching disk
// beyond what Config/Storage do lazily. It does not verify rootDir exists;
// call Exists first if that matters.
func Open(rootDir string, global *config.Config, clock item.Clock) *Project {
	persisted := config.New(filepath.Join(rootDir, "config"), global)
	proxy := config.NewProxy(persisted)
	ids := idgen.New(persisted)
	store := storage.New(filepath.Join(rootDir, "items"), ids, clock)

	return &Project{
		rootDir:   rootDir,
		global:    global,
		persisted: persisted,
		proxy:     proxy,
		ids:       ids,
		store:     store,
	}
}

// Init creates rootDir, seeds a fresh Config with IdGenerator state, and
// saves it immediately so a freshly initialized project is durable even
// before its first item is created.
func Init(rootDir string, global *config.Config, clock item.Clock) (*Project, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, err
	}

	p := Open(rootDir, global, clock)
	if err := idgen.Init(p.persisted, defaultAlphabet); err != nil {
		return nil, err
	}
	if err := p.Save(); err != nil {
		return nil, err
	}
	return p, nil
}

// Exists reports whether rootDir names an existing directory.
func Exists(rootDir string) bool {
	info, err := os.Stat(rootDir)
	return err == nil && info.IsDir()
}

// Storage returns the project's Storage.
func (p *Project) Storage() *storage.Storage {
	return p.store
}

// Config returns the project's Config: the in-memory proxy layer when
// proxy is true (the one command-line overrides should mutate), or the
// persisted Config directly otherwise.
func (p *Project) Config(proxy bool) *config.Config {
	if proxy {
		return p.proxy
	}
	return p.persisted
}

// RootDir returns the project's root directory.
func (p *Project) RootDir() string {
	return p.rootDir
}

// Save persists Storage before Config: Storage.Save updates IdGenerator
// state inside the persisted Config, so saving Config first would drop it.
func (p *Project) Save() error {
	if err := p.store.Save(); err != nil {
		return err
	}
	return p.persisted.Save()
}
