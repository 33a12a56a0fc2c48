// Package storage implements the id -> Item mapping for one project: a
// two-level sharded directory of change-log files, scanned lazily and
// written back only for items that changed.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xaizek/dit/internal/change"
	"github.com/xaizek/dit/internal/idgen"
	"github.com/xaizek/dit/internal/item"
)

// Kind enumerates the StorageError failure modes named in spec.md §7.
type Kind int

const (
	UnknownId Kind = iota
	MissingData
	ReadFailed
	WriteFailed
	DirectoryFailed
)

// Error is the StorageError family from spec.md §7.
type Error struct {
	Kind Kind
	ID   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownId:
		return fmt.Sprintf("unknown id: %s", e.ID)
	case MissingData:
		return fmt.Sprintf("item %s: missing data file %s", e.ID, e.Path)
	case ReadFailed:
		return fmt.Sprintf("item %s: read failed: %v", e.ID, e.Err)
	case WriteFailed:
		return fmt.Sprintf("item %s: write failed: %v", e.ID, e.Err)
	case DirectoryFailed:
		return fmt.Sprintf("directory %s: %v", e.Path, e.Err)
	default:
		return "storage error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Storage owns every Item for one project, backed by a two-level sharded
// directory under itemsDir: the first character of an id names the shard
// subdirectory, the remaining characters name the file within it.
type Storage struct {
	itemsDir string
	ids      *idgen.Generator
	clock    item.Clock

	scanned bool
	items   map[string]*item.Item
}

// New constructs a Storage rooted at itemsDir, using ids for id allocation
// and clock to timestamp new Changes. Directory scanning is deferred to the
// first operation that needs it.
func New(itemsDir string, ids *idgen.Generator, clock item.Clock) *Storage {
	return &Storage{itemsDir: itemsDir, ids: ids, clock: clock, items: map[string]*item.Item{}}
}

func (s *Storage) ensureScanned() error {
	if s.scanned {
		return nil
	}
	s.scanned = true

	entries, err := os.ReadDir(s.itemsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &Error{Kind: DirectoryFailed, Path: s.itemsDir, Err: err}
	}

	for _, shard := range entries {
		if !shard.IsDir() {
			continue
		}
		shardPath := filepath.Join(s.itemsDir, shard.Name())
		files, err := os.ReadDir(shardPath)
		if err != nil {
			return &Error{Kind: DirectoryFailed, Path: shardPath, Err: err}
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			id := shard.Name() + f.Name()
			s.items[id] = item.New(id, s, s.clock)
		}
	}
	return nil
}

// Create allocates a fresh id from the IdGenerator, inserts an empty Item
// marked modified, and advances the generator.
func (s *Storage) Create() (*item.Item, error) {
	if err := s.ensureScanned(); err != nil {
		return nil, err
	}

	id, err := s.ids.GetID()
	if err != nil {
		return nil, err
	}

	it := item.NewEmpty(id, s, s.clock)
	s.items[id] = it

	if err := s.ids.AdvanceID(); err != nil {
		return nil, err
	}
	return it, nil
}

// Get returns the Item for id, failing with UnknownId if it's absent.
func (s *Storage) Get(id string) (*item.Item, error) {
	if err := s.ensureScanned(); err != nil {
		return nil, err
	}
	it, ok := s.items[id]
	if !ok {
		return nil, &Error{Kind: UnknownId, ID: id}
	}
	return it, nil
}

// List returns a snapshot of every known Item; order is unspecified.
func (s *Storage) List() ([]*item.Item, error) {
	if err := s.ensureScanned(); err != nil {
		return nil, err
	}
	out := make([]*item.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	return out, nil
}

// Fill implements item.Loader: it reads id's change-log file and parses it.
func (s *Storage) Fill(id string) ([]change.Change, error) {
	path := s.pathFor(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Kind: MissingData, ID: id, Path: path}
		}
		return nil, &Error{Kind: ReadFailed, ID: id, Path: path, Err: err}
	}

	changes, err := change.Parse(data)
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// Save writes every modified item's log to disk (in full, not
// incrementally) and persists IdGenerator state.
func (s *Storage) Save() error {
	if err := s.ensureScanned(); err != nil {
		return err
	}

	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		it := s.items[id]
		if !it.WasChanged() {
			continue
		}

		path := s.pathFor(id)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return &Error{Kind: DirectoryFailed, Path: filepath.Dir(path), Err: err}
		}

		changes, err := it.Changes()
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, change.Emit(changes), 0o644); err != nil {
			return &Error{Kind: WriteFailed, ID: id, Path: path, Err: err}
		}
		it.MarkSaved()
	}

	return s.ids.Save()
}

func (s *Storage) pathFor(id string) string {
	if len(id) == 0 {
		return filepath.Join(s.itemsDir, id)
	}
	return filepath.Join(s.itemsDir, id[:1], id[1:])
}
