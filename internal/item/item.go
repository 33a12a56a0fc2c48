// Package item implements the Item type: an id plus an ordered, lazily
// loaded change log, with the mutation/coalescing rules that keep that log
// from growing without bound when a field flaps back to an old value.
package item

import (
	"fmt"
	"sort"

	"github.com/xaizek/dit/internal/change"
	"github.com/xaizek/dit/internal/parsing"
)

// Loader is implemented by Storage: it supplies an Item's change log on
// first access. Item holds a non-owning back-reference to its Storage
// through this interface so the two packages don't import each other.
type Loader interface {
	Fill(id string) ([]change.Change, error)
}

// Clock supplies the timestamp used for new Changes; tests inject a fixed
// clock instead of wall time.
type Clock func() int64

// Item is a single tracked entity: an id plus an ordered change log.
type Item struct {
	id     string
	loader Loader
	clock  Clock

	loaded   bool
	modified bool
	changes  []change.Change
}

// New constructs an Item backed by loader, which supplies its change log on
// first access that needs it. A freshly created (never-filled) Item starts
// with an empty log; pass a loader that fails for ids Storage doesn't know
// about.
func New(id string, loader Loader, clock Clock) *Item {
	return &Item{id: id, loader: loader, clock: clock}
}

// NewEmpty constructs an Item that is already "loaded" with no changes and
// marked modified, for brand-new items created by Storage.Create: even an
// empty item must persist a directory entry.
func NewEmpty(id string, loader Loader, clock Clock) *Item {
	it := New(id, loader, clock)
	it.loaded = true
	it.modified = true
	return it
}

// ID returns the item's id.
func (it *Item) ID() string {
	return it.id
}

func (it *Item) ensureLoaded() error {
	if it.loaded {
		return nil
	}
	changes, err := it.loader.Fill(it.id)
	if err != nil {
		return err
	}
	for i := 1; i < len(changes); i++ {
		if changes[i-1].Timestamp > changes[i].Timestamp {
			return &change.CorruptedItem{Reason: fmt.Sprintf("item %s: timestamps are not non-decreasing", it.id)}
		}
	}
	it.changes = changes
	it.loaded = true
	return nil
}

// Value returns the effective value of key: the value of the latest Change
// for key, or "" if key is absent. Pseudo-fields _id, _created, and _changed
// are served without loading the log when possible.
func (it *Item) Value(key string) (string, error) {
	switch key {
	case "_id":
		return it.id, nil
	}

	if err := it.ensureLoaded(); err != nil {
		return "", err
	}

	switch key {
	case "_created":
		if len(it.changes) == 0 {
			return "", nil
		}
		return fmt.Sprintf("%d", it.changes[0].Timestamp), nil
	case "_changed":
		if len(it.changes) == 0 {
			return "", nil
		}
		return fmt.Sprintf("%d", it.changes[len(it.changes)-1].Timestamp), nil
	}

	if idx, ok := it.latestIndex(key); ok {
		return it.changes[idx].Value, nil
	}
	return "", nil
}

// latestIndex returns the index of the latest Change for key, if any.
func (it *Item) latestIndex(key string) (int, bool) {
	for i := len(it.changes) - 1; i >= 0; i-- {
		if it.changes[i].Key == key {
			return i, true
		}
	}
	return -1, false
}

// SetValue validates key, then applies the mutation rules in the data model:
// a no-op if value already equals the current effective value; an in-place
// overwrite (with possible single-step coalescing) if the latest Change for
// key shares the new write's timestamp; otherwise a freshly appended Change.
func (it *Item) SetValue(key, value string) error {
	if err := parsing.ValidateItemKey(key); err != nil {
		return err
	}
	if err := it.ensureLoaded(); err != nil {
		return err
	}

	latestIdx, hasLatest := it.latestIndex(key)
	current := ""
	if hasLatest {
		current = it.changes[latestIdx].Value
	}
	if current == value {
		return nil
	}
	if !hasLatest && value == "" {
		return nil
	}

	timestamp := it.clock()

	if hasLatest && it.changes[latestIdx].Timestamp == timestamp {
		it.changes[latestIdx].Value = value
		it.coalesce(key, latestIdx)
		it.modified = true
		return nil
	}

	it.changes = append(it.changes, change.Change{Timestamp: timestamp, Key: key, Value: value})
	it.modified = true
	return nil
}

// coalesce implements the single-step history-collapsing rule: after
// overwriting the Change at idx in place, look at the Change immediately
// before it for the same key. If that prior Change already equals the new
// value, or if there is no such prior Change and the new value is empty,
// the overwritten Change is removed outright. Only one level is chased;
// a second-order match on the entry before the prior one is not pursued.
func (it *Item) coalesce(key string, idx int) {
	newValue := it.changes[idx].Value

	priorIdx := -1
	for i := idx - 1; i >= 0; i-- {
		if it.changes[i].Key == key {
			priorIdx = i
			break
		}
	}

	remove := false
	if priorIdx >= 0 {
		remove = it.changes[priorIdx].Value == newValue
	} else {
		remove = newValue == ""
	}

	if remove {
		it.changes = append(it.changes[:idx], it.changes[idx+1:]...)
	}
}

// ListRecordNames returns the set of keys currently in use: those whose
// latest Change has a non-empty value.
func (it *Item) ListRecordNames() ([]string, error) {
	if err := it.ensureLoaded(); err != nil {
		return nil, err
	}

	latest := map[string]string{}
	var order []string
	for _, c := range it.changes {
		if _, seen := latest[c.Key]; !seen {
			order = append(order, c.Key)
		}
		latest[c.Key] = c.Value
	}

	var names []string
	for _, k := range order {
		if latest[k] != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Changes returns the full ordered change log.
func (it *Item) Changes() ([]change.Change, error) {
	if err := it.ensureLoaded(); err != nil {
		return nil, err
	}
	out := make([]change.Change, len(it.changes))
	copy(out, it.changes)
	return out, nil
}

// WasChanged reports whether this Item has in-memory modifications not yet
// persisted by Storage.Save.
func (it *Item) WasChanged() bool {
	return it.modified
}

// MarkSaved clears the modified flag; called by Storage after a successful
// write of this item's log to disk.
func (it *Item) MarkSaved() {
	it.modified = false
}
