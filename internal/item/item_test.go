package item

import (
	"errors"
	"testing"

	"github.com/xaizek/dit/internal/change"
	"github.com/xaizek/dit/internal/parsing"
)

type fakeLoader struct {
	changes []change.Change
	err     error
}

func (f *fakeLoader) Fill(id string) ([]change.Change, error) {
	return f.changes, f.err
}

func ticking(start int64) Clock {
	t := start
	return func() int64 {
		t++
		return t
	}
}

func fixed(ts int64) Clock {
	return func() int64 { return ts }
}

func TestValueIDNeverLoads(t *testing.T) {
	t.Parallel()

	it := New("ab01", &fakeLoader{err: errors.New("should not be called")}, fixed(1))
	v, err := it.Value("_id")
	if err != nil {
		t.Fatalf("Value(_id): %v", err)
	}
	if v != "ab01" {
		t.Errorf("Value(_id) = %q, want %q", v, "ab01")
	}
}

func TestValueCreatedAndChanged(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{changes: []change.Change{
		{Timestamp: 100, Key: "title", Value: "a"},
		{Timestamp: 200, Key: "status", Value: "open"},
	}}
	it := New("ab01", loader, fixed(0))

	created, err := it.Value("_created")
	if err != nil || created != "100" {
		t.Errorf("Value(_created) = %q, %v, want 100, nil", created, err)
	}
	changed, err := it.Value("_changed")
	if err != nil || changed != "200" {
		t.Errorf("Value(_changed) = %q, %v, want 200, nil", changed, err)
	}
}

func TestSetValueNoOpWhenUnchanged(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{changes: []change.Change{{Timestamp: 100, Key: "title", Value: "a"}}}
	it := New("ab01", loader, fixed(200))

	if err := it.SetValue("title", "a"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if it.WasChanged() {
		t.Error("SetValue to the current effective value marked the item modified")
	}
	changes, _ := it.Changes()
	if len(changes) != 1 {
		t.Errorf("Changes() = %v, want unchanged single entry", changes)
	}
}

func TestSetValueEmptyOnAbsentKeyIsNoOp(t *testing.T) {
	t.Parallel()

	it := New("ab01", &fakeLoader{}, fixed(100))
	if err := it.SetValue("title", ""); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if it.WasChanged() {
		t.Error("SetValue(\"\") on an absent key marked the item modified")
	}
}

func TestSetValueAppendsAtNewTimestamp(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{changes: []change.Change{{Timestamp: 100, Key: "title", Value: "a"}}}
	it := New("ab01", loader, fixed(200))

	if err := it.SetValue("title", "b"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	changes, _ := it.Changes()
	if len(changes) != 2 {
		t.Fatalf("Changes() = %v, want 2 entries", changes)
	}
	if changes[1] != (change.Change{Timestamp: 200, Key: "title", Value: "b"}) {
		t.Errorf("Changes()[1] = %+v, want appended Change", changes[1])
	}
}

func TestSetValueOverwritesSameTimestamp(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{changes: []change.Change{
		{Timestamp: 100, Key: "title", Value: "a"},
		{Timestamp: 200, Key: "title", Value: "b"},
	}}
	it := New("ab01", loader, fixed(200))

	if err := it.SetValue("title", "c"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	changes, _ := it.Changes()
	if len(changes) != 2 {
		t.Fatalf("Changes() = %v, want still 2 entries (overwrite, not append)", changes)
	}
	if changes[1].Value != "c" {
		t.Errorf("Changes()[1].Value = %q, want %q", changes[1].Value, "c")
	}
}

// TestSetValueCoalescesOneStepOnRevert covers the Open Question decision:
// overwriting the latest same-timestamp Change back to the immediately
// preceding value for that key collapses (removes) the overwritten entry.
func TestSetValueCoalescesOneStepOnRevert(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{changes: []change.Change{
		{Timestamp: 100, Key: "title", Value: "a"},
		{Timestamp: 200, Key: "title", Value: "b"},
	}}
	it := New("ab01", loader, fixed(200))

	if err := it.SetValue("title", "a"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	changes, _ := it.Changes()
	if len(changes) != 1 {
		t.Fatalf("Changes() = %v, want the reverted entry coalesced away", changes)
	}
	if changes[0].Value != "a" {
		t.Errorf("Changes()[0].Value = %q, want %q", changes[0].Value, "a")
	}
}

// TestSetValueCoalesceOnlyOneLevel confirms the one-step-only rule: when an
// overwrite matches the immediately preceding entry for the key, only the
// overwritten entry is removed; nothing further back is collapsed.
func TestSetValueCoalesceOnlyOneLevel(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{changes: []change.Change{
		{Timestamp: 100, Key: "title", Value: "a"},
		{Timestamp: 200, Key: "title", Value: "b"},
		{Timestamp: 200, Key: "title", Value: "a"}, // already coalesced by a prior overwrite
	}}
	// Overwriting the latest entry (idx2, "a") with "b" at the same
	// timestamp matches the entry before it (idx1, "b"), so idx2 is
	// removed; idx0 and idx1 stay as they are.
	it := New("ab01", loader, fixed(200))
	if err := it.SetValue("title", "b"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	changes, _ := it.Changes()
	if len(changes) != 2 {
		t.Fatalf("Changes() = %v, want only the overwritten entry removed, not further collapse", changes)
	}
	if changes[1].Value != "b" {
		t.Errorf("Changes()[1].Value = %q, want %q", changes[1].Value, "b")
	}
}

func TestSetValueRemovesWhenNoPriorAndEmpty(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{changes: []change.Change{{Timestamp: 100, Key: "title", Value: "a"}}}
	it := New("ab01", loader, fixed(100))

	if err := it.SetValue("title", ""); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	changes, _ := it.Changes()
	if len(changes) != 0 {
		t.Errorf("Changes() = %v, want the sole entry removed", changes)
	}
}

func TestSetValueRejectsInvalidKey(t *testing.T) {
	t.Parallel()

	it := New("ab01", &fakeLoader{}, fixed(1))
	err := it.SetValue("_id", "x")
	var verr *parsing.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("SetValue(_id, ...) err = %v, want *ValidationError", err)
	}
}

func TestListRecordNamesExcludesEmptyLatest(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{changes: []change.Change{
		{Timestamp: 100, Key: "title", Value: "a"},
		{Timestamp: 100, Key: "tag", Value: "x"},
		{Timestamp: 200, Key: "tag", Value: ""},
	}}
	it := New("ab01", loader, fixed(300))

	names, err := it.ListRecordNames()
	if err != nil {
		t.Fatalf("ListRecordNames: %v", err)
	}
	if len(names) != 1 || names[0] != "title" {
		t.Errorf("ListRecordNames() = %v, want [title]", names)
	}
}

func TestLoadRejectsNonMonotonicTimestamps(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{changes: []change.Change{
		{Timestamp: 200, Key: "a", Value: "1"},
		{Timestamp: 100, Key: "b", Value: "2"},
	}}
	it := New("ab01", loader, fixed(1))

	_, err := it.Value("title")
	var ci *change.CorruptedItem
	if !errors.As(err, &ci) {
		t.Fatalf("Value() err = %v, want *CorruptedItem", err)
	}
}

func TestNewEmptyStartsModified(t *testing.T) {
	t.Parallel()

	it := NewEmpty("ab01", &fakeLoader{err: errors.New("should not load")}, fixed(1))
	if !it.WasChanged() {
		t.Error("NewEmpty() item not marked modified")
	}
	names, err := it.ListRecordNames()
	if err != nil {
		t.Fatalf("ListRecordNames: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("ListRecordNames() = %v, want empty", names)
	}
}

func TestMarkSavedClearsModified(t *testing.T) {
	t.Parallel()

	it := New("ab01", &fakeLoader{}, ticking(0))
	if err := it.SetValue("title", "a"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if !it.WasChanged() {
		t.Fatal("WasChanged() = false after SetValue")
	}
	it.MarkSaved()
	if it.WasChanged() {
		t.Error("WasChanged() = true after MarkSaved")
	}
}
