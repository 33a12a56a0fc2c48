package idgen

import (
	"fmt"
	"testing"
)

// memConfig is a bare in-memory stand-in for *config.Config, sufficient for
// idgen's narrow Config interface.
type memConfig struct {
	values map[string]string
}

func newMemConfig() *memConfig {
	return &memConfig{values: map[string]string{}}
}

func (m *memConfig) Get(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("no such key: %s", key)
	}
	return v, nil
}

func (m *memConfig) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func TestInitSeedsWidthThreeSequences(t *testing.T) {
	t.Parallel()

	cfg := newMemConfig()
	if err := Init(cfg, "abcdefghij"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	g := New(cfg)
	id, err := g.GetID()
	if err != nil {
		t.Fatalf("GetID: %v", err)
	}
	if len(id) != initialWidth {
		t.Errorf("GetID() = %q, want length %d", id, initialWidth)
	}
}

func TestGetIDIsStableUntilAdvance(t *testing.T) {
	t.Parallel()

	cfg := newMemConfig()
	if err := Init(cfg, "abcdefghij"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	g := New(cfg)

	first, err := g.GetID()
	if err != nil {
		t.Fatalf("GetID: %v", err)
	}
	second, err := g.GetID()
	if err != nil {
		t.Fatalf("GetID: %v", err)
	}
	if first != second {
		t.Errorf("GetID() changed without AdvanceID: %q != %q", first, second)
	}
}

func TestAdvanceIDProducesDistinctIDs(t *testing.T) {
	t.Parallel()

	cfg := newMemConfig()
	if err := Init(cfg, "abcdefghij"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	g := New(cfg)

	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id, err := g.GetID()
		if err != nil {
			t.Fatalf("GetID: %v", err)
		}
		if seen[id] {
			t.Fatalf("id %q issued twice (iteration %d)", id, i)
		}
		seen[id] = true
		if err := g.AdvanceID(); err != nil {
			t.Fatalf("AdvanceID: %v", err)
		}
	}
}

// TestWidthGrowsAfterExhaustingBase verifies the odometer widens once every
// id of the current width has been issued: with a 10-symbol alphabet and
// initial width 3, 1000 advances exhaust the width-3 space and the 1001st
// live id is 4 characters wide.
func TestWidthGrowsAfterExhaustingBase(t *testing.T) {
	t.Parallel()

	cfg := newMemConfig()
	if err := Init(cfg, "1234567890"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	g := New(cfg)

	for i := 0; i < 1000; i++ {
		if err := g.AdvanceID(); err != nil {
			t.Fatalf("AdvanceID: %v", err)
		}
	}

	id, err := g.GetID()
	if err != nil {
		t.Fatalf("GetID: %v", err)
	}
	if len(id) != initialWidth+1 {
		t.Errorf("GetID() after 1000 advances = %q (len %d), want length %d", id, len(id), initialWidth+1)
	}
}

// TestAdvanceIDSurvivesSecondWidthBoundary calls AdvanceID past the point
// (the 2000th call, with a 10-symbol alphabet) where a width-4 id's fourth
// position is first addressed. If AdvanceID fails to retain the sequences
// slice grown by the first width increase (at call 1000), this indexes
// into a too-short slice and panics instead of returning a still-width-4 id.
func TestAdvanceIDSurvivesSecondWidthBoundary(t *testing.T) {
	t.Parallel()

	cfg := newMemConfig()
	if err := Init(cfg, "1234567890"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	g := New(cfg)

	for i := 0; i < 2000; i++ {
		if err := g.AdvanceID(); err != nil {
			t.Fatalf("AdvanceID at step %d: %v", i, err)
		}
	}

	id, err := g.GetID()
	if err != nil {
		t.Fatalf("GetID: %v", err)
	}
	if len(id) != initialWidth+1 {
		t.Errorf("GetID() after 2000 advances = %q (len %d), want length %d", id, len(id), initialWidth+1)
	}
}

func TestSizeTracksIssuedCount(t *testing.T) {
	t.Parallel()

	cfg := newMemConfig()
	if err := Init(cfg, "abcdefghij"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	g := New(cfg)

	for i := 0; i < 7; i++ {
		if err := g.AdvanceID(); err != nil {
			t.Fatalf("AdvanceID: %v", err)
		}
	}

	n, err := g.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if n != 7 {
		t.Errorf("Size() = %d, want 7", n)
	}
}

func TestSavePersistsStateAcrossInstances(t *testing.T) {
	t.Parallel()

	cfg := newMemConfig()
	if err := Init(cfg, "abcdefghij"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	g := New(cfg)

	for i := 0; i < 12; i++ {
		if err := g.AdvanceID(); err != nil {
			t.Fatalf("AdvanceID: %v", err)
		}
	}
	before, err := g.GetID()
	if err != nil {
		t.Fatalf("GetID: %v", err)
	}
	if err := g.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened := New(cfg)
	after, err := reopened.GetID()
	if err != nil {
		t.Fatalf("GetID (reopened): %v", err)
	}
	if before != after {
		t.Errorf("id did not survive Save/reload: %q != %q", before, after)
	}
}

func TestSaveIsNoOpWithoutModification(t *testing.T) {
	t.Parallel()

	cfg := newMemConfig()
	if err := Init(cfg, "abcdefghij"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	g := New(cfg)
	if _, err := g.GetID(); err != nil {
		t.Fatalf("GetID: %v", err)
	}

	cfg.values["!ids.total"] = "sentinel-untouched"
	if err := g.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if cfg.values["!ids.total"] != "sentinel-untouched" {
		t.Errorf("Save rewrote config despite no modification")
	}
}
