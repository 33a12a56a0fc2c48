package table

import (
	"bytes"
	"strings"
	"testing"
)

type stubRow map[string]string

func (r stubRow) Field(key string) (string, error) { return r[key], nil }

func TestHeadingStripsLeadingUnderscoresAndUppercases(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"_id":      "ID",
		"_created": "CREATED",
		"title":    "TITLE",
	}
	for key, want := range cases {
		if got := heading(key); got != want {
			t.Errorf("heading(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestPrintBasicAlignment(t *testing.T) {
	t.Parallel()

	tbl, err := New("_id,title", "", "", 80)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tbl.Append(stubRow{"_id": "ab1", "title": "short"})
	tbl.Append(stubRow{"_id": "cd22", "title": "a longer title"})

	var buf bytes.Buffer
	if err := tbl.Print(&buf); err != nil {
		t.Fatalf("Print: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Print() produced %d lines, want 3 (heading + 2 rows)", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("heading line = %q, want prefix ID", lines[0])
	}
}

func TestPrintSortsRightToLeft(t *testing.T) {
	t.Parallel()

	tbl, err := New("a,b", "a,b", "", 80)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tbl.Append(stubRow{"a": "2", "b": "y"})
	tbl.Append(stubRow{"a": "1", "b": "z"})
	tbl.Append(stubRow{"a": "1", "b": "a"})

	var buf bytes.Buffer
	if err := tbl.Print(&buf); err != nil {
		t.Fatalf("Print: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	// Primary key a: rows with a=1 before a=2; secondary key b orders
	// a=1 rows as "a" before "z".
	if !strings.Contains(lines[1], "1") || !strings.Contains(lines[1], "a") {
		t.Errorf("lines[1] = %q, want a=1,b=a first", lines[1])
	}
	if !strings.Contains(lines[2], "1") || !strings.Contains(lines[2], "z") {
		t.Errorf("lines[2] = %q, want a=1,b=z second", lines[2])
	}
	if !strings.Contains(lines[3], "2") {
		t.Errorf("lines[3] = %q, want a=2 last", lines[3])
	}
}

func TestTruncateAddsEllipsisWhenWideEnough(t *testing.T) {
	t.Parallel()

	got := truncate("abcdefgh", 6)
	if got != "abc..." {
		t.Errorf("truncate() = %q, want %q", got, "abc...")
	}
}

func TestTruncateAllDotsWhenNarrow(t *testing.T) {
	t.Parallel()

	got := truncate("abcdefgh", 3)
	if got != "..." {
		t.Errorf("truncate() = %q, want %q", got, "...")
	}
}

func TestShrinkToFitPrefersLeftmostWidest(t *testing.T) {
	t.Parallel()

	widths := []int{10, 10, 5}
	got := shrinkToFit(append([]int(nil), widths...), 10+10+5+columnGap*2-1)
	if got == nil {
		t.Fatal("shrinkToFit() = nil, want shrunk widths")
	}
	if got[0] != 9 || got[1] != 10 {
		t.Errorf("shrinkToFit() = %v, want leftmost tied column shrunk first", got)
	}
}

func TestShrinkToFitGivesUpBelowMinimum(t *testing.T) {
	t.Parallel()

	widths := []int{3, 3}
	if got := shrinkToFit(widths, 1); got != nil {
		t.Errorf("shrinkToFit() = %v, want nil (below minimum width)", got)
	}
}

func TestPrintZeroWidthYieldsNoOutput(t *testing.T) {
	t.Parallel()

	tbl, err := New("_id", "", "", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tbl.Append(stubRow{"_id": "ab1"})

	var buf bytes.Buffer
	if err := tbl.Print(&buf); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Print() with zero width wrote %q, want empty", buf.String())
	}
}

func TestColorRuleSelectsHeadingVsRows(t *testing.T) {
	t.Parallel()

	tbl, err := New("status", "", "bold !heading; fg-red status==blocked", 80)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tbl.Append(stubRow{"status": "blocked"})
	tbl.Append(stubRow{"status": "open"})

	blockedDeco := tbl.decorationFor(stubRow{"status": "blocked"}, false)
	if len(blockedDeco) == 0 {
		t.Error("decorationFor(blocked) = empty, want fg-red attribute")
	}
	openDeco := tbl.decorationFor(stubRow{"status": "open"}, false)
	if len(openDeco) != 0 {
		t.Errorf("decorationFor(open) = %v, want no attributes", openDeco)
	}
	headDeco := tbl.decorationFor(nil, true)
	if len(headDeco) == 0 {
		t.Error("decorationFor(heading) = empty, want bold attribute")
	}
}
