// Package logdiff renders an item's history as a sequence of per-field
// transitions (created/changed/deleted), with an LCS-based line diff for
// multi-line values and long runs of unchanged lines folded for
// readability.
package logdiff

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Kind classifies a field transition between two successive values.
type Kind int

const (
	Created Kind = iota
	Changed
	Deleted
)

// FieldChange is one rendered transition for a single key at a single
// timestamp.
type FieldChange struct {
	Key       string
	Timestamp int64
	Kind      Kind
	Diff      []string // present only for Kind == Changed
}

// Classify determines the Kind of a transition from prev to curr: the
// first non-empty value creates the key, a transition to empty deletes it,
// and any other transition is a change.
func Classify(prev, curr string) Kind {
	switch {
	case prev == "" && curr != "":
		return Created
	case curr == "":
		return Deleted
	default:
		return Changed
	}
}

// Header renders a field change's header line, with a human-readable
// local-time suffix when withTime is set.
func Header(fc FieldChange, withTime bool) string {
	var verb string
	switch fc.Kind {
	case Created:
		verb = "created"
	case Deleted:
		verb = "deleted"
	default:
		verb = "changed"
	}

	header := fmt.Sprintf("%s %s", fc.Key, verb)
	if withTime {
		header += " (" + humanize.Time(time.Unix(fc.Timestamp, 0)) + ")"
	}
	return header
}

// Diff computes an LCS-based line diff between prev and curr, folding runs
// of more than 3 equal lines into a first/marker/last triple.
func Diff(prev, curr []string) []string {
	d := lcsTable(prev, curr)
	raw := backtrack(d, prev, curr)
	return foldEqualRuns(raw)
}

// lcsTable fills the classic edit-distance DP table: d[i][0]=i, d[0][j]=j,
// d[i][j] = min(d[i-1][j]+1, d[i][j-1]+1), or d[i-1][j-1] when
// prev[i-1] == curr[j-1].
func lcsTable(prev, curr []string) [][]int {
	n, m := len(prev), len(curr)
	d := make([][]int, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
		d[i][0] = i
	}
	for j := 0; j <= m; j++ {
		d[0][j] = j
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if prev[i-1] == curr[j-1] {
				d[i][j] = d[i-1][j-1]
				continue
			}
			d[i][j] = d[i-1][j] + 1
			if d[i][j-1]+1 < d[i][j] {
				d[i][j] = d[i][j-1] + 1
			}
		}
	}
	return d
}

// backtrack walks the DP table from (n, m) back to (0, 0), producing
// prefixed lines in forward order: "- " deletion, "+ " insertion,
// "  " equality.
func backtrack(d [][]int, prev, curr []string) []string {
	i, j := len(prev), len(curr)
	var rev []string

	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && prev[i-1] == curr[j-1]:
			rev = append(rev, "  "+prev[i-1])
			i--
			j--
		case j > 0 && (i == 0 || d[i][j-1]+1 == d[i][j]):
			rev = append(rev, "+ "+curr[j-1])
			j--
		default:
			rev = append(rev, "- "+prev[i-1])
			i--
		}
	}

	out := make([]string, len(rev))
	for k, line := range rev {
		out[len(rev)-1-k] = line
	}
	return out
}

const foldThreshold = 3

// foldEqualRuns collapses runs of more than foldThreshold equality lines
// (prefix "  ") into the first line, a marker, and the last line.
func foldEqualRuns(lines []string) []string {
	var out []string
	i := 0
	for i < len(lines) {
		if !isEqualLine(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}
		j := i
		for j < len(lines) && isEqualLine(lines[j]) {
			j++
		}
		run := lines[i:j]
		if len(run) > foldThreshold {
			out = append(out, run[0])
			out = append(out, fmt.Sprintf("<%d unchanged lines folded>", len(run)-2))
			out = append(out, run[len(run)-1])
		} else {
			out = append(out, run...)
		}
		i = j
	}
	return out
}

func isEqualLine(line string) bool {
	return len(line) >= 2 && line[:2] == "  "
}
