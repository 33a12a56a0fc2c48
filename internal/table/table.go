// Package table implements ItemTable: the multi-key sort, column-width
// allocation, and colorization that render a set of items as aligned text.
package table

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/xaizek/dit/internal/parsing"
)

const columnGap = 2

// Row is anything ItemTable can render: a field accessor, used for cells,
// sorting, and colorization conditions alike.
type Row interface {
	// Field returns the effective display value for a format/sort key.
	Field(key string) (string, error)
}

// Table accumulates rows and prints them with the shrink-to-fit column
// layout and colorization rules described for ItemTable.
type Table struct {
	format        []string
	sort          []string
	colorRules    []parsing.ColorRule
	terminalWidth int

	rows []Row
}

// New constructs a Table from comma-separated format and sort key lists,
// a colorization rule spec (as accepted by parsing.ParseColorRules), and
// the terminal width to fit within.
func New(format, sort, colorSpec string, terminalWidth int) (*Table, error) {
	rules, err := parsing.ParseColorRules(colorSpec)
	if err != nil {
		return nil, err
	}
	return &Table{
		format:        splitKeys(format),
		sort:          splitKeys(sort),
		colorRules:    rules,
		terminalWidth: terminalWidth,
	}, nil
}

func splitKeys(spec string) []string {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}
	var keys []string
	for _, k := range strings.Split(spec, ",") {
		keys = append(keys, strings.TrimSpace(k))
	}
	return keys
}

// Append adds a row to be printed.
func (t *Table) Append(r Row) {
	t.rows = append(t.rows, r)
}

// Print renders the accumulated rows to w: stable multi-key sort (applied
// right-to-left so the leftmost sort key is primary), column sizing with
// shrink-to-fit truncation, and per-row colorization.
func (t *Table) Print(w io.Writer) error {
	if t.terminalWidth <= 0 || len(t.format) == 0 {
		return nil
	}

	if err := t.stableSort(); err != nil {
		return err
	}

	headings := make([]string, len(t.format))
	for i, key := range t.format {
		headings[i] = heading(key)
	}

	cells := make([][]string, len(t.rows))
	for r, row := range t.rows {
		cells[r] = make([]string, len(t.format))
		for c, key := range t.format {
			v, err := row.Field(key)
			if err != nil {
				return err
			}
			cells[r][c] = v
		}
	}

	widths := computeWidths(headings, cells)
	widths = shrinkToFit(widths, t.terminalWidth)
	if widths == nil {
		return nil
	}

	headDeco := t.decorationFor(nil, true)
	if err := writeRow(w, headings, widths, headDeco); err != nil {
		return err
	}

	for r, row := range t.rows {
		deco := t.decorationFor(row, false)
		if err := writeRow(w, cells[r], widths, deco); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) stableSort() error {
	var sortErr error
	for i := len(t.sort) - 1; i >= 0; i-- {
		key := t.sort[i]
		sort.SliceStable(t.rows, func(a, b int) bool {
			va, err := t.rows[a].Field(key)
			if err != nil {
				sortErr = err
				return false
			}
			vb, err := t.rows[b].Field(key)
			if err != nil {
				sortErr = err
				return false
			}
			return va < vb
		})
		if sortErr != nil {
			return sortErr
		}
	}
	return nil
}

// heading upper-cases key and strips leading underscores, per the pseudo-
// field naming convention ("_id" -> "ID").
func heading(key string) string {
	return strings.ToUpper(strings.TrimLeft(key, "_"))
}

func computeWidths(headings []string, cells [][]string) []int {
	widths := make([]int, len(headings))
	for c, h := range headings {
		widths[c] = len(h)
	}
	for _, row := range cells {
		for c, v := range row {
			if len(v) > widths[c] {
				widths[c] = len(v)
			}
		}
	}
	return widths
}

// shrinkToFit reduces the widest column by 1 repeatedly until the total
// (including inter-column gaps) fits within terminalWidth, or returns nil
// once any column would fall below 3. Ties for widest are broken toward
// the leftmost column.
func shrinkToFit(widths []int, terminalWidth int) []int {
	if terminalWidth <= 0 {
		return nil
	}

	total := func() int {
		sum := 0
		for _, w := range widths {
			sum += w
		}
		return sum + columnGap*(len(widths)-1)
	}

	for total() > terminalWidth {
		widest := 0
		for c := 1; c < len(widths); c++ {
			if widths[c] > widths[widest] {
				widest = c
			}
		}
		if widths[widest] <= 3 {
			return nil
		}
		widths[widest]--
	}
	return widths
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width >= 4 {
		return s[:width-3] + "..."
	}
	return strings.Repeat(".", width)
}

func writeRow(w io.Writer, cells []string, widths []int, deco []color.Attribute) error {
	var b strings.Builder
	for i, cell := range cells {
		cell = truncate(cell, widths[i])
		if i > 0 {
			b.WriteString(strings.Repeat(" ", columnGap))
		}
		b.WriteString(cell)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		}
	}

	if len(deco) == 0 {
		_, err := fmt.Fprintln(w, b.String())
		return err
	}
	_, err := color.New(deco...).Fprintln(w, b.String())
	return err
}

func (t *Table) decorationFor(row Row, heading bool) []color.Attribute {
	var attrs []color.Attribute
	for _, rule := range t.colorRules {
		if heading {
			if rule.Heading {
				attrs = append(attrs, rule.Attrs...)
			}
			continue
		}
		if rule.Heading {
			continue
		}
		if ruleMatches(rule, row) {
			attrs = append(attrs, rule.Attrs...)
		}
	}
	return attrs
}

func ruleMatches(rule parsing.ColorRule, row Row) bool {
	for _, cond := range rule.Conds {
		v, err := row.Field(cond.Key)
		if err != nil {
			continue
		}
		if cond.Matches(v) {
			return true
		}
	}
	return false
}
