// Package filter implements ItemFilter: a conjunction of conditions
// evaluated against an accessor that can return multiple candidate values
// per field, with the "_any" pseudo-key fanning out over every populated
// field.
package filter

import (
	"fmt"
	"strings"

	"github.com/xaizek/dit/internal/parsing"
)

// Accessor resolves a field name to its candidate values on one item. A
// single field may expand to more than one candidate (only "_any" does
// today); a condition is satisfied if any candidate matches.
type Accessor func(key string) ([]string, error)

// Error is FilterError: either an unparsable expression, or a filter that
// did not match, with every failing condition's message collected (not
// short-circuited) and joined by newlines.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "\n")
}

// condText pairs a parsed Cond with the original expression text, so
// failure messages can quote exactly what the user typed.
type condText struct {
	cond parsing.Cond
	text string
}

// Filter evaluates the conjunction of its conditions against an item's
// Accessor.
type Filter struct {
	conds []condText
}

// New parses exprs (one condition per string) into a Filter.
func New(exprs []string) (*Filter, error) {
	f := &Filter{}
	for _, expr := range exprs {
		cond, err := parsing.ParseCond(expr)
		if err != nil {
			return nil, &Error{Messages: []string{err.Error()}}
		}
		f.conds = append(f.conds, condText{cond: cond, text: expr})
	}
	return f, nil
}

// FromCond builds a Filter around a single already-parsed condition.
func FromCond(cond parsing.Cond) *Filter {
	return &Filter{conds: []condText{{cond: cond, text: fmt.Sprintf("%s%s%s", cond.Key, cond.Op, cond.Value)}}}
}

// Passes evaluates the conjunction of conditions against access, expanding
// "_any" to every field currently populated on the item (via the
// "_any" key itself, which access must resolve the same way). Every
// failing condition is recorded; Passes does not short-circuit, so a
// caller that wants every failure message sees all of them.
func (f *Filter) Passes(access Accessor) (bool, error) {
	var failures []string

	for _, ct := range f.conds {
		candidates, err := access(ct.cond.Key)
		if err != nil {
			return false, err
		}

		matched := false
		for _, candidate := range candidates {
			if ct.cond.Matches(candidate) {
				matched = true
				break
			}
		}
		if !matched {
			failures = append(failures, "\tnot met for "+ct.text)
		}
	}

	if len(failures) > 0 {
		return false, &Error{Messages: failures}
	}
	return true, nil
}
