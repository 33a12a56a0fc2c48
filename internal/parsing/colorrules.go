package parsing

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// decorNames maps the colorization grammar's decorator tokens to
// github.com/fatih/color attributes, the dependency this grammar exists to
// drive: dit never emits raw ANSI escapes by hand.
var decorNames = map[string]color.Attribute{
	"bold": color.Bold,
	"inv":  color.ReverseVideo,
	"def":  color.Reset,

	"fg-black":   color.FgBlack,
	"fg-red":     color.FgRed,
	"fg-green":   color.FgGreen,
	"fg-yellow":  color.FgYellow,
	"fg-blue":    color.FgBlue,
	"fg-magenta": color.FgMagenta,
	"fg-cyan":    color.FgCyan,
	"fg-white":   color.FgWhite,

	"bg-black":   color.BgBlack,
	"bg-red":     color.BgRed,
	"bg-green":   color.BgGreen,
	"bg-yellow":  color.BgYellow,
	"bg-blue":    color.BgBlue,
	"bg-magenta": color.BgMagenta,
	"bg-cyan":    color.BgCyan,
	"bg-white":   color.BgWhite,
}

// ColorRule is one "decor+ match+" rule: a set of attributes applied to
// rows matching at least one of Conds, or to the heading row when Heading
// is set.
type ColorRule struct {
	Attrs   []color.Attribute
	Heading bool
	Conds   []Cond
}

// ParseColorRules parses the full "ui.ls.color" grammar: a ';'-separated
// list of rules, each a run of decorators followed by a run of matches
// (either the literal "!heading" or a "key op value" condition).
func ParseColorRules(spec string) ([]ColorRule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	var rules []ColorRule
	for _, raw := range strings.Split(spec, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		rule, err := parseColorRule(raw)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseColorRule(raw string) (ColorRule, error) {
	tokens := strings.Fields(raw)

	var rule ColorRule
	i := 0
	for ; i < len(tokens); i++ {
		attr, ok := decorNames[tokens[i]]
		if !ok {
			break
		}
		rule.Attrs = append(rule.Attrs, attr)
	}
	if len(rule.Attrs) == 0 {
		return ColorRule{}, fmt.Errorf("color rule %q: no decorators", raw)
	}
	if i == len(tokens) {
		return ColorRule{}, fmt.Errorf("color rule %q: no match clauses", raw)
	}

	for ; i < len(tokens); i++ {
		if tokens[i] == "!heading" {
			rule.Heading = true
			continue
		}
		cond, err := ParseCond(tokens[i])
		if err != nil {
			return ColorRule{}, fmt.Errorf("color rule %q: %w", raw, err)
		}
		rule.Conds = append(rule.Conds, cond)
	}
	return rule, nil
}
