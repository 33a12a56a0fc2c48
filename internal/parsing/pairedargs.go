package parsing

import "strings"

// pairState is the re-pairer's state, named after the three-state machine
// in the grammar this is ported from: a run of REGULAR tokens, until a
// trailing-colon token opens a FIRST/APPEND span that is folded into one
// "key=value" token.
type pairState int

const (
	stateRegular pairState = iota
	stateFirst
	stateAppend
)

// ParsePairedArgs re-pairs "key: value with spaces" argument runs into a
// single "key=value with spaces" token, so both "key=value" and
// "key: value..." spellings reach the rest of the parser uniformly. A token
// ending in ':' (length > 1) opens a span: the very next token is appended
// directly (no separating space), and every token after that is appended
// with a leading space, until a token that itself parses as "key=..." (with
// a valid key name) closes the span and starts fresh, or a new opener token
// closes it early and starts a fresh span — both checked on every token
// regardless of the span currently in progress.
func ParsePairedArgs(tokens []string) []string {
	var out []string
	state := stateRegular
	pending := -1 // index into out of the token currently being built

	for _, tok := range tokens {
		if looksLikeAssignment(tok) {
			out = append(out, tok)
			state = stateRegular
			pending = -1
			continue
		}

		if isOpener(tok) {
			key := tok[:len(tok)-1]
			out = append(out, key+"=")
			pending = len(out) - 1
			state = stateFirst
			continue
		}

		switch state {
		case stateFirst:
			out[pending] += tok
			state = stateAppend
		case stateAppend:
			out[pending] += " " + tok
		default:
			out = append(out, tok)
		}
	}

	return out
}

func isOpener(tok string) bool {
	return len(tok) > 1 && strings.HasSuffix(tok, ":")
}

// looksLikeAssignment reports whether tok is "key=..." with a valid key
// name preceding the first '='.
func looksLikeAssignment(tok string) bool {
	key, _, ok := strings.Cut(tok, "=")
	if !ok {
		return false
	}
	return IsKeyName(key)
}
