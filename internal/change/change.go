// Package change defines the immutable (timestamp, key, value) record that
// every item's history is built from, and the bit-exact on-disk codec for a
// sequence of such records.
package change

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Change is a single (timestamp, key, value) record. An empty Value denotes
// deletion of Key as of Timestamp.
type Change struct {
	Timestamp int64
	Key       string
	Value     string
}

// CorruptedItem is returned by Parse when the byte stream does not follow
// the change-log grammar: a record with no timestamp block, an empty line,
// a line without '=', or timestamps that decrease.
type CorruptedItem struct {
	Reason string
}

func (e *CorruptedItem) Error() string {
	return "corrupted item log: " + e.Reason
}

// Parse decodes a change log from its on-disk representation. Lines are
// LF-terminated; a line of pure digits introduces a timestamp block, and
// every following non-timestamp line is "key=encoded-value" until the next
// timestamp line. Empty lines are rejected.
func Parse(data []byte) ([]Change, error) {
	var changes []Change
	var timestamp int64
	haveTimestamp := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			return nil, &CorruptedItem{Reason: "empty line"}
		}

		if isAllDigits(line) {
			ts, err := strconv.ParseInt(line, 10, 64)
			if err != nil {
				return nil, &CorruptedItem{Reason: "malformed timestamp: " + line}
			}
			timestamp = ts
			haveTimestamp = true
			continue
		}

		if !haveTimestamp {
			return nil, &CorruptedItem{Reason: "record without a preceding timestamp: " + line}
		}

		key, encoded, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &CorruptedItem{Reason: "record missing '=': " + line}
		}

		changes = append(changes, Change{
			Timestamp: timestamp,
			Key:       key,
			Value:     decode(encoded),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading change log: %w", err)
	}

	for i := 1; i < len(changes); i++ {
		if changes[i-1].Timestamp > changes[i].Timestamp {
			return nil, &CorruptedItem{Reason: "timestamps are not non-decreasing"}
		}
	}

	return changes, nil
}

// Emit renders a change log back to its on-disk representation. Emit(Parse(x))
// reproduces x for any well-formed x.
func Emit(changes []Change) []byte {
	if len(changes) == 0 {
		return nil
	}

	var buf bytes.Buffer
	// Force a timestamp line before the very first record.
	timestamp := changes[0].Timestamp + 1
	for _, c := range changes {
		if c.Timestamp != timestamp {
			timestamp = c.Timestamp
			fmt.Fprintf(&buf, "%d\n", timestamp)
		}
		buf.WriteString(c.Key)
		buf.WriteByte('=')
		buf.WriteString(encode(c.Value))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// decode restores a value encoded by encode: "\\" -> "\", "\n" -> newline.
// A single left-to-right scan avoids the double-substitution hazard of
// applying the two replacements as separate global passes.
func decode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// encode escapes a value for single-line storage: "\" -> "\\", newline -> "\n".
func encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// WriteTo writes the Emit rendering of changes to w and returns the number
// of bytes written. The whole log is rendered in memory before writing.
func WriteTo(w io.Writer, changes []Change) (int64, error) {
	n, err := w.Write(Emit(changes))
	return int64(n), err
}
