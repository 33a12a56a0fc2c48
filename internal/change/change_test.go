package change

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseEmitRoundTrip(t *testing.T) {
	t.Parallel()

	input := []byte("100\ntitle=a\\nline\n101\nk=v\n")
	changes, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Change{
		{Timestamp: 100, Key: "title", Value: "a\nline"},
		{Timestamp: 101, Key: "k", Value: "v"},
	}
	if len(changes) != len(want) {
		t.Fatalf("got %d changes, want %d", len(changes), len(want))
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %+v, want %+v", i, changes[i], want[i])
		}
	}

	out := Emit(changes)
	if !bytes.Equal(out, input) {
		t.Errorf("Emit(Parse(x)) = %q, want %q", out, input)
	}
}

func TestParseEmptyLineIsCorrupted(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("100\ntitle=a\n\nk=v\n"))
	var ci *CorruptedItem
	if !errors.As(err, &ci) {
		t.Fatalf("Parse() err = %v, want *CorruptedItem", err)
	}
}

func TestParseRecordWithoutTimestamp(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("title=a\n"))
	var ci *CorruptedItem
	if !errors.As(err, &ci) {
		t.Fatalf("Parse() err = %v, want *CorruptedItem", err)
	}
}

func TestParseNonMonotonicTimestamps(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("200\nk=v\n100\nk=w\n"))
	var ci *CorruptedItem
	if !errors.As(err, &ci) {
		t.Fatalf("Parse() err = %v, want *CorruptedItem", err)
	}
}

func TestEncodeDecodeEscaping(t *testing.T) {
	t.Parallel()

	tests := []string{
		`back\slash`,
		"multi\nline\nvalue",
		`\n literal looking but escaped \\n`,
		"",
	}
	for _, val := range tests {
		changes := []Change{{Timestamp: 1, Key: "k", Value: val}}
		parsed, err := Parse(Emit(changes))
		if err != nil {
			t.Fatalf("Parse(Emit(%q)): %v", val, err)
		}
		if len(parsed) != 1 || parsed[0].Value != val {
			t.Errorf("round-trip %q -> %+v", val, parsed)
		}
	}
}

func TestEmitEmpty(t *testing.T) {
	t.Parallel()

	if out := Emit(nil); out != nil {
		t.Errorf("Emit(nil) = %q, want nil", out)
	}
}
