// Package idgen implements dit's short, non-sequential, collision-free item
// id sequence: a mixed-radix odometer over a configurable alphabet, with
// growing width and per-position permutations, persisted in a Config under
// the "!ids.*" builtin keys.
package idgen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/xaizek/dit/internal/config"
)

const initialWidth = 3

// Config is the subset of config.Config's interface IdGenerator needs; it is
// expressed as an interface so tests can supply a bare in-memory stand-in.
type Config interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Generator issues ids of growing width over an alphabet, persisting its
// odometer state to a Config.
type Generator struct {
	cfg Config

	loaded    bool
	modified  bool
	alphabet  string
	sequences []string // sequences[i] is the permutation backing position i
	nextID    string
	count     int // 0-based position within the current width's sequence
	total     int
}

// New wraps cfg; state is not read until the first operation (getID is
// cheap relative to disk I/O, so loading happens lazily).
func New(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Init seeds cfg with fresh IdGenerator state for a brand-new project: width
// 3, three independent shuffles of alphabet, a count of zero.
func Init(cfg Config, alphabet string) error {
	seqs := make([]string, initialWidth)
	for i := range seqs {
		seqs[i] = shuffle(alphabet)
	}

	if err := cfg.Set("!ids.sequences.alphabet", alphabet); err != nil {
		return err
	}
	if err := cfg.Set("!ids.sequences.count", strconv.Itoa(len(seqs))); err != nil {
		return err
	}
	for i, seq := range seqs {
		if err := cfg.Set(fmt.Sprintf("!ids.sequences.%d", i), seq); err != nil {
			return err
		}
	}
	if err := cfg.Set("!ids.count", "0"); err != nil {
		return err
	}
	if err := cfg.Set("!ids.total", "0"); err != nil {
		return err
	}

	next := make([]byte, len(seqs))
	for i, seq := range seqs {
		next[i] = seq[0]
	}
	return cfg.Set("!ids.next", string(next))
}

func (g *Generator) ensureLoaded() error {
	if g.loaded {
		return nil
	}

	alphabet, err := g.cfg.Get("!ids.sequences.alphabet")
	if err != nil {
		return err
	}
	countStr, err := g.cfg.Get("!ids.sequences.count")
	if err != nil {
		return err
	}
	nseq, err := strconv.Atoi(countStr)
	if err != nil {
		return fmt.Errorf("idgen: malformed !ids.sequences.count: %w", err)
	}

	sequences := make([]string, nseq)
	for i := 0; i < nseq; i++ {
		seq, err := g.cfg.Get(fmt.Sprintf("!ids.sequences.%d", i))
		if err != nil {
			return err
		}
		sequences[i] = seq
	}

	next, err := g.cfg.Get("!ids.next")
	if err != nil {
		return err
	}
	count, err := g.cfg.Get("!ids.count")
	if err != nil {
		return err
	}
	total, err := g.cfg.Get("!ids.total")
	if err != nil {
		return err
	}

	g.alphabet = alphabet
	g.sequences = sequences
	g.nextID = next
	g.count, err = strconv.Atoi(count)
	if err != nil {
		return fmt.Errorf("idgen: malformed !ids.count: %w", err)
	}
	g.total, err = strconv.Atoi(total)
	if err != nil {
		return fmt.Errorf("idgen: malformed !ids.total: %w", err)
	}
	g.loaded = true
	return nil
}

// GetID returns the id that the next AdvanceID call will retire.
func (g *Generator) GetID() (string, error) {
	if err := g.ensureLoaded(); err != nil {
		return "", err
	}
	return g.nextID, nil
}

// AdvanceID computes the next id in the sequence and bumps the issued
// counter. It must be called once for every id handed out via GetID.
func (g *Generator) AdvanceID() error {
	if err := g.ensureLoaded(); err != nil {
		return err
	}

	id, count, sequences := advance(g.nextID, g.count, g.sequences, g.alphabet)
	g.nextID = id
	g.count = count
	g.sequences = sequences
	g.total++
	g.modified = true
	return nil
}

// Size returns the cumulative number of ids issued so far.
func (g *Generator) Size() (int, error) {
	if err := g.ensureLoaded(); err != nil {
		return 0, err
	}
	return g.total, nil
}

// Save persists odometer state to the backing Config, but only if modified
// since the last Save (or since load, if never saved).
func (g *Generator) Save() error {
	if !g.modified {
		return nil
	}

	if err := g.cfg.Set("!ids.sequences.alphabet", g.alphabet); err != nil {
		return err
	}
	if err := g.cfg.Set("!ids.next", g.nextID); err != nil {
		return err
	}
	if err := g.cfg.Set("!ids.count", strconv.Itoa(g.count)); err != nil {
		return err
	}
	if err := g.cfg.Set("!ids.total", strconv.Itoa(g.total)); err != nil {
		return err
	}
	if err := g.cfg.Set("!ids.sequences.count", strconv.Itoa(len(g.sequences))); err != nil {
		return err
	}
	for i, seq := range g.sequences {
		if err := g.cfg.Set(fmt.Sprintf("!ids.sequences.%d", i), seq); err != nil {
			return err
		}
	}

	g.modified = false
	return nil
}

// advance computes the next (id, count, sequences) triple for a mixed-radix
// odometer with per-position permutations. count is the 0-based position of
// id within the current width's sequence; the returned count is the
// position of the returned id. The returned sequences must replace the
// caller's, since a width growth appends a new permutation to it.
func advance(id string, count int, sequences []string, alphabet string) (string, int, []string) {
	b := len(sequences[0])
	i := fieldToAdvance(count+1, b)

	if i == len(id) {
		// Exhausted every id of the current width: grow by one position.
		sequences = append(sequences, shuffle(alphabet))
		next := make([]byte, len(sequences))
		for j, seq := range sequences {
			next[j] = seq[0]
		}
		return string(next), 0, sequences
	}

	seq := sequences[i]
	x := strings.IndexByte(seq, id[i])
	x = (x + 1) % len(seq)

	next := []byte(id)
	next[i] = seq[x]
	return string(next), count + 1, sequences
}

// fieldToAdvance determines which field (0-based, left to right) must change
// to produce the k-th (1-based) id of a mixed-radix odometer of base b.
func fieldToAdvance(k, b int) int {
	p := int(math.Ceil(math.Log(float64(k)) / math.Log(float64(b))))
	i := intPow(b, p)
	for p > 0 {
		if k%i == 0 {
			break
		}
		i /= b
		p--
	}
	return p
}

func intPow(b, p int) int {
	r := 1
	for ; p > 0; p-- {
		r *= b
	}
	return r
}

func shuffle(alphabet string) string {
	b := []byte(alphabet)
	rand.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
	return string(b)
}

var _ Config = (*config.Config)(nil)
