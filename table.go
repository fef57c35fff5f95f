package pst

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTemplate indicates a template spec that cannot be loaded, such
// as an empty atom sequence or an unparseable atom label.
var ErrInvalidTemplate = errors.New("pst: invalid template")

// ErrDuplicateTemplate indicates two loaded templates with identical atom
// sequences. Duplicates are rejected rather than silently overwritten.
var ErrDuplicateTemplate = errors.New("pst: duplicate template")

// ErrMalformedStream indicates a token stream truncated mid-template:
// a template identifier followed by fewer slot values than it requires.
var ErrMalformedStream = errors.New("pst: malformed token stream")

// keySep joins atom labels into bucket keys. Labels never contain raw
// control bytes (escapePayload guarantees this), so the separator cannot
// collide with label content.
const keySep = "\x1f"

// Table holds a loaded template set for encoding and decoding. A Table is
// built once by NewTable and is immutable: concurrent Encode and Decode
// calls need no synchronization. Loading a new template set means building
// a new Table.
type Table struct {
	templates []Template
	byID      map[string]int         // identifier -> template index
	buckets   map[int]map[string]int // length -> joined labels -> template index
	minLen    int                    // shortest loaded template
	maxLen    int                    // longest loaded template
}

// NewTable builds a Table from an ordered list of template specs. The n-th
// spec receives identifier "<Tn>". It fails with ErrInvalidTemplate for an
// empty or unparseable spec and ErrDuplicateTemplate when two specs share
// an atom sequence.
func NewTable(specs []TemplateSpec) (*Table, error) {
	t := &Table{
		byID:    make(map[string]int, len(specs)),
		buckets: make(map[int]map[string]int),
	}
	seen := make(map[string]int, len(specs))
	for idx, spec := range specs {
		if len(spec.Atoms) == 0 {
			return nil, fmt.Errorf("%w: template %d has no atoms", ErrInvalidTemplate, idx)
		}
		tpl := Template{
			id:     templateID(idx),
			atoms:  make([]Atom, 0, len(spec.Atoms)),
			labels: make([]string, 0, len(spec.Atoms)),
		}
		for _, label := range spec.Atoms {
			atom, err := ParseAtom(label)
			if err != nil {
				return nil, fmt.Errorf("%w: template %d: %v", ErrInvalidTemplate, idx, err)
			}
			tpl.atoms = append(tpl.atoms, atom)
			// Re-render so equivalent spellings normalize to one key.
			tpl.labels = append(tpl.labels, atom.Label())
			if atom.Kind.IsSlot() {
				tpl.slotCount++
			}
		}
		key := strings.Join(tpl.labels, keySep)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: templates %d and %d have identical atoms", ErrDuplicateTemplate, prev, idx)
		}
		seen[key] = idx

		length := tpl.Len()
		bucket := t.buckets[length]
		if bucket == nil {
			bucket = make(map[string]int)
			t.buckets[length] = bucket
		}
		bucket[key] = idx
		t.byID[tpl.id] = idx
		t.templates = append(t.templates, tpl)

		if t.minLen == 0 || length < t.minLen {
			t.minLen = length
		}
		if length > t.maxLen {
			t.maxLen = length
		}
	}
	return t, nil
}

// Len returns the number of loaded templates.
func (t *Table) Len() int { return len(t.templates) }

// Template returns the loaded template with the given identifier.
func (t *Table) Template(id string) (*Template, bool) {
	idx, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return &t.templates[idx], true
}

// lookupLongest finds the longest template matching the atom labels
// starting at pos. Lengths are scanned from the cached maximum down to the
// minimum; the first hit wins, so the result is deterministic and longer
// matches are always preferred.
func (t *Table) lookupLongest(labels []string, pos int) (idx, length int, ok bool) {
	remaining := len(labels) - pos
	maxLen := min(remaining, t.maxLen)
	for l := maxLen; l >= t.minLen && l > 0; l-- {
		bucket := t.buckets[l]
		if bucket == nil {
			continue
		}
		key := strings.Join(labels[pos:pos+l], keySep)
		if i, hit := bucket[key]; hit {
			return i, l, true
		}
	}
	return 0, 0, false
}

// Stats reports what one Encode pass did.
type Stats struct {
	Positions    int // atom positions visited
	TemplateHits int // template identifiers emitted
	LiteralEmits int // raw tokens passed through unmatched
	SlotEmits    int // slot values emitted after identifiers
}

// Encode compresses a tokenization into a token stream: a flat sequence of
// raw literal tokens and template identifiers each followed by its slot
// values. The scan is greedy left to right, always taking the longest
// template match at the current position.
func (t *Table) Encode(tz *Tokenization) []string {
	out, _ := t.EncodeWithStats(tz)
	return out
}

// EncodeWithStats is Encode plus match statistics.
func (t *Table) EncodeWithStats(tz *Tokenization) ([]string, Stats) {
	var (
		out   = make([]string, 0, len(tz.Tokens))
		stats Stats
	)
	for pos := 0; pos < len(tz.Tokens); {
		stats.Positions++
		idx, length, ok := t.lookupLongest(tz.Labels, pos)
		if !ok {
			out = append(out, tz.Tokens[pos])
			stats.LiteralEmits++
			pos++
			continue
		}
		out = append(out, t.templates[idx].id)
		stats.TemplateHits++
		for j := pos; j < pos+length; j++ {
			if tz.Slots[j] {
				out = append(out, tz.Tokens[j])
				stats.SlotEmits++
			}
		}
		pos += length
	}
	return out, stats
}

// EncodeText tokenizes text with az and encodes it.
func (t *Table) EncodeText(az *Atomizer, text string) []string {
	return t.Encode(az.Tokenize(text))
}

// Decode reconstructs the original text from a token stream produced with
// the same template table. Stream elements that are loaded template
// identifiers expand to their atom sequence, consuming exactly SlotCount
// following elements as slot values; everything else, including
// identifier-shaped strings not present in the table, is appended
// verbatim. Decode fails with ErrMalformedStream when the stream ends
// before a template's slot values do.
func (t *Table) Decode(stream []string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(stream); {
		idx, ok := t.byID[stream[i]]
		if !ok {
			b.WriteString(stream[i])
			i++
			continue
		}
		tpl := &t.templates[idx]
		need := tpl.slotCount
		if i+1+need > len(stream) {
			return "", fmt.Errorf("%w: %s needs %d slot values, %d remain",
				ErrMalformedStream, tpl.id, need, len(stream)-i-1)
		}
		slots := stream[i+1 : i+1+need]
		k := 0
		for _, atom := range tpl.atoms {
			if atom.Kind.IsSlot() {
				b.WriteString(slots[k])
				k++
			} else {
				b.WriteString(atom.Payload)
			}
		}
		i += 1 + need
	}
	return b.String(), nil
}
