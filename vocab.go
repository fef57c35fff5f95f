package pst

import (
	"encoding/hex"
	"fmt"
	"sort"
)

// ByteFallbackOffset is the first atom ID. IDs 0-255 are reserved for raw
// UTF-8 bytes so that tokens whose atom is missing from the vocabulary
// still encode losslessly at the ID level.
const ByteFallbackOffset = 256

// Vocab maps atom labels to integer IDs for embedding lookup. It is built
// once from corpus frequencies and immutable afterwards.
type Vocab struct {
	ids    map[string]int
	labels []string // ordered by ID; labels[i] has ID ByteFallbackOffset+i
}

// BuildVocab tokenizes corpus with az, counts atom label frequencies, and
// assigns IDs starting at ByteFallbackOffset to every label occurring at
// least minFreq times. Ordering is deterministic: descending count, then
// first appearance in the corpus.
func BuildVocab(az *Atomizer, corpus string, minFreq int) *Vocab {
	tz := az.Tokenize(corpus)

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, label := range tz.Labels {
		if _, ok := counts[label]; !ok {
			firstSeen[label] = i
		}
		counts[label]++
	}

	ordered := make([]string, 0, len(counts))
	for label := range counts {
		ordered = append(ordered, label)
	}
	sort.Slice(ordered, func(i, j int) bool {
		ci, cj := counts[ordered[i]], counts[ordered[j]]
		if ci != cj {
			return ci > cj
		}
		return firstSeen[ordered[i]] < firstSeen[ordered[j]]
	})

	v := &Vocab{ids: make(map[string]int)}
	for _, label := range ordered {
		if counts[label] < minFreq {
			continue
		}
		v.ids[label] = ByteFallbackOffset + len(v.labels)
		v.labels = append(v.labels, label)
	}
	return v
}

// ID returns the ID assigned to an atom label.
func (v *Vocab) ID(label string) (int, bool) {
	id, ok := v.ids[label]
	return id, ok
}

// Label returns the atom label for an ID at or above ByteFallbackOffset.
func (v *Vocab) Label(id int) (string, bool) {
	i := id - ByteFallbackOffset
	if i < 0 || i >= len(v.labels) {
		return "", false
	}
	return v.labels[i], true
}

// Size returns the total ID space: the byte fallback range plus all
// assigned atom IDs.
func (v *Vocab) Size() int {
	return ByteFallbackOffset + len(v.labels)
}

// EncodeIDs tokenizes text and maps each atom to its vocabulary ID. Atoms
// without an ID fall back to the raw UTF-8 bytes of the original token,
// one ID per byte in the 0-255 range.
func (v *Vocab) EncodeIDs(az *Atomizer, text string) []int {
	tz := az.Tokenize(text)
	out := make([]int, 0, len(tz.Tokens))
	for i, label := range tz.Labels {
		if id, ok := v.ids[label]; ok {
			out = append(out, id)
			continue
		}
		for _, b := range []byte(tz.Tokens[i]) {
			out = append(out, int(b))
		}
	}
	return out
}

// DecodeIDs maps IDs back to atom labels. Runs of byte-fallback IDs are
// flushed as a single "<BYTES:hex>" element; IDs above the assigned range
// become "<UNK:n>". Full text reconstruction is the template decoder's
// job, not this function's: slot atoms do not carry their literal text.
func (v *Vocab) DecodeIDs(ids []int) []string {
	var (
		out []string
		buf []byte
	)
	flush := func() {
		if len(buf) > 0 {
			out = append(out, fmt.Sprintf("<BYTES:%s>", hex.EncodeToString(buf)))
			buf = buf[:0]
		}
	}
	for _, id := range ids {
		if id >= 0 && id < ByteFallbackOffset {
			buf = append(buf, byte(id))
			continue
		}
		flush()
		if label, ok := v.Label(id); ok {
			out = append(out, label)
		} else {
			out = append(out, fmt.Sprintf("<UNK:%d>", id))
		}
	}
	flush()
	return out
}
