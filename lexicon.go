package pst

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrBadLexicon indicates a lexicon file that cannot be interpreted: an
// unsupported version, a malformed identifier, or a gap in the identifier
// sequence.
var ErrBadLexicon = errors.New("pst: bad lexicon")

// minedLexicon is the object form written by the v9.2/v9.3 template miner:
// a version string and a map of template identifiers to atom label lists.
type minedLexicon struct {
	Version      string              `json:"version"`
	IDToTemplate map[string][]string `json:"id_to_template"`
}

// supportedLexiconVersions are the miner output versions ReadLexicon accepts.
var supportedLexiconVersions = map[string]bool{"9.2": true, "9.3": true}

// ReadLexicon reads an ordered template list from JSON. Two shapes are
// accepted: a bare array of {"atoms": [...]} records, and the mined object
// form with "version" and "id_to_template" fields, whose identifiers must
// be a contiguous <T0>..<Tn-1> sequence.
func ReadLexicon(r io.Reader) ([]TemplateSpec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var specs []TemplateSpec
		if err := json.Unmarshal(data, &specs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadLexicon, err)
		}
		return specs, nil
	}

	var mined minedLexicon
	if err := json.Unmarshal(data, &mined); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadLexicon, err)
	}
	if !supportedLexiconVersions[mined.Version] {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrBadLexicon, mined.Version)
	}
	if len(mined.IDToTemplate) == 0 {
		return nil, fmt.Errorf("%w: no templates", ErrBadLexicon)
	}

	type entry struct {
		idx   int
		atoms []string
	}
	entries := make([]entry, 0, len(mined.IDToTemplate))
	for id, atoms := range mined.IDToTemplate {
		idx, err := parseTemplateID(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{idx: idx, atoms: atoms})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })

	specs := make([]TemplateSpec, 0, len(entries))
	for i, e := range entries {
		if e.idx != i {
			return nil, fmt.Errorf("%w: identifiers not contiguous, expected <T%d> found <T%d>", ErrBadLexicon, i, e.idx)
		}
		atoms := make([]string, len(e.atoms))
		for j, label := range e.atoms {
			atoms[j] = normalizeMinedLabel(label)
		}
		specs = append(specs, TemplateSpec{Atoms: atoms})
	}
	return specs, nil
}

// ReadLexiconYAML reads a bare ordered list of {atoms: [...]} records from
// YAML.
func ReadLexiconYAML(r io.Reader) ([]TemplateSpec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var specs []TemplateSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadLexicon, err)
	}
	return specs, nil
}

// WriteLexicon writes specs as a JSON array in load order.
func WriteLexicon(w io.Writer, specs []TemplateSpec) error {
	enc := json.NewEncoder(w)
	return enc.Encode(specs)
}

func parseTemplateID(id string) (int, error) {
	if !strings.HasPrefix(id, "<T") || !strings.HasSuffix(id, ">") {
		return 0, fmt.Errorf("%w: bad identifier %q", ErrBadLexicon, id)
	}
	n, err := strconv.Atoi(id[2 : len(id)-1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad identifier %q", ErrBadLexicon, id)
	}
	return n, nil
}

// normalizeMinedLabel converts v9.x miner spellings to canonical labels.
// The miner wraps WS payloads in single quotes ("WS(' ')") and escapes an
// embedded quote as \'; canonical labels use neither.
func normalizeMinedLabel(label string) string {
	if !strings.HasPrefix(label, "WS('") || !strings.HasSuffix(label, "')") {
		return label
	}
	inner := label[4 : len(label)-2]
	inner = strings.ReplaceAll(inner, `\'`, `'`)
	return "WS(" + inner + ")"
}
