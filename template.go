package pst

import "fmt"

// TemplateSpec is the load format for one template: an ordered sequence of
// canonical atom labels, e.g. ["LIT(the)", "WS( )", "VAR"]. How specs are
// mined or persisted is the caller's concern; see ReadLexicon for the
// common file formats.
type TemplateSpec struct {
	Atoms []string `json:"atoms" yaml:"atoms"`
}

// Template is one loaded pattern: a fixed sequence of atoms where bound
// atoms carry their literal payload and slot atoms are wildcards matched
// by kind. Templates are immutable and owned by their Table.
type Template struct {
	id        string
	atoms     []Atom
	labels    []string
	slotCount int
}

// templateID renders the stable identifier of the idx-th loaded template.
func templateID(idx int) string { return fmt.Sprintf("<T%d>", idx) }

// ID returns the template identifier, "<Tn>" for the n-th loaded template.
func (t *Template) ID() string { return t.id }

// Len returns the number of atoms the template consumes.
func (t *Template) Len() int { return len(t.atoms) }

// Atoms returns a copy of the template's atom sequence.
func (t *Template) Atoms() []Atom {
	out := make([]Atom, len(t.atoms))
	copy(out, t.atoms)
	return out
}

// SlotCount returns the number of unbound (slot) atoms. A decoder must
// consume exactly this many slot values after the template identifier.
func (t *Template) SlotCount() int { return t.slotCount }

// Cost is the number of stream elements one occurrence emits: the
// identifier plus one element per slot.
func (t *Template) Cost() int { return 1 + t.slotCount }

// Savings is the number of stream elements saved per match relative to
// emitting the span's tokens verbatim.
func (t *Template) Savings() int { return t.Len() - t.Cost() }
