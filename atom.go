package pst

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind identifies the atom class assigned to a token.
//
// Classification is order-sensitive: whitespace wins over punctuation,
// punctuation over stopword, and so on down to VAR as the default. The
// numeric values follow that order.
type Kind uint8

const (
	// KindWS is a whitespace run. The exact whitespace text is carried as
	// the atom payload so reconstruction is byte-exact.
	KindWS Kind = iota
	// KindPUNC is a single punctuation character, carried as payload.
	KindPUNC
	// KindLIT is a stopword literal, carried in original case as payload.
	KindLIT
	// KindNUM is a number token (digits, optional decimal part). Slot.
	KindNUM
	// KindCAP is a word whose first rune is uppercase. Slot.
	KindCAP
	// KindVAR is any other word token. Slot.
	KindVAR
	// KindWSRun is a whitespace run in ws-run mode, where whitespace is a
	// slot instead of a bound literal. Off by default; see AtomizerConfig.
	KindWSRun
)

// kindNames are the label spellings. Bound kinds render as NAME(payload).
var kindNames = [...]string{"WS", "PUNC", "LIT", "NUM", "CAP", "VAR", "WSRUN"}

// String returns the label name of the kind without any payload.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsSlot reports whether atoms of this kind carry their literal value out
// of band, as a slot in the encoded stream, rather than in the atom label.
func (k Kind) IsSlot() bool {
	switch k {
	case KindNUM, KindCAP, KindVAR, KindWSRun:
		return true
	}
	return false
}

// bound reports whether the kind embeds a literal payload in its label.
func (k Kind) bound() bool {
	switch k {
	case KindWS, KindPUNC, KindLIT:
		return true
	}
	return false
}

// Atom is the classification of a single token. Bound kinds (WS, PUNC,
// LIT) keep the literal token text in Payload; slot kinds leave Payload
// empty and the text travels as a slot value at encode time.
type Atom struct {
	Kind    Kind
	Payload string
}

// Label renders the canonical string form of the atom: the bare kind name
// for slot kinds, or NAME(payload) with the payload escaped so that any
// character content survives a parse round trip. Template matching and the
// lexicon format both operate on these labels.
func (a Atom) Label() string {
	if !a.Kind.bound() {
		return a.Kind.String()
	}
	var b strings.Builder
	b.WriteString(a.Kind.String())
	b.WriteByte('(')
	escapePayload(&b, a.Payload)
	b.WriteByte(')')
	return b.String()
}

// ErrBadAtom indicates an atom label that does not parse.
var ErrBadAtom = errors.New("pst: bad atom label")

// ParseAtom parses a canonical atom label produced by Atom.Label.
func ParseAtom(label string) (Atom, error) {
	switch label {
	case "NUM":
		return Atom{Kind: KindNUM}, nil
	case "CAP":
		return Atom{Kind: KindCAP}, nil
	case "VAR":
		return Atom{Kind: KindVAR}, nil
	case "WSRUN":
		return Atom{Kind: KindWSRun}, nil
	}
	open := strings.IndexByte(label, '(')
	if open < 0 || !strings.HasSuffix(label, ")") {
		return Atom{}, fmt.Errorf("%w: %q", ErrBadAtom, label)
	}
	var kind Kind
	switch label[:open] {
	case "WS":
		kind = KindWS
	case "PUNC":
		kind = KindPUNC
	case "LIT":
		kind = KindLIT
	default:
		return Atom{}, fmt.Errorf("%w: unknown kind in %q", ErrBadAtom, label)
	}
	payload, err := unescapePayload(label[open+1 : len(label)-1])
	if err != nil {
		return Atom{}, fmt.Errorf("%w: %q: %v", ErrBadAtom, label, err)
	}
	return Atom{Kind: kind, Payload: payload}, nil
}

// Payload escaping. Labels must survive any payload content, including the
// closing parenthesis, control characters, and non-ASCII whitespace, and
// must never contain raw control bytes (the table index joins labels with
// a control-byte separator). The escape alphabet:
//
//	\\  backslash        \)  closing parenthesis
//	\n  \t  \r           common whitespace
//	\xHH                 other bytes below 0x20, and 0x7F
//	\uHHHH               non-ASCII whitespace runes
func escapePayload(b *strings.Builder, s string) {
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == ')':
			b.WriteString(`\)`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(b, `\x%02x`, r)
		case r > 0x7f && isSpaceRune(r):
			fmt.Fprintf(b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
}

func unescapePayload(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			_, size := utf8.DecodeRuneInString(s[i:])
			b.WriteString(s[i : i+size])
			i += size
			continue
		}
		if i+1 >= len(s) {
			return "", errors.New("trailing backslash")
		}
		switch s[i+1] {
		case '\\':
			b.WriteByte('\\')
			i += 2
		case ')':
			b.WriteByte(')')
			i += 2
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case 'x':
			if i+4 > len(s) {
				return "", errors.New("short \\x escape")
			}
			v, err := hexVal(s[i+2 : i+4])
			if err != nil {
				return "", err
			}
			b.WriteRune(rune(v))
			i += 4
		case 'u':
			if i+6 > len(s) {
				return "", errors.New("short \\u escape")
			}
			v, err := hexVal(s[i+2 : i+6])
			if err != nil {
				return "", err
			}
			b.WriteRune(rune(v))
			i += 6
		default:
			return "", fmt.Errorf("unknown escape \\%c", s[i+1])
		}
	}
	return b.String(), nil
}

func hexVal(s string) (uint32, error) {
	var v uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | uint32(c-'0')
		case c >= 'a' && c <= 'f':
			v = v<<4 | uint32(c-'a'+10)
		case c >= 'A' && c <= 'F':
			v = v<<4 | uint32(c-'A'+10)
		default:
			return 0, fmt.Errorf("bad hex digit %q", c)
		}
	}
	return v, nil
}
