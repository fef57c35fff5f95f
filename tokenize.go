package pst

import (
	"strings"
	"unicode"
)

// defaultStopwords is the fixed 50-word set classified as LIT atoms.
var defaultStopwords = []string{
	"the", "a", "an", "and", "or", "but", "if", "then", "else", "when", "while", "as",
	"of", "to", "in", "on", "at", "by", "for", "with", "from", "into", "over", "under",
	"is", "are", "was", "were", "be", "been", "being", "do", "does", "did", "doing",
	"have", "has", "had", "having", "will", "would", "can", "could", "may", "might",
	"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them",
	"this", "that", "these", "those", "there", "here",
}

// DefaultStopwords returns a copy of the built-in stopword set.
func DefaultStopwords() []string {
	out := make([]string, len(defaultStopwords))
	copy(out, defaultStopwords)
	return out
}

// AtomizerConfig controls classification. The zero value gives the
// reference behavior: the built-in stopword set and whitespace as bound
// WS literal atoms.
type AtomizerConfig struct {
	// Stopwords overrides the stopword set. Entries are matched against
	// the lowercase form of word tokens. nil means DefaultStopwords;
	// an empty non-nil slice disables stopword literals entirely.
	Stopwords []string

	// WSRun makes whitespace tokens unbound WSRUN slot atoms instead of
	// bound WS literals, so distinct whitespace runs share one atom label
	// and the run text travels as a slot value.
	WSRun bool
}

// Atomizer splits text into tokens and classifies each into an atom.
// It is immutable after construction and safe for concurrent use.
type Atomizer struct {
	stop  map[string]struct{}
	wsRun bool
}

// NewAtomizer builds an Atomizer from cfg.
func NewAtomizer(cfg AtomizerConfig) *Atomizer {
	words := cfg.Stopwords
	if words == nil {
		words = defaultStopwords
	}
	stop := make(map[string]struct{}, len(words))
	for _, w := range words {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Atomizer{stop: stop, wsRun: cfg.WSRun}
}

// Tokenization holds the parallel outputs of Tokenize. All four slices
// have the same length; concatenating Tokens reproduces the input exactly.
type Tokenization struct {
	Tokens []string // raw token text
	Atoms  []Atom   // classification per token
	Labels []string // canonical atom labels, cached for matching
	Slots  []bool   // true where the atom is a slot
}

func isSpaceRune(r rune) bool { return unicode.IsSpace(r) }

// isWordRune mirrors the \w class: letters, digits, underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tokenize splits text into maximal runs of word characters, maximal runs
// of whitespace, or single other characters, in that priority, and
// classifies each token. It is total: it never fails for valid UTF-8 and
// no token is empty.
func (az *Atomizer) Tokenize(text string) *Tokenization {
	tz := &Tokenization{}
	runes := []rune(text)
	for i := 0; i < len(runes); {
		start := i
		switch {
		case isWordRune(runes[i]):
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
		case isSpaceRune(runes[i]):
			for i < len(runes) && isSpaceRune(runes[i]) {
				i++
			}
		default:
			i++
		}
		tok := string(runes[start:i])
		atom := az.Classify(tok)
		tz.Tokens = append(tz.Tokens, tok)
		tz.Atoms = append(tz.Atoms, atom)
		tz.Labels = append(tz.Labels, atom.Label())
		tz.Slots = append(tz.Slots, atom.Kind.IsSlot())
	}
	return tz
}

// Classify assigns exactly one atom to a token. The order is fixed:
// whitespace, punctuation, stopword, number, capitalized, default.
func (az *Atomizer) Classify(tok string) Atom {
	if isAllSpace(tok) {
		if az.wsRun {
			return Atom{Kind: KindWSRun}
		}
		return Atom{Kind: KindWS, Payload: tok}
	}
	if isAllPunct(tok) {
		return Atom{Kind: KindPUNC, Payload: tok}
	}
	if _, ok := az.stop[strings.ToLower(tok)]; ok {
		return Atom{Kind: KindLIT, Payload: tok}
	}
	if isNumber(tok) {
		return Atom{Kind: KindNUM}
	}
	if r := firstRune(tok); unicode.IsUpper(r) {
		return Atom{Kind: KindCAP}
	}
	return Atom{Kind: KindVAR}
}

func isAllSpace(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isSpaceRune(r) {
			return false
		}
	}
	return true
}

func isAllPunct(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if isWordRune(r) || isSpaceRune(r) {
			return false
		}
	}
	return true
}

// isNumber reports digits with at most one decimal point followed by more
// digits. The tokenizer never produces a '.' inside a word run, so the
// decimal form only appears when classifying externally supplied tokens.
func isNumber(s string) bool {
	if s == "" {
		return false
	}
	seenDot := false
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' && !seenDot && digits > 0:
			seenDot = true
			digits = 0
		default:
			return false
		}
	}
	return digits > 0
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
