package pst

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizePartition(t *testing.T) {
	az := NewAtomizer(AtomizerConfig{})
	inputs := []string{
		"",
		"the fox",
		"Hello, world!",
		"  leading and trailing  ",
		"tabs\tand\nnewlines\r\n",
		"a\t  b",
		"123 Main Street",
		"Ünïcödé tëst: 日本語",
		"mixed_under_score and 3.14",
		"!!!",
		"no-match-at-all",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tz := az.Tokenize(input)
			require.Len(t, tz.Atoms, len(tz.Tokens))
			require.Len(t, tz.Labels, len(tz.Tokens))
			require.Len(t, tz.Slots, len(tz.Tokens))
			assert.Equal(t, input, strings.Join(tz.Tokens, ""), "tokens must partition the input")
			for _, tok := range tz.Tokens {
				assert.NotEmpty(t, tok)
			}
		})
	}
}

func TestClassifyOrder(t *testing.T) {
	az := NewAtomizer(AtomizerConfig{})
	tests := []struct {
		tok  string
		want Atom
	}{
		{" ", Atom{Kind: KindWS, Payload: " "}},
		{"\t  ", Atom{Kind: KindWS, Payload: "\t  "}},
		{",", Atom{Kind: KindPUNC, Payload: ","}},
		{"!", Atom{Kind: KindPUNC, Payload: "!"}},
		{"the", Atom{Kind: KindLIT, Payload: "the"}},
		{"The", Atom{Kind: KindLIT, Payload: "The"}}, // stopword beats capitalized
		{"THE", Atom{Kind: KindLIT, Payload: "THE"}},
		{"42", Atom{Kind: KindNUM}},
		{"3.14", Atom{Kind: KindNUM}},
		{"Fox", Atom{Kind: KindCAP}},
		{"fox", Atom{Kind: KindVAR}},
		{"日本語", Atom{Kind: KindVAR}},
		{"Ünïcödé", Atom{Kind: KindCAP}},
	}
	for _, tt := range tests {
		t.Run(tt.tok, func(t *testing.T) {
			assert.Equal(t, tt.want, az.Classify(tt.tok))
		})
	}
}

// Every token the tokenizer produces gets exactly one class, and slot
// flags line up with the atom kind.
func TestClassifyTotalOverTokens(t *testing.T) {
	az := NewAtomizer(AtomizerConfig{})
	tz := az.Tokenize("The quick brown fox, 42 times!  \t日本語 Ünïcödé_mix 3 . 14")
	for i, atom := range tz.Atoms {
		assert.LessOrEqual(t, atom.Kind, KindWSRun, "token %q", tz.Tokens[i])
		assert.Equal(t, atom.Kind.IsSlot(), tz.Slots[i], "token %q", tz.Tokens[i])
		if atom.Kind.bound() {
			assert.Equal(t, tz.Tokens[i], atom.Payload, "bound atoms carry the literal text")
		} else {
			assert.Empty(t, atom.Payload)
		}
	}
}

func TestTokenizeNumberSplitsOnDot(t *testing.T) {
	az := NewAtomizer(AtomizerConfig{})
	tz := az.Tokenize("3.14")
	require.Equal(t, []string{"3", ".", "14"}, tz.Tokens)
	assert.Equal(t, []string{"NUM", "PUNC(.)", "NUM"}, tz.Labels)
}

func TestCustomStopwords(t *testing.T) {
	az := NewAtomizer(AtomizerConfig{Stopwords: []string{"foo"}})
	assert.Equal(t, Atom{Kind: KindLIT, Payload: "Foo"}, az.Classify("Foo"))
	assert.Equal(t, Atom{Kind: KindVAR}, az.Classify("the"))

	none := NewAtomizer(AtomizerConfig{Stopwords: []string{}})
	assert.Equal(t, Atom{Kind: KindVAR}, none.Classify("the"))
}

func TestWSRunMode(t *testing.T) {
	az := NewAtomizer(AtomizerConfig{WSRun: true})
	tz := az.Tokenize("a \t b")
	require.Equal(t, []string{"a", " \t ", "b"}, tz.Tokens)
	assert.Equal(t, []string{"LIT(a)", "WSRUN", "VAR"}, tz.Labels)
	assert.Equal(t, []bool{false, true, true}, tz.Slots)
}
