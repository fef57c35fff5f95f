package pst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomLabelRoundTrip(t *testing.T) {
	payloads := []string{
		" ",
		"\t  ",
		"\n",
		"\r\n\t",
		")",
		"((",
		`\`,
		`\)`,
		"'quoted'",
		"\"double\"",
		"\x00\x01\x1f",
		"  ", // non-ASCII whitespace
		"日本語",
	}
	for _, kind := range []Kind{KindWS, KindPUNC, KindLIT} {
		for _, payload := range payloads {
			atom := Atom{Kind: kind, Payload: payload}
			label := atom.Label()
			got, err := ParseAtom(label)
			require.NoError(t, err, "label %q", label)
			assert.Equal(t, atom, got, "label %q", label)
		}
	}
}

func TestAtomLabelSlotKinds(t *testing.T) {
	for _, tt := range []struct {
		kind  Kind
		label string
	}{
		{KindNUM, "NUM"},
		{KindCAP, "CAP"},
		{KindVAR, "VAR"},
		{KindWSRun, "WSRUN"},
	} {
		assert.Equal(t, tt.label, Atom{Kind: tt.kind}.Label())
		got, err := ParseAtom(tt.label)
		require.NoError(t, err)
		assert.Equal(t, Atom{Kind: tt.kind}, got)
		assert.True(t, tt.kind.IsSlot())
	}
	for _, kind := range []Kind{KindWS, KindPUNC, KindLIT} {
		assert.False(t, kind.IsSlot())
	}
}

func TestAtomLabelNoControlBytes(t *testing.T) {
	// Bucket keys join labels with a 0x1F separator, so rendered labels
	// must never contain raw bytes below 0x20.
	atom := Atom{Kind: KindWS, Payload: "\x1f\n\t\x07"}
	for _, b := range []byte(atom.Label()) {
		assert.GreaterOrEqual(t, b, byte(0x20))
	}
}

func TestParseAtomRejects(t *testing.T) {
	for _, label := range []string{
		"",
		"NOPE",
		"WS",
		"WS(",
		"WS( ",
		"FOO(x)",
		"num",
		`WS(\q)`,
		`WS(\x1)`,
		`WS(\u12)`,
		`WS(\)`,
	} {
		_, err := ParseAtom(label)
		assert.ErrorIs(t, err, ErrBadAtom, "label %q", label)
	}
}
