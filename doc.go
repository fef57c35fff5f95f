// Package pst provides lossless, structure-aware text compression via
// pattern-slot templates.
//
// # Overview
//
// pst decomposes text into typed atoms (whitespace, punctuation, stopword
// literals, numbers, capitalized words, other words) and replaces spans
// whose atom sequence matches a loaded template with a single template
// identifier plus the variable slot values that fill it. Decoding walks
// the template's atom sequence back, re-inserting bound literals and slot
// values, and reproduces the original text byte-for-byte.
//
// Templates are mined elsewhere; this package only loads a pre-built,
// ordered template set and applies it. Matching is greedy longest-match at
// each position, so a given table always segments a given input the same
// way.
//
// # When to Use
//
// pst works well on:
//   - Natural-language text with recurring phrase shapes
//   - Logs and generated prose built from a few sentence skeletons
//   - Corpora where token-count reduction matters more than byte-count
//
// It is not a byte compressor: the output is a token stream, not a byte
// stream, and inputs with no matching templates pass through unchanged.
//
// # Basic Usage
//
//	az := pst.NewAtomizer(pst.AtomizerConfig{})
//	tbl, err := pst.NewTable([]pst.TemplateSpec{
//	    {Atoms: []string{"LIT(the)", "WS( )", "VAR"}},
//	})
//	if err != nil { ... }
//
//	stream := tbl.EncodeText(az, "the fox")
//	// stream == []string{"<T0>", "fox"}
//
//	text, err := tbl.Decode(stream)
//	// text == "the fox"
//
// For embedding lookup, BuildVocab assigns integer IDs to atom labels with
// a 0-255 raw-byte fallback range:
//
//	vocab := pst.BuildVocab(az, corpus, 1)
//	ids := vocab.EncodeIDs(az, "the fox")
//
// # Performance Characteristics
//
// Tokenization and decoding are linear in input length. Encoding is
// O(n x W) where W is the longest loaded template, from the longest-match
// scan at each position. Atomizer, Table, and Vocab are immutable after
// construction and safe for concurrent use.
package pst
