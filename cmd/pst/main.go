// Command pst encodes, decodes, and benchmarks text against a pattern-slot
// template lexicon.
//
// Commands:
//
//	encode  -lexicon f -in f -out f   encode text to a token stream file
//	decode  -lexicon f -in f -out f   decode a token stream file back to text
//	verify  -lexicon f -in f          check the encode/decode round trip
//	bench   -lexicon f -in f          report compression and throughput
//
// Stream files hold one quoted stream element per line. The bench command
// can also report a BPE baseline (-baseline) using the cl100k_base
// encoding for comparison.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"gopkg.in/yaml.v3"

	"github.com/structcodec/pst"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "encode":
		err = cmdEncode(os.Args[2:])
	case "decode":
		err = cmdDecode(os.Args[2:])
	case "verify":
		err = cmdVerify(os.Args[2:])
	case "bench":
		err = cmdBench(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "pst: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pst <encode|decode|verify|bench> [flags]")
}

// runConfig is the optional YAML tokenizer configuration accepted by every
// command via -config.
type runConfig struct {
	Stopwords []string `yaml:"stopwords"`
	WSRun     bool     `yaml:"ws_run"`
}

func loadAtomizer(configPath string) (*pst.Atomizer, error) {
	cfg := pst.AtomizerConfig{}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		var rc runConfig
		if err := yaml.Unmarshal(data, &rc); err != nil {
			return nil, fmt.Errorf("config %s: %w", configPath, err)
		}
		cfg.Stopwords = rc.Stopwords
		cfg.WSRun = rc.WSRun
	}
	return pst.NewAtomizer(cfg), nil
}

func loadTable(path string) (*pst.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var specs []pst.TemplateSpec
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		specs, err = pst.ReadLexiconYAML(f)
	default:
		specs, err = pst.ReadLexicon(f)
	}
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return pst.NewTable(specs)
}

// Stream files: one element per line, quoted so elements containing
// newlines (whitespace tokens) stay one per line.
func writeStream(path string, stream []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, tok := range stream {
		fmt.Fprintln(w, strconv.Quote(tok))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readStream(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var stream []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		tok, err := strconv.Unquote(line)
		if err != nil {
			return nil, fmt.Errorf("stream %s: bad line %q: %w", path, line, err)
		}
		stream = append(stream, tok)
	}
	return stream, sc.Err()
}

func cmdEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	lexicon := fs.String("lexicon", "", "template lexicon file (json or yaml)")
	in := fs.String("in", "", "input text file")
	out := fs.String("out", "", "output stream file")
	config := fs.String("config", "", "optional tokenizer config (yaml)")
	fs.Parse(args)
	if *lexicon == "" || *in == "" || *out == "" {
		return fmt.Errorf("encode: -lexicon, -in, and -out are required")
	}

	az, err := loadAtomizer(*config)
	if err != nil {
		return err
	}
	tbl, err := loadTable(*lexicon)
	if err != nil {
		return err
	}
	text, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	stream := tbl.EncodeText(az, string(text))
	if err := writeStream(*out, stream); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "encoded %d bytes to %d stream elements\n", len(text), len(stream))
	return nil
}

func cmdDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	lexicon := fs.String("lexicon", "", "template lexicon file (json or yaml)")
	in := fs.String("in", "", "input stream file")
	out := fs.String("out", "", "output text file")
	fs.Parse(args)
	if *lexicon == "" || *in == "" || *out == "" {
		return fmt.Errorf("decode: -lexicon, -in, and -out are required")
	}

	tbl, err := loadTable(*lexicon)
	if err != nil {
		return err
	}
	stream, err := readStream(*in)
	if err != nil {
		return err
	}
	text, err := tbl.Decode(stream)
	if err != nil {
		return err
	}
	return os.WriteFile(*out, []byte(text), 0o644)
}

func cmdVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	lexicon := fs.String("lexicon", "", "template lexicon file (json or yaml)")
	in := fs.String("in", "", "input text file")
	config := fs.String("config", "", "optional tokenizer config (yaml)")
	fs.Parse(args)
	if *lexicon == "" || *in == "" {
		return fmt.Errorf("verify: -lexicon and -in are required")
	}

	az, err := loadAtomizer(*config)
	if err != nil {
		return err
	}
	tbl, err := loadTable(*lexicon)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	text := string(data)
	decoded, err := tbl.Decode(tbl.EncodeText(az, text))
	if err != nil {
		return err
	}
	if decoded != text {
		return fmt.Errorf("verify: round trip mismatch on %s", *in)
	}
	fmt.Println("ok: lossless round trip")
	return nil
}

func cmdBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	lexicon := fs.String("lexicon", "", "template lexicon file (json or yaml)")
	in := fs.String("in", "", "input text file")
	config := fs.String("config", "", "optional tokenizer config (yaml)")
	baseline := fs.Bool("baseline", false, "also report a cl100k_base BPE token count")
	fs.Parse(args)
	if *lexicon == "" || *in == "" {
		return fmt.Errorf("bench: -lexicon and -in are required")
	}

	az, err := loadAtomizer(*config)
	if err != nil {
		return err
	}
	tbl, err := loadTable(*lexicon)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	text := string(data)

	start := time.Now()
	tz := az.Tokenize(text)
	stream, stats := tbl.EncodeWithStats(tz)
	elapsed := time.Since(start)

	atoms := len(tz.Tokens)
	ratio := 1.0
	if len(stream) > 0 {
		ratio = float64(atoms) / float64(len(stream))
	}
	fmt.Printf("input:          %d bytes, %d atoms\n", len(text), atoms)
	fmt.Printf("stream:         %d elements (%d template hits, %d literals, %d slots)\n",
		len(stream), stats.TemplateHits, stats.LiteralEmits, stats.SlotEmits)
	fmt.Printf("ratio:          %.3f atoms/element\n", ratio)
	fmt.Printf("encode time:    %s (%.1f MB/s)\n", elapsed,
		float64(len(text))/1e6/elapsed.Seconds())

	if *baseline {
		reportBaseline(text, len(stream))
	}
	return nil
}

// reportBaseline compares the stream size against a cl100k_base BPE
// tokenization of the same text. Loading the encoding can require network
// access for the rank file, so failure only skips the comparison.
func reportBaseline(text string, streamLen int) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		fmt.Fprintf(os.Stderr, "baseline skipped: %v\n", err)
		return
	}
	ids := enc.Encode(text, nil, nil)
	fmt.Printf("bpe baseline:   %d tokens (cl100k_base)\n", len(ids))
	if len(ids) > 0 {
		fmt.Printf("vs baseline:    %.3fx %s\n",
			ratioOf(streamLen, len(ids)), comparison(streamLen, len(ids)))
	}
}

func ratioOf(stream, bpe int) float64 {
	if stream == 0 {
		return 0
	}
	return float64(bpe) / float64(stream)
}

func comparison(stream, bpe int) string {
	if stream <= bpe {
		return "fewer stream elements than BPE tokens"
	}
	return "more stream elements than BPE tokens"
}
