package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	dnacodec "github.com/seqforge/dna-codec"
	"github.com/seqforge/dna-codec/pkg/constraints"
	"github.com/seqforge/dna-codec/pkg/ecc"
	"github.com/seqforge/dna-codec/pkg/logging"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: dnacodec <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  encode -in <file> -out <sequences-file> [-password p] [-base-length n] [-level basic|advanced]")
	fmt.Println("  decode -in <sequences-file> -out <file> [-password p] [-level basic|advanced]")
}

func newCodec(verbose bool) *dnacodec.Codec {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return dnacodec.New(dnacodec.Config{Logger: logging.New(logging.ParseLevel(level))})
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	in := fs.String("in", "", "input file to encode")
	out := fs.String("out", "", "output file, one sequence per line")
	password := fs.String("password", "", "encrypt the payload with this password")
	baseLength := fs.Int("base-length", dnacodec.DefaultBaseLength, "symbol length of every sequence")
	levelName := fs.String("level", "basic", "error correction level")
	checkConstraints := fs.Bool("check-constraints", false, "report synthesis constraint violations")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("encode requires -in and -out")
	}

	level, err := ecc.ParseLevel(*levelName)
	if err != nil {
		return err
	}

	payload, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read %s: %w", *in, err)
	}

	codec := newCodec(*verbose)
	defer codec.Close()

	result, err := codec.Encode(context.Background(), payload, dnacodec.EncodeOptions{
		Password:   *password,
		BaseLength: *baseLength,
		Level:      level,
	})
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, seq := range result.Sequences {
		if _, err := fmt.Fprintln(w, seq); err != nil {
			return fmt.Errorf("write %s: %w", *out, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}

	fmt.Printf("Encoded %d bytes into %d sequences of %d symbols (%s)\n",
		result.Metadata.OriginalSize, result.Metadata.SequenceCount,
		result.Metadata.BaseLength, result.Metadata.Level)

	if *checkConstraints {
		violations := constraints.CheckAll(result.Sequences, constraints.DefaultPolicy())
		for _, v := range violations {
			fmt.Printf("  constraint: sequence %d %s at %d: %s\n", v.Sequence, v.Kind, v.Position, v.Detail)
		}
		if len(violations) == 0 {
			fmt.Println("  no constraint violations")
		}
	}
	return nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	in := fs.String("in", "", "sequences file, one sequence per line")
	out := fs.String("out", "", "output file for the decoded payload")
	password := fs.String("password", "", "password the payload was encrypted with")
	levelName := fs.String("level", "basic", "error correction level hint")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("decode requires -in and -out")
	}

	level, err := ecc.ParseLevel(*levelName)
	if err != nil {
		return err
	}

	sequences, err := readSequences(*in)
	if err != nil {
		return err
	}

	codec := newCodec(*verbose)
	defer codec.Close()

	payload, err := codec.Decode(context.Background(), sequences, dnacodec.DecodeOptions{
		Password: *password,
		Level:    level,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(*out, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Printf("Decoded %d sequences into %d bytes\n", len(sequences), len(payload))
	return nil
}

func readSequences(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var sequences []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sequences = append(sequences, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return sequences, nil
}
