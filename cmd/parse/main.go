package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"veda-quiz/internal/docx"
	"veda-quiz/internal/parser"
)

// parse extracts questions from a single quiz document and prints them as
// JSON, for checking a document offline before publishing it.
func main() {
	input := flag.String("input", "", "Path to a .docx or .txt quiz document")
	output := flag.String("output", "", "Path to output JSON file (defaults to stdout)")
	verbose := flag.Bool("verbose", false, "Print per-document statistics to stderr")

	flag.Parse()

	if *input == "" {
		fmt.Fprintf(os.Stderr, "Error: input file required\n")
		fmt.Fprintf(os.Stderr, "Usage: parse -input <docx-or-txt-file> [-output <json-file>] [-verbose]\n")
		os.Exit(1)
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read input file: %v\n", err)
		os.Exit(1)
	}

	var rawText string
	if strings.EqualFold(filepath.Ext(*input), ".docx") {
		rawText, err = docx.NewExtractor().Extract(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error extracting document text: %v\n", err)
			os.Exit(1)
		}
	} else {
		rawText = string(data)
	}

	sourceID := filepath.Base(*input)
	deck := parser.Parse(rawText, sourceID)

	if *verbose {
		fmt.Fprintf(os.Stderr, "Parsed %d questions from %s\n", len(deck), sourceID)
	}
	if len(deck) == 0 {
		fmt.Fprintf(os.Stderr, "Warning: no valid question blocks found\n")
	}

	encoded, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	if *output == "" {
		fmt.Println(string(encoded))
		return
	}
	if err := os.WriteFile(*output, append(encoded, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", *output)
	}
}
