package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// lineKind tags what role a line plays in the question-block grammar.
type lineKind int

const (
	linePlain lineKind = iota
	lineBlank
	lineQuestionStart
	lineOption
	lineAnswer
	lineCheck
)

// scanLine is one classified input line. Which fields are meaningful depends
// on the kind: ordinal for lineQuestionStart, label for lineOption and
// lineAnswer, text for lineOption, lineCheck and linePlain.
type scanLine struct {
	kind    lineKind
	ordinal int
	label   string
	text    string
}

var (
	// A block boundary: a line that is nothing but an integer and a period.
	questionStartRe = regexp.MustCompile(`^(\d+)\.$`)

	// An option line: a single letter A-D, a separator (period, parenthesis,
	// colon or hyphen), then the option text. Text may be empty when the
	// option wraps onto the next line.
	optionRe = regexp.MustCompile(`^([A-Da-d])\s*[.):-]\s*(.*)$`)

	// A correct-answer declaration, with the accepted synonyms.
	answerRe = regexp.MustCompile(`(?i)^(?:correct\s+answer|correct|answer|ans)\s*[.):-]\s*([A-Da-d])\s*\.?$`)

	// The optional explanation lead-in.
	checkRe = regexp.MustCompile(`(?i)^check\s*[.):-]\s*(.*)$`)
)

// classify maps one already-trimmed line to its grammar role. Classification
// is per-line and context-free; the block builder owns all cross-line state.
func classify(line string) scanLine {
	if line == "" {
		return scanLine{kind: lineBlank}
	}
	if m := questionStartRe.FindStringSubmatch(line); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Digits too large for an int; not a plausible ordinal.
			return scanLine{kind: linePlain, text: line}
		}
		return scanLine{kind: lineQuestionStart, ordinal: n}
	}
	if m := answerRe.FindStringSubmatch(line); m != nil {
		return scanLine{kind: lineAnswer, label: strings.ToUpper(m[1])}
	}
	if m := checkRe.FindStringSubmatch(line); m != nil {
		return scanLine{kind: lineCheck, text: strings.TrimSpace(m[1])}
	}
	if m := optionRe.FindStringSubmatch(line); m != nil {
		return scanLine{kind: lineOption, label: strings.ToUpper(m[1]), text: strings.TrimSpace(m[2])}
	}
	return scanLine{kind: linePlain, text: line}
}
