package domain

import (
	"fmt"
	"sort"
	"strings"
)

// OptionLabels is the fixed choice-label set, in display order.
var OptionLabels = []string{"A", "B", "C", "D"}

// IsValidLabel reports whether label is one of the four choice labels.
func IsValidLabel(label string) bool {
	switch label {
	case "A", "B", "C", "D":
		return true
	}
	return false
}

// Question is a single multiple-choice question extracted from a source
// document. Instances that reach callers always carry exactly four non-empty
// options and a correct label matching one of them; the parser enforces this
// before a Question is ever emitted.
type Question struct {
	ID           string            `json:"id"`
	Ordinal      int               `json:"ordinal"`
	Prompt       string            `json:"prompt"`
	Options      map[string]string `json:"options"`
	CorrectLabel string            `json:"correct_label"`
	Explanation  string            `json:"explanation"`
}

// QuestionID builds the stable identifier for a question: derived from the
// source document name and the declared ordinal, never from free-text content.
func QuestionID(sourceID string, ordinal int) string {
	return fmt.Sprintf("%s::Q%d", sourceID, ordinal)
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return NewValidationError("prompt is required")
	}
	if len(q.Options) != len(OptionLabels) {
		return NewValidationError("exactly four options are required")
	}
	for _, label := range OptionLabels {
		if strings.TrimSpace(q.Options[label]) == "" {
			return NewValidationError("option " + label + " is missing or empty")
		}
	}
	if _, ok := q.Options[q.CorrectLabel]; !ok {
		return NewValidationError("correct label does not match any option")
	}
	return nil
}

// Deck is an ordered sequence of questions, ascending by ordinal.
type Deck []Question

// Sort orders the deck ascending by ordinal. The sort is stable so duplicate
// ordinals keep their scan order.
func (d Deck) Sort() {
	sort.SliceStable(d, func(i, j int) bool { return d[i].Ordinal < d[j].Ordinal })
}

// Set returns the questions whose ordinal falls in the fixed-size range for
// setIndex (zero-based): set 0 covers ordinals 1..size, set 1 covers
// size+1..2*size, and so on. Slicing is by declared ordinal, not position, so
// a deck with gaps yields short sets rather than shifted ones.
func (d Deck) Set(setIndex, size int) Deck {
	if setIndex < 0 || size <= 0 {
		return Deck{}
	}
	lo := setIndex*size + 1
	hi := lo + size - 1
	out := make(Deck, 0, size)
	for _, q := range d {
		if q.Ordinal >= lo && q.Ordinal <= hi {
			out = append(out, q)
		}
	}
	return out
}

// NumSets reports how many set slices of the given size the deck spans,
// based on its highest ordinal.
func (d Deck) NumSets(size int) int {
	if size <= 0 || len(d) == 0 {
		return 0
	}
	max := 0
	for _, q := range d {
		if q.Ordinal > max {
			max = q.Ordinal
		}
	}
	return (max + size - 1) / size
}

// ByID returns the question with the given id, if present.
func (d Deck) ByID(id string) (Question, bool) {
	for _, q := range d {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// DocumentInfo describes one playable document in the library listing.
type DocumentInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Questions   int    `json:"questions"`
	Sets        int    `json:"sets"`
}

// DisplayName renders a document filename as a human title:
// "101_Intro_1_quiz.docx" becomes "101 — Intro 1".
func DisplayName(filename string) string {
	base := filename
	for _, suffix := range []string{"_quiz.docx", "_quiz.DOCX", ".docx", ".DOCX"} {
		if strings.HasSuffix(base, suffix) {
			base = strings.TrimSuffix(base, suffix)
			break
		}
	}
	base = strings.TrimSpace(strings.ReplaceAll(base, "_", " "))
	fields := strings.SplitN(base, " ", 2)
	if len(fields) == 2 && isDigits(fields[0]) {
		return fields[0] + " — " + fields[1]
	}
	return base
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
