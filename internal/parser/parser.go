// Package parser turns raw text extracted from a quiz document into validated
// multiple-choice question records. It is tolerant by design: source documents
// are manually authored and drift in formatting, so malformed blocks are
// dropped rather than failing the batch.
package parser

import (
	"regexp"
	"strings"

	"veda-quiz/internal/domain"
)

// Engine adapts the package-level Parse function for callers that consume
// parsing through an interface.
type Engine struct{}

// New returns a ready Engine; it carries no state.
func New() Engine { return Engine{} }

func (Engine) Parse(rawText, sourceID string) domain.Deck {
	return Parse(rawText, sourceID)
}

// sourceTagRe matches bracketed citation annotations embedded in prompts,
// e.g. "[Source: Podcast 101, 12:30]" or "(source - intro)".
var sourceTagRe = regexp.MustCompile(`(?i)\s*[(\[][^)\]]*source[^)\]]*[)\]]`)

// Parse extracts every well-formed question block from rawText. It is total:
// any input, including empty or binary garbage decoded as text, yields a
// (possibly empty) deck and never an error. Output is sorted ascending by
// ordinal regardless of the order blocks appear in the text.
func Parse(rawText, sourceID string) domain.Deck {
	deck := domain.Deck{}

	var b *block
	for _, line := range normalizeLines(rawText) {
		sl := classify(line)

		if sl.kind == lineQuestionStart {
			if q, ok := b.finalize(sourceID); ok {
				deck = append(deck, q)
			}
			b = newBlock(sl.ordinal)
			continue
		}
		if b == nil {
			// Preamble before the first boundary line carries no questions.
			continue
		}
		b.consume(sl)
	}
	if q, ok := b.finalize(sourceID); ok {
		deck = append(deck, q)
	}

	deck.Sort()
	return deck
}

// normalizeLines canonicalizes line endings, replaces non-breaking spaces and
// trims each line.
func normalizeLines(raw string) []string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, " ", " ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}

// block accumulates one question's lines between two boundary lines.
type block struct {
	ordinal     int
	promptParts []string
	options     map[string]string
	lastOption  string // option label open for wrapped-line continuation
	correct     string
	checkParts  []string
	inCheck     bool
}

func newBlock(ordinal int) *block {
	return &block{
		ordinal: ordinal,
		options: make(map[string]string),
	}
}

// consume routes one classified line into the block. Plain lines attach to
// whatever came before them: the prompt before any option, the most recent
// option when one is open, the explanation once Check has started. Plain
// lines that fit nowhere (after the answer declaration, say) are ignored.
func (b *block) consume(sl scanLine) {
	switch sl.kind {
	case lineBlank:
		// A blank line ends option continuation but not the explanation.
		b.lastOption = ""
	case lineOption:
		b.options[sl.label] = sl.text
		b.lastOption = sl.label
		b.inCheck = false
	case lineAnswer:
		if b.correct == "" {
			b.correct = sl.label
		}
		b.lastOption = ""
		b.inCheck = false
	case lineCheck:
		b.inCheck = true
		b.lastOption = ""
		if sl.text != "" {
			b.checkParts = append(b.checkParts, sl.text)
		}
	case linePlain:
		switch {
		case b.inCheck:
			b.checkParts = append(b.checkParts, sl.text)
		case b.lastOption != "":
			cur := b.options[b.lastOption]
			if cur == "" {
				b.options[b.lastOption] = sl.text
			} else {
				b.options[b.lastOption] = cur + " " + sl.text
			}
		case len(b.options) == 0 && b.correct == "":
			b.promptParts = append(b.promptParts, sl.text)
		}
	}
}

// finalize applies the validation gate and builds the Question. A block
// producing ok=false contributed nothing and raised no error.
func (b *block) finalize(sourceID string) (domain.Question, bool) {
	if b == nil {
		return domain.Question{}, false
	}

	prompt := stripSourceTags(strings.Join(b.promptParts, " "))
	prompt = strings.TrimSpace(collapseSpaces(prompt))
	if prompt == "" {
		return domain.Question{}, false
	}

	options := make(map[string]string, len(domain.OptionLabels))
	for _, label := range domain.OptionLabels {
		text := strings.TrimSpace(b.options[label])
		if text == "" {
			return domain.Question{}, false
		}
		options[label] = text
	}
	if _, ok := options[b.correct]; !ok {
		return domain.Question{}, false
	}

	return domain.Question{
		ID:           domain.QuestionID(sourceID, b.ordinal),
		Ordinal:      b.ordinal,
		Prompt:       prompt,
		Options:      options,
		CorrectLabel: b.correct,
		Explanation:  strings.TrimSpace(strings.Join(b.checkParts, " ")),
	}, true
}

func stripSourceTags(s string) string {
	return sourceTagRe.ReplaceAllString(s, "")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
