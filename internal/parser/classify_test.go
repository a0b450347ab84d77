package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want scanLine
	}{
		{"blank", "", scanLine{kind: lineBlank}},
		{"boundary", "12.", scanLine{kind: lineQuestionStart, ordinal: 12}},
		{"boundary single digit", "1.", scanLine{kind: lineQuestionStart, ordinal: 1}},
		{"number with trailing text is plain", "12. Not a boundary", scanLine{kind: linePlain, text: "12. Not a boundary"}},
		{"number without period is plain", "12", scanLine{kind: linePlain, text: "12"}},
		{"option period", "A. Berlin", scanLine{kind: lineOption, label: "A", text: "Berlin"}},
		{"option parenthesis", "b) Paris", scanLine{kind: lineOption, label: "B", text: "Paris"}},
		{"option colon", "C: Madrid", scanLine{kind: lineOption, label: "C", text: "Madrid"}},
		{"option hyphen", "d - Rome", scanLine{kind: lineOption, label: "D", text: "Rome"}},
		{"option empty text", "A.", scanLine{kind: lineOption, label: "A", text: ""}},
		{"answer full form", "Correct Answer: B", scanLine{kind: lineAnswer, label: "B"}},
		{"answer lowercase", "correct answer: c", scanLine{kind: lineAnswer, label: "C"}},
		{"answer short form", "Ans: D", scanLine{kind: lineAnswer, label: "D"}},
		{"answer trailing period", "Answer: A.", scanLine{kind: lineAnswer, label: "A"}},
		{"answer invalid label is plain", "Correct Answer: E", scanLine{kind: linePlain, text: "Correct Answer: E"}},
		{"check with text", "Check: Because reasons.", scanLine{kind: lineCheck, text: "Because reasons."}},
		{"check empty", "Check:", scanLine{kind: lineCheck, text: ""}},
		{"check lowercase dash", "check - details", scanLine{kind: lineCheck, text: "details"}},
		{"plain prose", "Just some prompt text", scanLine{kind: linePlain, text: "Just some prompt text"}},
		{"letter word is plain", "Answers vary here", scanLine{kind: linePlain, text: "Answers vary here"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.line))
		})
	}
}
