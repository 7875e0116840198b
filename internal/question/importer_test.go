package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTextTwoBlocks(t *testing.T) {
	input := "1. What is the unit of force?\nAnswer: Newton\n\n2. What is the unit of pressure?\nAnswer: Pascal"

	questions := ParseText(input)
	assert.Len(t, questions, 2)

	assert.Equal(t, "imported-0", questions[0].ID)
	assert.Equal(t, "What is the unit of force?", questions[0].Content)
	assert.Equal(t, "Newton", questions[0].Answer)

	assert.Equal(t, "imported-1", questions[1].ID)
	assert.Equal(t, "What is the unit of pressure?", questions[1].Content)
	assert.Equal(t, "Pascal", questions[1].Answer)
}

func TestParseTextDropsMalformedBlocksSilently(t *testing.T) {
	// middle block has no answer line, last block has no numbered line
	input := "1. Good question\nAnswer: yes\n\n2. No answer here\nJust commentary\n\nAnswer: orphaned answer"

	questions := ParseText(input)
	assert.Len(t, questions, 1)
	assert.Equal(t, "Good question", questions[0].Content)
}

func TestParseTextIDsCarryBlockIndex(t *testing.T) {
	// block 1 is dropped, so the surviving ids are 0 and 2
	input := "1. First\nAnswer: a\n\nnot a question\n\n3. Third\nAnswer: c"

	questions := ParseText(input)
	assert.Len(t, questions, 2)
	assert.Equal(t, "imported-0", questions[0].ID)
	assert.Equal(t, "imported-2", questions[1].ID)
}

func TestParseTextFirstMatchWins(t *testing.T) {
	input := "1. First line\n2. Second numbered line\nAnswer: one\nanswer: two"

	questions := ParseText(input)
	assert.Len(t, questions, 1)
	assert.Equal(t, "First line", questions[0].Content)
	assert.Equal(t, "one", questions[0].Answer)
}

func TestParseTextAnswerCaseInsensitive(t *testing.T) {
	input := "1. Q\nANSWER:   spaced out  "

	questions := ParseText(input)
	assert.Len(t, questions, 1)
	assert.Equal(t, "spaced out", questions[0].Answer)
}

func TestParseTextBlankSeparatorWithWhitespace(t *testing.T) {
	// separator lines containing only spaces still split blocks
	input := "1. A\nAnswer: a\n   \n2. B\nAnswer: b"

	questions := ParseText(input)
	assert.Len(t, questions, 2)
}

func TestParseTextEmptyInput(t *testing.T) {
	assert.Empty(t, ParseText(""))
	assert.Empty(t, ParseText("   \n\n  \n"))
	assert.Empty(t, ParseText("free text without any structure"))
}

func TestRecordsNumberSequentially(t *testing.T) {
	questions := []Question{
		{ID: "imported-0", Content: "A", Answer: "a"},
		{ID: "imported-4", Content: "B", Answer: "b"},
	}

	records := Records(questions)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, records[0].QuestionNumber)
	assert.Equal(t, 2, records[1].QuestionNumber)
	assert.Equal(t, "B", records[1].Content)
}
