package question

import (
	"fmt"
	"regexp"
	"strings"
)

// Import format, one block per question, blank line(s) between blocks:
//
//	1. Question text
//	Answer: answer text
//
// Within a block the first numbered line is the content and the first
// "answer:" line (case-insensitive) is the answer. Blocks missing either
// line are dropped silently; the caller only learns about a fully empty
// parse.
var (
	blockSep     = regexp.MustCompile(`\n\s*\n`)
	numberedLine = regexp.MustCompile(`^\d+\.\s+`)
	numberPrefix = regexp.MustCompile(`^\d+\.\s*`)
	answerPrefix = "answer:"
)

// ParseText converts freeform pasted text into ordered question records.
// IDs carry the block index, so dropped blocks leave gaps. Pure function,
// no side effects; empty input yields an empty slice.
func ParseText(input string) []Question {
	blocks := blockSep.Split(input, -1)
	var questions []Question

	for idx, block := range blocks {
		lines := strings.Split(block, "\n")

		var contentLine, answerLine string
		var haveContent, haveAnswer bool
		for _, line := range lines {
			if !haveContent && numberedLine.MatchString(line) {
				contentLine = line
				haveContent = true
			}
			if !haveAnswer && strings.HasPrefix(strings.ToLower(line), answerPrefix) {
				answerLine = line
				haveAnswer = true
			}
		}

		if !haveContent || !haveAnswer {
			continue
		}

		questions = append(questions, Question{
			ID:      fmt.Sprintf("imported-%d", idx),
			Content: strings.TrimSpace(numberPrefix.ReplaceAllString(contentLine, "")),
			Answer:  strings.TrimSpace(answerLine[len(answerPrefix):]),
		})
	}

	return questions
}

// Records converts parsed questions into the remote-table shape, numbered
// sequentially over the emitted records.
func Records(questions []Question) []ImportRecord {
	records := make([]ImportRecord, 0, len(questions))
	for i, q := range questions {
		records = append(records, ImportRecord{
			QuestionNumber: i + 1,
			Content:        q.Content,
			Answer:         q.Answer,
		})
	}
	return records
}
