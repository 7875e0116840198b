package question

// Option is a declared-but-unpopulated answer option. No producer fills it
// in; it exists so imported and stored questions share one shape.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is the record served to quiz-taking clients. Flag state is a
// sibling runtime map (internal/quiz), never part of this record.
type Question struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	Answer    string   `json:"answer,omitempty"`
	CreatedAt string   `json:"createdAt"`
	Options   []Option `json:"options,omitempty"`
	Points    int      `json:"points,omitempty"`
}

// ImportRecord is the intermediate shape pushed to the remote question
// table during bulk import.
type ImportRecord struct {
	QuestionNumber int    `json:"question_number"`
	Content        string `json:"content"`
	Answer         string `json:"answer"`
}
