package quiz

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/quizville/quizville/internal/question"
)

// ErrIndexOutOfRange is returned by JumpTo for targets outside [0, N-1].
var ErrIndexOutOfRange = errors.New("question index out of range")

// Session tracks which question is active and which are flagged for one
// quiz-taking sitting. The question list is fixed after creation; flag
// state is independent of position and survives navigation. All
// transitions are pure, no I/O.
type Session struct {
	ID           string              `json:"id"`
	UserID       string              `json:"user_id"`
	Questions    []question.Question `json:"questions"`
	CurrentIndex int                 `json:"current_index"`
	Flagged      map[string]bool     `json:"flagged"`
	StartedAt    time.Time           `json:"started_at"`
}

// NewSession starts a session over the given question list with nothing
// flagged and the first question current.
func NewSession(userID string, questions []question.Question) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Questions: questions,
		Flagged:   make(map[string]bool),
		StartedAt: time.Now().UTC(),
	}
}

// Next advances to the following question, saturating at the last one.
func (s *Session) Next() {
	if s.CurrentIndex < len(s.Questions)-1 {
		s.CurrentIndex++
	}
}

// Previous steps back one question, saturating at the first one.
func (s *Session) Previous() {
	if s.CurrentIndex > 0 {
		s.CurrentIndex--
	}
}

// JumpTo makes question i current. Out-of-range targets leave the index
// unchanged and report an error.
func (s *Session) JumpTo(i int) error {
	if i < 0 || i >= len(s.Questions) {
		return ErrIndexOutOfRange
	}
	s.CurrentIndex = i
	return nil
}

// ToggleFlag flips the flag for a question id, treating absent entries as
// unflagged. Entries toggled back to false are kept; absence and false
// read identically. Returns the new state.
func (s *Session) ToggleFlag(questionID string) bool {
	if s.Flagged == nil {
		s.Flagged = make(map[string]bool)
	}
	s.Flagged[questionID] = !s.Flagged[questionID]
	return s.Flagged[questionID]
}

// IsFlagged reports the flag state for a question id.
func (s *Session) IsFlagged(questionID string) bool {
	return s.Flagged[questionID]
}

// Current returns the active question. ok is false only for an empty list.
func (s *Session) Current() (question.Question, bool) {
	if len(s.Questions) == 0 {
		return question.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}
