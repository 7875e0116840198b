package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quizville/quizville/internal/question"
)

func threeQuestions() []question.Question {
	return []question.Question{
		{ID: "q1", Content: "first"},
		{ID: "q2", Content: "second"},
		{ID: "q3", Content: "third"},
	}
}

func TestNewSessionStartsAtFirstQuestion(t *testing.T) {
	s := NewSession("user-1", threeQuestions())

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Empty(t, s.Flagged)

	q, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "q1", q.ID)
}

func TestNextSaturatesAtLastQuestion(t *testing.T) {
	s := NewSession("user-1", threeQuestions())

	s.Next()
	s.Next()
	assert.Equal(t, 2, s.CurrentIndex)

	s.Next()
	assert.Equal(t, 2, s.CurrentIndex, "next at the last question is a no-op")
}

func TestPreviousSaturatesAtFirstQuestion(t *testing.T) {
	s := NewSession("user-1", threeQuestions())

	s.Previous()
	assert.Equal(t, 0, s.CurrentIndex, "previous at the first question is a no-op")

	s.Next()
	s.Previous()
	assert.Equal(t, 0, s.CurrentIndex)
}

func TestJumpToBounds(t *testing.T) {
	s := NewSession("user-1", threeQuestions())

	assert.NoError(t, s.JumpTo(2))
	assert.Equal(t, 2, s.CurrentIndex)

	assert.ErrorIs(t, s.JumpTo(3), ErrIndexOutOfRange)
	assert.Equal(t, 2, s.CurrentIndex, "failed jump leaves the index unchanged")

	assert.ErrorIs(t, s.JumpTo(-1), ErrIndexOutOfRange)
	assert.Equal(t, 2, s.CurrentIndex)
}

func TestToggleFlagIsSelfInverse(t *testing.T) {
	s := NewSession("user-1", threeQuestions())

	assert.True(t, s.ToggleFlag("q2"))
	assert.True(t, s.IsFlagged("q2"))

	assert.False(t, s.ToggleFlag("q2"))
	assert.False(t, s.IsFlagged("q2"))

	// unflagged entries read the same whether absent or toggled back
	assert.False(t, s.IsFlagged("q3"))
}

func TestFlagsSurviveNavigation(t *testing.T) {
	s := NewSession("user-1", threeQuestions())

	s.Next()
	s.ToggleFlag("q2")
	s.Next()
	s.Previous()
	s.Previous()

	assert.True(t, s.IsFlagged("q2"))
	assert.Equal(t, 0, s.CurrentIndex)
}

func TestToggleFlagNilMap(t *testing.T) {
	s := &Session{Questions: threeQuestions()}
	assert.True(t, s.ToggleFlag("q1"))
}

func TestCurrentEmptySession(t *testing.T) {
	s := NewSession("user-1", nil)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestMemoryStateManagerRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := NewMemoryStateManager()

	_, err := mgr.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	s := NewSession("user-1", threeQuestions())
	s.Next()
	s.ToggleFlag("q2")
	assert.NoError(t, mgr.Save(ctx, s))

	got, err := mgr.Get(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, 1, got.CurrentIndex)
	assert.True(t, got.IsFlagged("q2"))
	assert.Len(t, got.Questions, 3)
}

func TestMemoryStateManagerStoresCopies(t *testing.T) {
	ctx := context.Background()
	mgr := NewMemoryStateManager()

	s := NewSession("user-1", threeQuestions())
	assert.NoError(t, mgr.Save(ctx, s))

	// mutating the caller's session must not leak into the store
	s.Next()
	s.ToggleFlag("q1")

	got, err := mgr.Get(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, got.CurrentIndex)
	assert.False(t, got.IsFlagged("q1"))

	// and mutating what Get returned must not leak either
	got.Next()
	again, err := mgr.Get(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, again.CurrentIndex)
}
