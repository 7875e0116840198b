package question

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/quizville/quizville/internal/db/repository"
)

type stubProvider struct {
	name      string
	questions []Question
	err       error
	calls     int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) TryLoad(context.Context) ([]Question, error) {
	p.calls++
	return p.questions, p.err
}

type stubReplacer struct {
	rows []repository.QuestionRow
	err  error
}

func (r *stubReplacer) ReplaceAll(_ context.Context, rows []repository.QuestionRow) error {
	if r.err != nil {
		return r.err
	}
	r.rows = rows
	return nil
}

type memoryBlobStore struct {
	text string
	sets int
}

func (b *memoryBlobStore) Get(context.Context) (string, error) { return b.text, nil }

func (b *memoryBlobStore) Set(_ context.Context, text string) error {
	b.text = text
	b.sets++
	return nil
}

func TestLoadFirstSourceWithDataWins(t *testing.T) {
	remote := &stubProvider{name: "remote", questions: []Question{{ID: "r1"}}}
	imported := &stubProvider{name: "imported", questions: []Question{{ID: "i1"}}}
	svc := NewService([]Provider{remote, imported}, nil, nil, zerolog.Nop())

	questions, err := svc.Load(context.Background())
	assert.NoError(t, err)
	assert.Len(t, questions, 1)
	assert.Equal(t, "r1", questions[0].ID)
	assert.Equal(t, 0, imported.calls, "lower-priority source must not be consulted")
}

func TestLoadFallsThroughErrorsAndEmptySources(t *testing.T) {
	remote := &stubProvider{name: "remote", err: errors.New("connection refused")}
	imported := &stubProvider{name: "imported"} // empty
	seed := &stubProvider{name: "seed", questions: SeedQuestions()}
	svc := NewService([]Provider{remote, imported, seed}, nil, nil, zerolog.Nop())

	questions, err := svc.Load(context.Background())
	assert.NoError(t, err)
	assert.Len(t, questions, 3)
	assert.Equal(t, "q1", questions[0].ID)
}

func TestLoadAllSourcesEmpty(t *testing.T) {
	svc := NewService([]Provider{&stubProvider{name: "remote"}}, nil, nil, zerolog.Nop())

	questions, err := svc.Load(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, questions)
}

func TestImportReplacesTableAndPersistsBlob(t *testing.T) {
	replacer := &stubReplacer{}
	blobs := &memoryBlobStore{}
	svc := NewService(nil, replacer, blobs, zerolog.Nop())

	text := "1. A\nAnswer: a\n\n2. B\nAnswer: b"
	questions, err := svc.Import(context.Background(), text)
	assert.NoError(t, err)
	assert.Len(t, questions, 2)

	assert.Equal(t, text, blobs.text)
	assert.Len(t, replacer.rows, 2)
	assert.Equal(t, int32(1), replacer.rows[0].QuestionNumber)
	assert.Equal(t, "B", replacer.rows[1].Content)
}

func TestImportEmptyParseWritesNothing(t *testing.T) {
	replacer := &stubReplacer{}
	blobs := &memoryBlobStore{}
	svc := NewService(nil, replacer, blobs, zerolog.Nop())

	_, err := svc.Import(context.Background(), "no questions in here")
	assert.ErrorIs(t, err, ErrNothingFound)
	assert.Zero(t, blobs.sets)
	assert.Nil(t, replacer.rows)
}

func TestImportReplaceFailureSurfaces(t *testing.T) {
	replacer := &stubReplacer{err: errors.New("deadlock detected")}
	svc := NewService(nil, replacer, nil, zerolog.Nop())

	_, err := svc.Import(context.Background(), "1. A\nAnswer: a")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "replace question table")
}

func TestImportWithoutRemoteStoreStillSucceeds(t *testing.T) {
	blobs := &memoryBlobStore{}
	svc := NewService(nil, nil, blobs, zerolog.Nop())

	questions, err := svc.Import(context.Background(), "1. A\nAnswer: a")
	assert.NoError(t, err)
	assert.Len(t, questions, 1)
	assert.Equal(t, 1, blobs.sets)
}

func TestImportedProviderRoundTrip(t *testing.T) {
	blobs := &memoryBlobStore{}
	svc := NewService([]Provider{NewImportedProvider(blobs), SeedProvider{}}, nil, blobs, zerolog.Nop())

	// before any import, seed serves
	questions, err := svc.Load(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "q1", questions[0].ID)

	_, err = svc.Import(context.Background(), "1. Imported\nAnswer: yes")
	assert.NoError(t, err)

	questions, err = svc.Load(context.Background())
	assert.NoError(t, err)
	assert.Len(t, questions, 1)
	assert.Equal(t, "imported-0", questions[0].ID)
}

func TestFormatReview(t *testing.T) {
	seed := &stubProvider{name: "seed", questions: []Question{
		{ID: "q1", Content: "What are springs used for?", Answer: "All of the above"},
	}}
	svc := NewService([]Provider{seed}, nil, nil, zerolog.Nop())

	text, err := svc.FormatReview(context.Background())
	assert.NoError(t, err)
	assert.Contains(t, text, "1. What are springs used for?\n")
	assert.Contains(t, text, "d. All of the above")
	assert.Contains(t, text, "\nAnswer: d\n\n")
}
