package question

import (
	"context"
	"strings"
	"time"

	"github.com/quizville/quizville/internal/db/repository"
)

// Provider is one named source in the question fallback chain. TryLoad
// returns the source's questions or nothing; an error or an empty result
// both mean "move on to the next source".
type Provider interface {
	Name() string
	TryLoad(ctx context.Context) ([]Question, error)
}

type questionLister interface {
	ListOrdered(ctx context.Context) ([]repository.QuestionRow, error)
}

// RemoteProvider reads the remote question table ordered by question_number.
type RemoteProvider struct {
	repo questionLister
}

// NewRemoteProvider wraps the question repository as a provider.
func NewRemoteProvider(repo questionLister) *RemoteProvider {
	return &RemoteProvider{repo: repo}
}

func (p *RemoteProvider) Name() string { return "remote" }

func (p *RemoteProvider) TryLoad(ctx context.Context) ([]Question, error) {
	rows, err := p.repo.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	questions := make([]Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, Question{
			ID:        row.ID.String(),
			Content:   row.Content,
			Answer:    row.Answer,
			CreatedAt: row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return questions, nil
}

// BlobStore persists the last-imported raw text blob, the server-side
// analog of the browser's local storage key.
type BlobStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, text string) error
}

// ImportedProvider re-parses the persisted import blob.
type ImportedProvider struct {
	blobs BlobStore
}

// NewImportedProvider wraps a blob store as a provider.
func NewImportedProvider(blobs BlobStore) *ImportedProvider {
	return &ImportedProvider{blobs: blobs}
}

func (p *ImportedProvider) Name() string { return "imported" }

func (p *ImportedProvider) TryLoad(ctx context.Context) ([]Question, error) {
	text, err := p.blobs.Get(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return ParseText(text), nil
}

// SeedProvider serves the built-in question list and never fails.
type SeedProvider struct{}

func (SeedProvider) Name() string { return "seed" }

func (SeedProvider) TryLoad(context.Context) ([]Question, error) {
	return SeedQuestions(), nil
}
