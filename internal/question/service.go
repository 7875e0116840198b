package question

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quizville/quizville/internal/db/repository"
)

// ErrNothingFound is returned when an import parses to zero records. Only a
// fully empty parse is surfaced; individual malformed blocks vanish without
// diagnostic.
var ErrNothingFound = errors.New("no questions found in import text")

type questionReplacer interface {
	ReplaceAll(ctx context.Context, questions []repository.QuestionRow) error
}

// Service resolves the active question set through an ordered provider
// chain and runs bulk imports.
type Service struct {
	providers []Provider
	replacer  questionReplacer // nil when the remote store is unconfigured
	blobs     BlobStore        // nil when Redis is unconfigured
	logger    zerolog.Logger
}

// NewService builds the question service. The provider order is the
// fallback contract: each source is consulted only if every source before
// it produced no usable data.
func NewService(providers []Provider, replacer questionReplacer, blobs BlobStore, logger zerolog.Logger) *Service {
	return &Service{
		providers: providers,
		replacer:  replacer,
		blobs:     blobs,
		logger:    logger,
	}
}

// Load returns the active question set: the first provider that yields at
// least one record wins. No merging; stale data in a lower-priority source
// is invisible while a higher-priority source has data.
func (s *Service) Load(ctx context.Context) ([]Question, error) {
	for _, p := range s.providers {
		questions, err := p.TryLoad(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Str("source", p.Name()).Msg("question source failed, falling back")
			continue
		}
		if len(questions) > 0 {
			return questions, nil
		}
	}
	return nil, nil
}

// Import parses pasted text and replaces the active question set: the raw
// blob is persisted for the imported-text fallback source, and when the
// remote table is available it is cleared and re-filled with the parsed
// records (whole-table replace, not merge).
func (s *Service) Import(ctx context.Context, text string) ([]Question, error) {
	questions := ParseText(text)
	if len(questions) == 0 {
		return nil, ErrNothingFound
	}

	if s.blobs != nil {
		if err := s.blobs.Set(ctx, text); err != nil {
			s.logger.Warn().Err(err).Msg("persist import blob failed")
		}
	}

	if s.replacer != nil {
		rows := make([]repository.QuestionRow, 0, len(questions))
		for _, rec := range Records(questions) {
			rows = append(rows, repository.QuestionRow{
				QuestionNumber: int32(rec.QuestionNumber),
				Content:        rec.Content,
				Answer:         rec.Answer,
			})
		}
		if err := s.replacer.ReplaceAll(ctx, rows); err != nil {
			return nil, fmt.Errorf("replace question table: %w", err)
		}
	}

	s.logger.Info().Int("count", len(questions)).Msg("questions imported")
	return questions, nil
}

// FormatReview renders the active question set as the review-mode text
// sheet: numbered content, mock a-d options with the answer as option d.
func (s *Service) FormatReview(ctx context.Context) (string, error) {
	questions, err := s.Load(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Content)
		options := []string{
			"a. They are used for the measurement of force and to control motion",
			"b. They are used to store energy",
			"c. They are used to absorb shocks and vibrations",
			"d. " + q.Answer,
		}
		b.WriteString(strings.Join(options, "\n"))
		b.WriteString("\nAnswer: d\n\n")
	}
	return b.String(), nil
}
