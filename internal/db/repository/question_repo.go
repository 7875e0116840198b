package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRow is a row of the quiz_questions table.
type QuestionRow struct {
	ID             uuid.UUID
	QuestionNumber int32
	Content        string
	Answer         string
	CreatedAt      time.Time
}

// QuestionRepository wraps question table access for the quiz service.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository wraps a pgx pool for question operations.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListOrdered returns all questions sorted by question_number ascending.
func (r *QuestionRepository) ListOrdered(ctx context.Context) ([]QuestionRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, question_number, content, answer, created_at
		 FROM quiz_questions ORDER BY question_number ASC`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []QuestionRow
	for rows.Next() {
		var q QuestionRow
		if err := rows.Scan(&q.ID, &q.QuestionNumber, &q.Content, &q.Answer, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// ReplaceAll deletes every existing question and bulk-inserts the new set in
// a single transaction. Import is whole-table replace, not merge.
func (r *QuestionRepository) ReplaceAll(ctx context.Context, questions []QuestionRow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM quiz_questions`); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	rows := make([][]interface{}, 0, len(questions))
	for _, q := range questions {
		id := q.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		rows = append(rows, []interface{}{id, q.QuestionNumber, q.Content, q.Answer})
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"quiz_questions"},
		[]string{"id", "question_number", "content", "answer"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("insert questions: %w", err)
	}

	return tx.Commit(ctx)
}
