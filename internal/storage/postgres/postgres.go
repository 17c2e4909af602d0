package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ButyrinIA/qotd/internal/models"
	"github.com/ButyrinIA/qotd/internal/storage"
)

// PostgresStorage reads questions from a table seeded from the fixture.
// The comment tree of each question is stored as JSONB.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

const schema = `
	CREATE TABLE IF NOT EXISTS questions (
		position BIGSERIAL,
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		text TEXT NOT NULL,
		num_comments INTEGER NOT NULL DEFAULT 0,
		num_likes INTEGER NOT NULL DEFAULT 0,
		comments JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_questions_position ON questions(position);
`

func New(ctx context.Context, dsn string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

func (s *PostgresStorage) FindQuestion(ctx context.Context, url string) (*models.Question, error) {
	if url == "" {
		return nil, storage.ErrInvalidInput
	}

	row := s.pool.QueryRow(ctx, `
		SELECT id, url, text, num_comments, num_likes, comments, created_at
		FROM questions
		WHERE url = $1
		ORDER BY position
		LIMIT 1`, url)

	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find question: %w", err)
	}
	return q, nil
}

func (s *PostgresStorage) ListQuestions(ctx context.Context) ([]models.Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, url, text, num_comments, num_likes, comments, created_at
		FROM questions
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// Seed inserts fixture questions in order. Questions whose id or url is
// already present are skipped.
func (s *PostgresStorage) Seed(ctx context.Context, questions []models.Question) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, q := range questions {
		comments, err := json.Marshal(nonNil(q.Comments))
		if err != nil {
			return 0, fmt.Errorf("failed to encode comments of %s: %w", q.ID, err)
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO questions (id, url, text, num_comments, num_likes, comments, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT DO NOTHING`,
			q.ID, q.URL, q.Text, q.NumComments, q.NumLikes, comments, q.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("failed to insert question %s: %w", q.ID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var (
		q        models.Question
		comments []byte
	)
	if err := row.Scan(&q.ID, &q.URL, &q.Text, &q.NumComments, &q.NumLikes, &comments, &q.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(comments, &q.Comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments of %s: %w", q.ID, err)
	}
	q.CreatedAt = q.CreatedAt.UTC()
	return &q, nil
}

func nonNil(c []models.Comment) []models.Comment {
	if c == nil {
		return []models.Comment{}
	}
	return c
}
