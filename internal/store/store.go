// Package store appends TaskResults and Generations to a SQLite
// database. Persistence is append-only: there is no update-in-place,
// matching the corpus's "every write is a new row" invariant.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/4thel00z/slurp-go/internal/domain"
	"github.com/4thel00z/slurp-go/internal/fn"
)

var errMissingDatabase = errors.New("store: database path must be provided in the configuration")

const schema = `
CREATE TABLE IF NOT EXISTS task_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	status_code INTEGER NOT NULL,
	headers TEXT NOT NULL,
	content TEXT NOT NULL,
	hash TEXT NOT NULL,
	url TEXT NOT NULL,
	title TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_task_results_hash ON task_results(hash);
CREATE INDEX IF NOT EXISTS idx_task_results_url ON task_results(url);
CREATE INDEX IF NOT EXISTS idx_task_results_title ON task_results(title);

CREATE TABLE IF NOT EXISTS generations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question_answers TEXT NOT NULL,
	"references" TEXT NOT NULL,
	language TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_generations_language ON generations(language);
`

// Store persists TaskResults and Generations to SQLite.
type Store struct {
	db *sql.DB
}

// New opens (creating if absent) the SQLite database named in cfg and
// applies the create-if-absent schema migration.
func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", cfg.Database, cfg.Timeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PersistTaskResult appends a TaskResult row and returns it unchanged,
// so it can sit directly in a mutator chain.
func (s *Store) PersistTaskResult(ctx context.Context, result *domain.TaskResult) fn.Result[*domain.TaskResult] {
	headers, err := json.Marshal(result.Headers)
	if err != nil {
		return fn.Err[*domain.TaskResult](fmt.Errorf("store: marshal headers: %w", err))
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO task_results (status_code, headers, content, hash, url, title) VALUES (?, ?, ?, ?, ?, ?)`,
		result.StatusCode, string(headers), result.Content, result.Hash, result.URL, result.Title,
	)
	if err != nil {
		return fn.Err[*domain.TaskResult](fmt.Errorf("store: insert task_result: %w", err))
	}
	return fn.Ok(result)
}

// PersistGeneration appends a Generation row and returns it unchanged.
func (s *Store) PersistGeneration(ctx context.Context, gen *domain.Generation) fn.Result[*domain.Generation] {
	qas, err := json.Marshal(gen.QuestionAnswers)
	if err != nil {
		return fn.Err[*domain.Generation](fmt.Errorf("store: marshal question_answers: %w", err))
	}
	refs, err := json.Marshal(gen.References)
	if err != nil {
		return fn.Err[*domain.Generation](fmt.Errorf("store: marshal references: %w", err))
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO generations (question_answers, "references", language) VALUES (?, ?, ?)`,
		string(qas), string(refs), string(gen.Language),
	)
	if err != nil {
		return fn.Err[*domain.Generation](fmt.Errorf("store: insert generation: %w", err))
	}
	return fn.Ok(gen)
}

// CountTaskResults is a test/diagnostic helper.
func (s *Store) CountTaskResults(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM task_results`).Scan(&n)
	return n, err
}

// CountGenerations is a test/diagnostic helper.
func (s *Store) CountGenerations(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generations`).Scan(&n)
	return n, err
}
