// Package history records every completion request askgpt makes in a local
// SQLite database so past questions, answers, and token usage can be
// inspected with the history subcommands.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Record captures a single completion request.
type Record struct {
	ID             string
	Timestamp      time.Time
	Purpose        string
	RequestedModel string
	ServedModel    string
	Prompt         string
	Response       string
	InputTokens    int
	OutputTokens   int
	LatencyMs      int64
	Success        bool
	ErrorMessage   string
}

// Recorder provides append access to the request history.
type Recorder interface {
	Append(ctx context.Context, rec Record) error
}

// UsageStat aggregates recorded usage for one purpose.
type UsageStat struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// Store is a SQLite-backed request history.
type Store struct {
	db *sql.DB
}

var _ Recorder = (*Store)(nil)

// Open creates a Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the schema if needed.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS requests (
			id TEXT PRIMARY KEY,
			timestamp TIMESTAMP NOT NULL,
			purpose TEXT NOT NULL,
			requested_model TEXT NOT NULL,
			served_model TEXT,
			prompt TEXT,
			response TEXT,
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms INTEGER NOT NULL DEFAULT 0,
			success INTEGER NOT NULL DEFAULT 0,
			error_message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_timestamp ON requests(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_purpose ON requests(purpose)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// applyPragmas configures SQLite for single-user CLI access.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Append stores one request record. A missing ID or timestamp is filled in.
func (s *Store) Append(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	success := 0
	if rec.Success {
		success = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (
			id, timestamp, purpose, requested_model, served_model,
			prompt, response, input_tokens, output_tokens,
			latency_ms, success, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp, rec.Purpose, rec.RequestedModel, rec.ServedModel,
		rec.Prompt, rec.Response, rec.InputTokens, rec.OutputTokens,
		rec.LatencyMs, success, rec.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save request record: %w", err)
	}
	return nil
}

// Recent returns the most recent records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, purpose, requested_model, served_model,
			prompt, response, input_tokens, output_tokens,
			latency_ms, success, error_message
		FROM requests ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var success int
		err := rows.Scan(
			&rec.ID, &rec.Timestamp, &rec.Purpose, &rec.RequestedModel, &rec.ServedModel,
			&rec.Prompt, &rec.Response, &rec.InputTokens, &rec.OutputTokens,
			&rec.LatencyMs, &success, &rec.ErrorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Success = success == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Usage aggregates calls, tokens, and average latency per purpose.
func (s *Store) Usage(ctx context.Context) ([]UsageStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT purpose, COUNT(*), SUM(input_tokens), SUM(output_tokens),
			CAST(AVG(latency_ms) AS INTEGER)
		FROM requests GROUP BY purpose ORDER BY purpose`)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	var stats []UsageStat
	for rows.Next() {
		var st UsageStat
		if err := rows.Scan(&st.Purpose, &st.Calls, &st.InputTokens, &st.OutputTokens, &st.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// DefaultDBPath resolves the history database path in priority order:
// 1. ASKGPT_DB environment variable
// 2. $XDG_DATA_HOME/askgpt/askgpt.db
// 3. ~/.local/share/askgpt/askgpt.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("ASKGPT_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "askgpt", "askgpt.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it does not exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
