// Package session persists completed conversation turns so the shells can
// show history across restarts.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/basepilot/basepilot/internal/engine"

	_ "modernc.org/sqlite"
)

// Record is one persisted turn.
type Record struct {
	ID         string
	Input      string
	Response   string
	Iterations int
	Approval   string
	CreatedAt  int64 // Unix timestamp
}

// Store is a sqlite-backed turn log. It implements engine.TurnRecorder.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the turn database at dbPath.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	// WAL mode allows a reader while a turn is being recorded.
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite tolerates a single writer; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		id         TEXT PRIMARY KEY,
		input      TEXT NOT NULL,
		response   TEXT NOT NULL,
		iterations INTEGER NOT NULL,
		approval   TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_turns_created ON turns(created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// RecordTurn implements engine.TurnRecorder.
func (s *Store) RecordTurn(ctx context.Context, turn engine.Turn) error {
	query := `
		INSERT INTO turns (id, input, response, iterations, approval, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		turn.ID, turn.Input, turn.Response, turn.Iterations, turn.Approval, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record turn: %w", err)
	}
	return nil
}

// ListRecent returns up to limit turns, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, input, response, iterations, approval, created_at
		FROM turns
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Input, &r.Response, &r.Iterations, &r.Approval, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating turns: %w", err)
	}
	return records, nil
}

// Get retrieves one turn by id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	query := `SELECT id, input, response, iterations, approval, created_at FROM turns WHERE id = ?`
	var r Record
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.Input, &r.Response, &r.Iterations, &r.Approval, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
