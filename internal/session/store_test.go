package session

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/basepilot/basepilot/internal/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "turns.db"))
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	turn := engine.Turn{
		ID:         "turn-1",
		Input:      "what is my balance",
		Response:   "Your balance is 2.5 ETH",
		Iterations: 2,
		Approval:   "",
	}
	if err := s.RecordTurn(ctx, turn); err != nil {
		t.Fatalf("RecordTurn() error: %v", err)
	}

	got, err := s.Get(ctx, "turn-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Input != turn.Input || got.Response != turn.Response || got.Iterations != 2 {
		t.Errorf("Get() = %+v", got)
	}
	if got.CreatedAt == 0 {
		t.Error("created_at not set")
	}
}

func TestListRecentOrdersNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.RecordTurn(ctx, engine.Turn{ID: id, Input: id, Response: "ok"}); err != nil {
			t.Fatalf("RecordTurn(%s) error: %v", id, err)
		}
	}

	records, err := s.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListRecent() returned %d records, want 2", len(records))
	}
	if records[0].ID != "c" || records[1].ID != "b" {
		t.Errorf("order = [%s %s], want [c b]", records[0].ID, records[1].ID)
	}
}

func TestRecordDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	turn := engine.Turn{ID: "dup", Input: "x", Response: "y"}
	if err := s.RecordTurn(ctx, turn); err != nil {
		t.Fatalf("RecordTurn() error: %v", err)
	}
	if err := s.RecordTurn(ctx, turn); err == nil {
		t.Error("expected error recording duplicate turn id")
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "absent")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Get() error = %v, want sql.ErrNoRows", err)
	}
}

func TestNewStoreUnusablePath(t *testing.T) {
	// A directory is not a database file; opening must fail cleanly.
	if _, err := NewStore(context.Background(), t.TempDir()); err == nil {
		t.Error("expected error for a directory path")
	}
}
