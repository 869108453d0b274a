package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	termgrid "github.com/danielgatis/go-termgrid"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.LoadState(ctx, "main"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	g := termgrid.New(termgrid.WithSize(20, 4))
	g.WriteString("\x1b[1mbold\x1b[0m plain\nsecond")
	if err := s.SaveState(ctx, "main", g.State()); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	g.WriteText("\nthird")
	if err := s.SaveState(ctx, "main", g.State()); err != nil {
		t.Fatalf("SaveState overwrite: %v", err)
	}

	state, err := s.LoadState(ctx, "main")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	restored := termgrid.New(termgrid.WithState(state))
	if restored.String() != g.String() {
		t.Errorf("expected %q, got %q", g.String(), restored.String())
	}
	if !restored.Cell(termgrid.Pt(0, 0)).HasFlag(termgrid.CellFlagBold) {
		t.Error("expected attributes to survive the store")
	}

	for _, line := range []string{"a", "b", "c"} {
		if err := s.AppendHistory(ctx, "main", line); err != nil {
			t.Fatalf("AppendHistory: %v", err)
		}
	}
	if err := s.AppendHistory(ctx, "other", "x"); err != nil {
		t.Fatal(err)
	}

	all, err := s.LoadHistory(ctx, "main", 0)
	if err != nil || fmt.Sprint(all) != "[a b c]" {
		t.Errorf("LoadHistory = %v, %v", all, err)
	}
	last, err := s.LoadHistory(ctx, "main", 2)
	if err != nil || fmt.Sprint(last) != "[b c]" {
		t.Errorf("LoadHistory(limit 2) = %v, %v", last, err)
	}
	none, err := s.LoadHistory(ctx, "missing", 10)
	if err != nil || len(none) != 0 {
		t.Errorf("expected no history, got %v, %v", none, err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	testStore(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	lines, err := reopened.LoadHistory(context.Background(), "main", 0)
	if err != nil || len(lines) != 3 {
		t.Errorf("expected history to persist, got %v, %v", lines, err)
	}
}
