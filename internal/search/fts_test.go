package search

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/abelbrown/recall/internal/catalog"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := OpenIndex(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("OpenIndex failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndexRebuildAndSearch(t *testing.T) {
	idx := newTestIndex(t)

	records := []catalog.Record{
		{ImagePath: "/r/2024-01-01/images/screenshot_101500.jpg",
			Text:      "terminal window with compiler output",
			Timestamp: time.Date(2024, 1, 1, 10, 15, 0, 0, time.Local)},
		{ImagePath: "/r/2024-01-01/images/screenshot_101505.jpg",
			Description: "a browser showing a recipe",
			Timestamp:   time.Date(2024, 1, 1, 10, 15, 5, 0, time.Local)},
	}

	if err := idx.Rebuild(records); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	n, err := idx.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}

	paths, err := idx.Search("compiler", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != records[0].ImagePath {
		t.Errorf("Search(compiler) = %v", paths)
	}

	paths, err = idx.Search("recipe", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != records[1].ImagePath {
		t.Errorf("Search(recipe) = %v", paths)
	}
}

func TestIndexRebuildReplaces(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.Rebuild([]catalog.Record{{ImagePath: "a", Text: "old content"}}); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if err := idx.Rebuild([]catalog.Record{{ImagePath: "b", Text: "new content"}}); err != nil {
		t.Fatalf("second Rebuild failed: %v", err)
	}

	if paths, _ := idx.Search("old", 10); len(paths) != 0 {
		t.Errorf("stale rows survived rebuild: %v", paths)
	}
	n, _ := idx.Count()
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestIndexSearchEmptyQuery(t *testing.T) {
	idx := newTestIndex(t)
	paths, err := idx.Search("   ", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if paths != nil {
		t.Errorf("empty query returned %v", paths)
	}
}

func TestIndexSearchQuotesUserInput(t *testing.T) {
	idx := newTestIndex(t)
	if err := idx.Rebuild([]catalog.Record{{ImagePath: "a", Text: `say "hi" AND bye`}}); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	// FTS5 operators and quotes in user input must not be interpreted
	if _, err := idx.Search(`"hi" AND`, 10); err != nil {
		t.Errorf("quoted query failed: %v", err)
	}
}
