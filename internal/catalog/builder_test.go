package catalog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFixture creates a file under root, making parent directories.
func writeFixture(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return path
}

func writeFixtureContent(t *testing.T, root, content string, parts ...string) string {
	t.Helper()
	path := writeFixture(t, root, parts...)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return path
}

func TestBuildMissingRoot(t *testing.T) {
	b := &Builder{Root: filepath.Join(t.TempDir(), "nope")}
	_, err := b.Build()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Build on missing root = %v, want fs.ErrNotExist", err)
	}
}

func TestBuildEmptyRoot(t *testing.T) {
	b := &Builder{Root: t.TempDir()}
	records, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty catalog, got %d records", len(records))
	}
}

func TestBuildRecordWithoutSiblings(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "2024-01-01", "images", "screenshot_101500.jpg")

	b := &Builder{Root: root}
	records, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Text != "" || rec.Description != "" {
		t.Errorf("expected empty content, got text=%q desc=%q", rec.Text, rec.Description)
	}
	want := time.Date(2024, 1, 1, 10, 15, 0, 0, time.Local)
	if !rec.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", rec.Timestamp, want)
	}
}

func TestBuildReadsSiblings(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "2024-01-01", "images", "screenshot_101500.jpg")
	writeFixtureContent(t, root, "hello world (Confidence: 0.95)",
		"2024-01-01", "texts", "text_101500.txt")
	writeFixtureContent(t, root, "a desktop with a browser",
		"2024-01-01", "texts", "description_101500.txt")

	b := &Builder{Root: root}
	records, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Text != "hello world (Confidence: 0.95)" {
		t.Errorf("text = %q", records[0].Text)
	}
	if records[0].Description != "a desktop with a browser" {
		t.Errorf("description = %q", records[0].Description)
	}
}

func TestBuildSkipsUnparsableFiles(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "2024-01-01", "images", "screenshot_101500.jpg")
	writeFixture(t, root, "2024-01-01", "images", "wallpaper.jpg")      // no time suffix
	writeFixture(t, root, "junk", "images", "screenshot_101500.jpg")    // bad date dir
	writeFixture(t, root, "2024-01-01", "images", "notes_101500.txt")   // not an image
	writeFixture(t, root, "2024-01-01", "images", "screenshot_9.jpeg")  // bad time

	b := &Builder{Root: root}
	records, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after skipping bad files, got %d", len(records))
	}
}

func TestBuildSortsDescending(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "2024-01-01", "images", "screenshot_080000.jpg")
	writeFixture(t, root, "2024-01-02", "images", "screenshot_090000.jpg")
	writeFixture(t, root, "2024-01-01", "images", "screenshot_230000.jpg")

	b := &Builder{Root: root}
	records, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.After(records[i-1].Timestamp) {
			t.Errorf("records out of order at %d: %v after %v",
				i, records[i].Timestamp, records[i-1].Timestamp)
		}
	}
	if records[0].Timestamp.Day() != 2 {
		t.Errorf("newest record should be Jan 2, got %v", records[0].Timestamp)
	}
}

func TestBuildStableForEqualTimestamps(t *testing.T) {
	root := t.TempDir()
	// Same capture instant, distinct files: encounter order must hold.
	a := writeFixture(t, root, "2024-01-01", "images", "screenshot_101500.jpeg")
	bPath := writeFixture(t, root, "2024-01-01", "images", "screenshot_101500.jpg")

	b := &Builder{Root: root}
	records, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// WalkDir visits lexicographically: .jpeg before .jpg
	if records[0].ImagePath != a || records[1].ImagePath != bPath {
		t.Errorf("stability violated: got %q then %q", records[0].ImagePath, records[1].ImagePath)
	}
}

func TestBuildBatchSizeDoesNotChangeResult(t *testing.T) {
	root := t.TempDir()
	for h := 8; h < 18; h++ {
		writeFixture(t, root, "2024-03-05", "images",
			time.Date(2024, 3, 5, h, 0, 0, 0, time.Local).Format("screenshot_150405.jpg"))
	}

	var progressCalls int
	small := &Builder{Root: root, BatchSize: 3, Progress: func(int) { progressCalls++ }}
	got, err := small.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	big := &Builder{Root: root, BatchSize: 1000}
	want, err := big.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("batch size changed record count: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if got[i].ImagePath != want[i].ImagePath {
			t.Errorf("batch size changed order at %d: %q vs %q", i, got[i].ImagePath, want[i].ImagePath)
		}
	}
	if progressCalls == 0 {
		t.Error("expected progress callbacks with small batch size")
	}
}

func TestBuildProgressReaches100(t *testing.T) {
	root := t.TempDir()
	for h := 10; h < 15; h++ {
		writeFixture(t, root, "2024-03-05", "images",
			time.Date(2024, 3, 5, h, 0, 0, 0, time.Local).Format("screenshot_150405.jpg"))
	}

	var last int
	b := &Builder{Root: root, BatchSize: 2, Progress: func(p int) {
		if p < last {
			t.Errorf("progress went backwards: %d after %d", p, last)
		}
		last = p
	}}
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if last != 100 {
		t.Errorf("final progress = %d, want 100", last)
	}
}

func TestPrepend(t *testing.T) {
	records := []Record{{ImagePath: "b"}, {ImagePath: "c"}}
	records = Prepend(records, Record{ImagePath: "a"})
	if len(records) != 3 || records[0].ImagePath != "a" {
		t.Errorf("Prepend: got %+v", records)
	}
}
