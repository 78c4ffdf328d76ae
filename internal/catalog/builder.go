package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/abelbrown/recall/internal/logging"
	"github.com/abelbrown/recall/internal/store"
)

// defaultBatchSize is the number of images processed between progress
// reports. Batch boundaries are a scheduling concern only; they never
// affect catalog content or order.
const defaultBatchSize = 50

// Builder scans an artifact store root and produces a fresh catalog.
//
// A Builder is cheap and single-use per call; Build may be invoked from a
// background goroutine, with Progress delivering percent updates to the
// caller's thread of choice.
type Builder struct {
	// Root is the artifact store root directory.
	Root string

	// BatchSize bounds the work between progress reports. Values <= 0
	// fall back to the default.
	BatchSize int

	// Progress, when non-nil, receives an integer percentage after each
	// batch. It is called from the Build goroutine.
	Progress func(percent int)
}

// Build walks the root and reconstructs all capture records.
//
// Files that do not match the naming convention are skipped with a log
// line. Unreadable sibling text files degrade to empty content. The result
// is sorted by timestamp descending; records with equal timestamps keep
// their directory-walk encounter order.
//
// A missing root returns an error satisfying errors.Is(err, fs.ErrNotExist).
// An existing root with no matching images returns an empty, non-nil slice.
func (b *Builder) Build() ([]Record, error) {
	if _, err := os.Stat(b.Root); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store root %s: %w", b.Root, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to stat store root: %w", err)
	}

	// Collect image paths first so progress has a stable denominator.
	var paths []string
	err := filepath.WalkDir(b.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Warn("Scan error, skipping entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && store.IsImage(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk store root: %w", err)
	}

	batch := b.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}

	records := make([]Record, 0, len(paths))
	for start := 0; start < len(paths); start += batch {
		end := start + batch
		if end > len(paths) {
			end = len(paths)
		}
		for _, path := range paths[start:end] {
			rec, ok := loadRecord(path)
			if ok {
				records = append(records, rec)
			}
		}
		if b.Progress != nil {
			b.Progress(end * 100 / len(paths))
		}
	}

	// Newest first. Stable so same-second records keep encounter order.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	logging.Info("Catalog built", "root", b.Root, "records", len(records))
	return records, nil
}

// loadRecord reconstructs one record from an image path. Returns false when
// the path violates the naming grammar.
func loadRecord(imagePath string) (Record, bool) {
	ts, err := store.ParseTimestamp(imagePath)
	if err != nil {
		logging.Warn("Skipping unparsable artifact", "path", imagePath, "error", err)
		return Record{}, false
	}

	textPath, descPath, err := store.SiblingPaths(imagePath)
	if err != nil {
		logging.Warn("Skipping artifact without siblings", "path", imagePath, "error", err)
		return Record{}, false
	}

	return Record{
		ImagePath:   imagePath,
		Text:        readOptional(textPath),
		Description: readOptional(descPath),
		Timestamp:   ts,
	}, true
}

// readOptional reads a sibling text file. Missing or unreadable files are
// treated as empty content; one bad file never aborts a scan.
func readOptional(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("Failed to read sibling text", "path", path, "error", err)
		}
		return ""
	}
	return string(data)
}

// Prepend inserts a freshly captured record at position 0, preserving the
// descending order without a full resort.
func Prepend(records []Record, rec Record) []Record {
	return append([]Record{rec}, records...)
}
