// Package export serializes the catalog: merged text digests and timelapse
// video. Pure consumers of the catalog; nothing here mutates records.
package export

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/abelbrown/recall/internal/catalog"
	"github.com/abelbrown/recall/internal/logging"
	"github.com/abelbrown/recall/internal/store"
)

// rule separates entries in the flat text export.
var rule = strings.Repeat("-", 80)

// CleanTranscript strips the per-block confidence suffixes from an OCR
// transcript, leaving only the recognized text lines.
func CleanTranscript(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if i := strings.Index(line, "(Confidence:"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Text writes the flat merged export: one section per record, headed by a
// human-readable timestamp, with cleaned OCR text and caption, separated
// by an 80-character rule.
func Text(records []catalog.Record, w io.Writer) error {
	for _, rec := range records {
		if _, err := fmt.Fprintf(w, "\n=== %s ===\n\n", catalog.RelativeTime(rec.Timestamp)); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}

		if rec.Text != "" {
			if _, err := fmt.Fprintf(w, "OCR Text:\n%s\n\n", CleanTranscript(rec.Text)); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
		}
		if rec.Description != "" {
			if _, err := fmt.Fprintf(w, "AI Description:\n%s\n\n", strings.TrimSpace(rec.Description)); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
		}
		if _, err := fmt.Fprintln(w, rule); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
	}
	return nil
}

// TextFile writes the flat merged export to a file.
func TextFile(records []catalog.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	return Text(records, f)
}

// MergedDaily writes one merged_{date}.txt per day into that day's texts
// directory under root. Returns the paths written.
func MergedDaily(root string, records []catalog.Record) ([]string, error) {
	byDay := groupByDay(records)

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	var written []string
	for _, day := range days {
		entries := byDay[day]
		// Newest first within the day, matching the catalog's order
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		})

		path := store.MergedPath(root, day)
		if err := store.WriteText(path, mergedContent(day, entries)); err != nil {
			return written, err
		}
		logging.Info("Daily texts merged", "path", path, "entries", len(entries))
		written = append(written, path)
	}
	return written, nil
}

func mergedContent(day time.Time, entries []catalog.Record) string {
	var b []string
	b = append(b, fmt.Sprintf("=== Merged Texts for %s ===\n", day.Format("2006-01-02")))

	for _, rec := range entries {
		b = append(b, fmt.Sprintf("\n[%s]\n", rec.Timestamp.Format("15:04:05")))
		if rec.Text != "" {
			b = append(b, "OCR Results:", strings.TrimSpace(rec.Text), "")
		}
		if rec.Description != "" {
			b = append(b, "AI Description:", strings.TrimSpace(rec.Description), "")
		}
	}
	return strings.Join(b, "\n")
}

// groupByDay buckets records by their capture date (local midnight).
func groupByDay(records []catalog.Record) map[time.Time][]catalog.Record {
	byDay := make(map[time.Time][]catalog.Record)
	for _, rec := range records {
		y, m, d := rec.Timestamp.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, rec.Timestamp.Location())
		byDay[day] = append(byDay[day], rec)
	}
	return byDay
}
