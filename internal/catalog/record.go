// Package catalog reconstructs the in-memory capture index from the
// artifact store. No database: every record is derived from file paths and
// sibling text files alone.
package catalog

import (
	"fmt"
	"time"
)

// Record is one screen observation at one instant.
type Record struct {
	// ImagePath uniquely identifies the capture. Immutable.
	ImagePath string

	// Text is the OCR transcript, newline-joined recognized blocks with
	// per-block confidence suffixes. Empty when OCR was disabled,
	// unavailable, or failed.
	Text string

	// Description is the single-line AI caption, or empty.
	Description string

	// Timestamp is the capture instant, recoverable from ImagePath.
	Timestamp time.Time
}

// Age returns how long ago the record was captured.
func (r Record) Age() time.Duration {
	return time.Since(r.Timestamp)
}

// RelativeTime renders a timestamp as a short human label.
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 48*time.Hour:
		return "yesterday"
	default:
		return t.Format("2006-01-02 15:04")
	}
}
