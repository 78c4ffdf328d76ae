// Package store defines the on-disk layout for capture artifacts.
//
// Every artifact path is a pure function of the store root and the capture
// instant, and the capture instant is recoverable from the image path alone.
// This is the invariant the rest of the system leans on: there is no index
// file, the directory tree IS the database. All path knowledge lives here;
// no other package parses artifact paths directly.
//
// Layout:
//
//	{root}/{YYYY-MM-DD}/images/screenshot_{HHMMSS}.jpg
//	{root}/{YYYY-MM-DD}/texts/text_{HHMMSS}.txt
//	{root}/{YYYY-MM-DD}/texts/description_{HHMMSS}.txt
//	{root}/{YYYY-MM-DD}/texts/merged_{YYYY-MM-DD}.txt
//	{root}/{YYYY-MM-DD}/videos/timelapse_{YYYY-MM-DD}.mp4
//
// Two captures in the same second collide and the later one overwrites the
// earlier. Accepted limitation given the minimum practical interval.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrParse indicates a path that does not follow the artifact naming
// convention. Callers skip such files; it is never fatal to a scan.
var ErrParse = errors.New("path does not match artifact naming convention")

const (
	dateLayout = "2006-01-02"
	timeLayout = "150405"

	imagesDir = "images"
	textsDir  = "texts"
	videosDir = "videos"
)

// ImagePath returns the screenshot path for a capture at t.
func ImagePath(root string, t time.Time) string {
	return filepath.Join(root, t.Format(dateLayout), imagesDir,
		fmt.Sprintf("screenshot_%s.jpg", t.Format(timeLayout)))
}

// TextPath returns the OCR transcript path for a capture at t.
func TextPath(root string, t time.Time) string {
	return filepath.Join(root, t.Format(dateLayout), textsDir,
		fmt.Sprintf("text_%s.txt", t.Format(timeLayout)))
}

// DescriptionPath returns the caption path for a capture at t.
func DescriptionPath(root string, t time.Time) string {
	return filepath.Join(root, t.Format(dateLayout), textsDir,
		fmt.Sprintf("description_%s.txt", t.Format(timeLayout)))
}

// MergedPath returns the daily merged-text export path for day.
func MergedPath(root string, day time.Time) string {
	d := day.Format(dateLayout)
	return filepath.Join(root, d, textsDir, fmt.Sprintf("merged_%s.txt", d))
}

// VideoPath returns the daily timelapse export path for day.
func VideoPath(root string, day time.Time) string {
	d := day.Format(dateLayout)
	return filepath.Join(root, d, videosDir, fmt.Sprintf("timelapse_%s.mp4", d))
}

// ParseTimestamp recovers the capture instant from an artifact image path.
//
// The date comes from the grandparent directory name and the time of day
// from the filename suffix. Returns ErrParse (wrapped) when either segment
// violates the grammar.
func ParseTimestamp(imagePath string) (time.Time, error) {
	name := filepath.Base(imagePath)

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	idx := strings.LastIndex(stem, "_")
	if idx < 0 {
		return time.Time{}, fmt.Errorf("%w: no time suffix in %q", ErrParse, name)
	}
	timePart := stem[idx+1:]

	// images dir, then the date dir above it
	datePart := filepath.Base(filepath.Dir(filepath.Dir(imagePath)))

	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, datePart+" "+timePart, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q/%q", ErrParse, datePart, name)
	}
	return t, nil
}

// SiblingPaths derives the OCR transcript and caption paths that belong to
// an image path, by substituting the naming convention. The siblings may or
// may not exist on disk.
func SiblingPaths(imagePath string) (textPath, descPath string, err error) {
	name := filepath.Base(imagePath)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	idx := strings.LastIndex(stem, "_")
	if idx < 0 {
		return "", "", fmt.Errorf("%w: no time suffix in %q", ErrParse, name)
	}
	timePart := stem[idx+1:]

	dateDir := filepath.Dir(filepath.Dir(imagePath))
	textPath = filepath.Join(dateDir, textsDir, fmt.Sprintf("text_%s.txt", timePart))
	descPath = filepath.Join(dateDir, textsDir, fmt.Sprintf("description_%s.txt", timePart))
	return textPath, descPath, nil
}

// IsImage reports whether a filename selects as a capture artifact.
func IsImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// WriteText writes UTF-8 text content, creating parent directories lazily.
func WriteText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteImage writes encoded image bytes, creating parent directories lazily.
func WriteImage(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
