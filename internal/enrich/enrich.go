// Package enrich defines the enrichment engine contracts and their local
// adapters: OCR transcription and AI captioning of captured screenshots.
//
// Engines are constructed per run and owned exclusively by the capture loop
// or a processor for their lifetime. No global caches.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEngineUnavailable indicates an engine that failed to initialize even
// in its minimal configuration. Fatal to the operation that required it.
var ErrEngineUnavailable = errors.New("enrichment engine unavailable")

// minConfidence is the floor below which OCR detections are discarded.
const minConfidence = 0.20

// Detection is one recognized text block with its screen position.
type Detection struct {
	Text       string  `json:"text"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Confidence float64 `json:"confidence"`
}

// OCR recognizes text blocks in an image. Implementations must be safely
// callable from a worker goroutine.
type OCR interface {
	// Detect returns recognized blocks in no particular order.
	Detect(ctx context.Context, imagePath string) ([]Detection, error)

	// Languages reports the language packs the engine loaded.
	Languages() []string
}

// Captioner produces a single-line natural-language description of an
// image. Implementations return a fallback string rather than an error for
// per-image failures.
type Captioner interface {
	Describe(ctx context.Context, imagePath string) (string, error)
}

// Transcript formats detections into the stored transcript form: blocks
// below the confidence floor dropped, remainder ordered top-to-bottom,
// one line per block with its confidence suffix.
func Transcript(dets []Detection) string {
	kept := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if d.Confidence > minConfidence {
			kept = append(kept, d)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Y < kept[j].Y
	})

	lines := make([]string, len(kept))
	for i, d := range kept {
		lines[i] = fmt.Sprintf("%s (Confidence: %.2f)", d.Text, d.Confidence)
	}
	return strings.Join(lines, "\n")
}
