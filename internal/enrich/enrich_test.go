package enrich

import (
	"strings"
	"testing"
)

func TestTranscriptOrdersByVerticalPosition(t *testing.T) {
	dets := []Detection{
		{Text: "bottom", Y: 900, Confidence: 0.9},
		{Text: "top", Y: 10, Confidence: 0.9},
		{Text: "middle", Y: 400, Confidence: 0.9},
	}

	got := Transcript(dets)
	want := "top (Confidence: 0.90)\nmiddle (Confidence: 0.90)\nbottom (Confidence: 0.90)"
	if got != want {
		t.Errorf("Transcript = %q, want %q", got, want)
	}
}

func TestTranscriptDropsLowConfidence(t *testing.T) {
	dets := []Detection{
		{Text: "keep", Y: 0, Confidence: 0.21},
		{Text: "drop", Y: 1, Confidence: 0.19},
		{Text: "boundary", Y: 2, Confidence: 0.20},
	}

	got := Transcript(dets)
	if strings.Contains(got, "drop") || strings.Contains(got, "boundary") {
		t.Errorf("low-confidence detections survived: %q", got)
	}
	if !strings.Contains(got, "keep") {
		t.Errorf("expected keep in transcript, got %q", got)
	}
}

func TestTranscriptConfidenceFormat(t *testing.T) {
	got := Transcript([]Detection{{Text: "hello", Y: 0, Confidence: 0.876}})
	if got != "hello (Confidence: 0.88)" {
		t.Errorf("Transcript = %q", got)
	}
}

func TestTranscriptEmpty(t *testing.T) {
	if got := Transcript(nil); got != "" {
		t.Errorf("Transcript(nil) = %q, want empty", got)
	}
	if got := Transcript([]Detection{{Text: "x", Confidence: 0.1}}); got != "" {
		t.Errorf("all-filtered transcript = %q, want empty", got)
	}
}

func TestTranscriptStableForEqualY(t *testing.T) {
	dets := []Detection{
		{Text: "left", Y: 50, Confidence: 0.9},
		{Text: "right", Y: 50, Confidence: 0.9},
	}
	got := Transcript(dets)
	if !strings.HasPrefix(got, "left") {
		t.Errorf("equal-Y order not stable: %q", got)
	}
}
