package ui

import (
	"strings"
	"testing"

	"github.com/abelbrown/recall/internal/config"
)

func TestJobProgressLabeledByCurrentJob(t *testing.T) {
	a := New(config.DefaultConfig())
	a.busy = "processing"

	model, _ := a.Update(JobProgress{Percent: 40})
	got := model.(App)

	if got.progress != 40 {
		t.Errorf("progress = %d, want 40", got.progress)
	}
	if !strings.Contains(got.status, "processing... 40%") {
		t.Errorf("status = %q, want processing label", got.status)
	}
	if strings.Contains(got.status, "Scanning") {
		t.Errorf("non-scan progress labeled as scan: %q", got.status)
	}
}

func TestJobProgressDuringScan(t *testing.T) {
	a := New(config.DefaultConfig())
	a.busy = "scan"

	model, _ := a.Update(JobProgress{Percent: 25})
	got := model.(App)

	if got.status != "Scanning... 25%" {
		t.Errorf("status = %q", got.status)
	}
}
