package process

import (
	"context"
	"os"

	"github.com/abelbrown/recall/internal/capture"
	"github.com/abelbrown/recall/internal/enrich"
	"github.com/abelbrown/recall/internal/logging"
	"github.com/abelbrown/recall/internal/store"
)

// Drain consumes the enrichment queue accumulated during a capture
// session, generating the deferred captions.
//
// Per-item failures are logged and skipped, never abort the drain. The
// queue is cleared on every outcome, including partial failure. Returns
// the number of captions written.
func Drain(ctx context.Context, queue *[]capture.QueueItem, captioner enrich.Captioner, onProgress func(int)) int {
	acquire()
	defer release()

	items := *queue
	defer func() { *queue = nil }()

	total := len(items)
	if total == 0 {
		return 0
	}

	logging.Info("Draining caption queue", "items", total)

	var written int
	for i, item := range items {
		if processQueued(ctx, item, captioner) {
			written++
		}
		report(onProgress, i+1, total)
	}

	logging.Info("Caption queue drained", "written", written, "skipped", total-written)
	return written
}

func processQueued(ctx context.Context, item capture.QueueItem, captioner enrich.Captioner) bool {
	if _, err := os.Stat(item.ImagePath); err != nil {
		logging.Warn("Queued image no longer exists", "path", item.ImagePath)
		return false
	}

	desc, err := captioner.Describe(ctx, item.ImagePath)
	if err != nil {
		logging.Warn("Caption generation failed", "path", item.ImagePath, "error", err)
		return false
	}

	if err := store.WriteText(item.DescriptionPath, desc); err != nil {
		logging.Warn("Failed to write caption", "path", item.DescriptionPath, "error", err)
		return false
	}
	return true
}
