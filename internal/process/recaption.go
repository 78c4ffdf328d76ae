package process

import (
	"context"
	"fmt"
	"os"

	"github.com/abelbrown/recall/internal/catalog"
	"github.com/abelbrown/recall/internal/enrich"
	"github.com/abelbrown/recall/internal/logging"
	"github.com/abelbrown/recall/internal/store"
)

// RecaptionOptions selects which engines to re-run over the catalog.
type RecaptionOptions struct {
	OCR bool
	AI  bool
}

// Engines supplies engine constructors. Engines are built only when their
// flag is set, owned by the batch, and released when it returns.
type Engines struct {
	NewOCR       func() (enrich.OCR, error)
	NewCaptioner func() (enrich.Captioner, error)
}

// Recaption re-runs enrichment over existing records, overwriting the
// sibling text artifacts in place.
//
// If a requested engine fails to initialize the whole batch fails fast
// with ErrBatch and no file is touched. Per-item engine failures are
// logged and leave that item's artifact unchanged. The in-memory catalog
// is never mutated; callers re-scan the store to observe updates.
func Recaption(ctx context.Context, records []catalog.Record, opts RecaptionOptions, engines Engines, onProgress func(int)) error {
	acquire()
	defer release()

	var ocr enrich.OCR
	var captioner enrich.Captioner

	if opts.OCR {
		if engines.NewOCR == nil {
			return fmt.Errorf("%w: no OCR engine configured", ErrBatch)
		}
		eng, err := engines.NewOCR()
		if err != nil {
			return fmt.Errorf("%w: OCR: %v", ErrBatch, err)
		}
		ocr = eng
	}
	if opts.AI {
		if engines.NewCaptioner == nil {
			return fmt.Errorf("%w: no captioner configured", ErrBatch)
		}
		eng, err := engines.NewCaptioner()
		if err != nil {
			return fmt.Errorf("%w: captioner: %v", ErrBatch, err)
		}
		captioner = eng
	}

	total := len(records)
	logging.Info("Recaption starting", "records", total, "ocr", opts.OCR, "ai", opts.AI)

	for i, rec := range records {
		recaptionOne(ctx, rec, ocr, captioner)
		report(onProgress, i+1, total)
	}

	logging.Info("Recaption complete", "records", total)
	return nil
}

// recaptionOne regenerates the enabled artifacts for a single record.
// Failures leave the existing artifact in place.
func recaptionOne(ctx context.Context, rec catalog.Record, ocr enrich.OCR, captioner enrich.Captioner) {
	if _, err := os.Stat(rec.ImagePath); err != nil {
		logging.Warn("Image missing, skipping recaption", "path", rec.ImagePath)
		return
	}

	textPath, descPath, err := store.SiblingPaths(rec.ImagePath)
	if err != nil {
		logging.Warn("Cannot derive artifact paths", "path", rec.ImagePath, "error", err)
		return
	}

	if ocr != nil {
		dets, err := ocr.Detect(ctx, rec.ImagePath)
		if err != nil {
			logging.Warn("OCR failed during recaption", "path", rec.ImagePath, "error", err)
		} else if err := store.WriteText(textPath, enrich.Transcript(dets)); err != nil {
			logging.Warn("Failed to write transcript", "path", textPath, "error", err)
		}
	}

	if captioner != nil {
		desc, err := captioner.Describe(ctx, rec.ImagePath)
		if err != nil {
			logging.Warn("Captioning failed during recaption", "path", rec.ImagePath, "error", err)
		} else if err := store.WriteText(descPath, desc); err != nil {
			logging.Warn("Failed to write caption", "path", descPath, "error", err)
		}
	}
}
