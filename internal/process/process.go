// Package process runs batch enrichment over already-captured artifacts:
// the post-stop caption drain and catalog-wide recaptioning.
//
// Both may rewrite the same text artifacts, so at most one processor runs
// at a time; a second caller blocks until the first finishes. Each
// processor exclusively owns its engine instances for its lifetime and
// releases them on return.
package process

import (
	"errors"
)

// ErrBatch indicates an explicitly requested engine failed to initialize.
// The batch touches no files when this is returned. Stricter than the live
// capture loop: the user opted into re-processing, so a silent partial run
// would be confusing.
var ErrBatch = errors.New("batch enrichment failed to initialize")

// gate serializes processors. Drain-after-stop and recaption must never
// overlap.
var gate chan struct{} = make(chan struct{}, 1)

func acquire() { gate <- struct{}{} }
func release() { <-gate }

// percent converts completed/total to the reported integer percentage.
// Truncation, not rounding: 100 must appear only on the final item, so
// partial completion never carries over the top.
func percent(completed, total int) int {
	return completed * 100 / total
}

// report invokes the progress callback if one is set.
func report(onProgress func(int), completed, total int) {
	if onProgress != nil && total > 0 {
		onProgress(percent(completed, total))
	}
}
