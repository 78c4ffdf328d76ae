package ui

import (
	"github.com/abelbrown/recall/internal/capture"
	"github.com/abelbrown/recall/internal/catalog"
)

// CatalogLoaded is delivered when a store scan finishes.
type CatalogLoaded struct {
	Records []catalog.Record
	Err     error
}

// JobProgress reports background job percentage. The job it belongs to is
// whatever is busy when the message is delivered, not when the listener
// was armed.
type JobProgress struct {
	Percent int
}

// CaptureReady is delivered when the capture loop finishes initializing.
// Err is non-nil when the loop could not start (engine unavailable).
type CaptureReady struct {
	Err error
}

// CaptureEvent wraps one per-capture event from the live loop.
type CaptureEvent struct {
	Event capture.Event
	OK    bool // false when the event channel closed
}

// CaptureStopped is delivered after the loop has fully exited and, when
// captions were queued, the drain has completed.
type CaptureStopped struct {
	CaptionsWritten int
}

// RecaptionDone is delivered when a recaption batch finishes.
type RecaptionDone struct {
	Err error
}

// ExportDone is delivered when an export command finishes.
type ExportDone struct {
	What  string
	Paths []string
	Err   error
}
