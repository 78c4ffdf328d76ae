// Package capture owns the timed capture cycle: grab the screen, persist
// the image, transcribe it inline when OCR is on, and queue it for
// captioning when AI is on.
//
// One Loop per recording session. The loop goroutine exclusively owns its
// OCR engine and the enrichment queue while running; callers must not touch
// the queue until Wait returns.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/recall/internal/enrich"
	"github.com/abelbrown/recall/internal/logging"
	"github.com/abelbrown/recall/internal/store"
)

// DefaultInterval is the capture cadence used when none is configured.
const DefaultInterval = 5 * time.Second

// State is the capture loop lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateInitializing
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Event is emitted once per successful capture, strictly after its
// artifacts are durably written, in capture order.
type Event struct {
	ImagePath string
	Text      string
	Timestamp time.Time
}

// QueueItem pairs a stored image with the caption artifact it still owes.
type QueueItem struct {
	ImagePath       string
	DescriptionPath string
}

// Grabber captures the full screen.
type Grabber interface {
	Grab() (image.Image, error)
}

// Options configures a capture loop.
type Options struct {
	// Root is the artifact store root.
	Root string

	// Interval between captures. Non-positive falls back to DefaultInterval.
	Interval time.Duration

	// EnableOCR runs text recognition inline on each cycle.
	EnableOCR bool

	// EnableAI defers captioning: captures are queued, not captioned
	// inline. Captioning inline would blow the capture interval.
	EnableAI bool

	// Grabber captures the screen. Defaults to the primary display.
	Grabber Grabber

	// NewOCR constructs the OCR engine during initialization. Only
	// consulted when EnableOCR is set.
	NewOCR func() (enrich.OCR, error)
}

// Loop is a single capture session. Not restartable: construct a new Loop
// for each run.
type Loop struct {
	opts  Options
	state atomic.Int32

	events chan Event
	ready  chan error

	// queue is owned by the loop goroutine until Wait returns
	queue []QueueItem

	ocr enrich.OCR

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// ParseInterval interprets a user-supplied interval in seconds. Unparsable
// or non-positive values clamp to the default.
func ParseInterval(s string) time.Duration {
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs <= 0 {
		return DefaultInterval
	}
	return time.Duration(secs * float64(time.Second))
}

// New creates a capture loop. The loop is Idle until Start.
func New(opts Options) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Grabber == nil {
		opts.Grabber = ScreenGrabber{}
	}
	return &Loop{
		opts:   opts,
		events: make(chan Event, 64),
		ready:  make(chan error, 1),
		done:   make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Events returns the per-capture event stream. Closed when the loop exits.
func (l *Loop) Events() <-chan Event {
	return l.events
}

// Ready yields the initialization outcome exactly once: nil when the loop
// reached Running, or the error that prevented any captures.
func (l *Loop) Ready() <-chan error {
	return l.ready
}

// Start launches the loop goroutine. Subsequent calls are no-ops.
func (l *Loop) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		ctx, l.cancel = context.WithCancel(ctx)
		go l.run(ctx)
	})
}

// Stop requests a cooperative stop. The loop finishes or abandons its
// current cycle; call Wait before reading final state or the queue.
func (l *Loop) Stop() {
	l.state.CompareAndSwap(int32(StateRunning), int32(StateStopping))
	if l.cancel != nil {
		l.cancel()
	}
}

// Wait blocks until the loop goroutine has exited.
func (l *Loop) Wait() {
	<-l.done
}

// Queue hands over the enrichment queue. Only valid after Wait returns;
// the caller takes ownership.
func (l *Loop) Queue() []QueueItem {
	return l.queue
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)
	defer close(l.events)
	defer l.state.Store(int32(StateIdle))

	l.state.Store(int32(StateInitializing))

	if l.opts.EnableOCR {
		if l.opts.NewOCR == nil {
			l.ready <- fmt.Errorf("%w: no OCR constructor configured", enrich.ErrEngineUnavailable)
			return
		}
		ocr, err := l.opts.NewOCR()
		if err != nil {
			logging.Error("OCR initialization failed, capture aborted", "error", err)
			l.ready <- err
			return
		}
		l.ocr = ocr
	}

	l.state.Store(int32(StateRunning))
	l.ready <- nil
	logging.Info("Capture loop running",
		"root", l.opts.Root,
		"interval", l.opts.Interval,
		"ocr", l.opts.EnableOCR,
		"ai", l.opts.EnableAI)

	// One capture per interval; the first token is available immediately.
	limiter := rate.NewLimiter(rate.Every(l.opts.Interval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		l.cycle(ctx)
	}
}

// cycle runs one capture. Any failure aborts this cycle only; the loop
// carries on at the next interval.
func (l *Loop) cycle(ctx context.Context) {
	now := time.Now()
	imgPath := store.ImagePath(l.opts.Root, now)

	img, err := l.opts.Grabber.Grab()
	if err != nil {
		logging.Error("Screen capture failed", "error", err)
		return
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		logging.Error("Failed to encode screenshot", "error", err)
		return
	}
	if err := store.WriteImage(imgPath, buf.Bytes()); err != nil {
		logging.Error("Failed to persist screenshot", "path", imgPath, "error", err)
		return
	}

	text := ""
	if l.opts.EnableOCR && l.ocr != nil {
		dets, err := l.ocr.Detect(ctx, imgPath)
		if err != nil {
			logging.Warn("OCR failed for capture", "path", imgPath, "error", err)
		} else {
			text = enrich.Transcript(dets)
			if err := store.WriteText(store.TextPath(l.opts.Root, now), text); err != nil {
				logging.Warn("Failed to persist transcript", "error", err)
			}
		}
	}

	if l.opts.EnableAI {
		l.queue = append(l.queue, QueueItem{
			ImagePath:       imgPath,
			DescriptionPath: store.DescriptionPath(l.opts.Root, now),
		})
	}

	select {
	case l.events <- Event{ImagePath: imgPath, Text: text, Timestamp: now}:
	case <-ctx.Done():
	}
}
