package export

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/recall/internal/catalog"
	"github.com/abelbrown/recall/internal/logging"
	"github.com/abelbrown/recall/internal/store"
)

// DefaultFPS is the timelapse frame rate: one capture per frame, slow
// enough to read.
const DefaultFPS = 2

// Video encodes records into a timelapse at outPath, one input image per
// frame in ascending capture order. Frames are streamed to the encoder one
// at a time, so memory stays flat regardless of catalog size. Undecodable
// images are skipped with a log line. Encoding is delegated to ffmpeg,
// which must be on PATH.
func Video(ctx context.Context, records []catalog.Record, outPath string, fps int) (int, error) {
	if fps <= 0 {
		fps = DefaultFPS
	}

	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return 0, fmt.Errorf("ffmpeg not found on PATH: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create video directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, ffmpeg,
		"-y",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-framerate", strconv.Itoa(fps),
		"-i", "-",
		// H.264 requires even dimensions
		"-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2",
		"-pix_fmt", "yuv420p",
		outPath,
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to open ffmpeg stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	// fed is written by the feeder goroutine only; g.Wait orders the read.
	var fed int
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stdin.Close()
		n, err := feedFrames(records, stdin)
		fed = n
		return err
	})

	feedErr := g.Wait()
	waitErr := cmd.Wait()
	if fed == 0 {
		return 0, fmt.Errorf("no decodable frames to encode")
	}
	if waitErr != nil {
		return 0, fmt.Errorf("ffmpeg failed: %w", waitErr)
	}
	if feedErr != nil {
		return 0, feedErr
	}

	logging.Info("Timelapse written", "path", outPath, "frames", fed, "fps", fps)
	return fed, nil
}

// VideoDaily writes one timelapse per day under root's date directories.
// Returns the paths written.
func VideoDaily(ctx context.Context, root string, records []catalog.Record, fps int) ([]string, error) {
	byDay := groupByDay(records)

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var written []string
	for _, day := range days {
		path := store.VideoPath(root, day)
		if _, err := Video(ctx, byDay[day], path, fps); err != nil {
			return written, fmt.Errorf("timelapse for %s: %w", day.Format("2006-01-02"), err)
		}
		written = append(written, path)
	}
	return written, nil
}

// feedFrames streams frame bytes to w in ascending capture order, holding
// one image in memory at a time. A file that cannot be read or fails to
// decode as JPEG is skipped. Returns the number of frames written.
func feedFrames(records []catalog.Record, w io.Writer) (int, error) {
	ordered := make([]catalog.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var fed int
	for _, rec := range ordered {
		data, err := os.ReadFile(rec.ImagePath)
		if err != nil {
			logging.Warn("Skipping unreadable frame", "path", rec.ImagePath, "error", err)
			continue
		}
		if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
			logging.Warn("Skipping undecodable frame", "path", rec.ImagePath, "error", err)
			continue
		}
		if _, err := w.Write(data); err != nil {
			return fed, fmt.Errorf("failed to feed frame: %w", err)
		}
		fed++
	}
	return fed, nil
}
