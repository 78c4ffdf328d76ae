package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ScreenGrabber captures the primary display.
type ScreenGrabber struct{}

// Grab implements Grabber.
func (ScreenGrabber) Grab() (image.Image, error) {
	if screenshot.NumActiveDisplays() < 1 {
		return nil, fmt.Errorf("no active displays")
	}
	img, err := screenshot.CaptureDisplay(0)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display: %w", err)
	}
	return img, nil
}
