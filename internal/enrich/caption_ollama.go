package enrich

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"github.com/abelbrown/recall/internal/logging"
)

// FallbackCaption is returned whenever caption generation fails. Per-image
// failures never propagate as errors.
const FallbackCaption = "Image description could not be generated."

// captionMaxEdge bounds the longest edge of the image sent for inference.
const captionMaxEdge = 800

// captionPrompt asks the vision model for a single short description line.
const captionPrompt = "Describe this screenshot in one short sentence."

// OllamaCaptioner generates image descriptions with a local Ollama vision
// model.
type OllamaCaptioner struct {
	endpoint string
	model    string
	client   *http.Client
}

// NewOllamaCaptioner creates a captioner. If model is empty, the first
// available model is auto-detected on use.
func NewOllamaCaptioner(endpoint, model string) *OllamaCaptioner {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	return &OllamaCaptioner{
		endpoint: endpoint,
		model:    model, // Empty is OK - will auto-detect
		client: &http.Client{
			Timeout: 120 * time.Second, // Longer timeout for local inference
		},
	}
}

// getModel returns the configured model or auto-detects one
func (c *OllamaCaptioner) getModel() string {
	if c.model != "" {
		return c.model
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"/api/tags", nil)
	if err != nil {
		return ""
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ""
	}

	if len(result.Models) > 0 {
		model := result.Models[0].Name
		logging.Info("Captioner auto-detected model", "model", model)
		return model
	}

	return ""
}

// Available reports whether Ollama is reachable with at least one model.
func (c *OllamaCaptioner) Available() bool {
	return c.getModel() != ""
}

// Describe generates a one-line caption for the image. On any internal
// failure it returns FallbackCaption with a nil error.
func (c *OllamaCaptioner) Describe(ctx context.Context, imagePath string) (string, error) {
	model := c.getModel()
	if model == "" {
		logging.Debug("Captioner not available - no models found", "endpoint", c.endpoint)
		return FallbackCaption, nil
	}

	encoded, err := encodeForInference(imagePath)
	if err != nil {
		logging.Warn("Failed to prepare image for captioning", "path", imagePath, "error", err)
		return FallbackCaption, nil
	}

	body := map[string]interface{}{
		"model":  model,
		"prompt": captionPrompt,
		"images": []string{encoded},
		"stream": false,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return FallbackCaption, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return FallbackCaption, nil
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		logging.Warn("Caption request failed", "path", imagePath, "error", err)
		return FallbackCaption, nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return FallbackCaption, nil
	}

	if resp.StatusCode != http.StatusOK {
		logging.Error("Captioner API error", "status", resp.StatusCode, "body", string(respBody))
		return FallbackCaption, nil
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return FallbackCaption, nil
	}

	caption := firstLine(result.Response)
	if caption == "" {
		return FallbackCaption, nil
	}
	return caption, nil
}

// firstLine collapses a model response to a single trimmed line.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// encodeForInference loads an image, downscales its longest edge to the
// inference bound, and returns base64-encoded JPEG bytes.
func encodeForInference(imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	src = downscale(src, captionMaxEdge)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// downscale resizes so the longest edge is at most maxEdge, preserving
// aspect ratio. Images already within the bound pass through untouched.
func downscale(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	var nw, nh int
	if w >= h {
		nw = maxEdge
		nh = h * maxEdge / w
	} else {
		nh = maxEdge
		nw = w * maxEdge / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
