package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/abelbrown/recall/internal/logging"
)

// HTTPOCR talks to a local OCR sidecar over HTTP.
//
// Contract: GET /languages?probe={lang} answers 200 when the pack is
// loadable; POST /ocr with a JPEG body answers JSON detections.
type HTTPOCR struct {
	endpoint  string
	languages []string
	client    *http.Client
}

// NewHTTPOCR constructs an OCR engine, probing the requested language packs
// one by one and keeping the ones the sidecar accepts. A pack that fails to
// load is dropped, not fatal. If no requested pack loads, the engine
// degrades to English only; if even that fails, ErrEngineUnavailable.
func NewHTTPOCR(endpoint string, languages []string) (*HTTPOCR, error) {
	if endpoint == "" {
		endpoint = "http://localhost:8884"
	}

	o := &HTTPOCR{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 120 * time.Second, // Local inference can be slow
		},
	}

	var loaded []string
	for _, lang := range languages {
		if o.probeLanguage(lang) {
			loaded = append(loaded, lang)
		} else {
			logging.Warn("OCR language pack not supported", "language", lang)
		}
	}

	if len(loaded) == 0 {
		// Minimal configuration: English only
		if !o.probeLanguage("en") {
			return nil, fmt.Errorf("%w: OCR sidecar at %s loaded no language packs", ErrEngineUnavailable, endpoint)
		}
		loaded = []string{"en"}
		logging.Warn("OCR degraded to English-only configuration")
	}

	o.languages = loaded
	logging.Info("OCR engine initialized", "endpoint", endpoint, "languages", loaded)
	return o, nil
}

// probeLanguage asks the sidecar whether a language pack can be loaded.
func (o *HTTPOCR) probeLanguage(lang string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	probe := fmt.Sprintf("%s/languages?probe=%s", o.endpoint, url.QueryEscape(lang))
	req, err := http.NewRequestWithContext(ctx, "GET", probe, nil)
	if err != nil {
		return false
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// Languages reports the loaded language packs.
func (o *HTTPOCR) Languages() []string {
	return o.languages
}

// Detect uploads the image and returns the sidecar's detections, unordered.
func (o *HTTPOCR) Detect(ctx context.Context, imagePath string) ([]Detection, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	ocrURL := fmt.Sprintf("%s/ocr?languages=%s", o.endpoint,
		url.QueryEscape(strings.Join(o.languages, ",")))
	req, err := http.NewRequestWithContext(ctx, "POST", ocrURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OCR response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logging.Error("OCR sidecar error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("OCR error (status %d)", resp.StatusCode)
	}

	var result struct {
		Detections []Detection `json:"detections"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse OCR response: %w", err)
	}

	return result.Detections, nil
}
