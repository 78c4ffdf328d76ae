package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// sidecar stands in for the OCR service during tests.
func sidecar(t *testing.T, supported map[string]bool, detections []Detection) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/languages":
			if supported[r.URL.Query().Get("probe")] {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		case "/ocr":
			json.NewEncoder(w).Encode(map[string]any{"detections": detections})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestNewHTTPOCRKeepsSupportedLanguages(t *testing.T) {
	srv := sidecar(t, map[string]bool{"en": true, "tr": true}, nil)
	defer srv.Close()

	ocr, err := NewHTTPOCR(srv.URL, []string{"en", "tr"})
	if err != nil {
		t.Fatalf("NewHTTPOCR: %v", err)
	}
	if got := ocr.Languages(); !reflect.DeepEqual(got, []string{"en", "tr"}) {
		t.Errorf("Languages = %v", got)
	}
}

func TestNewHTTPOCRDegradesToEnglish(t *testing.T) {
	srv := sidecar(t, map[string]bool{"en": true}, nil)
	defer srv.Close()

	ocr, err := NewHTTPOCR(srv.URL, []string{"xx", "yy"})
	if err != nil {
		t.Fatalf("NewHTTPOCR: %v", err)
	}
	if got := ocr.Languages(); !reflect.DeepEqual(got, []string{"en"}) {
		t.Errorf("Languages = %v, want [en]", got)
	}
}

func TestNewHTTPOCRUnavailable(t *testing.T) {
	srv := sidecar(t, nil, nil)
	defer srv.Close()

	_, err := NewHTTPOCR(srv.URL, []string{"en"})
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("err = %v, want ErrEngineUnavailable", err)
	}
}

func TestDetect(t *testing.T) {
	want := []Detection{
		{Text: "hello", X: 10, Y: 20, Confidence: 0.95},
		{Text: "world", X: 10, Y: 40, Confidence: 0.80},
	}
	srv := sidecar(t, map[string]bool{"en": true}, want)
	defer srv.Close()

	ocr, err := NewHTTPOCR(srv.URL, []string{"en"})
	if err != nil {
		t.Fatalf("NewHTTPOCR: %v", err)
	}

	img := filepath.Join(t.TempDir(), "frame.jpg")
	if err := os.WriteFile(img, []byte("jpeg bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ocr.Detect(context.Background(), img)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Detect = %+v, want %+v", got, want)
	}
}

func TestDetectMissingImage(t *testing.T) {
	srv := sidecar(t, map[string]bool{"en": true}, nil)
	defer srv.Close()

	ocr, err := NewHTTPOCR(srv.URL, []string{"en"})
	if err != nil {
		t.Fatalf("NewHTTPOCR: %v", err)
	}

	if _, err := ocr.Detect(context.Background(), filepath.Join(t.TempDir(), "gone.jpg")); err == nil {
		t.Error("expected error for missing image")
	}
}

func TestDetectServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/languages" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ocr, err := NewHTTPOCR(srv.URL, []string{"en"})
	if err != nil {
		t.Fatalf("NewHTTPOCR: %v", err)
	}

	img := filepath.Join(t.TempDir(), "frame.jpg")
	if err := os.WriteFile(img, []byte("jpeg bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ocr.Detect(context.Background(), img); err == nil {
		t.Error("expected error for server failure")
	}
}
