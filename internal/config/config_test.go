package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Capture.IntervalSeconds != 5.0 {
		t.Errorf("IntervalSeconds = %v", cfg.Capture.IntervalSeconds)
	}
	if cfg.Capture.EnableOCR || cfg.Capture.EnableAI {
		t.Error("enrichment should default off")
	}
	if cfg.Engines.OCREndpoint != "http://localhost:8884" {
		t.Errorf("OCREndpoint = %q", cfg.Engines.OCREndpoint)
	}
	if cfg.Engines.OllamaEndpoint != "http://localhost:11434" {
		t.Errorf("OllamaEndpoint = %q", cfg.Engines.OllamaEndpoint)
	}
	if len(cfg.Engines.OCRLanguages) == 0 || cfg.Engines.OCRLanguages[0] != "en" {
		t.Errorf("OCRLanguages = %v", cfg.Engines.OCRLanguages)
	}
}

func TestAutoPopulateFromEnv(t *testing.T) {
	t.Setenv("RECALL_ROOT", "/data/captures")
	t.Setenv("RECALL_OCR_ENDPOINT", "http://ocr:9000")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	t.Setenv("RECALL_CAPTION_MODEL", "llava:13b")

	cfg := DefaultConfig()
	cfg.AutoPopulateFromEnv()

	if cfg.Capture.Root != "/data/captures" {
		t.Errorf("Root = %q", cfg.Capture.Root)
	}
	if cfg.Engines.OCREndpoint != "http://ocr:9000" {
		t.Errorf("OCREndpoint = %q", cfg.Engines.OCREndpoint)
	}
	if cfg.Engines.OllamaEndpoint != "http://gpu-box:11434" {
		t.Errorf("OllamaEndpoint = %q", cfg.Engines.OllamaEndpoint)
	}
	if cfg.Engines.CaptionModel != "llava:13b" {
		t.Errorf("CaptionModel = %q", cfg.Engines.CaptionModel)
	}
}

func TestAutoPopulateIgnoresEmptyEnv(t *testing.T) {
	t.Setenv("RECALL_ROOT", "")
	cfg := DefaultConfig()
	before := cfg.Capture.Root
	cfg.AutoPopulateFromEnv()
	if cfg.Capture.Root != before {
		t.Errorf("Root changed to %q on empty env", cfg.Capture.Root)
	}
}

func TestConfigPaths(t *testing.T) {
	if filepath.Base(ConfigPath()) != "config.json" {
		t.Errorf("ConfigPath = %q", ConfigPath())
	}
	if filepath.Base(IndexPath()) != "index.db" {
		t.Errorf("IndexPath = %q", IndexPath())
	}
	if filepath.Dir(ConfigPath()) != filepath.Dir(IndexPath()) {
		t.Error("config and index should share a directory")
	}
}
