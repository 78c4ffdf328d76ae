package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	// Capture settings
	Capture CaptureConfig `json:"capture"`

	// Enrichment engine settings
	Engines EngineConfig `json:"engines"`

	// UI Preferences
	UI UIConfig `json:"ui"`
}

// CaptureConfig holds capture loop settings
type CaptureConfig struct {
	// Root is the artifact store root directory
	Root string `json:"root"`

	// IntervalSeconds between captures. Non-positive values fall back
	// to the default at loop construction time.
	IntervalSeconds float64 `json:"interval_seconds"`

	// EnableOCR runs text recognition inline on each capture
	EnableOCR bool `json:"enable_ocr"`

	// EnableAI queues captures for caption generation after stop
	EnableAI bool `json:"enable_ai"`
}

// EngineConfig holds enrichment engine endpoints
type EngineConfig struct {
	// OCREndpoint is the local OCR sidecar base URL
	OCREndpoint string `json:"ocr_endpoint"`

	// OCRLanguages are the language packs requested at OCR init.
	// Packs that fail to load are dropped; English is the floor.
	OCRLanguages []string `json:"ocr_languages"`

	// OllamaEndpoint is the local Ollama base URL for captioning
	OllamaEndpoint string `json:"ollama_endpoint"`

	// CaptionModel is the vision model used for descriptions
	CaptionModel string `json:"caption_model"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme       string `json:"theme"`
	ShowPreview bool   `json:"show_preview"`
	ItemLimit   int    `json:"item_limit"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Capture: CaptureConfig{
			Root:            filepath.Join(home, "Recall"),
			IntervalSeconds: 5.0,
			EnableOCR:       false,
			EnableAI:        false,
		},
		Engines: EngineConfig{
			OCREndpoint:    "http://localhost:8884",
			OCRLanguages:   []string{"en", "tr"},
			OllamaEndpoint: "http://localhost:11434",
			CaptionModel:   "llava",
		},
		UI: UIConfig{
			Theme:       "dark",
			ShowPreview: true,
			ItemLimit:   500,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".recall", "config.json")
}

// IndexPath returns the path to the derived search index database
func IndexPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".recall", "index.db")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// AutoPopulateFromEnv fills in settings from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if root := os.Getenv("RECALL_ROOT"); root != "" {
		c.Capture.Root = root
	}
	if ep := os.Getenv("RECALL_OCR_ENDPOINT"); ep != "" {
		c.Engines.OCREndpoint = ep
	}
	if ep := os.Getenv("OLLAMA_HOST"); ep != "" {
		c.Engines.OllamaEndpoint = ep
	}
	if model := os.Getenv("RECALL_CAPTION_MODEL"); model != "" {
		c.Engines.CaptionModel = model
	}
}
