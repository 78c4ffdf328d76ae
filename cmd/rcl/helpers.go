package main

import (
	"fmt"
	"log"
	"os"

	"github.com/abelbrown/recall/internal/catalog"
	"github.com/abelbrown/recall/internal/config"
)

// loadConfig loads the config with environment overrides, or fatals.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.AutoPopulateFromEnv()
	return cfg
}

// storeRoot resolves the artifact store root: flag value wins, then the
// config (already env-overridden).
func storeRoot(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Capture.Root
}

// buildCatalog scans the store or fatals. Progress goes to stderr.
func buildCatalog(root string) []catalog.Record {
	b := &catalog.Builder{
		Root: root,
		Progress: func(p int) {
			fmt.Fprintf(os.Stderr, "\rScanning... %d%%", p)
		},
	}
	records, err := b.Build()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.Fatalf("failed to scan store: %v", err)
	}
	return records
}

// progressLine prints batch progress to stderr on one line.
func progressLine(label string) func(int) {
	return func(p int) {
		fmt.Fprintf(os.Stderr, "\r%s... %d%%", label, p)
		if p >= 100 {
			fmt.Fprintln(os.Stderr)
		}
	}
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
