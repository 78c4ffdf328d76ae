// Command recall is the screen-activity timeline TUI.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/recall/internal/config"
	"github.com/abelbrown/recall/internal/logging"
	"github.com/abelbrown/recall/internal/ui"
)

func main() {
	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Failed to load config", "error", err)
	}

	// Ensure the store root exists so the first scan is "empty", not
	// "not found"
	if err := os.MkdirAll(cfg.Capture.Root, 0755); err != nil {
		logging.Fatal("Failed to create store root", "root", cfg.Capture.Root, "error", err)
	}

	p := tea.NewProgram(ui.New(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Error("UI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
