// Command rcl is the unified CLI for Recall capture and maintenance.
//
// Usage:
//
//	rcl                     Show help
//	rcl capture             Run a headless capture session
//	rcl scan                Scan the store and print catalog statistics
//	rcl search <query>      Search capture transcripts and captions
//	rcl recaption           Re-run enrichment over the whole store
//	rcl export-text         Write the flat merged text export
//	rcl merge-daily         Write per-day merged text files
//	rcl export-video        Write per-day timelapse videos (needs ffmpeg)
//	rcl index               Rebuild the full-text search index
package main

import (
	"fmt"
	"os"
)

const usage = `rcl — Recall capture & maintenance CLI

Usage:
  rcl <command> [flags]

Commands:
  capture      Headless capture session (Ctrl-C to stop; drains captions)
  scan         Scan the store and print catalog statistics
  search       Search transcripts and captions (in-memory or via index)
  recaption    Re-run OCR and/or captioning over existing captures
  export-text  Flat merged text export to a file or stdout
  merge-daily  Per-day merged_{date}.txt files inside the store
  export-video Timelapse videos, per-day or one file with -o (requires ffmpeg)
  index        Rebuild the full-text search index

Environment:
  RECALL_ROOT           Artifact store root (overrides config)
  RECALL_OCR_ENDPOINT   OCR sidecar base URL
  OLLAMA_HOST           Ollama base URL for captioning
  RECALL_CAPTION_MODEL  Vision model for captions

Run 'rcl <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "capture":
		runCapture()
	case "scan":
		runScan()
	case "search":
		runSearch()
	case "recaption":
		runRecaption()
	case "export-text":
		runExportText()
	case "merge-daily":
		runMergeDaily()
	case "export-video":
		runExportVideo()
	case "index":
		runIndex()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "rcl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
