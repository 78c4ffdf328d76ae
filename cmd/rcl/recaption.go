package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/abelbrown/recall/internal/enrich"
	"github.com/abelbrown/recall/internal/logging"
	"github.com/abelbrown/recall/internal/process"
)

func runRecaption() {
	fs := flag.NewFlagSet("recaption", flag.ExitOnError)
	root := fs.String("root", "", "Artifact store root (default: config)")
	ocr := fs.Bool("ocr", false, "Regenerate OCR transcripts")
	ai := fs.Bool("ai", false, "Regenerate AI captions")
	fs.Parse(os.Args[1:])

	if !*ocr && !*ai {
		fmt.Fprintln(os.Stderr, "usage: rcl recaption [-ocr] [-ai]: enable at least one engine")
		os.Exit(1)
	}

	if err := logging.Init(); err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	defer logging.Close()

	cfg := loadConfig()
	records := buildCatalog(storeRoot(*root, cfg))
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to recaption")
		return
	}

	opts := process.RecaptionOptions{OCR: *ocr, AI: *ai}
	engines := process.Engines{
		NewOCR: func() (enrich.OCR, error) {
			return enrich.NewHTTPOCR(cfg.Engines.OCREndpoint, cfg.Engines.OCRLanguages)
		},
		NewCaptioner: func() (enrich.Captioner, error) {
			return enrich.NewOllamaCaptioner(cfg.Engines.OllamaEndpoint, cfg.Engines.CaptionModel), nil
		},
	}

	err := process.Recaption(context.Background(), records, opts, engines, progressLine("Recaptioning"))
	if err != nil {
		log.Fatalf("recaption failed: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Recaptioned %d captures; re-scan to see updates\n", len(records))
}
