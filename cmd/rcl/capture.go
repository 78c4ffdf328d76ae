package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abelbrown/recall/internal/capture"
	"github.com/abelbrown/recall/internal/enrich"
	"github.com/abelbrown/recall/internal/logging"
	"github.com/abelbrown/recall/internal/process"
)

func runCapture() {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	root := fs.String("root", "", "Artifact store root (default: config)")
	interval := fs.String("interval", "", "Seconds between captures (default 5.0)")
	ocr := fs.Bool("ocr", false, "Run OCR on each capture")
	ai := fs.Bool("ai", false, "Queue captures for AI captioning after stop")
	fs.Parse(os.Args[1:])

	if err := logging.Init(); err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	defer logging.Close()

	cfg := loadConfig()
	dir := storeRoot(*root, cfg)

	iv := capture.DefaultInterval
	if *interval != "" {
		iv = capture.ParseInterval(*interval)
	} else if cfg.Capture.IntervalSeconds > 0 {
		iv = capture.ParseInterval(fmt.Sprintf("%g", cfg.Capture.IntervalSeconds))
	}

	loop := capture.New(capture.Options{
		Root:      dir,
		Interval:  iv,
		EnableOCR: *ocr || cfg.Capture.EnableOCR,
		EnableAI:  *ai || cfg.Capture.EnableAI,
		NewOCR: func() (enrich.OCR, error) {
			return enrich.NewHTTPOCR(cfg.Engines.OCREndpoint, cfg.Engines.OCRLanguages)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop.Start(ctx)
	if err := <-loop.Ready(); err != nil {
		log.Fatalf("capture failed to start: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Recording to %s every %s (Ctrl-C to stop)\n", dir, iv)

	// Drain events until the loop closes its channel
	go func() {
		<-ctx.Done()
		loop.Stop()
	}()
	for ev := range loop.Events() {
		fmt.Printf("%s  %s\n", ev.Timestamp.Format("15:04:05"), ev.ImagePath)
	}
	loop.Wait()

	queue := loop.Queue()
	if len(queue) == 0 {
		return
	}

	fmt.Fprintf(os.Stderr, "Generating %d deferred captions...\n", len(queue))
	captioner := enrich.NewOllamaCaptioner(cfg.Engines.OllamaEndpoint, cfg.Engines.CaptionModel)
	written := process.Drain(context.Background(), &queue, captioner, progressLine("Captioning"))
	fmt.Fprintf(os.Stderr, "Wrote %d captions\n", written)
}
