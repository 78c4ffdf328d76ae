package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/abelbrown/recall/internal/export"
)

func runExportText() {
	fs := flag.NewFlagSet("export-text", flag.ExitOnError)
	root := fs.String("root", "", "Artifact store root (default: config)")
	out := fs.String("o", "", "Output file (default: stdout)")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	records := buildCatalog(storeRoot(*root, cfg))

	if *out == "" {
		if err := export.Text(records, os.Stdout); err != nil {
			log.Fatalf("export failed: %v", err)
		}
		return
	}
	if err := export.TextFile(records, *out); err != nil {
		log.Fatalf("export failed: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d captures)\n", *out, len(records))
}

func runMergeDaily() {
	fs := flag.NewFlagSet("merge-daily", flag.ExitOnError)
	root := fs.String("root", "", "Artifact store root (default: config)")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	dir := storeRoot(*root, cfg)
	records := buildCatalog(dir)

	paths, err := export.MergedDaily(dir, records)
	if err != nil {
		log.Fatalf("merge failed: %v", err)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
}

func runExportVideo() {
	fs := flag.NewFlagSet("export-video", flag.ExitOnError)
	root := fs.String("root", "", "Artifact store root (default: config)")
	fps := fs.Int("fps", export.DefaultFPS, "Frames per second")
	out := fs.String("o", "", "Write one video over the whole catalog to this path instead of per-day files")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	dir := storeRoot(*root, cfg)
	records := buildCatalog(dir)

	if *out != "" {
		frames, err := export.Video(context.Background(), records, *out, *fps)
		if err != nil {
			log.Fatalf("video export failed: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%d frames)\n", *out, frames)
		fmt.Println(*out)
		return
	}

	paths, err := export.VideoDaily(context.Background(), dir, records, *fps)
	if err != nil {
		log.Fatalf("video export failed: %v", err)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
}
