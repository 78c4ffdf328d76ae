package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/abelbrown/recall/internal/config"
	"github.com/abelbrown/recall/internal/search"
)

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	root := fs.String("root", "", "Artifact store root (default: config)")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	records := buildCatalog(storeRoot(*root, cfg))

	idx, err := search.OpenIndex(config.IndexPath())
	if err != nil {
		log.Fatalf("failed to open index: %v", err)
	}
	defer idx.Close()

	if err := idx.Rebuild(records); err != nil {
		log.Fatalf("index rebuild failed: %v", err)
	}

	n, err := idx.Count()
	if err != nil {
		log.Fatalf("failed to count index: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Indexed %d captures at %s\n", n, config.IndexPath())
}
