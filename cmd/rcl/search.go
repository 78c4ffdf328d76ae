package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/abelbrown/recall/internal/config"
	"github.com/abelbrown/recall/internal/export"
	"github.com/abelbrown/recall/internal/search"
)

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	root := fs.String("root", "", "Artifact store root (default: config)")
	useIndex := fs.Bool("index", false, "Query the persistent FTS index instead of scanning")
	limit := fs.Int("limit", 50, "Maximum results")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: rcl search [flags] <query>")
		os.Exit(1)
	}
	query := strings.Join(fs.Args(), " ")

	if *useIndex {
		searchViaIndex(query, *limit)
		return
	}

	cfg := loadConfig()
	records := buildCatalog(storeRoot(*root, cfg))

	indices := search.Filter(records, query)
	fmt.Fprintf(os.Stderr, "%d match(es)\n", len(indices))
	for i, idx := range indices {
		if i >= *limit {
			break
		}
		rec := records[idx]
		snippet := strings.TrimSpace(rec.Description)
		if snippet == "" {
			snippet = export.CleanTranscript(rec.Text)
			snippet = strings.ReplaceAll(snippet, "\n", " ")
		}
		fmt.Printf("%s  %s\n    %s\n", rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.ImagePath, truncate(snippet, 100))
	}
}

func searchViaIndex(query string, limit int) {
	idx, err := search.OpenIndex(config.IndexPath())
	if err != nil {
		log.Fatalf("failed to open index (run 'rcl index' first): %v", err)
	}
	defer idx.Close()

	paths, err := idx.Search(query, limit)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}
	fmt.Fprintf(os.Stderr, "%d match(es)\n", len(paths))
	for _, p := range paths {
		fmt.Println(p)
	}
}
