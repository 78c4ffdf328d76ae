package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func runScan() {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	root := fs.String("root", "", "Artifact store root (default: config)")
	verbose := fs.Bool("v", false, "List every capture")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	records := buildCatalog(storeRoot(*root, cfg))

	var withText, withDesc int
	days := map[string]int{}
	for _, rec := range records {
		if rec.Text != "" {
			withText++
		}
		if rec.Description != "" {
			withDesc++
		}
		days[rec.Timestamp.Format("2006-01-02")]++
	}

	fmt.Printf("Captures:        %d\n", len(records))
	fmt.Printf("With OCR text:   %d\n", withText)
	fmt.Printf("With captions:   %d\n", withDesc)
	fmt.Printf("Days:            %d\n", len(days))
	if len(records) > 0 {
		fmt.Printf("Newest:          %s\n", records[0].Timestamp.Format(time.RFC3339))
		fmt.Printf("Oldest:          %s\n", records[len(records)-1].Timestamp.Format(time.RFC3339))
	}

	if *verbose {
		fmt.Println()
		for _, rec := range records {
			marker := "  "
			if rec.Description != "" {
				marker = "ai"
			} else if rec.Text != "" {
				marker = "tx"
			}
			fmt.Printf("%s [%s] %s\n", rec.Timestamp.Format("2006-01-02 15:04:05"), marker, rec.ImagePath)
		}
	}
}
