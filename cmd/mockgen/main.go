package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"mfg-assist/cmd/mockgen/engine"
)

func main() {
	outDir := flag.String("out", "./data", "Output directory for demo tables")
	days := flag.Int("days", 14, "Span of order history in days")
	seed := flag.Int64("seed", 7, "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Days: *days,
		Seed: *seed,
		Now:  time.Now(),
	}

	fmt.Printf("Generating %d days of demo tables (seed %d) to %s...\n", cfg.Days, cfg.Seed, *outDir)

	tables := engine.Generate(cfg)
	if err := engine.Save(*outDir, tables); err != nil {
		fmt.Printf("Failed to save demo tables: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
