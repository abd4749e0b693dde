package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
	"github.com/joseph-ayodele/geophoto-tracker/internal/app"
	"github.com/joseph-ayodele/geophoto-tracker/internal/async"
	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/ingest"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir        = flag.String("dir", "", "directory of photos to process (required)")
		workers    = flag.Int("workers", 4, "concurrent OCR workers")
		skipHidden = flag.Bool("skip-hidden", true, "skip hidden files and directories")
		noMap      = flag.Bool("no-map", false, "do not rebuild the map after the batch")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log)
	slog.SetDefault(logger)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx := context.Background()
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logger.Error("close store", "error", cerr)
		}
	}()

	var (
		mu     sync.Mutex
		counts = map[constants.Outcome]int{}
	)
	q := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(*workers),
		async.WithOnDone(func(o async.Outcome) {
			mu.Lock()
			counts[o.Result.Outcome]++
			mu.Unlock()
		}),
	)

	start := time.Now()
	stats, err := ingest.EnqueueDirectory(ctx, q, *dir, ingest.ScanOptions{SkipHidden: *skipHidden}, logger)
	q.Shutdown(ctx)
	if err != nil {
		logger.Error("failed to scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}

	if !*noMap && counts[constants.OutcomeAccepted] > 0 {
		if err := a.Processor.RenderMap(ctx); err != nil {
			logger.Error("map rebuild failed", "error", err)
		} else {
			logger.Info("map rebuilt", "path", a.Renderer.Path())
		}
	}

	fmt.Printf("\nBatch summary (%s)\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("  scanned:            %d\n", stats.Scanned)
	fmt.Printf("  images:             %d\n", stats.Matched)
	fmt.Printf("  unreadable:         %d\n", stats.Failed)
	for _, o := range []constants.Outcome{
		constants.OutcomeAccepted,
		constants.OutcomeDuplicate,
		constants.OutcomeOutsideGeofence,
		constants.OutcomeExtractionFailed,
		constants.OutcomeFailed,
	} {
		fmt.Printf("  %-19s %d\n", string(o)+":", counts[o])
	}
	fmt.Printf("  stored records:     %d\n", a.Store.Len())

	if counts[constants.OutcomeFailed] > 0 || stats.Failed > 0 {
		os.Exit(1)
	}
}
