package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
	"github.com/joseph-ayodele/geophoto-tracker/internal/app"
	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/geofence"
	"github.com/joseph-ayodele/geophoto-tracker/internal/pipeline"
)

type output struct {
	Path      string  `json:"path,omitempty"`
	Timestamp string  `json:"timestamp"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Tag       string  `json:"tag,omitempty"`
	Geofence  string  `json:"geofence,omitempty"`
	RawText   string  `json:"raw_text"`
}

func main() {
	textFile := flag.String("text", "", "read already-recognized text from this file instead of running OCR")
	flag.Parse()

	cfg := common.LoadConfig()
	// stdout carries the JSON result
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.Level}))
	slog.SetDefault(logger)

	if (*textFile == "") == (flag.NArg() != 1) {
		logger.Error("usage", "cmd", "runocr <image> | runocr -text <file>")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	p, err := app.NewPipeline(cfg.OCR, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	var (
		x    pipeline.Extraction
		path string
	)
	if *textFile != "" {
		raw, rerr := os.ReadFile(*textFile)
		if rerr != nil {
			logger.Error("read text", "path", *textFile, "error", rerr)
			os.Exit(1)
		}
		x, err = p.ExtractText(string(raw))
	} else {
		path = flag.Arg(0)
		x, err = p.Extract(ctx, path)
	}
	if err != nil {
		logger.Error("extraction failed", "path", path, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	out := output{
		Path:      path,
		Timestamp: x.Timestamp(),
		Latitude:  x.Point.Lat,
		Longitude: x.Point.Lon,
		Tag:       x.Client,
		RawText:   x.RawText,
	}
	resolver := geofence.NewResolver(constants.DefaultClients(), logger)
	if name, ok := resolver.Resolve(x.Point); ok {
		out.Geofence = name
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
}
