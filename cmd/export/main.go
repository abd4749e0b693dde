package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/export"
	"github.com/joseph-ayodele/geophoto-tracker/internal/repository"
)

func main() {
	var (
		out     = flag.String("out", "coordenadas.xlsx", "output XLSX file path")
		client  = flag.String("client", "", "only export records attributed to this client")
		fromStr = flag.String("from", "", "from date YYYY-MM-DD")
		toStr   = flag.String("to", "", "to date YYYY-MM-DD")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	flt := export.Filter{Client: *client}
	for _, d := range []struct {
		raw  string
		dst  **time.Time
		name string
	}{{*fromStr, &flt.From, "--from"}, {*toStr, &flt.To, "--to"}} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", d.raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid %s date format, use YYYY-MM-DD: %v\n", d.name, err)
			os.Exit(1)
		}
		*d.dst = &parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo, err := repository.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("open repository", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			logger.Error("close repository", "error", cerr)
		}
	}()

	data, err := export.NewService(repo, logger).ExportRecordsXLSX(ctx, flt)
	if err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("write export", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("export written", "path", *out, "bytes", len(data))
}
