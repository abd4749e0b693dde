package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/core"
	"github.com/joseph-ayodele/geophoto-tracker/internal/geofence"
	"github.com/joseph-ayodele/geophoto-tracker/internal/mapview"
	"github.com/joseph-ayodele/geophoto-tracker/internal/ocr"
	"github.com/joseph-ayodele/geophoto-tracker/internal/parse"
	"github.com/joseph-ayodele/geophoto-tracker/internal/pipeline"
	"github.com/joseph-ayodele/geophoto-tracker/internal/repository"
	"github.com/joseph-ayodele/geophoto-tracker/internal/store"
)

// App is the wired processing graph shared by the binaries.
type App struct {
	Resolver  *geofence.Resolver
	Store     *store.Store
	Pipeline  *pipeline.Pipeline
	Renderer  *mapview.Renderer
	Processor *core.Processor
}

// Build opens the configured store and wires every stage around it.
func Build(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sites := constants.DefaultClients()

	repo, err := repository.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	st, err := store.New(ctx, repo, logger)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("load store: %w", err)
	}

	pl, err := NewPipeline(cfg.OCR, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	renderer, err := mapview.NewRenderer(cfg.Map.File, cfg.Map.Title, logger)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("map renderer: %w", err)
	}

	resolver := geofence.NewResolver(sites, logger)
	proc := core.NewProcessor(logger, pl, resolver, st, renderer)
	logger.Info("application wired", "store", cfg.Store.Driver, "ocr", cfg.OCR.Engine,
		"records", st.Len(), "clients", len(sites))

	return &App{Resolver: resolver, Store: st, Pipeline: pl, Renderer: renderer, Processor: proc}, nil
}

// NewPipeline builds the extraction pipeline for the registered clients.
func NewPipeline(cfg common.OCRConfig, logger *slog.Logger) (*pipeline.Pipeline, error) {
	extractor, err := ocr.NewExtractor(ocr.Config{
		Engine:        cfg.Engine,
		Tesseract:     cfg.Tesseract,
		TesseractLang: cfg.TesseractLang,
		TessdataDir:   cfg.TessdataDir,
		PSM:           cfg.PSM,
		AzureEndpoint: cfg.AzureEndpoint,
		AzureKey:      cfg.AzureKey,
		WorkDir:       cfg.WorkDir,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("ocr extractor: %w", err)
	}
	tags := parse.NewClientTagMatcher(constants.DefaultClients(), logger)
	return pipeline.New(extractor, parse.NewDateTimeRecognizer(logger), tags, logger), nil
}

// Close releases the store backend.
func (a *App) Close() error {
	return a.Store.Close()
}
