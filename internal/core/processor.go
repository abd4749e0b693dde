package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
	"github.com/joseph-ayodele/geophoto-tracker/internal/geofence"
	"github.com/joseph-ayodele/geophoto-tracker/internal/pipeline"
	"github.com/joseph-ayodele/geophoto-tracker/internal/store"
)

// Extractor turns an image into a structured extraction.
type Extractor interface {
	Extract(ctx context.Context, path string) (pipeline.Extraction, error)
}

// MapRenderer writes the map for the given records.
type MapRenderer interface {
	Render(records []entity.CoordinateRecord, sites []entity.ClientSite) error
}

// Scheduler arms a deferred map rebuild.
type Scheduler interface {
	Schedule()
}

// Result is the outcome of one submitted photo. Record carries the
// coordinates for OUTSIDE_GEOFENCE and DUPLICATE, and the stored record
// (with ID) for ACCEPTED.
type Result struct {
	Outcome constants.Outcome
	Record  entity.CoordinateRecord
}

// Processor coordinates extraction, attribution, dedup and map scheduling.
type Processor struct {
	logger    *slog.Logger
	extractor Extractor
	resolver  *geofence.Resolver
	store     *store.Store
	renderer  MapRenderer
	scheduler Scheduler
}

func NewProcessor(
	logger *slog.Logger,
	extractor Extractor,
	resolver *geofence.Resolver,
	st *store.Store,
	renderer MapRenderer,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		extractor: extractor,
		resolver:  resolver,
		store:     st,
		renderer:  renderer,
	}
}

// SetScheduler installs the map rebuild scheduler. Without one, accepted
// photos do not trigger a rebuild.
func (p *Processor) SetScheduler(s Scheduler) {
	p.scheduler = s
}

// ProcessImage runs one photo through the whole flow. The returned error is
// non-nil only for infrastructure failures (Outcome FAILED).
func (p *Processor) ProcessImage(ctx context.Context, path string) (Result, error) {
	x, err := p.extractor.Extract(ctx, path)
	if err != nil {
		if errors.Is(err, common.ErrExtractionFailed) {
			p.logger.Info("processor.extract.rejected", "path", path, "reason", err)
			return Result{Outcome: constants.OutcomeExtractionFailed}, nil
		}
		p.logger.Error("processor.extract.failed", "path", path, "error", err)
		return Result{Outcome: constants.OutcomeFailed}, err
	}

	rec := x.Record()
	if rec.Client == nil {
		client, ok := p.resolver.Resolve(x.Point)
		if !ok {
			p.logger.Info("processor.geofence.none", "path", path, "lat", rec.Latitude, "lon", rec.Longitude)
			return Result{Outcome: constants.OutcomeOutsideGeofence, Record: rec}, nil
		}
		rec = rec.WithClient(client)
	}

	stored, err := p.store.Accept(ctx, rec)
	if errors.Is(err, common.ErrDuplicate) {
		return Result{Outcome: constants.OutcomeDuplicate, Record: rec}, nil
	}
	if err != nil {
		p.logger.Error("processor.store.failed", "path", path, "timestamp", rec.Timestamp,
			"lat", rec.Latitude, "lon", rec.Longitude, "client", rec.ClientName(), "error", err)
		return Result{Outcome: constants.OutcomeFailed, Record: rec}, fmt.Errorf("store record: %w", err)
	}

	if p.scheduler != nil {
		p.scheduler.Schedule()
	}
	p.logger.Info("processor.accepted", "path", path, "id", stored.ID, "client", stored.ClientName())
	return Result{Outcome: constants.OutcomeAccepted, Record: stored}, nil
}

// RenderMap rebuilds the map from a consistent snapshot of the store.
func (p *Processor) RenderMap(_ context.Context) error {
	records := p.store.Snapshot()
	if err := p.renderer.Render(records, p.resolver.Sites()); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}

// Records returns a snapshot of every stored record.
func (p *Processor) Records() []entity.CoordinateRecord {
	return p.store.Snapshot()
}
