package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
	"github.com/joseph-ayodele/geophoto-tracker/internal/ocr"
	"github.com/joseph-ayodele/geophoto-tracker/internal/parse"
)

// TextExtractor is Stage 1: image -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

// Latitude then longitude tokens, adjacent, OCR-tolerant direction letters.
var reCoordinatePair = regexp.MustCompile(`(?i)(-?\d+[\.,]\d+[NS])\s+(-?\d+[\.,]\d+[EWLOV])`)

// Extraction is the structured result of one successful run.
type Extraction struct {
	Time    time.Time
	Point   entity.Point
	Client  string // empty when no registered tag was found
	RawText string
}

// Timestamp renders Time in the record layout.
func (x Extraction) Timestamp() string {
	return parse.FormatTimestamp(x.Time)
}

// Record builds an unsaved record (ID 0) from the extraction.
func (x Extraction) Record() entity.CoordinateRecord {
	rec := entity.CoordinateRecord{
		Timestamp: x.Timestamp(),
		Latitude:  x.Point.Lat,
		Longitude: x.Point.Lon,
		RawText:   x.RawText,
	}
	if x.Client != "" {
		rec = rec.WithClient(x.Client)
	}
	return rec
}

// Pipeline runs OCR, date-time recognition, coordinate scanning and tag
// matching. It either returns a complete Extraction or an error wrapping
// common.ErrExtractionFailed.
type Pipeline struct {
	text   TextExtractor
	dates  *parse.DateTimeRecognizer
	tags   *parse.ClientTagMatcher
	logger *slog.Logger
}

func New(text TextExtractor, dates *parse.DateTimeRecognizer, tags *parse.ClientTagMatcher, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if dates == nil {
		dates = parse.NewDateTimeRecognizer(logger)
	}
	return &Pipeline{text: text, dates: dates, tags: tags, logger: logger}
}

// Extract processes the image at path.
func (p *Pipeline) Extract(ctx context.Context, path string) (Extraction, error) {
	res, err := p.text.Extract(ctx, path)
	if err != nil {
		p.logger.Error("pipeline.ocr.failed", "path", path, "error", err)
		return Extraction{}, fmt.Errorf("%w: ocr: %v", common.ErrExtractionFailed, err)
	}
	x, err := p.ExtractText(res.Text)
	if err != nil {
		p.logger.Warn("pipeline.extract.failed", "path", path, "error", err)
		return Extraction{}, err
	}
	p.logger.Info("pipeline.extract.ok", "path", path,
		"timestamp", x.Timestamp(), "lat", x.Point.Lat, "lon", x.Point.Lon, "client", x.Client)
	return x, nil
}

// ExtractText runs every stage after OCR over already normalized text.
func (p *Pipeline) ExtractText(text string) (Extraction, error) {
	t, ok := p.dates.Find(text)
	if !ok {
		return Extraction{}, fmt.Errorf("%w: no date-time found", common.ErrExtractionFailed)
	}

	m := reCoordinatePair.FindStringSubmatch(text)
	if m == nil {
		p.logger.Info("no coordinate pair found in text")
		return Extraction{}, fmt.Errorf("%w: no coordinate pair found", common.ErrExtractionFailed)
	}
	pt, err := parse.ParseCoordinates(m[1] + " " + m[2])
	if err != nil {
		p.logger.Info("coordinate pair rejected", "match", m[0], "error", err)
		return Extraction{}, fmt.Errorf("%w: %v", common.ErrExtractionFailed, err)
	}

	x := Extraction{Time: t, Point: pt, RawText: text}
	if p.tags != nil {
		if client, ok := p.tags.Match(text); ok {
			x.Client = client
		}
	}
	return x, nil
}
