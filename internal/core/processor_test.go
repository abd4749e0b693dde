package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/geofence"
	"github.com/joseph-ayodele/geophoto-tracker/internal/mapview"
	"github.com/joseph-ayodele/geophoto-tracker/internal/ocr"
	"github.com/joseph-ayodele/geophoto-tracker/internal/parse"
	"github.com/joseph-ayodele/geophoto-tracker/internal/pipeline"
	"github.com/joseph-ayodele/geophoto-tracker/internal/repository"
	"github.com/joseph-ayodele/geophoto-tracker/internal/store"
)

// photoTexts maps an image path to the OCR text it "contains".
type photoTexts map[string]string

func (p photoTexts) Extract(_ context.Context, path string) (ocr.ExtractionResult, error) {
	txt, ok := p[path]
	if !ok {
		return ocr.ExtractionResult{}, fmt.Errorf("tesseract: cannot read %s", path)
	}
	return ocr.ExtractionResult{Text: txt}, nil
}

type countingScheduler struct{ n int }

func (c *countingScheduler) Schedule() { c.n++ }

type fixture struct {
	proc    *Processor
	sched   *countingScheduler
	mapPath string
	dbPath  string
}

func newFixture(t *testing.T, texts photoTexts) fixture {
	t.Helper()
	dir := t.TempDir()
	sites := constants.DefaultClients()

	repo, err := repository.NewJSONFileRepository(filepath.Join(dir, "coordenadas.json"), nil)
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.New(context.Background(), repo, nil)
	if err != nil {
		t.Fatal(err)
	}
	mapPath := filepath.Join(dir, "mapa.html")
	renderer, err := mapview.NewRenderer(mapPath, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	pipe := pipeline.New(texts, nil, parse.NewClientTagMatcher(sites, nil), nil)
	proc := NewProcessor(nil, pipe, geofence.NewResolver(sites, nil), st, renderer)
	sched := &countingScheduler{}
	proc.SetScheduler(sched)
	return fixture{proc: proc, sched: sched, mapPath: mapPath, dbPath: filepath.Join(dir, "coordenadas.json")}
}

func TestProcessImageAcceptedThenDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, photoTexts{
		"a.jpg": "15 de nov de 2024 14:30:00\n-6,7542S -51,0718W\n#Oia Giro",
		"b.jpg": "15 de nov de 2024 14:30:00\n-6,7542S -51,0718W\n#Oia Giro",
	})

	res, err := f.proc.ProcessImage(ctx, "a.jpg")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Outcome != constants.OutcomeAccepted {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if res.Record.ID != 1 || res.Record.ClientName() != "Oia Giro" || res.Record.Timestamp != "15/11/2024 14:30:00" {
		t.Errorf("record = %+v", res.Record)
	}
	if res.Record.Latitude != -6.7542 || res.Record.Longitude != -51.0718 {
		t.Errorf("coords = %v, %v", res.Record.Latitude, res.Record.Longitude)
	}
	if f.sched.n != 1 {
		t.Errorf("schedule calls = %d, want 1", f.sched.n)
	}

	res, err = f.proc.ProcessImage(ctx, "b.jpg")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Outcome != constants.OutcomeDuplicate {
		t.Errorf("outcome = %s, want DUPLICATE", res.Outcome)
	}
	if f.sched.n != 1 {
		t.Errorf("duplicate must not reschedule, calls = %d", f.sched.n)
	}
	if len(f.proc.Records()) != 1 {
		t.Errorf("records = %d", len(f.proc.Records()))
	}
	if _, err := os.Stat(f.dbPath); err != nil {
		t.Errorf("collection not persisted: %v", err)
	}
}

func TestProcessImageGeofenceAttribution(t *testing.T) {
	f := newFixture(t, photoTexts{
		"near.jpg": "20/10/2024 11:11\n-6.7590S -51.0712W",
	})
	res, err := f.proc.ProcessImage(context.Background(), "near.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != constants.OutcomeAccepted || res.Record.ClientName() != "Oia Macre" {
		t.Errorf("result = %+v (client %q)", res.Outcome, res.Record.ClientName())
	}
	if res.Record.Timestamp != "20/10/2024 11:11:00" {
		t.Errorf("timestamp = %q", res.Record.Timestamp)
	}
}

func TestProcessImageOutsideGeofence(t *testing.T) {
	f := newFixture(t, photoTexts{
		"far.jpg": "15/11/2024 10:00:00\n-6,6640S -51,0718W",
	})
	res, err := f.proc.ProcessImage(context.Background(), "far.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != constants.OutcomeOutsideGeofence {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if res.Record.Latitude != -6.664 || res.Record.Longitude != -51.0718 || res.Record.Client != nil {
		t.Errorf("record = %+v", res.Record)
	}
	if f.sched.n != 0 || len(f.proc.Records()) != 0 {
		t.Error("rejected photo must not be stored or scheduled")
	}
}

func TestProcessImageExtractionFailures(t *testing.T) {
	f := newFixture(t, photoTexts{
		"nodate.jpg":   "-6,7542S -51,0718W\n#Oia Giro",
		"nocoords.jpg": "15 de nov de 2024 14:30:00\n#Oia Giro",
	})
	for _, path := range []string{"nodate.jpg", "nocoords.jpg", "unreadable.jpg"} {
		res, err := f.proc.ProcessImage(context.Background(), path)
		if err != nil {
			t.Errorf("%s: unexpected error %v", path, err)
		}
		if res.Outcome != constants.OutcomeExtractionFailed {
			t.Errorf("%s: outcome = %s", path, res.Outcome)
		}
	}
}

func TestRenderMap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, photoTexts{
		"a.jpg": "15 de nov de 2024 14:30:00\n-6,7542S -51,0718W\n#Oia Giro",
	})
	if err := f.proc.RenderMap(ctx); !errors.Is(err, common.ErrNoPoints) {
		t.Errorf("empty store: err = %v", err)
	}
	if _, err := f.proc.ProcessImage(ctx, "a.jpg"); err != nil {
		t.Fatal(err)
	}
	if err := f.proc.RenderMap(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(f.mapPath); err != nil {
		t.Errorf("map not written: %v", err)
	}
}
