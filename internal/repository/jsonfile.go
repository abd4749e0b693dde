package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
)

// JSONFileRepository keeps the whole collection as one JSON array on disk.
// The file is rewritten on every append through a temp file and rename.
type JSONFileRepository struct {
	path   string
	schema *jsonschema.Schema
	logger *slog.Logger

	mu      sync.Mutex
	loaded  bool
	records []entity.CoordinateRecord
}

func NewJSONFileRepository(path string, logger *slog.Logger) (*JSONFileRepository, error) {
	if path == "" {
		return nil, common.NewAppError("CONFIG_ERROR", "json store path is empty", common.ErrInvalidInput)
	}
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := compileCollectionSchema()
	if err != nil {
		return nil, err
	}
	return &JSONFileRepository{path: path, schema: schema, logger: logger}, nil
}

func (r *JSONFileRepository) List(_ context.Context) ([]entity.CoordinateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.loadLocked(); err != nil {
		return nil, err
	}
	out := make([]entity.CoordinateRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

// Append assigns max(id)+1 and persists the full collection.
func (r *JSONFileRepository) Append(_ context.Context, rec entity.CoordinateRecord) (entity.CoordinateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.loadLocked(); err != nil {
		return entity.CoordinateRecord{}, err
	}

	var maxID int64
	for _, existing := range r.records {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	rec.ID = maxID + 1

	next := append(r.records[:len(r.records):len(r.records)], rec)
	if err := r.writeLocked(next); err != nil {
		return entity.CoordinateRecord{}, err
	}
	r.records = next
	r.logger.Debug("record appended", "id", rec.ID, "path", r.path, "count", len(next))
	return rec, nil
}

func (r *JSONFileRepository) Close() error { return nil }

func (r *JSONFileRepository) loadLocked() error {
	if r.loaded {
		return nil
	}
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Info("coordinate file not found, starting empty", "path", r.path)
		r.records, r.loaded = nil, true
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %q: %v", common.ErrStorage, r.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		r.records, r.loaded = nil, true
		return nil
	}
	if err := validateCollection(r.schema, data); err != nil {
		return fmt.Errorf("%w: %q: %v", common.ErrStorage, r.path, err)
	}
	var recs []entity.CoordinateRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return fmt.Errorf("%w: decode %q: %v", common.ErrStorage, r.path, err)
	}
	r.logger.Info("coordinate file loaded", "path", r.path, "count", len(recs))
	r.records, r.loaded = recs, true
	return nil
}

func (r *JSONFileRepository) writeLocked(recs []entity.CoordinateRecord) error {
	if recs == nil {
		recs = []entity.CoordinateRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("%w: encode: %v", common.ErrStorage, err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %q: %v", common.ErrStorage, dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", common.ErrStorage, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	_ = tmp.Chmod(0o644)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write temp: %v", common.ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync temp: %v", common.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp: %v", common.ErrStorage, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("%w: rename: %v", common.ErrStorage, err)
	}
	return nil
}
