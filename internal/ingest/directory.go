package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/geophoto-tracker/internal/async"
)

type DirStats struct {
	Scanned  uint32
	Matched  uint32
	Enqueued uint32
	Failed   uint32
}

type ScanOptions struct {
	IncludeExts []string // empty -> constants.AllowedImageExtensions
	SkipHidden  bool
}

// ScanDirectory walks root and returns matching image paths in lexical order.
func ScanDirectory(root string, opts ScanOptions, logger *slog.Logger) ([]string, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}
	exts := extSet(opts.IncludeExts)

	var paths []string
	var stats DirStats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logger.Warn("walk error", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		if opts.SkipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !allowed(exts, filepath.Ext(path)) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk: %w", err)
	}
	sort.Strings(paths)
	logger.Debug("directory scanned", "root", root, "scanned", stats.Scanned, "matched", stats.Matched)
	return paths, stats, nil
}

// EnqueueDirectory scans root and submits every match to q.
func EnqueueDirectory(ctx context.Context, q async.Queue, root string, opts ScanOptions, logger *slog.Logger) (DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	paths, stats, err := ScanDirectory(root, opts, logger)
	if err != nil {
		return stats, err
	}
	for _, p := range paths {
		if err := q.Enqueue(ctx, async.Job{Path: p}); err != nil {
			logger.Error("enqueue failed", "path", p, "error", err)
			stats.Failed++
			continue
		}
		stats.Enqueued++
	}
	logger.Info("directory enqueued", "root", root, "matched", stats.Matched, "enqueued", stats.Enqueued)
	return stats, nil
}
