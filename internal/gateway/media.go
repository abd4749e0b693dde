package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
)

type MediaConfig struct {
	AccountSID string // basic auth user; empty disables auth
	AuthToken  string
	Timeout    time.Duration
	MaxBytes   int64
	Dir        string // download directory; empty -> os.TempDir()
}

// MediaFetcher downloads message attachments to temp files.
type MediaFetcher struct {
	cfg    MediaConfig
	client *http.Client
	logger *slog.Logger
}

func NewMediaFetcher(cfg MediaConfig, client *http.Client, logger *slog.Logger) *MediaFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 20 << 20
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &MediaFetcher{cfg: cfg, client: client, logger: logger}
}

// Fetch downloads url into a uniquely named temp file. The caller must run
// cleanup once the image is processed. Failures wrap common.ErrTransport.
func (f *MediaFetcher) Fetch(ctx context.Context, url, contentType string) (string, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: build request: %v", common.ErrTransport, err)
	}
	if f.cfg.AccountSID != "" {
		req.SetBasicAuth(f.cfg.AccountSID, f.cfg.AuthToken)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: download media: %v", common.ErrTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil, fmt.Errorf("%w: download media: status %d", common.ErrTransport, resp.StatusCode)
	}

	if contentType == "" {
		contentType = resp.Header.Get("Content-Type")
	}
	name := fmt.Sprintf("temp_image_%s.%s", uuid.NewString(), constants.ExtForContentType(contentType))
	dir := f.cfg.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: create %q: %v", common.ErrTransport, path, err)
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			f.logger.Warn("failed to remove temp image", "path", path, "error", err)
		}
	}

	n, err := io.Copy(out, io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("%w: write media: %v", common.ErrTransport, err)
	}
	if n > f.cfg.MaxBytes {
		cleanup()
		return "", nil, fmt.Errorf("%w: media larger than %d bytes", common.ErrTransport, f.cfg.MaxBytes)
	}

	f.logger.Info("media downloaded", "path", path, "bytes", n)
	return path, cleanup, nil
}
