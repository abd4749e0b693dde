package ingest

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/joseph-ayodele/geophoto-tracker/internal/async"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func layout(t *testing.T) string {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.JPG"))
	touch(t, filepath.Join(root, "a.png"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, ".hidden.jpg"))
	touch(t, filepath.Join(root, ".cache", "c.jpg"))
	touch(t, filepath.Join(root, "sub", "d.webp"))
	return root
}

func TestScanDirectory(t *testing.T) {
	root := layout(t)
	tests := []struct {
		name string
		opts ScanOptions
		want []string
	}{
		{
			name: "default image set skipping hidden",
			opts: ScanOptions{SkipHidden: true},
			want: []string{"a.png", "b.JPG", "sub/d.webp"},
		},
		{
			name: "hidden included",
			opts: ScanOptions{},
			want: []string{".cache/c.jpg", ".hidden.jpg", "a.png", "b.JPG", "sub/d.webp"},
		},
		{
			name: "explicit extensions",
			opts: ScanOptions{IncludeExts: []string{".png", "txt"}, SkipHidden: true},
			want: []string{"a.png", "notes.txt"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, stats, err := ScanDirectory(root, tt.opts, nil)
			if err != nil {
				t.Fatal(err)
			}
			if len(paths) != len(tt.want) || int(stats.Matched) != len(tt.want) {
				t.Fatalf("paths = %v", paths)
			}
			for i, w := range tt.want {
				if paths[i] != filepath.Join(root, filepath.FromSlash(w)) {
					t.Errorf("paths[%d] = %q, want %q", i, paths[i], w)
				}
			}
		})
	}
}

func TestScanDirectoryErrors(t *testing.T) {
	if _, _, err := ScanDirectory("", ScanOptions{}, nil); err == nil {
		t.Error("expected error for empty root")
	}
	if _, _, err := ScanDirectory(filepath.Join(t.TempDir(), "missing"), ScanOptions{}, nil); err == nil {
		t.Error("expected error for missing root")
	}
}

type captureQueue struct {
	mu   sync.Mutex
	jobs []async.Job
}

func (q *captureQueue) Enqueue(_ context.Context, job async.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *captureQueue) Shutdown(context.Context) {}

func TestEnqueueDirectory(t *testing.T) {
	root := layout(t)
	q := &captureQueue{}
	stats, err := EnqueueDirectory(context.Background(), q, root, ScanOptions{SkipHidden: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Enqueued != 3 || len(q.jobs) != 3 {
		t.Errorf("enqueued = %d, jobs = %d", stats.Enqueued, len(q.jobs))
	}
}

func TestScanDirectoryUsesInjectedLogger(t *testing.T) {
	root := layout(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if _, _, err := ScanDirectory(root, ScanOptions{SkipHidden: true}, logger); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "directory scanned") || !strings.Contains(buf.String(), "matched=3") {
		t.Errorf("scan not logged through injected logger: %q", buf.String())
	}
}
