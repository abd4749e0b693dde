package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
)

func TestMediaFetcherFetch(t *testing.T) {
	var gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewMediaFetcher(MediaConfig{AccountSID: "AC123", AuthToken: "secret", Dir: dir}, srv.Client(), nil)
	path, cleanup, err := f.Fetch(context.Background(), srv.URL+"/media/1", "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotUser != "AC123" || gotPass != "secret" {
		t.Errorf("basic auth = %q/%q", gotUser, gotPass)
	}
	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "temp_image_") || filepath.Ext(path) != ".png" {
		t.Errorf("path = %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "png-bytes" {
		t.Errorf("content = %q, %v", b, err)
	}
	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file not removed: %v", err)
	}
}

func TestMediaFetcherNoAuthWhenUnconfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); ok {
			t.Error("unexpected basic auth")
		}
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	f := NewMediaFetcher(MediaConfig{Dir: t.TempDir()}, srv.Client(), nil)
	path, cleanup, err := f.Fetch(context.Background(), srv.URL, "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()
	if filepath.Ext(path) != ".jpg" {
		t.Errorf("ext = %q", filepath.Ext(path))
	}
}

func TestMediaFetcherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.Repeat("a", 64)))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewMediaFetcher(MediaConfig{Dir: dir, MaxBytes: 16}, srv.Client(), nil)

	if _, _, err := f.Fetch(context.Background(), srv.URL+"/missing", ""); !errors.Is(err, common.ErrTransport) {
		t.Errorf("404: err = %v", err)
	}
	if _, _, err := f.Fetch(context.Background(), srv.URL+"/big", ""); !errors.Is(err, common.ErrTransport) {
		t.Errorf("oversize: err = %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("partial downloads left behind: %d", len(entries))
	}
}
