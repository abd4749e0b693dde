package ocr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// prepareImage decodes path honoring the EXIF orientation tag and writes it
// as PNG into a fresh temp dir. The caller must run cleanup.
func prepareImage(path, workDir string) (string, func(), error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}
	tmpDir, err := os.MkdirTemp(workDir, "geo-ocr-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "page.png")
	if err := imaging.Save(img, out); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write png: %w", err)
	}
	return out, cleanup, nil
}
