package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
)

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

func extSet(include []string) map[string]struct{} {
	if len(include) == 0 {
		return nil
	}
	exts := map[string]struct{}{}
	for _, e := range include {
		e = constants.NormalizeExt(strings.TrimSpace(e))
		if e != "" {
			exts[e] = struct{}{}
		}
	}
	return exts
}

// allowed checks ext against exts, or the default image set when exts is nil.
func allowed(exts map[string]struct{}, ext string) bool {
	if exts == nil {
		return constants.IsImageExt(ext)
	}
	_, ok := exts[constants.NormalizeExt(ext)]
	return ok
}
