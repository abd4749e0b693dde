package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

type tesseractEngine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// NewTesseractEngine runs `tesseract <img> stdout -l <lang>` through runner.
func NewTesseractEngine(cfg Config, runner Runner, logger *slog.Logger) Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &tesseractEngine{cfg: withDefaults(cfg), runner: runner, logger: logger}
}

func (t *tesseractEngine) Name() string { return EngineTesseract }

func (t *tesseractEngine) Recognize(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", t.cfg.TesseractLang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, args...)
	if err != nil {
		var warn []string
		if s := strings.TrimSpace(string(errb)); s != "" {
			warn = append(warn, s)
		}
		return "", warn, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}
