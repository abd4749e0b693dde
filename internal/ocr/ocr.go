package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
)

const (
	EngineTesseract = "tesseract"
	EngineAzure     = "azure"
)

type Config struct {
	Engine string // tesseract | azure; empty -> tesseract

	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "por+eng"
	TessdataDir   string
	PSM           int // 0 leaves tesseract's default page segmentation

	AzureEndpoint string
	AzureKey      string

	WorkDir string // parent for temp PNGs; empty -> os.TempDir()
}

type ExtractionResult struct {
	Text     string
	Engine   string
	Language string
	Duration time.Duration
	Warnings []string
}

// Engine turns a prepared image into raw text.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) (text string, warnings []string, err error)
}

type Extractor struct {
	cfg    Config
	engine Engine
	logger *slog.Logger
}

func withDefaults(cfg Config) Config {
	if cfg.Engine == "" {
		cfg.Engine = EngineTesseract
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "por+eng"
	}
	return cfg
}

// NewExtractor builds an extractor for the engine named in cfg.
func NewExtractor(cfg Config, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = withDefaults(cfg)

	var engine Engine
	switch cfg.Engine {
	case EngineTesseract:
		engine = NewTesseractEngine(cfg, execRunner{logger: logger}, logger)
	case EngineAzure:
		az, err := NewAzureEngine(cfg.AzureEndpoint, cfg.AzureKey, logger)
		if err != nil {
			return nil, err
		}
		engine = az
	default:
		return nil, fmt.Errorf("unsupported ocr engine: %q", cfg.Engine)
	}
	return NewExtractorWithEngine(cfg, engine, logger), nil
}

// NewExtractorWithEngine wires an explicit engine, mainly for tests.
func NewExtractorWithEngine(cfg Config, engine Engine, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: withDefaults(cfg), engine: engine, logger: logger}
}

// Extract orients the image, runs the engine and applies Normalize.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting ocr extraction", "path", path, "engine", e.engine.Name(), "ext", ext)

	if _, err := os.Stat(path); err != nil {
		return ExtractionResult{}, fmt.Errorf("ocr input: %w", err)
	}

	res := ExtractionResult{Engine: e.engine.Name(), Language: e.cfg.TesseractLang}

	input := path
	prepared, cleanup, err := prepareImage(path, e.cfg.WorkDir)
	if err != nil {
		// The engine may still read formats the decoder does not know (e.g. webp).
		e.logger.Warn("image preparation failed, using original file", "path", path, "error", err)
		res.Warnings = append(res.Warnings, err.Error())
	} else {
		defer cleanup()
		input = prepared
	}

	txt, warn, err := e.engine.Recognize(ctx, input)
	res.Warnings = append(res.Warnings, warn...)
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("ocr failed", "path", path, "engine", e.engine.Name(), "error", err)
		return res, err
	}
	res.Text = Normalize(txt)

	e.logger.Info("ocr complete", "path", path, "engine", e.engine.Name(),
		"chars", len(res.Text), "duration_ms", res.Duration.Milliseconds())
	e.logger.Debug("ocr text", "path", path, "text", res.Text)
	return res, nil
}
