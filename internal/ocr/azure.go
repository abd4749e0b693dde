package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
)

// azureLanguage is the OCR language hint sent with every request.
const azureLanguage = computervision.OcrLanguagesPt

type azureEngine struct {
	client *computervision.BaseClient
	logger *slog.Logger
}

// NewAzureEngine uses the Computer Vision printed-text endpoint.
func NewAzureEngine(endpoint, key string, logger *slog.Logger) (Engine, error) {
	if endpoint == "" || key == "" {
		return nil, errors.New("azure ocr: endpoint and key are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(key)
	return &azureEngine{client: &client, logger: logger}, nil
}

func (a *azureEngine) Name() string { return EngineAzure }

func (a *azureEngine) Recognize(ctx context.Context, path string) (string, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("azure ocr: read image: %w", err)
	}
	result, err := a.client.RecognizePrintedTextInStream(
		ctx,
		true,
		io.NopCloser(bytes.NewReader(data)),
		azureLanguage,
	)
	if err != nil {
		return "", nil, fmt.Errorf("azure ocr: %w", err)
	}
	a.logger.Debug("azure ocr ok", "path", path)
	return joinOCRLines(result), nil, nil
}

// joinOCRLines flattens regions and lines into newline-separated text,
// words within a line separated by single spaces.
func joinOCRLines(result computervision.OcrResult) string {
	if result.Regions == nil {
		return ""
	}
	var lines []string
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			words := make([]string, 0, len(*line.Words))
			for _, w := range *line.Words {
				if w.Text != nil {
					words = append(words, *w.Text)
				}
			}
			if len(words) > 0 {
				lines = append(lines, strings.Join(words, " "))
			}
		}
	}
	return strings.Join(lines, "\n")
}
