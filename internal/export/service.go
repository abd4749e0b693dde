package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
)

const sheetName = "Coordenadas"

// RecordLister is the read side of the record repository.
type RecordLister interface {
	List(ctx context.Context) ([]entity.CoordinateRecord, error)
}

// Filter narrows an export. Zero values match everything; From and To are
// inclusive calendar dates.
type Filter struct {
	Client string
	From   *time.Time
	To     *time.Time
}

// Service produces XLSX bytes for record exports.
type Service struct {
	records RecordLister
	logger  *slog.Logger
}

func NewService(records RecordLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{records: records, logger: logger}
}

// ExportRecordsXLSX returns a workbook with one row per matching record.
// If only From is given the window ends today.
func (s *Service) ExportRecordsXLSX(ctx context.Context, flt Filter) ([]byte, error) {
	start := time.Now()

	from, to := dateOnly(flt.From), dateOnly(flt.To)
	if from != nil && to == nil {
		today := dateOnly(ptr(time.Now().UTC()))
		to = today
	}

	recs, err := s.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Data/Hora", "Cliente", "Latitude", "Longitude", "Texto OCR"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	row := 2
	for _, r := range recs {
		if flt.Client != "" && r.ClientName() != flt.Client {
			continue
		}
		if from != nil || to != nil {
			ts, err := time.Parse(constants.TimestampLayout, r.Timestamp)
			if err != nil {
				s.logger.Warn("skipping record with unparseable timestamp", "id", r.ID, "timestamp", r.Timestamp)
				continue
			}
			day := dateOnly(&ts)
			if (from != nil && day.Before(*from)) || (to != nil && day.After(*to)) {
				continue
			}
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
		write(1, r.ID)
		write(2, r.Timestamp)
		write(3, r.ClientName())
		write(4, r.Latitude)
		write(5, r.Longitude)
		write(6, truncate(r.RawText, 500))
		row++
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "B", 20)
	_ = f.SetColWidth(sheetName, "C", "C", 18)
	_ = f.SetColWidth(sheetName, "D", "E", 14)
	_ = f.SetColWidth(sheetName, "F", "F", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"client", flt.Client,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func ptr[T any](v T) *T { return &v }

func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
