package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
)

type staticLister []entity.CoordinateRecord

func (s staticLister) List(context.Context) ([]entity.CoordinateRecord, error) { return s, nil }

func records() staticLister {
	return staticLister{
		entity.CoordinateRecord{ID: 1, Timestamp: "10/11/2024 09:00:00", Latitude: -6.7542, Longitude: -51.0718, RawText: "a"}.WithClient("Oia Giro"),
		entity.CoordinateRecord{ID: 2, Timestamp: "15/11/2024 14:30:00", Latitude: -6.7592, Longitude: -51.0711, RawText: "b"}.WithClient("Oia Macre"),
		entity.CoordinateRecord{ID: 3, Timestamp: "20/11/2024 18:00:00", Latitude: -6.7543, Longitude: -51.0719, RawText: "c"}.WithClient("Oia Giro"),
	}
}

func readRows(t *testing.T, b []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	return rows
}

func TestExportRecordsXLSX(t *testing.T) {
	svc := NewService(records(), nil)
	b, err := svc.ExportRecordsXLSX(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	rows := readRows(t, b)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 3", len(rows))
	}
	if rows[0][1] != "Data/Hora" || rows[2][2] != "Oia Macre" || rows[2][1] != "15/11/2024 14:30:00" {
		t.Errorf("rows = %v", rows)
	}
}

func TestExportRecordsXLSXFilters(t *testing.T) {
	svc := NewService(records(), nil)
	from := time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		flt  Filter
		ids  []string
	}{
		{name: "client", flt: Filter{Client: "Oia Giro"}, ids: []string{"1", "3"}},
		{name: "window inclusive", flt: Filter{From: &from, To: &to}, ids: []string{"2", "3"}},
		{name: "client and window", flt: Filter{Client: "Oia Giro", From: &from, To: &to}, ids: []string{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := svc.ExportRecordsXLSX(context.Background(), tt.flt)
			if err != nil {
				t.Fatal(err)
			}
			rows := readRows(t, b)[1:]
			if len(rows) != len(tt.ids) {
				t.Fatalf("rows = %v", rows)
			}
			for i, id := range tt.ids {
				if rows[i][0] != id {
					t.Errorf("row %d id = %s, want %s", i, rows[i][0], id)
				}
			}
		})
	}
}
