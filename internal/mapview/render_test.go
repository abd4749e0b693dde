package mapview

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
)

func tagged(client, ts string, lat, lon float64, text string) entity.CoordinateRecord {
	r := entity.CoordinateRecord{Timestamp: ts, Latitude: lat, Longitude: lon, RawText: text}
	if client != "" {
		r = r.WithClient(client)
	}
	return r
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(filepath.Join(t.TempDir(), "out", "mapa.html"), "", nil)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestBuild(t *testing.T) {
	r := newTestRenderer(t)
	records := []entity.CoordinateRecord{
		tagged("Oia Macre", "15/11/2024 10:00:00", -6.7592, -51.0711, ""),
		tagged("Oia Giro", "15/11/2024 11:00:00", -6.7540, -51.0720, ""),
		tagged("", "15/11/2024 12:00:00", 0, 0, ""),
		tagged("Oia Giro", "15/11/2024 13:00:00", -6.7544, -51.0716, ""),
	}
	view, err := r.Build(records, constants.DefaultClients())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(view.Photos) != 3 {
		t.Errorf("photos = %d, want 3 (untagged skipped)", len(view.Photos))
	}
	if len(view.Clients) != 2 || view.Clients[0].Name != "Oia Giro" || view.Clients[1].Name != "Oia Macre" {
		t.Fatalf("clients not sorted: %+v", view.Clients)
	}
	if view.Clients[0].Count != 2 || view.Clients[1].Count != 1 {
		t.Errorf("counts = %d, %d", view.Clients[0].Count, view.Clients[1].Count)
	}
	if view.Clients[0].Color != "blue" || view.Clients[0].Radius != 500 || !view.Clients[0].HasSite {
		t.Errorf("giro layer = %+v", view.Clients[0])
	}
	wantLat := (-6.7592 - 6.7540 - 6.7544) / 3
	if math.Abs(view.Data.Center.Lat-wantLat) > 1e-9 {
		t.Errorf("center lat = %v, want %v", view.Data.Center.Lat, wantLat)
	}
	if view.Data.Zoom != 14 {
		t.Errorf("zoom = %d", view.Data.Zoom)
	}
	if view.Photos[1].Popup != "<b>Oia Giro</b><br>Data: 15/11/2024 11:00:00" {
		t.Errorf("popup = %q", view.Photos[1].Popup)
	}
}

func TestBuildNoPoints(t *testing.T) {
	r := newTestRenderer(t)
	if _, err := r.Build(nil, constants.DefaultClients()); !errors.Is(err, common.ErrNoPoints) {
		t.Errorf("empty: err = %v", err)
	}
	onlyUntagged := []entity.CoordinateRecord{tagged("", "15/11/2024 12:00:00", 1, 1, "")}
	if _, err := r.Build(onlyUntagged, constants.DefaultClients()); !errors.Is(err, common.ErrNoPoints) {
		t.Errorf("untagged: err = %v", err)
	}
}

func TestBuildUnregisteredClient(t *testing.T) {
	r := newTestRenderer(t)
	view, err := r.Build([]entity.CoordinateRecord{tagged("Oia Antigo", "15/11/2024 12:00:00", 1, 1, "")}, constants.DefaultClients())
	if err != nil {
		t.Fatal(err)
	}
	if view.Clients[0].HasSite || view.Clients[0].Color != fallbackColor {
		t.Errorf("layer = %+v", view.Clients[0])
	}
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t)
	records := []entity.CoordinateRecord{
		tagged("Oia Giro", "15/11/2024 14:30:00", -6.7542, -51.0718, "15 de nov <script>alert(1)</script> #Oia Giro"),
		tagged("Oia Giro", "15/11/2024 15:30:00", -6.7543, -51.0719, ""),
	}
	if err := r.Render(records, constants.DefaultClients()); err != nil {
		t.Fatalf("render: %v", err)
	}
	b, err := os.ReadFile(r.Path())
	if err != nil {
		t.Fatal(err)
	}
	html := string(b)
	for _, want := range []string{
		"leaflet@1.9.4",
		"<b style=\"font-size: 14px;\">Clientes - Ourilândia</b>",
		"<b>Oia Giro</b>: 2 foto(s)",
		"fillOpacity: 0.1",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(html, "alert(1)</script>") || strings.Contains(html, "<script>alert") {
		t.Error("OCR text not sanitized")
	}
}
