package mapview

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

const (
	DefaultZoom  = 14
	DefaultTitle = "Clientes - Ourilândia"

	// Color for points attributed to a client missing from the registry.
	fallbackColor = "gray"
	excerptRunes  = 120
)

type point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ClientLayer is one legend line plus, when the client is registered,
// its geofence circle and center marker.
type ClientLayer struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	HasSite     bool    `json:"has_site"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Radius      float64 `json:"radius"`
	Count       int     `json:"count"`
	FencePopup  string  `json:"fence_popup"`
	CenterPopup string  `json:"center_popup"`
}

// PhotoMarker is one accepted record. Popup and Tooltip are sanitized HTML.
type PhotoMarker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Color   string  `json:"color"`
	Popup   string  `json:"popup"`
	Tooltip string  `json:"tooltip"`
}

type viewData struct {
	Center  point         `json:"center"`
	Zoom    int           `json:"zoom"`
	Clients []ClientLayer `json:"clients"`
	Photos  []PhotoMarker `json:"photos"`
}

// View is everything the template needs.
type View struct {
	Title   string
	Clients []ClientLayer // sorted by name
	Photos  []PhotoMarker
	Data    viewData
}

// Renderer writes the standalone HTML map.
type Renderer struct {
	path   string
	title  string
	tmpl   *template.Template
	policy *bluemonday.Policy
	logger *slog.Logger
}

func NewRenderer(path, title string, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if title == "" {
		title = DefaultTitle
	}
	tmpl, err := template.ParseFS(templateFS, "templates/map.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse map template: %w", err)
	}
	return &Renderer{
		path:   path,
		title:  title,
		tmpl:   tmpl,
		policy: bluemonday.StrictPolicy(),
		logger: logger,
	}, nil
}

// Path returns the output file.
func (r *Renderer) Path() string { return r.path }

// Build groups attributed records by client. Records with no client are
// skipped; common.ErrNoPoints is returned when none remain.
func (r *Renderer) Build(records []entity.CoordinateRecord, sites []entity.ClientSite) (View, error) {
	byName := make(map[string]entity.ClientSite, len(sites))
	for _, s := range sites {
		byName[s.Name] = s
	}

	layers := map[string]*ClientLayer{}
	var photos []PhotoMarker
	var sumLat, sumLon float64
	for _, rec := range records {
		name := rec.ClientName()
		if name == "" {
			continue
		}
		layer, ok := layers[name]
		if !ok {
			layer = r.newLayer(name, byName)
			layers[name] = layer
		}
		layer.Count++
		sumLat += rec.Latitude
		sumLon += rec.Longitude

		safeName := r.policy.Sanitize(name)
		safeTS := r.policy.Sanitize(rec.Timestamp)
		popup := fmt.Sprintf("<b>%s</b><br>Data: %s", safeName, safeTS)
		if ex := r.excerpt(rec.RawText); ex != "" {
			popup += "<br><small>" + ex + "</small>"
		}
		photos = append(photos, PhotoMarker{
			Lat:     rec.Latitude,
			Lon:     rec.Longitude,
			Color:   layer.Color,
			Popup:   popup,
			Tooltip: safeName + " - " + safeTS,
		})
	}
	if len(photos) == 0 {
		return View{}, common.ErrNoPoints
	}

	clients := make([]ClientLayer, 0, len(layers))
	for _, l := range layers {
		clients = append(clients, *l)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })

	n := float64(len(photos))
	return View{
		Title:   r.title,
		Clients: clients,
		Photos:  photos,
		Data: viewData{
			Center:  point{Lat: sumLat / n, Lon: sumLon / n},
			Zoom:    DefaultZoom,
			Clients: clients,
			Photos:  photos,
		},
	}, nil
}

func (r *Renderer) newLayer(name string, sites map[string]entity.ClientSite) *ClientLayer {
	safe := r.policy.Sanitize(name)
	site, ok := sites[name]
	if !ok {
		r.logger.Warn("points attributed to unregistered client", "client", name)
		return &ClientLayer{Name: name, Color: fallbackColor}
	}
	return &ClientLayer{
		Name:        name,
		Color:       site.Color,
		HasSite:     true,
		Lat:         site.Latitude,
		Lon:         site.Longitude,
		Radius:      site.RadiusMeters,
		FencePopup:  "Geofence: " + safe,
		CenterPopup: "<b>Centro: " + safe + "</b>",
	}
}

// excerpt returns the first excerptRunes runes of the OCR text, sanitized.
func (r *Renderer) excerpt(text string) string {
	if text == "" {
		return ""
	}
	if utf8.RuneCountInString(text) > excerptRunes {
		text = string([]rune(text)[:excerptRunes]) + "…"
	}
	return r.policy.Sanitize(text)
}

// Render builds the view and atomically replaces the map file.
func (r *Renderer) Render(records []entity.CoordinateRecord, sites []entity.ClientSite) error {
	view, err := r.Build(records, sites)
	if err != nil {
		r.logger.Warn("map not generated", "error", err, "records", len(records))
		return err
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return fmt.Errorf("execute map template: %w", err)
	}
	if err := writeFileAtomic(r.path, buf.Bytes()); err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	r.logger.Info("map generated", "path", r.path, "points", len(view.Photos), "clients", len(view.Clients))
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	_ = tmp.Chmod(0o644)
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
