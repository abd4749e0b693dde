package geofence

import (
	"log/slog"
	"math"

	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371000

// Distance returns the haversine great-circle distance in meters.
func Distance(a, b entity.Point) float64 {
	phi1, phi2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dPhi, dLambda := (b.Lat-a.Lat)*math.Pi/180, (b.Lon-a.Lon)*math.Pi/180
	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) + math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Resolver attributes points to the nearest client whose geofence contains them.
type Resolver struct {
	sites  []entity.ClientSite
	logger *slog.Logger
}

func NewResolver(sites []entity.ClientSite, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	cp := make([]entity.ClientSite, len(sites))
	copy(cp, sites)
	return &Resolver{sites: cp, logger: logger}
}

// Sites returns a copy of the registry the resolver was built with.
func (r *Resolver) Sites() []entity.ClientSite {
	out := make([]entity.ClientSite, len(r.sites))
	copy(out, r.sites)
	return out
}

// Lookup returns the registered site with the given name.
func (r *Resolver) Lookup(name string) (entity.ClientSite, bool) {
	for _, s := range r.sites {
		if s.Name == name {
			return s, true
		}
	}
	return entity.ClientSite{}, false
}

// Resolve returns the client whose center is nearest to p among those with
// distance strictly below their radius. Equal distances keep registry order.
func (r *Resolver) Resolve(p entity.Point) (string, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, s := range r.sites {
		d := Distance(p, s.Center())
		if d < s.RadiusMeters && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		r.logger.Info("point outside every geofence", "lat", p.Lat, "lon", p.Lon)
		return "", false
	}
	r.logger.Info("geofence matched", "client", r.sites[best].Name, "distance_m", math.Round(bestDist))
	return r.sites[best].Name, true
}
