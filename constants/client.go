package constants

import "github.com/joseph-ayodele/geophoto-tracker/internal/entity"

// DefaultRadiusMeters is the geofence radius used by every Ourilândia site.
const DefaultRadiusMeters = 500

// defaultClients is the fixed registry loaded at process start.
var defaultClients = []entity.ClientSite{
	{Name: "Oia Giro", Latitude: -6.754173, Longitude: -51.071787, RadiusMeters: DefaultRadiusMeters, Color: "blue"},
	{Name: "Oia Ideal", Latitude: -6.750542, Longitude: -51.080360, RadiusMeters: DefaultRadiusMeters, Color: "red"},
	{Name: "Oia Macre", Latitude: -6.759242, Longitude: -51.071143, RadiusMeters: DefaultRadiusMeters, Color: "green"},
	{Name: "Oia Parazao", Latitude: -6.751243, Longitude: -51.078318, RadiusMeters: DefaultRadiusMeters, Color: "purple"},
	{Name: "Oia Norte Sul", Latitude: -6.752724, Longitude: -51.076518, RadiusMeters: DefaultRadiusMeters, Color: "orange"},
	{Name: "Oia Mix", Latitude: -6.730903, Longitude: -51.071559, RadiusMeters: DefaultRadiusMeters, Color: "darkred"},
}

// DefaultClients returns a copy of the client registry so callers cannot mutate it.
func DefaultClients() []entity.ClientSite {
	out := make([]entity.ClientSite, len(defaultClients))
	copy(out, defaultClients)
	return out
}
