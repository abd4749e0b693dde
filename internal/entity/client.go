package entity

// ClientSite is a registered client location with its circular geofence.
type ClientSite struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	Color        string  `json:"color"`
}

// Center returns the geofence center.
func (c ClientSite) Center() Point {
	return Point{Lat: c.Latitude, Lon: c.Longitude}
}
