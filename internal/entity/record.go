package entity

// CoordinateRecord is one accepted photo submission.
// JSON field names match the persisted collection file.
type CoordinateRecord struct {
	ID        int64   `json:"id"`
	Timestamp string  `json:"timestamp"` // DD/MM/YYYY HH:MM:SS
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Client    *string `json:"cliente"`
	RawText   string  `json:"texto_bruto"`
}

// ClientName returns the attributed client, or "" when unresolved.
func (r CoordinateRecord) ClientName() string {
	if r.Client == nil {
		return ""
	}
	return *r.Client
}

// WithClient returns a copy of r attributed to name.
func (r CoordinateRecord) WithClient(name string) CoordinateRecord {
	n := name
	r.Client = &n
	return r
}
