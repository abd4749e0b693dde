package constants

// Outcome is the canonical result of processing one submitted photo.
type Outcome string

// Stable values (used in logs and batch summaries).
const (
	OutcomeAccepted         Outcome = "ACCEPTED"          // record stored
	OutcomeExtractionFailed Outcome = "EXTRACTION_FAILED" // no date-time or coordinates
	OutcomeOutsideGeofence  Outcome = "OUTSIDE_GEOFENCE"  // no tag and no geofence match
	OutcomeDuplicate        Outcome = "DUPLICATE"         // same timestamp and position already stored
	OutcomeFailed           Outcome = "FAILED"            // transport or internal failure
)

// TimestampLayout is the canonical record timestamp format (DD/MM/YYYY HH:MM:SS).
const TimestampLayout = "02/01/2006 15:04:05"
