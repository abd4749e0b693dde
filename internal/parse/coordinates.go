package parse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
)

// ErrInvalidCoordinates is returned (wrapped) for any rejected coordinate string.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

var (
	// Hemisphere letters never flip the sign; the numeric sign is authoritative.
	latLetters = strings.NewReplacer("S", "", "N", "", "s", "", "n", "")
	// W/E plus Portuguese L(este)/O(este); v is a common OCR misread of W.
	lonLetters = strings.NewReplacer("W", "", "E", "", "L", "", "O", "", "w", "", "e", "", "l", "", "o", "", "v", "", "V", "")
)

// ParseCoordinates converts a two-token string such as "-6,6386S -51,9896W"
// into a validated point.
func ParseCoordinates(s string) (entity.Point, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return entity.Point{}, fmt.Errorf("%w: want 2 tokens, got %d in %q", ErrInvalidCoordinates, len(parts), s)
	}

	lat, err := parseDegrees(latLetters.Replace(parts[0]))
	if err != nil {
		return entity.Point{}, fmt.Errorf("%w: latitude %q: %v", ErrInvalidCoordinates, parts[0], err)
	}
	lon, err := parseDegrees(lonLetters.Replace(parts[1]))
	if err != nil {
		return entity.Point{}, fmt.Errorf("%w: longitude %q: %v", ErrInvalidCoordinates, parts[1], err)
	}

	if lat < -90 || lat > 90 {
		return entity.Point{}, fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinates, lat)
	}
	if lon < -180 || lon > 180 {
		return entity.Point{}, fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinates, lon)
	}
	return entity.Point{Lat: lat, Lon: lon}, nil
}

func parseDegrees(tok string) (float64, error) {
	tok = strings.ReplaceAll(tok, ",", ".")
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}
