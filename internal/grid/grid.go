// Package grid maps geographic coordinates onto the fixed claiming grid.
package grid

import (
	"fmt"
	"math"

	"gridmark/internal/domain"
)

// Size is the canonical square edge in degrees.
const Size = 0.01

// cellsPerDegree is 1/Size. Indexing multiplies by this instead of dividing by
// Size: 0.01 has no exact binary representation and dividing by it pushes values
// like 32.75/0.01 just below the integer boundary.
const cellsPerDegree = 100

// CellID returns the identifier of the square containing (lat, lng), in the form
// "{floor(lat/Size)}_{floor(lng/Size)}". Floor division (not truncation toward
// zero) keeps negative coordinates inside their containing square.
func CellID(lat, lng float64) (string, error) {
	if !valid(lat, lng) {
		return "", domain.ErrInvalidCoordinate
	}
	return fmt.Sprintf("%d_%d", index(lat), index(lng)), nil
}

// CellOrigin returns the south-west corner of the square containing (lat, lng).
func CellOrigin(lat, lng float64) (south, west float64, err error) {
	if !valid(lat, lng) {
		return 0, 0, domain.ErrInvalidCoordinate
	}
	return float64(index(lat)) * Size, float64(index(lng)) * Size, nil
}

func index(deg float64) int64 {
	return int64(math.Floor(deg * cellsPerDegree))
}

func valid(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
