package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Latitude and longitude bounds in decimal degrees.
const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// Location is a value object holding a geographic coordinate pair.
// Used for delivery addresses and the last known position of workers.
//
// Location is immutable: construct via NewLocation, which validates that
// both coordinates fall within their legal ranges. The zero value represents
// "no location" and fails Validate.
type Location struct {
	latitude  float64
	longitude float64

	isSet bool
}

// NewLocation creates a Location after validating the coordinate ranges.
func NewLocation(latitude, longitude float64) (Location, error) {
	if latitude < minLatitude || latitude > maxLatitude {
		return Location{}, errs.NewValueIsOutOfRangeError("latitude", latitude, minLatitude, maxLatitude)
	}
	if longitude < minLongitude || longitude > maxLongitude {
		return Location{}, errs.NewValueIsOutOfRangeError("longitude", longitude, minLongitude, maxLongitude)
	}

	return Location{
		latitude:  latitude,
		longitude: longitude,
		isSet:     true,
	}, nil
}

// Latitude returns the latitude in decimal degrees.
func (l Location) Latitude() float64 {
	return l.latitude
}

// Longitude returns the longitude in decimal degrees.
func (l Location) Longitude() float64 {
	return l.longitude
}

// IsEqual reports whether two locations hold identical coordinates.
func (l Location) IsEqual(other Location) bool {
	return l.latitude == other.latitude && l.longitude == other.longitude && l.isSet == other.isSet
}

// Validate returns an error for the zero value, which represents no location.
func (l Location) Validate() error {
	if !l.isSet {
		return errs.NewValueIsRequiredError("location must be created via NewLocation")
	}
	return nil
}

// String formats the coordinate pair for logs and diagnostics.
func (l Location) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", l.latitude, l.longitude)
}
