package kernel

import (
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0
)

// ErrLocationIsNotConstructed is returned when attempting to use an improperly
// initialized Location. Locations must be created via NewLocation.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Location is an immutable value object holding a geographic position reported
// by a driver device: WGS84 latitude/longitude plus the moment the position
// was recorded. The zero value is invalid and fails validation.
//
// Example:
//
//	loc, err := kernel.NewLocation(24.7136, 46.6753, time.Now())
//	if err != nil {
//	    // handle validation error
//	}
type Location struct { //nolint:recvcheck //using for validation
	lat        float64
	lng        float64
	recordedAt time.Time
	guard      guard.ConstructorGuard
}

// NewLocation creates a Location with validated coordinates.
// Latitude must be within [LatitudeMin..LatitudeMax], longitude within
// [LongitudeMin..LongitudeMax], and recordedAt must not be the zero time.
func NewLocation(lat, lng float64, recordedAt time.Time) (Location, error) {
	if lat < LatitudeMin || lat > LatitudeMax {
		return Location{}, errs.NewValueIsOutOfRangeError("latitude", lat, LatitudeMin, LatitudeMax)
	}
	if lng < LongitudeMin || lng > LongitudeMax {
		return Location{}, errs.NewValueIsOutOfRangeError("longitude", lng, LongitudeMin, LongitudeMax)
	}
	if recordedAt.IsZero() {
		return Location{}, errs.NewValueIsRequiredError("recordedAt")
	}

	return Location{
		lat:        lat,
		lng:        lng,
		recordedAt: recordedAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Lat returns the latitude in degrees.
func (l Location) Lat() float64 {
	return l.lat
}

// Lng returns the longitude in degrees.
func (l Location) Lng() float64 {
	return l.lng
}

// RecordedAt returns when the position was recorded, in UTC.
func (l Location) RecordedAt() time.Time {
	return l.recordedAt
}

// IsNewerThan reports whether this location was recorded after other.
// Used to enforce "most recent wins" when overwriting a driver's last
// known location.
func (l Location) IsNewerThan(other Location) bool {
	return l.recordedAt.After(other.recordedAt)
}

// String implements fmt.Stringer.
func (l Location) String() string {
	return fmt.Sprintf("Location(%.6f,%.6f)", l.lat, l.lng)
}

// Validate returns ErrLocationIsNotConstructed for zero-value locations.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}
