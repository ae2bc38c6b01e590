package geofence

import "errors"

var (
	// ErrUnauthorized is returned when a caller other than the current
	// authority attempts a zone mutation.
	ErrUnauthorized = errors.New("caller is not the zone authority")

	// ErrInvalidCoordinates is returned when min >= max on either axis.
	ErrInvalidCoordinates = errors.New("invalid coordinates: min must be less than max")

	// ErrInvalidZoneId is returned when a zone id is zero or was never assigned.
	ErrInvalidZoneId = errors.New("invalid zone id")

	// ErrZoneNotFound is returned by the strict lookup for unknown zones.
	ErrZoneNotFound = errors.New("zone not found")

	// ErrInvalidAuthority is returned when transferring authority to an
	// empty identity.
	ErrInvalidAuthority = errors.New("invalid authority identity")
)
