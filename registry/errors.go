package registry

import "errors"

var (
	// ErrAlreadyRegistered is returned when an identity registers twice.
	ErrAlreadyRegistered = errors.New("farmer already registered")

	// ErrFarmerNotFound is returned when a farmer id or identity is unknown.
	ErrFarmerNotFound = errors.New("farmer not found")

	// ErrHerbRecordNotFound is returned when a processing event references a
	// herb record that was never stored.
	ErrHerbRecordNotFound = errors.New("herb record not found")

	// ErrEventNotFound is returned when a processing event id is unknown.
	ErrEventNotFound = errors.New("processing event not found")

	// ErrLabResultNotFound is returned when a lab result id is unknown.
	ErrLabResultNotFound = errors.New("lab result not found")

	// ErrEmptyField is returned when a required string field is empty.
	ErrEmptyField = errors.New("required field is empty")
)
