package pickup

import "errors"

var (
	ErrPickupNotFound          = errors.New("pickup not found")
	ErrInvalidStatus           = errors.New("invalid pickup status")
	ErrInvalidStatusTransition = errors.New("invalid pickup status transition")
)
