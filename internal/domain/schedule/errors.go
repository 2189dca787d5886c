package schedule

import "errors"

var (
	ErrSlotNotFound        = errors.New("slot not found")
	ErrSlotFull            = errors.New("slot is at capacity")
	ErrSlotBlocked         = errors.New("slot is blocked")
	ErrSlotInPast          = errors.New("slot is in the past")
	ErrSameDayCutoff       = errors.New("same-day booking cutoff passed")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrCancelWindow        = errors.New("cancellation window has closed")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
)
