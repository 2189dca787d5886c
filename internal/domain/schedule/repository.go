package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SlotRepository persists schedule slots.
type SlotRepository interface {
	// EnsureSlots creates any missing slots, treating duplicates as a no-op.
	EnsureSlots(ctx context.Context, slots []*Slot) (created int, err error)
	GetByID(ctx context.Context, slotID uuid.UUID) (*Slot, error)
	GetByDateTime(ctx context.Context, date time.Time, startTime string) (*Slot, error)
	ListByDate(ctx context.Context, date time.Time) ([]*Slot, error)
	SetBlocked(ctx context.Context, slotID uuid.UUID, blocked bool) error

	// Reserve atomically increments the booking count while it is below
	// capacity. Returns ErrSlotFull when the conditional update misses.
	Reserve(ctx context.Context, slotID uuid.UUID) error
	// Release decrements the booking count, never below zero.
	Release(ctx context.Context, slotID uuid.UUID) error
}

// AppointmentRepository persists appointments and their state logs.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, apptID uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, apptID uuid.UUID, status AppointmentStatus) error
	ListConfirmedByDate(ctx context.Context, date time.Time) ([]*Appointment, error)

	AppendStateLog(ctx context.Context, entry *StateLog) error
	ListStateLogs(ctx context.Context, apptID uuid.UUID) ([]*StateLog, error)
}
