package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeFormat is the wire/storage format for slot start and end times.
const TimeFormat = "15:04"

// DateFormat is the wire/storage format for slot dates.
const DateFormat = "2006-01-02"

// Slot is a capacity-bounded hourly time window on a given date.
// Slots are created once per operating hour during the rolling window and
// are never deleted, only blocked or unblocked.
type Slot struct {
	ID              uuid.UUID
	Date            time.Time
	StartTime       string
	EndTime         string
	Capacity        int
	CurrentBookings int
	IsBlocked       bool
	IsAvailable     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartAt combines the slot date and start time into a wall-clock instant.
func (s *Slot) StartAt() (time.Time, error) {
	t, err := time.ParseInLocation(TimeFormat, s.StartTime, s.Date.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse slot start time %q: %w", s.StartTime, err)
	}
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), t.Hour(), t.Minute(), 0, 0, s.Date.Location()), nil
}

// StartHour returns the slot's starting hour, or -1 when unparseable.
func (s *Slot) StartHour() int {
	t, err := time.Parse(TimeFormat, s.StartTime)
	if err != nil {
		return -1
	}
	return t.Hour()
}

// AppointmentStatus represents the status of a booked appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// ActiveStatuses are appointment states that hold slot capacity.
var ActiveStatuses = []AppointmentStatus{StatusScheduled, StatusConfirmed}

// Appointment is a lead's booking against a slot.
type Appointment struct {
	ID          uuid.UUID
	LeadID      string
	SlotID      uuid.UUID
	Status      AppointmentStatus
	IsSameDay   bool
	Address     string
	DeviceValue float64
	Priority    string
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Slot *Slot
}

// StateLog is one appointment state transition, append-only.
type StateLog struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	FromState     string
	ToState       string
	Reason        string
	CreatedAt     time.Time
}
