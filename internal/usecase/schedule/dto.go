package schedule

import (
	"time"

	domainSchedule "buyback-logistics/internal/domain/schedule"

	"github.com/google/uuid"
)

// Request DTOs
type BookingRequest struct {
	LeadID      string    `json:"lead_id" validate:"required,min=1,max=64"`
	SlotID      uuid.UUID `json:"slot_id" validate:"required"`
	Address     string    `json:"address" validate:"required,min=5"`
	DeviceValue float64   `json:"device_value" validate:"required,min=0"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Notes       *string   `json:"notes" validate:"omitempty,max=500"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed completed cancelled no_show"`
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type BlockSlotRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
}

// Response DTOs
type SlotResponse struct {
	ID              uuid.UUID `json:"id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Capacity        int       `json:"capacity"`
	CurrentBookings int       `json:"current_bookings"`
	Remaining       int       `json:"remaining"`
}

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	LeadID      string    `json:"lead_id"`
	SlotID      uuid.UUID `json:"slot_id"`
	Status      string    `json:"status"`
	IsSameDay   bool      `json:"is_same_day"`
	Address     string    `json:"address"`
	DeviceValue float64   `json:"device_value"`
	Notes       *string   `json:"notes,omitempty"`
	Slot        *SlotResponse `json:"slot,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToSlotResponse(s *domainSchedule.Slot) *SlotResponse {
	return &SlotResponse{
		ID:              s.ID,
		Date:            s.Date.Format(domainSchedule.DateFormat),
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		Capacity:        s.Capacity,
		CurrentBookings: s.CurrentBookings,
		Remaining:       s.Capacity - s.CurrentBookings,
	}
}

func ToAppointmentResponse(a *domainSchedule.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:          a.ID,
		LeadID:      a.LeadID,
		SlotID:      a.SlotID,
		Status:      string(a.Status),
		IsSameDay:   a.IsSameDay,
		Address:     a.Address,
		DeviceValue: a.DeviceValue,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
	}
	if a.Slot != nil {
		resp.Slot = ToSlotResponse(a.Slot)
	}

	return resp
}
