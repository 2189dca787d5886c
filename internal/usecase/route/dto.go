package route

import (
	"time"

	"buyback-logistics/internal/domain/pickup"
	domainRoute "buyback-logistics/internal/domain/route"
)

type BuildRouteRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type UpdatePickupStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending en_route arrived completed failed"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type PickupResponse struct {
	ID            string     `json:"id"`
	AppointmentID string     `json:"appointment_id"`
	LeadID        string     `json:"lead_id"`
	Sequence      int        `json:"sequence"`
	Address       string     `json:"address"`
	Lat           *float64   `json:"lat,omitempty"`
	Lng           *float64   `json:"lng,omitempty"`
	WindowStart   *time.Time `json:"window_start,omitempty"`
	WindowEnd     *time.Time `json:"window_end,omitempty"`
	Priority      string     `json:"priority"`
	DeviceValue   float64    `json:"device_value"`
	Status        string     `json:"status"`
	ETA           *time.Time `json:"eta,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

type RouteResponse struct {
	ID                   string            `json:"id"`
	Date                 string            `json:"date"`
	Status               string            `json:"status"`
	Pickups              []*PickupResponse `json:"pickups"`
	EstimatedDistanceKm  float64           `json:"estimated_distance_km"`
	EstimatedDurationMin int               `json:"estimated_duration_min"`
	ActualDistanceKm     *float64          `json:"actual_distance_km,omitempty"`
	ActualDurationMin    *int              `json:"actual_duration_min,omitempty"`
	FuelCost             float64           `json:"fuel_cost"`
	Efficiency           string            `json:"efficiency"`
	TotalValue           float64           `json:"total_value"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

func ToPickupResponse(p *pickup.Location) *PickupResponse {
	if p == nil {
		return nil
	}
	return &PickupResponse{
		ID:            p.ID.String(),
		AppointmentID: p.AppointmentID.String(),
		LeadID:        p.LeadID,
		Sequence:      p.Sequence,
		Address:       p.Address,
		Lat:           p.Lat,
		Lng:           p.Lng,
		WindowStart:   p.WindowStart,
		WindowEnd:     p.WindowEnd,
		Priority:      string(p.Priority),
		DeviceValue:   p.DeviceValue,
		Status:        string(p.Status),
		ETA:           p.ETA,
		Notes:         p.Notes,
	}
}

func ToRouteResponse(r *domainRoute.Route) *RouteResponse {
	if r == nil {
		return nil
	}

	pickups := make([]*PickupResponse, 0, len(r.Pickups))
	for _, p := range r.Pickups {
		pickups = append(pickups, ToPickupResponse(p))
	}

	return &RouteResponse{
		ID:                   r.ID.String(),
		Date:                 r.Date.Format("2006-01-02"),
		Status:               string(r.Status),
		Pickups:              pickups,
		EstimatedDistanceKm:  r.EstimatedDistanceKm,
		EstimatedDurationMin: r.EstimatedDurationMin,
		ActualDistanceKm:     r.ActualDistanceKm,
		ActualDurationMin:    r.ActualDurationMin,
		FuelCost:             r.FuelCost,
		Efficiency:           r.Efficiency,
		TotalValue:           r.TotalValue,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}
