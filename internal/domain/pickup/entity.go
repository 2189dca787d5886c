package pickup

import (
	"time"

	"github.com/google/uuid"
)

// Priority orders pickups when seeding a route.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank maps a priority to a sortable weight (higher is more urgent).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Status represents a pickup's lifecycle during route execution.
type Status string

const (
	StatusPending   Status = "pending"
	StatusEnRoute   Status = "en_route"
	StatusArrived   Status = "arrived"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusEnRoute, StatusArrived, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Location is a single stop on a route, owned by the route once assembled.
type Location struct {
	ID            uuid.UUID
	RouteID       uuid.UUID
	AppointmentID uuid.UUID
	LeadID        string
	Sequence      int
	Address       string
	Lat           *float64
	Lng           *float64
	WindowStart   *time.Time
	WindowEnd     *time.Time
	Priority      Priority
	DeviceValue   float64
	Status        Status
	ETA           *time.Time
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DistanceCalculation is the ephemeral result of a distance/fee computation.
// It is recomputed per request and never persisted.
type DistanceCalculation struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
	PickupFee       float64 `json:"pickup_fee"`
	IsEligible      bool    `json:"is_eligible"`
	RequiresReview  bool    `json:"requires_review"`
	Source          string  `json:"source"`
	Polyline        string  `json:"polyline,omitempty"`
	Reason          string  `json:"reason,omitempty"`
}

// Estimation sources, coarsest last.
const (
	SourceRouted    = "routed"
	SourceHaversine = "haversine"
	SourceHeuristic = "heuristic"
)
