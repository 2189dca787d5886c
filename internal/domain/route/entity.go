package route

import (
	"time"

	"buyback-logistics/internal/domain/pickup"

	"github.com/google/uuid"
)

// Status represents the status of a route.
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}

// Efficiency classification by total route distance.
const (
	EfficiencyExcellent = "excellent"
	EfficiencyGood      = "good"
	EfficiencyFair      = "fair"
	EfficiencyPoor      = "poor"
)

// Route is a day's ordered pickup sequence. Ordering is immutable once
// created except through explicit re-optimization.
type Route struct {
	ID     uuid.UUID
	Date   time.Time
	Status Status

	Pickups []*pickup.Location

	EstimatedDistanceKm float64
	EstimatedDurationMin int
	ActualDistanceKm    *float64
	ActualDurationMin   *int
	FuelCost            float64
	Efficiency          string
	TotalValue          float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
