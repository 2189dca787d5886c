package route

import (
	"context"
	"time"

	"buyback-logistics/internal/domain/pickup"

	"github.com/google/uuid"
)

// Repository persists routes and their ordered pickups.
type Repository interface {
	Create(ctx context.Context, r *Route) error
	GetByID(ctx context.Context, routeID uuid.UUID) (*Route, error)
	ListByDate(ctx context.Context, date time.Time) ([]*Route, error)
	UpdateStatus(ctx context.Context, routeID uuid.UUID, status Status) error
	SetActuals(ctx context.Context, routeID uuid.UUID, distanceKm float64, durationMin int) error

	// ReplacePickups swaps the ordered pickup set after re-optimization.
	ReplacePickups(ctx context.Context, routeID uuid.UUID, pickups []*pickup.Location, estimatedKm float64, estimatedMin int, fuelCost float64, efficiency string) error

	GetPickup(ctx context.Context, routeID, pickupID uuid.UUID) (*pickup.Location, error)
	UpdatePickupStatus(ctx context.Context, pickupID uuid.UUID, status pickup.Status) error
}
