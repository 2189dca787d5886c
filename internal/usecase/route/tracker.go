package route

import (
	"fmt"

	"buyback-logistics/internal/domain/pickup"
	appErrors "buyback-logistics/pkg/errors"
)

// pickupTransitions defines the allowed pickup lifecycle. A pickup can fail
// from any non-terminal state; completed and failed are final.
var pickupTransitions = map[pickup.Status][]pickup.Status{
	pickup.StatusPending:   {pickup.StatusEnRoute, pickup.StatusFailed},
	pickup.StatusEnRoute:   {pickup.StatusArrived, pickup.StatusFailed},
	pickup.StatusArrived:   {pickup.StatusCompleted, pickup.StatusFailed},
	pickup.StatusCompleted: {},
	pickup.StatusFailed:    {},
}

// ValidatePickupTransition checks whether a pickup may move between two states.
func ValidatePickupTransition(from, to pickup.Status) error {
	allowed, ok := pickupTransitions[from]
	if !ok {
		return appErrors.NewAppError(
			appErrors.CodeValidation,
			fmt.Sprintf("Unknown pickup status %q", from),
			pickup.ErrInvalidStatus,
		)
	}

	for _, s := range allowed {
		if s == to {
			return nil
		}
	}

	return appErrors.NewAppError(
		appErrors.CodeInvalidTransition,
		fmt.Sprintf("Cannot transition pickup from %q to %q", from, to),
		pickup.ErrInvalidStatusTransition,
	)
}

// AllowedPickupTransitions reports the valid next states for a pickup.
func AllowedPickupTransitions(from pickup.Status) []pickup.Status {
	return pickupTransitions[from]
}

// nextPending returns the stop the driver should head to: the first
// en_route stop if any, otherwise the first pending stop in sequence order.
// Nil when the route is done.
func nextPending(pickups []*pickup.Location) *pickup.Location {
	for _, p := range pickups {
		if p.Status == pickup.StatusEnRoute {
			return p
		}
	}
	for _, p := range pickups {
		if p.Status == pickup.StatusPending {
			return p
		}
	}
	return nil
}

// allTerminal reports whether every stop has reached a final state.
func allTerminal(pickups []*pickup.Location) bool {
	for _, p := range pickups {
		if !p.Status.IsTerminal() {
			return false
		}
	}
	return len(pickups) > 0
}
