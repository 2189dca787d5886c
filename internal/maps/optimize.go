package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// OptimizedOrder is the provider's reordering of intermediate waypoints.
// Order holds indexes into the submitted waypoint slice. The distance and
// duration sums cover travel between waypoints only, not the legs to and
// from the origin.
type OptimizedOrder struct {
	Order           []int
	DistanceMeters  int
	DurationSeconds int
}

// OptimizeWaypoints asks the provider to reorder intermediate stops for a
// hub→hub round trip. The caller is responsible for keeping the waypoint
// count within the provider's limit.
func (c *Client) OptimizeWaypoints(ctx context.Context, hub string, waypoints []string) (OptimizedOrder, error) {
	if len(waypoints) == 0 {
		return OptimizedOrder{}, ErrNoResults
	}

	resp, err := c.get(ctx, "/maps/api/directions/json", map[string]string{
		"origin":      hub,
		"destination": hub,
		"waypoints":   "optimize:true|" + strings.Join(waypoints, "|"),
	})
	if err != nil {
		return OptimizedOrder{}, fmt.Errorf("optimize request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return OptimizedOrder{}, fmt.Errorf("decode optimize response: %w", err)
	}

	if err := statusToError(decoded.Status, decoded.ErrorMessage); err != nil {
		return OptimizedOrder{}, err
	}
	if len(decoded.Routes) == 0 {
		return OptimizedOrder{}, ErrNoResults
	}

	r := decoded.Routes[0]
	if len(r.WaypointOrder) != len(waypoints) {
		return OptimizedOrder{}, fmt.Errorf("maps: waypoint order size %d, want %d", len(r.WaypointOrder), len(waypoints))
	}

	out := OptimizedOrder{Order: r.WaypointOrder}
	// A hub→hub trip over n waypoints comes back as n+1 legs; the first
	// and last are the hub legs and are excluded from the totals.
	for i, leg := range r.Legs {
		if i == 0 || i == len(r.Legs)-1 {
			continue
		}
		out.DistanceMeters += leg.Distance.Value
		out.DurationSeconds += leg.Duration.Value
	}

	return out, nil
}
