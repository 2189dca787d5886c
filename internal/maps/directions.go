package maps

import (
	"context"
	"encoding/json"
	"fmt"
)

// RouteResult is a single origin→destination routed leg.
type RouteResult struct {
	DistanceMeters  int
	DurationSeconds int
	Polyline        string
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		WaypointOrder []int `json:"waypoint_order"`
		Legs          []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// Directions computes a traffic-aware single-pair route.
func (c *Client) Directions(ctx context.Context, origin, destination string) (RouteResult, error) {
	resp, err := c.get(ctx, "/maps/api/directions/json", map[string]string{
		"origin":         origin,
		"destination":    destination,
		"departure_time": "now",
	})
	if err != nil {
		return RouteResult{}, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return RouteResult{}, fmt.Errorf("decode directions response: %w", err)
	}

	if err := statusToError(decoded.Status, decoded.ErrorMessage); err != nil {
		return RouteResult{}, err
	}
	if len(decoded.Routes) == 0 || len(decoded.Routes[0].Legs) == 0 {
		return RouteResult{}, ErrNoResults
	}

	out := RouteResult{Polyline: decoded.Routes[0].OverviewPolyline.Points}
	for _, leg := range decoded.Routes[0].Legs {
		out.DistanceMeters += leg.Distance.Value
		out.DurationSeconds += leg.Duration.Value
	}

	return out, nil
}
