package maps

import (
	"context"
	"encoding/json"
	"fmt"
)

// Coordinates is a geocoded lat/lng pair.
type Coordinates struct {
	Lat float64
	Lng float64
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address string to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (Coordinates, error) {
	resp, err := c.get(ctx, "/maps/api/geocode/json", map[string]string{
		"address": address,
	})
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if err := statusToError(decoded.Status, decoded.ErrorMessage); err != nil {
		return Coordinates{}, err
	}
	if len(decoded.Results) == 0 {
		return Coordinates{}, ErrNoResults
	}

	loc := decoded.Results[0].Geometry.Location
	return Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}
