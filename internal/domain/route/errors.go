package route

import "errors"

var (
	ErrRouteNotFound  = errors.New("route not found")
	ErrRouteCompleted = errors.New("route is already completed")
	ErrNoPickups      = errors.New("no pickups available for route")
)
