package route

import (
	"context"
	"math"
	"time"

	"buyback-logistics/internal/config"
	"buyback-logistics/internal/domain/pickup"
	domainRoute "buyback-logistics/internal/domain/route"
	domainSchedule "buyback-logistics/internal/domain/schedule"
	"buyback-logistics/internal/logger"
	"buyback-logistics/internal/maps"
	"buyback-logistics/internal/usecase/distance"
	"buyback-logistics/pkg/cache"
	appErrors "buyback-logistics/pkg/errors"
	"buyback-logistics/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service builds, re-optimizes and tracks daily pickup routes.
type Service struct {
	routeRepo domainRoute.Repository
	apptRepo  domainSchedule.AppointmentRepository
	maps      *maps.Client
	cache     cache.Cache

	routing config.RoutingConfig
	mapsCfg config.MapsConfig
	pricing config.PricingConfig
	hub     config.HubConfig

	now func() time.Time
}

func NewService(
	routeRepo domainRoute.Repository,
	apptRepo domainSchedule.AppointmentRepository,
	mapsClient *maps.Client,
	routeCache cache.Cache,
	cfg *config.Config,
) *Service {
	return &Service{
		routeRepo: routeRepo,
		apptRepo:  apptRepo,
		maps:      mapsClient,
		cache:     routeCache,
		routing:   cfg.Routing,
		mapsCfg:   cfg.Maps,
		pricing:   cfg.Pricing,
		hub:       cfg.Hub,
		now:       time.Now,
	}
}

func routeCacheKey(date time.Time) string {
	return "routes:" + date.Format("2006-01-02")
}

// Build assembles a route from the day's confirmed appointments, orders the
// stops and persists the result. The route starts in planning status.
func (s *Service) Build(ctx context.Context, date time.Time) (*RouteResponse, error) {
	appts, err := s.apptRepo.ListConfirmedByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(appts) == 0 {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "No confirmed appointments for this date", domainRoute.ErrNoPickups)
	}

	stops := make([]*pickup.Location, 0, len(appts))
	for _, appt := range appts {
		stop := &pickup.Location{
			ID:            uuid.New(),
			AppointmentID: appt.ID,
			LeadID:        appt.LeadID,
			Address:       appt.Address,
			Priority:      pickup.Priority(appt.Priority),
			DeviceValue:   appt.DeviceValue,
			Status:        pickup.StatusPending,
			Notes:         appt.Notes,
		}
		if appt.Slot != nil {
			if start, err := appt.Slot.StartAt(); err == nil {
				windowStart := start
				windowEnd := start.Add(time.Hour)
				stop.WindowStart = &windowStart
				stop.WindowEnd = &windowEnd
			}
		}
		stops = append(stops, stop)
	}

	ordered, totalKm, durationMin := s.optimize(ctx, stops)

	totalValue := 0.0
	for i, stop := range ordered {
		stop.Sequence = i + 1
		totalValue += stop.DeviceValue
	}
	s.assignETAs(ordered)

	r := &domainRoute.Route{
		ID:                   uuid.New(),
		Date:                 date,
		Status:               domainRoute.StatusPlanning,
		Pickups:              ordered,
		EstimatedDistanceKm:  roundKm(totalKm),
		EstimatedDurationMin: durationMin,
		FuelCost:             roundKm(totalKm * s.routing.FuelCostPerKm),
		Efficiency:           classifyEfficiency(totalKm),
		TotalValue:           totalValue,
	}

	if err := s.routeRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.cache.Delete(routeCacheKey(date))

	logger.Info("Route built",
		zap.String("route_id", r.ID.String()),
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("stops", len(ordered)),
		zap.Float64("estimated_km", r.EstimatedDistanceKm),
		zap.String("efficiency", r.Efficiency),
		zap.String("event", "route_built"),
	)

	return ToRouteResponse(r), nil
}

// optimize orders the stops and returns the ordered slice with total
// distance and duration estimates. The routing provider handles small stop
// sets; larger sets, or any provider failure, fall back to the local
// nearest-neighbor heuristic.
func (s *Service) optimize(ctx context.Context, stops []*pickup.Location) ([]*pickup.Location, float64, int) {
	if s.maps != nil && len(stops) > 1 && len(stops) <= s.mapsCfg.MaxWaypoints {
		addresses := make([]string, len(stops))
		for i, stop := range stops {
			addresses[i] = stop.Address
		}

		result, err := s.maps.OptimizeWaypoints(ctx, s.hub.Address, addresses)
		if err == nil && len(result.Order) == len(stops) {
			ordered := make([]*pickup.Location, len(stops))
			for pos, idx := range result.Order {
				ordered[pos] = stops[idx]
			}
			km := float64(result.DistanceMeters) / 1000
			minutes := int(math.Round(float64(result.DurationSeconds)/60)) + s.routing.ServiceMinutes*len(stops)
			return ordered, km, minutes
		}
		if err != nil {
			logger.Warn("Waypoint optimization failed, using local heuristic",
				zap.Int("stops", len(stops)),
				zap.Error(err),
			)
		}
	}

	ordered := orderPickups(stops, s.pricing.RoadFactor)
	ordered = improveOrder2Opt(ordered, s.pricing.RoadFactor, s.routing.TwoOptPasses)
	km := tourDistanceKm(ordered, s.pricing.RoadFactor)
	minutes := distance.DurationMinutes(km, s.pricing.AverageSpeedKmh) + s.routing.ServiceMinutes*len(ordered)

	return ordered, km, minutes
}

// assignETAs walks the ordered stops from the first time window, adding
// travel and service time per leg. Skipped when no window anchors the day.
func (s *Service) assignETAs(ordered []*pickup.Location) {
	if len(ordered) == 0 || ordered[0].WindowStart == nil {
		return
	}

	at := *ordered[0].WindowStart
	for i, stop := range ordered {
		if i > 0 {
			legMinutes := distance.DurationMinutes(legKm(ordered[i-1], stop, s.pricing.RoadFactor), s.pricing.AverageSpeedKmh)
			at = at.Add(time.Duration(legMinutes+s.routing.ServiceMinutes) * time.Minute)
		}
		eta := at
		stop.ETA = &eta
	}
}

// ListByDate returns the day's routes, served from cache when fresh.
func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]*RouteResponse, error) {
	key := routeCacheKey(date)
	if cached, ok := s.cache.Get(key); ok {
		if responses, ok := cached.([]*RouteResponse); ok {
			return responses, nil
		}
	}

	routes, err := s.routeRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	responses := make([]*RouteResponse, 0, len(routes))
	for _, r := range routes {
		responses = append(responses, ToRouteResponse(r))
	}

	s.cache.Set(key, responses, s.routing.RouteCacheTTL)

	return responses, nil
}

func (s *Service) GetByID(ctx context.Context, routeID uuid.UUID) (*RouteResponse, error) {
	r, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		if err == domainRoute.ErrRouteNotFound {
			return nil, appErrors.NewAppError(appErrors.CodeNotFound, "Route not found", err)
		}
		return nil, err
	}
	return ToRouteResponse(r), nil
}

// Reoptimize reorders the stops that are still outstanding. Visited stops
// keep their position at the head of the sequence.
func (s *Service) Reoptimize(ctx context.Context, routeID uuid.UUID) (*RouteResponse, error) {
	r, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		if err == domainRoute.ErrRouteNotFound {
			return nil, appErrors.NewAppError(appErrors.CodeNotFound, "Route not found", err)
		}
		return nil, err
	}
	if r.Status == domainRoute.StatusCompleted {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidTransition, "Route already completed", domainRoute.ErrRouteCompleted)
	}

	done := make([]*pickup.Location, 0, len(r.Pickups))
	remaining := make([]*pickup.Location, 0, len(r.Pickups))
	for _, p := range r.Pickups {
		if p.Status.IsTerminal() {
			done = append(done, p)
		} else {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == 0 {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "No outstanding pickups to reorder", domainRoute.ErrNoPickups)
	}

	reordered, _, _ := s.optimize(ctx, remaining)
	merged := append(done, reordered...)

	for i, stop := range merged {
		stop.Sequence = i + 1
	}
	s.assignETAs(reordered)

	totalKm := tourDistanceKm(merged, s.pricing.RoadFactor)
	durationMin := distance.DurationMinutes(totalKm, s.pricing.AverageSpeedKmh) + s.routing.ServiceMinutes*len(merged)
	fuelCost := roundKm(totalKm * s.routing.FuelCostPerKm)
	efficiency := classifyEfficiency(totalKm)

	if err := s.routeRepo.ReplacePickups(ctx, routeID, merged, roundKm(totalKm), durationMin, fuelCost, efficiency); err != nil {
		return nil, err
	}

	s.cache.Delete(routeCacheKey(r.Date))

	logger.Info("Route re-optimized",
		zap.String("route_id", routeID.String()),
		zap.Int("remaining", len(reordered)),
		zap.String("event", "route_reoptimized"),
	)

	r.Pickups = merged
	r.EstimatedDistanceKm = roundKm(totalKm)
	r.EstimatedDurationMin = durationMin
	r.FuelCost = fuelCost
	r.Efficiency = efficiency

	return ToRouteResponse(r), nil
}

// UpdatePickupStatus applies a pickup lifecycle transition and keeps the
// route status in step: the first stop going en_route activates the route,
// and once every stop is terminal the route completes and actuals are
// recorded.
func (s *Service) UpdatePickupStatus(ctx context.Context, routeID, pickupID uuid.UUID, req *UpdatePickupStatusRequest) (*PickupResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid status input", err)
	}
	newStatus := pickup.Status(req.Status)

	p, err := s.routeRepo.GetPickup(ctx, routeID, pickupID)
	if err != nil {
		if err == pickup.ErrPickupNotFound {
			return nil, appErrors.NewAppError(appErrors.CodeNotFound, "Pickup not found", err)
		}
		return nil, err
	}

	if err := ValidatePickupTransition(p.Status, newStatus); err != nil {
		return nil, err
	}

	if err := s.routeRepo.UpdatePickupStatus(ctx, pickupID, newStatus); err != nil {
		return nil, err
	}
	p.Status = newStatus

	r, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if newStatus == pickup.StatusEnRoute && r.Status == domainRoute.StatusPlanning {
		if err := s.routeRepo.UpdateStatus(ctx, routeID, domainRoute.StatusActive); err != nil {
			logger.Error("Failed to activate route", zap.String("route_id", routeID.String()), zap.Error(err))
		}
	}

	if allTerminal(r.Pickups) && r.Status != domainRoute.StatusCompleted {
		if err := s.completeRoute(ctx, r); err != nil {
			logger.Error("Failed to complete route", zap.String("route_id", routeID.String()), zap.Error(err))
		}
	}

	s.cache.Delete(routeCacheKey(r.Date))

	logger.Info("Pickup status updated",
		zap.String("route_id", routeID.String()),
		zap.String("pickup_id", pickupID.String()),
		zap.String("status", string(newStatus)),
		zap.String("event", "pickup_status_updated"),
	)

	return ToPickupResponse(p), nil
}

// completeRoute marks the route done and records actuals from the final
// tour: the full driven distance, with service time only for stops that
// were actually collected.
func (s *Service) completeRoute(ctx context.Context, r *domainRoute.Route) error {
	if err := s.routeRepo.UpdateStatus(ctx, r.ID, domainRoute.StatusCompleted); err != nil {
		return err
	}

	totalKm := tourDistanceKm(r.Pickups, s.pricing.RoadFactor)
	collected := 0
	for _, p := range r.Pickups {
		if p.Status == pickup.StatusCompleted {
			collected++
		}
	}
	durationMin := distance.DurationMinutes(totalKm, s.pricing.AverageSpeedKmh) + s.routing.ServiceMinutes*collected

	return s.routeRepo.SetActuals(ctx, r.ID, roundKm(totalKm), durationMin)
}

// NextPickup returns the next outstanding stop in sequence order, or nil
// when the route has none left.
func (s *Service) NextPickup(ctx context.Context, routeID uuid.UUID) (*PickupResponse, error) {
	r, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		if err == domainRoute.ErrRouteNotFound {
			return nil, appErrors.NewAppError(appErrors.CodeNotFound, "Route not found", err)
		}
		return nil, err
	}

	next := nextPending(r.Pickups)
	if next == nil {
		return nil, nil
	}

	return ToPickupResponse(next), nil
}

func roundKm(km float64) float64 {
	return math.Round(km*10) / 10
}
