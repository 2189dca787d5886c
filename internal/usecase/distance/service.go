package distance

import (
	"context"
	"errors"

	"buyback-logistics/internal/config"
	"buyback-logistics/internal/domain/pickup"
	"buyback-logistics/internal/logger"
	"buyback-logistics/internal/maps"

	"go.uber.org/zap"
)

// Rejection reasons carried on DistanceCalculation results.
const (
	ReasonOutsideServiceArea = "outside_service_area"
	ReasonInsufficientMargin = "insufficient_margin"
	ReasonManualReview       = "manual_review_required"
)

// Service computes distance, pickup fee and eligibility for a lead address
// via a tiered fallback chain. Calculate never fails: provider errors are
// absorbed and the result degrades to a coarser estimate.
type Service struct {
	maps    *maps.Client
	breaker *Breaker
	hub     config.HubConfig
	pricing config.PricingConfig
}

// NewService wires the calculator. mapsClient may be nil when no provider
// key is configured; estimation then starts at the suburb heuristic.
func NewService(mapsClient *maps.Client, breaker *Breaker, cfg *config.Config) *Service {
	return &Service{
		maps:    mapsClient,
		breaker: breaker,
		hub:     cfg.Hub,
		pricing: cfg.Pricing,
	}
}

// Calculate runs the fallback chain for the address against the hub and
// applies fee banding and the profit check against the quote value.
func (s *Service) Calculate(ctx context.Context, address string, quoteValue float64) pickup.DistanceCalculation {
	result := s.estimate(ctx, address)
	s.applyPricing(&result, quoteValue)
	return result
}

// estimate resolves distance and duration, trying each tier in order.
func (s *Service) estimate(ctx context.Context, address string) pickup.DistanceCalculation {
	if s.maps != nil && !s.breaker.Tripped() {
		if result, err := s.routedEstimate(ctx, address); err == nil {
			return result
		} else if errors.Is(err, maps.ErrReferrerRestricted) {
			s.breaker.Trip()
			logger.Warn("Mapping provider referrer-restricted, circuit breaker tripped",
				zap.String("event", "distance_breaker_tripped"),
			)
		} else {
			logger.Debug("Routed distance unavailable, falling back",
				zap.String("address", address),
				zap.Error(err),
			)
		}
	}

	// Tier 2 shares the provider and its key restriction with tier 1.
	if s.maps != nil && !s.breaker.Tripped() {
		if result, err := s.geocodedEstimate(ctx, address); err == nil {
			return result
		} else if errors.Is(err, maps.ErrReferrerRestricted) {
			s.breaker.Trip()
			logger.Warn("Mapping provider referrer-restricted, circuit breaker tripped",
				zap.String("event", "distance_breaker_tripped"),
			)
		} else {
			logger.Debug("Geocoded distance unavailable, falling back",
				zap.String("address", address),
				zap.Error(err),
			)
		}
	}

	return s.heuristicEstimate(address)
}

func (s *Service) routedEstimate(ctx context.Context, address string) (pickup.DistanceCalculation, error) {
	routed, err := s.maps.Directions(ctx, s.hub.Address, address)
	if err != nil {
		return pickup.DistanceCalculation{}, err
	}

	return pickup.DistanceCalculation{
		DistanceKm:      roundTo1(float64(routed.DistanceMeters) / 1000),
		DurationMinutes: (routed.DurationSeconds + 30) / 60,
		Source:          pickup.SourceRouted,
		Polyline:        routed.Polyline,
	}, nil
}

func (s *Service) geocodedEstimate(ctx context.Context, address string) (pickup.DistanceCalculation, error) {
	coords, err := s.maps.Geocode(ctx, address)
	if err != nil {
		return pickup.DistanceCalculation{}, err
	}

	hubLat, hubLng := s.hub.Lat, s.hub.Lng
	if hubLat == 0 && hubLng == 0 {
		hubCoords, err := s.maps.Geocode(ctx, s.hub.Address)
		if err != nil {
			return pickup.DistanceCalculation{}, err
		}
		hubLat, hubLng = hubCoords.Lat, hubCoords.Lng
	}

	km := HaversineKm(hubLat, hubLng, coords.Lat, coords.Lng) * s.pricing.RoadFactor

	return pickup.DistanceCalculation{
		DistanceKm:      roundTo1(km),
		DurationMinutes: DurationMinutes(km, s.pricing.AverageSpeedKmh),
		Source:          pickup.SourceHaversine,
	}, nil
}

func (s *Service) heuristicEstimate(address string) pickup.DistanceCalculation {
	km, _ := EstimateBySuburb(address)

	return pickup.DistanceCalculation{
		DistanceKm:      roundTo1(km),
		DurationMinutes: DurationMinutes(km, s.pricing.AverageSpeedKmh),
		Source:          pickup.SourceHeuristic,
	}
}

// applyPricing stamps the fee band and the eligibility verdict. A pickup is
// auto-eligible only when inside the service-area ceiling and the 30%
// margin clears the band's required minimum profit after the fee.
func (s *Service) applyPricing(result *pickup.DistanceCalculation, quoteValue float64) {
	fee, review := FeeForDistance(result.DistanceKm)
	result.PickupFee = fee
	result.RequiresReview = review

	if review {
		result.IsEligible = false
		result.Reason = ReasonManualReview
		return
	}

	if result.DistanceKm > s.pricing.MaxAutoKm || result.DurationMinutes > s.pricing.MaxAutoMinutes {
		result.IsEligible = false
		result.Reason = ReasonOutsideServiceArea
		return
	}

	margin := s.pricing.MarginRate * quoteValue
	if margin-fee < RequiredProfit(result.DistanceKm) {
		result.IsEligible = false
		result.Reason = ReasonInsufficientMargin
		return
	}

	result.IsEligible = true
}
