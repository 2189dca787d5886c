package route

import (
	"sort"

	"buyback-logistics/internal/domain/pickup"
	domainRoute "buyback-logistics/internal/domain/route"
	"buyback-logistics/internal/usecase/distance"
)

// legKm estimates the distance between two stops. Geocoded stops use the
// great-circle distance with a road-shape correction; everything else falls
// back to the suburb heuristic on addresses.
func legKm(a, b *pickup.Location, roadFactor float64) float64 {
	if a.Lat != nil && a.Lng != nil && b.Lat != nil && b.Lng != nil {
		return distance.HaversineKm(*a.Lat, *a.Lng, *b.Lat, *b.Lng) * roadFactor
	}
	return distance.EstimateLegKm(a.Address, b.Address)
}

// orderPickups produces a visiting order: the highest-priority stop seeds
// the tour, then each next stop is the nearest unvisited one. Nearest-
// neighbor ties break on priority rank, then on lead ID, so the result is
// deterministic.
func orderPickups(stops []*pickup.Location, roadFactor float64) []*pickup.Location {
	if len(stops) <= 1 {
		return stops
	}

	remaining := make([]*pickup.Location, len(stops))
	copy(remaining, stops)

	// Seed with the most urgent stop; equal priorities keep input order.
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Priority.Rank() > remaining[j].Priority.Rank()
	})

	ordered := make([]*pickup.Location, 0, len(remaining))
	ordered = append(ordered, remaining[0])
	remaining = remaining[1:]

	for len(remaining) > 0 {
		last := ordered[len(ordered)-1]
		bestIdx := 0
		bestKm := legKm(last, remaining[0], roadFactor)
		for i := 1; i < len(remaining); i++ {
			km := legKm(last, remaining[i], roadFactor)
			if km < bestKm ||
				(km == bestKm && remaining[i].Priority.Rank() > remaining[bestIdx].Priority.Rank()) ||
				(km == bestKm && remaining[i].Priority.Rank() == remaining[bestIdx].Priority.Rank() &&
					remaining[i].LeadID < remaining[bestIdx].LeadID) {
				bestIdx = i
				bestKm = km
			}
		}
		ordered = append(ordered, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return ordered
}

// improveOrder2Opt untangles crossing legs by reversing segments whenever
// the reversal shortens the tour. Runs a bounded number of passes.
func improveOrder2Opt(stops []*pickup.Location, roadFactor float64, passes int) []*pickup.Location {
	if len(stops) < 4 {
		return stops
	}

	tour := make([]*pickup.Location, len(stops))
	copy(tour, stops)

	for pass := 0; pass < passes; pass++ {
		improved := false
		for i := 0; i < len(tour)-2; i++ {
			for j := i + 2; j < len(tour); j++ {
				before := segmentKm(tour, i, j, roadFactor)
				reverseSegment(tour, i+1, j)
				after := segmentKm(tour, i, j, roadFactor)
				if after < before {
					improved = true
				} else {
					reverseSegment(tour, i+1, j)
				}
			}
		}
		if !improved {
			break
		}
	}

	return tour
}

// segmentKm measures the legs a 2-opt swap can change: into tour[i+1] and,
// when tour[j] is not the final stop, out of tour[j]. The path is open, so
// no leg follows the last stop.
func segmentKm(tour []*pickup.Location, i, j int, roadFactor float64) float64 {
	total := legKm(tour[i], tour[i+1], roadFactor)
	if j+1 < len(tour) {
		total += legKm(tour[j], tour[j+1], roadFactor)
	}
	return total
}

func reverseSegment(tour []*pickup.Location, from, to int) {
	for from < to {
		tour[from], tour[to] = tour[to], tour[from]
		from++
		to--
	}
}

// tourDistanceKm accumulates the inter-stop legs over the given order. Hub
// legs are not part of the route total, so zero or one stop yields zero.
func tourDistanceKm(stops []*pickup.Location, roadFactor float64) float64 {
	total := 0.0
	for i := 1; i < len(stops); i++ {
		total += legKm(stops[i-1], stops[i], roadFactor)
	}
	return total
}

// classifyEfficiency bands a route by its total distance.
func classifyEfficiency(totalKm float64) string {
	switch {
	case totalKm < 100:
		return domainRoute.EfficiencyExcellent
	case totalKm < 150:
		return domainRoute.EfficiencyGood
	case totalKm < 200:
		return domainRoute.EfficiencyFair
	default:
		return domainRoute.EfficiencyPoor
	}
}
