package distance

import "math"

// Fee band boundaries in kilometers. Bands are half-open: [lo, hi).
const (
	freeBandKm    = 16.0
	flatBandKm    = 24.0
	dynamicBandKm = 40.0
	farBandKm     = 60.0
)

const (
	flatBandFee   = 30.0
	farBandFee    = 50.0
	dynamicRate   = 1.25
	dynamicMinFee = 30.0
	dynamicMaxFee = 50.0
)

// FeeForDistance maps a distance to the pickup fee per the band table.
// Distances at or beyond 60 km keep the flat far fee but require manual
// review and are never auto-eligible.
func FeeForDistance(km float64) (fee float64, requiresReview bool) {
	switch {
	case km < freeBandKm:
		return 0, false
	case km < flatBandKm:
		return flatBandFee, false
	case km < dynamicBandKm:
		fee := roundToNearest5(km * dynamicRate)
		return clamp(fee, dynamicMinFee, dynamicMaxFee), false
	case km < farBandKm:
		return farBandFee, false
	default:
		return farBandFee, true
	}
}

// RequiredProfit is the minimum profit (margin minus fee) a pickup must
// clear, escalating with distance band.
func RequiredProfit(km float64) float64 {
	switch {
	case km < freeBandKm:
		return 30
	case km < flatBandKm:
		return 40
	case km < dynamicBandKm:
		return 50
	default:
		return 60
	}
}

func roundToNearest5(v float64) float64 {
	return math.Round(v/5) * 5
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundTo1 rounds a distance to one decimal place.
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
