package distance

import "strings"

// suburbDistances holds rough hub distances for known suburb keywords,
// used as the coarsest estimation tier and for inter-stop route legs.
var suburbDistances = map[string]float64{
	"cbd":           5,
	"city":          5,
	"south bank":    6,
	"fortitude":     7,
	"new farm":      8,
	"west end":      8,
	"paddington":    9,
	"toowong":       11,
	"chermside":     14,
	"carindale":     15,
	"indooroopilly": 15,
	"mount gravatt": 17,
	"sunnybank":     19,
	"capalaba":      24,
	"wynnum":        25,
	"strathpine":    26,
	"browns plains": 28,
	"logan":         30,
	"ipswich":       38,
	"redcliffe":     39,
	"beenleigh":     41,
	"caboolture":    48,
	"gold coast":    72,
	"sunshine coast": 95,
}

// DefaultEstimateKm is used when no suburb keyword matches.
const DefaultEstimateKm = 25.0

// EstimateBySuburb keyword-matches the address against known suburbs and
// returns a rough hub distance. The longest matching keyword wins.
func EstimateBySuburb(address string) (km float64, matched bool) {
	addr := strings.ToLower(address)

	best := ""
	for keyword, dist := range suburbDistances {
		if strings.Contains(addr, keyword) && len(keyword) > len(best) {
			best = keyword
			km = dist
		}
	}
	if best == "" {
		return DefaultEstimateKm, false
	}

	return km, true
}

// EstimateLegKm approximates the distance between two stops from their hub
// distances. Stops in the same matched suburb get a short local hop;
// otherwise the radial difference plus a cross-town connector.
func EstimateLegKm(fromAddress, toAddress string) float64 {
	fromKm, fromMatched := EstimateBySuburb(fromAddress)
	toKm, toMatched := EstimateBySuburb(toAddress)

	if fromMatched && toMatched && fromKm == toKm {
		return 2
	}

	diff := fromKm - toKm
	if diff < 0 {
		diff = -diff
	}

	return diff + 5
}
