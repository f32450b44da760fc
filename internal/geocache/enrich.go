// README: Enrichment rules: confidence scoring, suggestion ranking, traffic levels, area verdicts.
package geocache

import (
	"strings"

	"taxibordeaux/internal/types"
)

// Location precision values as reported by the provider.
const (
	locationRooftop           = "ROOFTOP"
	locationRangeInterpolated = "RANGE_INTERPOLATED"
	locationGeometricCenter   = "GEOMETRIC_CENTER"
)

// relevantSuggestionTypes is the allow-list for autocomplete predictions;
// anything else (plus codes, transit stations, whole regions) is noise for a
// pickup/dropoff field.
var relevantSuggestionTypes = []string{
	"street_address",
	"route",
	"locality",
	"point_of_interest",
	"establishment",
}

// confidenceScore rates a geocode candidate in [0,1]. The base of 0.5 is
// bumped for precise location types, full matches and addressable results.
func confidenceScore(c GeocodeCandidate) float64 {
	score := 0.5
	switch c.LocationType {
	case locationRooftop:
		score += 0.4
	case locationRangeInterpolated:
		score += 0.3
	case locationGeometricCenter:
		score += 0.2
	}
	if !c.PartialMatch {
		score += 0.1
	}
	if hasType(c.Types, "street_address") {
		score += 0.2
	} else if hasType(c.Types, "route") {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// relevanceScore ranks an autocomplete prediction against the typed input.
func relevanceScore(p Prediction, input, serviceCity string) float64 {
	score := 0.5
	in := strings.ToLower(strings.TrimSpace(input))
	main := strings.ToLower(p.MainText)
	if strings.HasPrefix(main, in) {
		score += 0.3
	} else if strings.Contains(main, in) {
		score += 0.2
	}
	if hasType(p.Types, "street_address") {
		score += 0.2
	}
	if serviceCity != "" && strings.Contains(strings.ToLower(p.Description), strings.ToLower(serviceCity)) {
		score += 0.1
	}
	return score
}

func isRelevantSuggestion(p Prediction) bool {
	for _, t := range relevantSuggestionTypes {
		if hasType(p.Types, t) {
			return true
		}
	}
	return false
}

func hasType(typesList []string, want string) bool {
	for _, t := range typesList {
		if t == want {
			return true
		}
	}
	return false
}

// trafficLevel classifies congestion from the ratio of traffic-aware duration
// to nominal duration.
func trafficLevel(durationSec, trafficSec int) TrafficLevel {
	if trafficSec <= 0 || durationSec <= 0 {
		return TrafficUnknown
	}
	ratio := float64(trafficSec) / float64(durationSec)
	switch {
	case ratio < 1.1:
		return TrafficLight
	case ratio < 1.3:
		return TrafficModerate
	case ratio < 1.5:
		return TrafficHeavy
	default:
		return TrafficVeryHeavy
	}
}

// areaVerdict validates a trip against the service area: both endpoints inside
// is valid, a single endpoint outside downgrades to a warning, and a trip
// entirely outside the area is invalid.
func areaVerdict(from, to types.Point, area types.Box) AreaVerdict {
	fromIn := area.Contains(from)
	toIn := area.Contains(to)
	switch {
	case fromIn && toIn:
		return AreaValid
	case fromIn || toIn:
		return AreaWarning
	default:
		return AreaInvalid
	}
}
