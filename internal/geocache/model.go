// README: Geo lookup result types and per-category cache TTLs.
package geocache

import (
	"time"

	"taxibordeaux/internal/tariff"
	"taxibordeaux/internal/types"
)

type Category string

const (
	CategoryRoute   Category = "route"
	CategoryGeocode Category = "geocode"
	CategorySuggest Category = "suggest"
	CategoryFare    Category = "fare"
	CategoryNearby  Category = "nearby"
)

// TTL picks the freshness window per data category. Routes shift with traffic,
// geocodes are stable for a day, suggestions and fares go stale quickly and
// nearby-style lookups are near-live.
func (c Category) TTL() time.Duration {
	switch c {
	case CategoryRoute:
		return time.Hour
	case CategoryGeocode:
		return 24 * time.Hour
	case CategorySuggest:
		return 30 * time.Minute
	case CategoryFare:
		return 30 * time.Minute
	case CategoryNearby:
		return 5 * time.Minute
	default:
		return 5 * time.Minute
	}
}

type TrafficLevel string

const (
	TrafficUnknown   TrafficLevel = "unknown"
	TrafficLight     TrafficLevel = "light"
	TrafficModerate  TrafficLevel = "moderate"
	TrafficHeavy     TrafficLevel = "heavy"
	TrafficVeryHeavy TrafficLevel = "very_heavy"
)

type AreaVerdict string

const (
	AreaValid   AreaVerdict = "valid"
	AreaWarning AreaVerdict = "warning"
	AreaInvalid AreaVerdict = "invalid"
)

type RouteStep struct {
	Instruction    string `json:"instruction"`
	DistanceMeters int    `json:"distance_meters"`
	DurationSec    int    `json:"duration_sec"`
}

type RouteAlternative struct {
	Summary        string `json:"summary"`
	DistanceMeters int    `json:"distance_meters"`
	DurationSec    int    `json:"duration_sec"`
	Polyline       string `json:"polyline"`
}

type Bounds struct {
	NorthEast types.Point `json:"north_east"`
	SouthWest types.Point `json:"south_west"`
}

// Route is the raw shape returned by the provider adapter.
// TrafficDurationSec is 0 when the provider has no live traffic data.
type Route struct {
	Origin             types.Point        `json:"origin"`
	Destination        types.Point        `json:"destination"`
	StartAddress       string             `json:"start_address"`
	EndAddress         string             `json:"end_address"`
	DistanceMeters     int                `json:"distance_meters"`
	DurationSec        int                `json:"duration_sec"`
	TrafficDurationSec int                `json:"traffic_duration_sec"`
	Polyline           string             `json:"polyline"`
	Bounds             Bounds             `json:"bounds"`
	Steps              []RouteStep        `json:"steps"`
	Alternatives       []RouteAlternative `json:"alternatives"`
}

// RouteResult is the enriched route served to callers.
type RouteResult struct {
	Route       Route          `json:"route"`
	Traffic     TrafficLevel   `json:"traffic"`
	Estimate    *tariff.Result `json:"estimate,omitempty"`
	ServiceArea AreaVerdict    `json:"service_area"`
	FromCache   bool           `json:"from_cache"`
}

// GeocodeCandidate is the raw shape returned by the provider adapter.
type GeocodeCandidate struct {
	Address      string      `json:"address"`
	Coords       types.Point `json:"coords"`
	PlaceID      string      `json:"place_id"`
	Types        []string    `json:"types"`
	LocationType string      `json:"location_type"`
	PartialMatch bool        `json:"partial_match"`
}

// GeocodeResult carries the enriched best candidate.
type GeocodeResult struct {
	GeocodeCandidate
	Confidence    float64 `json:"confidence"`
	InServiceArea bool    `json:"in_service_area"`
	FromCache     bool    `json:"from_cache"`
}

// Prediction is the raw shape returned by the provider adapter.
type Prediction struct {
	Description string   `json:"description"`
	PlaceID     string   `json:"place_id"`
	MainText    string   `json:"main_text"`
	Types       []string `json:"types"`
}

type Suggestion struct {
	Prediction
	Relevance float64 `json:"relevance"`
}

type SuggestResult struct {
	Suggestions []Suggestion `json:"suggestions"`
	FromCache   bool         `json:"from_cache"`
}

type MatrixElement struct {
	Status             string `json:"status"`
	DistanceMeters     int    `json:"distance_meters"`
	DurationSec        int    `json:"duration_sec"`
	TrafficDurationSec int    `json:"traffic_duration_sec"`
}

type Matrix struct {
	Origins      []string          `json:"origins"`
	Destinations []string          `json:"destinations"`
	Rows         [][]MatrixElement `json:"rows"`
	FromCache    bool              `json:"from_cache"`
}
