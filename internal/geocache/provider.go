// README: Ports to the external geospatial provider and the fare estimator.
package geocache

import (
	"context"

	"taxibordeaux/internal/tariff"
	"taxibordeaux/internal/types"
)

// RouteOptions tunes a directions request.
type RouteOptions struct {
	Alternatives bool
	// DepartureNow asks the provider for live traffic-aware durations.
	DepartureNow bool
}

// Provider is the upstream geospatial API. Adapters return ErrNotFound when
// the provider answers with an empty result set; any other failure is
// surfaced as-is and classified by the service.
type Provider interface {
	Geocode(ctx context.Context, address, language string) ([]GeocodeCandidate, error)
	ReverseGeocode(ctx context.Context, p types.Point, language string) ([]GeocodeCandidate, error)
	Directions(ctx context.Context, from, to types.Point, language string, opts RouteOptions) (*Route, error)
	Autocomplete(ctx context.Context, input, language string, bias *types.Point) ([]Prediction, error)
	DistanceMatrix(ctx context.Context, origins, destinations []string, language string) (*Matrix, error)
}

// FareEstimator lets the route enrichment attach a cost estimate without the
// service owning the tariff engine.
type FareEstimator interface {
	Calculate(ctx context.Context, req tariff.Request) (*tariff.Result, error)
}
