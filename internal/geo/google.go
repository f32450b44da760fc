// README: Google Maps adapter implementing the geocache provider port.
package geo

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"taxibordeaux/internal/geocache"
	"taxibordeaux/internal/types"
)

// GoogleProvider wraps the Google Maps Web Service APIs behind the
// geocache.Provider port. It does no caching and no quota accounting; that is
// the caller's job.
type GoogleProvider struct {
	client *maps.Client
	region string
}

// NewGoogleProvider creates the provider with the given API key. Results are
// biased to France, where the company operates.
func NewGoogleProvider(apiKey string) (*GoogleProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleProvider{client: client, region: "fr"}, nil
}

func (g *GoogleProvider) Geocode(ctx context.Context, address, language string) ([]geocache.GeocodeCandidate, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  address,
		Language: language,
		Region:   g.region,
	})
	if err != nil {
		return nil, fmt.Errorf("geocoding api error: %w", err)
	}
	return toCandidates(results), nil
}

func (g *GoogleProvider) ReverseGeocode(ctx context.Context, p types.Point, language string) ([]geocache.GeocodeCandidate, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
		Language: language,
	})
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding api error: %w", err)
	}
	return toCandidates(results), nil
}

func (g *GoogleProvider) Directions(ctx context.Context, from, to types.Point, language string, opts geocache.RouteOptions) (*geocache.Route, error) {
	r := &maps.DirectionsRequest{
		Origin:       latLngString(from),
		Destination:  latLngString(to),
		Mode:         maps.TravelModeDriving,
		Language:     language,
		Region:       g.region,
		Alternatives: opts.Alternatives,
	}
	if opts.DepartureNow {
		r.DepartureTime = "now"
		r.TrafficModel = maps.TrafficModelBestGuess
	}

	routes, _, err := g.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("directions api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, geocache.ErrNotFound
	}

	primary := routes[0]
	leg := primary.Legs[0]

	route := &geocache.Route{
		Origin:             from,
		Destination:        to,
		StartAddress:       leg.StartAddress,
		EndAddress:         leg.EndAddress,
		DistanceMeters:     leg.Distance.Meters,
		DurationSec:        int(leg.Duration.Seconds()),
		TrafficDurationSec: int(leg.DurationInTraffic.Seconds()),
		Polyline:           primary.OverviewPolyline.Points,
		Bounds: geocache.Bounds{
			NorthEast: types.Point{Lat: primary.Bounds.NorthEast.Lat, Lng: primary.Bounds.NorthEast.Lng},
			SouthWest: types.Point{Lat: primary.Bounds.SouthWest.Lat, Lng: primary.Bounds.SouthWest.Lng},
		},
	}
	for _, step := range leg.Steps {
		route.Steps = append(route.Steps, geocache.RouteStep{
			Instruction:    step.HTMLInstructions,
			DistanceMeters: step.Distance.Meters,
			DurationSec:    int(step.Duration.Seconds()),
		})
	}
	for _, alt := range routes[1:] {
		if len(alt.Legs) == 0 {
			continue
		}
		route.Alternatives = append(route.Alternatives, geocache.RouteAlternative{
			Summary:        alt.Summary,
			DistanceMeters: alt.Legs[0].Distance.Meters,
			DurationSec:    int(alt.Legs[0].Duration.Seconds()),
			Polyline:       alt.OverviewPolyline.Points,
		})
	}
	return route, nil
}

func (g *GoogleProvider) Autocomplete(ctx context.Context, input, language string, bias *types.Point) ([]geocache.Prediction, error) {
	req := &maps.PlaceAutocompleteRequest{
		Input:    input,
		Language: language,
	}
	if bias != nil {
		req.Location = &maps.LatLng{Lat: bias.Lat, Lng: bias.Lng}
		req.Radius = 30000
	}
	resp, err := g.client.PlaceAutocomplete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("autocomplete api error: %w", err)
	}

	predictions := make([]geocache.Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		predictions = append(predictions, geocache.Prediction{
			Description: p.Description,
			PlaceID:     p.PlaceID,
			MainText:    p.StructuredFormatting.MainText,
			Types:       p.Types,
		})
	}
	return predictions, nil
}

func (g *GoogleProvider) DistanceMatrix(ctx context.Context, origins, destinations []string, language string) (*geocache.Matrix, error) {
	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      origins,
		Destinations: destinations,
		Mode:         maps.TravelModeDriving,
		Language:     language,
	})
	if err != nil {
		return nil, fmt.Errorf("distance matrix api error: %w", err)
	}

	m := &geocache.Matrix{
		Origins:      resp.OriginAddresses,
		Destinations: resp.DestinationAddresses,
	}
	for _, row := range resp.Rows {
		elements := make([]geocache.MatrixElement, 0, len(row.Elements))
		for _, el := range row.Elements {
			elements = append(elements, geocache.MatrixElement{
				Status:             el.Status,
				DistanceMeters:     el.Distance.Meters,
				DurationSec:        int(el.Duration.Seconds()),
				TrafficDurationSec: int(el.DurationInTraffic.Seconds()),
			})
		}
		m.Rows = append(m.Rows, elements)
	}
	return m, nil
}

func toCandidates(results []maps.GeocodingResult) []geocache.GeocodeCandidate {
	candidates := make([]geocache.GeocodeCandidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, geocache.GeocodeCandidate{
			Address:      r.FormattedAddress,
			Coords:       types.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			PlaceID:      r.PlaceID,
			Types:        r.Types,
			LocationType: r.Geometry.LocationType,
			PartialMatch: r.PartialMatch,
		})
	}
	return candidates
}

func latLngString(p types.Point) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}
