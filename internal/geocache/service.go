// README: Cache-aside façade shielding the rate-limited geospatial provider.
package geocache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"taxibordeaux/internal/cache"
	"taxibordeaux/internal/config"
	"taxibordeaux/internal/observability"
	"taxibordeaux/internal/tariff"
	"taxibordeaux/internal/types"
)

var (
	ErrInvalidArgument     = errors.New("invalid geo request")
	ErrProviderUnavailable = errors.New("geo provider unavailable")
	ErrNotFound            = errors.New("no result for this location")
	ErrQuotaExceeded       = errors.New("daily geo provider quota exceeded")
)

const maxSuggestions = 5

// Service fronts the geospatial provider with a key-value cache and a daily
// call quota. Every collaborator is injected; the service holds no globals.
type Service struct {
	store           cache.Store
	provider        Provider
	quota           *QuotaCounter
	estimator       FareEstimator
	keys            KeyBuilder
	serviceArea     types.Box
	serviceCity     string
	language        string
	providerTimeout time.Duration
	logger          *slog.Logger
}

func NewService(cfg config.GeoConfig, store cache.Store, provider Provider, quota *QuotaCounter, estimator FareEstimator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:           store,
		provider:        provider,
		quota:           quota,
		estimator:       estimator,
		keys:            KeyBuilder{Namespace: cfg.CacheNamespace},
		serviceArea:     cfg.ServiceArea,
		serviceCity:     cfg.ServiceCity,
		language:        cfg.DefaultLanguage,
		providerTimeout: cfg.ProviderTimeout,
		logger:          logger,
	}
}

// ResolveRoute returns the driving route between two points, enriched with a
// traffic classification, a fare estimate and a service-area verdict.
func (s *Service) ResolveRoute(ctx context.Context, from, to types.Point, opts RouteOptions) (*RouteResult, error) {
	key := s.keys.Route(from, to, s.language)
	res, hit, err := fetchCached(ctx, s, key, CategoryRoute, func(ctx context.Context) (*RouteResult, error) {
		route, err := s.provider.Directions(ctx, from, to, s.language, opts)
		if err != nil {
			return nil, err
		}
		rr := &RouteResult{
			Route:       *route,
			Traffic:     trafficLevel(route.DurationSec, route.TrafficDurationSec),
			ServiceArea: areaVerdict(from, to, s.serviceArea),
		}
		if s.estimator != nil {
			est, err := s.estimator.Calculate(ctx, tariff.Request{
				DistanceKm:    float64(route.DistanceMeters) / 1000.0,
				DurationMin:   float64(route.DurationSec) / 60.0,
				Passengers:    1,
				DepartureTime: time.Now(),
				FromCoords:    &from,
				ToCoords:      &to,
			})
			if err != nil {
				s.logger.Warn("route fare estimate failed", "err", err)
			} else {
				rr.Estimate = est
			}
		}
		return rr, nil
	})
	if err != nil {
		return nil, err
	}
	res.FromCache = hit
	return res, nil
}

// Geocode resolves a free-text address to coordinates.
func (s *Service) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidArgument)
	}
	key := s.keys.Geocode(address, s.language)
	res, hit, err := fetchCached(ctx, s, key, CategoryGeocode, func(ctx context.Context) (*GeocodeResult, error) {
		candidates, err := s.provider.Geocode(ctx, address, s.language)
		if err != nil {
			return nil, err
		}
		return s.enrichGeocode(candidates)
	})
	if err != nil {
		return nil, err
	}
	res.FromCache = hit
	return res, nil
}

// ReverseGeocode resolves coordinates to the nearest address.
func (s *Service) ReverseGeocode(ctx context.Context, p types.Point) (*GeocodeResult, error) {
	key := s.keys.ReverseGeocode(p, s.language)
	res, hit, err := fetchCached(ctx, s, key, CategoryGeocode, func(ctx context.Context) (*GeocodeResult, error) {
		candidates, err := s.provider.ReverseGeocode(ctx, p, s.language)
		if err != nil {
			return nil, err
		}
		return s.enrichGeocode(candidates)
	})
	if err != nil {
		return nil, err
	}
	res.FromCache = hit
	return res, nil
}

// Suggest returns ranked address completions for a partial input.
func (s *Service) Suggest(ctx context.Context, input string, bias *types.Point) (*SuggestResult, error) {
	if len(strings.TrimSpace(input)) < 2 {
		return nil, fmt.Errorf("%w: input too short", ErrInvalidArgument)
	}
	key := s.keys.Suggest(input, s.language)
	res, hit, err := fetchCached(ctx, s, key, CategorySuggest, func(ctx context.Context) (*SuggestResult, error) {
		predictions, err := s.provider.Autocomplete(ctx, input, s.language, bias)
		if err != nil {
			return nil, err
		}
		return s.rankSuggestions(predictions, input), nil
	})
	if err != nil {
		return nil, err
	}
	res.FromCache = hit
	return res, nil
}

// DistanceMatrix returns travel distance and duration for each origin and
// destination pair.
func (s *Service) DistanceMatrix(ctx context.Context, origins, destinations []string) (*Matrix, error) {
	if len(origins) == 0 || len(destinations) == 0 {
		return nil, fmt.Errorf("%w: origins and destinations required", ErrInvalidArgument)
	}
	key := s.keys.Matrix(origins, destinations, s.language)
	res, hit, err := fetchCached(ctx, s, key, CategoryNearby, func(ctx context.Context) (*Matrix, error) {
		return s.provider.DistanceMatrix(ctx, origins, destinations, s.language)
	})
	if err != nil {
		return nil, err
	}
	res.FromCache = hit
	return res, nil
}

// Invalidate drops every cached entry of a category, e.g. after a rate change.
func (s *Service) Invalidate(ctx context.Context, c Category) error {
	return s.store.DeleteByPrefix(ctx, s.keys.Prefix(c))
}

// QuotaUsage reports provider calls spent against today's limit.
func (s *Service) QuotaUsage() (used, limit int) {
	return s.quota.Usage()
}

func (s *Service) enrichGeocode(candidates []GeocodeCandidate) (*GeocodeResult, error) {
	if len(candidates) == 0 {
		return nil, ErrNotFound
	}
	best := candidates[0]
	return &GeocodeResult{
		GeocodeCandidate: best,
		Confidence:       confidenceScore(best),
		InServiceArea:    s.serviceArea.Contains(best.Coords),
	}, nil
}

func (s *Service) rankSuggestions(predictions []Prediction, input string) *SuggestResult {
	suggestions := make([]Suggestion, 0, len(predictions))
	for _, p := range predictions {
		if !isRelevantSuggestion(p) {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Prediction: p,
			Relevance:  relevanceScore(p, input, s.serviceCity),
		})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Relevance > suggestions[j].Relevance
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return &SuggestResult{Suggestions: suggestions}
}

// fetchCached runs the cache-aside protocol: cache lookup, quota reservation,
// provider call, cache write. The provider call and the cache write run on a
// context detached from the caller's cancellation — a response that arrives
// after the caller gave up is still worth caching — but stay bounded by the
// provider timeout.
func fetchCached[T any](ctx context.Context, s *Service, key string, c Category, call func(context.Context) (*T, error)) (*T, bool, error) {
	label := string(c)

	raw, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "err", err)
	}
	if raw != nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			observability.CacheHits.WithLabelValues(label).Inc()
			return &v, true, nil
		}
		// Unreadable entry: treat as a miss and let the rewrite repair it.
		s.logger.Warn("cache entry corrupt", "key", key)
	}
	observability.CacheMisses.WithLabelValues(label).Inc()

	if !s.quota.Take() {
		observability.QuotaExhausted.Inc()
		return nil, false, ErrQuotaExceeded
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.providerTimeout)
	defer cancel()

	observability.ProviderCalls.WithLabelValues(label).Inc()
	v, err := call(pctx)
	if errors.Is(err, ErrNotFound) {
		return nil, false, ErrNotFound
	}
	if err != nil {
		observability.ProviderErrors.WithLabelValues(label).Inc()
		return nil, false, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if payload, err := json.Marshal(v); err == nil {
		if err := s.store.SetWithTTL(pctx, key, payload, c.TTL()); err != nil {
			s.logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	return v, false, nil
}
