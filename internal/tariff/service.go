// README: Tariff engine; computes the regulated fare from trip parameters.
package tariff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"taxibordeaux/internal/cache"
	"taxibordeaux/internal/config"
	"taxibordeaux/internal/observability"
	"taxibordeaux/internal/types"
)

var ErrInvalidArgument = errors.New("invalid tariff request")

const (
	minPassengers      = 1
	maxPassengers      = 8
	maxLuggage         = 10
	includedPassengers = 4
	includedBags       = 3

	resultValidity = 15 * time.Minute
	fareCacheTTL   = 30 * time.Minute
)

// Service is the tariff engine. The calculation itself is pure; the optional
// cache store only short-circuits recomputation of identical quantized requests.
type Service struct {
	rates  config.TariffConfig
	zones  []config.ZoneConfig
	cache  cache.Store
	keys   KeyBuilder
	logger *slog.Logger
}

// NewService builds the engine. store may be nil to disable the read-through
// cache; all collaborators are passed in explicitly.
func NewService(rates config.TariffConfig, zones []config.ZoneConfig, store cache.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		rates:  rates,
		zones:  zones,
		cache:  store,
		keys:   KeyBuilder{Namespace: "tariff"},
		logger: logger,
	}
}

// Rates returns the rate snapshot the engine prices with.
func (s *Service) Rates() config.TariffConfig {
	return s.rates
}

// Calculate prices a trip. It fails with ErrInvalidArgument on out-of-range
// input and never returns a total below the regulated minimum fare.
func (s *Service) Calculate(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	key := s.keys.Fare(req)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != nil {
			var cached Result
			if err := json.Unmarshal(raw, &cached); err == nil {
				cached.FromCache = true
				return &cached, nil
			}
		}
	}

	res := s.compute(req)
	observability.TariffCalculations.Inc()

	if s.cache != nil {
		if raw, err := json.Marshal(res); err == nil {
			if err := s.cache.SetWithTTL(ctx, key, raw, fareCacheTTL); err != nil {
				s.logger.Warn("fare cache write failed", "key", key, "err", err)
			}
		}
	}
	return res, nil
}

func validate(req Request) error {
	switch {
	case req.DistanceKm <= 0:
		return fmt.Errorf("%w: distance must be > 0", ErrInvalidArgument)
	case req.DurationMin < 0:
		return fmt.Errorf("%w: duration must be >= 0", ErrInvalidArgument)
	case req.Passengers < minPassengers || req.Passengers > maxPassengers:
		return fmt.Errorf("%w: passengers must be between %d and %d", ErrInvalidArgument, minPassengers, maxPassengers)
	case req.Luggage < 0 || req.Luggage > maxLuggage:
		return fmt.Errorf("%w: luggage must be between 0 and %d", ErrInvalidArgument, maxLuggage)
	case req.WaitTimeMin < 0:
		return fmt.Errorf("%w: wait time must be >= 0", ErrInvalidArgument)
	}
	return nil
}

func (s *Service) compute(req Request) *Result {
	dep := req.DepartureTime
	cond := Conditions{
		IsNightRate: inNightWindow(dep.Hour()*60+dep.Minute(), s.rates.NightStartMinute, s.rates.NightEndMinute),
		IsWeekend:   dep.Weekday() == time.Saturday || dep.Weekday() == time.Sunday,
		IsHoliday:   IsHoliday(dep),
	}

	zoneName, zoneSupplement := s.detectZone(req)
	cond.SpecialZone = zoneName

	perKm := s.rates.DayRatePerKm
	if cond.IsNightRate {
		perKm = s.rates.NightRatePerKm
	}

	b := Breakdown{
		BaseFare:            s.rates.BaseFare,
		DistanceFare:        roundCents(req.DistanceKm * float64(perKm)),
		WaitFare:            roundCents(req.WaitTimeMin / 60 * float64(s.rates.HourlyWaitRate)),
		PassengerSupplement: int64(maxInt(0, req.Passengers-includedPassengers)) * s.rates.ExtraPassengerRate,
		LuggageSupplement:   int64(maxInt(0, req.Luggage-includedBags)) * s.rates.ExtraBagRate,
		ZoneSupplement:      zoneSupplement,
		// Child seat, wheelchair and animal transport are free by regulation;
		// the line stays in the breakdown for transparency.
		SpecialSupplement: 0,
	}
	b.Subtotal = b.BaseFare + b.DistanceFare + b.WaitFare +
		b.PassengerSupplement + b.LuggageSupplement + b.ZoneSupplement + b.SpecialSupplement

	total := b.Subtotal
	if total < s.rates.MinimumFare {
		total = s.rates.MinimumFare
		b.MinimumApplied = true
	}

	now := time.Now()
	return &Result{
		Total:        types.Money{Amount: total, Currency: s.rates.Currency},
		Breakdown:    b,
		Conditions:   cond,
		RatesUsed:    s.rates,
		CalculatedAt: now,
		ValidUntil:   now.Add(resultValidity),
	}
}

// inNightWindow compares minutes-since-midnight against the configured window.
// Start is inclusive, end exclusive; a start after the end means the window
// wraps midnight.
func inNightWindow(minute, start, end int) bool {
	if start > end {
		return minute >= start || minute < end
	}
	return minute >= start && minute < end
}

func (s *Service) detectZone(req Request) (string, int64) {
	for _, z := range s.zones {
		if req.FromCoords != nil && z.Box.Contains(*req.FromCoords) {
			return z.Name, z.Supplement
		}
		if req.ToCoords != nil && z.Box.Contains(*req.ToCoords) {
			return z.Name, z.Supplement
		}
	}
	return "", 0
}

// InvalidateFares drops every cached fare, e.g. after a rate change. No-op
// without a cache store.
func (s *Service) InvalidateFares(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPrefix(ctx, s.keys.Prefix())
}

// roundCents rounds half-up at the cent boundary.
func roundCents(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
