package tariff

import (
	"context"
	"errors"
	"testing"
	"time"

	"taxibordeaux/internal/cache"
	"taxibordeaux/internal/config"
	"taxibordeaux/internal/types"
)

func testRates() config.TariffConfig {
	return config.TariffConfig{
		BaseFare:           280,
		DayRatePerKm:       212,
		NightRatePerKm:     318,
		HourlyWaitRate:     2760,
		ExtraPassengerRate: 400,
		ExtraBagRate:       200,
		MinimumFare:        730,
		NightStartMinute:   21 * 60,
		NightEndMinute:     7 * 60,
		Currency:           "EUR",
	}
}

func testZones() []config.ZoneConfig {
	return []config.ZoneConfig{
		{
			Name:       "airport",
			Box:        types.Box{MinLat: 44.815, MaxLat: 44.845, MinLng: -0.740, MaxLng: -0.690},
			Supplement: 150,
		},
	}
}

func TestCalculate(t *testing.T) {
	// Tuesday 2025-03-11, 14:00 local: plain daytime, no weekend, no holiday.
	day := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		req         Request
		wantTotal   int64
		wantMinimum bool
		wantNight   bool
	}{
		{
			name:      "day rate 12 km",
			req:       Request{DistanceKm: 12.0, Passengers: 1, DepartureTime: day},
			wantTotal: 2824, // 280 + 12.0*212
		},
		{
			name:        "minimum fare wins on short trip",
			req:         Request{DistanceKm: 1.0, Passengers: 1, DepartureTime: day},
			wantTotal:   730, // 280 + 212 = 492 < 730
			wantMinimum: true,
		},
		{
			name:      "night rate applied",
			req:       Request{DistanceKm: 10.0, Passengers: 1, DepartureTime: time.Date(2025, 3, 11, 22, 30, 0, 0, time.UTC)},
			wantTotal: 3460, // 280 + 10.0*318
			wantNight: true,
		},
		{
			name:      "passenger and luggage supplements",
			req:       Request{DistanceKm: 12.0, Passengers: 6, Luggage: 5, DepartureTime: day},
			wantTotal: 2824 + 2*400 + 2*200,
		},
		{
			name:      "wait time billed pro rata",
			req:       Request{DistanceKm: 12.0, Passengers: 1, WaitTimeMin: 30, DepartureTime: day},
			wantTotal: 2824 + 1380, // half an hour at 27.60/h
		},
		{
			name: "airport pickup supplement",
			req: Request{
				DistanceKm: 12.0, Passengers: 1, DepartureTime: day,
				FromCoords: &types.Point{Lat: 44.828, Lng: -0.715},
			},
			wantTotal: 2824 + 150,
		},
		{
			name: "special requests are free",
			req: Request{
				DistanceKm: 12.0, Passengers: 1, DepartureTime: day,
				Special: SpecialRequests{ChildSeat: true, Wheelchair: true},
			},
			wantTotal: 2824,
		},
	}

	s := NewService(testRates(), testZones(), nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Calculate(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if got.Total.Amount != tt.wantTotal {
				t.Errorf("total = %d, want %d (breakdown %+v)", got.Total.Amount, tt.wantTotal, got.Breakdown)
			}
			if got.Total.Currency != "EUR" {
				t.Errorf("currency = %q, want EUR", got.Total.Currency)
			}
			if got.Breakdown.MinimumApplied != tt.wantMinimum {
				t.Errorf("minimumApplied = %v, want %v", got.Breakdown.MinimumApplied, tt.wantMinimum)
			}
			if got.Conditions.IsNightRate != tt.wantNight {
				t.Errorf("isNightRate = %v, want %v", got.Conditions.IsNightRate, tt.wantNight)
			}
			if got.Total.Amount < testRates().MinimumFare {
				t.Errorf("total %d below minimum fare", got.Total.Amount)
			}
		})
	}
}

func TestCalculateRejectsBadInput(t *testing.T) {
	day := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	s := NewService(testRates(), nil, nil, nil)

	tests := []struct {
		name string
		req  Request
	}{
		{"zero distance", Request{DistanceKm: 0, Passengers: 1, DepartureTime: day}},
		{"negative distance", Request{DistanceKm: -3, Passengers: 1, DepartureTime: day}},
		{"too many passengers", Request{DistanceKm: 5, Passengers: 9, DepartureTime: day}},
		{"no passengers", Request{DistanceKm: 5, Passengers: 0, DepartureTime: day}},
		{"too much luggage", Request{DistanceKm: 5, Passengers: 1, Luggage: 11, DepartureTime: day}},
		{"negative wait", Request{DistanceKm: 5, Passengers: 1, WaitTimeMin: -1, DepartureTime: day}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Calculate(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestNightWindowBoundaries(t *testing.T) {
	// Window 21:00-07:00: start inclusive, end exclusive, wraps midnight.
	tests := []struct {
		clock string
		night bool
	}{
		{"21:00", true},
		{"23:59", true},
		{"00:00", true},
		{"06:59", true},
		{"07:00", false},
		{"12:00", false},
		{"20:59", false},
	}
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			parsed, err := time.Parse("15:04", tt.clock)
			if err != nil {
				t.Fatal(err)
			}
			m := parsed.Hour()*60 + parsed.Minute()
			if got := inNightWindow(m, 21*60, 7*60); got != tt.night {
				t.Errorf("inNightWindow(%s) = %v, want %v", tt.clock, got, tt.night)
			}
		})
	}
}

func TestNightWindowWithoutWraparound(t *testing.T) {
	// A window that does not cross midnight, e.g. 00:00-06:00.
	if !inNightWindow(0, 0, 6*60) {
		t.Error("00:00 should be inside 00:00-06:00")
	}
	if inNightWindow(6*60, 0, 6*60) {
		t.Error("06:00 should be outside 00:00-06:00")
	}
}

func TestCalculateReadThroughCache(t *testing.T) {
	day := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	store := cache.NewMemoryStore()
	s := NewService(testRates(), nil, store, nil)

	req := Request{DistanceKm: 12.0, Passengers: 1, DepartureTime: day}
	first, err := s.Calculate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.FromCache {
		t.Error("first calculation should not come from cache")
	}

	second, err := s.Calculate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.FromCache {
		t.Error("second calculation should come from cache")
	}
	if second.Total != first.Total {
		t.Errorf("cached total = %v, want %v", second.Total, first.Total)
	}

	// Sub-quantum distance change hits the same entry.
	req.DistanceKm = 12.04
	third, err := s.Calculate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !third.FromCache {
		t.Error("12.04 km should quantize to the 12.0 km entry")
	}
}

func TestInvalidateFaresDropsCachedEntries(t *testing.T) {
	day := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	store := cache.NewMemoryStore()
	s := NewService(testRates(), nil, store, nil)

	req := Request{DistanceKm: 12.0, Passengers: 1, DepartureTime: day}
	if _, err := s.Calculate(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	cached, err := s.Calculate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !cached.FromCache {
		t.Fatal("second calculation should come from cache")
	}

	if err := s.InvalidateFares(context.Background()); err != nil {
		t.Fatal(err)
	}

	after, err := s.Calculate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if after.FromCache {
		t.Error("cached fare should be gone after invalidation")
	}
}

func TestInvalidateFaresWithoutStore(t *testing.T) {
	s := NewService(testRates(), nil, nil, nil)
	if err := s.InvalidateFares(context.Background()); err != nil {
		t.Errorf("invalidation without a store should be a no-op, got %v", err)
	}
}

func TestConditionsSnapshot(t *testing.T) {
	s := NewService(testRates(), nil, nil, nil)

	// Saturday 2025-07-05.
	weekend := time.Date(2025, 7, 5, 10, 0, 0, 0, time.UTC)
	res, err := s.Calculate(context.Background(), Request{DistanceKm: 5, Passengers: 1, DepartureTime: weekend})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Conditions.IsWeekend {
		t.Error("saturday should flag IsWeekend")
	}

	// Bastille Day 2025.
	holiday := time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)
	res, err = s.Calculate(context.Background(), Request{DistanceKm: 5, Passengers: 1, DepartureTime: holiday})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Conditions.IsHoliday {
		t.Error("bastille day should flag IsHoliday")
	}
	if res.RatesUsed.BaseFare != 280 {
		t.Errorf("rates snapshot missing: %+v", res.RatesUsed)
	}
	if !res.ValidUntil.After(res.CalculatedAt) {
		t.Error("ValidUntil should extend past CalculatedAt")
	}
}
