// README: Tariff request/result value types and the fare breakdown.
package tariff

import (
	"time"

	"taxibordeaux/internal/config"
	"taxibordeaux/internal/types"
)

// SpecialRequests are zero-cost by regulation but appear in the breakdown
// so the customer sees them acknowledged.
type SpecialRequests struct {
	ChildSeat  bool `json:"child_seat"`
	Wheelchair bool `json:"wheelchair"`
	Animal     bool `json:"animal"`
}

// Request is the immutable input of a fare calculation.
type Request struct {
	DistanceKm    float64         `json:"distance_km"`
	DurationMin   float64         `json:"duration_min"`
	Passengers    int             `json:"passengers"`
	Luggage       int             `json:"luggage"`
	DepartureTime time.Time       `json:"departure_time"`
	FromCoords    *types.Point    `json:"from_coords,omitempty"`
	ToCoords      *types.Point    `json:"to_coords,omitempty"`
	WaitTimeMin   float64         `json:"wait_time_min"`
	Special       SpecialRequests `json:"special"`
}

// Breakdown itemizes the fare in euro cents.
type Breakdown struct {
	BaseFare            int64 `json:"base_fare"`
	DistanceFare        int64 `json:"distance_fare"`
	WaitFare            int64 `json:"wait_fare"`
	PassengerSupplement int64 `json:"passenger_supplement"`
	LuggageSupplement   int64 `json:"luggage_supplement"`
	ZoneSupplement      int64 `json:"zone_supplement"`
	SpecialSupplement   int64 `json:"special_supplement"`
	Subtotal            int64 `json:"subtotal"`
	MinimumApplied      bool  `json:"minimum_applied"`
}

type Conditions struct {
	IsNightRate bool   `json:"is_night_rate"`
	IsWeekend   bool   `json:"is_weekend"`
	IsHoliday   bool   `json:"is_holiday"`
	SpecialZone string `json:"special_zone,omitempty"`
}

// Result is self-describing: it snapshots the rates and conditions used so
// the price can be audited and displayed without recomputation.
type Result struct {
	Total        types.Money         `json:"total"`
	Breakdown    Breakdown           `json:"breakdown"`
	Conditions   Conditions          `json:"conditions"`
	RatesUsed    config.TariffConfig `json:"rates_used"`
	CalculatedAt time.Time           `json:"calculated_at"`
	ValidUntil   time.Time           `json:"valid_until"`
	FromCache    bool                `json:"from_cache"`
}
