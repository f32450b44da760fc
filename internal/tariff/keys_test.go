package tariff

import (
	"strings"
	"testing"
	"time"
)

func TestFareKeyQuantization(t *testing.T) {
	k := KeyBuilder{Namespace: "tariff"}
	day := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	base := k.Fare(Request{DistanceKm: 12.0, Passengers: 1, DepartureTime: day})

	// Below the 0.1 km quantum: same key.
	if got := k.Fare(Request{DistanceKm: 12.04, Passengers: 1, DepartureTime: day}); got != base {
		t.Errorf("12.04 km key = %q, want the 12.0 km key %q", got, base)
	}
	if got := k.Fare(Request{DistanceKm: 12.1, Passengers: 1, DepartureTime: day}); got == base {
		t.Error("12.1 km should produce a different key")
	}
	if got := k.Fare(Request{DistanceKm: 12.0, Passengers: 2, DepartureTime: day}); got == base {
		t.Error("different passenger count should produce a different key")
	}
}

func TestFareKeysShareInvalidationPrefix(t *testing.T) {
	k := KeyBuilder{Namespace: "tariff"}
	day := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)

	key := k.Fare(Request{DistanceKm: 5, Passengers: 2, Luggage: 1, DepartureTime: day})
	if !strings.HasPrefix(key, k.Prefix()) {
		t.Errorf("key %q should start with prefix %q", key, k.Prefix())
	}
}
