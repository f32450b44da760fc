package geocache

import (
	"testing"

	"taxibordeaux/internal/types"
)

func TestRouteKeyQuantization(t *testing.T) {
	k := KeyBuilder{Namespace: "geo"}
	from := types.Point{Lat: 44.83780, Lng: -0.57920}
	to := types.Point{Lat: 44.82880, Lng: -0.71540}

	base := k.Route(from, to, "fr")

	// Below the 4-decimal rounding threshold: same key.
	jittered := types.Point{Lat: from.Lat + 0.00004, Lng: from.Lng - 0.00004}
	if got := k.Route(jittered, to, "fr"); got != base {
		t.Errorf("jittered key = %q, want %q", got, base)
	}

	// A real move lands on a different entry.
	moved := types.Point{Lat: from.Lat + 0.001, Lng: from.Lng}
	if got := k.Route(moved, to, "fr"); got == base {
		t.Error("moved origin should produce a different key")
	}
}

func TestKeyShapes(t *testing.T) {
	k := KeyBuilder{Namespace: "geo"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			"geocode normalizes input",
			k.Geocode("  12 Rue Sainte-Catherine, Bordeaux ", "fr"),
			"geo:geocode:12 rue sainte-catherine, bordeaux:fr",
		},
		{
			"suggest lower-cases and trims",
			k.Suggest(" Gare Saint-Jean", "FR"),
			"geo:suggest:gare saint-jean:fr",
		},
		{
			"reverse geocode rounds to 4 decimals",
			k.ReverseGeocode(types.Point{Lat: 44.837789, Lng: -0.579180}, "fr"),
			"geo:geocode:44.8378,-0.5792:fr",
		},
		{
			"no locale segment when empty",
			k.Suggest("quinconces", ""),
			"geo:suggest:quinconces",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("key = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestPrefixMatchesKeys(t *testing.T) {
	k := KeyBuilder{Namespace: "geo"}
	key := k.Suggest("rue", "fr")
	prefix := k.Prefix(CategorySuggest)
	if len(key) < len(prefix) || key[:len(prefix)] != prefix {
		t.Errorf("key %q should start with prefix %q", key, prefix)
	}
}
