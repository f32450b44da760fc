// README: Fare cache key builder; quantization rules live in one place.
package tariff

import "fmt"

// KeyBuilder produces fare cache keys of the form namespace:fare:identifier.
// The request is quantized (0.1 km distance, calendar day, hour of day, counts,
// whole wait minutes) so near-identical estimates share an entry. Keys must
// regenerate identically from equal quantized inputs, and every key starts
// with Prefix so a prefix delete covers all of them.
type KeyBuilder struct {
	Namespace string
}

func (k KeyBuilder) Fare(req Request) string {
	return fmt.Sprintf("%s%.1f:%s:%02d:%d:%d:%d",
		k.Prefix(),
		req.DistanceKm,
		req.DepartureTime.Format("2006-01-02"),
		req.DepartureTime.Hour(),
		req.Passengers,
		req.Luggage,
		int(req.WaitTimeMin),
	)
}

// Prefix is the common prefix of every fare key, used for invalidation.
func (k KeyBuilder) Prefix() string {
	return k.Namespace + ":fare:"
}
