// README: Deterministic cache-key builders, one rule set per category.
package geocache

import (
	"fmt"
	"strings"

	"taxibordeaux/internal/types"
)

// KeyBuilder produces cache keys of the form namespace:category:identifier[:locale].
// Coordinates are rounded to 4 decimal places (~11 m) so jittery GPS fixes for
// the same spot land on the same entry; free-text inputs are trimmed and
// lower-cased. Keys must regenerate identically from equal quantized inputs.
type KeyBuilder struct {
	Namespace string
}

func (k KeyBuilder) Route(from, to types.Point, locale string) string {
	return k.join(CategoryRoute, coordPair(from)+"|"+coordPair(to), locale)
}

func (k KeyBuilder) Geocode(address, locale string) string {
	return k.join(CategoryGeocode, normalizeText(address), locale)
}

func (k KeyBuilder) ReverseGeocode(p types.Point, locale string) string {
	return k.join(CategoryGeocode, coordPair(p), locale)
}

func (k KeyBuilder) Suggest(input, locale string) string {
	return k.join(CategorySuggest, normalizeText(input), locale)
}

func (k KeyBuilder) Matrix(origins, destinations []string, locale string) string {
	id := normalizeText(strings.Join(origins, ";")) + "|" + normalizeText(strings.Join(destinations, ";"))
	return k.join(CategoryNearby, id, locale)
}

func (k KeyBuilder) Prefix(c Category) string {
	return fmt.Sprintf("%s:%s:", k.Namespace, c)
}

func (k KeyBuilder) join(c Category, identifier, locale string) string {
	key := fmt.Sprintf("%s:%s:%s", k.Namespace, c, identifier)
	if locale != "" {
		key += ":" + strings.ToLower(locale)
	}
	return key
}

func coordPair(p types.Point) string {
	return fmt.Sprintf("%.4f,%.4f", p.Lat, p.Lng)
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
