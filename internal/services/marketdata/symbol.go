package marketdata

import "strings"

// Broker-style warrant suffixes translated to the provider's canonical form.
// Cache keys always use the original symbol so callers never see the
// translated form.
var warrantSuffixes = map[string]string{
	"/WS": "-WT",
	"/W":  "-WT",
	".WS": "-WT",
	".W":  "-WT",
}

// CacheKey returns the uppercased original symbol used for all cache keying
func CacheKey(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ProviderSymbol translates broker warrant suffixes to the provider's form
func ProviderSymbol(symbol string) string {
	sym := CacheKey(symbol)
	for suffix, canonical := range warrantSuffixes {
		if strings.HasSuffix(sym, suffix) {
			return strings.TrimSuffix(sym, suffix) + canonical
		}
	}
	return sym
}
