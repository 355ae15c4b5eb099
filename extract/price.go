package extract

import (
	"strconv"
	"strings"
)

var (
	priceNumericKeys = []string{"price", "unitPrice", "amount"}
	priceStringKeys  = []string{"priceString", "displayPrice", "formattedPrice"}
)

// minorUnitThreshold splits numeric prices into two interpretations:
// values above it are taken as minor currency units (cents) and
// divided by 100, values at or below it as already-decimal currency.
// A listing priced above 10000 in decimal currency is effectively
// nonexistent, while cents values above 10000 (anything over $100)
// are common, so the cutoff misclassifies little in practice.
const minorUnitThreshold = 10000

// Price extracts a price from a single object.
//
// Numeric keys are tried first, in priority order; the first key
// present decides the branch. A numeric value goes through the
// minor-unit conversion above. A non-numeric value under a numeric key
// falls through to the display-string keys, which are stripped down to
// digits and decimal points and parsed. Returns nil when nothing
// parses; there is no currency-symbol awareness, only character
// filtering.
func Price(obj map[string]any) *float64 {
	for _, k := range priceNumericKeys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		if n, ok := asFloat(v); ok {
			if n > minorUnitThreshold {
				n /= 100
			}
			return &n
		}
		break
	}

	for _, k := range priceStringKeys {
		s, ok := obj[k].(string)
		if !ok {
			continue
		}
		if n, ok := parsePriceString(s); ok {
			return &n
		}
	}
	return nil
}

func parsePriceString(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
