// Package fx converts amounts between the supported display currencies
// using a fixed table of USD-relative rates. Rates are static configuration,
// injected at construction; nothing is fetched.
package fx

import (
	"math"

	"github.com/aurumdesk/spotrate/internal/domain"
)

// DefaultRates returns the built-in currency table, expressed as local units
// per USD.
func DefaultRates() map[domain.Currency]float64 {
	return map[domain.Currency]float64{
		domain.CurrencyAED: 3.674,
		domain.CurrencyUSD: 1,
		domain.CurrencyEUR: 0.92,
		domain.CurrencyGBP: 0.79,
	}
}

// Converter performs fixed-table currency conversion.
type Converter struct {
	rates map[domain.Currency]float64
}

// New creates a Converter from the given rate table. Entries with
// non-positive rates are dropped; an empty table falls back to DefaultRates.
func New(rates map[domain.Currency]float64) *Converter {
	cleaned := make(map[domain.Currency]float64, len(rates))
	for cur, rate := range rates {
		if rate > 0 {
			cleaned[cur] = rate
		}
	}
	if len(cleaned) == 0 {
		cleaned = DefaultRates()
	}
	return &Converter{rates: cleaned}
}

// Rate returns the local-units-per-USD rate for a currency.
func (c *Converter) Rate(cur domain.Currency) (float64, bool) {
	rate, ok := c.rates[cur]
	return rate, ok
}

// Convert translates amount from one currency to another:
// amount / rate[from] * rate[to]. Unknown currencies or non-finite input
// yield NaN; callers suppress display rather than propagate an error.
func (c *Converter) Convert(amount float64, from, to domain.Currency) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return math.NaN()
	}
	fromRate, okFrom := c.rates[from]
	toRate, okTo := c.rates[to]
	if !okFrom || !okTo {
		return math.NaN()
	}
	return amount / fromRate * toRate
}
