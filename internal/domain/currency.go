package domain

import "strings"

// Currency identifies a supported display currency.
type Currency string

const (
	CurrencyAED Currency = "AED"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// SupportedCurrencies lists every currency the converter carries a rate for.
var SupportedCurrencies = []Currency{CurrencyAED, CurrencyUSD, CurrencyEUR, CurrencyGBP}

// ParseCurrency normalizes a currency code. It returns false for codes
// outside the supported set.
func ParseCurrency(s string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range SupportedCurrencies {
		if c == known {
			return c, true
		}
	}
	return "", false
}
