package fx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurumdesk/spotrate/internal/domain"
)

func TestConvertBetweenKnownCurrencies(t *testing.T) {
	c := New(DefaultRates())

	// Local per USD: converting USD into AED multiplies by the AED rate.
	assert.InDelta(t, 3.674, c.Convert(1, domain.CurrencyUSD, domain.CurrencyAED), 1e-12)
	assert.InDelta(t, 1, c.Convert(3.674, domain.CurrencyAED, domain.CurrencyUSD), 1e-12)
	assert.InDelta(t, 0.92, c.Convert(1, domain.CurrencyUSD, domain.CurrencyEUR), 1e-12)
}

func TestConvertIdentity(t *testing.T) {
	c := New(DefaultRates())
	for _, cur := range domain.SupportedCurrencies {
		assert.InDelta(t, 123.45, c.Convert(123.45, cur, cur), 1e-12)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	c := New(DefaultRates())
	aed := c.Convert(250, domain.CurrencyGBP, domain.CurrencyAED)
	back := c.Convert(aed, domain.CurrencyAED, domain.CurrencyGBP)
	assert.InDelta(t, 250, back, 1e-9)
}

func TestConvertUnknownCurrencyIsNaN(t *testing.T) {
	c := New(DefaultRates())
	assert.True(t, math.IsNaN(c.Convert(100, domain.Currency("XXX"), domain.CurrencyUSD)))
	assert.True(t, math.IsNaN(c.Convert(100, domain.CurrencyUSD, domain.Currency("XXX"))))
}

func TestConvertNonFiniteAmountIsNaN(t *testing.T) {
	c := New(DefaultRates())
	assert.True(t, math.IsNaN(c.Convert(math.NaN(), domain.CurrencyUSD, domain.CurrencyAED)))
	assert.True(t, math.IsNaN(c.Convert(math.Inf(-1), domain.CurrencyUSD, domain.CurrencyAED)))
}

func TestNewDropsNonPositiveRates(t *testing.T) {
	c := New(map[domain.Currency]float64{
		domain.CurrencyUSD: 1,
		domain.CurrencyAED: -3.674,
	})
	_, ok := c.Rate(domain.CurrencyAED)
	assert.False(t, ok)
	_, ok = c.Rate(domain.CurrencyUSD)
	assert.True(t, ok)
}

func TestNewEmptyTableFallsBackToDefaults(t *testing.T) {
	c := New(nil)
	rate, ok := c.Rate(domain.CurrencyAED)
	assert.True(t, ok)
	assert.Equal(t, 3.674, rate)
}
