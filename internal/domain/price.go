package domain

import "math"

// DerivedPrice is the computed buy/sell display price for one commodity in
// the tenant's local currency and in USD. It is a pure function of the
// quote, spread/margin document, commodity and exchange rate; it is never
// stored.
type DerivedPrice struct {
	SellLocal float64 `json:"sell"`
	BuyLocal  float64 `json:"buy"`
	SellUSD   float64 `json:"sellUSD"`
	BuyUSD    float64 `json:"buyUSD"`
}

// Valid reports whether every component is a finite number. Malformed inputs
// propagate as NaN and the caller suppresses display instead of erroring.
func (p DerivedPrice) Valid() bool {
	for _, v := range [4]float64{p.SellLocal, p.BuyLocal, p.SellUSD, p.BuyUSD} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
