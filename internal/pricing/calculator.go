// Package pricing derives buy/sell display prices for commodity variants
// from live quotes, spread/margin configuration and per-commodity premiums
// and charges. Everything here is pure: same inputs, same outputs.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/aurumdesk/spotrate/internal/domain"
	"github.com/aurumdesk/spotrate/internal/fx"
)

const (
	// TroyOunceGrams divides a USD-per-troy-ounce quote into USD per gram.
	TroyOunceGrams = 31.103

	// GoldAskPremiumUSD is the fixed asking-side premium, in USD per troy
	// ounce, applied to gold-family metals.
	GoldAskPremiumUSD = 0.5

	// BaseAskPremiumUSD is the fixed asking-side premium for all other
	// metals.
	BaseAskPremiumUSD = 0.05

	// priceDecimals is the fixed precision of every monetary output.
	priceDecimals = 4
)

// AskPremium returns the fixed asking-side premium for a metal.
func AskPremium(metal domain.Metal) float64 {
	if metal.IsGoldFamily() {
		return GoldAskPremiumUSD
	}
	return BaseAskPremiumUSD
}

// BiddingPrice is the buy-side USD-per-ounce price: live bid plus the
// tenant's bid spread.
func BiddingPrice(q domain.Quote, s domain.SpreadMargin) float64 {
	return q.Bid + s.BidSpread
}

// AskingPrice is the sell-side USD-per-ounce price. It stacks the bid
// spread, the ask spread and the fixed ask premium on top of the live bid.
// The asymmetry against BiddingPrice is the margin-capture design, not a
// mistake.
func AskingPrice(q domain.Quote, s domain.SpreadMargin, metal domain.Metal) float64 {
	return q.Bid + s.BidSpread + s.AskSpread + AskPremium(metal)
}

// LowValue and HighValue are the 24h extremes with the display margins
// applied.
func LowValue(q domain.Quote, s domain.SpreadMargin) float64 {
	return q.Low + s.LowMargin
}

func HighValue(q domain.Quote, s domain.SpreadMargin) float64 {
	return q.High + s.HighMargin
}

// PerGramUSD is the headline spread-adjusted bid converted to USD per gram.
func PerGramUSD(q domain.Quote, s domain.SpreadMargin) float64 {
	return Round(BiddingPrice(q, s) / TroyOunceGrams)
}

// Calculator derives commodity prices in a target currency. It carries only
// the currency converter; all market and configuration state is passed per
// call.
type Calculator struct {
	fx *fx.Converter
}

// NewCalculator creates a Calculator backed by the given currency converter.
func NewCalculator(converter *fx.Converter) *Calculator {
	return &Calculator{fx: converter}
}

// Price derives the buy and sell price of one commodity from the resolved
// family quote, the family's spread/margin document and the target currency.
// Missing configuration contributes zeros; malformed numerics propagate as
// NaN so the caller can render "N/A".
func (c *Calculator) Price(q domain.Quote, s domain.SpreadMargin, v domain.Commodity, cur domain.Currency) domain.DerivedPrice {
	rate, ok := c.fx.Rate(cur)
	if !ok {
		rate = math.NaN()
	}

	bidding := BiddingPrice(q, s)
	asking := AskingPrice(q, s, v.Metal)

	sell := c.sidePrice(asking, v.SellPremium, v.SellCharge, rate, v)
	buy := c.sidePrice(bidding, v.BuyPremium, v.BuyCharge, rate, v)

	return domain.DerivedPrice{
		SellLocal: sell,
		BuyLocal:  buy,
		SellUSD:   Round(c.fx.Convert(sell, cur, domain.CurrencyUSD)),
		BuyUSD:    Round(c.fx.Convert(buy, cur, domain.CurrencyUSD)),
	}
}

// PerGramLocal is the headline spread-adjusted bid converted to the target
// currency per gram.
func (c *Calculator) PerGramLocal(q domain.Quote, s domain.SpreadMargin, cur domain.Currency) float64 {
	rate, ok := c.fx.Rate(cur)
	if !ok {
		return math.NaN()
	}
	return Round(BiddingPrice(q, s) / TroyOunceGrams * rate)
}

// sidePrice applies the per-ounce premium, converts to the target currency
// and scales by unit count, gram weight and purity, then adds the flat
// charge: ((side + premium) / 31.103) * fx * units * grams * purity + charge.
func (c *Calculator) sidePrice(side, premium, charge, rate float64, v domain.Commodity) float64 {
	base := ((side + premium) / TroyOunceGrams) * rate * v.UnitCount *
		UnitMultiplier(v.Weight) * PurityFraction(v.Purity)
	return Round(base + charge)
}

// Round fixes a monetary value to 4 decimal places. Non-finite values pass
// through untouched so NaN keeps signalling "not displayable".
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(priceDecimals).InexactFloat64()
}
