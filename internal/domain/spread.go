package domain

// SpreadKind selects one of the four per-metal adjustment slots. Bid and ask
// are spreads added to the live bid price; low and high are margins added to
// the 24h low/high display values. They share a store but are semantically
// distinct.
type SpreadKind string

const (
	SpreadBid  SpreadKind = "bid"
	SpreadAsk  SpreadKind = "ask"
	MarginLow  SpreadKind = "low"
	MarginHigh SpreadKind = "high"
)

// Valid reports whether k is one of the four known kinds.
func (k SpreadKind) Valid() bool {
	switch k {
	case SpreadBid, SpreadAsk, MarginLow, MarginHigh:
		return true
	}
	return false
}

// SpreadMargin is the per-tenant, per-metal adjustment document. The zero
// value is meaningful: unset configuration prices with zero adjustments.
type SpreadMargin struct {
	BidSpread  float64 `json:"bidSpread"`
	AskSpread  float64 `json:"askSpread"`
	LowMargin  float64 `json:"lowMargin"`
	HighMargin float64 `json:"highMargin"`
}

// Value returns the slot selected by kind, or 0 for unknown kinds.
func (s SpreadMargin) Value(kind SpreadKind) float64 {
	switch kind {
	case SpreadBid:
		return s.BidSpread
	case SpreadAsk:
		return s.AskSpread
	case MarginLow:
		return s.LowMargin
	case MarginHigh:
		return s.HighMargin
	}
	return 0
}

// Set overwrites the slot selected by kind. Unknown kinds are ignored.
func (s *SpreadMargin) Set(kind SpreadKind, value float64) {
	switch kind {
	case SpreadBid:
		s.BidSpread = value
	case SpreadAsk:
		s.AskSpread = value
	case MarginLow:
		s.LowMargin = value
	case MarginHigh:
		s.HighMargin = value
	}
}
