package domain

import "time"

// TickDirection marks how the bid moved relative to the previous tick for
// the same symbol.
type TickDirection string

const (
	// DirectionNone is carried by the first tick of a symbol, which has no
	// previous bid to compare against.
	DirectionNone      TickDirection = ""
	DirectionUp        TickDirection = "up"
	DirectionDown      TickDirection = "down"
	DirectionUnchanged TickDirection = "unchanged"
)

// Tick is a single inbound market data event from the streaming feed.
// Ask is optional on the wire; zero means the feed did not supply one.
type Tick struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask,omitempty"`
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
}

// Quote is the latest known market state for one symbol. Quotes are
// transient: last write wins, nothing is persisted.
type Quote struct {
	Symbol       string        `json:"symbol"`
	Bid          float64       `json:"bid"`
	Ask          float64       `json:"ask,omitempty"`
	Low          float64       `json:"low"`
	High         float64       `json:"high"`
	BidDirection TickDirection `json:"bidDirection,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
