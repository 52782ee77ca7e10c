package metalsfeed

import "github.com/aurumdesk/spotrate/internal/domain"

// command is the JSON frame sent to manage symbol subscriptions.
type command struct {
	Type    string   `json:"type"` // "subscribe" or "unsubscribe"
	Symbols []string `json:"symbols"`
}

// TickMessage is the wire form of a market data event. Ask is optional.
type TickMessage struct {
	Symbol string   `json:"symbol"`
	Bid    float64  `json:"bid"`
	Ask    *float64 `json:"ask"`
	Low    float64  `json:"low"`
	High   float64  `json:"high"`
}

// Domain converts the wire message to a domain tick. The symbol is kept
// exactly as the feed sent it; subscriptions are uppercased on the way out,
// so the two sides agree.
func (m *TickMessage) Domain() domain.Tick {
	t := domain.Tick{
		Symbol: m.Symbol,
		Bid:    m.Bid,
		Low:    m.Low,
		High:   m.High,
	}
	if m.Ask != nil {
		t.Ask = *m.Ask
	}
	return t
}
