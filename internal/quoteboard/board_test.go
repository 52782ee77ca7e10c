package quoteboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurumdesk/spotrate/internal/domain"
)

func TestApplyFirstTickHasNoDirection(t *testing.T) {
	b := New()

	q := b.Apply(domain.Tick{Symbol: "GOLD", Bid: 2000, Low: 1990, High: 2010})
	assert.Equal(t, domain.DirectionNone, q.BidDirection)
	assert.Equal(t, 2000.0, q.Bid)
	assert.False(t, q.UpdatedAt.IsZero())
}

func TestApplyDirectionSequence(t *testing.T) {
	b := New()

	b.Apply(domain.Tick{Symbol: "GOLD", Bid: 2000})
	up := b.Apply(domain.Tick{Symbol: "GOLD", Bid: 2001})
	down := b.Apply(domain.Tick{Symbol: "GOLD", Bid: 1999.5})
	flat := b.Apply(domain.Tick{Symbol: "GOLD", Bid: 1999.5})

	assert.Equal(t, domain.DirectionUp, up.BidDirection)
	assert.Equal(t, domain.DirectionDown, down.BidDirection)
	assert.Equal(t, domain.DirectionUnchanged, flat.BidDirection)
}

func TestApplyTracksSymbolsIndependently(t *testing.T) {
	b := New()

	b.Apply(domain.Tick{Symbol: "GOLD", Bid: 2000})
	first := b.Apply(domain.Tick{Symbol: "SILVER", Bid: 24})
	assert.Equal(t, domain.DirectionNone, first.BidDirection)

	second := b.Apply(domain.Tick{Symbol: "SILVER", Bid: 25})
	assert.Equal(t, domain.DirectionUp, second.BidDirection)
	assert.Equal(t, 2, b.Len())
}

func TestApplyLastWriteWins(t *testing.T) {
	b := New()

	b.Apply(domain.Tick{Symbol: "GOLD", Bid: 2000, Low: 1990, High: 2010})
	b.Apply(domain.Tick{Symbol: "GOLD", Bid: 2005, Low: 1991, High: 2011})

	q, ok := b.Get("GOLD")
	assert.True(t, ok)
	assert.Equal(t, 2005.0, q.Bid)
	assert.Equal(t, 1991.0, q.Low)
	assert.Equal(t, 2011.0, q.High)
}

func TestSnapshotIsACopy(t *testing.T) {
	b := New()
	b.Apply(domain.Tick{Symbol: "GOLD", Bid: 2000})

	snap := b.Snapshot()
	snap["GOLD"] = domain.Quote{Symbol: "GOLD", Bid: 1}

	q, _ := b.Get("GOLD")
	assert.Equal(t, 2000.0, q.Bid)
}

func TestGetUnknownSymbol(t *testing.T) {
	b := New()
	_, ok := b.Get("COPPER")
	assert.False(t, ok)
}
