package metalsfeed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickMessageDecode(t *testing.T) {
	var msg TickMessage
	require.NoError(t, json.Unmarshal([]byte(`{"symbol":"GOLD","bid":2000.5,"ask":2001.25,"low":1990,"high":2010}`), &msg))

	tick := msg.Domain()
	assert.Equal(t, "GOLD", tick.Symbol)
	assert.Equal(t, 2000.5, tick.Bid)
	assert.Equal(t, 2001.25, tick.Ask)
	assert.Equal(t, 1990.0, tick.Low)
	assert.Equal(t, 2010.0, tick.High)
}

func TestTickMessageDecodeWithoutAsk(t *testing.T) {
	var msg TickMessage
	require.NoError(t, json.Unmarshal([]byte(`{"symbol":"SILVER","bid":25.1,"low":24.9,"high":25.4}`), &msg))

	require.Nil(t, msg.Ask)
	tick := msg.Domain()
	assert.Zero(t, tick.Ask)
	assert.Equal(t, 25.1, tick.Bid)
}

func TestCommandEncoding(t *testing.T) {
	payload, err := json.Marshal(command{Type: "subscribe", Symbols: []string{"GOLD", "SILVER"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"subscribe","symbols":["GOLD","SILVER"]}`, string(payload))
}
