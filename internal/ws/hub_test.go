package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	h := NewHub(zap.NewNop(), 4)

	a := h.Subscribe()
	b := h.Subscribe()
	require.Equal(t, 2, h.ClientCount())

	h.Publish([]byte("tick"))

	assert.Equal(t, "tick", string(<-a.Receive()))
	assert.Equal(t, "tick", string(<-b.Receive()))
}

func TestHub_SlowConsumerDroppedWithoutBlocking(t *testing.T) {
	h := NewHub(zap.NewNop(), 2)

	slow := h.Subscribe()
	fast := h.Subscribe()

	// Fill the slow client's queue, then keep publishing. The third publish
	// must not block and must evict the slow client.
	for i := 0; i < 3; i++ {
		h.Publish([]byte("tick"))
		// Keep the fast client drained.
		<-fast.Receive()
	}

	assert.Equal(t, 1, h.ClientCount())

	// The dropped client's channel delivers what was buffered, then closes.
	var received int
	for range slow.Receive() {
		received++
	}
	assert.Equal(t, 2, received)

	// The survivor still gets new messages.
	h.Publish([]byte("after"))
	assert.Equal(t, "after", string(<-fast.Receive()))
}

func TestHub_UnsubscribeIdempotent(t *testing.T) {
	h := NewHub(zap.NewNop(), 4)

	c := h.Subscribe()
	h.Unsubscribe(c)
	h.Unsubscribe(c)

	assert.Equal(t, 0, h.ClientCount())

	_, open := <-c.Receive()
	assert.False(t, open)
}

func TestHub_PublishJSONFansOutSameBytes(t *testing.T) {
	h := NewHub(zap.NewNop(), 4)

	a := h.Subscribe()
	b := h.Subscribe()

	update := NewMarketUpdate([]TickerPrice{{Ticker: "BTC", Price: 50000}})
	require.NoError(t, h.PublishJSON(update))

	payloadA := <-a.Receive()
	payloadB := <-b.Receive()
	assert.Equal(t, payloadA, payloadB)

	var decoded MarketUpdate
	require.NoError(t, json.Unmarshal(payloadA, &decoded))
	assert.Equal(t, TypeMarketUpdate, decoded.Type)
	require.Len(t, decoded.Data, 1)
	assert.Equal(t, "BTC", decoded.Data[0].Ticker)
}

func TestHub_CloseRejectsNewSubscribers(t *testing.T) {
	h := NewHub(zap.NewNop(), 4)

	a := h.Subscribe()
	h.Close()

	_, open := <-a.Receive()
	assert.False(t, open)

	late := h.Subscribe()
	_, open = <-late.Receive()
	assert.False(t, open)
	assert.Equal(t, 0, h.ClientCount())
}

func TestHub_DefaultBufferApplied(t *testing.T) {
	h := NewHub(zap.NewNop(), 0)
	c := h.Subscribe()
	assert.Equal(t, DefaultSendBuffer, cap(c.send))
}
