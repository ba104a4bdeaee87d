package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarketService() *MarketService {
	return NewMarketService(nil, nil, NewSyntheticFetcher(), 30*time.Minute)
}

func TestSubscribeReceivesBroadcast(t *testing.T) {
	s := newTestMarketService()

	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	update := SeriesUpdate{Symbol: "lithium_carbonate", LatestPrice: 95000, Points: 90, UpdatedAt: time.Now().UTC()}
	s.broadcast(update)

	select {
	case got := <-ch:
		assert.Equal(t, update, got)
	case <-time.After(time.Second):
		t.Fatal("expected an update on the subscriber channel")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	s := newTestMarketService()

	ch := s.Subscribe()
	s.Unsubscribe(ch)

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after unsubscribe")

	// A second unsubscribe must not panic
	s.Unsubscribe(ch)
}

func TestBroadcastDoesNotBlockOnSlowSubscriber(t *testing.T) {
	s := newTestMarketService()

	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	// Fill the buffer and keep going; broadcast should drop, not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.broadcast(SeriesUpdate{Symbol: "lithium_carbonate", LatestPrice: float64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow subscriber")
	}

	first := <-ch
	require.Equal(t, 0.0, first.LatestPrice)
}
