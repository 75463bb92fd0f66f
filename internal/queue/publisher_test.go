package queue

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// silentBroker accepts TCP connections and never answers the AMQP
// handshake.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestPublisher_HungBrokerDoesNotBlockCallers(t *testing.T) {
	p := newPublisher(silentBroker(t), 300*time.Millisecond, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	var busy int
	for i := 0; i < 10; i++ {
		err := p.Publish(ctx, RoutingReservationCreated, ReservationCreatedEvent{ReservationID: uint64(i + 1)})
		if err != nil {
			require.ErrorIs(t, err, ErrPublisherBusy)
			busy++
		}
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Positive(t, busy, "a full buffer rejects instead of waiting")

	start = time.Now()
	p.Close()
	assert.Less(t, time.Since(start), 3*time.Second, "close is bounded by the dial timeout")

	err := p.Publish(context.Background(), RoutingWaitlistJoined, WaitlistJoinedEvent{})
	assert.ErrorIs(t, err, ErrPublisherClosed)
	p.Close()
}

func TestPublisher_CancelledContext(t *testing.T) {
	p := newPublisher(silentBroker(t), 100*time.Millisecond, 1)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, RoutingWaitlistJoined, WaitlistJoinedEvent{}), context.Canceled)
}
