package broadcast_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/supakit/pkg/broadcast"
)

func receiveOne[T any](t *testing.T, sub broadcast.Subscriber[T]) T {
	t.Helper()
	select {
	case msg, ok := <-sub.Receive(context.Background()):
		require.True(t, ok, "channel closed before message arrived")
		return msg.Data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		panic("unreachable")
	}
}

func TestMemory_FanOut(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemory[string](4)
	defer b.Close() //nolint:errcheck

	first := b.Subscribe(context.Background())
	second := b.Subscribe(context.Background())

	require.NoError(t, b.Broadcast(context.Background(), broadcast.Message[string]{Data: "signed_in"}))

	assert.Equal(t, "signed_in", receiveOne(t, first))
	assert.Equal(t, "signed_in", receiveOne(t, second))
}

func TestMemory_CloseClosesSubscribers(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemory[int](1)
	sub := b.Subscribe(context.Background())

	require.NoError(t, b.Close())

	_, ok := <-sub.Receive(context.Background())
	assert.False(t, ok)

	// Subscribing after close yields an already-closed subscriber.
	late := b.Subscribe(context.Background())
	_, ok = <-late.Receive(context.Background())
	assert.False(t, ok)
}

func TestMemory_ContextCancellationUnsubscribes(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemory[int](1)
	defer b.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	sub := b.Subscribe(ctx)
	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.Receive(context.Background()):
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestMemory_SlowConsumerDropped(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemory[int](1)
	defer b.Close() //nolint:errcheck

	sub := b.Subscribe(context.Background())

	require.NoError(t, b.Broadcast(context.Background(), broadcast.Message[int]{Data: 1}))
	// Second message overflows the buffer; the subscriber is dropped, not blocked.
	require.NoError(t, b.Broadcast(context.Background(), broadcast.Message[int]{Data: 2}))

	assert.Equal(t, 1, receiveOne(t, sub))
}
