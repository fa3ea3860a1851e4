package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTapSubscribePublish(t *testing.T) {
	t.Parallel()
	tap := NewTap()
	defer tap.Close()

	id, events := tap.Subscribe()
	require.NotEmpty(t, id)

	tap.Publish(BoundaryEvent{Seq: 1, SentenceBytes: 25})
	ev := <-events
	assert.Equal(t, uint64(1), ev.Seq)
	assert.Equal(t, uint64(25), ev.SentenceBytes)
}

func TestTapUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()
	tap := NewTap()
	defer tap.Close()

	id, events := tap.Subscribe()
	tap.Unsubscribe(id)

	_, ok := <-events
	assert.False(t, ok)

	// Unsubscribing twice is harmless.
	tap.Unsubscribe(id)
}

func TestTapSlowSubscriberDoesNotBlock(t *testing.T) {
	t.Parallel()
	tap := NewTap()
	defer tap.Close()

	_, events := tap.Subscribe()

	// Publish past the channel's buffer; the extra events are dropped
	// instead of stalling the publisher.
	for i := 0; i < 100; i++ {
		tap.Publish(BoundaryEvent{Seq: uint64(i + 1)})
	}

	// The buffered events are the earliest ones.
	first := <-events
	assert.Equal(t, uint64(1), first.Seq)
}

func TestTapClose(t *testing.T) {
	t.Parallel()
	tap := NewTap()
	_, events := tap.Subscribe()
	tap.Close()

	_, ok := <-events
	assert.False(t, ok)

	// Subscriptions after close return an already-closed channel.
	_, late := tap.Subscribe()
	_, ok = <-late
	assert.False(t, ok)

	// Publishing after close is a no-op.
	tap.Publish(BoundaryEvent{Seq: 1})
}
