package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_FIFO(t *testing.T) {
	q := newEventQueue()

	for i := int64(1); i <= 3; i++ {
		ok := q.Enqueue(event{Type: eventTick, Seq: i})
		require.True(t, ok)
	}

	for i := int64(1); i <= 3; i++ {
		ev, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, i, ev.Seq)
	}

	_, ok := q.TryDequeue()
	assert.False(t, ok)
}

func TestEventQueue_EnqueueAfterClose(t *testing.T) {
	q := newEventQueue()
	q.Close()

	ok := q.Enqueue(event{Type: eventTick})
	assert.False(t, ok)
}

func TestEventQueue_SignalCoalesces(t *testing.T) {
	q := newEventQueue()

	q.Enqueue(event{Type: eventTick, Seq: 1})
	q.Enqueue(event{Type: eventTick, Seq: 2})

	<-q.Wait()
	assert.Equal(t, 2, q.Len())
}

func TestEventQueue_StaleSignalDoesNotMeanClosed(t *testing.T) {
	q := newEventQueue()

	// Enqueue sets the signal token; draining the event leaves the token
	// behind, so a waiter wakes to an empty open queue.
	q.Enqueue(event{Type: eventTick, Seq: 1})
	_, ok := q.TryDequeue()
	require.True(t, ok)

	<-q.Wait()
	assert.Equal(t, 0, q.Len())
	assert.False(t, q.Closed())

	q.Close()
	assert.True(t, q.Closed())
}

func TestSeq_Monotonic(t *testing.T) {
	var s Seq
	assert.Equal(t, int64(0), s.Current())
	assert.Equal(t, int64(1), s.Next())
	assert.Equal(t, int64(2), s.Next())
	assert.Equal(t, int64(2), s.Current())
}
