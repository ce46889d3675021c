package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeAndPublish(t *testing.T) {
	bus := NewBus()

	var received []Event
	err := bus.Subscribe("sub1", Filter{}, func(ev Event) {
		received = append(received, ev)
	})
	require.NoError(t, err)

	bus.Publish(Event{Type: TypeNodeCreated, HuntID: "h1", NodeID: "n1"})

	require.Len(t, received, 1)
	assert.Equal(t, TypeNodeCreated, received[0].Type)
	assert.Equal(t, "h1", received[0].HuntID)
	assert.False(t, received[0].Timestamp.IsZero(), "timestamp should be filled in")
}

func TestFilterByTypeAndHunt(t *testing.T) {
	bus := NewBus()

	var got []Event
	err := bus.Subscribe("failures", Filter{
		Types:  []Type{TypeWriteFailed},
		HuntID: "h1",
	}, func(ev Event) {
		got = append(got, ev)
	})
	require.NoError(t, err)

	bus.Publish(Event{Type: TypeNodeCreated, HuntID: "h1"})
	bus.Publish(Event{Type: TypeWriteFailed, HuntID: "h2", Op: "update"})
	bus.Publish(Event{Type: TypeWriteFailed, HuntID: "h1", Op: "create", Err: "boom"})

	require.Len(t, got, 1)
	assert.Equal(t, "create", got[0].Op)
	assert.Equal(t, "boom", got[0].Err)
}

func TestSubscribeValidation(t *testing.T) {
	bus := NewBus()

	assert.ErrorIs(t, bus.Subscribe("", Filter{}, func(Event) {}), ErrInvalidSubscriptionID)
	assert.ErrorIs(t, bus.Subscribe("sub", Filter{}, nil), ErrNilHandler)

	require.NoError(t, bus.Subscribe("sub", Filter{}, func(Event) {}))
	assert.ErrorIs(t, bus.Subscribe("sub", Filter{}, func(Event) {}), ErrSubscriptionExists)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	require.NoError(t, bus.Subscribe("sub", Filter{}, func(Event) { count++ }))
	bus.Publish(Event{Type: TypeHuntCreated})

	require.NoError(t, bus.Unsubscribe("sub"))
	bus.Publish(Event{Type: TypeHuntCreated})

	assert.Equal(t, 1, count)
	assert.ErrorIs(t, bus.Unsubscribe("sub"), ErrSubscriptionNotFound)
}

func TestClose(t *testing.T) {
	bus := NewBus()
	require.NoError(t, bus.Subscribe("a", Filter{}, func(Event) {}))
	require.NoError(t, bus.Subscribe("b", Filter{}, func(Event) {}))
	require.Equal(t, 2, bus.SubscriberCount())

	bus.Close()
	assert.Equal(t, 0, bus.SubscriberCount())
}
