package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishDeliversToSubscribers(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(RepairUpdated, func(ev Event) {
		got = append(got, ev)
	})

	bus.Publish(RepairUpdated, "abc123")
	bus.Publish(TruckUpdated, "def456")

	require.Len(t, got, 1)
	assert.Equal(t, RepairUpdated, got[0].Type)
	assert.Equal(t, "abc123", got[0].EntityID)
	assert.False(t, got[0].OccurredAt.IsZero())
}

func TestBus_SubscribeAllSeesEveryType(t *testing.T) {
	bus := NewBus()

	var count int
	bus.SubscribeAll(func(Event) { count++ })

	bus.Publish(TruckUpdated, "t1")
	bus.Publish(MechanicUpdated, "m1")
	bus.Publish(PreventiveUpdated, "p1")

	assert.Equal(t, 3, count)
}

func TestBus_NoSubscribersIsSafe(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(RepairCreated, "r1")
	})
}
