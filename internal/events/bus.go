package events

import (
	"sync"
	"time"
)

// Type identifies a domain event.
type Type string

const (
	TruckUpdated      Type = "truck.updated"
	RepairCreated     Type = "repair.created"
	RepairUpdated     Type = "repair.updated"
	MechanicUpdated   Type = "mechanic.updated"
	PreventiveUpdated Type = "preventive.updated"
)

// Event is a typed notification emitted by the stores and the workflow so
// interested components (dashboard, exporters, the MQTT bridge) can react
// without the emitter knowing about them.
type Event struct {
	Type       Type      `json:"type"`
	EntityID   string    `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Handler receives published events. Handlers must not block.
type Handler func(Event)

// Bus is a minimal in-process publish/subscribe fan-out.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	all      []Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Type][]Handler)}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Publish delivers the event to all matching handlers synchronously.
func (b *Bus) Publish(t Type, entityID string) {
	ev := Event{Type: t, EntityID: entityID, OccurredAt: time.Now()}

	b.mu.RLock()
	matched := b.handlers[t]
	all := b.all
	b.mu.RUnlock()

	for _, h := range matched {
		h(ev)
	}
	for _, h := range all {
		h(ev)
	}
}
