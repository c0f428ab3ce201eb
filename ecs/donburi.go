package ecs

import (
	"sync"

	"github.com/phanxgames/viewstage/input"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ComponentInputEvent is the Donburi event type an EntityBridge publishes
// for a hosted component_ref's routed input (spec.md §6: delivery to
// "external collaborators" hosting a component inline). Subscribe with
// events.Subscribe(world, ComponentInputEvent) from an ECS system.
var ComponentInputEvent = events.NewEventType[HostedInput]()

// HostedInput pairs a routed input event with the entity that hosts the
// component_ref subtree it landed in.
type HostedInput struct {
	Entity donburi.Entity
	Event  input.Event
	Ctx    input.Context
}

// EntityBridge maps component_ref HostedGraphID strings to the Donburi
// entity that owns them, and republishes input routed to a hosted id as a
// Donburi event (grounded on the teacher's donburiStore adapter, but
// keyed by hosted graph id instead of wrapping an EntityStore interface
// whose lone event type was the teacher's own pointer/drag/pinch set).
type EntityBridge struct {
	world donburi.World

	mu   sync.RWMutex
	bind map[string]donburi.Entity
}

// NewEntityBridge creates a bridge publishing into world.
func NewEntityBridge(world donburi.World) *EntityBridge {
	return &EntityBridge{world: world, bind: make(map[string]donburi.Entity)}
}

// Bind associates hostedGraphID with e, replacing any previous binding.
func (b *EntityBridge) Bind(hostedGraphID string, e donburi.Entity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bind[hostedGraphID] = e
}

// Unbind removes hostedGraphID's association, if any.
func (b *EntityBridge) Unbind(hostedGraphID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.bind, hostedGraphID)
}

// Lookup returns the entity bound to hostedGraphID, if any.
func (b *EntityBridge) Lookup(hostedGraphID string) (donburi.Entity, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.bind[hostedGraphID]
	return e, ok
}

// Deliver publishes ev/ctx as a ComponentInputEvent for hostedGraphID's
// bound entity. It is a no-op if no entity is bound, matching the
// coordinator's own tolerance of unresolved delivery targets.
func (b *EntityBridge) Deliver(hostedGraphID string, ev input.Event, ctx input.Context) {
	e, ok := b.Lookup(hostedGraphID)
	if !ok {
		return
	}
	ComponentInputEvent.Publish(b.world, HostedInput{Entity: e, Event: ev, Ctx: ctx})
}
