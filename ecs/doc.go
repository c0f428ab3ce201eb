// Package ecs bridges component_ref-hosted sub-scenes to a Donburi world.
//
// A component_ref primitive (spec.md §3 "primitive tags") tags a subtree as
// owned by an external entity rather than by the graph compiler itself; the
// HostedGraphID on that primitive names the id other packages use to look
// the hosting entity back up. [NewEntityBridge] keeps that mapping and
// republishes routed input events (input.Event) for a hosted entity onto
// the Donburi world as a typed event, so ECS systems subscribe the same way
// they would to any other Donburi event.
//
// Usage:
//
//	bridge := ecs.NewEntityBridge(world)
//	bridge.Bind("panel-1", someEntity)
//	bridge.Deliver("panel-1", ev, ctx) // called from a Scene.HandleInput
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
