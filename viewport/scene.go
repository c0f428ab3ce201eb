package viewport

import "github.com/phanxgames/viewstage/input"

// LifecycleEvent is delivered to a Scene for non-input lifecycle changes
// (spec.md §6: "handle_lifecycle({theme_changed | resize | shutdown |
// capture_lost})").
type LifecycleEvent uint8

const (
	LifecycleThemeChanged LifecycleEvent = iota
	LifecycleResize
	LifecycleShutdown
	LifecycleCaptureLost
)

// Scene is the contract the coordinator holds a live owner against
// (spec.md §3 "Lifecycles", §6 "Scene ↔ ViewPort"). Application code
// implements this; the coordinator only ever calls it. Input events and
// their resolved context are the input package's canonical types so the
// router, the coordinator, and application scenes all share one
// definition (spec.md §4.4).
type Scene interface {
	// HandleInput delivers one routed input event.
	HandleInput(event input.Event, ctx input.Context)
	// HandleLifecycle delivers a non-input lifecycle notification.
	HandleLifecycle(event LifecycleEvent)
}

// sceneRecord is the coordinator's bookkeeping for one live scene
// (spec.md §4.3 "SceneTable").
type sceneRecord struct {
	id       string
	scene    Scene
	parentID string
	module   string
	done     chan struct{} // closed when Terminate is called; liveness handle
}

// SceneHandle is returned to application code so it can voluntarily
// terminate its own scene (spec.md §9: "terminate(scene_id, reason) hook
// so the supervisor can restart without the core needing restart
// policies").
type SceneHandle struct {
	id string
	vp *ViewPort
}

// ID returns the scene id this handle addresses.
func (h SceneHandle) ID() string { return h.id }

// Terminate tears the scene down: every ScriptTable/SemanticTable entry it
// owns is removed, its SemanticIdIndex slices are dropped, its input
// requests and captures are released, and drivers are notified of the
// removals (spec.md §4.3 "Ownership cleanup").
func (h SceneHandle) Terminate(reason string) {
	h.vp.terminateScene(h.id, reason)
}
