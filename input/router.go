// Package input implements the Input Router (spec.md §4.4): capture and
// request bookkeeping, hit testing against a graph's InputList, and the
// capture-priority / hit-test / broadcast dispatch algorithm.
package input

import (
	"sync"

	"github.com/phanxgames/viewstage/geom"
	"github.com/phanxgames/viewstage/script"
)

// Class is one of the closed set of input classes (spec.md §4.4).
type Class = script.InputClass

const (
	CursorButton = script.InputCursorButton
	CursorPos    = script.InputCursorPos
	CursorScroll = script.InputCursorScroll
	Key          = script.InputKey
	Codepoint    = script.InputCodepoint
	Viewport     = script.InputViewport
)

// IsPositional reports whether class c carries a global coordinate
// (spec.md §4.4: "The first three are positional").
func IsPositional(c Class) bool {
	return c == CursorButton || c == CursorPos || c == CursorScroll
}

// Event is one input occurrence delivered to the router (spec.md §4.4:
// "(class, payload)").
type Event struct {
	Class Class

	// Positional payload.
	GlobalX, GlobalY float64

	// cursor_button payload.
	Pressed bool
	Button  int

	// key / codepoint payload.
	Key       int
	Codepoint rune
	KeyDown   bool

	// cursor_scroll payload.
	ScrollDX, ScrollDY float64

	// viewport payload (resize/lifecycle), free-form.
	ViewportTag string
}

// Context accompanies a dispatched event (spec.md §6: "context =
// {element_id?, local_xy?, viewport_id}").
type Context struct {
	ElementID  string
	LocalX     float64
	LocalY     float64
	HasLocal   bool
	ViewportID string
}

// ScriptSource lets the router read a graph's compiled InputList without
// importing the viewport package (spec.md §4.4: "positional_tree... read
// directly" from ScriptTable).
type ScriptSource interface {
	InputListFor(graphID string) (script.InputList, bool)
}

// Deliverer delivers a routed event to one scene (spec.md §6:
// "handle_input(event, context)").
type Deliverer interface {
	DeliverInput(sceneID string, ev Event, ctx Context)
	// DeliverLifecycle delivers a capture_lost notification (spec.md §4.4
	// "Cancellation").
	DeliverLifecycle(sceneID string, captureLost bool)
}

// RootGraphID is the graph id the router starts hit testing from.
const RootGraphID = "_root_"

// Router holds per-class request/capture state and dispatches events
// (spec.md §4.4).
type Router struct {
	mu       sync.Mutex
	requests map[Class]map[string]bool   // class -> set of scene ids
	captures map[Class][]string          // class -> stack, top = active capturer

	scripts  ScriptSource
	deliver  Deliverer

	rateLimit map[Class]int64 // minimum interval in nanoseconds, 0 = unlimited
	lastSent  map[Class]int64 // nanosecond timestamp of last coalesced release
	pending   map[Class]Event // most recent coalesced-but-unsent event
	nowFunc   func() int64
}

// NewRouter constructs a Router reading InputLists from src and delivering
// through dlv.
func NewRouter(src ScriptSource, dlv Deliverer, nowFunc func() int64) *Router {
	return &Router{
		requests:  make(map[Class]map[string]bool),
		captures:  make(map[Class][]string),
		scripts:   src,
		deliver:   dlv,
		rateLimit: make(map[Class]int64),
		lastSent:  make(map[Class]int64),
		pending:   make(map[Class]Event),
		nowFunc:   nowFunc,
	}
}

// RequestInput registers scene's non-exclusive interest in classes
// (spec.md §4.4 "Scene API").
func (r *Router) RequestInput(sceneID string, classes []Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range classes {
		if r.requests[c] == nil {
			r.requests[c] = make(map[string]bool)
		}
		r.requests[c][sceneID] = true
	}
}

// ReleaseInput unregisters scene's interest in classes.
func (r *Router) ReleaseInput(sceneID string, classes []Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range classes {
		delete(r.requests[c], sceneID)
	}
}

// CaptureInput pushes scene as the exclusive holder of classes. Captures
// stack so nested captures unwind naturally (spec.md §4.4).
func (r *Router) CaptureInput(sceneID string, classes []Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range classes {
		r.captures[c] = append(r.captures[c], sceneID)
	}
}

// ReleaseCapture pops the top of each class's capture stack if sceneID
// holds it (spec.md §4.4: "release_capture pops the top if the caller
// holds it"). Returns the classes where release actually happened, and
// for each popped class, the new top holder (if any) so the caller can
// send it capture_lost-style continuation.
func (r *Router) ReleaseCapture(sceneID string, classes []Class) (released []Class, newHolder map[Class]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	newHolder = make(map[Class]string)
	for _, c := range classes {
		stack := r.captures[c]
		if len(stack) == 0 || stack[len(stack)-1] != sceneID {
			continue
		}
		r.captures[c] = stack[:len(stack)-1]
		released = append(released, c)
		if len(r.captures[c]) > 0 {
			newHolder[c] = r.captures[c][len(r.captures[c])-1]
		}
	}
	return released, newHolder
}

// ReleaseAllForScene drops every request and capture held by sceneID
// (spec.md §4.4: "A scene's death releases all its requests and
// captures."). Returns, per class, the scene that becomes the new top
// capturer (if any) so callers can deliver capture_lost.
func (r *Router) ReleaseAllForScene(sceneID string) map[Class]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	promoted := make(map[Class]string)
	for _, set := range r.requests {
		delete(set, sceneID)
	}
	for c, stack := range r.captures {
		filtered := stack[:0:0]
		wasTop := len(stack) > 0 && stack[len(stack)-1] == sceneID
		for _, s := range stack {
			if s != sceneID {
				filtered = append(filtered, s)
			}
		}
		r.captures[c] = filtered
		if wasTop && len(filtered) > 0 {
			promoted[c] = filtered[len(filtered)-1]
		}
	}
	return promoted
}

// capturerFor returns the current top-of-stack capturer for c, if any.
func (r *Router) capturerFor(c Class) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stack := r.captures[c]
	if len(stack) == 0 {
		return "", false
	}
	return stack[len(stack)-1], true
}

// requesters returns a snapshot of scenes currently requesting c.
func (r *Router) requesters(c Class) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.requests[c]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// transformFor looks up a capturer's root-relative transform by scanning
// the root InputList for an entry owned by sceneID (best-effort, matching
// the teacher's single-tree WorldToLocal lookup rather than maintaining a
// separate per-scene transform table).
func (r *Router) transformFor(sceneID string) (geom.Matrix, bool) {
	list, ok := r.scripts.InputListFor(RootGraphID)
	if !ok {
		return geom.Identity, false
	}
	for _, e := range list {
		if e.OwnerScene == sceneID {
			return geom.Matrix(e.Transform), true
		}
	}
	return geom.Identity, false
}
