package viewport

import (
	"sync"
	"sync/atomic"

	"github.com/phanxgames/viewstage/graph"
	"github.com/phanxgames/viewstage/input"
	"github.com/phanxgames/viewstage/script"

	"golang.org/x/sync/errgroup"
)

// scriptEntrySnapshot is the immutable value stored per graph id, carrying
// enough of script.RegistryEntry to rebuild the semantic id index without
// re-walking the compiled Script (spec.md §4.3).
type scriptEntrySnapshot struct {
	entry     script.RegistryEntry
	inputList script.InputList
}

// tables is one atomically-swapped generation of the coordinator's three
// tables (spec.md §4.3 "ScriptTable", "SemanticTable", "SemanticIdIndex").
// A reader that loads *tables once sees a self-consistent view across all
// three, even while a writer is building the next generation (spec.md §9).
type tables struct {
	scripts map[string]scriptEntrySnapshot // graph id -> compiled output
	order   []string                       // graph ids, oldest to most-recently-put
	ids     idIndex                        // derived global id index
}

func emptyTables() *tables {
	return &tables{scripts: map[string]scriptEntrySnapshot{}, ids: idIndex{}}
}

// Config configures a ViewPort (spec.md's AMBIENT STACK "Configuration").
type Config struct {
	// SemanticEnabled turns on the semantic query API. Disabled by default.
	// PutGraph builds and stores a SemanticSnapshot whether or not this is
	// set; construction is not skipped when it is false.
	SemanticEnabled bool
	Logger          Logger
}

// ViewPort is the coordination core (spec.md §1 "ViewPort Coordinator"):
// owner of the ScriptTable/SemanticTable/SemanticIdIndex, the SceneTable,
// and the DriverSet, and the entry point scenes and drivers both talk
// through.
type ViewPort struct {
	tbl atomic.Pointer[tables]

	mu     sync.Mutex // serializes writers; readers never block on this
	scenes map[string]*sceneRecord
	router *input.Router

	drivers   map[string]*driverHandle
	driversMu sync.RWMutex

	cfg Config
}

// New constructs a ViewPort with empty tables and no attached drivers or
// scenes.
func New(cfg Config) *ViewPort {
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}
	vp := &ViewPort{
		scenes:  make(map[string]*sceneRecord),
		drivers: make(map[string]*driverHandle),
		cfg:     cfg,
	}
	vp.tbl.Store(emptyTables())
	vp.router = input.NewRouter(vp, vp, nil)
	return vp
}

// snapshot returns the currently-published tables; safe for concurrent use
// without locking (spec.md §9).
func (vp *ViewPort) snapshot() *tables {
	return vp.tbl.Load()
}

// publish installs a new tables generation built from the current one plus
// a single graph id's change, recomputing the derived id index (spec.md
// §4.3, §9).
func (vp *ViewPort) publish(mutate func(next *tables)) {
	cur := vp.snapshot()
	next := &tables{
		scripts: make(map[string]scriptEntrySnapshot, len(cur.scripts)),
		order:   append([]string{}, cur.order...),
	}
	for k, v := range cur.scripts {
		next.scripts[k] = v
	}
	mutate(next)
	next.ids = rebuildIDIndex(next.scripts, next.order)
	vp.tbl.Store(next)
}

// PutGraph compiles g and installs it as graphID's current script,
// replacing any previous compilation for that id wholesale (spec.md §4.1
// "put_graph(graph_id, graph, scene_id) -> compiled_script_id"). Returns
// InvalidGraphError if compilation fails; on failure state is unchanged. If
// the compiled script is byte-identical to what's already registered under
// graphID, this is a no-op: no driver notification, no semantic snapshot
// replacement (spec.md §4.2 "Change detection contract", §8 "No-op
// detection").
func (vp *ViewPort) PutGraph(graphID string, g *graph.Graph, sceneID string) error {
	sc, inputList, sem, err := graph.Compile(g, graph.CompileOptions{SceneID: sceneID})
	if err != nil {
		return &InvalidGraphError{Reason: err.Error()}
	}
	entry := script.RegistryEntry{
		GraphID:          graphID,
		Script:           sc,
		InputList:        inputList,
		SemanticSnapshot: sem,
		Owner:            sceneID,
	}
	vp.mu.Lock()
	defer vp.mu.Unlock()
	if existing, ok := vp.snapshot().scripts[graphID]; ok && script.Equal(existing.entry.Script, sc) {
		return nil
	}
	vp.publish(func(next *tables) {
		if _, existed := next.scripts[graphID]; !existed {
			next.order = append(next.order, graphID)
		} else {
			next.order = moveToEnd(next.order, graphID)
		}
		next.scripts[graphID] = scriptEntrySnapshot{entry: entry, inputList: inputList}
	})
	vp.notifyDrivers(func(d *driverHandle) Notification {
		return Notification{Kind: NotifyScriptsUpdated, GraphIDs: []string{graphID}}
	})
	return nil
}

// PutScript installs a pre-compiled script directly, bypassing the
// compiler (spec.md §4.1 "put_script" for drivers or tests that already
// hold a Script value, e.g. golden-file fixtures). Subject to the same
// no-op detection as PutGraph (spec.md §4.2, §8).
func (vp *ViewPort) PutScript(entry script.RegistryEntry) {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	if existing, ok := vp.snapshot().scripts[entry.GraphID]; ok && script.Equal(existing.entry.Script, entry.Script) {
		return
	}
	vp.publish(func(next *tables) {
		if _, existed := next.scripts[entry.GraphID]; !existed {
			next.order = append(next.order, entry.GraphID)
		} else {
			next.order = moveToEnd(next.order, entry.GraphID)
		}
		next.scripts[entry.GraphID] = scriptEntrySnapshot{entry: entry, inputList: entry.InputList}
	})
	vp.notifyDrivers(func(d *driverHandle) Notification {
		return Notification{Kind: NotifyScriptsUpdated, GraphIDs: []string{entry.GraphID}}
	})
}

// DelGraph removes graphID's compiled entry (spec.md §4.1 "del_graph").
// Unknown ids are a no-op, matching idempotent deletes elsewhere in the
// coordinator.
func (vp *ViewPort) DelGraph(graphID string) {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	if _, ok := vp.snapshot().scripts[graphID]; !ok {
		return
	}
	vp.publish(func(next *tables) {
		delete(next.scripts, graphID)
		next.order = removeFromSlice(next.order, graphID)
	})
	vp.notifyDrivers(func(d *driverHandle) Notification {
		return Notification{Kind: NotifyScriptsDeleted, GraphIDs: []string{graphID}}
	})
}

// GetScript returns graphID's current registry entry (spec.md §4.1
// "get_script"). Lock-free: readers load the published *tables and never
// contend with writers (spec.md §9).
func (vp *ViewPort) GetScript(graphID string) (script.RegistryEntry, bool) {
	snap, ok := vp.snapshot().scripts[graphID]
	return snap.entry, ok
}

// ListScriptIds returns every graph id currently compiled, oldest-put
// first (spec.md §4.1 "list_script_ids").
func (vp *ViewPort) ListScriptIds() []string {
	return append([]string{}, vp.snapshot().order...)
}

// SemanticEnabled reports whether this ViewPort was configured to build
// and serve semantic indices (spec.md §4.5 "Non-goals" carve-out: disabled
// by default).
func (vp *ViewPort) SemanticEnabled() bool {
	return vp.cfg.SemanticEnabled
}

// Semantic returns graphID's current SemanticSnapshot (spec.md §4.5
// "Semantic Index").
func (vp *ViewPort) Semantic(graphID string) (*script.SemanticSnapshot, bool) {
	snap, ok := vp.snapshot().scripts[graphID]
	if !ok || snap.entry.SemanticSnapshot == nil {
		return nil, false
	}
	return snap.entry.SemanticSnapshot, true
}

// ResolveID looks an element id up in the global SemanticIdIndex, which
// spans every live graph with most-recently-compiled-graph-wins collision
// resolution (spec.md §4.5 "global id index").
func (vp *ViewPort) ResolveID(id string) (graphID string, uid uint32, ok bool) {
	e, found := vp.snapshot().ids[id]
	if !found {
		return "", 0, false
	}
	return e.GraphID, e.UID, true
}

// InputListFor implements input.ScriptSource so the Router can hit-test
// without a dependency on the viewport package's concrete types.
func (vp *ViewPort) InputListFor(graphID string) (script.InputList, bool) {
	snap, ok := vp.snapshot().scripts[graphID]
	if !ok {
		return nil, false
	}
	return snap.inputList, true
}

// Input routes one input event through the Input Router (spec.md §1
// "Input Router").
func (vp *ViewPort) Input(ev input.Event) {
	vp.router.Dispatch(ev)
}

// DeliverInput implements input.Deliverer, forwarding a routed event to
// the named scene's HandleInput (spec.md §6 "Scene <-> ViewPort").
func (vp *ViewPort) DeliverInput(sceneID string, ev input.Event, ctx input.Context) {
	vp.mu.Lock()
	rec, ok := vp.scenes[sceneID]
	vp.mu.Unlock()
	if !ok {
		return
	}
	vp.safeCall(rec, func() { rec.scene.HandleInput(ev, ctx) })
}

// DeliverLifecycle implements input.Deliverer for capture_lost
// notifications (spec.md §4.4 "Cancellation").
func (vp *ViewPort) DeliverLifecycle(sceneID string, captureLost bool) {
	if !captureLost {
		return
	}
	vp.deliverLifecycle(sceneID, LifecycleCaptureLost)
}

// deliverLifecycle looks sceneID up and delivers ev through safeCall,
// the shared path for capture_lost, theme, and resize notifications.
func (vp *ViewPort) deliverLifecycle(sceneID string, ev LifecycleEvent) {
	vp.mu.Lock()
	rec, ok := vp.scenes[sceneID]
	vp.mu.Unlock()
	if !ok {
		return
	}
	vp.safeCall(rec, func() { rec.scene.HandleLifecycle(ev) })
}

// safeCall recovers a panicking scene callback, logging it rather than
// propagating, matching spec.md §9's "supervisor can restart without the
// core needing restart policies": a crash is observable but never takes
// the coordinator down with it.
func (vp *ViewPort) safeCall(rec *sceneRecord, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			vp.cfg.Logger.Errorf("scene %s panicked: %v", rec.id, r)
		}
	}()
	fn()
}

// RegisterScene adds a live scene to the SceneTable (spec.md §4.3) and
// returns a handle it can use to terminate itself.
func (vp *ViewPort) RegisterScene(id, parentID, module string, s Scene) SceneHandle {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	vp.scenes[id] = &sceneRecord{id: id, scene: s, parentID: parentID, module: module, done: make(chan struct{})}
	return SceneHandle{id: id, vp: vp}
}

// RootSceneID is the scene id of whichever scene currently owns the root
// subtree (spec.md §4.3 "set_root"), reusing the router's root graph-id
// sentinel since the two tables are keyed independently.
const RootSceneID = input.RootGraphID

// RootInitializer is the optional hook a root Scene implements to receive
// set_root's init_data. Scene itself stays input/lifecycle-only so scenes
// that never serve as root don't need to implement it.
type RootInitializer interface {
	InitRoot(initData any)
}

// SetRoot stops the current root scene subtree, if any, and installs
// newRoot as the live owner of RootSceneID under the given module tag
// (spec.md §4.3 "set_root(module, init_data): stop current root scene
// subtree, start a new one whose graph gets registered under the root
// sentinel id"). newRoot is responsible for publishing its own compiled
// graph under RootGraphID via PutGraph/PutScript once running, the same
// way any other scene publishes its output after being registered —
// SetRoot itself only swaps the SceneTable entry and delivers init_data.
// Drivers are notified via NotifyResetScene so they can discard any
// cached state tied to the previous root subtree.
func (vp *ViewPort) SetRoot(module string, initData any, newRoot Scene) SceneHandle {
	vp.terminateScene(RootSceneID, "set_root: replaced by module "+module)

	vp.mu.Lock()
	rec := &sceneRecord{id: RootSceneID, scene: newRoot, module: module, done: make(chan struct{})}
	vp.scenes[RootSceneID] = rec
	vp.mu.Unlock()

	if init, ok := newRoot.(RootInitializer); ok {
		vp.safeCall(rec, func() { init.InitRoot(initData) })
	}

	vp.notifyDrivers(func(d *driverHandle) Notification {
		return Notification{Kind: NotifyResetScene, SceneID: RootSceneID}
	})

	return SceneHandle{id: RootSceneID, vp: vp}
}

// SetTheme broadcasts a theme change to every attached driver and to the
// current root scene (spec.md §4.3 "Theme / viewport-size changes are
// propagated to drivers as distinct notifications; root is re-initialized
// on theme change"). Re-initialization is the root scene's own
// responsibility: HandleLifecycle(LifecycleThemeChanged) is its cue to
// call SetRoot again with a freshly-built graph.
func (vp *ViewPort) SetTheme(themeTag string) {
	vp.notifyDrivers(func(d *driverHandle) Notification {
		return Notification{Kind: NotifyTheme, ThemeTag: themeTag}
	})
	vp.deliverLifecycle(RootSceneID, LifecycleThemeChanged)
}

// SetViewportSize broadcasts a resize to every attached driver and to
// every live scene (spec.md §4.3 "viewport-size changes are propagated to
// drivers as distinct notifications").
func (vp *ViewPort) SetViewportSize(width, height int) {
	vp.notifyDrivers(func(d *driverHandle) Notification {
		return Notification{Kind: NotifyResize, Width: width, Height: height}
	})
	vp.mu.Lock()
	ids := make([]string, 0, len(vp.scenes))
	for id := range vp.scenes {
		ids = append(ids, id)
	}
	vp.mu.Unlock()
	for _, id := range ids {
		vp.deliverLifecycle(id, LifecycleResize)
	}
}

// terminateScene tears a scene down: releases its input requests/captures,
// removes every graph it owns, and notifies the newly-promoted capturer
// (if any) of capture_lost (spec.md §4.3 "Ownership cleanup").
func (vp *ViewPort) terminateScene(id, reason string) {
	vp.mu.Lock()
	rec, ok := vp.scenes[id]
	if !ok {
		vp.mu.Unlock()
		return
	}
	delete(vp.scenes, id)
	close(rec.done)
	vp.mu.Unlock()

	promoted := vp.router.ReleaseAllForScene(id)
	for _, newHolder := range promoted {
		vp.DeliverLifecycle(newHolder, true)
	}

	cur := vp.snapshot()
	var owned []string
	for gid, snap := range cur.scripts {
		if snap.entry.Owner == id {
			owned = append(owned, gid)
		}
	}
	for _, gid := range owned {
		vp.DelGraph(gid)
	}
	vp.cfg.Logger.Debugf("scene %s terminated: %s", id, reason)
}

func moveToEnd(order []string, id string) []string {
	filtered := removeFromSlice(order, id)
	return append(filtered, id)
}

func removeFromSlice(order []string, id string) []string {
	out := make([]string, 0, len(order))
	for _, o := range order {
		if o != id {
			out = append(out, o)
		}
	}
	return out
}

// notifyDrivers delivers build(d) to every attached driver concurrently, bounded
// by errgroup so one slow driver can't block installing the next published
// generation (spec.md §9 "drivers are independent consumers"; grounded on
// golang.org/x/sync/errgroup as wired in the domain stack).
func (vp *ViewPort) notifyDrivers(build func(d *driverHandle) Notification) {
	vp.driversMu.RLock()
	handles := make([]*driverHandle, 0, len(vp.drivers))
	for _, d := range vp.drivers {
		handles = append(handles, d)
	}
	vp.driversMu.RUnlock()
	if len(handles) == 0 {
		return
	}
	var g errgroup.Group
	for _, d := range handles {
		d := d
		g.Go(func() error {
			d.send(build(d))
			return nil
		})
	}
	_ = g.Wait()
}
