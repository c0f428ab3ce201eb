// Package semantic implements the Semantic Index's read side (spec.md
// §4.5): lookups by id, type, role, and primitive module, point hit
// testing over a SemanticSnapshot's screen bounds, tree reconstruction,
// and the synthetic-click automation hook.
package semantic

import (
	"sort"
	"time"

	"github.com/phanxgames/viewstage/geom"
	"github.com/phanxgames/viewstage/input"
	"github.com/phanxgames/viewstage/script"
	"github.com/phanxgames/viewstage/viewport"
)

// clickReleaseDelay is the minimum real-time gap Click leaves between the
// synthetic press and release it injects (spec.md §4.5, §8 scenario 6:
// the release is injected "after ≥10 ms"). A frame-polling driver that
// samples state once per Update() tick needs a distinct press frame to
// observe before the release lands.
const clickReleaseDelay = 10 * time.Millisecond

// source is the subset of ViewPort the Index needs; matched by
// *viewport.ViewPort, kept narrow so tests can fake it.
type source interface {
	SemanticEnabled() bool
	Semantic(graphID string) (*script.SemanticSnapshot, bool)
	ResolveID(id string) (graphID string, uid uint32, ok bool)
	Input(ev input.Event)
	HasDrivers() bool
}

// Index is the query surface applications use against a ViewPort's
// semantic tables (spec.md §4.5 "Scene/automation API").
type Index struct {
	vp source

	// afterFunc schedules f to run after d elapses, the same clock-hook
	// shape the Input Router's rate limiter uses (input.Router's nowFunc)
	// so Click's release never blocks the caller. Defaults to
	// time.AfterFunc; tests substitute a synchronous stand-in.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// New wraps vp with semantic query methods.
func New(vp *viewport.ViewPort) *Index {
	return &Index{vp: vp, afterFunc: time.AfterFunc}
}

// newFromSource is the test seam; production code always goes through New.
func newFromSource(s source) *Index { return &Index{vp: s, afterFunc: time.AfterFunc} }

// FindByID returns the SemanticEntry registered under id, searching the
// graph the global SemanticIdIndex currently resolves id to (spec.md §4.5
// "find_by_id").
func (x *Index) FindByID(id string) (script.SemanticEntry, error) {
	if !x.vp.SemanticEnabled() {
		return script.SemanticEntry{}, &viewport.SemanticDisabledError{}
	}
	graphID, _, ok := x.vp.ResolveID(id)
	if !ok {
		return script.SemanticEntry{}, &viewport.NotFoundError{Kind: "element", ID: id}
	}
	snap, ok := x.vp.Semantic(graphID)
	if !ok {
		return script.SemanticEntry{}, &viewport.NotFoundError{Kind: "element", ID: id}
	}
	e, ok := snap.Elements[id]
	if !ok {
		return script.SemanticEntry{}, &viewport.NotFoundError{Kind: "element", ID: id}
	}
	return e, nil
}

// FindByType returns every entry of the given type within graphID, sorted
// by id for deterministic iteration (spec.md §4.5 "find_by_type").
func (x *Index) FindByType(graphID, typ string) ([]script.SemanticEntry, error) {
	return x.byIndex(graphID, func(s *script.SemanticSnapshot) []string { return s.ByType[typ] })
}

// FindByRole returns every entry of the given accessibility role within
// graphID (spec.md §4.5 "find_by_role").
func (x *Index) FindByRole(graphID, role string) ([]script.SemanticEntry, error) {
	return x.byIndex(graphID, func(s *script.SemanticSnapshot) []string { return s.ByRole[role] })
}

// FindByPrimitive returns every entry compiled from the given primitive
// module (tag name) within graphID (spec.md §4.5 "find_by_primitive").
func (x *Index) FindByPrimitive(graphID, module string) ([]script.SemanticEntry, error) {
	return x.byIndex(graphID, func(s *script.SemanticSnapshot) []string { return s.ByPrimitive[module] })
}

func (x *Index) byIndex(graphID string, pick func(*script.SemanticSnapshot) []string) ([]script.SemanticEntry, error) {
	if !x.vp.SemanticEnabled() {
		return nil, &viewport.SemanticDisabledError{}
	}
	snap, ok := x.vp.Semantic(graphID)
	if !ok {
		return nil, &viewport.NotFoundError{Kind: "graph", ID: graphID}
	}
	ids := append([]string{}, pick(snap)...)
	sort.Strings(ids)
	out := make([]script.SemanticEntry, 0, len(ids))
	for _, id := range ids {
		if e, ok := snap.Elements[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// ElementsAtPoint returns every non-hidden entry in graphID whose screen
// bounds contain (x, y), highest ZIndex first (spec.md §4.5
// "elements_at_point"). Entries are gathered from a map, so the order of
// entries with equal ZIndex is not defined.
func (x *Index) ElementsAtPoint(graphID string, px, py float64) ([]script.SemanticEntry, error) {
	if !x.vp.SemanticEnabled() {
		return nil, &viewport.SemanticDisabledError{}
	}
	snap, ok := x.vp.Semantic(graphID)
	if !ok {
		return nil, &viewport.NotFoundError{Kind: "graph", ID: graphID}
	}
	var hits []script.SemanticEntry
	for _, e := range snap.Elements {
		if e.Hidden {
			continue
		}
		if e.ScreenBounds.Contains(px, py) {
			hits = append(hits, e)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].ZIndex > hits[j].ZIndex })
	return hits, nil
}

// TreeNode is one element in the reconstructed semantic tree (spec.md
// §4.5 "tree").
type TreeNode struct {
	Entry    script.SemanticEntry
	Children []*TreeNode
}

// Tree rebuilds graphID's semantic entries into a parent/child tree using
// each entry's ParentID (spec.md §4.5 "tree"). Entries whose parent isn't
// itself in the snapshot (the graph's own root) become top-level roots.
func (x *Index) Tree(graphID string) ([]*TreeNode, error) {
	if !x.vp.SemanticEnabled() {
		return nil, &viewport.SemanticDisabledError{}
	}
	snap, ok := x.vp.Semantic(graphID)
	if !ok {
		return nil, &viewport.NotFoundError{Kind: "graph", ID: graphID}
	}
	nodes := make(map[string]*TreeNode, len(snap.Elements))
	ids := make([]string, 0, len(snap.Elements))
	for id, e := range snap.Elements {
		nodes[id] = &TreeNode{Entry: e}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var roots []*TreeNode
	for _, id := range ids {
		n := nodes[id]
		parent, ok := nodes[n.Entry.ParentID]
		if ok {
			parent.Children = append(parent.Children, n)
		} else {
			roots = append(roots, n)
		}
	}
	return roots, nil
}

// Click injects a synthetic cursor_button press, followed after
// clickReleaseDelay by the matching release, both at the element's
// screen-space center, driving the same Input Router path a real pointer
// event would (spec.md §4.5 "click(id) -> automation hook... behaves
// exactly like a real pointer event"). It does not bypass hit testing:
// dispatch still resolves through whatever element currently occupies
// that point. The release is scheduled, not sent synchronously, so a
// frame-polling driver observes a distinct press frame first.
func (x *Index) Click(id string) error {
	if !x.vp.HasDrivers() {
		return &viewport.NoDriverError{}
	}
	e, err := x.FindByID(id)
	if err != nil {
		return err
	}
	cx, cy := center(e.ScreenBounds)
	x.vp.Input(input.Event{Class: input.CursorButton, GlobalX: cx, GlobalY: cy, Pressed: true, Button: 0})
	x.afterFunc(clickReleaseDelay, func() {
		x.vp.Input(input.Event{Class: input.CursorButton, GlobalX: cx, GlobalY: cy, Pressed: false, Button: 0})
	})
	return nil
}

func center(b geom.AABB) (float64, float64) {
	return b.Left + b.Width/2, b.Top + b.Height/2
}
