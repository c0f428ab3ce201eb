package input

import (
	"github.com/phanxgames/viewstage/geom"
	"github.com/phanxgames/viewstage/script"
)

// HitResult is the outcome of a successful hit test (spec.md §4.4).
type HitResult struct {
	OwnerScene string
	ElementID  string
	LocalX     float64
	LocalY     float64
	Cumulative geom.Matrix
}

// HitTest walks the root graph's InputList in reverse paint order looking
// for the topmost primitive accepting class c that contains the given
// global point (spec.md §4.4 "Hit testing"). Cross-graph references
// (script_ref/component_ref) recurse into the referenced graph's InputList,
// composing transforms; recursion is bounded because cyclic registration is
// rejected at compile time (spec.md §4.2).
func (r *Router) HitTest(c Class, globalX, globalY float64) (HitResult, bool) {
	return r.hitTestGraph(RootGraphID, c, globalX, globalY, geom.Identity, map[string]bool{})
}

func (r *Router) hitTestGraph(graphID string, c Class, gx, gy float64, graphTransform geom.Matrix, seen map[string]bool) (HitResult, bool) {
	if seen[graphID] {
		return HitResult{}, false
	}
	seen[graphID] = true

	list, ok := r.scripts.InputListFor(graphID)
	if !ok {
		return HitResult{}, false
	}

	for i := len(list) - 1; i >= 0; i-- {
		e := list[i]
		if !e.Accepts(c) {
			continue
		}

		cumulative := geom.Multiply(graphTransform, geom.Matrix(e.Transform))

		if e.RefGraphID != "" {
			if res, found := r.hitTestGraph(e.RefGraphID, c, gx, gy, cumulative, seen); found {
				return res, true
			}
			continue
		}

		inv := geom.Invert(cumulative)
		lx, ly := geom.Apply(inv, gx, gy)
		tester, ok := e.Data.(script.HitTester)
		if !ok || tester == nil {
			continue
		}
		if tester.ContainsPoint(lx, ly) {
			return HitResult{
				OwnerScene: e.OwnerScene,
				ElementID:  e.ID,
				LocalX:     lx,
				LocalY:     ly,
				Cumulative: cumulative,
			}, true
		}
	}
	return HitResult{}, false
}

// SetRateLimit bounds how often class c is dispatched; events arriving
// faster than the interval are coalesced to the most recent value and
// delivered on the next allowed tick (spec.md §4.4: "high-frequency
// positional classes... rate-limited/coalesced"). intervalNanos of 0
// disables limiting for c.
func (r *Router) SetRateLimit(c Class, intervalNanos int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rateLimit[c] = intervalNanos
}

// Dispatch implements spec.md §4.4's three-step algorithm: capture takes
// exclusive priority; otherwise hit testing resolves a positional event to
// its topmost owner while broadcast delivery to every requester happens
// independently and additively. Events of any class given an interval via
// SetRateLimit are coalesced before the rest of the algorithm runs.
func (r *Router) Dispatch(ev Event) {
	if r.shouldCoalesce(ev) {
		return
	}
	r.dispatchNow(ev)
}

// shouldCoalesce applies the rate limit for ev.Class, if any. It returns
// true when ev was absorbed into pending state rather than dispatched
// immediately; the caller must not call dispatchNow in that case.
func (r *Router) shouldCoalesce(ev Event) bool {
	if r.nowFunc == nil {
		return false
	}
	r.mu.Lock()
	interval, limited := r.rateLimit[ev.Class]
	if !limited || interval <= 0 {
		r.mu.Unlock()
		return false
	}
	now := r.nowFunc()
	last, sent := r.lastSent[ev.Class]
	if !sent || now-last >= interval {
		r.lastSent[ev.Class] = now
		delete(r.pending, ev.Class)
		r.mu.Unlock()
		return false
	}
	r.pending[ev.Class] = ev
	r.mu.Unlock()
	return true
}

// FlushPending dispatches any coalesced-but-undelivered event whose rate
// limit interval has since elapsed (spec.md §4.4). Drivers call this once
// per tick so a trailing coalesced position/scroll value is never lost
// entirely, only delayed.
func (r *Router) FlushPending() {
	if r.nowFunc == nil {
		return
	}
	r.mu.Lock()
	now := r.nowFunc()
	var ready []Event
	for c, ev := range r.pending {
		interval := r.rateLimit[c]
		if now-r.lastSent[c] >= interval {
			ready = append(ready, ev)
			r.lastSent[c] = now
			delete(r.pending, c)
		}
	}
	r.mu.Unlock()
	for _, ev := range ready {
		r.dispatchNow(ev)
	}
}

func (r *Router) dispatchNow(ev Event) {
	c := ev.Class

	if capturer, ok := r.capturerFor(c); ok {
		ctx := Context{}
		gx, gy := ev.GlobalX, ev.GlobalY
		if IsPositional(c) {
			if m, ok := r.transformFor(capturer); ok {
				lx, ly := geom.Apply(geom.Invert(m), gx, gy)
				ctx.LocalX, ctx.LocalY, ctx.HasLocal = lx, ly, true
			}
		}
		r.deliver.DeliverInput(capturer, ev, ctx)
		return
	}

	var hit HitResult
	var hasHit bool
	if IsPositional(c) {
		hit, hasHit = r.HitTest(c, ev.GlobalX, ev.GlobalY)
		if hasHit {
			r.deliver.DeliverInput(hit.OwnerScene, ev, Context{
				ElementID: hit.ElementID,
				LocalX:    hit.LocalX,
				LocalY:    hit.LocalY,
				HasLocal:  true,
			})
		}
	}

	for _, sceneID := range r.requesters(c) {
		if hasHit && sceneID == hit.OwnerScene {
			// Broadcast additivity (spec.md §8): the hit-tested delivery
			// above already reached this scene with an element id; the
			// broadcast delivery below is still sent with a null element
			// id per spec.md §4.4 step 3, so every requester is reached
			// uniformly regardless of whether it was also the hit owner.
		}
		r.deliver.DeliverInput(sceneID, ev, Context{})
	}
}
