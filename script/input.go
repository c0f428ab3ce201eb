package script

// InputClass mirrors primitive.InputClass without importing primitive, so
// that script stays a leaf package other packages can depend on freely.
type InputClass uint8

const (
	InputCursorButton InputClass = iota
	InputCursorPos
	InputCursorScroll
	InputKey
	InputCodepoint
	InputViewport
	InputAny
)

// acceptsClass reports whether classes contains c or InputAny.
func acceptsClass(classes []InputClass, c InputClass) bool {
	for _, cls := range classes {
		if cls == InputAny || cls == c {
			return true
		}
	}
	return false
}

// HitTester is implemented by a primitive's compiled local data so the
// router can hit-test without importing the primitive package (spec.md
// §4.1: "contains_point?(data, local_point) → bool").
type HitTester interface {
	ContainsPoint(localX, localY float64) bool
}

// InputEntry is one input-eligible primitive in paint order (spec.md §3).
type InputEntry struct {
	UID          uint32
	ID           string // optional graph-author id, "" if unset
	Transform    [6]float64 // cumulative local-to-graph transform at compile time
	Data         HitTester
	OwnerScene   string
	Classes      []InputClass
	RefGraphID   string // set when this entry defers into another graph (script_ref/component_ref)
}

// Accepts reports whether this entry accepts input class c.
func (e InputEntry) Accepts(c InputClass) bool {
	return acceptsClass(e.Classes, c)
}

// InputList is a graph's input-eligible primitives in paint order (last
// drawn = last in the list; spec.md §3).
type InputList []InputEntry
