// Package graph implements the immutable scene graph (spec.md §3, §4.1):
// a uid-keyed tree of primitives, and the compiler that flattens it into a
// Script, InputList, and SemanticSnapshot (spec.md §4.2).
package graph

import (
	"fmt"

	"github.com/phanxgames/viewstage/primitive"
)

// RootUID is the uid reserved for the root group (spec.md §3: "the root has
// uid 0").
const RootUID uint32 = 0

// Graph owns a uid -> Primitive mapping rooted at RootUID. Every mutation
// (Add/Modify/Delete) returns a new Graph value; the receiver is left
// unmodified, satisfying "immutable... every mutation produces a new graph
// value" (spec.md §3). Internally this is copy-on-write: each mutation
// copies the uid map and id index, while unchanged Primitive values are
// shared between generations rather than deep-copied.
type Graph struct {
	primitives map[uint32]*primitive.Primitive
	nextUID    uint32
	idIndex    map[string]uint32 // side index: primitive ID -> uid, maintained incrementally
}

// New creates a Graph containing only an empty root group.
func New() *Graph {
	root := &primitive.Primitive{UID: RootUID, Tag: primitive.TagGroup}
	return &Graph{
		primitives: map[uint32]*primitive.Primitive{RootUID: root},
		nextUID:    1,
		idIndex:    map[string]uint32{},
	}
}

// clone performs a shallow copy of the uid map and id index; Primitive
// values themselves are replaced wholesale on modification, never mutated
// in place, so sharing pointers across generations is safe.
func (g *Graph) clone() *Graph {
	cp := &Graph{
		primitives: make(map[uint32]*primitive.Primitive, len(g.primitives)),
		nextUID:    g.nextUID,
		idIndex:    make(map[string]uint32, len(g.idIndex)),
	}
	for k, v := range g.primitives {
		cp.primitives[k] = v
	}
	for k, v := range g.idIndex {
		cp.idIndex[k] = v
	}
	return cp
}

// Primitive returns the primitive at uid, or nil if absent.
func (g *Graph) Primitive(uid uint32) *primitive.Primitive {
	return g.primitives[uid]
}

// ByID returns the primitive whose explicit ID matches id, or nil.
func (g *Graph) ByID(id string) *primitive.Primitive {
	uid, ok := g.idIndex[id]
	if !ok {
		return nil
	}
	return g.primitives[uid]
}

// Root returns the root group primitive (always present, uid 0).
func (g *Graph) Root() *primitive.Primitive {
	return g.primitives[RootUID]
}

// Add appends a new primitive as the last child of parentUID and returns the
// new Graph and the assigned uid (spec.md §4.1: "assigns the next free uid,
// records it in the primitive map, and appends its uid to the parent
// group's child list").
func (g *Graph) Add(parentUID uint32, p primitive.Primitive) (*Graph, uint32, error) {
	parent, ok := g.primitives[parentUID]
	if !ok {
		return nil, 0, fmt.Errorf("graph: parent uid %d not found", parentUID)
	}
	if parent.Tag != primitive.TagGroup && parent.Tag != primitive.TagComponentRef {
		return nil, 0, fmt.Errorf("graph: parent uid %d is not a group", parentUID)
	}

	cp := g.clone()
	uid := cp.nextUID
	cp.nextUID++
	p.UID = uid

	newParent := *parent
	newParent.Children = append(append([]uint32{}, parent.Children...), uid)
	cp.primitives[parentUID] = &newParent
	cp.primitives[uid] = &p

	if p.ID != "" {
		cp.idIndex[p.ID] = uid
	}
	return cp, uid, nil
}

// Modify replaces the primitive at uid with a new value, preserving uid
// stability (spec.md §4.1: "uids are stable across modify").
func (g *Graph) Modify(uid uint32, p primitive.Primitive) (*Graph, error) {
	old, ok := g.primitives[uid]
	if !ok {
		return nil, fmt.Errorf("graph: uid %d not found", uid)
	}
	cp := g.clone()
	p.UID = uid
	p.Children = old.Children
	cp.primitives[uid] = &p

	if old.ID != p.ID {
		if old.ID != "" {
			delete(cp.idIndex, old.ID)
		}
		if p.ID != "" {
			cp.idIndex[p.ID] = uid
		}
	}
	return cp, nil
}

// Delete removes uid from the map and from its parent's child list
// (spec.md §4.1). The root (uid 0) cannot be deleted.
func (g *Graph) Delete(uid uint32) (*Graph, error) {
	if uid == RootUID {
		return nil, fmt.Errorf("graph: cannot delete root")
	}
	p, ok := g.primitives[uid]
	if !ok {
		return nil, fmt.Errorf("graph: uid %d not found", uid)
	}

	cp := g.clone()
	g.deleteSubtree(cp, uid)
	for puid, parent := range cp.primitives {
		for i, c := range parent.Children {
			if c == uid {
				newParent := *parent
				newParent.Children = append(append([]uint32{}, parent.Children[:i]...), parent.Children[i+1:]...)
				cp.primitives[puid] = &newParent
				break
			}
		}
	}
	_ = p
	return cp, nil
}

func (g *Graph) deleteSubtree(cp *Graph, uid uint32) {
	p, ok := cp.primitives[uid]
	if !ok {
		return
	}
	for _, c := range p.Children {
		g.deleteSubtree(cp, c)
	}
	if p.ID != "" {
		delete(cp.idIndex, p.ID)
	}
	delete(cp.primitives, uid)
}

// Len returns the number of primitives currently in the graph, including
// the root.
func (g *Graph) Len() int {
	return len(g.primitives)
}
