package graph

import (
	"fmt"

	"github.com/phanxgames/viewstage/geom"
	"github.com/phanxgames/viewstage/primitive"
	"github.com/phanxgames/viewstage/script"
)

// InvalidGraphError reports a compile-time rejection (spec.md §4.2
// "Failure"): a cycle in child refs, a missing uid, or malformed primitive
// data.
type InvalidGraphError struct {
	Reason string
}

func (e *InvalidGraphError) Error() string { return "invalid graph: " + e.Reason }

// CompileOptions configures one compile pass (spec.md §4.2 "Input").
type CompileOptions struct {
	// RootParentID is the SemanticEntry.ParentID assigned to top-level
	// semantic entries, used when compiling a component's sub-scene so its
	// entries chain up into the hosting graph's tree.
	RootParentID string
	// SceneID is recorded on every InputEntry as the owning scene.
	SceneID string
}

// compileState is one stack frame during the depth-first traversal.
type compileState struct {
	transform   geom.Matrix
	styles      primitive.StyleSet
	parentID    string // nearest ancestor id for SemanticEntry.ParentID
	depth       int
}

// Compile flattens g into a Script, InputList, and SemanticSnapshot
// (spec.md §4.2). Compile is a pure function of g and opts: no time,
// randomness, or global state influences its output, so compiling the same
// Graph value twice yields byte-identical Scripts (spec.md §3, §4.2).
func Compile(g *Graph, opts CompileOptions) (*script.Script, script.InputList, *script.SemanticSnapshot, error) {
	c := &compiler{
		graph:    g,
		out:      &script.Script{},
		snapshot: script.NewSemanticSnapshot(),
		visited:  make(map[uint32]bool),
		onStack:  make(map[uint32]bool),
		sceneID:  opts.SceneID,
	}

	root := g.Root()
	if root == nil {
		return nil, nil, nil, &InvalidGraphError{Reason: "missing root uid 0"}
	}

	st := compileState{transform: geom.Identity, parentID: opts.RootParentID}
	if err := c.visit(RootUID, st); err != nil {
		return nil, nil, nil, err
	}
	return c.out, c.inputList, c.snapshot, nil
}

type compiler struct {
	graph     *Graph
	out       *script.Script
	inputList script.InputList
	snapshot  *script.SemanticSnapshot
	visited   map[uint32]bool
	onStack   map[uint32]bool
	sceneID   string
}

// visit implements spec.md §4.2's per-node algorithm.
func (c *compiler) visit(uid uint32, parent compileState) error {
	if c.onStack[uid] {
		return &InvalidGraphError{Reason: fmt.Sprintf("cycle detected at uid %d", uid)}
	}
	p := c.graph.Primitive(uid)
	if p == nil {
		return &InvalidGraphError{Reason: fmt.Sprintf("referenced uid %d missing", uid)}
	}
	c.onStack[uid] = true
	defer delete(c.onStack, uid)

	// 1. Combine local transform with parent's cumulative.
	local := p.Transform.Compile()
	cumulative := parent.transform
	if !p.Transform.IsIdentity() {
		cumulative = geom.Multiply(parent.transform, local)
	}

	// 2. Merge local styles over inherited.
	styles := primitive.Merge(parent.styles, p.Styles)

	// 3. Emit push_state / delta commands when transform or style changed.
	changed := !p.Transform.IsIdentity() || !primitive.Equal(p.Styles, nil)
	if changed {
		c.out.Commands = append(c.out.Commands, script.Command{Op: script.OpPushState})
		if !p.Transform.IsIdentity() {
			c.out.Commands = append(c.out.Commands, script.Command{Op: script.OpTransform, Matrix: [6]float64(local)})
		}
		c.out.Commands = append(c.out.Commands, styleDeltaCommands(p.Styles)...)
	}

	myParentID := parent.parentID

	// 4. Emit the primitive's own drawing commands (groups/refs handled below).
	switch p.Tag {
	case primitive.TagGroup:
		// groups emit nothing themselves
	case primitive.TagScriptRef:
		c.out.Commands = append(c.out.Commands, script.Command{Op: script.OpDrawScript, ScriptID: p.ScriptRef.GraphID})
	case primitive.TagComponentRef:
		// component_ref emits nothing itself; its children (the hosted
		// sub-scene's root content) are compiled inline below.
	default:
		cmds := p.Compile(styles)
		if p.Tag == primitive.TagPath {
			cmds = c.internPathBlob(p, cmds)
		}
		c.out.Commands = append(c.out.Commands, cmds...)
	}

	// 5. Input-eligible registration.
	if classes, ok := styles.InputClasses(); ok && p.Tag != primitive.TagGroup {
		c.inputList = append(c.inputList, script.InputEntry{
			UID:        uid,
			ID:         p.ID,
			Transform:  [6]float64(cumulative),
			Data:       hitAdapter{p},
			OwnerScene: c.sceneID,
			Classes:    toWireClasses(classes),
		})
	}

	// 6. Semantic registration.
	if p.ID != "" || p.Semantic != nil {
		entry := buildSemanticEntry(p, cumulative, myParentID, parent.depth)
		entry.UID = uid
		c.snapshot.Add(entry)
		myParentID = p.ID
	}

	// 7. Recurse children.
	childState := compileState{transform: cumulative, styles: styles, parentID: myParentID, depth: parent.depth + 1}
	for _, childUID := range p.Children {
		if err := c.visit(childUID, childState); err != nil {
			return err
		}
	}

	// pop any pushed state on exit.
	if changed {
		c.out.Commands = append(c.out.Commands, script.Command{Op: script.OpPopState})
	}
	return nil
}

// styleDeltaCommands emits the shape-independent style commands explicitly
// set on this primitive (fill/stroke/font are emitted by the primitive's
// own Compile, which sees the full inherited style set).
func styleDeltaCommands(s primitive.StyleSet) []script.Command {
	var cmds []script.Command
	if v, ok := s[primitive.StyleLineCap]; ok {
		cmds = append(cmds, script.Command{Op: script.OpLineCap, Number: v.Number})
	}
	if v, ok := s[primitive.StyleLineJoin]; ok {
		cmds = append(cmds, script.Command{Op: script.OpLineJoin, Number: v.Number})
	}
	if v, ok := s[primitive.StyleMiterLimit]; ok {
		cmds = append(cmds, script.Command{Op: script.OpMiterLimit, Number: v.Number})
	}
	if v, ok := s[primitive.StyleTextAlign]; ok {
		cmds = append(cmds, script.Command{Op: script.OpTextAlign, Number: v.Number})
	}
	if v, ok := s[primitive.StyleTextBase]; ok {
		cmds = append(cmds, script.Command{Op: script.OpTextBase, Number: v.Number})
	}
	if v, ok := s[primitive.StyleScissor]; ok {
		if v.Scissor.Set {
			cmds = append(cmds, script.Command{
				Op: script.OpScissor,
				ScissorX: v.Scissor.X, ScissorY: v.Scissor.Y, ScissorW: v.Scissor.W, ScissorH: v.Scissor.H,
			})
		} else {
			cmds = append(cmds, script.Command{Op: script.OpScissor, ScissorNull: true})
		}
	}
	if v, ok := s[primitive.StyleHidden]; ok {
		cmds = append(cmds, script.Command{Op: script.OpHidden, Bool: v.Bool})
	}
	return cmds
}

// internPathBlob appends the path's opaque blob to the script's shared blob
// buffer and rewrites the draw_path command to reference it by index,
// matching spec.md §3's "commands reference byte-blobs... in a companion
// binary buffer for large payloads".
func (c *compiler) internPathBlob(p *primitive.Primitive, cmds []script.Command) []script.Command {
	idx := len(c.out.Blobs)
	c.out.Blobs = append(c.out.Blobs, p.Path.Blob)
	for i := range cmds {
		if cmds[i].Op == script.OpDrawPath {
			cmds[i].PathBlobIndex = idx
		}
	}
	return cmds
}

func buildSemanticEntry(p *primitive.Primitive, cumulative geom.Matrix, parentID string, depth int) script.SemanticEntry {
	localBounds := p.Bounds()
	screenBounds := geom.TransformAABB(cumulative, localBounds)

	clickable := p.InferredClickable()
	focusable := false
	label := p.InferredLabel()
	var typ, role, value string
	if p.Semantic != nil {
		if p.Semantic.Clickable != nil {
			clickable = *p.Semantic.Clickable
		}
		if p.Semantic.Focusable != nil {
			focusable = *p.Semantic.Focusable
		}
		if p.Semantic.Label != "" {
			label = p.Semantic.Label
		}
		typ = p.Semantic.Type
		role = p.Semantic.Role
		value = p.Semantic.Value
	}

	return script.SemanticEntry{
		ID:           p.ID,
		Type:         typ,
		Module:       p.Tag.String(),
		ParentID:     parentID,
		LocalBounds:  localBounds,
		ScreenBounds: screenBounds,
		Clickable:    clickable,
		Focusable:    focusable,
		Label:        label,
		Role:         role,
		Value:        value,
		Hidden:       p.Styles.Hidden(),
		ZIndex:       depth,
	}
}

type hitAdapter struct {
	p *primitive.Primitive
}

func (h hitAdapter) ContainsPoint(x, y float64) bool { return h.p.ContainsPoint(x, y) }

func toWireClasses(cls []primitive.InputClass) []script.InputClass {
	out := make([]script.InputClass, len(cls))
	for i, c := range cls {
		out[i] = script.InputClass(c)
	}
	return out
}
