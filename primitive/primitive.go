package primitive

import (
	"github.com/phanxgames/viewstage/geom"
	"github.com/phanxgames/viewstage/script"
)

// Tag identifies a primitive's module (spec.md §3's closed tag set).
type Tag uint8

const (
	TagGroup Tag = iota
	TagRect
	TagRoundedRect
	TagCircle
	TagEllipse
	TagLine
	TagTriangle
	TagQuad
	TagPath
	TagArc
	TagSector
	TagText
	TagSprites
	TagScriptRef
	TagComponentRef
)

// String returns the tag's lowercase wire name, used as SemanticEntry.Module.
func (t Tag) String() string {
	switch t {
	case TagGroup:
		return "group"
	case TagRect:
		return "rect"
	case TagRoundedRect:
		return "rounded_rect"
	case TagCircle:
		return "circle"
	case TagEllipse:
		return "ellipse"
	case TagLine:
		return "line"
	case TagTriangle:
		return "triangle"
	case TagQuad:
		return "quad"
	case TagPath:
		return "path"
	case TagArc:
		return "arc"
	case TagSector:
		return "sector"
	case TagText:
		return "text"
	case TagSprites:
		return "sprites"
	case TagScriptRef:
		return "script_ref"
	case TagComponentRef:
		return "component_ref"
	default:
		return "unknown"
	}
}

// Semantic is the optional explicit semantic overlay a graph author may
// attach to a primitive (spec.md §3).
type Semantic struct {
	Type      string
	Clickable *bool // nil = infer default
	Focusable *bool
	Label     string
	Role      string
	Value     string
}

// Primitive is one node in a Graph (spec.md §3). Data holds the tag-specific
// payload; exactly one of the Data* fields matching Tag is meaningful.
type Primitive struct {
	UID       uint32
	Tag       Tag
	ID        string // "" if unset; addressing id, distinct from UID
	Transform geom.Transform
	Styles    StyleSet
	Semantic  *Semantic // nil if not explicitly set

	Children []uint32 // only meaningful for TagGroup / TagComponentRef

	Rect         RectData
	RoundedRect  RoundedRectData
	Circle       CircleData
	Ellipse      EllipseData
	Line         LineData
	Triangle     TriangleData
	Quad         QuadData
	Path         PathData
	Arc          ArcData
	Sector       SectorData
	Text         TextData
	Sprites      SpritesData
	ScriptRef    ScriptRefData
	ComponentRef ComponentRefData
}

// shapeData is the per-tag capability set the compiler consumes (spec.md
// §4.1): emit commands, compute local bounds, and test point containment.
type shapeData interface {
	compile(styles StyleSet) []script.Command
	bounds() geom.AABB
	containsPoint(x, y float64) bool
}

// shapeData selects the payload matching p.Tag. Groups, script_ref, and
// component_ref have no shape payload and return nil.
func (p *Primitive) shapeData() shapeData {
	switch p.Tag {
	case TagRect:
		return p.Rect
	case TagRoundedRect:
		return p.RoundedRect
	case TagCircle:
		return p.Circle
	case TagEllipse:
		return p.Ellipse
	case TagLine:
		return p.Line
	case TagTriangle:
		return p.Triangle
	case TagQuad:
		return p.Quad
	case TagPath:
		return p.Path
	case TagArc:
		return p.Arc
	case TagSector:
		return p.Sector
	case TagText:
		return p.Text
	case TagSprites:
		return p.Sprites
	default:
		return nil
	}
}

// Bounds returns the local-space AABB of this primitive's shape. Groups,
// script_ref and component_ref have no intrinsic bounds (zero value).
func (p *Primitive) Bounds() geom.AABB {
	if d := p.shapeData(); d != nil {
		return d.bounds()
	}
	return geom.AABB{}
}

// ContainsPoint tests a local-space point against this primitive's shape.
func (p *Primitive) ContainsPoint(x, y float64) bool {
	if d := p.shapeData(); d != nil {
		return d.containsPoint(x, y)
	}
	return false
}

// Compile emits this primitive's drawing commands relative to the
// cumulative transform/style state already applied by the caller (spec.md
// §4.1).
func (p *Primitive) Compile(styles StyleSet) []script.Command {
	if d := p.shapeData(); d != nil {
		return d.compile(styles)
	}
	if p.Tag == TagScriptRef {
		return []script.Command{{Op: script.OpDrawScript, ScriptID: p.ScriptRef.GraphID}}
	}
	return nil
}

// InferredClickable reports the default clickable state absent an explicit
// Semantic override (spec.md §4.2 step 6: "component primitives are
// clickable by default").
func (p *Primitive) InferredClickable() bool {
	return p.Tag == TagComponentRef
}

// InferredLabel reports the default label absent an explicit Semantic
// override ("text primitives use their string as a label default").
func (p *Primitive) InferredLabel() string {
	if p.Tag == TagText {
		return p.Text.Content
	}
	return ""
}

// toWireColor converts a Color into the wire-level command fields.
func toWireColor(c Color) (kind uint8, name string, r, g, b, a uint8) {
	return uint8(c.Kind), c.Name, c.R, c.G, c.B, c.A
}
