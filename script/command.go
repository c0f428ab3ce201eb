// Package script defines the compiled wire representation a Graph compiles
// down to: the closed drawing-command set (spec.md §6), the per-graph
// InputList, and the SemanticEntry/SemanticSnapshot produced alongside it.
package script

// Op identifies one drawing command. The set is closed (spec.md §6): no
// caller may introduce new Ops outside this list.
type Op uint8

const (
	OpPushState Op = iota
	OpPopState
	OpTransform
	OpTranslate
	OpScale
	OpRotate
	OpFillColor
	OpStrokeColor
	OpStrokeWidth
	OpLineCap
	OpLineJoin
	OpMiterLimit
	OpFont
	OpFontSize
	OpTextAlign
	OpTextBase
	OpScissor
	OpHidden
	OpDrawLine
	OpDrawRect
	OpDrawRRect
	OpDrawCircle
	OpDrawEllipse
	OpDrawTriangle
	OpDrawQuad
	OpDrawPath
	OpDrawArc
	OpDrawSector
	OpDrawText
	OpDrawSprites
	OpDrawScript
)

// Point2 is a plain 2D coordinate, used by several command payloads.
type Point2 struct{ X, Y float64 }

// SpriteDraw is one entry of a draw_sprites command payload.
type SpriteDraw struct {
	SrcX, SrcY, SrcW, SrcH float64
	DstX, DstY, DstW, DstH float64
	ImageID                string
}

// Command is one entry of a compiled Script. Canonical field order per
// spec.md §6's wire table; only the fields relevant to Op are populated.
// Text strings are stored inline here; path blobs live in the side buffer
// Script.Blobs and are referenced by PathBlobIndex.
type Command struct {
	Op Op

	// transform / translate / scale / rotate
	Matrix  [6]float64
	Dx, Dy  float64
	Sx, Sy  float64
	Radians float64

	// colors
	ColorKind    uint8
	ColorName    string
	R, G, B, A   uint8
	GradientFrom Point2
	GradientTo   Point2
	GradientRad  float64
	GradientStops []GradientStopWire

	// scalar style values
	Number float64
	Text   string
	Bool   bool

	// scissor
	ScissorX, ScissorY, ScissorW, ScissorH float64
	ScissorNull                            bool

	// shape payloads
	From, To           Point2
	P1, P2, P3, P4     Point2
	W, H, R1, R2, Rad  float64
	PathBlobIndex      int
	ArcStart, ArcEnd   float64
	Sprites            []SpriteDraw
	ScriptID           string
}

// GradientStopWire is the wire form of a gradient color stop.
type GradientStopWire struct {
	Offset     float64
	ColorKind  uint8
	ColorName  string
	R, G, B, A uint8
}

// Script is the ordered command stream compiled from one Graph (spec.md §3).
// Large byte payloads referenced by OpDrawPath live in Blobs, indexed by
// Command.PathBlobIndex, so the Command slice itself stays fixed-size.
type Script struct {
	Commands []Command
	Blobs    [][]byte
}

// Len reports the number of commands, used by the "script of length 0"
// empty-graph scenario in spec.md §8.
func (s *Script) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Commands)
}

// Equal reports whether two scripts are byte-for-byte equal in the sense
// spec.md §4.2's change-detection contract requires: same commands, same
// blobs. This backs the "compiling the same graph value twice yields
// byte-identical output" purity invariant (spec.md §3) and the no-op
// detection in the registry (spec.md §4.3).
func Equal(a, b *Script) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Commands) != len(b.Commands) || len(a.Blobs) != len(b.Blobs) {
		return false
	}
	for i := range a.Commands {
		if !commandEqual(a.Commands[i], b.Commands[i]) {
			return false
		}
	}
	for i := range a.Blobs {
		if len(a.Blobs[i]) != len(b.Blobs[i]) {
			return false
		}
		for j := range a.Blobs[i] {
			if a.Blobs[i][j] != b.Blobs[i][j] {
				return false
			}
		}
	}
	return true
}

func commandEqual(a, b Command) bool {
	if len(a.GradientStops) != len(b.GradientStops) || len(a.Sprites) != len(b.Sprites) {
		return false
	}
	for i := range a.GradientStops {
		if a.GradientStops[i] != b.GradientStops[i] {
			return false
		}
	}
	for i := range a.Sprites {
		if a.Sprites[i] != b.Sprites[i] {
			return false
		}
	}
	return a.Op == b.Op &&
		a.Matrix == b.Matrix && a.Dx == b.Dx && a.Dy == b.Dy &&
		a.Sx == b.Sx && a.Sy == b.Sy && a.Radians == b.Radians &&
		a.ColorKind == b.ColorKind && a.ColorName == b.ColorName &&
		a.R == b.R && a.G == b.G && a.B == b.B && a.A == b.A &&
		a.GradientFrom == b.GradientFrom && a.GradientTo == b.GradientTo && a.GradientRad == b.GradientRad &&
		a.Number == b.Number && a.Text == b.Text && a.Bool == b.Bool &&
		a.ScissorX == b.ScissorX && a.ScissorY == b.ScissorY &&
		a.ScissorW == b.ScissorW && a.ScissorH == b.ScissorH && a.ScissorNull == b.ScissorNull &&
		a.From == b.From && a.To == b.To &&
		a.P1 == b.P1 && a.P2 == b.P2 && a.P3 == b.P3 && a.P4 == b.P4 &&
		a.W == b.W && a.H == b.H && a.R1 == b.R1 && a.R2 == b.R2 && a.Rad == b.Rad &&
		a.PathBlobIndex == b.PathBlobIndex &&
		a.ArcStart == b.ArcStart && a.ArcEnd == b.ArcEnd &&
		a.ScriptID == b.ScriptID
}
