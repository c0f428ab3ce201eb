package primitive

import (
	"math"

	"github.com/phanxgames/viewstage/geom"
	"github.com/phanxgames/viewstage/script"
)

func styleCommands(s StyleSet) []script.Command {
	var cmds []script.Command
	if v, ok := s[StyleFill]; ok {
		k, n, r, g, b, a := toWireColor(v.Color)
		cmds = append(cmds, script.Command{Op: script.OpFillColor, ColorKind: k, ColorName: n, R: r, G: g, B: b, A: a})
	}
	if v, ok := s[StyleStroke]; ok {
		k, n, r, g, b, a := toWireColor(v.Color)
		cmds = append(cmds, script.Command{Op: script.OpStrokeColor, ColorKind: k, ColorName: n, R: r, G: g, B: b, A: a})
	}
	if v, ok := s[StyleStrokeWidth]; ok {
		cmds = append(cmds, script.Command{Op: script.OpStrokeWidth, Number: v.Number})
	}
	return cmds
}

// RectData is the payload for TagRect: an axis-aligned rectangle with its
// top-left corner at the primitive's local origin.
type RectData struct {
	Width, Height float64
}

func (d RectData) bounds() geom.AABB { return geom.AABB{Width: d.Width, Height: d.Height} }
func (d RectData) containsPoint(x, y float64) bool {
	return geom.AABB{Width: d.Width, Height: d.Height}.Contains(x, y)
}
func (d RectData) compile(s StyleSet) []script.Command {
	return append(styleCommands(s), script.Command{Op: script.OpDrawRect, W: d.Width, H: d.Height})
}

// RoundedRectData is the payload for TagRoundedRect.
type RoundedRectData struct {
	Width, Height, Radius float64
}

func (d RoundedRectData) bounds() geom.AABB { return geom.AABB{Width: d.Width, Height: d.Height} }
func (d RoundedRectData) containsPoint(x, y float64) bool {
	return geom.AABB{Width: d.Width, Height: d.Height}.Contains(x, y)
}
func (d RoundedRectData) compile(s StyleSet) []script.Command {
	return append(styleCommands(s), script.Command{Op: script.OpDrawRRect, W: d.Width, H: d.Height, R1: d.Radius})
}

// CircleData is the payload for TagCircle, centered at the local origin.
type CircleData struct {
	Radius float64
}

func (d CircleData) bounds() geom.AABB {
	return geom.AABB{Left: -d.Radius, Top: -d.Radius, Width: 2 * d.Radius, Height: 2 * d.Radius}
}
func (d CircleData) containsPoint(x, y float64) bool {
	return x*x+y*y <= d.Radius*d.Radius
}
func (d CircleData) compile(s StyleSet) []script.Command {
	return append(styleCommands(s), script.Command{Op: script.OpDrawCircle, Rad: d.Radius})
}

// EllipseData is the payload for TagEllipse, centered at the local origin.
type EllipseData struct {
	RadiusX, RadiusY float64
}

func (d EllipseData) bounds() geom.AABB {
	return geom.AABB{Left: -d.RadiusX, Top: -d.RadiusY, Width: 2 * d.RadiusX, Height: 2 * d.RadiusY}
}
func (d EllipseData) containsPoint(x, y float64) bool {
	if d.RadiusX == 0 || d.RadiusY == 0 {
		return false
	}
	nx, ny := x/d.RadiusX, y/d.RadiusY
	return nx*nx+ny*ny <= 1
}
func (d EllipseData) compile(s StyleSet) []script.Command {
	return append(styleCommands(s), script.Command{Op: script.OpDrawEllipse, R1: d.RadiusX, R2: d.RadiusY})
}

// LineData is the payload for TagLine.
type LineData struct {
	FromX, FromY, ToX, ToY float64
	Thickness              float64
}

func (d LineData) bounds() geom.AABB {
	left, right := math.Min(d.FromX, d.ToX), math.Max(d.FromX, d.ToX)
	top, bottom := math.Min(d.FromY, d.ToY), math.Max(d.FromY, d.ToY)
	pad := d.Thickness / 2
	return geom.AABB{Left: left - pad, Top: top - pad, Width: right - left + 2*pad, Height: bottom - top + 2*pad}
}
func (d LineData) containsPoint(x, y float64) bool {
	pad := d.Thickness/2 + 1e-9
	dx, dy := d.ToX-d.FromX, d.ToY-d.FromY
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(x-d.FromX, y-d.FromY) <= pad
	}
	t := ((x-d.FromX)*dx + (y-d.FromY)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	px, py := d.FromX+t*dx, d.FromY+t*dy
	return math.Hypot(x-px, y-py) <= pad
}
func (d LineData) compile(s StyleSet) []script.Command {
	return append(styleCommands(s), script.Command{
		Op: script.OpDrawLine,
		From: script.Point2{X: d.FromX, Y: d.FromY},
		To:   script.Point2{X: d.ToX, Y: d.ToY},
	})
}

// TriangleData is the payload for TagTriangle.
type TriangleData struct {
	P1, P2, P3 Vec2
}

func (d TriangleData) bounds() geom.AABB { return polyBounds(d.P1, d.P2, d.P3) }
func (d TriangleData) containsPoint(x, y float64) bool {
	return pointInPolygon([]Vec2{d.P1, d.P2, d.P3}, x, y)
}
func (d TriangleData) compile(s StyleSet) []script.Command {
	return append(styleCommands(s), script.Command{
		Op: script.OpDrawTriangle,
		P1: script.Point2{X: d.P1.X, Y: d.P1.Y}, P2: script.Point2{X: d.P2.X, Y: d.P2.Y}, P3: script.Point2{X: d.P3.X, Y: d.P3.Y},
	})
}

// QuadData is the payload for TagQuad.
type QuadData struct {
	P1, P2, P3, P4 Vec2
}

func (d QuadData) bounds() geom.AABB { return polyBounds(d.P1, d.P2, d.P3, d.P4) }
func (d QuadData) containsPoint(x, y float64) bool {
	return pointInPolygon([]Vec2{d.P1, d.P2, d.P3, d.P4}, x, y)
}
func (d QuadData) compile(s StyleSet) []script.Command {
	return append(styleCommands(s), script.Command{
		Op: script.OpDrawQuad,
		P1: script.Point2{X: d.P1.X, Y: d.P1.Y}, P2: script.Point2{X: d.P2.X, Y: d.P2.Y},
		P3: script.Point2{X: d.P3.X, Y: d.P3.Y}, P4: script.Point2{X: d.P4.X, Y: d.P4.Y},
	})
}

// PathData is the payload for TagPath: an opaque blob plus its precomputed
// local bounds and a polygon approximation for hit testing (bounds math
// beyond simple shapes is an external-collaborator concern per spec.md §1,
// so the caller supplies both).
type PathData struct {
	Blob        []byte
	LocalBounds geom.AABB
	HitPolygon  []Vec2 // optional; falls back to LocalBounds if empty
}

func (d PathData) bounds() geom.AABB { return d.LocalBounds }
func (d PathData) containsPoint(x, y float64) bool {
	if len(d.HitPolygon) >= 3 {
		return pointInPolygon(d.HitPolygon, x, y)
	}
	return d.LocalBounds.Contains(x, y)
}
func (d PathData) compile(s StyleSet) []script.Command {
	return append(styleCommands(s), script.Command{Op: script.OpDrawPath, PathBlobIndex: -1})
}

// ArcData is the payload for TagArc: an open arc stroke.
type ArcData struct {
	Radius, Start, End float64
}

func (d ArcData) bounds() geom.AABB {
	return geom.AABB{Left: -d.Radius, Top: -d.Radius, Width: 2 * d.Radius, Height: 2 * d.Radius}
}
func (d ArcData) containsPoint(x, y float64) bool {
	dist := math.Hypot(x, y)
	if math.Abs(dist-d.Radius) > 2 {
		return false
	}
	angle := math.Atan2(y, x)
	return angleBetween(angle, d.Start, d.End)
}
func (d ArcData) compile(s StyleSet) []script.Command {
	return append(styleCommands(s), script.Command{Op: script.OpDrawArc, Rad: d.Radius, ArcStart: d.Start, ArcEnd: d.End})
}

// SectorData is the payload for TagSector: a filled pie slice.
type SectorData struct {
	Radius, Start, End float64
}

func (d SectorData) bounds() geom.AABB {
	return geom.AABB{Left: -d.Radius, Top: -d.Radius, Width: 2 * d.Radius, Height: 2 * d.Radius}
}
func (d SectorData) containsPoint(x, y float64) bool {
	if x*x+y*y > d.Radius*d.Radius {
		return false
	}
	angle := math.Atan2(y, x)
	return angleBetween(angle, d.Start, d.End)
}
func (d SectorData) compile(s StyleSet) []script.Command {
	return append(styleCommands(s), script.Command{Op: script.OpDrawSector, Rad: d.Radius, ArcStart: d.Start, ArcEnd: d.End})
}

// TextData is the payload for TagText. Font metrics and shaping are an
// external-collaborator concern (spec.md §1 Non-goals), so the bounds are
// the caller-supplied advance width / line height rather than the result of
// shaping the string.
type TextData struct {
	Content           string
	AdvanceWidth      float64
	LineHeight        float64
}

func (d TextData) bounds() geom.AABB {
	return geom.AABB{Width: d.AdvanceWidth, Height: d.LineHeight}
}
func (d TextData) containsPoint(x, y float64) bool {
	return geom.AABB{Width: d.AdvanceWidth, Height: d.LineHeight}.Contains(x, y)
}
func (d TextData) compile(s StyleSet) []script.Command {
	cmds := styleCommands(s)
	if v, ok := s[StyleFont]; ok {
		cmds = append(cmds, script.Command{Op: script.OpFont, Text: v.Text})
	}
	if v, ok := s[StyleFontSize]; ok {
		cmds = append(cmds, script.Command{Op: script.OpFontSize, Number: v.Number})
	}
	return append(cmds, script.Command{Op: script.OpDrawText, Text: d.Content})
}

// SpritesData is the payload for TagSprites: a batch of image-region draws.
type SpritesData struct {
	Sprites     []SpriteDraw
	LocalBounds geom.AABB
}

// SpriteDraw is one entry of a sprites batch.
type SpriteDraw struct {
	SrcX, SrcY, SrcW, SrcH float64
	DstX, DstY, DstW, DstH float64
	ImageID                string
}

func (d SpritesData) bounds() geom.AABB { return d.LocalBounds }
func (d SpritesData) containsPoint(x, y float64) bool {
	return d.LocalBounds.Contains(x, y)
}
func (d SpritesData) compile(s StyleSet) []script.Command {
	wire := make([]script.SpriteDraw, len(d.Sprites))
	for i, sp := range d.Sprites {
		wire[i] = script.SpriteDraw{
			SrcX: sp.SrcX, SrcY: sp.SrcY, SrcW: sp.SrcW, SrcH: sp.SrcH,
			DstX: sp.DstX, DstY: sp.DstY, DstW: sp.DstW, DstH: sp.DstH,
			ImageID: sp.ImageID,
		}
	}
	return append(styleCommands(s), script.Command{Op: script.OpDrawSprites, Sprites: wire})
}

// ScriptRefData is the payload for TagScriptRef: a deferred reference to
// another registered script (spec.md §4.1: "not recursively compiled").
type ScriptRefData struct {
	GraphID string
}

// ComponentRefData is the payload for TagComponentRef: a sub-scene hosted
// inline. Unlike script_ref, the compiler descends into it via Children.
type ComponentRefData struct {
	HostedGraphID string
}

// Vec2 is a plain 2D point used by polygon-shaped primitive payloads.
type Vec2 struct{ X, Y float64 }

func polyBounds(pts ...Vec2) geom.AABB {
	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return geom.AABB{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}

// pointInPolygon tests containment with an even-odd ray cast, so concave
// path hit polygons and quads work as well as convex ones (the teacher's
// HitPolygon.Contains in willow/input.go handled only convex polygons).
func pointInPolygon(pts []Vec2, x, y float64) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := pts[i].X, pts[i].Y
		xj, yj := pts[j].X, pts[j].Y
		if (yi > y) != (yj > y) {
			xIntersect := (xj-xi)*(y-yi)/(yj-yi) + xi
			if x < xIntersect {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

func angleBetween(angle, start, end float64) bool {
	twoPi := 2 * math.Pi
	norm := func(a float64) float64 {
		for a < 0 {
			a += twoPi
		}
		for a >= twoPi {
			a -= twoPi
		}
		return a
	}
	a, s, e := norm(angle), norm(start), norm(end)
	if s <= e {
		return a >= s && a <= e
	}
	return a >= s || a <= e
}
