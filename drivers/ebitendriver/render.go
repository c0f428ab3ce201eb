package ebitendriver

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/viewstage/geom"
	"github.com/phanxgames/viewstage/script"
)

// renderState is one entry of the push_state/pop_state stack (spec.md §6):
// the cumulative transform and the currently active paint attributes.
type renderState struct {
	transform geom.Matrix
	fill      color.Color
	stroke    color.Color
	strokeW   float32
	hidden    bool
}

func defaultState() renderState {
	return renderState{
		transform: geom.Identity,
		fill:      color.White,
		stroke:    color.Black,
		strokeW:   1,
	}
}

// renderScript walks sc's commands in order, applying state-changing
// commands to a stack-top renderState and rasterizing draw commands with
// ebiten's vector package (spec.md §6's closed command set). Draw
// references (op_draw_script) are not followed recursively: a reference
// driver renders exactly the graph it was handed, leaving cross-graph
// composition to the coordinator that decides which graphs to attach.
func renderScript(screen *ebiten.Image, sc *script.Script) {
	stack := []renderState{defaultState()}
	top := func() *renderState { return &stack[len(stack)-1] }

	for _, cmd := range sc.Commands {
		switch cmd.Op {
		case script.OpPushState:
			cur := *top()
			stack = append(stack, cur)
		case script.OpPopState:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case script.OpTransform:
			top().transform = geom.Multiply(top().transform, geom.Matrix(cmd.Matrix))
		case script.OpTranslate:
			top().transform = geom.Multiply(top().transform, geom.Matrix{1, 0, 0, 1, cmd.Dx, cmd.Dy})
		case script.OpScale:
			top().transform = geom.Multiply(top().transform, geom.Matrix{cmd.Sx, 0, 0, cmd.Sy, 0, 0})
		case script.OpRotate:
			s, c := math.Sin(cmd.Radians), math.Cos(cmd.Radians)
			top().transform = geom.Multiply(top().transform, geom.Matrix{c, s, -s, c, 0, 0})
		case script.OpFillColor:
			top().fill = wireColor(cmd)
		case script.OpStrokeColor:
			top().stroke = wireColor(cmd)
		case script.OpStrokeWidth:
			top().strokeW = float32(cmd.Number)
		case script.OpHidden:
			top().hidden = cmd.Bool

		case script.OpDrawRect:
			if top().hidden {
				continue
			}
			drawRect(screen, *top(), cmd.From.X, cmd.From.Y, cmd.W, cmd.H)
		case script.OpDrawRRect:
			if top().hidden {
				continue
			}
			drawRect(screen, *top(), cmd.From.X, cmd.From.Y, cmd.W, cmd.H)
		case script.OpDrawCircle:
			if top().hidden {
				continue
			}
			drawCircle(screen, *top(), cmd.From.X, cmd.From.Y, cmd.Rad)
		case script.OpDrawEllipse:
			if top().hidden {
				continue
			}
			drawCircle(screen, *top(), cmd.From.X, cmd.From.Y, (cmd.R1+cmd.R2)/2)
		case script.OpDrawLine:
			if top().hidden {
				continue
			}
			drawLine(screen, *top(), cmd.From, cmd.To)
		case script.OpDrawTriangle:
			if top().hidden {
				continue
			}
			drawPolygon(screen, *top(), cmd.P1, cmd.P2, cmd.P3)
		case script.OpDrawQuad:
			if top().hidden {
				continue
			}
			drawPolygon(screen, *top(), cmd.P1, cmd.P2, cmd.P3, cmd.P4)
		case script.OpDrawSprites:
			// Sprite atlas lookup is the hosting application's concern
			// (spec.md §1 "the actual pixel-level drawer" is out of
			// scope); this reference driver only rasterizes vector ops.
		case script.OpDrawText, script.OpDrawPath, script.OpDrawArc, script.OpDrawSector, script.OpDrawScript:
			// Text shaping, path tessellation, arc/sector geometry, and
			// cross-script recursion are explicitly out of this
			// coordination core's scope (spec.md §1 Non-goals).
		}
	}
}

func wireColor(cmd script.Command) color.Color {
	return color.RGBA{R: cmd.R, G: cmd.G, B: cmd.B, A: cmd.A}
}

func drawRect(screen *ebiten.Image, st renderState, x, y, w, h float64) {
	x0, y0 := geom.Apply(st.transform, x, y)
	x1, y1 := geom.Apply(st.transform, x+w, y+h)
	var path vector.Path
	path.MoveTo(float32(x0), float32(y0))
	path.LineTo(float32(x1), float32(y0))
	path.LineTo(float32(x1), float32(y1))
	path.LineTo(float32(x0), float32(y1))
	path.Close()
	fillPath(screen, &path, st.fill)
}

func drawCircle(screen *ebiten.Image, st renderState, cx, cy, radius float64) {
	sx, sy := geom.Apply(st.transform, cx, cy)
	rx, ry := geom.Apply(st.transform, cx+radius, cy)
	r := math.Hypot(rx-sx, ry-sy)
	vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(r), st.fill, true)
}

func drawLine(screen *ebiten.Image, st renderState, from, to script.Point2) {
	x0, y0 := geom.Apply(st.transform, from.X, from.Y)
	x1, y1 := geom.Apply(st.transform, to.X, to.Y)
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), st.strokeW, st.stroke, true)
}

func drawPolygon(screen *ebiten.Image, st renderState, pts ...script.Point2) {
	if len(pts) == 0 {
		return
	}
	var path vector.Path
	x0, y0 := geom.Apply(st.transform, pts[0].X, pts[0].Y)
	path.MoveTo(float32(x0), float32(y0))
	for _, p := range pts[1:] {
		x, y := geom.Apply(st.transform, p.X, p.Y)
		path.LineTo(float32(x), float32(y))
	}
	path.Close()
	fillPath(screen, &path, st.fill)
}

func fillPath(screen *ebiten.Image, path *vector.Path, fill color.Color) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := fill.RGBA()
	cr, cg, cb, ca := float32(r)/0xffff, float32(g)/0xffff, float32(b)/0xffff, float32(a)/0xffff
	for i := range vs {
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = cr, cg, cb, ca
	}
	screen.DrawTriangles(vs, is, whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

var whitePixelImg *ebiten.Image

func whitePixel() *ebiten.Image {
	if whitePixelImg == nil {
		whitePixelImg = ebiten.NewImage(1, 1)
		whitePixelImg.Fill(color.White)
	}
	return whitePixelImg
}
