// Package ebitendriver is a reference Driver (spec.md §1 "Driver") built on
// ebiten: it paints a ViewPort's current ScriptTable every frame and feeds
// ebiten's cursor position, left mouse button, and wheel state back through
// the Input Router; keyboard state is not polled. Synthetic
// clicks get a brief highlight pulse timed with gween, matching the
// teacher's own animation.go convention of driving float fields with
// gween.Tween.Update(dt) each frame rather than a global animation
// manager.
package ebitendriver

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/viewstage/input"
	"github.com/phanxgames/viewstage/script"
	"github.com/phanxgames/viewstage/viewport"
)

// Driver implements ebiten.Game and viewport.Driver simultaneously: ebiten
// drives its Update/Draw/Layout methods, and the coordinator drives its
// Notify method whenever the ScriptTable changes.
type Driver struct {
	id string
	vp ViewPort

	scripts map[string]*script.Script
	order   []string

	pulses []pulse
}

// ViewPort is the subset of *viewport.ViewPort the driver depends on,
// narrowed so it can be faked in tests without an ebiten context.
type ViewPort interface {
	GetScript(graphID string) (script.RegistryEntry, bool)
	ListScriptIds() []string
	Input(ev input.Event)
}

// pulse is a short-lived highlight animated with gween, shown where a
// synthetic click (spec.md §4.5 "click(id)") just landed so the effect is
// visible on screen during manual testing/demos.
type pulse struct {
	x, y   float64
	alpha  *gween.Tween
	radius *gween.Tween
	done   bool
}

// New constructs a Driver reading from vp and attaches itself under id.
func New(id string, vp *viewport.ViewPort) *Driver {
	d := &Driver{id: id, vp: vp, scripts: make(map[string]*script.Script)}
	vp.AttachDriver(id, d)
	return d
}

// Notify implements viewport.Driver (spec.md §4.3 "Driver notifications").
func (d *Driver) Notify(n viewport.Notification) {
	switch n.Kind {
	case viewport.NotifyScriptsUpdated:
		for _, gid := range n.GraphIDs {
			entry, ok := d.vp.GetScript(gid)
			if !ok {
				continue
			}
			if _, existed := d.scripts[gid]; !existed {
				d.order = append(d.order, gid)
			}
			d.scripts[gid] = entry.Script
		}
	case viewport.NotifyScriptsDeleted:
		for _, gid := range n.GraphIDs {
			delete(d.scripts, gid)
			d.order = removeID(d.order, gid)
		}
	case viewport.NotifyResetScene:
		delete(d.scripts, n.SceneID)
		d.order = removeID(d.order, n.SceneID)
	}
}

func removeID(order []string, id string) []string {
	out := order[:0:0]
	for _, o := range order {
		if o != id {
			out = append(out, o)
		}
	}
	return out
}

// PulseAt starts a highlight animation centered on (x, y), called after an
// automation Click so the driver's demo window shows where the synthetic
// input landed.
func (d *Driver) PulseAt(x, y float64) {
	d.pulses = append(d.pulses, pulse{
		x: x, y: y,
		alpha:  gween.New(1, 0, 0.35, ease.OutCubic),
		radius: gween.New(4, 24, 0.35, ease.OutCubic),
	})
}

// Update implements ebiten.Game: it polls input and advances demo pulses.
func (d *Driver) Update() error {
	dt := float32(1) / 60
	d.pollInput()
	d.advancePulses(dt)
	return nil
}

func (d *Driver) advancePulses(dt float32) {
	live := d.pulses[:0]
	for i := range d.pulses {
		p := &d.pulses[i]
		_, aDone := p.alpha.Update(dt)
		_, rDone := p.radius.Update(dt)
		if !(aDone && rDone) {
			live = append(live, *p)
		}
	}
	d.pulses = live
}

// pollInput reads ebiten's cursor position, left mouse button, and wheel
// state (not the keyboard) and dispatches it through the Input Router (spec.md §4.4; grounded on the teacher's
// processMousePointer/readModifiers in input.go, collapsed to the router's
// class/event shape instead of the teacher's pointer-slot bookkeeping).
func (d *Driver) pollInput() {
	mx, my := ebiten.CursorPosition()
	gx, gy := float64(mx), float64(my)

	d.vp.Input(input.Event{Class: input.CursorPos, GlobalX: gx, GlobalY: gy})

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		d.vp.Input(input.Event{Class: input.CursorButton, GlobalX: gx, GlobalY: gy, Pressed: true, Button: 0})
	} else if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		d.vp.Input(input.Event{Class: input.CursorButton, GlobalX: gx, GlobalY: gy, Pressed: false, Button: 0})
	}

	wheelX, wheelY := ebiten.Wheel()
	if wheelX != 0 || wheelY != 0 {
		d.vp.Input(input.Event{Class: input.CursorScroll, GlobalX: gx, GlobalY: gy, ScrollDX: wheelX, ScrollDY: wheelY})
	}
}

// Draw implements ebiten.Game: it walks every registered Script in paint
// order and renders the closed drawing-command set (spec.md §6) with
// ebiten's vector package, plus any active demo pulses on top.
func (d *Driver) Draw(screen *ebiten.Image) {
	for _, gid := range d.order {
		sc := d.scripts[gid]
		if sc == nil {
			continue
		}
		renderScript(screen, sc)
	}
	for _, p := range d.pulses {
		a, _ := p.alpha.Update(0)
		r, _ := p.radius.Update(0)
		col := color.RGBA{255, 220, 80, uint8(a * 255)}
		vector.StrokeCircle(screen, float32(p.x), float32(p.y), r, 2, col, true)
	}
}

// Layout implements ebiten.Game, using the outside window size unchanged as
// the logical screen size.
func (d *Driver) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
