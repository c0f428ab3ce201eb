package ebitendriver

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/viewstage/input"
	"github.com/phanxgames/viewstage/script"
	"github.com/phanxgames/viewstage/viewport"
)

type fakeVP struct {
	entries map[string]script.RegistryEntry
	ids     []string
	inputs  []input.Event
}

func (f *fakeVP) GetScript(graphID string) (script.RegistryEntry, bool) {
	e, ok := f.entries[graphID]
	return e, ok
}

func (f *fakeVP) ListScriptIds() []string { return f.ids }

func (f *fakeVP) Input(ev input.Event) { f.inputs = append(f.inputs, ev) }

func newDriverForTest() (*Driver, *fakeVP) {
	vp := &fakeVP{entries: map[string]script.RegistryEntry{}}
	return &Driver{vp: vp, scripts: make(map[string]*script.Script)}, vp
}

func TestDriver_NotifyScriptsUpdated(t *testing.T) {
	d, fvp := newDriverForTest()
	sc := &script.Script{Commands: []script.Command{{Op: script.OpDrawRect, W: 10, H: 10}}}
	fvp.entries["g1"] = script.RegistryEntry{GraphID: "g1", Script: sc}

	d.Notify(viewport.Notification{Kind: viewport.NotifyScriptsUpdated, GraphIDs: []string{"g1"}})

	if len(d.order) != 1 || d.order[0] != "g1" {
		t.Fatalf("order = %v", d.order)
	}
	if d.scripts["g1"] != sc {
		t.Fatal("script not cached")
	}
}

func TestDriver_NotifyScriptsDeleted(t *testing.T) {
	d, fvp := newDriverForTest()
	sc := &script.Script{}
	fvp.entries["g1"] = script.RegistryEntry{GraphID: "g1", Script: sc}
	d.Notify(viewport.Notification{Kind: viewport.NotifyScriptsUpdated, GraphIDs: []string{"g1"}})
	d.Notify(viewport.Notification{Kind: viewport.NotifyScriptsDeleted, GraphIDs: []string{"g1"}})

	if len(d.order) != 0 {
		t.Fatalf("order = %v, want empty", d.order)
	}
	if _, ok := d.scripts["g1"]; ok {
		t.Fatal("script should have been evicted")
	}
}

func TestRenderScript_DoesNotPanic(t *testing.T) {
	screen := ebiten.NewImage(64, 64)
	sc := &script.Script{Commands: []script.Command{
		{Op: script.OpPushState},
		{Op: script.OpFillColor, R: 255, G: 0, B: 0, A: 255},
		{Op: script.OpDrawRect, From: script.Point2{X: 0, Y: 0}, W: 10, H: 10},
		{Op: script.OpDrawCircle, From: script.Point2{X: 20, Y: 20}, Rad: 5},
		{Op: script.OpPopState},
	}}
	renderScript(screen, sc)
}

func TestDriver_PulseAtAdvancesAndExpires(t *testing.T) {
	d := &Driver{scripts: make(map[string]*script.Script)}
	d.PulseAt(5, 5)
	if len(d.pulses) != 1 {
		t.Fatalf("expected 1 pulse, got %d", len(d.pulses))
	}
	for i := 0; i < 30; i++ {
		d.advancePulses(1.0 / 60)
	}
	if len(d.pulses) != 0 {
		t.Fatalf("expected pulse to expire after 0.5s, got %d remaining", len(d.pulses))
	}
}
