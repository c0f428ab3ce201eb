package script

import "testing"

func TestScriptLenNilIsZero(t *testing.T) {
	var s *Script
	if s.Len() != 0 {
		t.Error("Len() on a nil Script should be 0, matching the empty-graph scenario")
	}
}

func TestScriptEqualIdentical(t *testing.T) {
	a := &Script{Commands: []Command{{Op: OpDrawRect, W: 10, H: 10}}}
	b := &Script{Commands: []Command{{Op: OpDrawRect, W: 10, H: 10}}}
	if !Equal(a, b) {
		t.Error("scripts with identical commands should be equal")
	}
}

func TestScriptEqualDiffersOnScalarField(t *testing.T) {
	a := &Script{Commands: []Command{{Op: OpDrawRect, W: 10, H: 10}}}
	b := &Script{Commands: []Command{{Op: OpDrawRect, W: 20, H: 10}}}
	if Equal(a, b) {
		t.Error("scripts differing in one scalar field should not be equal")
	}
}

func TestScriptEqualSprites(t *testing.T) {
	a := &Script{Commands: []Command{{Op: OpDrawSprites, Sprites: []SpriteDraw{{ImageID: "x"}}}}}
	b := &Script{Commands: []Command{{Op: OpDrawSprites, Sprites: []SpriteDraw{{ImageID: "x"}}}}}
	if !Equal(a, b) {
		t.Error("identical sprite payloads should be equal")
	}
	c := &Script{Commands: []Command{{Op: OpDrawSprites, Sprites: []SpriteDraw{{ImageID: "y"}}}}}
	if Equal(a, c) {
		t.Error("differing sprite payloads should not be equal")
	}
}

func TestScriptEqualGradientStops(t *testing.T) {
	a := &Script{Commands: []Command{{Op: OpFillColor, GradientStops: []GradientStopWire{{Offset: 0}, {Offset: 1}}}}}
	b := &Script{Commands: []Command{{Op: OpFillColor, GradientStops: []GradientStopWire{{Offset: 0}, {Offset: 1}}}}}
	if !Equal(a, b) {
		t.Error("identical gradient stop slices should be equal")
	}
	b.Commands[0].GradientStops = b.Commands[0].GradientStops[:1]
	if Equal(a, b) {
		t.Error("differing gradient stop counts should not be equal")
	}
}

func TestScriptEqualBlobs(t *testing.T) {
	a := &Script{Commands: []Command{{Op: OpDrawPath}}, Blobs: [][]byte{{1, 2, 3}}}
	b := &Script{Commands: []Command{{Op: OpDrawPath}}, Blobs: [][]byte{{1, 2, 3}}}
	if !Equal(a, b) {
		t.Error("identical blobs should be equal")
	}
	c := &Script{Commands: []Command{{Op: OpDrawPath}}, Blobs: [][]byte{{1, 2, 9}}}
	if Equal(a, c) {
		t.Error("differing blob bytes should not be equal")
	}
}

func TestScriptEqualNilVsEmptyScript(t *testing.T) {
	if Equal(nil, &Script{}) {
		t.Error("a nil Script should not equal a non-nil empty Script")
	}
	if !Equal(nil, nil) {
		t.Error("two nil Scripts should be equal")
	}
}
