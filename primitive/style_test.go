package primitive

import "testing"

func TestMergeOverridesBase(t *testing.T) {
	base := StyleSet{StyleFill: {Color: RGB(255, 0, 0)}}
	override := StyleSet{StyleFill: {Color: RGB(0, 255, 0)}, StyleStrokeWidth: {Number: 2}}
	merged := Merge(base, override)
	if !merged[StyleFill].Color.Equal(RGB(0, 255, 0)) {
		t.Error("override should win over base for the same key")
	}
	if merged[StyleStrokeWidth].Number != 2 {
		t.Error("override-only keys should carry through")
	}
}

func TestMergeEmptyIsNil(t *testing.T) {
	if Merge(nil, nil) != nil {
		t.Error("merging two empty sets should yield nil, not an empty map")
	}
}

func TestStyleEqual(t *testing.T) {
	a := StyleSet{StyleFill: {Color: RGB(1, 2, 3)}, StyleInput: {InputClasses: []InputClass{InputCursorButton}}}
	b := StyleSet{StyleFill: {Color: RGB(1, 2, 3)}, StyleInput: {InputClasses: []InputClass{InputCursorButton}}}
	if !Equal(a, b) {
		t.Error("structurally identical style sets should compare equal")
	}
	c := StyleSet{StyleFill: {Color: RGB(9, 9, 9)}}
	if Equal(a, c) {
		t.Error("different fill colors should not compare equal")
	}
}

func TestStyleSetInputClasses(t *testing.T) {
	s := StyleSet{StyleInput: {InputClasses: []InputClass{InputCursorButton, InputKey}}}
	classes, ok := s.InputClasses()
	if !ok || len(classes) != 2 {
		t.Fatalf("InputClasses() = %v, %v", classes, ok)
	}
	if _, ok := StyleSet(nil).InputClasses(); ok {
		t.Error("a style set with no input entry should report ok=false")
	}
}

func TestStyleSetHidden(t *testing.T) {
	s := StyleSet{StyleHidden: {Bool: true}}
	if !s.Hidden() {
		t.Error("Hidden() should reflect the hidden style's bool value")
	}
	if StyleSet(nil).Hidden() {
		t.Error("a nil style set should not be hidden")
	}
}
