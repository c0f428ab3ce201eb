package primitive

// StyleName enumerates the style keys a StyleSet may carry (spec.md §3).
type StyleName uint8

const (
	StyleFill StyleName = iota
	StyleStroke
	StyleStrokeWidth
	StyleFont
	StyleFontSize
	StyleTextAlign
	StyleTextBase
	StyleLineCap
	StyleLineJoin
	StyleMiterLimit
	StyleScissor
	StyleHidden
	StyleInput
)

// Scissor is a clip rectangle in local coordinates, or absent (no clip).
type Scissor struct {
	Set              bool
	X, Y, W, H       float64
}

// InputClass identifies one of the closed set of input classes a primitive
// may opt into (spec.md §4.4). InputAny matches every class.
type InputClass uint8

const (
	InputCursorButton InputClass = iota
	InputCursorPos
	InputCursorScroll
	InputKey
	InputCodepoint
	InputViewport
	InputAny
)

// StyleValue is a single style entry. Only the field matching the style's
// kind (set via the constructors below) is meaningful.
type StyleValue struct {
	Color       Color
	Number      float64
	Text        string
	Scissor     Scissor
	Bool        bool
	InputClasses []InputClass
}

// StyleSet is an inherited mapping from style name to value (spec.md §3).
// A nil or zero StyleSet has no explicit entries.
type StyleSet map[StyleName]StyleValue

// Merge returns a new StyleSet with base's entries overridden by any entry
// present in override (spec.md §3: "a child's explicit style overrides
// inherited"; spec.md §4.2 step 2: "Merge local styles over inherited").
func Merge(base, override StyleSet) StyleSet {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(StyleSet, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Equal reports whether two style sets hold the same entries. The compiler
// uses it to tell whether a primitive carries any explicit styles.
func Equal(a, b StyleSet) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok {
			return false
		}
		if v.Number != ov.Number || v.Text != ov.Text || v.Bool != ov.Bool ||
			v.Scissor != ov.Scissor || !v.Color.Equal(ov.Color) {
			return false
		}
		if len(v.InputClasses) != len(ov.InputClasses) {
			return false
		}
		for i := range v.InputClasses {
			if v.InputClasses[i] != ov.InputClasses[i] {
				return false
			}
		}
	}
	return true
}

// InputClasses returns the input classes this style set opts into, and
// whether the `input` style is present with a non-empty class list
// (spec.md §4.2 step 5).
func (s StyleSet) InputClasses() ([]InputClass, bool) {
	v, ok := s[StyleInput]
	if !ok || len(v.InputClasses) == 0 {
		return nil, false
	}
	return v.InputClasses, true
}

// Hidden reports whether the `hidden` style is set to true.
func (s StyleSet) Hidden() bool {
	return s[StyleHidden].Bool
}
