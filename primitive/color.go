// Package primitive defines the drawable shape model: colors, transforms,
// style sets, and the tagged Primitive union the graph is built from.
package primitive

// ColorKind tags which variant of Color is populated.
type ColorKind uint8

const (
	ColorNone          ColorKind = iota // absent / inherit
	ColorNamed                          // a well-known constant name, e.g. "white"
	ColorRGB                            // opaque RGB triple
	ColorRGBA                           // RGBA quadruple
	ColorLinearGradient
	ColorRadialGradient
	ColorBoxGradient
)

// GradientStop is one color stop in a gradient descriptor.
type GradientStop struct {
	Offset float64 // 0..1 along the gradient
	Color  Color   // must itself be RGB/RGBA/Named, not a nested gradient
}

// Color is a tagged union over the color forms named in spec.md §3.
// Equality is structural: two Colors are equal when their Kind and the
// fields relevant to that Kind are equal, field for field.
type Color struct {
	Kind ColorKind

	Name string // ColorNamed

	R, G, B, A uint8 // ColorRGB (A implied 255) / ColorRGBA

	// Gradient descriptors. From/To are endpoints in local coordinates;
	// for ColorRadialGradient they are centers with Radius as the extent.
	FromX, FromY, ToX, ToY float64
	Radius                 float64
	Stops                  []GradientStop
}

// Equal reports whether c and other are structurally identical.
func (c Color) Equal(other Color) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case ColorNone:
		return true
	case ColorNamed:
		return c.Name == other.Name
	case ColorRGB, ColorRGBA:
		return c.R == other.R && c.G == other.G && c.B == other.B && c.A == other.A
	case ColorLinearGradient, ColorRadialGradient, ColorBoxGradient:
		if c.FromX != other.FromX || c.FromY != other.FromY ||
			c.ToX != other.ToX || c.ToY != other.ToY || c.Radius != other.Radius {
			return false
		}
		if len(c.Stops) != len(other.Stops) {
			return false
		}
		for i, s := range c.Stops {
			o := other.Stops[i]
			if s.Offset != o.Offset || !s.Color.Equal(o.Color) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// RGBA builds an RGBA color with an explicit alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{Kind: ColorRGBA, R: r, G: g, B: b, A: a}
}

// RGB builds an opaque RGB color (alpha = 255).
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b, A: 255}
}

// Named builds a color referencing a theme/constant name resolved by the driver.
func Named(name string) Color {
	return Color{Kind: ColorNamed, Name: name}
}
