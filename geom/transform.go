// Package geom holds the affine-matrix and axis-aligned-bounding-box math
// shared by the primitive and script packages, kept separate so neither of
// those needs to import the other.
package geom

import "math"

// Matrix is a 2D affine matrix in [a, b, c, d, tx, ty] layout:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// Adapted from the teacher's node transform composition (willow's
// computeLocalTransform/multiplyAffine): same right-to-left composition,
// generalized from Node's pivot/skew fields to the spec's optional
// translate/scale/rotate/pin/explicit-matrix components.
type Matrix [6]float64

// Identity is the absent-transform matrix.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Transform holds the optional affine components a graph author may set on
// a primitive. Any subset may be present; absent components behave as the
// identity for that component. An explicit Matrix, if set, is used verbatim
// and the other fields are ignored.
type Transform struct {
	HasTranslate bool
	Dx, Dy       float64

	HasScale     bool
	Sx, Sy       float64

	HasRotate bool
	Radians   float64

	HasPin bool
	Px, Py float64

	HasMatrix bool
	Explicit  Matrix
}

// IsIdentity reports whether the transform has no components set, meaning
// it contributes nothing to the cumulative matrix (spec.md §3: "Identity is
// absent transform").
func (t Transform) IsIdentity() bool {
	return !t.HasTranslate && !t.HasScale && !t.HasRotate && !t.HasPin && !t.HasMatrix
}

// Compile collapses the optional components into a single 3x3 affine matrix,
// composed pin -> scale -> rotate -> translate (pin relocates the origin
// scale/rotate are applied around, mirroring the teacher's pivot handling).
func (t Transform) Compile() Matrix {
	if t.HasMatrix {
		return t.Explicit
	}
	if t.IsIdentity() {
		return Identity
	}

	sx, sy := 1.0, 1.0
	if t.HasScale {
		sx, sy = t.Sx, t.Sy
	}
	px, py := 0.0, 0.0
	if t.HasPin {
		px, py = t.Px, t.Py
	}

	a, b, c, d := sx, 0.0, 0.0, sy
	preTx, preTy := -px*sx, -py*sy

	if t.HasRotate {
		sin, cos := math.Sincos(t.Radians)
		ra := cos*a - sin*b
		rb := sin*a + cos*b
		rc := cos*c - sin*d
		rd := sin*c + cos*d
		rtx := cos*preTx - sin*preTy
		rty := sin*preTx + cos*preTy
		a, b, c, d = ra, rb, rc, rd
		preTx, preTy = rtx, rty
	}

	dx, dy := 0.0, 0.0
	if t.HasTranslate {
		dx, dy = t.Dx, t.Dy
	}
	return Matrix{a, b, c, d, preTx + dx, preTy + dy}
}

// Multiply composes parent ∘ child (spec.md §4.2 step 1: "right-to-left
// composition: parent ∘ local").
func Multiply(parent, child Matrix) Matrix {
	return Matrix{
		parent[0]*child[0] + parent[2]*child[1],
		parent[1]*child[0] + parent[3]*child[1],
		parent[0]*child[2] + parent[2]*child[3],
		parent[1]*child[2] + parent[3]*child[3],
		parent[0]*child[4] + parent[2]*child[5] + parent[4],
		parent[1]*child[4] + parent[3]*child[5] + parent[5],
	}
}

// Invert computes the inverse of an affine matrix. Singular matrices invert
// to Identity; callers that need to detect singularity should check the
// determinant themselves before calling Invert.
func Invert(m Matrix) Matrix {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms a point by the affine matrix.
func Apply(m Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// AABB is an axis-aligned bounding box in a shape's local or screen space.
type AABB struct {
	Left, Top, Width, Height float64
}

// Contains reports whether (x, y) lies within the box, inclusive of edges.
func (b AABB) Contains(x, y float64) bool {
	return x >= b.Left && x <= b.Left+b.Width && y >= b.Top && y <= b.Top+b.Height
}

// TransformAABB applies an affine matrix to an axis-aligned box and returns
// the axis-aligned bounding box of the four transformed corners (spec.md
// §3: "screen_bounds is that AABB transformed by the cumulative affine").
func TransformAABB(m Matrix, b AABB) AABB {
	xs := [4]float64{}
	ys := [4]float64{}
	corners := [4][2]float64{
		{b.Left, b.Top}, {b.Left + b.Width, b.Top},
		{b.Left, b.Top + b.Height}, {b.Left + b.Width, b.Top + b.Height},
	}
	for i, c := range corners {
		xs[i], ys[i] = Apply(m, c[0], c[1])
	}
	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < 4; i++ {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}
	return AABB{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}
