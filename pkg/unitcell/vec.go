// 2 Feb 2026
// Small fixed-size linear algebra for crystallographic transforms.
// Everything is double precision. The matrices are tiny (3x3), so we
// write the inverses out by hand rather than pull in a general library.

package unitcell

import "math"

// Vec3 is a point or direction with double precision components.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// LengthSq is the squared length. We compare distances squared and
// only take the root when somebody asks for a real distance.
func (v Vec3) LengthSq() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// DistSq is the squared distance between two points.
func (v Vec3) DistSq(o Vec3) float64 { return v.Sub(o).LengthSq() }

// Approx says whether two vectors agree within eps on each component.
func (v Vec3) Approx(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps &&
		math.Abs(v.Y-o.Y) <= eps &&
		math.Abs(v.Z-o.Z) <= eps
}

// Mat33 is a row-major 3x3 matrix.
type Mat33 [3][3]float64

func identityMat() Mat33 {
	return Mat33{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// MultVec applies the matrix to a column vector.
func (m Mat33) MultVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul is the matrix product m times o.
func (m Mat33) Mul(o Mat33) Mat33 {
	var out Mat33
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return out
}

// Approx says whether two matrices agree within eps on each element.
func (m Mat33) Approx(o Mat33, eps float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m[i][j]-o[i][j]) > eps {
				return false
			}
		}
	}
	return true
}

// Det is the determinant.
func (m Mat33) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse is the closed-form inverse (adjugate over determinant).
// A singular matrix gives you infinities, not a panic. The caller
// knows whether the matrix could be singular.
func (m Mat33) Inverse() Mat33 {
	d := m.Det()
	var inv Mat33
	inv[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) / d
	inv[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) / d
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) / d
	inv[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) / d
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) / d
	inv[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) / d
	inv[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) / d
	inv[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) / d
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) / d
	return inv
}

// Transform is an affine map, x -> Mat x + Vec. Being built from arrays
// it is comparable, which we use to test against the identity.
type Transform struct {
	Mat Mat33
	Vec Vec3
}

// Identity returns the do-nothing transform.
func Identity() Transform { return Transform{Mat: identityMat()} }

// Apply maps a point through the transform.
func (t Transform) Apply(v Vec3) Vec3 { return t.Mat.MultVec(v).Add(t.Vec) }

// Inverse returns the inverse affine map.
func (t Transform) Inverse() Transform {
	inv := t.Mat.Inverse()
	v := inv.MultVec(t.Vec)
	return Transform{Mat: inv, Vec: Vec3{-v.X, -v.Y, -v.Z}}
}

// Combine composes two transforms, so t.Combine(o).Apply(x) equals
// t.Apply(o.Apply(x)).
func (t Transform) Combine(o Transform) Transform {
	return Transform{Mat: t.Mat.Mul(o.Mat), Vec: t.Apply(o.Vec)}
}

// Position is a point in orthogonal (Angstrom) coordinates.
type Position struct {
	X, Y, Z float64
}

func (p Position) Sub(o Position) Position {
	return Position{p.X - o.X, p.Y - o.Y, p.Z - o.Z}
}

func (p Position) DistSq(o Position) float64 { return Vec3(p).DistSq(Vec3(o)) }

// Fractional is a point in fractions of the cell edges. Keeping it as
// its own type means you cannot feed orthogonal coordinates to a
// function wanting fractional ones.
type Fractional struct {
	X, Y, Z float64
}

func (f Fractional) Sub(o Fractional) Fractional {
	return Fractional{f.X - o.X, f.Y - o.Y, f.Z - o.Z}
}

// WrapToUnit moves each component into [0,1).
func (f Fractional) WrapToUnit() Fractional {
	f.X -= math.Floor(f.X)
	f.Y -= math.Floor(f.Y)
	f.Z -= math.Floor(f.Z)
	return f
}

// MoveTowardZeroByOne shifts components in (0.5,1] or [-1,-0.5) by one
// cell, so the point ends up in the box nearest the origin.
func (f Fractional) MoveTowardZeroByOne() Fractional {
	if f.X > 0.5 {
		f.X -= 1.0
	} else if f.X < -0.5 {
		f.X += 1.0
	}
	if f.Y > 0.5 {
		f.Y -= 1.0
	} else if f.Y < -0.5 {
		f.Y += 1.0
	}
	if f.Z > 0.5 {
		f.Z -= 1.0
	} else if f.Z < -0.5 {
		f.Z += 1.0
	}
	return f
}

// FTransform is a Transform whose Apply wants fractional coordinates,
// for the same type safety reason as Fractional itself.
type FTransform Transform

func (t FTransform) Apply(f Fractional) Fractional {
	return Fractional(Transform(t).Apply(Vec3(f)))
}

func iround(x float64) int { return int(math.Round(x)) }
