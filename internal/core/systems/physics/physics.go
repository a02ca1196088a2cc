package physics

import "math"

// Vec3 is a plain 3D vector value.
type Vec3 struct{ X, Y, Z float64 }

// V3 is a shorthand constructor.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3         { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3         { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3    { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Neg() Vec3               { return Vec3{-v.X, -v.Y, -v.Z} }
func (v Vec3) Dot(o Vec3) float64      { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64         { return math.Sqrt(v.Dot(v)) }
func (v Vec3) LengthSq() float64       { return v.Dot(v) }
func (v Vec3) Distance(o Vec3) float64 { return o.Sub(v).Length() }
func (v Vec3) IsZero() bool            { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Cross returns v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns the unit vector and true, or the zero vector and false when
// the length is not above eps.
func (v Vec3) Normalize(eps float64) (Vec3, bool) {
	l := v.Length()
	if l <= eps || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}, false
	}
	return v.Scale(1 / l), true
}

// NormalizeOr normalizes v, returning fallback when v is too short.
func (v Vec3) NormalizeOr(eps float64, fallback Vec3) Vec3 {
	if n, ok := v.Normalize(eps); ok {
		return n
	}
	return fallback
}

// ClampLength limits the vector to maxLen while keeping its direction.
func (v Vec3) ClampLength(maxLen float64) Vec3 {
	l := v.Length()
	if l <= maxLen || l == 0 {
		return v
	}
	return v.Scale(maxLen / l)
}

// Flatten drops the vertical component.
func (v Vec3) Flatten() Vec3 { return Vec3{X: v.X, Z: v.Z} }

// IsFinite reports whether every component is a real number.
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Clamp01 clamps f into [0,1].
func Clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
