package conifer

import "math"

// Vec3 is a 3D vector used for positions, offsets, and rotation rates
// throughout the API. Rotations are Euler angles in radians.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean norm of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dist returns the Euclidean distance between v and o.
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Lerp linearly interpolates between v and o by t.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// approach moves v toward target by the given blend factor in [0, 1].
// A factor of 0 leaves v unchanged; 1 lands exactly on target. Because
// the factor never exceeds 1, the result never overshoots.
func (v Vec3) approach(target Vec3, factor float64) Vec3 {
	return v.Lerp(target, factor)
}

// dampFactor converts a per-second damping constant k into a per-tick
// blend factor, 1 - exp(-k*dt). Unlike a plain k*dt step this is
// framerate independent: applying it over two half-ticks lands on the
// same point as one full tick.
func dampFactor(k, dt float64) float64 {
	return 1 - math.Exp(-k*dt)
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// lerp32 linearly interpolates between a and b by t (float32).
func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}
