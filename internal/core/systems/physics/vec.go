package physics

import "math"

// Vec3 is a world-space vector. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

var (
	Zero    = Vec3{}
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
	Right   = Vec3{X: 1}
)

func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3        { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3        { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3   { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Neg() Vec3              { return Vec3{-v.X, -v.Y, -v.Z} }
func (v Vec3) Dot(o Vec3) float64     { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) SqrLen() float64        { return v.Dot(v) }
func (v Vec3) Len() float64           { return math.Sqrt(v.SqrLen()) }
func (v Vec3) Horizontal() Vec3       { return Vec3{v.X, 0, v.Z} }
func (v Vec3) WithY(y float64) Vec3   { return Vec3{v.X, y, v.Z} }
func (v Vec3) Dist(o Vec3) float64    { return v.Sub(o).Len() }
func (v Vec3) SqrDist(o Vec3) float64 { return v.Sub(o).SqrLen() }

// Normalized returns the unit vector, or zero for a (near) zero vector.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Zero
	}
	return v.Scale(1 / l)
}

// ClampLen shortens v to at most maxLen, keeping its direction.
func (v Vec3) ClampLen(maxLen float64) Vec3 {
	sq := v.SqrLen()
	if sq > maxLen*maxLen {
		return v.Scale(maxLen / math.Sqrt(sq))
	}
	return v
}

// Lerp interpolates between v and o by t in [0,1].
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

// FromYawPitch returns the unit forward vector for a yaw around +Y and a pitch
// around the local right axis, both in degrees. Positive pitch looks down.
func FromYawPitch(yawDeg, pitchDeg float64) Vec3 {
	yaw := yawDeg * math.Pi / 180
	pitch := pitchDeg * math.Pi / 180
	cp := math.Cos(pitch)
	return Vec3{
		X: math.Sin(yaw) * cp,
		Y: -math.Sin(pitch),
		Z: math.Cos(yaw) * cp,
	}
}

// YawTowards returns the yaw in degrees that faces dir on the horizontal plane.
func YawTowards(dir Vec3) float64 {
	return math.Atan2(dir.X, dir.Z) * 180 / math.Pi
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
