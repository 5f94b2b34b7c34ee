package physics

import "math"

// Bounds is an axis-aligned box given by center and full size.
type Bounds struct {
	Center Vec3
	Size   Vec3
}

func (b Bounds) Min() Vec3 { return b.Center.Sub(b.Size.Scale(0.5)) }
func (b Bounds) Max() Vec3 { return b.Center.Add(b.Size.Scale(0.5)) }

// Contains reports whether p lies inside or on the box.
func (b Bounds) Contains(p Vec3) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

// SegmentSphere returns the earliest fraction t in [0,1] at which the segment
// from a to b touches the sphere, and whether it does at all. A segment that
// starts inside the sphere hits at t=0.
func SegmentSphere(a, b, center Vec3, radius float64) (float64, bool) {
	d := b.Sub(a)
	m := a.Sub(center)
	c := m.SqrLen() - radius*radius
	if c <= 0 {
		return 0, true
	}
	dd := d.SqrLen()
	if dd < 1e-12 {
		return 0, false
	}
	bq := m.Dot(d)
	if bq > 0 {
		return 0, false
	}
	disc := bq*bq - dd*c
	if disc < 0 {
		return 0, false
	}
	t := (-bq - math.Sqrt(disc)) / dd
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}
