package arena

import (
	"github.com/zeusync/arena/internal/core/combat"
	"github.com/zeusync/arena/internal/core/enemy"
	"github.com/zeusync/arena/internal/core/projectile"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// Collision layers of the headless world.
const (
	LayerWorld projectile.Layer = iota
	LayerPlayer
	LayerEnemy
)

// Body is a sphere collider in the world. Enemies carry weak spots, a stun
// timer, a chaser and contact damage; the player body only carries health.
type Body struct {
	id        string
	archetype string
	layer     projectile.Layer
	position  physics.Vec3
	radius    float64

	health    *combat.Health
	stun      combat.Stunnable
	weakSpots []enemy.WeakSpotSpec
	chaser    *enemy.Chaser
	touch     *combat.TouchDamage
	removed   bool
}

func (b *Body) ID() string                 { return b.id }
func (b *Body) Archetype() string          { return b.archetype }
func (b *Body) Layer() projectile.Layer    { return b.layer }
func (b *Body) Position() physics.Vec3     { return b.position }
func (b *Body) SetPosition(p physics.Vec3) { b.position = p }
func (b *Body) Radius() float64            { return b.radius }
func (b *Body) Health() *combat.Health     { return b.health }
func (b *Body) Stun() *combat.Stunnable    { return &b.stun }
func (b *Body) Chaser() *enemy.Chaser      { return b.chaser }

// Alive reports whether the body can still be struck.
func (b *Body) Alive() bool {
	return !b.removed && (b.health == nil || !b.health.IsDead())
}

// sweep returns the earliest contact of a sphere of radius moving from -> to
// against this body. Weak spots win ties with the body sphere.
func (b *Body) sweep(from, to physics.Vec3, radius float64) (float64, projectile.Contact, bool) {
	best := 2.0
	var out projectile.Contact
	for i := range b.weakSpots {
		ws := &b.weakSpots[i]
		center := b.position.Add(ws.Offset)
		t, ok := physics.SegmentSphere(from, to, center, ws.Radius+radius)
		if !ok || t >= best {
			continue
		}
		best = t
		out = b.contact(from.Lerp(to, t), center)
		out.WeakSpot = &ws.WeakSpot
	}
	if t, ok := physics.SegmentSphere(from, to, b.position, b.radius+radius); ok && t < best {
		best = t
		out = b.contact(from.Lerp(to, t), b.position)
	}
	return best, out, best <= 1
}

func (b *Body) contact(point, center physics.Vec3) projectile.Contact {
	c := projectile.Contact{
		Point:    point,
		Normal:   point.Sub(center).Normalized(),
		HasPoint: true,
		Layer:    b.layer,
		Health:   b.health,
	}
	if b.layer == LayerEnemy {
		c.Stunnable = &b.stun
	}
	return c
}

// overlaps reports sphere-sphere intersection.
func (b *Body) overlaps(o *Body) bool {
	r := b.radius + o.radius
	return b.position.SqrDist(o.position) < r*r
}
