package projectile

import (
	"github.com/zeusync/arena/internal/core/combat"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// Projectile is a pooled ballistic round. Its pool key never changes once
// the instance is created.
type Projectile struct {
	poolKey   uint64
	prototype string

	ownerID     string
	ownerHealth *combat.Health
	damage      int
	radius      float64

	spawnPosition physics.Vec3
	spawnTime     float64
	expireTime    float64
	position      physics.Vec3
	velocity      physics.Vec3

	ballistics Ballistics
	active     bool
	queued     bool
	resolved   bool
	slot       int
}

func (p *Projectile) PoolKey() uint64             { return p.poolKey }
func (p *Projectile) Prototype() string           { return p.prototype }
func (p *Projectile) OwnerID() string             { return p.ownerID }
func (p *Projectile) Damage() int                 { return p.damage }
func (p *Projectile) Position() physics.Vec3      { return p.position }
func (p *Projectile) Velocity() physics.Vec3      { return p.velocity }
func (p *Projectile) SpawnPosition() physics.Vec3 { return p.spawnPosition }
func (p *Projectile) SpawnTime() float64          { return p.spawnTime }
func (p *Projectile) ExpireTime() float64         { return p.expireTime }
func (p *Projectile) Active() bool                { return p.active }
func (p *Projectile) Ballistics() Ballistics      { return p.ballistics }
func (p *Projectile) Flown() float64              { return p.position.Dist(p.spawnPosition) }
func (p *Projectile) Elapsed(now float64) float64 { return now - p.spawnTime }

// ownedBy reports whether h belongs to the entity that fired p.
func (p *Projectile) ownedBy(h *combat.Health) bool {
	if h == nil {
		return false
	}
	return h == p.ownerHealth || (p.ownerID != "" && h.EntityID() == p.ownerID)
}

// reset clears per-flight state so a recycled instance carries nothing over.
func (p *Projectile) reset() {
	key, proto := p.poolKey, p.prototype
	*p = Projectile{poolKey: key, prototype: proto, slot: -1}
}
