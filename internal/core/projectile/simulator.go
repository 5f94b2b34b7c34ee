// Package projectile simulates pooled ballistic rounds: launch, delayed
// gravity on the fixed tick, swept collision and layered despawn.
package projectile

import (
	"github.com/zeusync/arena/internal/core/combat"
	"github.com/zeusync/arena/internal/core/fx"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// DefaultGravity is the ambient gravity in m/s².
var DefaultGravity = physics.V3(0, -9.81, 0)

// Contact describes what a swept projectile struck.
type Contact struct {
	Point    physics.Vec3
	Normal   physics.Vec3
	HasPoint bool
	Layer    Layer

	Health    *combat.Health
	WeakSpot  *combat.WeakSpot
	Stunnable *combat.Stunnable
}

// Collider sweeps a sphere of radius from one point to another and reports
// the first contact.
type Collider interface {
	Sweep(from, to physics.Vec3, radius float64) (Contact, bool)
}

// LaunchRequest carries everything a weapon decides about a shot.
type LaunchRequest struct {
	Prototype   string
	OwnerID     string
	OwnerHealth *combat.Health
	Damage      int
	Position    physics.Vec3
	Velocity    physics.Vec3
	Lifetime    float64
	Radius      float64
}

// DespawnReason says why a projectile left the simulation.
type DespawnReason uint8

const (
	DespawnExpired DespawnReason = iota
	DespawnDistance
	DespawnBounds
	DespawnMasked
	DespawnImpact
	DespawnHit
	DespawnCleared
	despawnReasons
)

func (r DespawnReason) String() string {
	switch r {
	case DespawnExpired:
		return "expired"
	case DespawnDistance:
		return "distance"
	case DespawnBounds:
		return "bounds"
	case DespawnMasked:
		return "masked"
	case DespawnImpact:
		return "impact"
	case DespawnHit:
		return "hit"
	case DespawnCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Stats counts launches and despawns by reason.
type Stats struct {
	Launched  uint64
	Despawned [despawnReasons]uint64
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithGravity overrides DefaultGravity.
func WithGravity(g physics.Vec3) Option {
	return func(s *Simulator) { s.gravity = g }
}

// WithDefaultBallistics sets the tuning used by prototypes without their own.
func WithDefaultBallistics(b Ballistics) Option {
	return func(s *Simulator) { s.fallback = b.normalized() }
}

// WithBallistics sets the tuning of one prototype.
func WithBallistics(prototype string, b Ballistics) Option {
	return func(s *Simulator) { s.ballistics[prototype] = b.normalized() }
}

// Simulator advances every active projectile. It is a systems.System: the
// variable tick runs despawn checks, the fixed tick applies gravity and moves
// projectiles through the Collider.
type Simulator struct {
	pool     *Pool
	collider Collider
	effects  fx.Effects
	logger   log.Log

	gravity    physics.Vec3
	fallback   Ballistics
	ballistics map[string]Ballistics

	active  []*Projectile
	scratch []*Projectile
	stats   Stats
}

func NewSimulator(pool *Pool, collider Collider, effects fx.Effects, logger log.Log, opts ...Option) *Simulator {
	if pool == nil {
		pool = NewPool()
	}
	if logger == nil {
		logger = log.NewNop()
	}
	s := &Simulator{
		pool:       pool,
		collider:   collider,
		effects:    fx.EffectsOrNop(effects),
		logger:     logger.Named("projectile"),
		gravity:    DefaultGravity,
		fallback:   DefaultBallistics().normalized(),
		ballistics: make(map[string]Ballistics),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Name() string               { return "projectiles" }
func (s *Simulator) Priority() systems.Priority { return systems.PriorityNormal }
func (s *Simulator) Pool() *Pool                { return s.pool }
func (s *Simulator) ActiveCount() int           { return len(s.active) }
func (s *Simulator) Stats() Stats               { return s.stats }

// SetCollider swaps the collision world; nil disables collisions.
func (s *Simulator) SetCollider(c Collider) { s.collider = c }

// Active returns a snapshot of the projectiles in flight.
func (s *Simulator) Active() []*Projectile {
	out := make([]*Projectile, len(s.active))
	copy(out, s.active)
	return out
}

// BallisticsFor returns the tuning applied to prototype.
func (s *Simulator) BallisticsFor(prototype string) Ballistics {
	if b, ok := s.ballistics[prototype]; ok {
		return b
	}
	return s.fallback
}

// Launch takes a projectile from the pool and puts it in flight at now.
func (s *Simulator) Launch(now float64, req LaunchRequest) *Projectile {
	p := s.pool.Acquire(req.Prototype)
	p.ownerID = req.OwnerID
	p.ownerHealth = req.OwnerHealth
	p.damage = max(0, req.Damage)
	p.radius = max(0, req.Radius)
	p.spawnPosition = req.Position
	p.position = req.Position
	p.spawnTime = now
	p.expireTime = now + max(minLifetime, req.Lifetime)
	p.velocity = req.Velocity
	p.ballistics = s.BallisticsFor(req.Prototype)
	p.resolved = false
	p.active = true

	p.slot = len(s.active)
	s.active = append(s.active, p)
	s.stats.Launched++
	return p
}

// Update despawns projectiles that expired, flew too far, or left the world
// bounds, in that order of precedence.
func (s *Simulator) Update(t systems.Tick) {
	for _, p := range s.snapshot() {
		if !p.active {
			continue
		}
		if reason, gone := s.despawnCheck(p, t.Now); gone {
			s.despawn(p, reason)
		}
	}
}

func (s *Simulator) despawnCheck(p *Projectile, now float64) (DespawnReason, bool) {
	if now >= p.expireTime {
		return DespawnExpired, true
	}
	maxTravel := p.ballistics.MaxTravelDistance
	if p.position.SqrDist(p.spawnPosition) >= maxTravel*maxTravel {
		return DespawnDistance, true
	}
	if p.ballistics.UseWorldBounds && !p.ballistics.Bounds.Contains(p.position) {
		return DespawnBounds, true
	}
	return 0, false
}

// FixedUpdate applies delayed gravity then moves each projectile, resolving
// the first contact along its path.
func (s *Simulator) FixedUpdate(t systems.Tick) {
	for _, p := range s.snapshot() {
		if !p.active {
			continue
		}
		p.velocity = p.velocity.Add(p.ballistics.gravityDelta(s.gravity, p.Flown(), p.Elapsed(t.Now), t.Delta))

		from := p.position
		to := from.Add(p.velocity.Scale(t.Delta))
		if s.collider != nil {
			if c, hit := s.collider.Sweep(from, to, p.radius); hit {
				s.resolve(p, c, t.Now)
				continue
			}
		}
		p.position = to
	}
}

// resolve handles one contact. A projectile responds to at most one.
func (s *Simulator) resolve(p *Projectile, c Contact, now float64) {
	if p.resolved {
		return
	}
	p.resolved = true
	b := p.ballistics

	if !b.HitMask.Has(c.Layer) {
		s.despawn(p, DespawnMasked)
		return
	}

	point, normal := c.Point, c.Normal
	if !c.HasPoint {
		point = p.position
		normal = p.velocity.Normalized().Neg()
	}
	if c.HasPoint {
		p.position = point
	}

	if c.Health == nil || p.ownedBy(c.Health) {
		s.spawnEffect(b.ImpactEffect, point, normal)
		s.despawn(p, DespawnImpact)
		return
	}

	damage := p.damage
	if c.WeakSpot != nil {
		damage = c.WeakSpot.Apply(damage)
		if c.WeakSpot.Stuns() && c.Stunnable != nil {
			c.Stunnable.Stun(now, c.WeakSpot.StunDuration)
		}
	}
	c.Health.TakeDamage(max(0, damage), p.ownerID)
	s.spawnEffect(b.DamageEffect, point, normal)
	s.despawn(p, DespawnHit)
}

func (s *Simulator) spawnEffect(prototype string, point, normal physics.Vec3) {
	if prototype == "" {
		return
	}
	s.effects.Spawn(prototype, point, normal)
}

// Despawn removes p from flight and returns it to the pool. Inactive
// projectiles are ignored.
func (s *Simulator) Despawn(p *Projectile) {
	if p == nil || !p.active {
		return
	}
	s.despawn(p, DespawnCleared)
}

// Clear despawns everything in flight.
func (s *Simulator) Clear() {
	for _, p := range s.snapshot() {
		if p.active {
			s.despawn(p, DespawnCleared)
		}
	}
}

func (s *Simulator) despawn(p *Projectile, reason DespawnReason) {
	last := len(s.active) - 1
	if p.slot >= 0 && p.slot <= last && s.active[p.slot] == p {
		moved := s.active[last]
		s.active[p.slot] = moved
		moved.slot = p.slot
		s.active[last] = nil
		s.active = s.active[:last]
	}
	s.stats.Despawned[reason]++
	if s.logger.Enabled(log.LevelDebug) {
		s.logger.Debug("projectile despawned",
			log.String("prototype", p.prototype),
			log.String("reason", reason.String()),
			log.Float64("flown", p.Flown()),
		)
	}
	s.pool.Release(p)
}

// snapshot copies the active list so despawns during iteration are safe.
func (s *Simulator) snapshot() []*Projectile {
	s.scratch = append(s.scratch[:0], s.active...)
	return s.scratch
}
