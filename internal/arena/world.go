// Package arena is the headless reference world the simulation core runs in:
// sphere bodies on a flat floor, a player, a wave-spawned enemy population and
// the session loop tying them to the bus, scheduler and systems manager.
package arena

import (
	"github.com/zeusync/arena/internal/core/combat"
	"github.com/zeusync/arena/internal/core/enemy"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/projectile"
	"github.com/zeusync/arena/internal/core/schedule"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
	"github.com/zeusync/arena/internal/core/waves"
	"github.com/zeusync/arena/pkg/sequence"
)

const defaultEnemyRadius = 0.5

// WorldConfig holds the geometry and contact tuning of a World.
type WorldConfig struct {
	Floor         float64
	TouchInterval float64
	// Knockback is the push speed, m/s, applied to the player while an
	// enemy overlaps it.
	Knockback float64
}

// World owns every body. It sweeps projectiles, answers raycasts, spawns
// enemies for the orchestrator and drives their chase and contact damage on
// the fixed tick. Killed enemies stay in place, untouchable, until the end of
// the frame.
type World struct {
	cfg    WorldConfig
	bus    bus.EventBus
	sched  *schedule.Scheduler
	logger log.Log

	bodies []*Body
	byID   map[string]*Body
	doomed []*Body
	player *Player

	spawned int
	removed int
}

func NewWorld(cfg WorldConfig, b bus.EventBus, sched *schedule.Scheduler, logger log.Log) *World {
	if logger == nil {
		logger = log.NewNop()
	}
	if cfg.TouchInterval <= 0 {
		cfg.TouchInterval = combat.DefaultTouchInterval
	}
	return &World{
		cfg:    cfg,
		bus:    b,
		sched:  sched,
		logger: logger.Named("world"),
		byID:   make(map[string]*Body),
	}
}

func (w *World) Name() string               { return "world" }
func (w *World) Priority() systems.Priority { return systems.PriorityLowest }
func (w *World) Player() *Player            { return w.player }
func (w *World) Spawned() int               { return w.spawned }
func (w *World) Removed() int               { return w.removed }

// Body looks up a body by entity id.
func (w *World) Body(id string) (*Body, bool) {
	b, ok := w.byID[id]
	return b, ok
}

// Enemies returns the live enemy bodies.
func (w *World) Enemies() []*Body {
	return w.liveEnemies().Collect()
}

// Nearest returns the live enemy closest to from.
func (w *World) Nearest(from physics.Vec3) (*Body, bool) {
	return sequence.MinBy(w.liveEnemies(), func(b *Body) float64 { return b.position.SqrDist(from) })
}

func (w *World) liveEnemies() *sequence.Iterator[*Body] {
	return sequence.From(w.bodies).Filter(func(b *Body) bool { return b.layer == LayerEnemy && b.Alive() })
}

func (w *World) add(b *Body) {
	w.bodies = append(w.bodies, b)
	w.byID[b.id] = b
}

// attachPlayer registers the player body.
func (w *World) attachPlayer(p *Player) {
	w.player = p
	w.add(p.body)
}

// Spawn instantiates an enemy of archetype standing at `at` and hunting target.
func (w *World) Spawn(arch enemy.Archetype, at physics.Vec3, target waves.Target) (string, error) {
	radius := arch.Radius
	if radius <= 0 {
		radius = defaultEnemyRadius
	}
	id := enemy.NewID(arch.ID)
	b := &Body{
		id:        id,
		archetype: arch.ID,
		layer:     LayerEnemy,
		position:  at.Add(physics.V3(0, radius, 0)),
		radius:    radius,
		health:    combat.NewHealth(id, arch.HP, w.bus),
		weakSpots: append([]enemy.WeakSpotSpec(nil), arch.WeakSpots...),
	}
	b.chaser = enemy.NewChaser(b, target, &b.stun, arch.MoveSpeed)
	victim := ""
	if target != nil {
		victim = target.EntityID()
	}
	b.touch = combat.NewTouchDamage(b.health, arch.TouchDamage, w.cfg.TouchInterval, victim)
	b.health.OnDeath(func(killerID string) { w.kill(b, killerID) })
	w.add(b)
	w.spawned++
	w.logger.Debug("enemy spawned", log.String("id", id), log.Float64("x", at.X), log.Float64("z", at.Z))
	return id, nil
}

func (w *World) kill(b *Body, killerID string) {
	if b.removed {
		return
	}
	w.doomed = append(w.doomed, b)
	w.logger.Debug("enemy killed", log.String("id", b.id), log.String("killer", killerID))
}

// Despawn schedules b for removal at the end of the frame.
func (w *World) Despawn(id string) {
	if b, ok := w.byID[id]; ok && b.layer == LayerEnemy {
		w.kill(b, "")
	}
}

// Sweep implements projectile.Collider against every live body and the floor.
func (w *World) Sweep(from, to physics.Vec3, radius float64) (projectile.Contact, bool) {
	best := 2.0
	var out projectile.Contact
	for _, b := range w.bodies {
		if !b.Alive() {
			continue
		}
		if t, c, ok := b.sweep(from, to, radius); ok && t < best {
			best, out = t, c
		}
	}
	if from.Y > w.cfg.Floor && to.Y <= w.cfg.Floor {
		if t := (from.Y - w.cfg.Floor) / (from.Y - to.Y); t < best {
			best = t
			out = projectile.Contact{
				Point:    from.Lerp(to, t),
				Normal:   physics.Up,
				HasPoint: true,
				Layer:    LayerWorld,
			}
		}
	}
	return out, best <= 1
}

// Raycast implements weapon.Raycaster.
func (w *World) Raycast(origin, dir physics.Vec3, maxDistance float64) (projectile.Contact, bool) {
	return w.Sweep(origin, origin.Add(dir.Normalized().Scale(maxDistance)), 0)
}

// FixedUpdate moves the enemies and applies contact damage and knockback.
func (w *World) FixedUpdate(t systems.Tick) {
	p := w.player
	for _, b := range w.bodies {
		if b.layer != LayerEnemy || !b.Alive() {
			continue
		}
		b.chaser.FixedTick(t.Now, t.Delta)
		if p == nil {
			continue
		}
		if !p.Alive() || !b.overlaps(p.body) {
			b.touch.Exit(p.health)
			continue
		}
		b.touch.Stay(t.Now, p.health)
		away := p.body.position.Sub(b.position).Horizontal()
		if away.SqrLen() < 1e-8 {
			away = physics.Forward
		}
		p.Push(away.Normalized().Scale(w.cfg.Knockback * t.Delta))
	}
}

// Update removes the enemies killed this frame. It runs after every other
// system.
func (w *World) Update(systems.Tick) {
	w.flush()
}

func (w *World) flush() {
	if len(w.doomed) == 0 {
		return
	}
	for _, b := range w.doomed {
		if b.removed {
			continue
		}
		b.removed = true
		b.touch.Clear()
		cancelled := 0
		if w.sched != nil {
			cancelled = w.sched.CancelOwner(b.id)
		}
		delete(w.byID, b.id)
		w.removed++
		w.logger.Debug("enemy removed", log.String("id", b.id), log.Int("timers_cancelled", cancelled))
	}
	w.doomed = w.doomed[:0]

	live := w.bodies[:0]
	for _, b := range w.bodies {
		if !b.removed {
			live = append(live, b)
		}
	}
	clear(w.bodies[len(live):])
	w.bodies = live
}
