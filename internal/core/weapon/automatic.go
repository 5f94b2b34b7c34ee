package weapon

import (
	"github.com/zeusync/arena/internal/core/fx"
	"github.com/zeusync/arena/internal/core/input"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/projectile"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

type FireMode uint8

const (
	FireProjectile FireMode = iota
	FireHitscan
)

// minFireRate keeps the shot interval finite.
const minFireRate = 0.01

// AutoConfig tunes a hold-to-fire weapon.
type AutoConfig struct {
	Mode     FireMode
	FireRate float64 // shots per second

	Damage int

	// projectile mode
	Prototype string
	Speed     float64
	Lifetime  float64
	Radius    float64

	// hitscan mode
	Range float64
}

func DefaultProjectileGun() AutoConfig {
	return AutoConfig{Mode: FireProjectile, FireRate: 9, Damage: 2, Prototype: "gun.round", Speed: 45, Lifetime: 2, Radius: 0.05}
}

func DefaultHitscanGun() AutoConfig {
	return AutoConfig{Mode: FireHitscan, FireRate: 8, Damage: 3, Range: 60}
}

// Automatic fires continuously while the trigger is held, at most FireRate
// times per second.
type Automatic struct {
	cfg     AutoConfig
	ownerID string
	opts    options
	logger  log.Log

	nextShot float64
	shots    uint64
	hits     uint64
}

func NewAutomatic(ownerID string, cfg AutoConfig, logger log.Log, opts ...Option) *Automatic {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Automatic{
		cfg:     cfg,
		ownerID: ownerID,
		opts:    collect(opts),
		logger:  logger.Named("weapon").With(log.String("owner", ownerID)),
	}
}

func (a *Automatic) Shots() uint64      { return a.shots }
func (a *Automatic) Hits() uint64       { return a.hits }
func (a *Automatic) Config() AutoConfig { return a.cfg }

// Interval is the time between shots.
func (a *Automatic) Interval() float64 { return 1 / max(minFireRate, a.cfg.FireRate) }

func (a *Automatic) Tick(t systems.Tick, in input.Frame) {
	if in.FireHeld {
		a.Fire(t.Now)
	}
}

// Fire shoots if the fire-rate gate allows it and reports whether it did.
func (a *Automatic) Fire(now float64) bool {
	if now < a.nextShot {
		return false
	}
	a.nextShot = now + a.Interval()
	a.shots++

	if a.opts.muzzle == nil {
		return true
	}
	origin := a.opts.muzzle.MuzzlePosition()
	dir := a.opts.muzzle.Forward().Normalized()
	a.opts.audio.Play(fx.CueGunShot, origin)

	switch a.cfg.Mode {
	case FireHitscan:
		a.hitscan(origin, dir)
	default:
		if a.opts.launcher != nil {
			a.opts.launcher.Launch(now, projectile.LaunchRequest{
				Prototype:   a.cfg.Prototype,
				OwnerID:     a.ownerID,
				OwnerHealth: a.opts.ownerHealth,
				Damage:      a.cfg.Damage,
				Position:    origin,
				Velocity:    dir.Scale(a.cfg.Speed),
				Lifetime:    a.cfg.Lifetime,
				Radius:      a.cfg.Radius,
			})
		}
	}
	return true
}

// hitscan applies base damage to whatever health the ray strikes first.
func (a *Automatic) hitscan(origin, dir physics.Vec3) {
	if a.opts.raycaster == nil {
		return
	}
	c, ok := a.opts.raycaster.Raycast(origin, dir, a.cfg.Range)
	if !ok || c.Health == nil || c.Health == a.opts.ownerHealth || c.Health.EntityID() == a.ownerID {
		return
	}
	a.hits++
	a.logger.Debug("hitscan hit", log.String("target", c.Health.EntityID()), log.Int("damage", a.cfg.Damage))
	c.Health.TakeDamage(a.cfg.Damage, a.ownerID)
	if c.HasPoint {
		a.opts.effects.Spawn("fx.blood", c.Point, c.Normal)
	}
}
