package weapon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/arena/internal/core/combat"
	"github.com/zeusync/arena/internal/core/fx"
	"github.com/zeusync/arena/internal/core/input"
	"github.com/zeusync/arena/internal/core/projectile"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

type stubRay struct {
	contact projectile.Contact
	hit     bool
	lastMax float64
}

func (r *stubRay) Raycast(_, _ physics.Vec3, maxDistance float64) (projectile.Contact, bool) {
	r.lastMax = maxDistance
	return r.contact, r.hit
}

func TestAutomatic_FireRateGate(t *testing.T) {
	l := &fakeLauncher{}
	gun := NewAutomatic("Player", DefaultProjectileGun(), nil, WithLauncher(l), WithMuzzle(fixedMuzzle{}))

	// 9 shots/s held for one second at 100 Hz
	for i := 0; i < 100; i++ {
		gun.Tick(systems.Tick{Now: float64(i) * 0.01, Delta: 0.01}, input.Frame{FireHeld: true})
	}
	assert.Equal(t, uint64(9), gun.Shots())
	assert.Len(t, l.requests, 9)
	assert.Equal(t, "gun.round", l.requests[0].Prototype)
	assert.InDelta(t, 45.0, l.requests[0].Velocity.Len(), 1e-9)
}

func TestAutomatic_NotHeldDoesNotFire(t *testing.T) {
	gun := NewAutomatic("Player", DefaultProjectileGun(), nil)
	gun.Tick(systems.Tick{Now: 1}, input.Frame{FirePressed: true})
	assert.Zero(t, gun.Shots())
}

func TestAutomatic_Hitscan(t *testing.T) {
	target := combat.NewHealth("Enemy_1", 10, nil)
	ray := &stubRay{hit: true, contact: projectile.Contact{Health: target, HasPoint: true}}
	rec := &fx.Recorder{}
	gun := NewAutomatic("Player", DefaultHitscanGun(), nil, WithRaycaster(ray), WithMuzzle(fixedMuzzle{}), WithEffects(rec), WithAudio(rec))

	assert.True(t, gun.Fire(0))
	assert.False(t, gun.Fire(0.1))
	assert.True(t, gun.Fire(0.125))
	assert.Equal(t, 4, target.HP())
	assert.Equal(t, uint64(2), gun.Hits())
	assert.InDelta(t, 60.0, ray.lastMax, 1e-9)
	assert.Equal(t, 2, rec.CountCue(fx.CueGunShot))
	assert.Equal(t, 2, rec.CountEffect("fx.blood"))
}

func TestAutomatic_HitscanIgnoresOwnerAndMisses(t *testing.T) {
	owner := combat.NewHealth("Player", 10, nil)
	ray := &stubRay{hit: true, contact: projectile.Contact{Health: owner}}
	gun := NewAutomatic("Player", DefaultHitscanGun(), nil, WithRaycaster(ray), WithMuzzle(fixedMuzzle{}), WithOwnerHealth(owner))

	gun.Fire(0)
	assert.Equal(t, 10, owner.HP())

	ray.hit = false
	gun.Fire(1)
	assert.Zero(t, gun.Hits())
}

func TestAutomatic_HitscanIgnoresOwnerByID(t *testing.T) {
	owner := combat.NewHealth("Player", 10, nil)
	ray := &stubRay{hit: true, contact: projectile.Contact{Health: owner}}
	gun := NewAutomatic("Player", DefaultHitscanGun(), nil, WithRaycaster(ray), WithMuzzle(fixedMuzzle{}))

	gun.Fire(0)
	assert.Equal(t, 10, owner.HP())
	assert.Zero(t, gun.Hits())
}

func TestAutomatic_MinFireRate(t *testing.T) {
	cfg := DefaultHitscanGun()
	cfg.FireRate = 0
	gun := NewAutomatic("Player", cfg, nil)
	assert.InDelta(t, 100.0, gun.Interval(), 1e-9)
}
