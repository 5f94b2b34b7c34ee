// Package weapon implements the player's guns: the bolt-action rifle state
// machine (Ready, Cycling, Reloading with gated aim) and a fire-rate gated
// automatic in projectile or hitscan mode.
package weapon

import (
	"github.com/zeusync/arena/internal/core/projectile"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// Launcher puts a projectile in flight. *projectile.Simulator implements it.
type Launcher interface {
	Launch(now float64, req projectile.LaunchRequest) *projectile.Projectile
}

// Muzzle is where shots leave and which way the view faces.
type Muzzle interface {
	MuzzlePosition() physics.Vec3
	Forward() physics.Vec3
}

// AimListener is told when aiming starts or stops. The movement controller
// implements it to apply the aim speed multiplier.
type AimListener interface {
	SetAiming(aiming bool)
}

// Raycaster answers instant line-of-fire queries for hitscan weapons.
type Raycaster interface {
	Raycast(origin, dir physics.Vec3, maxDistance float64) (projectile.Contact, bool)
}

type State uint8

const (
	Ready State = iota
	Cycling
	Reloading
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Cycling:
		return "cycling"
	case Reloading:
		return "reloading"
	default:
		return "unknown"
	}
}

type AimMode uint8

const (
	AimHold AimMode = iota
	AimToggle
)

// minTimer floors every weapon timer.
const minTimer = 0.05
