// Package fx declares the fire-and-forget presentation hooks the simulation
// calls: particle effects and positional audio cues. Nothing the core does
// depends on their outcome.
package fx

import "github.com/zeusync/arena/internal/core/systems/physics"

// Effects spawns a visual effect prototype at a world pose.
type Effects interface {
	Spawn(prototype string, position, normal physics.Vec3)
}

// Audio triggers a positional sound cue.
type Audio interface {
	Play(cue string, position physics.Vec3)
}

// Cue ids used by the weapons.
const (
	CueRifleShot   = "rifle.shot"
	CueRifleBolt   = "rifle.bolt"
	CueRifleReload = "rifle.reload"
	CueGunShot     = "gun.shot"
)

type nop struct{}

func (nop) Spawn(string, physics.Vec3, physics.Vec3) {}
func (nop) Play(string, physics.Vec3)                {}

// Nop discards every effect and cue.
var Nop = nop{}

// EffectsOrNop returns e, or Nop when e is nil.
func EffectsOrNop(e Effects) Effects {
	if e == nil {
		return Nop
	}
	return e
}

// AudioOrNop returns a, or Nop when a is nil.
func AudioOrNop(a Audio) Audio {
	if a == nil {
		return Nop
	}
	return a
}
