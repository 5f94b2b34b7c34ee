package arena

import (
	"math"

	"github.com/zeusync/arena/internal/core/input"
	"github.com/zeusync/arena/internal/core/weapon"
)

// Autopilot is an input source that turns the player toward the nearest
// enemy, fires whenever the rifle is ready and backs off from enemies inside
// KeepAway metres.
type Autopilot struct {
	world    *World
	KeepAway float64
	// Tolerance is the largest residual aim error, degrees, that still fires.
	Tolerance float64
}

func NewAutopilot(world *World) *Autopilot {
	return &Autopilot{world: world, KeepAway: 4, Tolerance: 2}
}

func (a *Autopilot) Sample(float64) input.Frame {
	p := a.world.Player()
	if p == nil {
		return input.Frame{}
	}
	target, ok := a.world.Nearest(p.Eye())
	if !ok {
		return input.Frame{}
	}

	var in input.Frame
	motion := p.Motion()
	cfg := motion.Config()
	sens := cfg.Sensitivity
	if sens <= 0 {
		return in
	}

	dir := target.Position().Sub(p.Eye())
	flat := dir.Horizontal().Len()
	wantYaw := math.Atan2(dir.X, dir.Z) * 180 / math.Pi
	wantPitch := -math.Atan2(dir.Y, flat) * 180 / math.Pi

	dYaw := math.Remainder(wantYaw-motion.Yaw(), 360)
	dPitch := wantPitch - motion.Pitch()
	in.Look = input.Axis{X: dYaw / sens, Y: -dPitch / sens}

	if flat < a.KeepAway {
		in.Move.Y = -1
	}

	// out of the pitch range the shot cannot line up
	if math.Abs(wantPitch)-cfg.MaxPitch > a.Tolerance {
		return in
	}
	if r := p.Rifle(); r != nil && r.State() == weapon.Ready {
		if r.Ammo() == 0 {
			in.ReloadPressed = true
		} else {
			in.FirePressed = true
		}
	}
	in.AltFireHeld = flat <= a.KeepAway*2
	return in
}
