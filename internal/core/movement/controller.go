// Package movement integrates quake-style player movement: ground friction
// and acceleration, air control, gravity and bunny-hop jumps.
package movement

import (
	"math"

	"github.com/zeusync/arena/internal/core/input"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

const (
	minFrictionSpeed = 0.001
	minWishSqr       = 0.0001
)

// Controller owns the player's kinematic state. Displacement goes through
// the Mover; grounded and ceiling contacts come back from it.
type Controller struct {
	cfg   Config
	mover Mover

	velocity physics.Vec3
	yaw      float64
	pitch    float64
	grounded bool

	aiming  bool
	running bool
}

// NewController starts at rest. Movers that can tell whether the body
// already stands on the ground seed the grounded state.
func NewController(cfg Config, mover Mover) *Controller {
	c := &Controller{cfg: cfg, mover: mover}
	if probe, ok := mover.(interface{ OnGround() bool }); ok {
		c.grounded = probe.OnGround()
	}
	return c
}

func (c *Controller) Velocity() physics.Vec3 { return c.velocity }
func (c *Controller) Pitch() float64         { return c.pitch }
func (c *Controller) Yaw() float64           { return c.yaw }
func (c *Controller) Grounded() bool         { return c.grounded }
func (c *Controller) IsAiming() bool         { return c.aiming }
func (c *Controller) IsRunning() bool        { return c.running }
func (c *Controller) Config() Config         { return c.cfg }

// Forward is the view direction including pitch.
func (c *Controller) Forward() physics.Vec3 { return physics.FromYawPitch(c.yaw, c.pitch) }

// Position is the body position, or zero without a mover.
func (c *Controller) Position() physics.Vec3 {
	if c.mover == nil {
		return physics.Zero
	}
	return c.mover.Position()
}

// SetAiming applies the aim multiplier; aiming also stops running.
func (c *Controller) SetAiming(aiming bool) {
	c.aiming = aiming
	if aiming {
		c.running = false
	}
}

// SetYaw turns the body to face yaw degrees.
func (c *Controller) SetYaw(yaw float64) { c.yaw = yaw }

// SetVelocity overrides the current velocity, e.g. for knockback.
func (c *Controller) SetVelocity(v physics.Vec3) { c.velocity = v }

// Tick applies look input then one movement step of t.Delta seconds.
func (c *Controller) Tick(t systems.Tick, in input.Frame) {
	c.look(in.Look)
	c.move(t.Delta, in)
}

func (c *Controller) look(l input.Axis) {
	c.yaw += l.X * c.cfg.Sensitivity
	c.pitch = physics.Clamp(c.pitch-l.Y*c.cfg.Sensitivity, -c.cfg.MaxPitch, c.cfg.MaxPitch)
}

// WishDir projects the move axes onto the horizontal facing.
func (c *Controller) WishDir(move input.Axis) physics.Vec3 {
	yaw := c.yaw * math.Pi / 180
	forward := physics.V3(math.Sin(yaw), 0, math.Cos(yaw))
	right := physics.V3(math.Cos(yaw), 0, -math.Sin(yaw))
	wish := right.Scale(move.X).Add(forward.Scale(move.Y))
	if c.cfg.ClampDiagonal {
		return wish.ClampLen(1)
	}
	if wish.SqrLen() > 1 {
		return wish.Normalized()
	}
	return wish
}

func (c *Controller) move(dt float64, in input.Frame) {
	wish := c.WishDir(in.Move)

	if c.grounded {
		if c.velocity.Y < 0 {
			c.velocity.Y = c.cfg.GroundStick
		}
		c.velocity = applyFriction(c.velocity, c.cfg.Friction, dt)

		c.running = in.RunHeld && !c.aiming
		mult := 1.0
		if c.running {
			mult *= c.cfg.RunMultiplier
		}
		if c.aiming {
			mult *= c.cfg.AimMultiplier
		}
		c.velocity = accelerate(c.velocity, wish, c.cfg.MaxGroundSpeed*mult, c.cfg.GroundAccel, dt)

		jump := in.JumpPressed
		if c.cfg.BunnyHop {
			jump = in.JumpHeld || in.JumpPressed
		}
		if jump {
			c.velocity.Y = math.Sqrt(c.cfg.JumpHeight * 2 * math.Abs(c.cfg.Gravity))
		}
	} else {
		c.velocity = accelerate(c.velocity, wish, c.cfg.MaxAirSpeed, c.cfg.AirAccel, dt)
		c.velocity.Y += c.cfg.Gravity * dt
	}

	if c.mover == nil {
		return
	}
	res := c.mover.Move(c.velocity.Scale(dt))
	c.grounded = res.Grounded
	if res.Ceiling && c.velocity.Y > 0 {
		c.velocity.Y = 0
	}
}

// applyFriction decays horizontal speed exponentially, never below zero.
func applyFriction(v physics.Vec3, friction, dt float64) physics.Vec3 {
	speed := v.Horizontal().Len()
	if speed < minFrictionSpeed {
		return v
	}
	next := max(0, speed-speed*friction*dt)
	if next == speed {
		return v
	}
	scale := next / speed
	v.X *= scale
	v.Z *= scale
	return v
}

// accelerate adds speed along wish until the projected horizontal speed
// reaches wishSpeed. Speed already above it is kept.
func accelerate(v, wish physics.Vec3, wishSpeed, accel, dt float64) physics.Vec3 {
	if wish.SqrLen() < minWishSqr {
		return v
	}
	dir := wish.Normalized()
	current := v.Horizontal().Dot(dir)
	add := wishSpeed - current
	if add <= 0 {
		return v
	}
	step := min(accel*wishSpeed*dt, add)
	v.X += step * dir.X
	v.Z += step * dir.Z
	return v
}
