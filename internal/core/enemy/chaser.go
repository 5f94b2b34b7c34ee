package enemy

import (
	"math"

	"github.com/zeusync/arena/internal/core/combat"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// DefaultTurnRate is how fast a chaser turns, degrees per second.
const DefaultTurnRate = 720.0

// Body is the kinematic body a chaser drives.
type Body interface {
	Position() physics.Vec3
	SetPosition(p physics.Vec3)
}

// Target is what a chaser walks toward.
type Target interface {
	Position() physics.Vec3
}

// Chaser walks straight at its target on the horizontal plane unless stunned.
type Chaser struct {
	body     Body
	target   Target
	stun     *combat.Stunnable
	speed    float64
	turnRate float64
	yaw      float64
}

func NewChaser(body Body, target Target, stun *combat.Stunnable, speed float64) *Chaser {
	return &Chaser{body: body, target: target, stun: stun, speed: speed, turnRate: DefaultTurnRate}
}

func (c *Chaser) Yaw() float64             { return c.yaw }
func (c *Chaser) Speed() float64           { return c.speed }
func (c *Chaser) SetTarget(t Target)       { c.target = t }
func (c *Chaser) SetSpeed(speed float64)   { c.speed = speed }
func (c *Chaser) SetTurnRate(rate float64) { c.turnRate = rate }

// FixedTick moves one fixed step of dt seconds at time now.
func (c *Chaser) FixedTick(now, dt float64) {
	if c.target == nil || c.body == nil {
		return
	}
	if c.stun != nil && c.stun.IsStunned(now) {
		return
	}
	pos := c.body.Position()
	to := c.target.Position().Sub(pos).Horizontal()
	if to.SqrLen() < 0.0001 {
		return
	}
	dir := to.Normalized()
	c.body.SetPosition(pos.Add(dir.Scale(c.speed * dt)))
	c.yaw = turnTowards(c.yaw, physics.YawTowards(dir), c.turnRate*dt)
}

// turnTowards rotates from toward target by at most maxStep degrees the short way.
func turnTowards(from, target, maxStep float64) float64 {
	delta := math.Remainder(target-from, 360)
	if math.Abs(delta) <= maxStep {
		return from + delta
	}
	return from + math.Copysign(maxStep, delta)
}
