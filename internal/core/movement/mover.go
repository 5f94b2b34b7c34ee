package movement

import "github.com/zeusync/arena/internal/core/systems/physics"

// MoveResult reports the contacts produced by one displacement.
type MoveResult struct {
	Grounded bool
	Ceiling  bool
}

// Mover applies a displacement with collision and owns the body position.
type Mover interface {
	Move(displacement physics.Vec3) MoveResult
	Position() physics.Vec3
}

// PlaneMover is a capsule moving between a flat floor and an optional flat
// ceiling, optionally confined to a square arena.
type PlaneMover struct {
	position physics.Vec3

	Floor      float64
	Ceiling    float64 // no ceiling when not above Floor+Height
	Height     float64
	HalfExtent float64 // no walls when zero
}

func NewPlaneMover(position physics.Vec3, height float64) *PlaneMover {
	return &PlaneMover{position: position, Floor: position.Y, Height: height}
}

func (m *PlaneMover) Position() physics.Vec3    { return m.position }
func (m *PlaneMover) Teleport(pos physics.Vec3) { m.position = pos }
func (m *PlaneMover) OnGround() bool            { return m.position.Y <= m.Floor }
func (m *PlaneMover) hasCeiling() bool          { return m.Ceiling > m.Floor+m.Height }

func (m *PlaneMover) Move(d physics.Vec3) MoveResult {
	var res MoveResult
	p := m.position.Add(d)
	if p.Y <= m.Floor {
		p.Y = m.Floor
		res.Grounded = true
	}
	if m.hasCeiling() && p.Y+m.Height >= m.Ceiling {
		p.Y = m.Ceiling - m.Height
		res.Ceiling = true
	}
	if m.HalfExtent > 0 {
		p.X = physics.Clamp(p.X, -m.HalfExtent, m.HalfExtent)
		p.Z = physics.Clamp(p.Z, -m.HalfExtent, m.HalfExtent)
	}
	m.position = p
	return res
}
