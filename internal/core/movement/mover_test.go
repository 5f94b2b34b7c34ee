package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/arena/internal/core/systems/physics"
)

func TestPlaneMover(t *testing.T) {
	m := NewPlaneMover(physics.V3(0, 0, 0), 1.8)
	m.HalfExtent = 10
	m.Ceiling = 3

	res := m.Move(physics.V3(1, -1, 0))
	assert.True(t, res.Grounded)
	assert.Equal(t, physics.V3(1, 0, 0), m.Position())

	res = m.Move(physics.V3(0, 5, 0))
	assert.True(t, res.Ceiling)
	assert.False(t, res.Grounded)
	assert.InDelta(t, 1.2, m.Position().Y, 1e-9)

	m.Move(physics.V3(50, 0, -50))
	assert.InDelta(t, 10.0, m.Position().X, 1e-9)
	assert.InDelta(t, -10.0, m.Position().Z, 1e-9)
	assert.False(t, m.OnGround())

	m.Teleport(physics.V3(2, 0, 2))
	assert.True(t, m.OnGround())
}
