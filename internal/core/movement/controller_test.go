package movement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zeusync/arena/internal/core/input"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

const dt = 1.0 / 60

func grounded(cfg Config) (*Controller, *PlaneMover) {
	m := NewPlaneMover(physics.Zero, 1.8)
	return NewController(cfg, m), m
}

func run(c *Controller, ticks int, in input.Frame) {
	for i := 0; i < ticks; i++ {
		c.Tick(systems.Tick{Delta: dt}, in)
	}
}

func hspeed(c *Controller) float64 { return c.Velocity().Horizontal().Len() }

func TestController_StartsGrounded(t *testing.T) {
	c, _ := grounded(DefaultConfig())
	assert.True(t, c.Grounded())
	run(c, 10, input.Frame{})
	assert.True(t, c.Grounded())
	assert.Zero(t, c.Velocity().Y)
}

func TestController_FrictionDecaysMonotonically(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c, _ := grounded(DefaultConfig())
		vx := rapid.Float64Range(-30, 30).Draw(t, "vx")
		vz := rapid.Float64Range(-30, 30).Draw(t, "vz")
		c.SetVelocity(physics.V3(vx, 0, vz))

		prev := hspeed(c)
		for i := 0; i < 200; i++ {
			c.Tick(systems.Tick{Delta: dt}, input.Frame{})
			s := hspeed(c)
			if s < 0 || s > prev {
				t.Fatalf("tick %d: speed %f after %f", i, s, prev)
			}
			prev = s
		}
		if prev > 0.01 {
			t.Fatalf("speed did not decay: %f", prev)
		}
	})
}

func TestController_FrictionNeverOvershoots(t *testing.T) {
	v := applyFriction(physics.V3(3, 1, 4), 12, 1)
	assert.Equal(t, physics.V3(0, 1, 0), v)
}

func TestController_GroundSpeedCaps(t *testing.T) {
	cfg := DefaultConfig()
	forward := input.Axis{Y: 1}
	tests := []struct {
		name    string
		in      input.Frame
		aim     bool
		want    float64
		running bool
	}{
		{"walk", input.Frame{Move: forward}, false, cfg.MaxGroundSpeed, false},
		{"run", input.Frame{Move: forward, RunHeld: true}, false, cfg.MaxGroundSpeed * cfg.RunMultiplier, true},
		{"aim", input.Frame{Move: forward}, true, cfg.MaxGroundSpeed * cfg.AimMultiplier, false},
		{"aim overrides run", input.Frame{Move: forward, RunHeld: true}, true, cfg.MaxGroundSpeed * cfg.AimMultiplier, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := grounded(cfg)
			c.SetAiming(tt.aim)
			run(c, 300, tt.in)
			// accelerate refills exactly what friction took
			assert.InDelta(t, tt.want, hspeed(c), 1e-6)
			assert.Equal(t, tt.running, c.IsRunning())
		})
	}
}

func TestController_JumpVelocity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BunnyHop = false
	c, m := grounded(cfg)

	// held without a press does not jump when bunny-hop is off
	run(c, 1, input.Frame{JumpHeld: true})
	assert.True(t, c.Grounded())

	c.Tick(systems.Tick{Delta: dt}, input.Frame{JumpPressed: true, JumpHeld: true})
	want := math.Sqrt(1.2 * 2 * 28)
	assert.InDelta(t, want, c.Velocity().Y, 1e-9)
	assert.False(t, c.Grounded())
	assert.Greater(t, m.Position().Y, 0.0)

	// airborne: gravity integrates
	c.Tick(systems.Tick{Delta: dt}, input.Frame{})
	assert.InDelta(t, want-28*dt, c.Velocity().Y, 1e-9)

	run(c, 120, input.Frame{})
	assert.True(t, c.Grounded())
	assert.InDelta(t, 0.0, m.Position().Y, 1e-9)
}

func TestController_BunnyHopLevelTriggered(t *testing.T) {
	c, _ := grounded(DefaultConfig())
	landings := 0
	wasGrounded := true
	for i := 0; i < 240; i++ {
		c.Tick(systems.Tick{Delta: dt}, input.Frame{JumpHeld: true})
		if c.Grounded() && !wasGrounded {
			landings++
		}
		wasGrounded = c.Grounded()
	}
	assert.GreaterOrEqual(t, landings, 2)
}

func TestController_AirRetainsSpeedAboveCap(t *testing.T) {
	c, _ := grounded(DefaultConfig())
	c.Tick(systems.Tick{Delta: dt}, input.Frame{JumpPressed: true, JumpHeld: true})
	require.False(t, c.Grounded())

	c.SetVelocity(physics.V3(0, c.Velocity().Y, 14))
	for i := 0; i < 10 && !c.Grounded(); i++ {
		c.Tick(systems.Tick{Delta: dt}, input.Frame{Move: input.Axis{Y: 1}})
		assert.InDelta(t, 14.0, c.Velocity().Z, 1e-9)
	}
}

func TestController_AirControlCapped(t *testing.T) {
	m := NewPlaneMover(physics.V3(0, 100, 0), 1.8)
	m.Floor = 0
	c := NewController(DefaultConfig(), m)
	require.False(t, c.Grounded())
	c.Tick(systems.Tick{Delta: dt}, input.Frame{Move: input.Axis{X: 1}})
	assert.InDelta(t, 18*9*dt, c.Velocity().X, 1e-9)
	run(c, 60, input.Frame{Move: input.Axis{X: 1}})
	assert.InDelta(t, 9.0, c.Velocity().X, 1e-9)
}

func TestController_Look(t *testing.T) {
	c, _ := grounded(DefaultConfig())
	c.Tick(systems.Tick{Delta: dt}, input.Frame{Look: input.Axis{X: 100, Y: -100}})
	assert.InDelta(t, 12.0, c.Yaw(), 1e-9)
	assert.InDelta(t, 12.0, c.Pitch(), 1e-9)

	c.Tick(systems.Tick{Delta: dt}, input.Frame{Look: input.Axis{Y: -10000}})
	assert.InDelta(t, 85.0, c.Pitch(), 1e-9)
	c.Tick(systems.Tick{Delta: dt}, input.Frame{Look: input.Axis{Y: 10000}})
	assert.InDelta(t, -85.0, c.Pitch(), 1e-9)
}

func TestController_WishDir(t *testing.T) {
	c, _ := grounded(DefaultConfig())
	w := c.WishDir(input.Axis{X: 1, Y: 1})
	assert.InDelta(t, 1.0, w.Len(), 1e-9)

	c.SetYaw(90)
	w = c.WishDir(input.Axis{Y: 1})
	assert.InDelta(t, 1.0, w.X, 1e-9)
	assert.InDelta(t, 0.0, w.Z, 1e-9)

	cfg := DefaultConfig()
	cfg.ClampDiagonal = false
	c2, _ := grounded(cfg)
	w = c2.WishDir(input.Axis{X: 0.3, Y: 0.4})
	assert.InDelta(t, 0.5, w.Len(), 1e-9)
}

func TestController_CeilingStopsRise(t *testing.T) {
	c, m := grounded(DefaultConfig())
	m.Ceiling = 2.0
	c.Tick(systems.Tick{Delta: dt}, input.Frame{JumpPressed: true, JumpHeld: true})
	require.Greater(t, c.Velocity().Y, 0.0)
	c.Tick(systems.Tick{Delta: dt}, input.Frame{})
	assert.Zero(t, c.Velocity().Y)
	assert.InDelta(t, 0.2, m.Position().Y, 1e-9)
}

func TestController_AimingStopsRunning(t *testing.T) {
	c, _ := grounded(DefaultConfig())
	run(c, 1, input.Frame{RunHeld: true})
	require.True(t, c.IsRunning())
	c.SetAiming(true)
	assert.False(t, c.IsRunning())
	assert.True(t, c.IsAiming())
}
