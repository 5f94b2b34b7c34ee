package projectile

import "github.com/zeusync/arena/internal/core/systems/physics"

// Layer is a physics layer index in [0, 31].
type Layer uint8

// LayerMask selects the layers a projectile reacts to.
type LayerMask uint32

// AllLayers hits everything.
const AllLayers = ^LayerMask(0)

// Has reports whether layer is selected by the mask.
func (m LayerMask) Has(layer Layer) bool {
	if layer > 31 {
		return false
	}
	return m&(1<<layer) != 0
}

// MaskOf builds a mask from layer indices.
func MaskOf(layers ...Layer) LayerMask {
	var m LayerMask
	for _, l := range layers {
		if l <= 31 {
			m |= 1 << l
		}
	}
	return m
}

const (
	minMaxTravelDistance = 5.0
	minBoundsAxis        = 1.0
	minLifetime          = 0.05
)

// Ballistics is the per-prototype flight and despawn tuning.
type Ballistics struct {
	// UseDrop enables delayed gravity.
	UseDrop bool
	// GravityScale multiplies ambient gravity once drop has started.
	GravityScale float64
	// DropStartDistance is the flown distance below which no gravity applies.
	DropStartDistance float64
	// DropStartTime, when positive, is the flight time below which no gravity applies.
	DropStartTime float64

	MaxTravelDistance float64
	UseWorldBounds    bool
	Bounds            physics.Bounds

	HitMask      LayerMask
	ImpactEffect string
	DamageEffect string
}

// DefaultBallistics returns the rifle round tuning.
func DefaultBallistics() Ballistics {
	return Ballistics{
		UseDrop:           true,
		GravityScale:      0.45,
		DropStartDistance: 18,
		DropStartTime:     0,
		MaxTravelDistance: 140,
		UseWorldBounds:    false,
		Bounds:            physics.Bounds{Size: physics.V3(300, 200, 300)},
		HitMask:           AllLayers,
		ImpactEffect:      "fx.impact",
		DamageEffect:      "fx.blood",
	}
}

// normalized applies the floors the simulator relies on.
func (b Ballistics) normalized() Ballistics {
	b.MaxTravelDistance = max(minMaxTravelDistance, b.MaxTravelDistance)
	b.Bounds.Size = physics.Vec3{
		X: max(minBoundsAxis, b.Bounds.Size.X),
		Y: max(minBoundsAxis, b.Bounds.Size.Y),
		Z: max(minBoundsAxis, b.Bounds.Size.Z),
	}
	b.DropStartDistance = max(0, b.DropStartDistance)
	b.DropStartTime = max(0, b.DropStartTime)
	b.GravityScale = max(0, b.GravityScale)
	return b
}

// gravityDelta returns the velocity change gravity contributes over dt for a
// projectile that has flown distance for elapsed seconds. Both inputs are
// derived from spawn state on every call.
func (b Ballistics) gravityDelta(gravity physics.Vec3, distance, elapsed, dt float64) physics.Vec3 {
	if !b.UseDrop {
		return physics.Zero
	}
	if distance < b.DropStartDistance {
		return physics.Zero
	}
	if b.DropStartTime > 0 && elapsed < b.DropStartTime {
		return physics.Zero
	}
	return gravity.Scale(b.GravityScale * dt)
}
