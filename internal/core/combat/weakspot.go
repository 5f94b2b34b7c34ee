package combat

import "math"

// InstantKillDamage is the damage dealt by an instant-kill weak spot.
const InstantKillDamage = 999999

type WeakSpotKind uint8

const (
	WeakSpotNormal WeakSpotKind = iota
	WeakSpotHeadshot
	WeakSpotStun
)

func (k WeakSpotKind) String() string {
	switch k {
	case WeakSpotHeadshot:
		return "headshot"
	case WeakSpotStun:
		return "stun"
	default:
		return "normal"
	}
}

// ParseWeakSpotKind maps config strings; unknown values are Normal.
func ParseWeakSpotKind(s string) WeakSpotKind {
	switch s {
	case "headshot", "head":
		return WeakSpotHeadshot
	case "stun", "stunspot":
		return WeakSpotStun
	default:
		return WeakSpotNormal
	}
}

// WeakSpot is a sub-collider that changes how much a hit hurts.
type WeakSpot struct {
	Kind             WeakSpotKind
	DamageMultiplier float64
	InstantKill      bool
	StunDuration     float64
}

// DefaultWeakSpot matches the tuning of a plain headshot box.
func DefaultWeakSpot() WeakSpot {
	return WeakSpot{Kind: WeakSpotNormal, DamageMultiplier: 2.0, StunDuration: 0.8}
}

// Apply returns the damage a hit of base damage deals on this spot.
func (w WeakSpot) Apply(base int) int {
	if w.InstantKill {
		return InstantKillDamage
	}
	d := math.RoundToEven(float64(base) * math.Max(0, w.DamageMultiplier))
	return max(0, int(d))
}

// Stuns reports whether hits here stun the target.
func (w WeakSpot) Stuns() bool { return w.Kind == WeakSpotStun }
