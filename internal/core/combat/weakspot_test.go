package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestWeakSpot_Apply(t *testing.T) {
	tests := []struct {
		name string
		spot WeakSpot
		base int
		want int
	}{
		{"default doubles", DefaultWeakSpot(), 8, 16},
		{"half rounds down to even", WeakSpot{DamageMultiplier: 0.5}, 5, 2},
		{"half rounds up to even", WeakSpot{DamageMultiplier: 1.5}, 5, 8},
		{"non-tie rounds nearest", WeakSpot{DamageMultiplier: 1.3}, 5, 7},
		{"negative multiplier floors", WeakSpot{DamageMultiplier: -3}, 8, 0},
		{"instant kill", WeakSpot{DamageMultiplier: 0.1, InstantKill: true}, 1, InstantKillDamage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spot.Apply(tt.base))
		})
	}
}

func TestWeakSpot_Kinds(t *testing.T) {
	assert.Equal(t, WeakSpotHeadshot, ParseWeakSpotKind("headshot"))
	assert.Equal(t, WeakSpotStun, ParseWeakSpotKind("stun"))
	assert.Equal(t, WeakSpotNormal, ParseWeakSpotKind("whatever"))
	assert.True(t, WeakSpot{Kind: WeakSpotStun}.Stuns())
	assert.False(t, WeakSpot{Kind: WeakSpotHeadshot}.Stuns())
	assert.Equal(t, "stun", WeakSpotStun.String())
}

func TestWeakSpot_InstantKillSingleDeath(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b, rec := newRecorder(t)
		h := NewHealth("e", 1, b)
		spot := WeakSpot{InstantKill: true, DamageMultiplier: rapid.Float64Range(0, 4).Draw(t, "mult")}
		base := rapid.IntRange(0, 1000).Draw(t, "base")

		h.TakeDamage(spot.Apply(base), "p")
		h.TakeDamage(spot.Apply(base), "p")
		if len(rec.deaths) != 1 {
			t.Fatalf("deaths = %d, want 1", len(rec.deaths))
		}
	})
}

func TestStunnable(t *testing.T) {
	var s Stunnable
	assert.False(t, s.IsStunned(0))

	s.Stun(1, 0.8)
	assert.True(t, s.IsStunned(1.5))
	assert.False(t, s.IsStunned(1.8))

	// shorter stun never shortens
	s.Stun(1.2, 0.1)
	assert.InDelta(t, 1.8, s.EndTime(), 1e-9)

	s.Stun(1.5, -1)
	assert.InDelta(t, 1.8, s.EndTime(), 1e-9)

	s.Stun(1.5, 1)
	assert.InDelta(t, 2.5, s.EndTime(), 1e-9)

	s.Reset()
	assert.False(t, s.IsStunned(0))
}
