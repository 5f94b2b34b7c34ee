// Package enemy holds enemy content definitions and the chase behaviour.
package enemy

import (
	"strings"

	"github.com/google/uuid"

	"github.com/zeusync/arena/internal/core/combat"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// FallbackID names enemies whose archetype has no id.
const FallbackID = "Enemy"

// WeakSpotSpec places a weak spot on an enemy body.
type WeakSpotSpec struct {
	combat.WeakSpot
	Offset physics.Vec3
	Radius float64
}

// Archetype is the static definition of an enemy kind.
type Archetype struct {
	ID          string
	HP          int
	MoveSpeed   float64
	TouchDamage int
	ScoreOnKill int
	Radius      float64
	WeakSpots   []WeakSpotSpec
}

func DefaultArchetype() Archetype {
	return Archetype{
		ID:          "CubeEnemy",
		HP:          6,
		MoveSpeed:   3.5,
		TouchDamage: 1,
		ScoreOnKill: 10,
		Radius:      0.5,
		WeakSpots: []WeakSpotSpec{{
			WeakSpot: combat.DefaultWeakSpot(),
			Offset:   physics.V3(0, 0.6, 0),
			Radius:   0.2,
		}},
	}
}

// NewID returns a unique entity id of the form <archetype>_<uuid>.
func NewID(archetypeID string) string {
	base := strings.TrimSpace(archetypeID)
	if base == "" {
		base = FallbackID
	}
	return base + "_" + uuid.NewString()
}
