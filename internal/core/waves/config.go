package waves

import (
	"github.com/zeusync/arena/internal/core/enemy"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

const (
	DefaultCooldown      = 1.0
	DefaultScorePerEnemy = 10
)

// DefaultEnemyPrefixes identify enemy ids in death events.
var DefaultEnemyPrefixes = []string{"CubeEnemy", "Enemy"}

// Wave is one entry of the wave list.
type Wave struct {
	// EnemyPool lists archetype ids; one is picked uniformly per spawn.
	EnemyPool     []string
	TotalCount    int
	SpawnInterval float64
}

// Config is the read-only content the orchestrator runs.
type Config struct {
	Waves         []Wave
	Archetypes    map[string]enemy.Archetype
	SpawnPoints   []physics.Vec3
	Cooldown      float64
	EnemyPrefixes []string
	ScorePerEnemy int
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Cooldown <= 0 {
		c.Cooldown = DefaultCooldown
	}
	if len(c.EnemyPrefixes) == 0 {
		c.EnemyPrefixes = DefaultEnemyPrefixes
	}
	if c.ScorePerEnemy <= 0 {
		c.ScorePerEnemy = DefaultScorePerEnemy
	}
	return c
}
