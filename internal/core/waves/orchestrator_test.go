package waves

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/core/enemy"
	"github.com/zeusync/arena/internal/core/events"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

type player struct{}

func (player) EntityID() string       { return "Player" }
func (player) Position() physics.Vec3 { return physics.Zero }

type spawnCall struct {
	archetype string
	at        physics.Vec3
	target    string
}

type fakeSpawner struct {
	calls []spawnCall
	ids   []string
	fail  bool
}

func (s *fakeSpawner) Spawn(a enemy.Archetype, at physics.Vec3, target Target) (string, error) {
	if s.fail {
		return "", errors.New("prefab missing")
	}
	s.calls = append(s.calls, spawnCall{archetype: a.ID, at: at, target: target.EntityID()})
	id := fmt.Sprintf("%s_%d", a.ID, len(s.calls))
	s.ids = append(s.ids, id)
	return id, nil
}

type harness struct {
	bus     bus.EventBus
	spawner *fakeSpawner
	orch    *Orchestrator
	now     float64

	started   []int
	completed []int
	scores    []int
}

func newHarness(t *testing.T, cfg Config) *harness {
	h := &harness{bus: bus.New(log.NewNop()), spawner: &fakeSpawner{}}
	var err error
	h.orch, err = New(cfg, h.bus, h.spawner, player{}, rand.New(rand.NewPCG(7, 11)), nil)
	require.NoError(t, err)

	_, err = bus.On(h.bus, events.ChannelWaveStarted, "test", func(e events.Wave) error {
		h.started = append(h.started, e.Index)
		return nil
	})
	require.NoError(t, err)
	_, err = bus.On(h.bus, events.ChannelWaveCompleted, "test", func(e events.Wave) error {
		h.completed = append(h.completed, e.Index)
		return nil
	})
	require.NoError(t, err)
	_, err = bus.On(h.bus, events.ChannelScore, "test", func(e events.Score) error {
		h.scores = append(h.scores, e.NewScore)
		return nil
	})
	require.NoError(t, err)
	return h
}

func (h *harness) advance(seconds float64) {
	for end := h.now + seconds + 1e-6; h.now < end; {
		h.now += 0.1
		h.orch.Update(systems.Tick{Now: h.now, Delta: 0.1})
	}
}

func (h *harness) kill(id string) {
	h.bus.Publish(events.Death{EntityID: id, KillerID: "Player"})
}

func cubeConfig(waves ...Wave) Config {
	arch := enemy.DefaultArchetype()
	return Config{
		Waves:       waves,
		Archetypes:  map[string]enemy.Archetype{arch.ID: arch},
		SpawnPoints: []physics.Vec3{physics.V3(10, 0, 0), physics.V3(-10, 0, 0)},
	}
}

func TestOrchestrator_SpawnsThenWaitsForClearance(t *testing.T) {
	h := newHarness(t, cubeConfig(Wave{EnemyPool: []string{"CubeEnemy"}, TotalCount: 5, SpawnInterval: 0.6}))

	h.advance(0.1)
	assert.Equal(t, []int{0}, h.started)
	assert.Len(t, h.spawner.calls, 1)

	h.advance(10)
	require.Len(t, h.spawner.calls, 5)
	assert.Equal(t, PhaseClearing, h.orch.Phase())
	assert.Equal(t, 5, h.orch.Alive())
	for _, c := range h.spawner.calls {
		assert.Equal(t, "Player", c.target)
		assert.Contains(t, []physics.Vec3{physics.V3(10, 0, 0), physics.V3(-10, 0, 0)}, c.at)
	}

	for i, id := range h.spawner.ids {
		h.kill(id)
		h.advance(0.1)
		if i < 4 {
			assert.Empty(t, h.completed, "completed after %d deaths", i+1)
		}
	}
	assert.Equal(t, []int{0}, h.completed)
	assert.Equal(t, []int{10, 20, 30, 40, 50}, h.scores)
	assert.Len(t, h.spawner.calls, 5)
}

func TestOrchestrator_PlayerDeathIgnored(t *testing.T) {
	h := newHarness(t, cubeConfig(Wave{EnemyPool: []string{"CubeEnemy"}, TotalCount: 1, SpawnInterval: 0.1}))
	h.advance(1)
	require.Equal(t, 1, h.orch.Alive())

	h.kill("Player")
	h.advance(1)
	assert.Equal(t, 1, h.orch.Alive())
	assert.Empty(t, h.scores)
	assert.Empty(t, h.completed)
}

func TestOrchestrator_PrefixDeathsFloorAtZero(t *testing.T) {
	h := newHarness(t, cubeConfig(Wave{EnemyPool: []string{"CubeEnemy"}, TotalCount: 1, SpawnInterval: 0.1}))
	h.advance(1)

	h.kill("Enemy_stray")
	h.kill("Enemy_other")
	assert.Equal(t, 0, h.orch.Alive())
	assert.Equal(t, []int{10, 20}, h.scores)
}

func TestOrchestrator_RunsAllWavesThenFinishes(t *testing.T) {
	h := newHarness(t, cubeConfig(
		Wave{EnemyPool: []string{"CubeEnemy"}, TotalCount: 2, SpawnInterval: 0.2},
		Wave{EnemyPool: []string{"CubeEnemy"}, TotalCount: 1, SpawnInterval: 0.2},
	))

	h.advance(1)
	for _, id := range h.spawner.ids {
		h.kill(id)
	}
	h.advance(0.1)
	assert.Equal(t, []int{0}, h.completed)
	assert.Equal(t, PhaseCooldown, h.orch.Phase())

	// cooldown holds the next wave back
	h.advance(0.5)
	assert.Equal(t, []int{0}, h.started)
	h.advance(0.6)
	assert.Equal(t, []int{0, 1}, h.started)

	h.advance(1)
	h.kill(h.spawner.ids[2])
	h.advance(2)
	assert.Equal(t, []int{0, 1}, h.completed)
	assert.True(t, h.orch.Done())
	assert.Equal(t, PhaseFinished, h.orch.Phase())
}

func TestOrchestrator_ConfigErrorsSkipSpawns(t *testing.T) {
	t.Run("empty pool", func(t *testing.T) {
		h := newHarness(t, cubeConfig(Wave{TotalCount: 3, SpawnInterval: 0.1}))
		h.advance(1)
		assert.Empty(t, h.spawner.calls)
		assert.Equal(t, 3, h.orch.Skipped())
		// nothing alive: the wave clears immediately
		assert.Equal(t, []int{0}, h.completed)
	})

	t.Run("unknown archetype", func(t *testing.T) {
		h := newHarness(t, cubeConfig(Wave{EnemyPool: []string{"Ghost"}, TotalCount: 2, SpawnInterval: 0.1}))
		h.advance(1)
		assert.Empty(t, h.spawner.calls)
		assert.Equal(t, 0, h.orch.Alive())
	})

	t.Run("no spawn points", func(t *testing.T) {
		cfg := cubeConfig(Wave{EnemyPool: []string{"CubeEnemy"}, TotalCount: 2, SpawnInterval: 0.1})
		cfg.SpawnPoints = nil
		h := newHarness(t, cfg)
		h.advance(1)
		assert.Equal(t, 2, h.orch.Skipped())
	})

	t.Run("spawner error", func(t *testing.T) {
		h := newHarness(t, cubeConfig(Wave{EnemyPool: []string{"CubeEnemy"}, TotalCount: 2, SpawnInterval: 0.1}))
		h.spawner.fail = true
		h.advance(1)
		assert.Equal(t, 2, h.orch.Skipped())
		assert.Equal(t, 0, h.orch.Alive())
	})
}

func TestOrchestrator_ArchetypeScore(t *testing.T) {
	cfg := cubeConfig(Wave{EnemyPool: []string{"Brute"}, TotalCount: 1, SpawnInterval: 0.1})
	cfg.Archetypes["Brute"] = enemy.Archetype{ID: "Brute", HP: 20, ScoreOnKill: 35}
	h := newHarness(t, cfg)
	h.advance(0.5)
	require.Len(t, h.spawner.ids, 1)

	// not a prefix match, but spawned here
	h.kill(h.spawner.ids[0])
	assert.Equal(t, []int{35}, h.scores)
	assert.Equal(t, 0, h.orch.Alive())
}

func TestOrchestrator_Stop(t *testing.T) {
	h := newHarness(t, cubeConfig(Wave{EnemyPool: []string{"CubeEnemy"}, TotalCount: 5, SpawnInterval: 0.5}))
	h.advance(0.1)
	h.orch.Stop()
	h.advance(5)
	assert.Len(t, h.spawner.calls, 1)
	assert.Equal(t, PhaseStopped, h.orch.Phase())
	assert.True(t, h.orch.Done())

	require.NoError(t, h.orch.Close())
	h.kill(h.spawner.ids[0])
	assert.Empty(t, h.scores)
}

func TestOrchestrator_EmptyListFinishes(t *testing.T) {
	h := newHarness(t, Config{})
	h.advance(0.1)
	assert.True(t, h.orch.Done())
	assert.Empty(t, h.started)
}
