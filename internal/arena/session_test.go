package arena

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/events"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/fx"
	"github.com/zeusync/arena/internal/core/input"
	"github.com/zeusync/arena/internal/core/waves"
	"github.com/zeusync/arena/internal/core/weapon"
)

const frame = 1.0 / 60

func TestSession_AutopilotClearsFirstWave(t *testing.T) {
	cfg := config.Default()
	cfg.Waves.List = cfg.Waves.List[:1]

	b := bus.New(nil)
	var completed []int
	var scores []int
	_, err := bus.On(b, events.ChannelWaveCompleted, "test", func(e events.Wave) error {
		completed = append(completed, e.Index)
		return nil
	})
	require.NoError(t, err)
	_, err = bus.On(b, events.ChannelScore, "test", func(e events.Score) error {
		scores = append(scores, e.NewScore)
		return nil
	})
	require.NoError(t, err)

	s, err := NewSession(cfg, nil, WithBus(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	for range 60 * 60 {
		s.Step(frame)
		if s.Done() {
			break
		}
	}

	require.True(t, s.Waves().Done())
	assert.Equal(t, waves.PhaseFinished, s.Waves().Phase())
	assert.Equal(t, []int{0}, completed)
	assert.Equal(t, []int{10, 20, 30}, scores)
	assert.True(t, s.Player().Alive())
	assert.Equal(t, 3, s.World().Spawned())
	assert.Equal(t, 3, s.World().Removed())
	assert.Empty(t, s.World().Enemies())
	assert.GreaterOrEqual(t, s.Effects().CountCue(fx.CueRifleShot), 3)
}

func TestSession_ScriptedFire(t *testing.T) {
	cfg := config.Default()
	cfg.Waves.List = nil

	s, err := NewSession(cfg, nil, WithInput(input.NewScript(input.Frame{FirePressed: true})))
	require.NoError(t, err)

	s.Step(frame)
	r := s.Player().Rifle()
	assert.Equal(t, cfg.Rifle.ClipSize-1, r.Ammo())
	assert.Equal(t, weapon.Cycling, r.State())
	assert.Equal(t, 1, s.Simulator().ActiveCount())
	assert.Equal(t, 1, s.Effects().CountCue(fx.CueRifleShot))
	assert.Equal(t, cfg.Rifle.ClipSize, s.Simulator().Pool().Created(cfg.Rifle.Prototype), "warmed to one clip")

	require.NoError(t, s.Close())
	assert.Zero(t, s.Scheduler().Len())
	assert.Zero(t, s.Simulator().ActiveCount())
	assert.True(t, s.Waves().Done())
}

func TestSession_NoWavesFinishes(t *testing.T) {
	cfg := config.Default()
	cfg.Waves.List = nil
	s, err := NewSession(cfg, nil, WithInput(input.NewScript()))
	require.NoError(t, err)

	s.Step(frame)
	assert.True(t, s.Done())
}

func TestSession_InvalidFixedStep(t *testing.T) {
	cfg := config.Default()
	cfg.Session.FixedStep = 0
	_, err := NewSession(cfg, nil)
	require.Error(t, err)
}

func TestSession_SidearmHitscan(t *testing.T) {
	cfg := config.Default()
	cfg.Waves.List = nil
	cfg.Sidearm.Enabled = true

	s, err := NewSession(cfg, nil, WithInput(input.SourceFunc(func(float64) input.Frame {
		return input.Frame{AltFireHeld: true}
	})))
	require.NoError(t, err)
	require.NotNil(t, s.Player().Sidearm())

	id, err := s.World().Spawn(cfg.WaveList().Archetypes["CubeEnemy"], s.Player().Position().Add(s.Player().Forward().Scale(10)), nil)
	require.NoError(t, err)
	body, _ := s.World().Body(id)
	body.SetPosition(s.Player().Eye().Add(s.Player().Forward().Scale(10)))

	s.Step(frame)
	assert.EqualValues(t, 1, s.Player().Sidearm().Shots())
	assert.EqualValues(t, 1, s.Player().Sidearm().Hits())
	assert.Equal(t, 3, body.Health().HP())
}

func TestSession_SummaryJSON(t *testing.T) {
	cfg := config.Default()
	s, err := NewSession(cfg, nil, WithInput(input.NewScript()))
	require.NoError(t, err)
	s.Step(frame)

	sum := s.Summary()
	assert.Equal(t, s.ID(), sum.Session)
	assert.Equal(t, "spawning", sum.Phase)
	assert.Equal(t, 1, sum.Alive)
	assert.Equal(t, cfg.Arena.PlayerHP, sum.PlayerHP)

	raw, err := json.Marshal(sum)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"player_hp":100`)
}

func TestSession_Observe(t *testing.T) {
	cfg := config.Default()
	s, err := NewSession(cfg, nil, WithInput(input.NewScript()))
	require.NoError(t, err)

	var frames []int64
	s.Observe(3, func(sum Summary) { frames = append(frames, sum.Frame) })
	for range 7 {
		s.Step(frame)
	}
	assert.Equal(t, []int64{3, 6}, frames)
}
