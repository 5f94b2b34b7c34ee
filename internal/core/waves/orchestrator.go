// Package waves sequences enemy waves: announce, spawn on an interval, wait
// for the arena to clear, cool down, repeat. The orchestrator is a resumable
// task driven by the variable tick; it never blocks.
package waves

import (
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"

	"github.com/zeusync/arena/internal/core/enemy"
	"github.com/zeusync/arena/internal/core/events"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

var (
	ErrEmptyPool        = errors.New("waves: wave has no enemy types")
	ErrUnknownArchetype = errors.New("waves: unknown archetype")
	ErrNoSpawnPoints    = errors.New("waves: no spawn points")
)

// Target is the player the spawned enemies hunt.
type Target interface {
	EntityID() string
	Position() physics.Vec3
}

// Spawner instantiates an enemy and returns its entity id.
type Spawner interface {
	Spawn(archetype enemy.Archetype, at physics.Vec3, target Target) (string, error)
}

type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseSpawning
	PhaseClearing
	PhaseCooldown
	PhaseFinished
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSpawning:
		return "spawning"
	case PhaseClearing:
		return "clearing"
	case PhaseCooldown:
		return "cooldown"
	case PhaseFinished:
		return "finished"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Orchestrator runs the wave list once.
type Orchestrator struct {
	cfg     Config
	bus     bus.EventBus
	spawner Spawner
	target  Target
	rng     *rand.Rand
	logger  log.Log
	sub     bus.Subscription

	phase   Phase
	wave    int
	spawned int
	resume  float64

	alive   int
	score   int
	pending map[string]int // spawned id -> score on kill
	skipped int
}

// New creates an orchestrator and subscribes it to deaths on b.
func New(cfg Config, b bus.EventBus, spawner Spawner, target Target, rng *rand.Rand, logger log.Log) (*Orchestrator, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	o := &Orchestrator{
		cfg:     cfg.withDefaults(),
		bus:     b,
		spawner: spawner,
		target:  target,
		rng:     rng,
		logger:  logger.Named("waves"),
		pending: make(map[string]int),
	}
	if b != nil {
		sub, err := bus.On(b, events.ChannelDeath, "waves", o.onDeath)
		if err != nil {
			return nil, errors.Wrap(err, "subscribe deaths")
		}
		o.sub = sub
	}
	return o, nil
}

func (o *Orchestrator) Name() string               { return "waves" }
func (o *Orchestrator) Priority() systems.Priority { return systems.PriorityLow }
func (o *Orchestrator) FixedUpdate(systems.Tick)   {}
func (o *Orchestrator) Phase() Phase               { return o.phase }
func (o *Orchestrator) WaveIndex() int             { return o.wave }
func (o *Orchestrator) Alive() int                 { return o.alive }
func (o *Orchestrator) Score() int                 { return o.score }
func (o *Orchestrator) Skipped() int               { return o.skipped }
func (o *Orchestrator) SetTarget(t Target)         { o.target = t }

// Done reports whether the orchestrator reached a terminal phase.
func (o *Orchestrator) Done() bool {
	return o.phase == PhaseFinished || o.phase == PhaseStopped
}

// Stop aborts the run; the orchestrator never resumes.
func (o *Orchestrator) Stop() {
	if !o.Done() {
		o.phase = PhaseStopped
		o.logger.Info("waves stopped", log.Int("wave", o.wave))
	}
}

// Close stops the run and drops the death subscription.
func (o *Orchestrator) Close() error {
	o.Stop()
	if o.sub != nil {
		return o.sub.Cancel()
	}
	return nil
}

// Update resumes the task at its current checkpoint and runs until it has to
// wait for time to pass or for the arena to clear.
func (o *Orchestrator) Update(t systems.Tick) {
	for {
		switch o.phase {
		case PhaseIdle:
			if o.wave >= len(o.cfg.Waves) {
				o.phase = PhaseFinished
				o.logger.Info("all waves cleared", log.Int("score", o.score))
				return
			}
			o.alive = 0
			o.spawned = 0
			o.resume = t.Now
			o.phase = PhaseSpawning
			o.logger.Info("wave started", log.Int("wave", o.wave), log.Int("count", o.cfg.Waves[o.wave].TotalCount))
			o.publish(events.Wave{Index: o.wave, Phase: events.WaveStarted})

		case PhaseSpawning:
			if t.Now < o.resume {
				return
			}
			w := o.cfg.Waves[o.wave]
			if o.spawned >= w.TotalCount {
				o.phase = PhaseClearing
				continue
			}
			o.spawnOne(w)
			o.spawned++
			o.resume = t.Now + max(0, w.SpawnInterval)
			return

		case PhaseClearing:
			if o.alive > 0 {
				return
			}
			o.logger.Info("wave completed", log.Int("wave", o.wave), log.Int("score", o.score))
			o.publish(events.Wave{Index: o.wave, Phase: events.WaveCompleted})
			o.wave++
			o.resume = t.Now + o.cfg.Cooldown
			o.phase = PhaseCooldown

		case PhaseCooldown:
			if t.Now < o.resume {
				return
			}
			o.phase = PhaseIdle

		default:
			return
		}
	}
}

// spawnOne places one random enemy of w. Configuration problems skip the
// spawn without counting it as alive.
func (o *Orchestrator) spawnOne(w Wave) {
	arch, at, err := o.pick(w)
	if err == nil && o.spawner == nil {
		err = errors.New("waves: no spawner")
	}
	var id string
	if err == nil {
		id, err = o.spawner.Spawn(arch, at, o.target)
		err = errors.Wrapf(err, "spawn %s", arch.ID)
	}
	if err != nil {
		o.skipped++
		o.logger.Warn("spawn skipped", log.Int("wave", o.wave), log.Error(err))
		return
	}
	o.pending[id] = arch.ScoreOnKill
	o.alive++
}

func (o *Orchestrator) pick(w Wave) (enemy.Archetype, physics.Vec3, error) {
	if len(w.EnemyPool) == 0 {
		return enemy.Archetype{}, physics.Zero, ErrEmptyPool
	}
	if len(o.cfg.SpawnPoints) == 0 {
		return enemy.Archetype{}, physics.Zero, ErrNoSpawnPoints
	}
	archID := w.EnemyPool[o.rng.IntN(len(w.EnemyPool))]
	arch, ok := o.cfg.Archetypes[archID]
	if !ok {
		return enemy.Archetype{}, physics.Zero, errors.Wrap(ErrUnknownArchetype, archID)
	}
	return arch, o.cfg.SpawnPoints[o.rng.IntN(len(o.cfg.SpawnPoints))], nil
}

func (o *Orchestrator) onDeath(e events.Death) error {
	points, spawned := o.pending[e.EntityID]
	if !spawned && !o.isEnemyID(e.EntityID) {
		return nil
	}
	delete(o.pending, e.EntityID)
	o.alive = max(0, o.alive-1)
	if !spawned || points <= 0 {
		points = o.cfg.ScorePerEnemy
	}
	o.score += points
	o.publish(events.Score{NewScore: o.score})
	return nil
}

func (o *Orchestrator) isEnemyID(id string) bool {
	for _, prefix := range o.cfg.EnemyPrefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) publish(e bus.Event) {
	if o.bus != nil {
		o.bus.Publish(e)
	}
}
