package arena

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/combat"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/fx"
	"github.com/zeusync/arena/internal/core/input"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/projectile"
	"github.com/zeusync/arena/internal/core/schedule"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/waves"
	"github.com/zeusync/arena/internal/core/weapon"
)

// Session is one running arena: a bus, a scheduler and the systems that
// share them. It is driven from a single goroutine through Step or Run.
type Session struct {
	id     string
	cfg    config.Config
	logger log.Log

	bus     bus.EventBus
	sched   *schedule.Scheduler
	systems *systems.Manager
	pool    *projectile.Pool
	sim     *projectile.Simulator
	world   *World
	player  *Player
	waves   *waves.Orchestrator
	fx      *fx.Recorder
}

// Option customises a Session.
type Option func(*options)

type options struct {
	bus      bus.EventBus
	input    input.Source
	recorder *fx.Recorder
}

// WithBus shares an existing bus instead of creating one.
func WithBus(b bus.EventBus) Option { return func(o *options) { o.bus = b } }

// WithInput replaces the autopilot with src.
func WithInput(src input.Source) Option { return func(o *options) { o.input = src } }

// WithRecorder keeps every effect and cue in r.
func WithRecorder(r *fx.Recorder) Option { return func(o *options) { o.recorder = r } }

// NewSession builds every component from cfg.
func NewSession(cfg config.Config, logger log.Log, opts ...Option) (*Session, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.recorder == nil {
		o.recorder = &fx.Recorder{Limit: cfg.Arena.EffectsHistory}
	}

	id := uuid.NewString()
	logger = logger.With(log.String("session", id))

	s := &Session{
		id:     id,
		cfg:    cfg,
		logger: logger,
		bus:    o.bus,
		sched:  schedule.New(),
		pool:   projectile.NewPool(),
		fx:     o.recorder,
	}
	if s.bus == nil {
		s.bus = bus.New(logger)
	}

	mgr, err := systems.NewManager(cfg.Session.FixedStep, cfg.Session.MaxSteps, logger)
	if err != nil {
		return nil, errors.Wrap(err, "systems manager")
	}
	s.systems = mgr
	mgr.OnPreUpdate(func(t systems.Tick) { s.sched.Advance(t.Now) })

	sink := NewLogSink(logger, s.fx)

	s.world = NewWorld(WorldConfig{
		TouchInterval: cfg.Arena.TouchInterval,
		Knockback:     cfg.Arena.Knockback,
	}, s.bus, s.sched, logger)

	simOpts := []projectile.Option{projectile.WithDefaultBallistics(projectile.DefaultBallistics())}
	for proto, b := range cfg.Projectiles {
		simOpts = append(simOpts, projectile.WithBallistics(proto, b.Ballistics()))
	}
	s.sim = projectile.NewSimulator(s.pool, s.world, sink, logger, simOpts...)

	s.player = s.buildPlayer(o.input, sink)

	s.waves, err = waves.New(cfg.WaveList(), s.bus, s.world, s.player, s.rng("waves"), logger)
	if err != nil {
		return nil, errors.Wrap(err, "wave orchestrator")
	}

	for _, sys := range []systems.System{s.player, s.sim, s.waves, s.world} {
		if err = mgr.Register(sys); err != nil {
			return nil, errors.Wrapf(err, "register %s", sys.Name())
		}
	}

	logger.Info("session created",
		log.String("player", s.player.EntityID()),
		log.Int("waves", len(cfg.Waves.List)),
		log.Float64("fixed_step", cfg.Session.FixedStep),
	)
	return s, nil
}

func (s *Session) buildPlayer(src input.Source, sink *LogSink) *Player {
	c := s.cfg
	health := combat.NewHealth(c.Session.PlayerID, c.Arena.PlayerHP, s.bus)
	p := newPlayer(PlayerConfig{
		ID:           c.Session.PlayerID,
		Spawn:        c.Arena.PlayerSpawn.Vec3(),
		HP:           c.Arena.PlayerHP,
		Radius:       c.Arena.PlayerRadius,
		Height:       c.Arena.PlayerHeight,
		EyeHeight:    c.Arena.EyeHeight,
		MuzzleOffset: c.Arena.MuzzleOffset,
		HalfExtent:   c.Arena.HalfExtent,
		Ceiling:      c.Arena.Ceiling,
	}, health, c.Movement.Controller(), src)
	s.world.attachPlayer(p)
	if src == nil && c.Session.Autopilot {
		p.SetInput(NewAutopilot(s.world))
	}

	shared := []weapon.Option{
		weapon.WithLauncher(s.sim),
		weapon.WithMuzzle(p),
		weapon.WithAudio(sink),
		weapon.WithEffects(sink),
		weapon.WithOwnerHealth(health),
	}
	rifle := c.Rifle.Weapon()
	p.rifle = weapon.NewBoltAction(p.EntityID(), rifle, s.sched, s.logger,
		append(shared, weapon.WithAimListener(p.motion))...)
	s.pool.Warm(rifle.Prototype, rifle.ClipSize)

	if c.Sidearm.Enabled {
		p.sidearm = weapon.NewAutomatic(p.EntityID(), c.Sidearm.Weapon(), s.logger,
			append(shared, weapon.WithRaycaster(s.world))...)
	}
	return p
}

// rng derives a stream for one consumer from the session seed.
func (s *Session) rng(stream string) *rand.Rand {
	seed := s.cfg.Session.Seed
	return rand.New(rand.NewPCG(seed, xxhash.Sum64String(stream+":"+strconv.FormatUint(seed, 10))))
}

func (s *Session) ID() string                       { return s.id }
func (s *Session) Bus() bus.EventBus                { return s.bus }
func (s *Session) Scheduler() *schedule.Scheduler   { return s.sched }
func (s *Session) Systems() *systems.Manager        { return s.systems }
func (s *Session) Simulator() *projectile.Simulator { return s.sim }
func (s *Session) World() *World                    { return s.world }
func (s *Session) Player() *Player                  { return s.player }
func (s *Session) Waves() *waves.Orchestrator       { return s.waves }
func (s *Session) Effects() *fx.Recorder            { return s.fx }
func (s *Session) Now() float64                     { return s.systems.Now() }

// Step advances the session by dt seconds.
func (s *Session) Step(dt float64) {
	s.systems.Step(dt)
}

// Observe calls fn with a fresh Summary every `every` frames, on the
// simulation goroutine.
func (s *Session) Observe(every int64, fn func(Summary)) {
	every = max(1, every)
	s.systems.OnPostUpdate(func(t systems.Tick) {
		if t.Frame%every == 0 {
			fn(s.Summary())
		}
	})
}

// Done reports whether the wave list ran out or the player died.
func (s *Session) Done() bool {
	return s.waves.Done() || !s.player.Alive()
}

// Run steps the session in real time at the configured tick rate until ctx
// ends, the session is done or the configured duration elapsed.
func (s *Session) Run(ctx context.Context) error {
	dt := 1 / s.cfg.Session.TickRate
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		s.Step(dt)
		if s.Done() {
			s.logger.Info("session finished", s.summaryFields()...)
			return nil
		}
		if d := s.cfg.Session.Duration; d > 0 && s.Now() >= d {
			s.logger.Info("session duration reached", s.summaryFields()...)
			return nil
		}
	}
}

// Close tears the session down: waves stop, timers are cancelled and every
// projectile returns to the pool.
func (s *Session) Close() error {
	err := s.waves.Close()
	s.player.rifle.Close()
	s.sched.CancelOwner(s.player.EntityID())
	for _, b := range s.world.Enemies() {
		s.world.Despawn(b.ID())
	}
	s.world.flush()
	s.sim.Clear()
	return err
}

// Summary is a point-in-time view of the session.
type Summary struct {
	Session     string  `json:"session" msgpack:"session"`
	Time        float64 `json:"time" msgpack:"time"`
	Frame       int64   `json:"frame" msgpack:"frame"`
	Wave        int     `json:"wave" msgpack:"wave"`
	Phase       string  `json:"phase" msgpack:"phase"`
	Alive       int     `json:"alive" msgpack:"alive"`
	Score       int     `json:"score" msgpack:"score"`
	PlayerHP    int     `json:"player_hp" msgpack:"player_hp"`
	Ammo        int     `json:"ammo" msgpack:"ammo"`
	ClipSize    int     `json:"clip_size" msgpack:"clip_size"`
	Reloading   bool    `json:"reloading" msgpack:"reloading"`
	Aiming      bool    `json:"aiming" msgpack:"aiming"`
	Running     bool    `json:"running" msgpack:"running"`
	Projectiles int     `json:"projectiles" msgpack:"projectiles"`
	PoolPeak    int     `json:"pool_peak" msgpack:"pool_peak"`
	Timers      int     `json:"timers" msgpack:"timers"`
}

func (s *Session) Summary() Summary {
	r := s.player.rifle
	return Summary{
		Session:     s.id,
		Time:        s.Now(),
		Frame:       s.systems.Frame(),
		Wave:        s.waves.WaveIndex(),
		Phase:       s.waves.Phase().String(),
		Alive:       s.waves.Alive(),
		Score:       s.waves.Score(),
		PlayerHP:    s.player.health.HP(),
		Ammo:        r.Ammo(),
		ClipSize:    r.ClipSize(),
		Reloading:   r.IsReloading(),
		Aiming:      r.IsAiming(),
		Running:     s.player.motion.IsRunning(),
		Projectiles: s.sim.ActiveCount(),
		PoolPeak:    s.pool.HighWater(r.Config().Prototype),
		Timers:      s.sched.Len(),
	}
}

func (s *Session) summaryFields() []log.Field {
	sum := s.Summary()
	return []log.Field{
		log.Float64("time", sum.Time),
		log.Int("wave", sum.Wave),
		log.Int("score", sum.Score),
		log.Int("player_hp", sum.PlayerHP),
	}
}
