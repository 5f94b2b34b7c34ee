package weapon

import (
	"github.com/zeusync/arena/internal/core/combat"
	"github.com/zeusync/arena/internal/core/fx"
	"github.com/zeusync/arena/internal/core/input"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/projectile"
	"github.com/zeusync/arena/internal/core/schedule"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// BoltConfig tunes a bolt-action rifle.
type BoltConfig struct {
	Prototype  string
	Damage     int
	Speed      float64
	Lifetime   float64
	Radius     float64
	ClipSize   int
	ReloadTime float64
	CycleTime  float64
	AimMode    AimMode
}

func DefaultBoltConfig() BoltConfig {
	return BoltConfig{
		Prototype:  "rifle.round",
		Damage:     8,
		Speed:      55,
		Lifetime:   2,
		Radius:     0.05,
		ClipSize:   5,
		ReloadTime: 1.35,
		CycleTime:  0.75,
		AimMode:    AimHold,
	}
}

// Option wires optional collaborators into a weapon.
type Option func(*options)

type options struct {
	launcher    Launcher
	muzzle      Muzzle
	aim         AimListener
	audio       fx.Audio
	effects     fx.Effects
	raycaster   Raycaster
	ownerHealth *combat.Health
}

func WithLauncher(l Launcher) Option          { return func(o *options) { o.launcher = l } }
func WithMuzzle(m Muzzle) Option              { return func(o *options) { o.muzzle = m } }
func WithAimListener(a AimListener) Option    { return func(o *options) { o.aim = a } }
func WithAudio(a fx.Audio) Option             { return func(o *options) { o.audio = a } }
func WithEffects(e fx.Effects) Option         { return func(o *options) { o.effects = e } }
func WithRaycaster(r Raycaster) Option        { return func(o *options) { o.raycaster = r } }
func WithOwnerHealth(h *combat.Health) Option { return func(o *options) { o.ownerHealth = h } }

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.audio = fx.AudioOrNop(o.audio)
	o.effects = fx.EffectsOrNop(o.effects)
	return o
}

// BoltAction is a clip-fed rifle. It leaves Cycling and Reloading only when
// the scheduled timeout fires; requests arriving outside Ready are dropped.
type BoltAction struct {
	cfg     BoltConfig
	ownerID string
	opts    options
	sched   *schedule.Scheduler
	logger  log.Log

	state   State
	ammo    int
	aiming  bool
	readyAt float64
	timer   *schedule.Entry
	shots   uint64
}

// NewBoltAction creates a rifle with a full clip. Timeouts are scheduled on
// sched under ownerID.
func NewBoltAction(ownerID string, cfg BoltConfig, sched *schedule.Scheduler, logger log.Log, opts ...Option) *BoltAction {
	if logger == nil {
		logger = log.NewNop()
	}
	if sched == nil {
		sched = schedule.New()
	}
	cfg.ClipSize = max(1, cfg.ClipSize)
	return &BoltAction{
		cfg:     cfg,
		ownerID: ownerID,
		opts:    collect(opts),
		sched:   sched,
		logger:  logger.Named("weapon").With(log.String("owner", ownerID)),
		ammo:    cfg.ClipSize,
	}
}

func (w *BoltAction) State() State           { return w.state }
func (w *BoltAction) Ammo() int              { return w.ammo }
func (w *BoltAction) ClipSize() int          { return w.cfg.ClipSize }
func (w *BoltAction) Damage() int            { return w.cfg.Damage }
func (w *BoltAction) IsAiming() bool         { return w.aiming }
func (w *BoltAction) IsReloading() bool      { return w.state == Reloading }
func (w *BoltAction) ReadyAt() float64       { return w.readyAt }
func (w *BoltAction) Shots() uint64          { return w.shots }
func (w *BoltAction) Config() BoltConfig     { return w.cfg }
func (w *BoltAction) SetMuzzle(m Muzzle)     { w.opts.muzzle = m }
func (w *BoltAction) SetLauncher(l Launcher) { w.opts.launcher = l }

// Tick processes one input sample: aim edges, then the reload request, then
// the fire request. Aim is forced off whenever the rifle is not Ready.
func (w *BoltAction) Tick(t systems.Tick, in input.Frame) {
	w.handleAim(in)
	if in.ReloadPressed {
		w.Reload(t.Now)
	}
	if in.FirePressed {
		w.Fire(t.Now)
	}
	if w.state != Ready && w.aiming {
		w.setAiming(false)
	}
}

func (w *BoltAction) handleAim(in input.Frame) {
	switch w.cfg.AimMode {
	case AimToggle:
		if in.AimPressed {
			w.setAiming(!w.aiming)
		}
	default:
		if in.AimPressed {
			w.setAiming(true)
		}
		if in.AimReleased {
			w.setAiming(false)
		}
	}
}

// Fire shoots once if Ready. An empty clip starts a reload instead. It
// reports whether a shot was fired.
func (w *BoltAction) Fire(now float64) bool {
	if w.state != Ready {
		return false
	}
	if w.ammo <= 0 {
		w.Reload(now)
		return false
	}
	w.setAiming(false)

	pos := w.muzzlePosition()
	w.opts.audio.Play(fx.CueRifleShot, pos)
	w.launch(now)
	w.ammo--
	w.shots++
	w.beginCycle(now)
	return true
}

func (w *BoltAction) launch(now float64) {
	if w.opts.launcher == nil || w.opts.muzzle == nil {
		return
	}
	w.opts.launcher.Launch(now, projectile.LaunchRequest{
		Prototype:   w.cfg.Prototype,
		OwnerID:     w.ownerID,
		OwnerHealth: w.opts.ownerHealth,
		Damage:      w.cfg.Damage,
		Position:    w.opts.muzzle.MuzzlePosition(),
		Velocity:    w.opts.muzzle.Forward().Normalized().Scale(w.cfg.Speed),
		Lifetime:    w.cfg.Lifetime,
		Radius:      w.cfg.Radius,
	})
}

func (w *BoltAction) beginCycle(now float64) {
	w.state = Cycling
	w.readyAt = now + max(minTimer, w.cfg.CycleTime)
	w.opts.audio.Play(fx.CueRifleBolt, w.muzzlePosition())
	w.timer = w.sched.At(w.ownerID, w.readyAt, func(float64) {
		if w.state == Cycling {
			w.state = Ready
		}
	})
}

// Reload starts a reload if Ready and the clip is not full. Completion
// restores exactly ClipSize rounds and returns to Ready in the same step.
func (w *BoltAction) Reload(now float64) bool {
	if w.state != Ready || w.ammo >= w.cfg.ClipSize {
		return false
	}
	w.setAiming(false)
	w.state = Reloading
	w.readyAt = now + max(minTimer, w.cfg.ReloadTime)
	w.opts.audio.Play(fx.CueRifleReload, w.muzzlePosition())
	w.timer = w.sched.At(w.ownerID, w.readyAt, func(float64) {
		if w.state != Reloading {
			return
		}
		w.ammo = w.cfg.ClipSize
		w.state = Ready
		w.logger.Debug("reloaded", log.Int("ammo", w.ammo))
	})
	return true
}

// SetAiming requests aim on or off. Aim can only be entered while Ready.
func (w *BoltAction) SetAiming(aiming bool) { w.setAiming(aiming) }

func (w *BoltAction) setAiming(aiming bool) {
	if w.aiming == aiming {
		return
	}
	if aiming && w.state != Ready {
		return
	}
	w.aiming = aiming
	if w.opts.aim != nil {
		w.opts.aim.SetAiming(aiming)
	}
}

// AddDamage raises (or lowers) the per-shot damage, never below zero.
func (w *BoltAction) AddDamage(amount int) {
	w.cfg.Damage = max(0, w.cfg.Damage+amount)
}

// SetClipSize changes the clip, at least 1, clamping the rounds loaded.
func (w *BoltAction) SetClipSize(size int) {
	w.cfg.ClipSize = max(1, size)
	w.ammo = min(max(0, w.ammo), w.cfg.ClipSize)
}

// Close cancels the pending cycle or reload timeout.
func (w *BoltAction) Close() {
	w.sched.Cancel(w.timer)
	w.timer = nil
}

func (w *BoltAction) muzzlePosition() physics.Vec3 {
	if w.opts.muzzle == nil {
		return physics.Zero
	}
	return w.opts.muzzle.MuzzlePosition()
}
