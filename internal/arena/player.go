package arena

import (
	"github.com/zeusync/arena/internal/core/combat"
	"github.com/zeusync/arena/internal/core/input"
	"github.com/zeusync/arena/internal/core/movement"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
	"github.com/zeusync/arena/internal/core/weapon"
)

// PlayerConfig places and sizes the player.
type PlayerConfig struct {
	ID           string
	Spawn        physics.Vec3
	HP           int
	Radius       float64
	Height       float64
	EyeHeight    float64
	MuzzleOffset float64
	HalfExtent   float64
	Ceiling      float64
}

// Player binds health, the movement controller and the weapons to one input
// source. It is the waves.Target and the chase target of every enemy.
type Player struct {
	cfg    PlayerConfig
	health *combat.Health
	mover  *movement.PlaneMover
	motion *movement.Controller
	body   *Body
	input  input.Source

	rifle   *weapon.BoltAction
	sidearm *weapon.Automatic
}

func newPlayer(cfg PlayerConfig, health *combat.Health, motion movement.Config, src input.Source) *Player {
	mover := movement.NewPlaneMover(cfg.Spawn, cfg.Height)
	mover.HalfExtent = cfg.HalfExtent
	if cfg.Ceiling > 0 {
		mover.Ceiling = cfg.Spawn.Y + cfg.Ceiling
	}
	p := &Player{
		cfg:    cfg,
		health: health,
		mover:  mover,
		motion: movement.NewController(motion, mover),
		input:  src,
	}
	p.body = &Body{id: cfg.ID, layer: LayerPlayer, radius: cfg.Radius, health: health}
	p.syncBody()
	return p
}

func (p *Player) Name() string                 { return "player" }
func (p *Player) Priority() systems.Priority   { return systems.PriorityHighest }
func (p *Player) EntityID() string             { return p.cfg.ID }
func (p *Player) Position() physics.Vec3       { return p.mover.Position() }
func (p *Player) Forward() physics.Vec3        { return p.motion.Forward() }
func (p *Player) Health() *combat.Health       { return p.health }
func (p *Player) Motion() *movement.Controller { return p.motion }
func (p *Player) Rifle() *weapon.BoltAction    { return p.rifle }
func (p *Player) Sidearm() *weapon.Automatic   { return p.sidearm }
func (p *Player) Alive() bool                  { return !p.health.IsDead() }
func (p *Player) SetInput(src input.Source)    { p.input = src }

func (p *Player) FixedUpdate(systems.Tick) {}

// Eye is the camera position.
func (p *Player) Eye() physics.Vec3 {
	return p.mover.Position().Add(physics.V3(0, p.cfg.EyeHeight, 0))
}

// MuzzlePosition implements weapon.Muzzle.
func (p *Player) MuzzlePosition() physics.Vec3 {
	return p.Eye().Add(p.Forward().Scale(p.cfg.MuzzleOffset))
}

// Push displaces the player through the mover, e.g. for knockback.
func (p *Player) Push(d physics.Vec3) {
	p.mover.Move(d)
	p.syncBody()
}

// Update samples input and runs movement then the weapons. A dead player no
// longer acts.
func (p *Player) Update(t systems.Tick) {
	if !p.Alive() {
		return
	}
	var in input.Frame
	if p.input != nil {
		in = p.input.Sample(t.Now)
	}
	p.motion.Tick(t, in)
	p.syncBody()
	if p.rifle != nil {
		p.rifle.Tick(t, in)
	}
	if p.sidearm != nil {
		p.sidearm.Tick(t, input.Frame{FireHeld: in.AltFireHeld})
	}
}

func (p *Player) syncBody() {
	p.body.position = p.mover.Position().Add(physics.V3(0, p.cfg.Height/2, 0))
}
