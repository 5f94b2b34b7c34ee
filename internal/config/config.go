// Package config loads the arena session configuration: one YAML document
// overlaid on built-in defaults, then environment overrides.
package config

import (
	"github.com/zeusync/arena/internal/core/combat"
	"github.com/zeusync/arena/internal/core/enemy"
	"github.com/zeusync/arena/internal/core/movement"
	"github.com/zeusync/arena/internal/core/projectile"
	"github.com/zeusync/arena/internal/core/systems/physics"
	"github.com/zeusync/arena/internal/core/waves"
	"github.com/zeusync/arena/internal/core/weapon"
)

// Vec is a YAML [x, y, z] triple.
type Vec [3]float64

func (v Vec) Vec3() physics.Vec3 { return physics.V3(v[0], v[1], v[2]) }

// Config is the full session configuration.
type Config struct {
	Session     SessionConfig               `json:"session" yaml:"session"`
	Log         LogConfig                   `json:"log" yaml:"log"`
	Telemetry   TelemetryConfig             `json:"telemetry" yaml:"telemetry"`
	Arena       ArenaConfig                 `json:"arena" yaml:"arena"`
	Movement    MovementConfig              `json:"movement" yaml:"movement"`
	Rifle       RifleConfig                 `json:"rifle" yaml:"rifle"`
	Sidearm     SidearmConfig               `json:"sidearm" yaml:"sidearm"`
	Projectiles map[string]BallisticsConfig `json:"projectiles" yaml:"projectiles"`
	Archetypes  []ArchetypeConfig           `json:"archetypes" yaml:"archetypes"`
	Waves       WavesConfig                 `json:"waves" yaml:"waves"`
}

// SessionConfig drives the simulation loop.
type SessionConfig struct {
	Seed      uint64  `json:"seed" yaml:"seed"`
	TickRate  float64 `json:"tick_rate" yaml:"tick_rate"`
	FixedStep float64 `json:"fixed_step" yaml:"fixed_step"`
	MaxSteps  int     `json:"max_fixed_steps" yaml:"max_fixed_steps"`
	Duration  float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
	PlayerID  string  `json:"player_id" yaml:"player_id"`
	Autopilot bool    `json:"autopilot" yaml:"autopilot"`
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

// TelemetryConfig controls the event feed. Format is the feed encoding: msgpack or json.
type TelemetryConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr" yaml:"addr"`
	Buffer  int    `json:"buffer" yaml:"buffer"`
	Format  string `json:"format" yaml:"format"`
}

// ArenaConfig describes the headless world geometry.
type ArenaConfig struct {
	HalfExtent     float64 `json:"half_extent" yaml:"half_extent"`
	Ceiling        float64 `json:"ceiling" yaml:"ceiling"`
	PlayerSpawn    Vec     `json:"player_spawn" yaml:"player_spawn"`
	PlayerHP       int     `json:"player_hp" yaml:"player_hp"`
	PlayerRadius   float64 `json:"player_radius" yaml:"player_radius"`
	PlayerHeight   float64 `json:"player_height" yaml:"player_height"`
	EyeHeight      float64 `json:"eye_height" yaml:"eye_height"`
	MuzzleOffset   float64 `json:"muzzle_offset" yaml:"muzzle_offset"`
	TouchInterval  float64 `json:"touch_interval" yaml:"touch_interval"`
	Knockback      float64 `json:"knockback" yaml:"knockback"`
	EffectsHistory int     `json:"effects_history" yaml:"effects_history"`
}

type MovementConfig struct {
	Sensitivity    float64 `json:"sensitivity" yaml:"sensitivity"`
	MaxPitch       float64 `json:"max_pitch" yaml:"max_pitch"`
	MaxGroundSpeed float64 `json:"max_ground_speed" yaml:"max_ground_speed"`
	MaxAirSpeed    float64 `json:"max_air_speed" yaml:"max_air_speed"`
	GroundAccel    float64 `json:"ground_accel" yaml:"ground_accel"`
	AirAccel       float64 `json:"air_accel" yaml:"air_accel"`
	Friction       float64 `json:"friction" yaml:"friction"`
	Gravity        float64 `json:"gravity" yaml:"gravity"`
	JumpHeight     float64 `json:"jump_height" yaml:"jump_height"`
	GroundStick    float64 `json:"ground_stick" yaml:"ground_stick"`
	RunMultiplier  float64 `json:"run_multiplier" yaml:"run_multiplier"`
	AimMultiplier  float64 `json:"aim_multiplier" yaml:"aim_multiplier"`
	BunnyHop       bool    `json:"bunny_hop" yaml:"bunny_hop"`
	ClampDiagonal  bool    `json:"clamp_diagonal" yaml:"clamp_diagonal"`
}

type RifleConfig struct {
	Prototype  string  `json:"prototype" yaml:"prototype"`
	Damage     int     `json:"damage" yaml:"damage"`
	Speed      float64 `json:"speed" yaml:"speed"`
	Lifetime   float64 `json:"lifetime" yaml:"lifetime"`
	Radius     float64 `json:"radius" yaml:"radius"`
	ClipSize   int     `json:"clip_size" yaml:"clip_size"`
	ReloadTime float64 `json:"reload_time" yaml:"reload_time"`
	CycleTime  float64 `json:"cycle_time" yaml:"cycle_time"`
	ToggleAim  bool    `json:"toggle_aim" yaml:"toggle_aim"`
}

// SidearmConfig is the optional automatic weapon.
type SidearmConfig struct {
	Enabled   bool    `json:"enabled" yaml:"enabled"`
	Mode      string  `json:"mode" yaml:"mode"` // projectile | hitscan
	FireRate  float64 `json:"fire_rate" yaml:"fire_rate"`
	Damage    int     `json:"damage" yaml:"damage"`
	Prototype string  `json:"prototype,omitempty" yaml:"prototype,omitempty"`
	Speed     float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
	Lifetime  float64 `json:"lifetime,omitempty" yaml:"lifetime,omitempty"`
	Range     float64 `json:"range,omitempty" yaml:"range,omitempty"`
}

type BallisticsConfig struct {
	UseDrop           bool    `json:"use_drop" yaml:"use_drop"`
	GravityScale      float64 `json:"gravity_scale" yaml:"gravity_scale"`
	DropStartDistance float64 `json:"drop_start_distance" yaml:"drop_start_distance"`
	DropStartTime     float64 `json:"drop_start_time" yaml:"drop_start_time"`
	MaxTravelDistance float64 `json:"max_travel_distance" yaml:"max_travel_distance"`
	UseWorldBounds    bool    `json:"use_world_bounds" yaml:"use_world_bounds"`
	BoundsCenter      Vec     `json:"bounds_center" yaml:"bounds_center"`
	BoundsSize        Vec     `json:"bounds_size" yaml:"bounds_size"`
	HitLayers         []int   `json:"hit_layers,omitempty" yaml:"hit_layers,omitempty"`
	ImpactEffect      string  `json:"impact_effect" yaml:"impact_effect"`
	DamageEffect      string  `json:"damage_effect" yaml:"damage_effect"`
}

type WeakSpotConfig struct {
	Kind         string  `json:"kind" yaml:"kind"`
	Multiplier   float64 `json:"multiplier" yaml:"multiplier"`
	InstantKill  bool    `json:"instant_kill" yaml:"instant_kill"`
	StunDuration float64 `json:"stun_duration" yaml:"stun_duration"`
	Offset       Vec     `json:"offset" yaml:"offset"`
	Radius       float64 `json:"radius" yaml:"radius"`
}

type ArchetypeConfig struct {
	ID          string           `json:"id" yaml:"id"`
	HP          int              `json:"hp" yaml:"hp"`
	MoveSpeed   float64          `json:"move_speed" yaml:"move_speed"`
	TouchDamage int              `json:"touch_damage" yaml:"touch_damage"`
	ScoreOnKill int              `json:"score_on_kill" yaml:"score_on_kill"`
	Radius      float64          `json:"radius" yaml:"radius"`
	WeakSpots   []WeakSpotConfig `json:"weak_spots,omitempty" yaml:"weak_spots,omitempty"`
}

type WaveConfig struct {
	Enemies       []string `json:"enemies" yaml:"enemies"`
	Count         int      `json:"count" yaml:"count"`
	SpawnInterval float64  `json:"spawn_interval" yaml:"spawn_interval"`
}

type WavesConfig struct {
	Cooldown    float64      `json:"cooldown" yaml:"cooldown"`
	SpawnPoints []Vec        `json:"spawn_points" yaml:"spawn_points"`
	List        []WaveConfig `json:"list" yaml:"list"`
}

// Default returns the stock arena: one rifle, cube enemies, three waves.
func Default() Config {
	mv := movement.DefaultConfig()
	rifle := weapon.DefaultBoltConfig()
	side := weapon.DefaultHitscanGun()
	arch := enemy.DefaultArchetype()
	return Config{
		Session: SessionConfig{
			Seed:      1,
			TickRate:  60,
			FixedStep: 0.02,
			MaxSteps:  5,
			PlayerID:  "Player",
			Autopilot: true,
		},
		Log:       LogConfig{Level: "info"},
		Telemetry: TelemetryConfig{Enabled: false, Addr: "127.0.0.1:8089", Buffer: 256, Format: "msgpack"},
		Arena: ArenaConfig{
			HalfExtent:     30,
			Ceiling:        8,
			PlayerHP:       100,
			PlayerRadius:   0.4,
			PlayerHeight:   1.8,
			EyeHeight:      1.6,
			MuzzleOffset:   0.6,
			TouchInterval:  combat.DefaultTouchInterval,
			Knockback:      3.5,
			EffectsHistory: 64,
		},
		Movement: MovementConfig{
			Sensitivity:    mv.Sensitivity,
			MaxPitch:       mv.MaxPitch,
			MaxGroundSpeed: mv.MaxGroundSpeed,
			MaxAirSpeed:    mv.MaxAirSpeed,
			GroundAccel:    mv.GroundAccel,
			AirAccel:       mv.AirAccel,
			Friction:       mv.Friction,
			Gravity:        mv.Gravity,
			JumpHeight:     mv.JumpHeight,
			GroundStick:    mv.GroundStick,
			RunMultiplier:  mv.RunMultiplier,
			AimMultiplier:  mv.AimMultiplier,
			BunnyHop:       mv.BunnyHop,
			ClampDiagonal:  mv.ClampDiagonal,
		},
		Rifle: RifleConfig{
			Prototype:  rifle.Prototype,
			Damage:     rifle.Damage,
			Speed:      rifle.Speed,
			Lifetime:   rifle.Lifetime,
			Radius:     rifle.Radius,
			ClipSize:   rifle.ClipSize,
			ReloadTime: rifle.ReloadTime,
			CycleTime:  rifle.CycleTime,
		},
		Sidearm: SidearmConfig{
			Enabled:  false,
			Mode:     "hitscan",
			FireRate: side.FireRate,
			Damage:   side.Damage,
			Range:    side.Range,
		},
		Projectiles: map[string]BallisticsConfig{
			rifle.Prototype: ballisticsFrom(projectile.DefaultBallistics()),
		},
		Archetypes: []ArchetypeConfig{archetypeFrom(arch)},
		Waves: WavesConfig{
			Cooldown: waves.DefaultCooldown,
			SpawnPoints: []Vec{
				{12, 0, 12}, {-12, 0, 12}, {12, 0, -12}, {-12, 0, -12},
			},
			List: []WaveConfig{
				{Enemies: []string{arch.ID}, Count: 3, SpawnInterval: 0.6},
				{Enemies: []string{arch.ID}, Count: 5, SpawnInterval: 0.6},
				{Enemies: []string{arch.ID}, Count: 8, SpawnInterval: 0.5},
			},
		},
	}
}

func ballisticsFrom(b projectile.Ballistics) BallisticsConfig {
	c := b.Bounds.Center
	s := b.Bounds.Size
	return BallisticsConfig{
		UseDrop:           b.UseDrop,
		GravityScale:      b.GravityScale,
		DropStartDistance: b.DropStartDistance,
		DropStartTime:     b.DropStartTime,
		MaxTravelDistance: b.MaxTravelDistance,
		UseWorldBounds:    b.UseWorldBounds,
		BoundsCenter:      Vec{c.X, c.Y, c.Z},
		BoundsSize:        Vec{s.X, s.Y, s.Z},
		ImpactEffect:      b.ImpactEffect,
		DamageEffect:      b.DamageEffect,
	}
}

func archetypeFrom(a enemy.Archetype) ArchetypeConfig {
	out := ArchetypeConfig{
		ID:          a.ID,
		HP:          a.HP,
		MoveSpeed:   a.MoveSpeed,
		TouchDamage: a.TouchDamage,
		ScoreOnKill: a.ScoreOnKill,
		Radius:      a.Radius,
	}
	for _, ws := range a.WeakSpots {
		out.WeakSpots = append(out.WeakSpots, WeakSpotConfig{
			Kind:         ws.Kind.String(),
			Multiplier:   ws.DamageMultiplier,
			InstantKill:  ws.InstantKill,
			StunDuration: ws.StunDuration,
			Offset:       Vec{ws.Offset.X, ws.Offset.Y, ws.Offset.Z},
			Radius:       ws.Radius,
		})
	}
	return out
}
