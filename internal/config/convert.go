package config

import (
	"strings"

	"github.com/zeusync/arena/internal/core/combat"
	"github.com/zeusync/arena/internal/core/enemy"
	"github.com/zeusync/arena/internal/core/movement"
	"github.com/zeusync/arena/internal/core/projectile"
	"github.com/zeusync/arena/internal/core/systems/physics"
	"github.com/zeusync/arena/internal/core/waves"
	"github.com/zeusync/arena/internal/core/weapon"
)

func (c MovementConfig) Controller() movement.Config {
	return movement.Config{
		Sensitivity:    c.Sensitivity,
		MaxPitch:       c.MaxPitch,
		MaxGroundSpeed: c.MaxGroundSpeed,
		MaxAirSpeed:    c.MaxAirSpeed,
		GroundAccel:    c.GroundAccel,
		AirAccel:       c.AirAccel,
		Friction:       c.Friction,
		Gravity:        c.Gravity,
		JumpHeight:     c.JumpHeight,
		GroundStick:    c.GroundStick,
		RunMultiplier:  c.RunMultiplier,
		AimMultiplier:  c.AimMultiplier,
		BunnyHop:       c.BunnyHop,
		ClampDiagonal:  c.ClampDiagonal,
	}
}

func (c RifleConfig) Weapon() weapon.BoltConfig {
	mode := weapon.AimHold
	if c.ToggleAim {
		mode = weapon.AimToggle
	}
	return weapon.BoltConfig{
		Prototype:  c.Prototype,
		Damage:     c.Damage,
		Speed:      c.Speed,
		Lifetime:   c.Lifetime,
		Radius:     c.Radius,
		ClipSize:   c.ClipSize,
		ReloadTime: c.ReloadTime,
		CycleTime:  c.CycleTime,
		AimMode:    mode,
	}
}

func (c SidearmConfig) Weapon() weapon.AutoConfig {
	mode := weapon.FireProjectile
	if strings.EqualFold(c.Mode, "hitscan") {
		mode = weapon.FireHitscan
	}
	return weapon.AutoConfig{
		Mode:      mode,
		FireRate:  c.FireRate,
		Damage:    c.Damage,
		Prototype: c.Prototype,
		Speed:     c.Speed,
		Lifetime:  c.Lifetime,
		Radius:    0.05,
		Range:     c.Range,
	}
}

func (c BallisticsConfig) Ballistics() projectile.Ballistics {
	mask := projectile.AllLayers
	if len(c.HitLayers) > 0 {
		layers := make([]projectile.Layer, 0, len(c.HitLayers))
		for _, l := range c.HitLayers {
			if l >= 0 && l <= 31 {
				layers = append(layers, projectile.Layer(l))
			}
		}
		mask = projectile.MaskOf(layers...)
	}
	return projectile.Ballistics{
		UseDrop:           c.UseDrop,
		GravityScale:      c.GravityScale,
		DropStartDistance: c.DropStartDistance,
		DropStartTime:     c.DropStartTime,
		MaxTravelDistance: c.MaxTravelDistance,
		UseWorldBounds:    c.UseWorldBounds,
		Bounds:            physics.Bounds{Center: c.BoundsCenter.Vec3(), Size: c.BoundsSize.Vec3()},
		HitMask:           mask,
		ImpactEffect:      c.ImpactEffect,
		DamageEffect:      c.DamageEffect,
	}
}

func (c ArchetypeConfig) Archetype() enemy.Archetype {
	a := enemy.Archetype{
		ID:          c.ID,
		HP:          c.HP,
		MoveSpeed:   c.MoveSpeed,
		TouchDamage: c.TouchDamage,
		ScoreOnKill: c.ScoreOnKill,
		Radius:      c.Radius,
	}
	for _, ws := range c.WeakSpots {
		a.WeakSpots = append(a.WeakSpots, enemy.WeakSpotSpec{
			WeakSpot: combat.WeakSpot{
				Kind:             combat.ParseWeakSpotKind(ws.Kind),
				DamageMultiplier: ws.Multiplier,
				InstantKill:      ws.InstantKill,
				StunDuration:     ws.StunDuration,
			},
			Offset: ws.Offset.Vec3(),
			Radius: ws.Radius,
		})
	}
	return a
}

// WaveList builds the orchestrator content.
func (c Config) WaveList() waves.Config {
	out := waves.Config{
		Archetypes: make(map[string]enemy.Archetype, len(c.Archetypes)),
		Cooldown:   c.Waves.Cooldown,
	}
	for _, a := range c.Archetypes {
		out.Archetypes[a.ID] = a.Archetype()
	}
	for _, p := range c.Waves.SpawnPoints {
		out.SpawnPoints = append(out.SpawnPoints, p.Vec3())
	}
	for _, w := range c.Waves.List {
		out.Waves = append(out.Waves, waves.Wave{
			EnemyPool:     w.Enemies,
			TotalCount:    w.Count,
			SpawnInterval: w.SpawnInterval,
		})
	}
	return out
}
