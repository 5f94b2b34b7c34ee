// Package events declares the combat and progression channels carried by the
// session bus and the immutable payloads published on them.
package events

import "github.com/zeusync/arena/internal/core/events/bus"

const (
	ChannelDamage        bus.Channel = "combat.damage"
	ChannelDeath         bus.Channel = "combat.death"
	ChannelWaveStarted   bus.Channel = "wave.started"
	ChannelWaveCompleted bus.Channel = "wave.completed"
	ChannelScore         bus.Channel = "progress.score"
)

// All lists every channel in a stable order.
var All = []bus.Channel{
	ChannelDamage,
	ChannelDeath,
	ChannelWaveStarted,
	ChannelWaveCompleted,
	ChannelScore,
}

// Damage is published for every damage call that reaches a live entity.
type Damage struct {
	Amount   int    `msgpack:"amount" json:"amount"`
	SourceID string `msgpack:"source" json:"source"`
	TargetID string `msgpack:"target" json:"target"`
}

// Death is published exactly once per entity, after its killing Damage.
type Death struct {
	EntityID string `msgpack:"entity" json:"entity"`
	KillerID string `msgpack:"killer" json:"killer"`
}

type WavePhase uint8

const (
	WaveStarted WavePhase = iota
	WaveCompleted
)

func (p WavePhase) String() string {
	if p == WaveCompleted {
		return "completed"
	}
	return "started"
}

// Wave marks the start or the clearance of a wave. The phase selects the channel.
type Wave struct {
	Index int       `msgpack:"index" json:"index"`
	Phase WavePhase `msgpack:"phase" json:"phase"`
}

// Score carries the new running total; it never decreases.
type Score struct {
	NewScore int `msgpack:"score" json:"score"`
}

func (Damage) Channel() bus.Channel { return ChannelDamage }
func (Death) Channel() bus.Channel  { return ChannelDeath }
func (Score) Channel() bus.Channel  { return ChannelScore }

func (w Wave) Channel() bus.Channel {
	if w.Phase == WaveCompleted {
		return ChannelWaveCompleted
	}
	return ChannelWaveStarted
}
