// Package combat holds the per-entity combat truth: hit points, weak spots,
// stun state and contact damage.
package combat

import (
	"github.com/zeusync/arena/internal/core/events"
	"github.com/zeusync/arena/internal/core/events/bus"
)

// Health is the damage/death state of one entity. It is mutated only through
// TakeDamage and publishes Damage and Death on the session bus.
type Health struct {
	entityID string
	maxHP    int
	hp       int
	dead     bool

	bus     bus.EventBus
	onDeath func(killerID string)
}

// NewHealth creates a full-health entity. maxHP below 1 is raised to 1.
func NewHealth(entityID string, maxHP int, b bus.EventBus) *Health {
	if maxHP < 1 {
		maxHP = 1
	}
	return &Health{entityID: entityID, maxHP: maxHP, hp: maxHP, bus: b}
}

func (h *Health) EntityID() string { return h.entityID }
func (h *Health) MaxHP() int       { return h.maxHP }
func (h *Health) HP() int          { return h.hp }
func (h *Health) IsDead() bool     { return h.dead }

// SetEntityID renames the entity; enemies get their final id at spawn time.
func (h *Health) SetEntityID(id string) { h.entityID = id }

// OnDeath registers the owner's removal callback, invoked after Death is published.
func (h *Health) OnDeath(fn func(killerID string)) { h.onDeath = fn }

// Reset restores full health for a recycled entity.
func (h *Health) Reset(maxHP int) {
	if maxHP < 1 {
		maxHP = 1
	}
	h.maxHP = maxHP
	h.hp = maxHP
	h.dead = false
}

// TakeDamage applies amount (negative amounts count as zero) from sourceID.
// Dead entities ignore it. Every call on a live entity publishes Damage; the
// call that brings hp to zero then publishes Death once and signals removal.
func (h *Health) TakeDamage(amount int, sourceID string) {
	if h.dead {
		return
	}
	amount = max(0, amount)
	h.hp = max(0, h.hp-amount)

	h.publish(events.Damage{Amount: amount, SourceID: sourceID, TargetID: h.entityID})

	if h.hp > 0 {
		return
	}
	h.dead = true
	h.publish(events.Death{EntityID: h.entityID, KillerID: sourceID})
	if h.onDeath != nil {
		h.onDeath(sourceID)
	}
}

func (h *Health) publish(e bus.Event) {
	if h.bus != nil {
		h.bus.Publish(e)
	}
}
