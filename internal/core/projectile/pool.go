package projectile

import (
	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/arena/pkg/generic"
)

// Key derives the pool key of a prototype id.
func Key(prototype string) uint64 {
	return xxhash.Sum64String(prototype)
}

// Pool recycles projectiles per prototype. An instance is either checked out
// or queued in exactly one free list. Instances are never destroyed, so the
// per-prototype population equals the high-water mark of simultaneous
// checkouts.
//
// Pool is owned by the simulation goroutine.
type Pool struct {
	free  *generic.KeyedPool[uint64, *Projectile]
	names map[uint64]string
	live  map[uint64]int
	peak  map[uint64]int
}

func NewPool() *Pool {
	p := &Pool{
		names: make(map[uint64]string),
		live:  make(map[uint64]int),
		peak:  make(map[uint64]int),
	}
	p.free = generic.NewKeyedPool(func(key uint64) *Projectile {
		return &Projectile{poolKey: key, prototype: p.names[key], slot: -1}
	})
	return p
}

// Warm makes sure at least n instances of prototype exist.
func (p *Pool) Warm(prototype string, n int) {
	var batch []*Projectile
	for p.Created(prototype) < n {
		batch = append(batch, p.Acquire(prototype))
	}
	for _, pr := range batch {
		p.Release(pr)
	}
}

// Acquire returns an idle instance of prototype, or a new one tagged with the
// prototype's key.
func (p *Pool) Acquire(prototype string) *Projectile {
	key := p.register(prototype)
	pr, _ := p.free.Get(key)
	pr.queued = false
	p.live[key]++
	p.peak[key] = max(p.peak[key], p.live[key])
	return pr
}

// Release queues pr for reuse. It reports false when pr is nil or already
// queued.
func (p *Pool) Release(pr *Projectile) bool {
	if pr == nil || pr.queued {
		return false
	}
	pr.reset()
	pr.queued = true
	p.live[pr.poolKey]--
	p.free.Put(pr.poolKey, pr)
	return true
}

// Live reports checked-out instances of prototype.
func (p *Pool) Live(prototype string) int { return p.live[Key(prototype)] }

// Idle reports queued instances of prototype.
func (p *Pool) Idle(prototype string) int { return p.free.Idle(Key(prototype)) }

// HighWater reports the most instances of prototype ever checked out at once.
func (p *Pool) HighWater(prototype string) int { return p.peak[Key(prototype)] }

// Created reports how many instances of prototype exist.
func (p *Pool) Created(prototype string) int { return p.free.Created(Key(prototype)) }

func (p *Pool) register(prototype string) uint64 {
	key := Key(prototype)
	if _, ok := p.names[key]; !ok {
		p.names[key] = prototype
	}
	return key
}
