package combat

// DefaultTouchInterval is the per-target cooldown between contact hits.
const DefaultTouchInterval = 0.35

// TouchDamage deals contact damage from one entity to the targets it
// overlaps. Each target has its own cooldown; the map is owned by the
// touching entity and pruned when a target leaves.
type TouchDamage struct {
	self     *Health
	damage   int
	interval float64
	victimID string

	nextByTarget map[*Health]float64
}

// NewTouchDamage creates contact damage for self that only hurts the entity
// named victimID (the player).
func NewTouchDamage(self *Health, damage int, interval float64, victimID string) *TouchDamage {
	if interval <= 0 {
		interval = DefaultTouchInterval
	}
	return &TouchDamage{
		self:         self,
		damage:       max(0, damage),
		interval:     interval,
		victimID:     victimID,
		nextByTarget: make(map[*Health]float64),
	}
}

func (t *TouchDamage) SetDamage(d int) { t.damage = max(0, d) }
func (t *TouchDamage) Damage() int     { return t.damage }
func (t *TouchDamage) Tracked() int    { return len(t.nextByTarget) }

// Stay is called every tick target overlaps the toucher. It reports whether
// damage was dealt this call.
func (t *TouchDamage) Stay(now float64, target *Health) bool {
	if target == nil || target.EntityID() != t.victimID || t.self.IsDead() {
		return false
	}
	if next, ok := t.nextByTarget[target]; ok && now < next {
		return false
	}
	t.nextByTarget[target] = now + t.interval
	target.TakeDamage(t.damage, t.self.EntityID())
	return true
}

// Exit forgets target's cooldown.
func (t *TouchDamage) Exit(target *Health) {
	delete(t.nextByTarget, target)
}

// Clear forgets every cooldown, e.g. when the toucher despawns.
func (t *TouchDamage) Clear() {
	clear(t.nextByTarget)
}
