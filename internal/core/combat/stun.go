package combat

// Stunnable tracks when an entity's stun ends. Stuns only ever extend.
type Stunnable struct {
	endTime float64
}

// Stun keeps the entity stunned until at least now+duration.
func (s *Stunnable) Stun(now, duration float64) {
	s.endTime = max(s.endTime, now+max(0, duration))
}

func (s *Stunnable) IsStunned(now float64) bool { return now < s.endTime }
func (s *Stunnable) EndTime() float64           { return s.endTime }
func (s *Stunnable) Reset()                     { s.endTime = 0 }
