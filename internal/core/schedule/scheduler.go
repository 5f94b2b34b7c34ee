// Package schedule holds delayed continuations ({fireAt, action}) that are
// polled from the simulation loop instead of running on their own timers.
// Entries belong to an owner id; tearing the owner down cancels them so no
// action ever runs against a despawned object.
package schedule

import (
	"github.com/zeusync/arena/pkg/sequence"
)

// Entry is a pending continuation.
type Entry struct {
	owner     string
	fireAt    float64
	seq       uint64
	action    func(now float64)
	cancelled bool
	done      bool
	item      *sequence.PriorityItem[*Entry]
}

func (e *Entry) Owner() string   { return e.owner }
func (e *Entry) FireAt() float64 { return e.fireAt }
func (e *Entry) Pending() bool   { return e != nil && !e.cancelled && !e.done }
func (e *Entry) Cancelled() bool { return e != nil && e.cancelled }

// Scheduler is not safe for concurrent use; it is advanced by the simulation goroutine.
type Scheduler struct {
	queue   *sequence.PriorityQueue[*Entry]
	byOwner map[string]map[*Entry]struct{}
	nextSeq uint64
	now     float64
}

func New() *Scheduler {
	return &Scheduler{
		queue: sequence.NewPriorityQueue(func(a, b *Entry) bool {
			if a.fireAt == b.fireAt {
				return a.seq < b.seq
			}
			return a.fireAt < b.fireAt
		}),
		byOwner: make(map[string]map[*Entry]struct{}),
	}
}

// At schedules action to run on the first Advance whose time reaches fireAt.
func (s *Scheduler) At(owner string, fireAt float64, action func(now float64)) *Entry {
	s.nextSeq++
	e := &Entry{owner: owner, fireAt: fireAt, seq: s.nextSeq, action: action}
	e.item = s.queue.Enqueue(e)
	set, ok := s.byOwner[owner]
	if !ok {
		set = make(map[*Entry]struct{})
		s.byOwner[owner] = set
	}
	set[e] = struct{}{}
	return e
}

// After schedules action delay seconds after the last time passed to Advance.
func (s *Scheduler) After(owner string, delay float64, action func(now float64)) *Entry {
	return s.At(owner, s.now+delay, action)
}

// Cancel drops a pending entry. Safe on nil, fired or cancelled entries.
func (s *Scheduler) Cancel(e *Entry) {
	if !e.Pending() {
		return
	}
	e.cancelled = true
	s.queue.Remove(e.item)
	s.forget(e)
}

// CancelOwner drops every pending entry of owner and reports how many there were.
func (s *Scheduler) CancelOwner(owner string) int {
	set := s.byOwner[owner]
	n := 0
	for e := range set {
		if e.Pending() {
			e.cancelled = true
			s.queue.Remove(e.item)
			n++
		}
	}
	delete(s.byOwner, owner)
	return n
}

// Advance runs every entry due at or before now, earliest first. Entries
// scheduled by an action for a time not later than now also run in this call.
func (s *Scheduler) Advance(now float64) int {
	if now > s.now {
		s.now = now
	}
	ran := 0
	for {
		e, ok := s.queue.Peek()
		if !ok || e.fireAt > now {
			return ran
		}
		s.queue.Dequeue()
		e.done = true
		s.forget(e)
		e.action(now)
		ran++
	}
}

// Now is the latest time passed to Advance.
func (s *Scheduler) Now() float64 { return s.now }

// Len is the number of pending entries.
func (s *Scheduler) Len() int { return s.queue.Len() }

// PendingFor is the number of pending entries owned by owner.
func (s *Scheduler) PendingFor(owner string) int { return len(s.byOwner[owner]) }

func (s *Scheduler) forget(e *Entry) {
	if set, ok := s.byOwner[e.owner]; ok {
		delete(set, e)
		if len(set) == 0 {
			delete(s.byOwner, e.owner)
		}
	}
}
