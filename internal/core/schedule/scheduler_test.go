package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestScheduler_RunsInTimeOrder(t *testing.T) {
	s := New()
	var got []string
	s.At("a", 2, func(float64) { got = append(got, "a2") })
	s.At("b", 1, func(float64) { got = append(got, "b1") })
	s.At("a", 1, func(float64) { got = append(got, "a1") })

	assert.Equal(t, 0, s.Advance(0.5))
	assert.Equal(t, 2, s.Advance(1))
	assert.Equal(t, []string{"b1", "a1"}, got, "ties run in scheduling order")
	assert.Equal(t, 1, s.Advance(5))
	assert.Equal(t, []string{"b1", "a1", "a2"}, got)
	assert.Zero(t, s.Len())
}

func TestScheduler_ActionReceivesAdvanceTime(t *testing.T) {
	s := New()
	var at float64
	s.At("x", 1, func(now float64) { at = now })
	s.Advance(1.25)
	assert.Equal(t, 1.25, at)
}

func TestScheduler_AfterIsRelativeToLastAdvance(t *testing.T) {
	s := New()
	s.Advance(3)
	e := s.After("x", 0.5, func(float64) {})
	assert.Equal(t, 3.5, e.FireAt())
}

func TestScheduler_ChainedEntryDueNowRunsInSameAdvance(t *testing.T) {
	s := New()
	ran := 0
	s.At("x", 1, func(now float64) {
		ran++
		s.At("x", now, func(float64) { ran++ })
	})
	assert.Equal(t, 2, s.Advance(1))
	assert.Equal(t, 2, ran)
}

func TestScheduler_Cancel(t *testing.T) {
	s := New()
	fired := false
	e := s.At("x", 1, func(float64) { fired = true })
	require.True(t, e.Pending())

	s.Cancel(e)
	assert.True(t, e.Cancelled())
	assert.False(t, e.Pending())
	s.Cancel(e)
	s.Cancel(nil)

	s.Advance(2)
	assert.False(t, fired)
	assert.Zero(t, s.PendingFor("x"))
}

func TestScheduler_CancelOwner(t *testing.T) {
	s := New()
	fired := map[string]int{}
	for _, owner := range []string{"a", "a", "b"} {
		s.At(owner, 1, func(float64) { fired[owner]++ })
	}
	assert.Equal(t, 2, s.PendingFor("a"))

	assert.Equal(t, 2, s.CancelOwner("a"))
	assert.Zero(t, s.CancelOwner("a"))
	assert.Zero(t, s.PendingFor("a"))
	assert.Equal(t, 1, s.Len())

	s.Advance(1)
	assert.Equal(t, map[string]int{"b": 1}, fired)
}

func TestScheduler_FiredEntryIsNotPending(t *testing.T) {
	s := New()
	e := s.At("x", 0, func(float64) {})
	s.Advance(0)
	assert.False(t, e.Pending())
	assert.False(t, e.Cancelled())
	s.Cancel(e)
	assert.False(t, e.Cancelled())
}

func TestScheduler_NeverRunsEarlyAndRunsEverythingDue(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New()
		times := rapid.SliceOfN(rapid.Float64Range(0, 10), 1, 30).Draw(t, "times")
		horizon := rapid.Float64Range(0, 10).Draw(t, "horizon")

		last := -1.0
		due := 0
		for _, at := range times {
			if at <= horizon {
				due++
			}
			s.At("x", at, func(now float64) {
				if at > now {
					t.Fatalf("entry for %v ran at %v", at, now)
				}
				if at < last {
					t.Fatalf("entry for %v ran after %v", at, last)
				}
				last = at
			})
		}
		if ran := s.Advance(horizon); ran != due {
			t.Fatalf("ran %d entries, %d were due", ran, due)
		}
	})
}
