package projectile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPool_RoundTrip(t *testing.T) {
	p := NewPool()
	first := p.Acquire("rifle.round")
	require.NotNil(t, first)
	assert.Equal(t, Key("rifle.round"), first.PoolKey())
	assert.Equal(t, "rifle.round", first.Prototype())

	assert.True(t, p.Release(first))
	assert.Equal(t, 1, p.Idle("rifle.round"))

	second := p.Acquire("rifle.round")
	assert.Same(t, first, second)
	assert.Equal(t, Key("rifle.round"), second.PoolKey())
	assert.Equal(t, 1, p.Created("rifle.round"))
}

func TestPool_DoubleReleaseIgnored(t *testing.T) {
	p := NewPool()
	pr := p.Acquire("a")
	assert.True(t, p.Release(pr))
	assert.False(t, p.Release(pr))
	assert.False(t, p.Release(nil))
	assert.Equal(t, 1, p.Idle("a"))
	assert.Equal(t, 0, p.Live("a"))
}

func TestPool_PrototypesAreSeparate(t *testing.T) {
	p := NewPool()
	a := p.Acquire("a")
	p.Release(a)
	b := p.Acquire("b")
	assert.NotSame(t, a, b)
	assert.NotEqual(t, a.PoolKey(), b.PoolKey())
	assert.Equal(t, 1, p.Idle("a"))
}

func TestPool_Warm(t *testing.T) {
	p := NewPool()
	p.Warm("a", 4)
	assert.Equal(t, 4, p.Idle("a"))
	assert.Equal(t, 4, p.Created("a"))
	p.Warm("a", 2)
	assert.Equal(t, 4, p.Created("a"))
}

func TestPool_NeverExceedsHighWater(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := NewPool()
		protos := []string{"a", "b"}
		var out []*Projectile

		steps := rapid.IntRange(1, 200).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(out) == 0 || rapid.Bool().Draw(t, "acquire") {
				out = append(out, p.Acquire(rapid.SampledFrom(protos).Draw(t, "proto")))
			} else {
				idx := rapid.IntRange(0, len(out)-1).Draw(t, "idx")
				p.Release(out[idx])
				out = append(out[:idx], out[idx+1:]...)
			}
			for _, proto := range protos {
				total := p.Live(proto) + p.Idle(proto)
				if total > p.HighWater(proto) {
					t.Fatalf("%s: live+idle %d > high water %d", proto, total, p.HighWater(proto))
				}
				if total != p.Created(proto) {
					t.Fatalf("%s: live+idle %d != created %d", proto, total, p.Created(proto))
				}
			}
		}
	})
}
