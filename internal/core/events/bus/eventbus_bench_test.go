package bus

import (
	"strconv"
	"testing"
)

type nopObserver struct{}

func (nopObserver) OnPublish(Channel, Event)               {}
func (nopObserver) OnDelivered(Channel, int, error, int64) {}

func BenchmarkPublishSingleSubscriber(b *testing.B) {
	bus := New(nil)
	var c int64
	_, _ = bus.Subscribe("tick", "count", func(Event) error { c++; return nil })
	e := testEvent{ch: "tick"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bus.Publish(e)
	}
}

func BenchmarkPublishManySubscribers(b *testing.B) {
	for _, subs := range []int{1, 4, 16, 64} {
		b.Run("subs="+strconv.Itoa(subs), func(b *testing.B) {
			bus := New(nil)
			var c int64
			for i := 0; i < subs; i++ {
				_, _ = bus.Subscribe("tick", "", func(Event) error { c++; return nil })
			}
			e := testEvent{ch: "tick"}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				bus.Publish(e)
			}
		})
	}
}

func BenchmarkPublishWithObserver(b *testing.B) {
	bus := New(nil)
	bus.AddObserver(nopObserver{})
	_, _ = bus.Subscribe("tick", "nop", func(Event) error { return nil })
	e := testEvent{ch: "tick"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bus.Publish(e)
	}
}
