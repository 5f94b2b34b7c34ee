package bus

import (
	"errors"
	"testing"
)

type testEvent struct {
	ch    Channel
	value int
}

func (e testEvent) Channel() Channel { return e.ch }

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_ Channel, _ Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_ Channel, handlers int, err error, _ int64) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestBasicPublishSubscribe(t *testing.T) {
	b := New(nil)
	got := 0
	_, err := b.Subscribe("test.event", "counter", func(e Event) error {
		got = e.(testEvent).value
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	b.Publish(testEvent{ch: "test.event", value: 123})
	if got != 123 {
		t.Fatalf("handler not called before Publish returned, got %d", got)
	}
}

func TestDeliveryFollowsRegistrationOrder(t *testing.T) {
	b := New(nil)
	var order []string
	for _, name := range []string{"c", "a", "b"} {
		name := name
		_, _ = b.Subscribe("ev", name, func(Event) error {
			order = append(order, name)
			return nil
		})
	}
	b.Publish(testEvent{ch: "ev"})
	if len(order) != 3 || order[0] != "c" || order[1] != "a" || order[2] != "b" {
		t.Fatalf("unexpected order: %v", order)
	}
}

func TestSubscribeIsIdempotentPerName(t *testing.T) {
	b := New(nil)
	calls := 0
	h := func(Event) error { calls++; return nil }
	s1, _ := b.Subscribe("ev", "once", h)
	s2, _ := b.Subscribe("ev", "once", h)
	if s1.ID() != s2.ID() {
		t.Fatalf("expected same subscription, got %s and %s", s1.ID(), s2.ID())
	}
	b.Publish(testEvent{ch: "ev"})
	if calls != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := New(nil)
	calls := 0
	s, _ := b.Subscribe("ev", "x", func(Event) error { calls++; return nil })
	if err := b.Unsubscribe(s); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err := b.Unsubscribe(s); err != nil {
		t.Fatalf("second unsubscribe: %v", err)
	}
	if err := b.Unsubscribe(nil); err != nil {
		t.Fatalf("nil unsubscribe: %v", err)
	}
	b.Publish(testEvent{ch: "ev"})
	if calls != 0 || s.IsActive() {
		t.Fatalf("cancelled handler still active: calls=%d", calls)
	}

	// the name is free again after cancel
	s2, _ := b.Subscribe("ev", "x", func(Event) error { calls++; return nil })
	if s2.ID() == s.ID() {
		t.Fatal("expected a fresh subscription after cancel")
	}
}

func TestFailingHandlerDoesNotStopOthers(t *testing.T) {
	b := New(nil)
	reached := 0
	_, _ = b.Subscribe("ev", "err", func(Event) error { return errors.New("boom") })
	_, _ = b.Subscribe("ev", "panic", func(Event) error { panic("kaboom") })
	_, _ = b.Subscribe("ev", "ok", func(Event) error { reached++; return nil })

	obs := &testObserver{}
	b.AddObserver(obs)
	b.Publish(testEvent{ch: "ev"})

	if reached != 1 {
		t.Fatalf("last handler not reached")
	}
	if obs.lastErr == nil {
		t.Fatal("observer should see the joined handler error")
	}
	if m := b.GetMetrics(); m.Errors != 1 || m.DeliveredHandlers != 3 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestNestedPublishOnOtherChannel(t *testing.T) {
	b := New(nil)
	var seen []Channel
	_, _ = b.Subscribe("death", "score", func(Event) error {
		seen = append(seen, "death")
		b.Publish(testEvent{ch: "score"})
		return nil
	})
	_, _ = b.Subscribe("score", "hud", func(Event) error {
		seen = append(seen, "score")
		return nil
	})
	b.Publish(testEvent{ch: "death"})
	if len(seen) != 2 || seen[1] != "score" {
		t.Fatalf("nested dispatch not delivered: %v", seen)
	}
}

func TestSelfRepublishIsDropped(t *testing.T) {
	b := New(nil)
	calls := 0
	_, _ = b.Subscribe("loop", "echo", func(e Event) error {
		calls++
		b.Publish(e)
		return nil
	})
	b.Publish(testEvent{ch: "loop"})
	if calls != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}
	if b.GetMetrics().Dropped != 1 {
		t.Fatalf("expected one dropped publish, got %+v", b.GetMetrics())
	}
}

func TestDepthLimit(t *testing.T) {
	b := New(nil, WithMaxDepth(2))
	reached := map[Channel]bool{}
	chain := []Channel{"a", "b", "c"}
	for i, ch := range chain {
		i, ch := i, ch
		_, _ = b.Subscribe(ch, "chain", func(Event) error {
			reached[ch] = true
			if i+1 < len(chain) {
				b.Publish(testEvent{ch: chain[i+1]})
			}
			return nil
		})
	}
	b.Publish(testEvent{ch: "a"})
	if !reached["a"] || !reached["b"] || reached["c"] {
		t.Fatalf("depth limit not applied: %v", reached)
	}
}

func TestOnTyped(t *testing.T) {
	b := New(nil)
	total := 0
	_, err := On(b, "ev", "typed", func(e testEvent) error {
		total += e.value
		return nil
	})
	if err != nil {
		t.Fatalf("on: %v", err)
	}
	b.Publish(testEvent{ch: "ev", value: 2})
	b.Publish(testEvent{ch: "ev", value: 3})
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
}

func TestMetricsCountedWithoutObservers(t *testing.T) {
	b := New(nil)
	_, _ = b.Subscribe("e", "", func(Event) error { return nil })
	_, _ = b.Subscribe("e", "", func(Event) error { return errors.New("boom") })
	b.Publish(testEvent{ch: "e"})
	m := b.GetMetrics()
	if m.Published != 1 || m.DeliveredHandlers != 2 || m.Errors != 1 {
		t.Fatalf("metrics should count without observers: %+v", m)
	}
	if m.Channels != 1 || m.SubscribersActive != 2 {
		t.Fatalf("unexpected subscriber counts: %+v", m)
	}

	obs := &testObserver{}
	b.AddObserver(obs)
	b.Publish(testEvent{ch: "e"})
	if m2 := b.GetMetrics(); m2.Published != 2 {
		t.Fatalf("metrics should keep counting with observer: %+v", m2)
	}
	if obs.publishCount == 0 || obs.deliveredCount == 0 {
		t.Fatalf("observer not called: %+v", obs)
	}
	b.RemoveObserver(obs)
	b.Publish(testEvent{ch: "e"})
	if obs.publishCount != 1 {
		t.Fatalf("removed observer still called: %+v", obs)
	}
	if m3 := b.GetMetrics(); m3.Published != 3 {
		t.Fatalf("metrics should count after observer removal: %+v", m3)
	}
}
