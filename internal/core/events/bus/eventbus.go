package bus

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/arena/internal/core/observability/log"
)

// subscription implements Subscription interface.
type subscription struct {
	id      string
	name    string
	channel Channel
	handler Handler
	active  atomic.Bool
	cancel  func()
}

func (s *subscription) ID() string       { return s.id }
func (s *subscription) Name() string     { return s.name }
func (s *subscription) Channel() Channel { return s.channel }
func (s *subscription) IsActive() bool   { return s.active.Load() }
func (s *subscription) Cancel() error {
	if s.active.CompareAndSwap(true, false) && s.cancel != nil {
		s.cancel()
	}
	return nil
}

// Option configures the bus.
type Option func(*inMemoryBus)

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(b *inMemoryBus) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// inMemoryBus is the EventBus implementation.
type inMemoryBus struct {
	mu sync.RWMutex
	// handlers: channel -> subscriptions in registration order
	handlers map[Channel][]*subscription
	named    map[Channel]map[string]*subscription

	// dispatch state, guarded by mu
	dispatching map[Channel]bool
	depth       int
	maxDepth    int

	metrics   Metrics
	observers map[Observer]struct{}
	logger    log.Log
}

// New creates a new EventBus instance.
func New(logger log.Log, opts ...Option) EventBus {
	if logger == nil {
		logger = log.NewNop()
	}
	b := &inMemoryBus{
		handlers:    make(map[Channel][]*subscription),
		named:       make(map[Channel]map[string]*subscription),
		dispatching: make(map[Channel]bool),
		maxDepth:    DefaultMaxDepth,
		observers:   make(map[Observer]struct{}),
		logger:      logger.Named("bus"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *inMemoryBus) Subscribe(channel Channel, name string, handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if name != "" {
		if existing, ok := b.named[channel][name]; ok && existing.IsActive() {
			return existing, nil
		}
	}

	s := &subscription{id: uuid.NewString(), name: name, channel: channel, handler: handler}
	s.active.Store(true)
	s.cancel = func() { b.remove(s) }

	// copy-on-write so an in-flight dispatch keeps its snapshot
	list := b.handlers[channel]
	next := make([]*subscription, len(list), len(list)+1)
	copy(next, list)
	b.handlers[channel] = append(next, s)

	if name != "" {
		if b.named[channel] == nil {
			b.named[channel] = make(map[string]*subscription)
		}
		b.named[channel][name] = s
	}
	return s, nil
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) remove(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.handlers[s.channel]
	next := make([]*subscription, 0, len(list))
	for _, other := range list {
		if other != s {
			next = append(next, other)
		}
	}
	b.handlers[s.channel] = next
	if s.name != "" {
		if cur, ok := b.named[s.channel][s.name]; ok && cur == s {
			delete(b.named[s.channel], s.name)
		}
	}
}

func (b *inMemoryBus) AddObserver(obs Observer) {
	b.mu.Lock()
	b.observers[obs] = struct{}{}
	b.mu.Unlock()
}

func (b *inMemoryBus) RemoveObserver(obs Observer) {
	b.mu.Lock()
	delete(b.observers, obs)
	b.mu.Unlock()
}

func (b *inMemoryBus) GetMetrics() Metrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m := b.metrics
	m.Channels = uint64(len(b.handlers))
	for _, list := range b.handlers {
		m.SubscribersActive += uint64(len(list))
	}
	return m
}

func (b *inMemoryBus) Channels() []ChannelInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]ChannelInfo, 0, len(b.handlers))
	for name, subs := range b.handlers {
		out = append(out, ChannelInfo{Name: name, Subs: len(subs)})
	}
	return out
}

func (b *inMemoryBus) Publish(event Event) {
	if event == nil {
		return
	}
	channel := event.Channel()

	b.mu.Lock()
	if b.dispatching[channel] {
		b.metrics.Dropped++
		b.mu.Unlock()
		b.logger.Warn("publish dropped", log.String("channel", string(channel)), log.Error(ErrReentrantPublish))
		return
	}
	if b.depth >= b.maxDepth {
		b.metrics.Dropped++
		b.mu.Unlock()
		b.logger.Warn("publish dropped", log.String("channel", string(channel)), log.Error(ErrMaxDepth))
		return
	}
	b.depth++
	b.dispatching[channel] = true
	subs := b.handlers[channel]
	var observers []Observer
	if len(b.observers) > 0 {
		observers = make([]Observer, 0, len(b.observers))
		for obs := range b.observers {
			observers = append(observers, obs)
		}
	}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.depth--
		delete(b.dispatching, channel)
		b.mu.Unlock()
	}()

	b.deliver(channel, event, subs, observers)
}

func (b *inMemoryBus) deliver(channel Channel, event Event, subs []*subscription, observers []Observer) {
	start := time.Now()
	for _, obs := range observers {
		obs.OnPublish(channel, event)
	}

	var all error
	delivered := 0
	for _, s := range subs {
		if !s.IsActive() {
			continue
		}
		delivered++
		if err := b.invoke(s, event); err != nil {
			b.logger.Warn("event handler failed",
				log.String("channel", string(channel)),
				log.String("subscriber", s.name),
				log.Error(err),
			)
			all = errors.Join(all, err)
		}
	}

	if len(observers) > 0 {
		dur := time.Since(start).Microseconds()
		for _, obs := range observers {
			obs.OnDelivered(channel, delivered, all, dur)
		}
	}

	b.mu.Lock()
	b.metrics.Published++
	b.metrics.DeliveredHandlers += uint64(delivered)
	if all != nil {
		b.metrics.Errors++
	}
	b.mu.Unlock()
}

func (b *inMemoryBus) invoke(s *subscription, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %q panicked: %v", s.name, r)
		}
	}()
	return s.handler(event)
}

// On subscribes a handler that receives events already asserted to T. Events
// of another type on the channel are reported as handler errors.
func On[T Event](b EventBus, channel Channel, name string, fn func(T) error) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(channel, name, func(e Event) error {
		typed, ok := e.(T)
		if !ok {
			return fmt.Errorf("%w: %T on %s", ErrUnexpectedEvent, e, channel)
		}
		return fn(typed)
	})
}
