package bus

import "errors"

// EventBus defines an in-process pub/sub event bus shared by one session.
//
// Key characteristics:
//   - Channel fan-out: handlers subscribe by Channel; an event names its own channel.
//   - Synchronous delivery: Publish calls handlers in registration order in the caller goroutine.
//   - Failure isolation: a handler error or panic is logged and reported to observers,
//     the remaining handlers still run, and nothing is returned to the publisher.
//   - Bounded re-entrancy: a handler may publish on another channel; a channel
//     re-publishing itself mid-dispatch, or nesting deeper than MaxDepth, is dropped.
//   - Metrics: every publish is counted; observers additionally receive per-delivery callbacks.
//
// Subscribe and Unsubscribe are safe for concurrent use. Publish is meant to be
// called from the simulation goroutine.
type EventBus interface {
	// Publish delivers the event synchronously to every active subscriber of
	// event.Channel().
	Publish(event Event)
	// Subscribe registers a handler under name. Subscribing an existing name on
	// the same channel returns the existing Subscription unchanged. An empty
	// name always creates a new anonymous subscription.
	Subscribe(channel Channel, name string, handler Handler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil
	// or more than once.
	Unsubscribe(Subscription) error

	// AddObserver registers an observer to receive metrics callbacks.
	AddObserver(obs Observer)
	// RemoveObserver unregisters a previously added observer.
	RemoveObserver(obs Observer)
	// GetMetrics returns a snapshot of the counters accumulated since New.
	GetMetrics() Metrics
	// Channels returns a snapshot of every channel that has ever had a subscriber.
	Channels() []ChannelInfo
}

// Channel is the routing key of an event.
type Channel string

// Event is an immutable message transported by the EventBus.
// Implementations should be value types and treated as read-only.
type Event interface {
	Channel() Channel
}

type (
	// Handler is a callback invoked per delivered event. A returned error is
	// logged and reported to observers; it never reaches the publisher.
	Handler func(event Event) error
)

// Subscription represents a registered handler bound to a channel.
type Subscription interface {
	// ID is a unique identifier for this subscription.
	ID() string
	// Name is the idempotency key given at Subscribe time.
	Name() string
	Channel() Channel
	// IsActive reports whether this subscription is still registered.
	IsActive() bool
	// Cancel de-registers the handler from the bus. Multiple calls are safe.
	Cancel() error
}

// Observer is notified about deliveries and errors. Observers should return quickly.
type Observer interface {
	OnPublish(channel Channel, event Event)
	OnDelivered(channel Channel, handlers int, err error, durationMicros int64)
}

// Metrics represents a minimal set of counters. Every Publish is counted,
// whether or not observers are registered.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	Dropped           uint64
	SubscribersActive uint64
	Channels          uint64
}

// ChannelInfo provides a minimal snapshot about a channel.
type ChannelInfo struct {
	Name Channel
	Subs int
}

// DefaultMaxDepth bounds nested Publish calls made from inside handlers.
const DefaultMaxDepth = 4

var (
	ErrNilHandler       = errors.New("bus: nil handler")
	ErrReentrantPublish = errors.New("bus: channel re-published during its own dispatch")
	ErrMaxDepth         = errors.New("bus: maximum dispatch depth exceeded")
	ErrUnexpectedEvent  = errors.New("bus: unexpected event type for channel")
)
