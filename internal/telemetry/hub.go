// Package telemetry streams bus events to websocket subscribers as encoded
// frames and serves bus metrics over HTTP. Events leave the simulation
// goroutine through a bounded channel; when it is full they are dropped.
package telemetry

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/zeusync/arena/internal/core/events"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/pkg/encoding"
)

const (
	DefaultBuffer       = 256
	DefaultClientBuffer = 64
	subscriberName      = "telemetry"
)

// Frame is one feed message.
type Frame struct {
	Seq     uint64 `msgpack:"seq" json:"seq"`
	Channel string `msgpack:"ch" json:"ch"`
	Event   any    `msgpack:"ev" json:"ev"`
}

// Hub fans bus events out to the connected clients. offer runs on the
// simulation goroutine and never blocks; Run does the encoding and delivery.
type Hub struct {
	logger log.Log
	codec  encoding.Codec
	frames chan Frame

	seq        atomic.Uint64
	dropped    atomic.Uint64
	handlerErr atomic.Uint64

	mu           sync.RWMutex
	clients      map[*client]struct{}
	clientBuffer int

	subs    []bus.Subscription
	bus     bus.EventBus
	summary atomic.Value
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithCodec selects the frame encoding. JSON frames go out as text messages.
func WithCodec(c encoding.Codec) HubOption {
	return func(h *Hub) {
		if c != nil {
			h.codec = c
		}
	}
}

func NewHub(buffer int, logger log.Log, opts ...HubOption) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = log.NewNop()
	}
	h := &Hub{
		logger:       logger.Named("telemetry"),
		codec:        encoding.MsgPack,
		frames:       make(chan Frame, buffer),
		clients:      make(map[*client]struct{}),
		clientBuffer: DefaultClientBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Attach subscribes the hub to every event channel of b and observes its
// deliveries to count handler errors.
func (h *Hub) Attach(b bus.EventBus) error {
	for _, ch := range events.All {
		sub, err := b.Subscribe(ch, subscriberName, h.offer)
		if err != nil {
			return errors.Wrapf(err, "subscribe %s", ch)
		}
		h.subs = append(h.subs, sub)
	}
	b.AddObserver(h)
	h.bus = b
	return nil
}

// Detach drops the subscriptions made by Attach.
func (h *Hub) Detach() {
	for _, sub := range h.subs {
		_ = sub.Cancel()
	}
	h.subs = nil
	if h.bus != nil {
		h.bus.RemoveObserver(h)
		h.bus = nil
	}
}

func (h *Hub) offer(e bus.Event) error {
	f := Frame{Seq: h.seq.Add(1), Channel: string(e.Channel()), Event: e}
	select {
	case h.frames <- f:
	default:
		h.dropped.Add(1)
	}
	return nil
}

// OnPublish implements bus.Observer.
func (h *Hub) OnPublish(bus.Channel, bus.Event) {}

// OnDelivered implements bus.Observer.
func (h *Hub) OnDelivered(_ bus.Channel, _ int, err error, _ int64) {
	if err != nil {
		h.handlerErr.Add(1)
	}
}

// SetSummary stores the latest session snapshot served by /stats. The value
// must not be mutated after the call.
func (h *Hub) SetSummary(v any) { h.summary.Store(&v) }

func (h *Hub) Summary() any {
	if p, ok := h.summary.Load().(*any); ok {
		return *p
	}
	return nil
}

func (h *Hub) Dropped() uint64       { return h.dropped.Load() }
func (h *Hub) HandlerErrors() uint64 { return h.handlerErr.Load() }
func (h *Hub) Codec() encoding.Codec { return h.codec }

func (h *Hub) messageType() int {
	if h.codec.Binary() {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run encodes and broadcasts frames until ctx ends, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) error {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-h.frames:
			data, err := h.codec.Marshal(&f)
			if err != nil {
				h.logger.Warn("encode frame failed", log.String("channel", f.Channel), log.Error(err))
				continue
			}
			h.broadcast(data)
		}
	}
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(data)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("client connected", log.String("client", c.id), log.String("remote", c.remote))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.close()
		h.logger.Info("client disconnected",
			log.String("client", c.id),
			log.Int64("sent", int64(c.sent.Load())),
			log.Int64("dropped", int64(c.dropped.Load())),
		)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.close()
	}
}
