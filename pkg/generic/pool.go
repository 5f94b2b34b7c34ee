package generic

// KeyedPool is a free-list keyed by prototype. Unlike sync.Pool it never drops
// items: everything handed back through Put stays queued until the next Get
// for the same key, so memory is bounded by the high-water mark of items
// checked out at once.
//
// KeyedPool is not safe for concurrent use; callers own it from a single
// goroutine or guard it themselves.
type KeyedPool[K comparable, T any] struct {
	queues   map[K][]T
	generate func(K) T
	created  map[K]int
}

func NewKeyedPool[K comparable, T any](generate func(K) T) *KeyedPool[K, T] {
	return &KeyedPool[K, T]{
		queues:   make(map[K][]T),
		generate: generate,
		created:  make(map[K]int),
	}
}

// NewHotKeyedPool pre-fills the queue for key with hotSize fresh items.
func NewHotKeyedPool[K comparable, T any](generate func(K) T, key K, hotSize int) *KeyedPool[K, T] {
	p := NewKeyedPool(generate)
	for i := 0; i < hotSize; i++ {
		p.Put(key, p.make(key))
	}
	return p
}

// Get returns a queued item for key, or a freshly generated one. The bool is
// true when the item was recycled.
func (p *KeyedPool[K, T]) Get(key K) (T, bool) {
	q := p.queues[key]
	if n := len(q); n > 0 {
		item := q[n-1]
		var zero T
		q[n-1] = zero
		p.queues[key] = q[:n-1]
		return item, true
	}
	return p.make(key), false
}

// Put appends value to the queue for key.
func (p *KeyedPool[K, T]) Put(key K, value T) {
	p.queues[key] = append(p.queues[key], value)
}

// Idle reports how many items are queued for key.
func (p *KeyedPool[K, T]) Idle(key K) int {
	return len(p.queues[key])
}

// Created reports how many items were ever generated for key.
func (p *KeyedPool[K, T]) Created(key K) int {
	return p.created[key]
}

func (p *KeyedPool[K, T]) make(key K) T {
	p.created[key]++
	return p.generate(key)
}
