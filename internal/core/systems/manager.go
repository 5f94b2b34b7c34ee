package systems

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/zeusync/arena/internal/core/observability/log"
)

var (
	ErrSystemExists   = errors.New("system already registered")
	ErrSystemNotFound = errors.New("system not found")
	ErrInvalidStep    = errors.New("fixed step must be positive")
)

// Manager orchestrates all systems of a session. It owns the simulation clock
// and splits each frame into fixed steps (accumulator based) followed by one
// variable update, the same order a physics engine uses.
//
// Manager is driven from a single goroutine.
type Manager struct {
	systems []System
	order   map[string]int

	fixedStep   float64
	maxSteps    int
	accumulator float64

	now        float64
	fixedNow   float64
	frame      int64
	fixedFrame int64

	preUpdate  []func(Tick)
	postUpdate []func(Tick)

	logger  log.Log
	metrics Metrics
}

// NewManager creates a manager running FixedUpdate every fixedStep seconds
// and at most maxSteps fixed steps per frame. Surplus accumulated time beyond
// maxSteps is dropped rather than carried into the next frame.
func NewManager(fixedStep float64, maxSteps int, logger log.Log) (*Manager, error) {
	if fixedStep <= 0 {
		return nil, ErrInvalidStep
	}
	if maxSteps <= 0 {
		maxSteps = 8
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Manager{
		order:     make(map[string]int),
		fixedStep: fixedStep,
		maxSteps:  maxSteps,
		logger:    logger.Named("systems"),
	}, nil
}

// Register adds a system. Systems run by descending priority; ties keep
// registration order.
func (m *Manager) Register(s System) error {
	if _, ok := m.order[s.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrSystemExists, s.Name())
	}
	m.systems = append(m.systems, s)
	sort.SliceStable(m.systems, func(i, j int) bool {
		return m.systems[i].Priority() > m.systems[j].Priority()
	})
	m.reindex()
	return nil
}

func (m *Manager) Unregister(name string) error {
	idx, ok := m.order[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	m.systems = append(m.systems[:idx], m.systems[idx+1:]...)
	m.reindex()
	return nil
}

func (m *Manager) Get(name string) (System, bool) {
	idx, ok := m.order[name]
	if !ok {
		return nil, false
	}
	return m.systems[idx], true
}

// ExecutionOrder lists system names in the order they run.
func (m *Manager) ExecutionOrder() []string {
	out := make([]string, len(m.systems))
	for i, s := range m.systems {
		out[i] = s.Name()
	}
	return out
}

// OnPreUpdate registers a hook run at the start of every frame, before any
// fixed step. The session advances its scheduler here.
func (m *Manager) OnPreUpdate(fn func(Tick)) { m.preUpdate = append(m.preUpdate, fn) }

// OnPostUpdate registers a hook run after every system updated.
func (m *Manager) OnPostUpdate(fn func(Tick)) { m.postUpdate = append(m.postUpdate, fn) }

func (m *Manager) Now() float64       { return m.now }
func (m *Manager) FixedStep() float64 { return m.fixedStep }
func (m *Manager) Frame() int64       { return m.frame }
func (m *Manager) Metrics() Metrics   { return m.metrics }

// Step advances the simulation by dt seconds.
func (m *Manager) Step(dt float64) {
	if dt < 0 {
		dt = 0
	}
	start := time.Now()

	m.now += dt
	m.frame++
	tick := Tick{Now: m.now, Delta: dt, Frame: m.frame}

	for _, fn := range m.preUpdate {
		m.guard("pre-update", func() { fn(tick) })
	}

	m.accumulator += dt
	steps := 0
	for m.accumulator >= m.fixedStep && steps < m.maxSteps {
		m.accumulator -= m.fixedStep
		m.fixedNow += m.fixedStep
		m.fixedFrame++
		steps++
		ft := Tick{Now: m.fixedNow, Delta: m.fixedStep, Frame: m.fixedFrame}
		for _, s := range m.systems {
			m.guard(s.Name(), func() { s.FixedUpdate(ft) })
		}
	}
	if m.accumulator >= m.fixedStep {
		dropped := int64(m.accumulator / m.fixedStep)
		m.metrics.DroppedFixedSteps += dropped
		m.accumulator -= float64(dropped) * m.fixedStep
		m.fixedNow += float64(dropped) * m.fixedStep
		m.logger.Warn("fixed steps dropped", log.Int64("dropped", dropped), log.Int64("frame", m.frame))
	}
	m.metrics.FixedSteps += int64(steps)

	for _, s := range m.systems {
		m.guard(s.Name(), func() { s.Update(tick) })
	}

	for _, fn := range m.postUpdate {
		m.guard("post-update", func() { fn(tick) })
	}

	elapsed := time.Since(start)
	m.metrics.Frames++
	m.metrics.LastFrameTime = elapsed
	m.metrics.totalFrameTime += elapsed
	m.metrics.AverageFrameTime = m.metrics.totalFrameTime / time.Duration(m.metrics.Frames)
	if elapsed > m.metrics.MaxFrameTime {
		m.metrics.MaxFrameTime = elapsed
	}
}

// guard keeps one misbehaving system from halting the loop for the others.
func (m *Manager) guard(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.metrics.RecoveredSystemPanic++
			m.logger.Error("system panicked",
				log.String("system", name),
				log.Any("panic", r),
				log.Int64("frame", m.frame),
			)
		}
	}()
	fn()
}

func (m *Manager) reindex() {
	clear(m.order)
	for i, s := range m.systems {
		m.order[s.Name()] = i
	}
}
