package systems

import "time"

// Tick is the time context handed to every system call. Now and Delta are
// simulation seconds; Frame counts variable ticks (or fixed steps for
// FixedUpdate).
type Tick struct {
	Now   float64
	Delta float64
	Frame int64
}

// System represents a game logic processor driven by the Manager.
//
// Update runs once per variable-rate tick: input, state-machine timers and
// despawn checks belong here. FixedUpdate runs zero or more times per frame at
// a constant step: gravity and rigid-body displacement belong here.
type System interface {
	Name() string
	Priority() Priority
	Update(t Tick)
	FixedUpdate(t Tick)
}

// Priority defines execution order; higher runs first.
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// Metrics provides runtime metrics for the manager.
type Metrics struct {
	Frames               int64
	FixedSteps           int64
	DroppedFixedSteps    int64
	LastFrameTime        time.Duration
	MaxFrameTime         time.Duration
	AverageFrameTime     time.Duration
	totalFrameTime       time.Duration
	RecoveredSystemPanic uint64
}

// Funcs adapts plain functions to System. Nil funcs are skipped.
type Funcs struct {
	SystemName    string
	Prio          Priority
	OnUpdate      func(Tick)
	OnFixedUpdate func(Tick)
}

func (f Funcs) Name() string       { return f.SystemName }
func (f Funcs) Priority() Priority { return f.Prio }

func (f Funcs) Update(t Tick) {
	if f.OnUpdate != nil {
		f.OnUpdate(t)
	}
}

func (f Funcs) FixedUpdate(t Tick) {
	if f.OnFixedUpdate != nil {
		f.OnFixedUpdate(t)
	}
}
