// Package input defines the per-tick control sample consumed by the player
// controllers. Device polling lives outside the core.
package input

// Axis is a 2D control axis. For movement X is strafe and Y is forward; for
// look X is yaw and Y is pitch delta.
type Axis struct {
	X, Y float64
}

// Frame is one tick's worth of controls. Pressed/Released are edges for this
// tick; Held is the level.
type Frame struct {
	Move Axis
	Look Axis

	FirePressed bool
	FireHeld    bool
	// AltFireHeld drives the secondary automatic, when one is carried.
	AltFireHeld bool

	ReloadPressed bool

	AimPressed  bool
	AimReleased bool

	JumpPressed bool
	JumpHeld    bool
	RunHeld     bool
}

// Source produces the control sample for the current tick.
type Source interface {
	Sample(now float64) Frame
}

// SourceFunc adapts a function to Source.
type SourceFunc func(now float64) Frame

func (f SourceFunc) Sample(now float64) Frame { return f(now) }

// Script replays a fixed list of frames, then idles.
type Script struct {
	frames []Frame
	next   int
}

func NewScript(frames ...Frame) *Script { return &Script{frames: frames} }

func (s *Script) Sample(float64) Frame {
	if s.next >= len(s.frames) {
		return Frame{}
	}
	f := s.frames[s.next]
	s.next++
	return f
}

// Done reports whether every scripted frame has been sampled.
func (s *Script) Done() bool { return s.next >= len(s.frames) }
