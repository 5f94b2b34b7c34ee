package arena

import (
	"github.com/zeusync/arena/internal/core/fx"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// LogSink writes effects and cues to the debug log and forwards them to an
// optional recorder.
type LogSink struct {
	logger log.Log
	next   *fx.Recorder
}

func NewLogSink(logger log.Log, next *fx.Recorder) *LogSink {
	if logger == nil {
		logger = log.NewNop()
	}
	return &LogSink{logger: logger.Named("fx"), next: next}
}

func (s *LogSink) Spawn(prototype string, position, normal physics.Vec3) {
	if s.logger.Enabled(log.LevelDebug) {
		s.logger.Debug("effect",
			log.String("prototype", prototype),
			log.Float64("x", position.X),
			log.Float64("y", position.Y),
			log.Float64("z", position.Z),
		)
	}
	if s.next != nil {
		s.next.Spawn(prototype, position, normal)
	}
}

func (s *LogSink) Play(cue string, position physics.Vec3) {
	if s.logger.Enabled(log.LevelDebug) {
		s.logger.Debug("cue", log.String("cue", cue))
	}
	if s.next != nil {
		s.next.Play(cue, position)
	}
}
