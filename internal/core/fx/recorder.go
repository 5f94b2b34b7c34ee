package fx

import "github.com/zeusync/arena/internal/core/systems/physics"

// Spawned is one recorded effect.
type Spawned struct {
	Prototype string
	Position  physics.Vec3
	Normal    physics.Vec3
}

// Played is one recorded cue.
type Played struct {
	Cue      string
	Position physics.Vec3
}

// Recorder keeps every effect and cue it receives. Headless sessions use it
// as their presentation sink; tests assert on it.
type Recorder struct {
	Effects []Spawned
	Cues    []Played
	Limit   int
}

func (r *Recorder) Spawn(prototype string, position, normal physics.Vec3) {
	if r.Limit > 0 && len(r.Effects) >= r.Limit {
		r.Effects = r.Effects[1:]
	}
	r.Effects = append(r.Effects, Spawned{Prototype: prototype, Position: position, Normal: normal})
}

func (r *Recorder) Play(cue string, position physics.Vec3) {
	if r.Limit > 0 && len(r.Cues) >= r.Limit {
		r.Cues = r.Cues[1:]
	}
	r.Cues = append(r.Cues, Played{Cue: cue, Position: position})
}

// CountEffect reports how many effects of prototype were spawned.
func (r *Recorder) CountEffect(prototype string) int {
	n := 0
	for _, e := range r.Effects {
		if e.Prototype == prototype {
			n++
		}
	}
	return n
}

// CountCue reports how many times cue was played.
func (r *Recorder) CountCue(cue string) int {
	n := 0
	for _, c := range r.Cues {
		if c.Cue == cue {
			n++
		}
	}
	return n
}
