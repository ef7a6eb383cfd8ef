package particles

import (
	"Terra3D/internal/scene"
)

// System updates a set of emitters once per simulation step.
type System struct {
	emitters []*Emitter
}

func NewSystem(emitters ...*Emitter) *System {
	return &System{emitters: emitters}
}

func (s *System) Add(e *Emitter) {
	s.emitters = append(s.emitters, e)
}

func (s *System) Emitters() []*Emitter { return s.emitters }

// SceneEmitters returns the emitters as the renderer sees them.
func (s *System) SceneEmitters() []scene.ParticleEmitter {
	out := make([]scene.ParticleEmitter, len(s.emitters))
	for i, e := range s.emitters {
		out[i] = e
	}
	return out
}

// Update ages every emitter by elapsed milliseconds.
func (s *System) Update(elapsed int64) {
	for _, e := range s.emitters {
		e.Update(elapsed)
	}
}

// Live counts the particles alive across all emitters.
func (s *System) Live() int {
	n := 0
	for _, e := range s.emitters {
		n += len(e.particles)
	}
	return n
}

func (s *System) Cleanup() {
	for _, e := range s.emitters {
		e.Cleanup()
	}
}
