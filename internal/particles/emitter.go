package particles

import (
	"math/rand"

	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Emitter owns the live particles spawned from one base particle.
// It satisfies scene.ParticleEmitter.
type Emitter struct {
	base      *Particle
	particles []*Particle
	instances []*scene.Instance

	Active       bool
	MaxParticles int
	// CreationPeriodMillis is the minimum time between two spawns.
	CreationPeriodMillis int64
	// Spawned particles get a random extra speed in [-SpeedRange, SpeedRange]
	// on each axis, and a random scale in [base, base+ScaleRange].
	SpeedRange float32
	ScaleRange float32

	lastCreation int64
	clock        int64
	rnd          *rand.Rand
}

var _ scene.ParticleEmitter = (*Emitter)(nil)

func NewEmitter(base *Particle, maxParticles int, creationPeriodMillis int64, seed int64) *Emitter {
	return &Emitter{
		base:                 base,
		Active:               true,
		MaxParticles:         maxParticles,
		CreationPeriodMillis: creationPeriodMillis,
		rnd:                  rand.New(rand.NewSource(seed)),
	}
}

func (e *Emitter) BaseParticle() *Particle { return e.base }

func (e *Emitter) Particles() []*Particle { return e.particles }

func (e *Emitter) Mesh() *scene.Mesh {
	return e.base.Mesh()
}

// Instances returns the live particles as scene instances. The slice is
// reused between calls.
func (e *Emitter) Instances() []*scene.Instance {
	e.instances = e.instances[:0]
	for _, p := range e.particles {
		e.instances = append(e.instances, p.Instance)
	}
	return e.instances
}

// Add appends an already built particle to the live set.
func (e *Emitter) Add(p *Particle) {
	e.particles = append(e.particles, p)
}

// Update ages every live particle by elapsed milliseconds, drops the ones
// that died this step, moves the survivors and, while active, spawns one new
// particle once the creation period has passed.
func (e *Emitter) Update(elapsed int64) {
	e.clock += elapsed

	live := e.particles[:0]
	for _, p := range e.particles {
		if !p.Update(elapsed) {
			continue
		}
		p.Move(elapsed)
		live = append(live, p)
	}
	for i := len(live); i < len(e.particles); i++ {
		e.particles[i] = nil
	}
	e.particles = live

	if e.Active && len(e.particles) < e.MaxParticles && e.clock-e.lastCreation >= e.CreationPeriodMillis {
		e.spawn()
		e.lastCreation = e.clock
	}
}

func (e *Emitter) spawn() {
	p := e.base.Clone()
	jitter := func() float32 { return (e.rnd.Float32()*2 - 1) * e.SpeedRange }
	p.Speed = p.Speed.Add(mgl32.Vec3{jitter(), jitter(), jitter()})
	p.Scale += e.rnd.Float32() * e.ScaleRange
	e.particles = append(e.particles, p)
}

// Cleanup drops every live particle. The shared mesh belongs to the scene.
func (e *Emitter) Cleanup() {
	e.particles = nil
	e.instances = nil
}
