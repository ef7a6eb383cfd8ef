// Package particles ages spawned particles and flips their texture atlas
// frames. Spawning is left to the emitter's owner.
package particles

import (
	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Particle is a billboarded instance with a velocity and a lifetime.
type Particle struct {
	*scene.Instance

	Speed mgl32.Vec3 // world units per second
	TTL   int64      // milliseconds left; dead once <= 0

	UpdateTextureMillis int64
	AnimTimeMillis      int64
	AnimFrames          int
}

// NewParticle creates a particle of mesh. The atlas frame count comes from
// the mesh texture when there is one.
func NewParticle(mesh *scene.Mesh, speed mgl32.Vec3, ttl, updateTextureMillis int64) *Particle {
	p := &Particle{
		Instance:            scene.NewInstance(mesh),
		Speed:               speed,
		TTL:                 ttl,
		UpdateTextureMillis: updateTextureMillis,
		AnimFrames:          1,
	}
	if mesh != nil && mesh.Material != nil && mesh.Material.Texture != nil {
		p.AnimFrames = mesh.Material.Texture.Frames()
	}
	return p
}

// Clone copies the placement, motion and lifetime of p into a fresh particle
// starting at the first atlas frame.
func (p *Particle) Clone() *Particle {
	inst := scene.NewInstance(p.Meshes...)
	inst.Position = p.Position
	inst.Rotation = p.Rotation
	inst.Scale = p.Scale

	return &Particle{
		Instance:            inst,
		Speed:               p.Speed,
		TTL:                 p.TTL,
		UpdateTextureMillis: p.UpdateTextureMillis,
		AnimFrames:          p.AnimFrames,
	}
}

// Alive reports whether the particle still has time left.
func (p *Particle) Alive() bool {
	return p.TTL > 0
}

// Update ages the particle by elapsed milliseconds and returns whether it is
// still alive. A dead particle keeps its atlas frame.
func (p *Particle) Update(elapsed int64) bool {
	p.TTL -= elapsed
	if p.TTL <= 0 {
		return false
	}

	p.AnimTimeMillis += elapsed
	if p.AnimFrames > 1 && p.UpdateTextureMillis > 0 && p.AnimTimeMillis >= p.UpdateTextureMillis {
		steps := int(p.AnimTimeMillis / p.UpdateTextureMillis)
		p.TextPos = (p.TextPos + steps) % p.AnimFrames
		p.AnimTimeMillis = 0
	}
	return true
}

// Move advances the position by Speed over elapsed milliseconds.
func (p *Particle) Move(elapsed int64) {
	p.Position = p.Position.Add(p.Speed.Mul(float32(elapsed) / 1000))
}
