// Package scene holds what the renderer draws: meshes, placed instances
// grouped by mesh, lights, fog, the skybox and particle emitters.
package scene

import (
	"Terra3D/internal/logger"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ParticleEmitter is the render-side view of a particle emitter.
type ParticleEmitter interface {
	Mesh() *Mesh
	Instances() []*Instance
}

// Bucket is every instance drawn with one mesh, in insertion order.
type Bucket struct {
	Mesh      *Mesh
	Instances []*Instance
}

type Scene struct {
	buckets map[*Mesh]int
	order   []Bucket

	SkyBox   *Instance
	Light    *SceneLight
	Fog      Fog
	Emitters []ParticleEmitter
}

func New() *Scene {
	return &Scene{
		buckets: make(map[*Mesh]int),
		Light:   &SceneLight{},
		Fog:     NoFog,
	}
}

// SetInstances replaces the whole mesh to instance mapping. An instance made
// of several meshes is added once to each of their buckets.
func (s *Scene) SetInstances(instances []*Instance) {
	s.buckets = make(map[*Mesh]int)
	s.order = nil

	for _, inst := range instances {
		for _, mesh := range inst.Meshes {
			if mesh == nil {
				continue
			}
			idx, ok := s.buckets[mesh]
			if !ok {
				idx = len(s.order)
				s.buckets[mesh] = idx
				s.order = append(s.order, Bucket{Mesh: mesh})
			}
			// a mesh listed twice by one instance is still drawn once
			b := &s.order[idx]
			if n := len(b.Instances); n > 0 && b.Instances[n-1] == inst {
				continue
			}
			b.Instances = append(b.Instances, inst)
		}
	}

	logger.Log.Debug("Scene instances set",
		zap.Int("instances", len(instances)),
		zap.Int("buckets", len(s.order)))
}

// Buckets returns the buckets in the order their meshes were first seen.
func (s *Scene) Buckets() []Bucket {
	return s.order
}

// Bucket returns the instances drawn with mesh.
func (s *Scene) Bucket(mesh *Mesh) []*Instance {
	idx, ok := s.buckets[mesh]
	if !ok {
		return nil
	}
	return s.order[idx].Instances
}

// Meshes returns every mesh owned by the scene, including the skybox and
// particle meshes, each once.
func (s *Scene) Meshes() []*Mesh {
	seen := make(map[*Mesh]bool)
	var meshes []*Mesh
	add := func(m *Mesh) {
		if m != nil && !seen[m] {
			seen[m] = true
			meshes = append(meshes, m)
		}
	}
	for _, b := range s.order {
		add(b.Mesh)
	}
	if s.SkyBox != nil {
		for _, m := range s.SkyBox.Meshes {
			add(m)
		}
	}
	for _, e := range s.Emitters {
		add(e.Mesh())
	}
	return meshes
}

// Cleanup releases the GPU buffers of every mesh. A failure is logged and the
// remaining meshes are still released.
func (s *Scene) Cleanup() error {
	var errs error
	for _, m := range s.Meshes() {
		if err := m.Cleanup(); err != nil {
			logger.Log.Error("Failed to release mesh", zap.String("mesh", m.Name), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
