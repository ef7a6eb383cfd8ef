package scene

import (
	"errors"
	"fmt"
)

// ErrNotUploaded is returned when a mesh is drawn before its GPU buffers exist.
var ErrNotUploaded = errors.New("mesh has no GPU buffers")

// MaxWeights is the number of joint influences stored per vertex.
const MaxWeights = 4

// MeshData is the CPU-side geometry of a mesh.
type MeshData struct {
	Positions    []float32
	TexCoords    []float32
	Normals      []float32
	Indices      []uint32
	JointIndices []int32
	Weights      []float32
}

// VertexCount returns the number of vertices described by Positions.
func (d *MeshData) VertexCount() int {
	return len(d.Positions) / 3
}

// Buffers is the GPU-side half of a mesh, owned by the rendering backend.
type Buffers interface {
	Bind()
	Draw() error
	Unbind()
	Cleanup() error
}

// Mesh pairs geometry with a material. Its pointer identity is the batching key.
type Mesh struct {
	Name     string
	Material *Material
	Data     *MeshData
	Buffers  Buffers
}

// NewMesh creates a mesh without GPU buffers. A nil material gets the default one.
func NewMesh(name string, data *MeshData, material *Material) *Mesh {
	if material == nil {
		material = DefaultMaterial()
	}
	return &Mesh{Name: name, Data: data, Material: material}
}

// Render issues a single draw call.
func (m *Mesh) Render() error {
	if m.Buffers == nil {
		return fmt.Errorf("render %q: %w", m.Name, ErrNotUploaded)
	}
	m.Buffers.Bind()
	defer m.Buffers.Unbind()
	if err := m.Buffers.Draw(); err != nil {
		return fmt.Errorf("draw %q: %w", m.Name, err)
	}
	return nil
}

// RenderList binds the vertex state once and draws every instance, calling
// fn before each draw so per-instance uniforms can be set.
func (m *Mesh) RenderList(instances []*Instance, fn func(*Instance)) error {
	if m.Buffers == nil {
		return fmt.Errorf("render %q: %w", m.Name, ErrNotUploaded)
	}
	m.Buffers.Bind()
	defer m.Buffers.Unbind()
	for _, inst := range instances {
		if fn != nil {
			fn(inst)
		}
		if err := m.Buffers.Draw(); err != nil {
			return fmt.Errorf("draw %q: %w", m.Name, err)
		}
	}
	return nil
}

// Cleanup releases the GPU buffers. Calling it twice is a no-op.
func (m *Mesh) Cleanup() error {
	if m.Buffers == nil {
		return nil
	}
	err := m.Buffers.Cleanup()
	m.Buffers = nil
	return err
}
