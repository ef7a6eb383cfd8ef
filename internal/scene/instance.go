package scene

import "github.com/go-gl/mathgl/mgl32"

// AnimationState holds the joint matrices of every key frame of a skinned
// instance and the frame currently shown.
type AnimationState struct {
	Frames  [][]mgl32.Mat4
	Current int
}

// JointMatrices returns the matrices of the current frame, or nil when there are no frames.
func (a *AnimationState) JointMatrices() []mgl32.Mat4 {
	if len(a.Frames) == 0 {
		return nil
	}
	return a.Frames[a.Current]
}

// NextFrame advances to the following key frame, wrapping at the end.
func (a *AnimationState) NextFrame() {
	if len(a.Frames) == 0 {
		return
	}
	a.Current = (a.Current + 1) % len(a.Frames)
}

// Instance is a placed occurrence of one or more meshes. Rotation holds
// Euler angles in degrees.
type Instance struct {
	Meshes   []*Mesh
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    float32

	// TextPos is the texture atlas cell drawn for this instance.
	TextPos int

	// Animation is nil for static instances.
	Animation *AnimationState
}

func NewInstance(meshes ...*Mesh) *Instance {
	return &Instance{Meshes: meshes, Scale: 1}
}

// Mesh returns the first mesh, or nil for an empty instance.
func (i *Instance) Mesh() *Mesh {
	if len(i.Meshes) == 0 {
		return nil
	}
	return i.Meshes[0]
}

func (i *Instance) SetPosition(x, y, z float32) {
	i.Position = mgl32.Vec3{x, y, z}
}

func (i *Instance) SetRotation(x, y, z float32) {
	i.Rotation = mgl32.Vec3{x, y, z}
}
