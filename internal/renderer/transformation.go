package renderer

import (
	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Transformation derives every matrix a frame needs. The Update methods
// store their result so later passes in the same frame can read it back.
type Transformation struct {
	projection      mgl32.Mat4
	view            mgl32.Mat4
	lightView       mgl32.Mat4
	orthoProjection mgl32.Mat4
}

func NewTransformation() *Transformation {
	return &Transformation{
		projection:      mgl32.Ident4(),
		view:            mgl32.Ident4(),
		lightView:       mgl32.Ident4(),
		orthoProjection: mgl32.Ident4(),
	}
}

// UpdateProjectionMatrix builds a perspective projection. fov is in degrees.
// A zero or negative height (minimised window) keeps the previous matrix.
func (t *Transformation) UpdateProjectionMatrix(fov, width, height, zNear, zFar float32) mgl32.Mat4 {
	if height <= 0 || width <= 0 {
		return t.projection
	}
	t.projection = mgl32.Perspective(mgl32.DegToRad(fov), width/height, zNear, zFar)
	return t.projection
}

func (t *Transformation) ProjectionMatrix() mgl32.Mat4 {
	return t.projection
}

func (t *Transformation) UpdateViewMatrix(camera *Camera) mgl32.Mat4 {
	t.view = viewMatrix(camera.Position, camera.Rotation)
	return t.view
}

func (t *Transformation) ViewMatrix() mgl32.Mat4 {
	return t.view
}

func (t *Transformation) UpdateLightViewMatrix(position, rotation mgl32.Vec3) mgl32.Mat4 {
	t.lightView = viewMatrix(position, rotation)
	return t.lightView
}

func (t *Transformation) LightViewMatrix() mgl32.Mat4 {
	return t.lightView
}

func (t *Transformation) UpdateOrthoProjectionMatrix(left, right, bottom, top, zNear, zFar float32) mgl32.Mat4 {
	t.orthoProjection = mgl32.Ortho(left, right, bottom, top, zNear, zFar)
	return t.orthoProjection
}

func (t *Transformation) OrthoProjectionMatrix() mgl32.Mat4 {
	return t.orthoProjection
}

// Ortho2DProjectionMatrix maps window pixels to clip space. Pass top=0 and
// bottom=height for a top-left origin.
func (t *Transformation) Ortho2DProjectionMatrix(left, right, bottom, top float32) mgl32.Mat4 {
	return mgl32.Ortho2D(left, right, bottom, top)
}

// BuildModelMatrix composes translate, rotate X, Y, Z (negated angles) and
// uniform scale.
func (t *Transformation) BuildModelMatrix(inst *scene.Instance) mgl32.Mat4 {
	rot := inst.Rotation
	return mgl32.Translate3D(inst.Position.X(), inst.Position.Y(), inst.Position.Z()).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-rot.X()))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(-rot.Y()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(-rot.Z()))).
		Mul4(mgl32.Scale3D(inst.Scale, inst.Scale, inst.Scale))
}

func (t *Transformation) BuildModelViewMatrix(inst *scene.Instance, view mgl32.Mat4) mgl32.Mat4 {
	return view.Mul4(t.BuildModelMatrix(inst))
}

func (t *Transformation) BuildModelLightViewMatrix(inst *scene.Instance, lightView mgl32.Mat4) mgl32.Mat4 {
	return lightView.Mul4(t.BuildModelMatrix(inst))
}

func (t *Transformation) BuildOrthoProjModelMatrix(inst *scene.Instance, ortho mgl32.Mat4) mgl32.Mat4 {
	return ortho.Mul4(t.BuildModelMatrix(inst))
}

// BuildBillboardModelViewMatrix turns a particle towards the camera: the
// rotation block of its model matrix is replaced by the transposed view
// rotation, so it cancels out in the model-view product, before scaling.
func (t *Transformation) BuildBillboardModelViewMatrix(inst *scene.Instance, view mgl32.Mat4) mgl32.Mat4 {
	model := t.BuildModelMatrix(inst)
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			model.Set(row, col, view.At(col, row))
		}
	}
	return view.Mul4(model).Mul4(mgl32.Scale3D(inst.Scale, inst.Scale, inst.Scale))
}

// viewMatrix rotates around X by pitch, then around Y by yaw, then
// translates by the negated position. Angles are in degrees.
func viewMatrix(position, rotation mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(mgl32.DegToRad(rotation.X())).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotation.Y()))).
		Mul4(mgl32.Translate3D(-position.X(), -position.Y(), -position.Z()))
}
