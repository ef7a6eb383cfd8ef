package renderer

import (
	"math"

	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

func (r *Renderer) setupShadowMap() error {
	sm, err := r.backend.NewShadowMap(r.config.ShadowMapWidth, r.config.ShadowMapHeight)
	if err != nil {
		return err
	}
	r.shadowMap = sm
	return nil
}

func (r *Renderer) setupDepthShader() error {
	p, err := r.newProgram("depth", depthVertexShaderSource, depthFragmentShaderSource)
	if err != nil {
		return err
	}
	r.depthShader = p
	return createUniforms(p, "orthoProjectionMatrix", "modelLightViewMatrix", "jointsMatrix")
}

// lightRotation derives the pitch and yaw, in degrees, of a virtual camera
// looking along a light direction.
func lightRotation(direction mgl32.Vec3) mgl32.Vec3 {
	if direction.Len() > 0 {
		direction = direction.Normalize()
	}
	pitch := math.Acos(clampUnit(float64(direction.Z())))
	yaw := math.Asin(clampUnit(float64(direction.X())))
	return mgl32.Vec3{
		mgl32.RadToDeg(float32(pitch)),
		mgl32.RadToDeg(float32(yaw)),
		0,
	}
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// renderDepthMap renders scene depth from the directional light into the
// shadow target. The default framebuffer is bound again on return.
func (r *Renderer) renderDepthMap(s *scene.Scene) error {
	sm := r.shadowMap
	r.backend.BindFramebuffer(sm.FBO)
	defer r.backend.BindFramebuffer(0)

	r.backend.SetViewport(0, 0, sm.Width, sm.Height)
	r.backend.Clear(false, true)

	if s.Light == nil || s.Light.DirectionalLight == nil {
		return nil
	}
	light := s.Light.DirectionalLight

	r.depthShader.Bind()
	defer r.depthShader.Unbind()

	position := light.Direction.Mul(light.ShadowPosMult)
	lightView := r.transformation.UpdateLightViewMatrix(position, lightRotation(light.Direction))
	o := light.Ortho
	ortho := r.transformation.UpdateOrthoProjectionMatrix(o.Left, o.Right, o.Bottom, o.Top, o.Near, o.Far)
	r.depthShader.SetMat4("orthoProjectionMatrix", ortho)

	for _, bucket := range s.Buckets() {
		err := bucket.Mesh.RenderList(bucket.Instances, func(inst *scene.Instance) {
			r.depthShader.SetMat4("modelLightViewMatrix", r.transformation.BuildModelLightViewMatrix(inst, lightView))
			if inst.Animation != nil {
				setJoints(r.depthShader, "jointsMatrix", inst.Animation.JointMatrices(), r.joints)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}
