package renderer

import (
	"Terra3D/internal/scene"
)

// renderParticles draws every emitter with depth writes off and additive
// blending. Both are restored before returning, even on error.
func (r *Renderer) renderParticles(s *scene.Scene) error {
	if len(s.Emitters) == 0 {
		return nil
	}
	shader := r.particlesShader
	shader.Bind()
	defer shader.Unbind()

	shader.SetInt("texture_sampler", diffuseTextureUnit)
	shader.SetMat4("projectionMatrix", r.transformation.ProjectionMatrix())
	view := r.transformation.ViewMatrix()

	r.backend.SetDepthMask(false)
	r.backend.SetBlendMode(BlendAdditive)
	defer func() {
		r.backend.SetBlendMode(BlendAlpha)
		r.backend.SetDepthMask(true)
	}()

	for _, emitter := range s.Emitters {
		mesh := emitter.Mesh()
		if mesh == nil {
			continue
		}
		cols, rows := 1, 1
		if mesh.Material != nil && mesh.Material.Texture != nil {
			tex := mesh.Material.Texture
			cols, rows = max(tex.NumCols, 1), max(tex.NumRows, 1)
			r.backend.BindTexture(diffuseTextureUnit, tex.ID)
		}
		shader.SetInt("numCols", int32(cols))
		shader.SetInt("numRows", int32(rows))

		err := mesh.RenderList(emitter.Instances(), func(inst *scene.Instance) {
			col := inst.TextPos % cols
			row := inst.TextPos / cols
			shader.SetFloat("texXOffset", float32(col)/float32(cols))
			shader.SetFloat("texYOffset", float32(row)/float32(rows))
			shader.SetMat4("modelViewMatrix", r.transformation.BuildBillboardModelViewMatrix(inst, view))
		})
		if err != nil {
			return err
		}
	}
	return nil
}
