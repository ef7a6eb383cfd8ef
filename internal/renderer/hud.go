package renderer

import "Terra3D/internal/scene"

// renderHud draws the overlay with an orthographic projection in window
// pixels, origin at the top-left corner, depth testing off.
func (r *Renderer) renderHud(hud Hud) error {
	if hud == nil {
		return nil
	}
	shader := r.hudShader
	shader.Bind()
	defer shader.Unbind()

	r.backend.SetDepthTest(false)
	defer r.backend.SetDepthTest(true)

	shader.SetInt("texture_sampler", diffuseTextureUnit)
	ortho := r.transformation.Ortho2DProjectionMatrix(0, float32(r.width), float32(r.height), 0)
	for _, inst := range hud.Instances() {
		mesh := inst.Mesh()
		if mesh == nil {
			continue
		}
		shader.SetMat4("projModelMatrix", r.transformation.BuildOrthoProjModelMatrix(inst, ortho))
		if mesh.Material != nil {
			shader.SetVec4("colour", mesh.Material.AmbientColour)
			shader.SetInt("hasTexture", boolToInt(mesh.Material.IsTextured()))
			if mesh.Material.Texture != nil {
				r.backend.BindTexture(diffuseTextureUnit, mesh.Material.Texture.ID)
			}
		} else {
			shader.SetVec4("colour", scene.DefaultColour)
			shader.SetInt("hasTexture", 0)
		}
		if err := mesh.Render(); err != nil {
			return err
		}
	}
	return nil
}
