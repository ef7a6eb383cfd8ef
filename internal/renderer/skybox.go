package renderer

import (
	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// SkyBoxView returns view with its translation removed so the sky box stays
// centred on the camera.
func SkyBoxView(view mgl32.Mat4) mgl32.Mat4 {
	view[12] = 0
	view[13] = 0
	view[14] = 0
	return view
}

func (r *Renderer) renderSkyBox(s *scene.Scene) error {
	sky := s.SkyBox
	if sky == nil || sky.Mesh() == nil {
		return nil
	}
	shader := r.skyBoxShader
	shader.Bind()
	defer shader.Unbind()

	shader.SetInt("texture_sampler", diffuseTextureUnit)
	shader.SetMat4("projectionMatrix", r.transformation.ProjectionMatrix())

	view := SkyBoxView(r.transformation.ViewMatrix())
	shader.SetMat4("modelViewMatrix", r.transformation.BuildModelViewMatrix(sky, view))

	var ambient mgl32.Vec3
	if s.Light != nil {
		ambient = s.Light.SkyBoxLight
	}
	shader.SetVec3("ambientLight", ambient)

	mesh := sky.Mesh()
	material := mesh.Material
	if material == nil {
		material = scene.DefaultMaterial()
	}
	shader.SetVec4("colour", material.AmbientColour)
	shader.SetInt("hasTexture", boolToInt(material.IsTextured()))
	if material.Texture != nil {
		r.backend.BindTexture(diffuseTextureUnit, material.Texture.ID)
	}
	return mesh.Render()
}
