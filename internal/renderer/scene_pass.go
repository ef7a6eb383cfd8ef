package renderer

import (
	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Fixed texture units of the scene shader.
const (
	diffuseTextureUnit = 0
	normalMapUnit      = 1
)

func (r *Renderer) renderScene(s *scene.Scene) error {
	shader := r.sceneShader
	shader.Bind()
	defer shader.Unbind()

	t := r.transformation
	shader.SetMat4("projectionMatrix", t.ProjectionMatrix())
	shader.SetMat4("orthoProjectionMatrix", t.OrthoProjectionMatrix())
	view := t.ViewMatrix()
	lightView := t.LightViewMatrix()

	r.uploadLights(view, s.Light)
	setFog(shader, "fog", s.Fog)

	shader.SetInt("texture_sampler", diffuseTextureUnit)
	shader.SetInt("normalMap", normalMapUnit)
	shader.SetInt("shadowMap", int32(r.config.ShadowTextureUnit))

	for _, bucket := range s.Buckets() {
		mesh := bucket.Mesh
		material := mesh.Material
		if material == nil {
			material = scene.DefaultMaterial()
		}
		setMaterial(shader, "material", material)
		if material.Texture != nil {
			r.backend.BindTexture(diffuseTextureUnit, material.Texture.ID)
		}
		if material.NormalMap != nil {
			r.backend.BindTexture(normalMapUnit, material.NormalMap.ID)
		}
		r.backend.BindTexture(r.config.ShadowTextureUnit, r.shadowMap.DepthTexture)

		err := mesh.RenderList(bucket.Instances, func(inst *scene.Instance) {
			shader.SetMat4("modelViewMatrix", t.BuildModelViewMatrix(inst, view))
			shader.SetMat4("modelLightViewMatrix", t.BuildModelLightViewMatrix(inst, lightView))
			if inst.Animation != nil {
				setJoints(shader, "jointsMatrix", inst.Animation.JointMatrices(), r.joints)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// uploadLights sets the light uniforms from view space copies. Unused array
// slots are written with zero intensity so lights removed since the last
// frame stop contributing.
func (r *Renderer) uploadLights(view mgl32.Mat4, lights *scene.SceneLight) {
	shader := r.sceneShader
	if lights == nil {
		lights = &scene.SceneLight{}
	}
	shader.SetVec3("ambientLight", lights.AmbientLight)
	shader.SetFloat("specularPower", r.config.SpecularPower)

	for i := 0; i < r.config.MaxPointLights; i++ {
		var pl scene.PointLight
		if i < len(lights.PointLights) {
			pl = lights.PointLights[i].ToViewSpace(view)
		}
		setPointLight(shader, r.pointLightNames[i], pl)
	}

	for i := 0; i < r.config.MaxSpotLights; i++ {
		var sl scene.SpotLight
		if i < len(lights.SpotLights) {
			sl = lights.SpotLights[i].ToViewSpace(view)
		}
		setSpotLight(shader, r.spotLightNames[i], sl)
	}

	var dl scene.DirectionalLight
	if lights.DirectionalLight != nil {
		dl = lights.DirectionalLight.ToViewSpace(view)
	}
	setDirectionalLight(shader, "directionalLight", dl)
}
