package renderer

import (
	"fmt"

	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Helpers that create and set the struct uniforms declared by the scene
// shader. Names follow the GLSL struct members.

func createUniforms(p ShaderProgram, names ...string) error {
	for _, name := range names {
		if err := p.CreateUniform(name); err != nil {
			return err
		}
	}
	return nil
}

func createPointLightUniforms(p ShaderProgram, name string, count int) error {
	for i := 0; i < count; i++ {
		if err := createPointLightUniform(p, fmt.Sprintf("%s[%d]", name, i)); err != nil {
			return err
		}
	}
	return nil
}

func createPointLightUniform(p ShaderProgram, name string) error {
	return createUniforms(p,
		name+".colour",
		name+".position",
		name+".intensity",
		name+".att.constant",
		name+".att.linear",
		name+".att.exponent",
	)
}

func createSpotLightUniforms(p ShaderProgram, name string, count int) error {
	for i := 0; i < count; i++ {
		elem := fmt.Sprintf("%s[%d]", name, i)
		if err := createPointLightUniform(p, elem+".pl"); err != nil {
			return err
		}
		if err := createUniforms(p, elem+".conedir", elem+".cutoff"); err != nil {
			return err
		}
	}
	return nil
}

func createDirectionalLightUniform(p ShaderProgram, name string) error {
	return createUniforms(p, name+".colour", name+".direction", name+".intensity")
}

func createMaterialUniform(p ShaderProgram, name string) error {
	return createUniforms(p,
		name+".ambient",
		name+".diffuse",
		name+".specular",
		name+".hasTexture",
		name+".hasNormalMap",
		name+".reflectance",
	)
}

func createFogUniform(p ShaderProgram, name string) error {
	return createUniforms(p, name+".activeFog", name+".colour", name+".density")
}

func setPointLight(p ShaderProgram, name string, l scene.PointLight) {
	p.SetVec3(name+".colour", l.Colour)
	p.SetVec3(name+".position", l.Position)
	p.SetFloat(name+".intensity", l.Intensity)
	p.SetFloat(name+".att.constant", l.Attenuation.Constant)
	p.SetFloat(name+".att.linear", l.Attenuation.Linear)
	p.SetFloat(name+".att.exponent", l.Attenuation.Exponent)
}

func setSpotLight(p ShaderProgram, name string, l scene.SpotLight) {
	setPointLight(p, name+".pl", l.PointLight)
	p.SetVec3(name+".conedir", l.ConeDirection)
	p.SetFloat(name+".cutoff", l.CutOff)
}

func setDirectionalLight(p ShaderProgram, name string, l scene.DirectionalLight) {
	p.SetVec3(name+".colour", l.Colour)
	p.SetVec3(name+".direction", l.Direction)
	p.SetFloat(name+".intensity", l.Intensity)
}

func setMaterial(p ShaderProgram, name string, m *scene.Material) {
	p.SetVec4(name+".ambient", m.AmbientColour)
	p.SetVec4(name+".diffuse", m.DiffuseColour)
	p.SetVec4(name+".specular", m.SpecularColour)
	p.SetInt(name+".hasTexture", boolToInt(m.IsTextured()))
	p.SetInt(name+".hasNormalMap", boolToInt(m.HasNormalMap()))
	p.SetFloat(name+".reflectance", m.Reflectance)
}

func setFog(p ShaderProgram, name string, f scene.Fog) {
	p.SetInt(name+".activeFog", boolToInt(f.Enabled))
	p.SetVec3(name+".colour", f.Colour)
	p.SetFloat(name+".density", f.Density)
}

// setJoints uploads len(scratch) matrices: the joints followed by zeroes.
func setJoints(p ShaderProgram, name string, joints, scratch []mgl32.Mat4) {
	n := copy(scratch, joints)
	for i := n; i < len(scratch); i++ {
		scratch[i] = mgl32.Mat4{}
	}
	p.SetMat4Array(name, scratch)
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
