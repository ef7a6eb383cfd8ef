package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderConfig holds the settings shared by the shaders and the pipeline.
// MaxPointLights and MaxSpotLights size both the uniform arrays created at
// setup and the arrays declared in the scene shader.
type RenderConfig struct {
	// Projection
	FOV   float32 `yaml:"fov"` // degrees
	ZNear float32 `yaml:"zNear"`
	ZFar  float32 `yaml:"zFar"`

	// Shadows
	ShadowMapWidth    int32  `yaml:"shadowMapWidth"`
	ShadowMapHeight   int32  `yaml:"shadowMapHeight"`
	ShadowTextureUnit uint32 `yaml:"shadowTextureUnit"`

	// Lighting
	MaxPointLights int     `yaml:"maxPointLights"`
	MaxSpotLights  int     `yaml:"maxSpotLights"`
	SpecularPower  float32 `yaml:"specularPower"`

	// Skinning
	MaxJoints int `yaml:"maxJoints"`

	ClearColour mgl32.Vec4 `yaml:"clearColour"`
}

func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		FOV:               60,
		ZNear:             0.01,
		ZFar:              1000,
		ShadowMapWidth:    1024,
		ShadowMapHeight:   1024,
		ShadowTextureUnit: 2,
		MaxPointLights:    5,
		MaxSpotLights:     5,
		SpecularPower:     10,
		MaxJoints:         150,
		ClearColour:       mgl32.Vec4{0, 0, 0, 1},
	}
}

// HighQualityRenderConfig trades memory for sharper shadows and more lights.
func HighQualityRenderConfig() RenderConfig {
	cfg := DefaultRenderConfig()
	cfg.ShadowMapWidth = 4096
	cfg.ShadowMapHeight = 4096
	cfg.MaxPointLights = 16
	cfg.MaxSpotLights = 8
	return cfg
}

func (c RenderConfig) Validate() error {
	switch {
	case c.FOV <= 0 || c.FOV >= 180:
		return fmt.Errorf("fov must be in (0, 180), got %v", c.FOV)
	case c.ZNear <= 0 || c.ZFar <= c.ZNear:
		return fmt.Errorf("invalid clip planes near=%v far=%v", c.ZNear, c.ZFar)
	case c.ShadowMapWidth <= 0 || c.ShadowMapHeight <= 0:
		return fmt.Errorf("invalid shadow map size %dx%d", c.ShadowMapWidth, c.ShadowMapHeight)
	case c.ShadowTextureUnit < 2:
		// units 0 and 1 hold the diffuse texture and the normal map
		return fmt.Errorf("shadow texture unit %d collides with material textures", c.ShadowTextureUnit)
	case c.MaxPointLights < 1 || c.MaxSpotLights < 1:
		return fmt.Errorf("light limits must be positive, got %d point and %d spot", c.MaxPointLights, c.MaxSpotLights)
	case c.MaxJoints < 1:
		return fmt.Errorf("max joints must be positive, got %d", c.MaxJoints)
	}
	return nil
}
