package scene

import "github.com/go-gl/mathgl/mgl32"

type Fog struct {
	Enabled bool
	Colour  mgl32.Vec3
	Density float32
}

// NoFog disables fog in the scene shader.
var NoFog = Fog{}

func NewFog(colour mgl32.Vec3, density float32) Fog {
	return Fog{Enabled: true, Colour: colour, Density: density}
}
