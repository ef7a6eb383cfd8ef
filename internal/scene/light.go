package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Lights are value types. ToViewSpace returns a transformed copy and never
// touches the receiver, so the world-space light stays authoritative.

type Attenuation struct {
	Constant float32
	Linear   float32
	Exponent float32
}

type PointLight struct {
	Colour      mgl32.Vec3
	Position    mgl32.Vec3
	Intensity   float32
	Attenuation Attenuation
}

func NewPointLight(colour, position mgl32.Vec3, intensity float32) PointLight {
	return PointLight{
		Colour:      colour,
		Position:    position,
		Intensity:   intensity,
		Attenuation: Attenuation{Constant: 1},
	}
}

func (l PointLight) ToViewSpace(view mgl32.Mat4) PointLight {
	l.Position = view.Mul4x1(l.Position.Vec4(1)).Vec3()
	return l
}

// SpotLight is a point light restricted to a cone. CutOff is the cosine of
// the cone half angle.
type SpotLight struct {
	PointLight
	ConeDirection mgl32.Vec3
	CutOff        float32
}

func NewSpotLight(pl PointLight, coneDirection mgl32.Vec3, cutOffAngle float32) SpotLight {
	return SpotLight{
		PointLight:    pl,
		ConeDirection: coneDirection,
		CutOff:        float32(math.Cos(float64(mgl32.DegToRad(cutOffAngle)))),
	}
}

func (l SpotLight) ToViewSpace(view mgl32.Mat4) SpotLight {
	l.PointLight = l.PointLight.ToViewSpace(view)
	l.ConeDirection = view.Mul4x1(l.ConeDirection.Vec4(0)).Vec3()
	return l
}

// OrthoCoords are the bounds of the orthographic light frustum used for shadows.
type OrthoCoords struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
}

// DefaultOrthoCoords encloses a scene of roughly twenty units around the origin.
var DefaultOrthoCoords = OrthoCoords{Left: -10, Right: 10, Bottom: -10, Top: 10, Near: -1, Far: 20}

type DirectionalLight struct {
	Colour    mgl32.Vec3
	Direction mgl32.Vec3
	Intensity float32
	Ortho     OrthoCoords
	// ShadowPosMult pushes the virtual shadow camera along Direction far enough
	// to see every shadow caster.
	ShadowPosMult float32
}

func NewDirectionalLight(colour, direction mgl32.Vec3, intensity float32) DirectionalLight {
	return DirectionalLight{
		Colour:        colour,
		Direction:     direction,
		Intensity:     intensity,
		Ortho:         DefaultOrthoCoords,
		ShadowPosMult: 1,
	}
}

func (l DirectionalLight) ToViewSpace(view mgl32.Mat4) DirectionalLight {
	l.Direction = view.Mul4x1(l.Direction.Vec4(0)).Vec3()
	return l
}

// SceneLight gathers every light of a scene.
type SceneLight struct {
	AmbientLight     mgl32.Vec3
	SkyBoxLight      mgl32.Vec3
	PointLights      []PointLight
	SpotLights       []SpotLight
	DirectionalLight *DirectionalLight
}
