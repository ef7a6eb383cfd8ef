package scene

import "github.com/go-gl/mathgl/mgl32"

// DefaultColour is the colour used by untextured materials.
var DefaultColour = mgl32.Vec4{1, 1, 1, 1}

// Texture is a GPU texture handle. Rows and columns describe an atlas layout;
// a plain texture is a 1x1 atlas.
type Texture struct {
	ID      uint32
	Width   int
	Height  int
	NumRows int
	NumCols int
}

// Frames returns the number of atlas cells.
func (t *Texture) Frames() int {
	rows, cols := t.NumRows, t.NumCols
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return rows * cols
}

type Material struct {
	AmbientColour  mgl32.Vec4
	DiffuseColour  mgl32.Vec4
	SpecularColour mgl32.Vec4
	Reflectance    float32
	Texture        *Texture
	NormalMap      *Texture
}

func DefaultMaterial() *Material {
	return &Material{
		AmbientColour:  DefaultColour,
		DiffuseColour:  DefaultColour,
		SpecularColour: DefaultColour,
	}
}

// NewColourMaterial returns an untextured material of a single colour.
func NewColourMaterial(colour mgl32.Vec4, reflectance float32) *Material {
	return &Material{
		AmbientColour:  colour,
		DiffuseColour:  colour,
		SpecularColour: colour,
		Reflectance:    reflectance,
	}
}

// NewTexturedMaterial returns a white material sampling texture.
func NewTexturedMaterial(texture *Texture, reflectance float32) *Material {
	m := NewColourMaterial(DefaultColour, reflectance)
	m.Texture = texture
	return m
}

func (m *Material) IsTextured() bool {
	return m.Texture != nil
}

func (m *Material) HasNormalMap() bool {
	return m.NormalMap != nil
}
