package loader

import "Terra3D/internal/scene"

// Quad builds a w×h rectangle in the XY plane with its top-left corner at the
// origin and Y growing downwards, as the HUD projection expects. Texture
// coordinates cover the whole image.
func Quad(w, h float32) *scene.MeshData {
	return &scene.MeshData{
		Positions: []float32{
			0, 0, 0,
			0, h, 0,
			w, h, 0,
			w, 0, 0,
		},
		TexCoords: []float32{
			0, 0,
			0, 1,
			1, 1,
			1, 0,
		},
		Normals: []float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		},
		Indices: []uint32{0, 1, 3, 3, 1, 2},
	}
}

// Billboard builds a unit quad centred on the origin, facing +Z.
func Billboard() *scene.MeshData {
	d := Quad(1, 1)
	for i := 0; i < len(d.Positions); i += 3 {
		d.Positions[i] -= 0.5
		d.Positions[i+1] = 0.5 - d.Positions[i+1]
	}
	// winding flips with the Y mirror
	d.Indices = []uint32{0, 3, 1, 3, 2, 1}
	return d
}

// Cube builds a unit cube centred on the origin with one quad per face, so
// every face carries its own normal and full texture coordinates.
func Cube() *scene.MeshData {
	const h = 0.5
	// x, y, z, u, v, nx, ny, nz
	interleaved := []float32{
		-h, -h, h, 0, 1, 0, 0, 1,
		h, -h, h, 1, 1, 0, 0, 1,
		h, h, h, 1, 0, 0, 0, 1,
		-h, h, h, 0, 0, 0, 0, 1,

		-h, -h, -h, 1, 1, 0, 0, -1,
		-h, h, -h, 1, 0, 0, 0, -1,
		h, h, -h, 0, 0, 0, 0, -1,
		h, -h, -h, 0, 1, 0, 0, -1,

		-h, -h, -h, 0, 1, -1, 0, 0,
		-h, -h, h, 1, 1, -1, 0, 0,
		-h, h, h, 1, 0, -1, 0, 0,
		-h, h, -h, 0, 0, -1, 0, 0,

		h, -h, -h, 1, 1, 1, 0, 0,
		h, h, -h, 1, 0, 1, 0, 0,
		h, h, h, 0, 0, 1, 0, 0,
		h, -h, h, 0, 1, 1, 0, 0,

		-h, h, -h, 0, 0, 0, 1, 0,
		-h, h, h, 0, 1, 0, 1, 0,
		h, h, h, 1, 1, 0, 1, 0,
		h, h, -h, 1, 0, 0, 1, 0,

		-h, -h, -h, 0, 1, 0, -1, 0,
		h, -h, -h, 1, 1, 0, -1, 0,
		h, -h, h, 1, 0, 0, -1, 0,
		-h, -h, h, 0, 0, 0, -1, 0,
	}

	d := &scene.MeshData{}
	for i := 0; i < len(interleaved); i += 8 {
		d.Positions = append(d.Positions, interleaved[i:i+3]...)
		d.TexCoords = append(d.TexCoords, interleaved[i+3:i+5]...)
		d.Normals = append(d.Normals, interleaved[i+5:i+8]...)
	}
	for face := uint32(0); face < 6; face++ {
		b := face * 4
		d.Indices = append(d.Indices, b, b+1, b+2, b+2, b+3, b)
	}
	return d
}
