package terrain

import (
	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Local extent of the generated mesh: [StartX, -StartX] by [StartZ, -StartZ].
const (
	StartX float32 = -0.5
	StartZ float32 = -0.5
)

// XLength and ZLength are the local size of one block before scaling.
func XLength() float32 { return -StartX * 2 }
func ZLength() float32 { return -StartZ * 2 }

// NewHeightMapMesh builds the vertex data of one terrain block. The texture
// repeats textInc times across the block. Each cell is split along its
// leftBottom to rightTop diagonal.
func NewHeightMapMesh(hm HeightMap, textInc int) (*scene.MeshData, error) {
	if err := hm.Validate(); err != nil {
		return nil, err
	}
	if textInc < 1 {
		textInc = 1
	}

	w, h := hm.Width, hm.Height
	incX := XLength() / float32(w-1)
	incZ := ZLength() / float32(h-1)

	data := &scene.MeshData{
		Positions: make([]float32, 0, w*h*3),
		TexCoords: make([]float32, 0, w*h*2),
		Normals:   make([]float32, 0, w*h*3),
		Indices:   make([]uint32, 0, (w-1)*(h-1)*6),
	}

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			data.Positions = append(data.Positions,
				StartX+float32(col)*incX,
				hm.At(row, col),
				StartZ+float32(row)*incZ)

			data.TexCoords = append(data.TexCoords,
				float32(textInc)*float32(col)/float32(w),
				float32(textInc)*float32(row)/float32(h))

			n := vertexNormal(hm, row, col, incX, incZ)
			data.Normals = append(data.Normals, n.X(), n.Y(), n.Z())

			if col < w-1 && row < h-1 {
				leftTop := uint32(row*w + col)
				leftBottom := uint32((row+1)*w + col)
				rightBottom := uint32((row+1)*w + col + 1)
				rightTop := uint32(row*w + col + 1)

				data.Indices = append(data.Indices,
					leftTop, leftBottom, rightTop,
					rightTop, leftBottom, rightBottom)
			}
		}
	}
	return data, nil
}

// vertexNormal uses central differences, one-sided on the border.
func vertexNormal(hm HeightMap, row, col int, incX, incZ float32) mgl32.Vec3 {
	c0, c1 := max(col-1, 0), min(col+1, hm.Width-1)
	r0, r1 := max(row-1, 0), min(row+1, hm.Height-1)

	dydx := (hm.At(row, c1) - hm.At(row, c0)) / (float32(c1-c0) * incX)
	dydz := (hm.At(r1, col) - hm.At(r0, col)) / (float32(r1-r0) * incZ)
	return mgl32.Vec3{-dydx, 1, -dydz}.Normalize()
}
