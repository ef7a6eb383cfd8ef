package loader

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

const quadOBJ = `o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl red
f 1/1/1 2/2/1 3/3/1 4/4/1
`

const quadMTL = `newmtl red
Ka 0.1 0 0
Kd 1 0 0
Ks 0.5 0.5 0.5
Ns 250
d 1
map_Kd tex.png
`

func TestDecodeOBJ(t *testing.T) {
	meshes, err := DecodeOBJ(strings.NewReader(quadOBJ), strings.NewReader(quadMTL), "models", false)
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "quad", m.Name)
	assert.Equal(t, 4, m.Data.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Data.Indices)
	assert.Equal(t, []float32{1, 1, 0}, m.Data.Positions[6:9])
	// v is flipped for top-down images
	assert.Equal(t, []float32{1, 0}, m.Data.TexCoords[4:6])
	assert.Equal(t, []float32{0, 0, 1}, m.Data.Normals[0:3])

	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, m.Material.DiffuseColour)
	assert.InDelta(t, 0.25, m.Material.Reflectance, 1e-6)
	assert.Equal(t, filepath.Join("models", "tex.png"), m.TexturePath)
}

func TestDecodeOBJComputesMissingNormals(t *testing.T) {
	src := `o tri
v 0 0 0
v 1 0 0
v 0 0 -1
f 1 2 3
`
	meshes, err := DecodeOBJ(strings.NewReader(src), strings.NewReader(""), ".", false)
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	n := meshes[0].Data.Normals
	require.Len(t, n, 9)
	for i := 0; i < 9; i += 3 {
		assert.InDelta(t, 0, n[i], 1e-6)
		assert.InDelta(t, 1, n[i+1], 1e-6)
		assert.InDelta(t, 0, n[i+2], 1e-6)
	}
}

func TestLoadOBJFromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(quadOBJ), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.mtl"), []byte(quadMTL), 0o644))

	meshes, err := LoadOBJ(filepath.Join(dir, "quad.obj"), true)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, filepath.Join(dir, "tex.png"), meshes[0].TexturePath)

	_, err = LoadOBJ(filepath.Join(dir, "missing.obj"), false)
	assert.Error(t, err)
}

func TestRecalculateNormalsAveragesFaces(t *testing.T) {
	// two triangles folded along the x axis share vertices 0 and 1
	positions := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
	indices := []uint32{0, 1, 2, 0, 3, 1}
	n := RecalculateNormals(positions, indices)

	assert.InDelta(t, 0, n[0], 1e-6)
	assert.InDelta(t, 0.70710677, n[1], 1e-5)
	assert.InDelta(t, 0.70710677, n[2], 1e-5)
	// vertex 2 only touches the first face
	assert.Equal(t, []float32{0, 0, 1}, n[6:9])

	// out of range triangles are skipped
	n = RecalculateNormals(positions, []uint32{0, 1, 9})
	assert.Equal(t, []float32{0, 1, 0}, n[0:3])
}

func gradientImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / (w - 1))})
		}
	}
	return img
}

func TestHeightMapFromImage(t *testing.T) {
	hm, err := HeightMapFromImage(gradientImage(3, 2), -1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, hm.Width)
	assert.Equal(t, 2, hm.Height)
	assert.InDelta(t, -1, hm.At(0, 0), 1e-6)
	assert.InDelta(t, 1, hm.At(1, 2), 1e-6)
	assert.InDelta(t, 0, hm.At(1, 1), 0.01)

	_, err = HeightMapFromImage(image.NewGray(image.Rect(0, 0, 1, 4)), 0, 1)
	assert.Error(t, err)
}

func TestLoadHeightMapFormats(t *testing.T) {
	dir := t.TempDir()
	img := gradientImage(4, 4)

	pngPath := filepath.Join(dir, "h.png")
	f, err := os.Create(pngPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	bmpPath := filepath.Join(dir, "h.bmp")
	f, err = os.Create(bmpPath)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, img))
	require.NoError(t, f.Close())

	fromPNG, err := LoadHeightMap(pngPath, 0, 10)
	require.NoError(t, err)
	fromBMP, err := LoadHeightMap(bmpPath, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, fromPNG.Samples, fromBMP.Samples)
	assert.InDelta(t, 10, fromPNG.At(3, 3), 1e-5)

	_, err = LoadHeightMap(filepath.Join(dir, "nope.png"), 0, 1)
	assert.Error(t, err)
}

func TestShapes(t *testing.T) {
	cube := Cube()
	assert.Equal(t, 24, cube.VertexCount())
	assert.Len(t, cube.Indices, 36)
	for _, idx := range cube.Indices {
		assert.Less(t, idx, uint32(24))
	}

	q := Quad(20, 10)
	assert.Equal(t, 4, q.VertexCount())
	assert.Equal(t, []float32{20, 10, 0}, q.Positions[6:9])

	b := Billboard()
	assert.Equal(t, []float32{-0.5, 0.5, 0}, b.Positions[0:3])
	assert.Equal(t, []float32{0.5, -0.5, 0}, b.Positions[6:9])
}
