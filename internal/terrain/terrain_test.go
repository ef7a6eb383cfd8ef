package terrain

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatHeightMap(t *testing.T, w, h int, v float32) HeightMap {
	t.Helper()
	hm, err := NewHeightMap(w, h)
	require.NoError(t, err)
	hm.Fill(v)
	return hm
}

func TestFlatBlockHeight(t *testing.T) {
	terr, err := New(flatHeightMap(t, 8, 8, 0.5), 1, 1, 1)
	require.NoError(t, err)

	bounds := terr.Blocks()[0].Bounds
	assert.Equal(t, Box2D{MinX: -0.5, MinZ: -0.5, MaxX: 0.5, MaxZ: 0.5}, bounds)

	for _, p := range [][2]float32{{0, 0}, {-0.5, -0.5}, {0.49, 0.49}, {0.1, -0.33}, {-0.21, 0.4}} {
		got := terr.GetHeight(mgl32.Vec3{p[0], 10, p[1]})
		assert.InDelta(t, 0.5, got, 1e-5, "at %v", p)
	}

	for _, p := range [][2]float32{{0.5, 0}, {0, 0.5}, {-0.51, 0}, {3, 3}} {
		assert.Equal(t, NoTerrain, terr.GetHeight(mgl32.Vec3{p[0], 0, p[1]}), "at %v", p)
	}
}

func TestScaleAndOffsetApplyToHeight(t *testing.T) {
	terr, err := New(flatHeightMap(t, 4, 4, 0.5), 2, 10, 1, WithYOffset(-3))
	require.NoError(t, err)

	assert.InDelta(t, 0.5*10-3, terr.GetHeight(mgl32.Vec3{1, 0, -7}), 1e-4)
	assert.Equal(t, Box2D{MinX: -10, MinZ: -10, MaxX: 10, MaxZ: 10}, terr.Extent())
	assert.Equal(t, NoTerrain, terr.GetHeight(mgl32.Vec3{10, 0, 0}))
}

func TestTilingCompleteness(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5} {
		terr, err := New(flatHeightMap(t, 5, 5, 0), n, 1.7, 1)
		require.NoError(t, err)
		require.Len(t, terr.Blocks(), n*n)

		ext := terr.Extent()
		const steps = 97
		margin := ext.Width() * 0.1
		for i := 0; i <= steps; i++ {
			for j := 0; j <= steps; j++ {
				x := ext.MinX - margin + (ext.Width()+2*margin)*float32(i)/steps
				z := ext.MinZ - margin + (ext.Depth()+2*margin)*float32(j)/steps

				owners := 0
				for _, b := range terr.Blocks() {
					if b.Bounds.Contains(x, z) {
						owners++
					}
				}
				if ext.Contains(x, z) {
					assert.Equal(t, 1, owners, "n=%d point (%v, %v)", n, x, z)
				} else {
					assert.Equal(t, 0, owners, "n=%d point (%v, %v)", n, x, z)
				}
			}
		}

		// shared edges belong to the block on their max side
		for i := 1; i < len(terr.Blocks()); i++ {
			prev, cur := terr.Blocks()[i-1].Bounds, terr.Blocks()[i].Bounds
			if i%n != 0 {
				assert.Equal(t, prev.MaxX, cur.MinX)
				assert.Equal(t, i, terr.BlockAt(cur.MinX, cur.MinZ))
			}
		}
	}
}

func TestBlocksCentredOnOrigin(t *testing.T) {
	terr, err := New(flatHeightMap(t, 3, 3, 0), 2, 4, 1)
	require.NoError(t, err)

	want := []mgl32.Vec3{{-2, 0, -2}, {2, 0, -2}, {-2, 0, 2}, {2, 0, 2}}
	for i, b := range terr.Blocks() {
		assert.Equal(t, want[i], b.Instance.Position)
		assert.Equal(t, float32(4), b.Instance.Scale)
		assert.Same(t, terr.Mesh(), b.Instance.Mesh())
	}
	assert.Len(t, terr.Instances(), 4)
}

func TestSlopedCellInterpolation(t *testing.T) {
	// height rises linearly with x: y = col
	hm, err := NewHeightMap(3, 3)
	require.NoError(t, err)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			hm.Set(row, col, float32(col))
		}
	}
	terr, err := New(hm, 1, 1, 1)
	require.NoError(t, err)

	// local x in [-0.5, 0.5] spans two cells; world height = col
	for _, x := range []float32{-0.5, -0.3, -0.1, 0, 0.2, 0.45} {
		for _, z := range []float32{-0.45, -0.1, 0.3} {
			want := (x + 0.5) * 2
			assert.InDelta(t, want, terr.GetHeight(mgl32.Vec3{x, 0, z}), 1e-4, "x=%v z=%v", x, z)
		}
	}
}

func TestTrianglePickedByDiagonal(t *testing.T) {
	// a single cell with only the far corner raised
	hm, err := NewHeightMap(2, 2)
	require.NoError(t, err)
	hm.Set(1, 1, 1)
	terr, err := New(hm, 1, 1, 1)
	require.NoError(t, err)

	// near the min corner the raised sample is not part of the triangle
	assert.InDelta(t, 0, terr.GetHeight(mgl32.Vec3{-0.4, 0, -0.4}), 1e-5)
	// on the other side of the diagonal it contributes linearly
	assert.InDelta(t, 0.6, terr.GetHeight(mgl32.Vec3{0.3, 0, 0.3}), 1e-5)
	assert.InDelta(t, 0.8, terr.GetHeight(mgl32.Vec3{0.45, 0, 0.35}), 1e-5)
}

func TestDegeneratePlaneFallsBackToNearestCorner(t *testing.T) {
	a := mgl32.Vec3{0, 1, 0}
	b := mgl32.Vec3{1, 2, 0}
	c := mgl32.Vec3{2, 3, 0}

	assert.Equal(t, float32(1), interpolateHeight(a, b, c, 0.1, 0))
	assert.Equal(t, float32(3), interpolateHeight(a, b, c, 1.9, 0.2))
}

func TestNewRejectsBadInput(t *testing.T) {
	hm := flatHeightMap(t, 2, 2, 0)

	_, err := New(hm, 0, 1, 1)
	assert.Error(t, err)
	_, err = New(hm, 1, 0, 1)
	assert.Error(t, err)
	_, err = New(HeightMap{Width: 2, Height: 2, Samples: []float32{0}}, 1, 1, 1)
	assert.Error(t, err)
	_, err = NewHeightMap(1, 5)
	assert.Error(t, err)
}
