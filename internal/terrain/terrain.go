// Package terrain builds tiled height-map terrain and answers height queries
// used for ground collision.
package terrain

import (
	"fmt"
	"math"

	"Terra3D/internal/logger"
	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// NoTerrain is returned by GetHeight for points outside every block.
const NoTerrain float32 = -math.MaxFloat32

// Box2D is an axis-aligned box in the XZ plane. It contains its minimum edges
// but not its maximum ones, so adjacent boxes sharing an edge never overlap.
type Box2D struct {
	MinX, MinZ float32
	MaxX, MaxZ float32
}

func (b Box2D) Contains(x, z float32) bool {
	return x >= b.MinX && z >= b.MinZ && x < b.MaxX && z < b.MaxZ
}

func (b Box2D) Width() float32 { return b.MaxX - b.MinX }
func (b Box2D) Depth() float32 { return b.MaxZ - b.MinZ }

// Block is one placed copy of the shared terrain mesh.
type Block struct {
	Instance *scene.Instance
	Bounds   Box2D
	Scale    float32
	YOffset  float32
}

// Terrain is an N×N grid of blocks sharing one height map and one mesh.
// It is immutable after New.
type Terrain struct {
	heightMap    HeightMap
	mesh         *scene.Mesh
	blocks       []Block
	blocksPerRow int
}

type options struct {
	yOffset  float32
	material *scene.Material
	name     string
}

type Option func(*options)

// WithYOffset lifts every block by y world units.
func WithYOffset(y float32) Option {
	return func(o *options) { o.yOffset = y }
}

func WithMaterial(m *scene.Material) Option {
	return func(o *options) { o.material = m }
}

func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// New places blocksPerRow×blocksPerRow blocks of scale world units each,
// centred on the origin.
func New(hm HeightMap, blocksPerRow int, scale float32, textInc int, opts ...Option) (*Terrain, error) {
	if blocksPerRow < 1 {
		return nil, fmt.Errorf("terrain needs at least one block per row, got %d", blocksPerRow)
	}
	if !(scale > 0) {
		return nil, fmt.Errorf("terrain scale must be positive, got %v", scale)
	}
	o := options{name: "terrain"}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := NewHeightMapMesh(hm, textInc)
	if err != nil {
		return nil, fmt.Errorf("building terrain mesh: %w", err)
	}

	t := &Terrain{
		heightMap:    hm,
		mesh:         scene.NewMesh(o.name, data, o.material),
		blocks:       make([]Block, 0, blocksPerRow*blocksPerRow),
		blocksPerRow: blocksPerRow,
	}

	// Edges come from one formula so neighbouring blocks share them exactly.
	sizeX := XLength() * scale
	sizeZ := ZLength() * scale
	originX := -float32(blocksPerRow) * sizeX / 2
	originZ := -float32(blocksPerRow) * sizeZ / 2
	edgeX := func(i int) float32 { return originX + float32(i)*sizeX }
	edgeZ := func(i int) float32 { return originZ + float32(i)*sizeZ }

	for row := 0; row < blocksPerRow; row++ {
		for col := 0; col < blocksPerRow; col++ {
			bounds := Box2D{
				MinX: edgeX(col), MinZ: edgeZ(row),
				MaxX: edgeX(col + 1), MaxZ: edgeZ(row + 1),
			}
			inst := scene.NewInstance(t.mesh)
			inst.Scale = scale
			inst.SetPosition((bounds.MinX+bounds.MaxX)/2, o.yOffset, (bounds.MinZ+bounds.MaxZ)/2)

			t.blocks = append(t.blocks, Block{
				Instance: inst,
				Bounds:   bounds,
				Scale:    scale,
				YOffset:  o.yOffset,
			})
		}
	}

	logger.Log.Debug("Terrain built",
		zap.Int("blocks", len(t.blocks)),
		zap.Int("samplesX", hm.Width),
		zap.Int("samplesZ", hm.Height),
		zap.Float32("scale", scale))
	return t, nil
}

func (t *Terrain) Mesh() *scene.Mesh { return t.mesh }

// Blocks returns the blocks in row-major order.
func (t *Terrain) Blocks() []Block { return t.blocks }

// Instances returns one scene instance per block.
func (t *Terrain) Instances() []*scene.Instance {
	out := make([]*scene.Instance, len(t.blocks))
	for i := range t.blocks {
		out[i] = t.blocks[i].Instance
	}
	return out
}

// Extent is the union of all block bounds.
func (t *Terrain) Extent() Box2D {
	first, last := t.blocks[0].Bounds, t.blocks[len(t.blocks)-1].Bounds
	return Box2D{MinX: first.MinX, MinZ: first.MinZ, MaxX: last.MaxX, MaxZ: last.MaxZ}
}

// BlockAt returns the index of the block owning (x, z), or -1.
func (t *Terrain) BlockAt(x, z float32) int {
	for i := range t.blocks {
		if t.blocks[i].Bounds.Contains(x, z) {
			return i
		}
	}
	return -1
}

// GetHeight returns the terrain surface height below position, or NoTerrain
// when position lies outside every block.
func (t *Terrain) GetHeight(position mgl32.Vec3) float32 {
	i := t.BlockAt(position.X(), position.Z())
	if i < 0 {
		return NoTerrain
	}
	a, b, c := t.triangle(&t.blocks[i], position.X(), position.Z())
	return interpolateHeight(a, b, c, position.X(), position.Z())
}

func (t *Terrain) worldHeight(b *Block, row, col int) float32 {
	return t.heightMap.At(row, col)*b.Scale + b.YOffset
}

// triangle returns the three world-space corners of the cell triangle that
// holds (x, z). The first two corners lie on the shared diagonal.
func (t *Terrain) triangle(b *Block, x, z float32) (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3) {
	hm := t.heightMap
	cellWidth := b.Bounds.Width() / float32(hm.Width-1)
	cellDepth := b.Bounds.Depth() / float32(hm.Height-1)

	col := clampIndex(int((x-b.Bounds.MinX)/cellWidth), hm.Width-2)
	row := clampIndex(int((z-b.Bounds.MinZ)/cellDepth), hm.Height-2)

	x0 := b.Bounds.MinX + float32(col)*cellWidth
	x1 := b.Bounds.MinX + float32(col+1)*cellWidth
	z0 := b.Bounds.MinZ + float32(row)*cellDepth
	z1 := b.Bounds.MinZ + float32(row+1)*cellDepth

	leftBottom := mgl32.Vec3{x0, t.worldHeight(b, row+1, col), z1}
	rightTop := mgl32.Vec3{x1, t.worldHeight(b, row, col+1), z0}

	var third mgl32.Vec3
	if z < diagonalZ(leftBottom, rightTop, x) {
		third = mgl32.Vec3{x0, t.worldHeight(b, row, col), z0}
	} else {
		third = mgl32.Vec3{x1, t.worldHeight(b, row+1, col+1), z1}
	}
	return leftBottom, rightTop, third
}

func clampIndex(i, hi int) int {
	return max(0, min(i, hi))
}

// diagonalZ is the z of the line through p1 and p2 at x.
func diagonalZ(p1, p2 mgl32.Vec3, x float32) float32 {
	return (p1.Z()-p2.Z())/(p1.X()-p2.X())*(x-p1.X()) + p1.Z()
}

// interpolateHeight solves the plane a·x + b·y + c·z + d = 0 through pA, pB
// and pC for y. When the corners are collinear in XZ the plane is vertical
// and the height of the corner nearest to (x, z) is returned instead.
func interpolateHeight(pA, pB, pC mgl32.Vec3, x, z float32) float32 {
	a := (pB.Y()-pA.Y())*(pC.Z()-pA.Z()) - (pC.Y()-pA.Y())*(pB.Z()-pA.Z())
	b := (pB.Z()-pA.Z())*(pC.X()-pA.X()) - (pC.Z()-pA.Z())*(pB.X()-pA.X())
	c := (pB.X()-pA.X())*(pC.Y()-pA.Y()) - (pC.X()-pA.X())*(pB.Y()-pA.Y())
	d := -(a*pA.X() + b*pA.Y() + c*pA.Z())

	if math.Abs(float64(b)) < 1e-12 {
		return nearestCornerHeight(x, z, pA, pB, pC)
	}
	y := (-d - a*x - c*z) / b
	if math.IsNaN(float64(y)) || math.IsInf(float64(y), 0) {
		return nearestCornerHeight(x, z, pA, pB, pC)
	}
	return y
}

func nearestCornerHeight(x, z float32, corners ...mgl32.Vec3) float32 {
	best := corners[0]
	bestDist := float32(math.MaxFloat32)
	for _, p := range corners {
		dx, dz := p.X()-x, p.Z()-z
		if d := dx*dx + dz*dz; d < bestDist {
			best, bestDist = p, d
		}
	}
	return best.Y()
}
