package terrain

import (
	"fmt"
	"runtime"

	"github.com/alitto/pond/v2"
	perlin "github.com/aquilax/go-perlin"
)

// NoiseParams drive GenerateHeightMap. Alpha, Beta and Octaves are passed
// straight to the Perlin generator; Frequency is the number of noise units
// spanned by the whole map.
type NoiseParams struct {
	Alpha     float64 `yaml:"alpha"`
	Beta      float64 `yaml:"beta"`
	Octaves   int32   `yaml:"octaves"`
	Seed      int64   `yaml:"seed"`
	Frequency float64 `yaml:"frequency"`
	MinY      float32 `yaml:"minY"`
	MaxY      float32 `yaml:"maxY"`
}

func DefaultNoiseParams() NoiseParams {
	return NoiseParams{
		Alpha:     2,
		Beta:      2,
		Octaves:   3,
		Seed:      1,
		Frequency: 4,
		MinY:      -0.1,
		MaxY:      0.1,
	}
}

// GenerateHeightMap samples 2D Perlin noise into a width×height grid,
// mapping noise in [-1, 1] onto [MinY, MaxY]. Rows are filled in parallel.
func GenerateHeightMap(width, height int, p NoiseParams) (HeightMap, error) {
	hm, err := NewHeightMap(width, height)
	if err != nil {
		return hm, err
	}
	if p.Octaves < 1 {
		return hm, fmt.Errorf("noise needs at least one octave, got %d", p.Octaves)
	}
	if p.MaxY < p.MinY {
		return hm, fmt.Errorf("noise range is inverted: minY=%v maxY=%v", p.MinY, p.MaxY)
	}

	noise := perlin.NewPerlin(p.Alpha, p.Beta, p.Octaves, p.Seed)
	span := p.MaxY - p.MinY

	pool := pond.NewPool(runtime.GOMAXPROCS(0))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for row := 0; row < height; row++ {
		group.Submit(func() {
			z := p.Frequency * float64(row) / float64(height-1)
			for col := 0; col < width; col++ {
				x := p.Frequency * float64(col) / float64(width-1)
				t := (noise.Noise2D(x, z) + 1) / 2
				t = max(0, min(1, t))
				hm.Set(row, col, p.MinY+span*float32(t))
			}
		})
	}
	if err := group.Wait(); err != nil {
		return hm, fmt.Errorf("generating height map: %w", err)
	}
	return hm, nil
}
