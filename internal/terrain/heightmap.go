package terrain

import "fmt"

// HeightMap is a row-major grid of height samples in local mesh units.
// Rows run along +Z and columns along +X.
type HeightMap struct {
	Width   int
	Height  int
	Samples []float32
}

// NewHeightMap allocates a zeroed grid.
func NewHeightMap(width, height int) (HeightMap, error) {
	hm := HeightMap{Width: width, Height: height}
	if width < 2 || height < 2 {
		return hm, fmt.Errorf("height map needs at least 2x2 samples, got %dx%d", width, height)
	}
	hm.Samples = make([]float32, width*height)
	return hm, nil
}

func (h HeightMap) Validate() error {
	if h.Width < 2 || h.Height < 2 {
		return fmt.Errorf("height map needs at least 2x2 samples, got %dx%d", h.Width, h.Height)
	}
	if len(h.Samples) != h.Width*h.Height {
		return fmt.Errorf("height map %dx%d holds %d samples", h.Width, h.Height, len(h.Samples))
	}
	return nil
}

func (h HeightMap) At(row, col int) float32 {
	return h.Samples[row*h.Width+col]
}

func (h HeightMap) Set(row, col int, v float32) {
	h.Samples[row*h.Width+col] = v
}

// Fill sets every sample to v.
func (h HeightMap) Fill(v float32) {
	for i := range h.Samples {
		h.Samples[i] = v
	}
}
