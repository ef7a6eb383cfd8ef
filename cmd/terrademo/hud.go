package main

import (
	"image"
	"image/color"
	"math"

	"Terra3D/internal/loader"
	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
)

const (
	compassSize   = 80
	compassMargin = 20
)

type meshUploader interface {
	UploadMesh(mesh *scene.Mesh) error
}

// hud is a compass in the top-right corner whose needle follows the camera yaw.
type hud struct {
	meshes    []*scene.Mesh
	panel     *scene.Instance
	needle    *scene.Instance
	instances []*scene.Instance
}

func newHud(up meshUploader, windowWidth float32) (*hud, error) {
	panelMesh := scene.NewMesh("compass", loader.Quad(compassSize, compassSize),
		scene.NewColourMaterial(mgl32.Vec4{0.1, 0.1, 0.1, 0.6}, 0))
	needleMesh := scene.NewMesh("compass-needle", loader.Quad(4, compassSize/2-8),
		scene.NewColourMaterial(mgl32.Vec4{0.9, 0.2, 0.1, 1}, 0))

	h := &hud{meshes: []*scene.Mesh{panelMesh, needleMesh}}
	for _, m := range h.meshes {
		if err := up.UploadMesh(m); err != nil {
			return nil, multierr.Append(err, h.Cleanup())
		}
	}
	h.panel = scene.NewInstance(panelMesh)
	h.needle = scene.NewInstance(needleMesh)
	h.instances = []*scene.Instance{h.panel, h.needle}
	h.Resize(windowWidth)
	return h, nil
}

func (h *hud) Instances() []*scene.Instance { return h.instances }

// Resize keeps the compass anchored to the right edge.
func (h *hud) Resize(windowWidth float32) {
	x := windowWidth - compassSize - compassMargin
	h.panel.SetPosition(x, compassMargin, 0)
	h.needle.SetPosition(x+compassSize/2, compassMargin+compassSize/2, 0)
}

// SetHeading points the needle along yaw degrees. The needle quad hangs
// below its origin, so it is turned half a circle to point north at yaw 0.
func (h *hud) SetHeading(yaw float32) {
	h.needle.SetRotation(0, 0, 180-float32(math.Mod(float64(yaw), 360)))
}

func (h *hud) Cleanup() error {
	var errs error
	for _, m := range h.meshes {
		errs = multierr.Append(errs, m.Cleanup())
	}
	return errs
}

// flameAtlas draws a rows×cols texture atlas of a flickering flame, one
// frame per cell of size×size pixels. Later frames are dimmer and smaller.
func flameAtlas(rows, cols, size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, cols*size, rows*size))
	frames := rows * cols
	centre := float64(size-1) / 2
	for f := 0; f < frames; f++ {
		ox, oy := (f%cols)*size, (f/cols)*size
		fade := 1 - float64(f)/float64(frames)
		radius := centre * (0.5 + 0.5*fade)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				d := math.Hypot(float64(x)-centre, float64(y)-centre) / radius
				if d >= 1 {
					continue
				}
				a := (1 - d) * fade
				img.SetNRGBA(ox+x, oy+y, color.NRGBA{
					R: 255,
					G: uint8(80 + 175*(1-d)),
					B: uint8(40 * (1 - d)),
					A: uint8(255 * a),
				})
			}
		}
	}
	return img
}
