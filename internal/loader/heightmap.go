package loader

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"Terra3D/internal/logger"
	"Terra3D/internal/terrain"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
)

// LoadHeightMap decodes a PNG, JPEG or BMP image into height samples in
// [minY, maxY]. Brighter pixels are higher.
func LoadHeightMap(path string, minY, maxY float32) (terrain.HeightMap, error) {
	img, format, err := LoadImage(path)
	if err != nil {
		return terrain.HeightMap{}, err
	}
	hm, err := HeightMapFromImage(img, minY, maxY)
	if err != nil {
		return hm, fmt.Errorf("height map %s: %w", path, err)
	}
	logger.Log.Debug("Height map loaded",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("width", hm.Width),
		zap.Int("height", hm.Height))
	return hm, nil
}

// LoadImage decodes a PNG, JPEG or BMP file.
func LoadImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, format, nil
}

// HeightMapFromImage maps pixel luminance onto [minY, maxY]. Image rows
// become height map rows.
func HeightMapFromImage(img image.Image, minY, maxY float32) (terrain.HeightMap, error) {
	b := img.Bounds()
	hm, err := terrain.NewHeightMap(b.Dx(), b.Dy())
	if err != nil {
		return hm, err
	}
	span := maxY - minY
	for row := 0; row < hm.Height; row++ {
		for col := 0; col < hm.Width; col++ {
			g := color.Gray16Model.Convert(img.At(b.Min.X+col, b.Min.Y+row)).(color.Gray16)
			hm.Set(row, col, minY+span*float32(g.Y)/0xffff)
		}
	}
	return hm, nil
}
