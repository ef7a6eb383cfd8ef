package renderer

import (
	"image"
	"image/draw"
	"sync"

	"Terra3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	ActiveTextures int
}

// TextureManager shares GPU textures by name and frees them when the last
// reference is released.
type TextureManager struct {
	textureCache    map[string]uint32 // name -> OpenGL texture ID
	textureRefCount map[uint32]int    // texture ID -> reference count
	textureNames    map[uint32]string // texture ID -> name (for debugging)
	mu              sync.RWMutex
	stats           TextureStats
}

func NewTextureManager() *TextureManager {
	return &TextureManager{
		textureCache:    make(map[string]uint32),
		textureRefCount: make(map[uint32]int),
		textureNames:    make(map[uint32]string),
	}
}

// CreateTextureFromImage uploads img under name, or returns the texture
// already registered under that name with its reference count increased.
func (tm *TextureManager) CreateTextureFromImage(img image.Image, name string) (uint32, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if textureID, exists := tm.textureCache[name]; exists {
		tm.textureRefCount[textureID]++
		tm.stats.CacheHits++
		logger.Log.Debug("Texture cache hit",
			zap.String("name", name),
			zap.Uint32("textureID", textureID),
			zap.Int("refCount", tm.textureRefCount[textureID]))
		return textureID, nil
	}
	tm.stats.CacheMisses++

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != rgba.Rect.Dx()*4 {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(rgba.Rect.Size().X), int32(rgba.Rect.Size().Y),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	if err := glError("upload texture " + name); err != nil {
		gl.DeleteTextures(1, &textureID)
		return 0, err
	}

	tm.textureCache[name] = textureID
	tm.textureRefCount[textureID] = 1
	tm.textureNames[textureID] = name
	tm.stats.TotalTextures++

	logger.Log.Info("Texture created from image",
		zap.String("name", name),
		zap.Uint32("textureID", textureID),
		zap.Int("width", rgba.Rect.Dx()),
		zap.Int("height", rgba.Rect.Dy()))
	return textureID, nil
}

// ReleaseTexture decrements the reference count and frees the texture once
// nothing references it.
func (tm *TextureManager) ReleaseTexture(textureID uint32) {
	if textureID == 0 {
		return
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	refCount, exists := tm.textureRefCount[textureID]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture", zap.Uint32("textureID", textureID))
		return
	}

	refCount--
	tm.textureRefCount[textureID] = refCount
	if refCount > 0 {
		return
	}

	gl.DeleteTextures(1, &textureID)
	name := tm.textureNames[textureID]
	delete(tm.textureCache, name)
	delete(tm.textureRefCount, textureID)
	delete(tm.textureNames, textureID)
	logger.Log.Debug("Texture freed", zap.Uint32("textureID", textureID), zap.String("name", name))
}

func (tm *TextureManager) GetStats() TextureStats {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	stats := tm.stats
	stats.ActiveTextures = len(tm.textureRefCount)
	return stats
}

// Clear frees every texture regardless of references.
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for textureID := range tm.textureRefCount {
		id := textureID
		gl.DeleteTextures(1, &id)
	}
	tm.textureCache = make(map[string]uint32)
	tm.textureRefCount = make(map[uint32]int)
	tm.textureNames = make(map[uint32]string)

	logger.Log.Info("Texture manager cleared")
}
