package renderer

import (
	"errors"
	"fmt"
	"image"

	"Terra3D/internal/logger"
	"Terra3D/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// OpenGLBackend implements Backend on an OpenGL 4.1 core context. Every
// method must be called from the thread owning the context.
type OpenGLBackend struct {
	Textures *TextureManager
}

func NewOpenGLBackend() *OpenGLBackend {
	return &OpenGLBackend{Textures: NewTextureManager()}
}

// Init loads the GL function pointers for the current context.
func (b *OpenGLBackend) Init(clearColour mgl32.Vec4, debug bool) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("OpenGL initialization failed: %w", err)
	}

	gl.ClearColor(clearColour.X(), clearColour.Y(), clearColour.Z(), clearColour.W())
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	if debug {
		logger.Log.Debug("OpenGL context",
			zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
			zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
			zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))))
	}
	logger.Log.Info("OpenGL backend initialized")
	return nil
}

func (b *OpenGLBackend) SetViewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (b *OpenGLBackend) Clear(colour, depth bool) {
	var mask uint32
	if colour {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}

func (b *OpenGLBackend) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (b *OpenGLBackend) SetDepthMask(enabled bool) {
	gl.DepthMask(enabled)
}

func (b *OpenGLBackend) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (b *OpenGLBackend) SetBlendMode(mode BlendMode) {
	gl.Enable(gl.BLEND)
	switch mode {
	case BlendAdditive:
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	default:
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
}

func (b *OpenGLBackend) BindTexture(unit, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (b *OpenGLBackend) NewShaderProgram(name, vertexSource, fragmentSource string) (ShaderProgram, error) {
	return newShader(name, vertexSource, fragmentSource)
}

// NewShadowMap creates a framebuffer with a single depth texture attachment
// and no colour buffer.
func (b *OpenGLBackend) NewShadowMap(width, height int32) (*ShadowMap, error) {
	sm := &ShadowMap{Width: width, Height: height}

	gl.GenFramebuffers(1, &sm.FBO)
	gl.GenTextures(1, &sm.DepthTexture)
	gl.BindTexture(gl.TEXTURE_2D, sm.DepthTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT, width, height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.DepthTexture, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		_ = b.DeleteShadowMap(sm)
		return nil, fmt.Errorf("shadow framebuffer incomplete: 0x%x", status)
	}

	logger.Log.Debug("Shadow map created", zap.Int32("width", width), zap.Int32("height", height))
	return sm, nil
}

func (b *OpenGLBackend) DeleteShadowMap(sm *ShadowMap) error {
	if sm.FBO != 0 {
		gl.DeleteFramebuffers(1, &sm.FBO)
		sm.FBO = 0
	}
	if sm.DepthTexture != 0 {
		gl.DeleteTextures(1, &sm.DepthTexture)
		sm.DepthTexture = 0
	}
	return glError("delete shadow map")
}

// UploadMesh creates the vertex array for mesh.Data and attaches it as the
// mesh buffers. Joint attributes are always present, zero filled for static
// meshes, so the skinning shaders treat them as unweighted.
func (b *OpenGLBackend) UploadMesh(mesh *scene.Mesh) error {
	data := mesh.Data
	if data == nil || len(data.Positions) == 0 {
		return fmt.Errorf("mesh %q has no positions", mesh.Name)
	}
	if len(data.Indices) == 0 {
		return fmt.Errorf("mesh %q has no indices", mesh.Name)
	}
	vertices := data.VertexCount()

	buffers := &glMeshBuffers{vertexCount: int32(len(data.Indices))}
	gl.GenVertexArrays(1, &buffers.vao)
	gl.BindVertexArray(buffers.vao)

	buffers.floatAttribute(0, 3, data.Positions)
	buffers.floatAttribute(1, 2, orZeros(data.TexCoords, vertices*2))
	buffers.floatAttribute(2, 3, orZeros(data.Normals, vertices*3))
	buffers.floatAttribute(3, scene.MaxWeights, orZeros(data.Weights, vertices*scene.MaxWeights))
	joints := data.JointIndices
	if len(joints) == 0 {
		joints = make([]int32, vertices*scene.MaxWeights)
	}
	buffers.intAttribute(4, scene.MaxWeights, joints)

	gl.GenBuffers(1, &buffers.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buffers.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	if err := glError("upload mesh " + mesh.Name); err != nil {
		_ = buffers.Cleanup()
		return err
	}
	mesh.Buffers = buffers
	logger.Log.Debug("Mesh uploaded",
		zap.String("mesh", mesh.Name),
		zap.Int("vertices", vertices),
		zap.Int("indices", len(data.Indices)))
	return nil
}

// UploadTexture creates a texture from img, shared by name. rows and cols
// describe the atlas layout.
func (b *OpenGLBackend) UploadTexture(name string, img image.Image, rows, cols int) (*scene.Texture, error) {
	id, err := b.Textures.CreateTextureFromImage(img, name)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	return &scene.Texture{
		ID:      id,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		NumRows: rows,
		NumCols: cols,
	}, nil
}

func (b *OpenGLBackend) ReleaseTexture(t *scene.Texture) {
	if t != nil {
		b.Textures.ReleaseTexture(t.ID)
	}
}

// Cleanup deletes every texture still alive, whatever its reference count.
func (b *OpenGLBackend) Cleanup() {
	if n := b.Textures.GetStats().ActiveTextures; n > 0 {
		logger.Log.Warn("Textures still referenced at shutdown", zap.Int("count", n))
	}
	b.Textures.Clear()
}

func orZeros(values []float32, n int) []float32 {
	if len(values) > 0 {
		return values
	}
	return make([]float32, n)
}

type glMeshBuffers struct {
	vao         uint32
	vbos        []uint32
	ebo         uint32
	vertexCount int32
	attributes  []uint32
}

func (m *glMeshBuffers) floatAttribute(index uint32, size int32, data []float32) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.VertexAttribPointer(index, size, gl.FLOAT, false, 0, gl.PtrOffset(0))
	m.vbos = append(m.vbos, vbo)
	m.attributes = append(m.attributes, index)
}

func (m *glMeshBuffers) intAttribute(index uint32, size int32, data []int32) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.VertexAttribIPointer(index, size, gl.INT, 0, gl.PtrOffset(0))
	m.vbos = append(m.vbos, vbo)
	m.attributes = append(m.attributes, index)
}

func (m *glMeshBuffers) Bind() {
	gl.BindVertexArray(m.vao)
	for _, a := range m.attributes {
		gl.EnableVertexAttribArray(a)
	}
}

func (m *glMeshBuffers) Draw() error {
	gl.DrawElements(gl.TRIANGLES, m.vertexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	return glError("draw elements")
}

func (m *glMeshBuffers) Unbind() {
	for _, a := range m.attributes {
		gl.DisableVertexAttribArray(a)
	}
	gl.BindVertexArray(0)
}

func (m *glMeshBuffers) Cleanup() error {
	if m.vao == 0 {
		return errors.New("mesh buffers already released")
	}
	var errs error
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	for i := range m.vbos {
		gl.DeleteBuffers(1, &m.vbos[i])
		errs = multierr.Append(errs, glError("delete vertex buffer"))
	}
	gl.DeleteBuffers(1, &m.ebo)
	errs = multierr.Append(errs, glError("delete index buffer"))
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &m.vao)
	errs = multierr.Append(errs, glError("delete vertex array"))
	m.vao, m.ebo, m.vbos = 0, 0, nil
	return errs
}
