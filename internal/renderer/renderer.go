package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrTooManyLights is returned when a scene holds more lights than the
// shaders were built for.
var ErrTooManyLights = errors.New("too many lights")

// SetupError reports a failure while building GPU resources at init time.
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("renderer setup failed at %s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

type BlendMode int

const (
	// BlendAlpha is SRC_ALPHA, ONE_MINUS_SRC_ALPHA.
	BlendAlpha BlendMode = iota
	// BlendAdditive is SRC_ALPHA, ONE.
	BlendAdditive
)

func (b BlendMode) String() string {
	switch b {
	case BlendAlpha:
		return "alpha"
	case BlendAdditive:
		return "additive"
	}
	return fmt.Sprintf("BlendMode(%d)", int(b))
}

// Device is the fixed-function GPU state the pipeline touches.
type Device interface {
	SetViewport(x, y, width, height int32)
	Clear(colour, depth bool)
	BindFramebuffer(fbo uint32)
	SetDepthMask(enabled bool)
	SetDepthTest(enabled bool)
	SetBlendMode(mode BlendMode)
	BindTexture(unit, texture uint32)
}

// ShaderProgram is a linked GPU program. CreateUniform fails when the name
// is not an active uniform; the setters ignore names that were never created.
type ShaderProgram interface {
	Bind()
	Unbind()
	CreateUniform(name string) error
	SetInt(name string, value int32)
	SetFloat(name string, value float32)
	SetVec3(name string, value mgl32.Vec3)
	SetVec4(name string, value mgl32.Vec4)
	SetMat4(name string, value mgl32.Mat4)
	SetMat4Array(name string, values []mgl32.Mat4)
	Cleanup() error
}

// ShadowMap is an off-screen depth-only render target.
type ShadowMap struct {
	FBO          uint32
	DepthTexture uint32
	Width        int32
	Height       int32
}

// Backend creates GPU resources and exposes device state.
type Backend interface {
	Device
	NewShaderProgram(name, vertexSource, fragmentSource string) (ShaderProgram, error)
	NewShadowMap(width, height int32) (*ShadowMap, error)
	DeleteShadowMap(sm *ShadowMap) error
}
