package renderer

import (
	"fmt"

	"Terra3D/internal/logger"
	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Pass identifies one step of a frame. Passes always run in declaration order.
type Pass int

const (
	PassShadow Pass = iota
	PassViewport
	PassScene
	PassSkyBox
	PassParticles
	PassHud
)

func (p Pass) String() string {
	switch p {
	case PassShadow:
		return "shadow"
	case PassViewport:
		return "viewport"
	case PassScene:
		return "scene"
	case PassSkyBox:
		return "skybox"
	case PassParticles:
		return "particles"
	case PassHud:
		return "hud"
	}
	return fmt.Sprintf("Pass(%d)", int(p))
}

// Hud supplies the 2D overlay drawn last each frame.
type Hud interface {
	Instances() []*scene.Instance
}

// Renderer draws a scene through a fixed sequence of passes.
type Renderer struct {
	backend        Backend
	config         RenderConfig
	transformation *Transformation

	depthShader     ShaderProgram
	sceneShader     ShaderProgram
	skyBoxShader    ShaderProgram
	particlesShader ShaderProgram
	hudShader       ShaderProgram
	shadowMap       *ShadowMap

	width, height int32

	// per-frame scratch
	joints          []mgl32.Mat4
	pointLightNames []string
	spotLightNames  []string

	debug        bool
	debugPrinted bool

	// OnPass, when set, is called right before each pass runs.
	OnPass func(Pass)
}

func NewRenderer(backend Backend, config RenderConfig) *Renderer {
	r := &Renderer{
		backend:        backend,
		config:         config,
		transformation: NewTransformation(),
		joints:         make([]mgl32.Mat4, max(config.MaxJoints, 0)),
	}
	for i := 0; i < config.MaxPointLights; i++ {
		r.pointLightNames = append(r.pointLightNames, fmt.Sprintf("pointLights[%d]", i))
	}
	for i := 0; i < config.MaxSpotLights; i++ {
		r.spotLightNames = append(r.spotLightNames, fmt.Sprintf("spotLights[%d]", i))
	}
	return r
}

// Init creates the shadow target and every shader program. Any failure is
// returned as a *SetupError after releasing what was already created.
func (r *Renderer) Init(width, height int32, debug bool) error {
	r.width, r.height = width, height
	r.debug = debug

	if err := r.config.Validate(); err != nil {
		return &SetupError{Stage: "config", Err: err}
	}

	steps := []struct {
		stage string
		run   func() error
	}{
		{"shadow map", r.setupShadowMap},
		{"depth shader", r.setupDepthShader},
		{"scene shader", r.setupSceneShader},
		{"skybox shader", r.setupSkyBoxShader},
		{"particles shader", r.setupParticlesShader},
		{"hud shader", r.setupHudShader},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			if cerr := r.Cleanup(); cerr != nil {
				logger.Log.Warn("Cleanup after failed setup reported errors", zap.Error(cerr))
			}
			return &SetupError{Stage: step.stage, Err: err}
		}
	}

	r.backend.SetDepthTest(true)
	r.backend.SetBlendMode(BlendAlpha)

	if debug {
		logger.Log.Debug("Renderer initialised",
			zap.Int32("width", width),
			zap.Int32("height", height),
			zap.Int32("shadowMapWidth", r.config.ShadowMapWidth),
			zap.Int32("shadowMapHeight", r.config.ShadowMapHeight),
			zap.Int("maxPointLights", r.config.MaxPointLights),
			zap.Int("maxSpotLights", r.config.MaxSpotLights))
	}
	return nil
}

// Resize records the new window size; the viewport pass applies it.
func (r *Renderer) Resize(width, height int32) {
	r.width, r.height = width, height
}

// ValidateScene checks a scene against the limits the shaders were built with.
func (r *Renderer) ValidateScene(s *scene.Scene) error {
	if s.Light == nil {
		return nil
	}
	if n := len(s.Light.PointLights); n > r.config.MaxPointLights {
		return fmt.Errorf("%w: %d point lights, maximum is %d", ErrTooManyLights, n, r.config.MaxPointLights)
	}
	if n := len(s.Light.SpotLights); n > r.config.MaxSpotLights {
		return fmt.Errorf("%w: %d spot lights, maximum is %d", ErrTooManyLights, n, r.config.MaxSpotLights)
	}
	return nil
}

// Render draws one frame. An error means the frame was abandoned; GPU state
// changed by the particle and HUD passes is restored either way.
func (r *Renderer) Render(camera *Camera, s *scene.Scene, hud Hud) error {
	if err := r.ValidateScene(s); err != nil {
		return err
	}

	r.backend.Clear(true, true)

	r.transformation.UpdateProjectionMatrix(r.config.FOV, float32(r.width), float32(r.height), r.config.ZNear, r.config.ZFar)
	r.transformation.UpdateViewMatrix(camera)

	passes := []struct {
		pass Pass
		run  func() error
	}{
		{PassShadow, func() error { return r.renderDepthMap(s) }},
		{PassViewport, func() error { r.backend.SetViewport(0, 0, r.width, r.height); return nil }},
		{PassScene, func() error { return r.renderScene(s) }},
		{PassSkyBox, func() error { return r.renderSkyBox(s) }},
		{PassParticles, func() error { return r.renderParticles(s) }},
		{PassHud, func() error { return r.renderHud(hud) }},
	}
	for _, p := range passes {
		if r.OnPass != nil {
			r.OnPass(p.pass)
		}
		if err := p.run(); err != nil {
			return fmt.Errorf("%s pass: %w", p.pass, err)
		}
	}

	if r.debug && !r.debugPrinted {
		r.debugPrinted = true
		logger.Log.Debug("First frame rendered",
			zap.Int("buckets", len(s.Buckets())),
			zap.Int("emitters", len(s.Emitters)),
			zap.Bool("skybox", s.SkyBox != nil))
	}
	return nil
}

// Cleanup releases every shader program and the shadow target. A failure is
// logged and the remaining resources are still released.
func (r *Renderer) Cleanup() error {
	var errs error
	shaders := []*ShaderProgram{&r.depthShader, &r.sceneShader, &r.skyBoxShader, &r.particlesShader, &r.hudShader}
	for _, sp := range shaders {
		if *sp == nil {
			continue
		}
		if err := (*sp).Cleanup(); err != nil {
			logger.Log.Error("Failed to release shader program", zap.Error(err))
			errs = multierr.Append(errs, err)
		}
		*sp = nil
	}

	if r.shadowMap != nil {
		if err := r.backend.DeleteShadowMap(r.shadowMap); err != nil {
			logger.Log.Error("Failed to release shadow map", zap.Error(err))
			errs = multierr.Append(errs, err)
		}
		r.shadowMap = nil
	}
	return errs
}

func (r *Renderer) newProgram(name, vertexSource, fragmentSource string) (ShaderProgram, error) {
	defines := r.config.shaderDefines()
	return r.backend.NewShaderProgram(name,
		withDefines(vertexSource, defines...),
		withDefines(fragmentSource, defines...))
}

func (r *Renderer) setupSceneShader() error {
	p, err := r.newProgram("scene", sceneVertexShaderSource, sceneFragmentShaderSource)
	if err != nil {
		return err
	}
	r.sceneShader = p

	if err := createUniforms(p,
		"projectionMatrix",
		"modelViewMatrix",
		"texture_sampler",
		"normalMap",
		"jointsMatrix",
		"modelLightViewMatrix",
		"orthoProjectionMatrix",
		"shadowMap",
		"ambientLight",
		"specularPower",
	); err != nil {
		return err
	}
	if err := createMaterialUniform(p, "material"); err != nil {
		return err
	}
	if err := createPointLightUniforms(p, "pointLights", r.config.MaxPointLights); err != nil {
		return err
	}
	if err := createSpotLightUniforms(p, "spotLights", r.config.MaxSpotLights); err != nil {
		return err
	}
	if err := createDirectionalLightUniform(p, "directionalLight"); err != nil {
		return err
	}
	return createFogUniform(p, "fog")
}

func (r *Renderer) setupSkyBoxShader() error {
	p, err := r.newProgram("skybox", skyBoxVertexShaderSource, skyBoxFragmentShaderSource)
	if err != nil {
		return err
	}
	r.skyBoxShader = p
	return createUniforms(p,
		"projectionMatrix",
		"modelViewMatrix",
		"texture_sampler",
		"ambientLight",
		"colour",
		"hasTexture",
	)
}

func (r *Renderer) setupParticlesShader() error {
	p, err := r.newProgram("particles", particlesVertexShaderSource, particlesFragmentShaderSource)
	if err != nil {
		return err
	}
	r.particlesShader = p
	return createUniforms(p,
		"projectionMatrix",
		"modelViewMatrix",
		"texture_sampler",
		"texXOffset",
		"texYOffset",
		"numCols",
		"numRows",
	)
}

func (r *Renderer) setupHudShader() error {
	p, err := r.newProgram("hud", hudVertexShaderSource, hudFragmentShaderSource)
	if err != nil {
		return err
	}
	r.hudShader = p
	return createUniforms(p, "projModelMatrix", "colour", "hasTexture", "texture_sampler")
}
