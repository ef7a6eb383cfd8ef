package renderer

import (
	"errors"
	"strings"
	"testing"

	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T, backend *fakeBackend) *Renderer {
	t.Helper()
	r := NewRenderer(backend, DefaultRenderConfig())
	require.NoError(t, r.Init(800, 600, false))
	return r
}

func testScene(rec *recorder) *scene.Scene {
	s := scene.New()
	cube := fakeMesh(rec, "cube")
	a := scene.NewInstance(cube)
	b := scene.NewInstance(cube)
	b.SetPosition(2, 0, 0)
	s.SetInstances([]*scene.Instance{a, b})

	dl := scene.NewDirectionalLight(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 1, 1}, 1)
	s.Light.DirectionalLight = &dl
	s.Light.AmbientLight = mgl32.Vec3{0.3, 0.3, 0.3}
	s.SkyBox = scene.NewInstance(fakeMesh(rec, "sky"))
	s.Emitters = []scene.ParticleEmitter{&fakeEmitter{
		mesh:      fakeMesh(rec, "particle"),
		particles: []*scene.Instance{scene.NewInstance(), scene.NewInstance()},
	}}
	return s
}

func indexOf(events []string, prefix string, from int) int {
	for i := from; i < len(events); i++ {
		if strings.HasPrefix(events[i], prefix) {
			return i
		}
	}
	return -1
}

func lastBefore(events []string, prefix string, end int) string {
	for i := end - 1; i >= 0; i-- {
		if strings.HasPrefix(events[i], prefix) {
			return events[i]
		}
	}
	return ""
}

func TestPassesRunInFixedOrderEveryFrame(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)

	var passes []Pass
	r.OnPass = func(p Pass) { passes = append(passes, p) }

	s := testScene(backend.rec)
	hud := &fakeHud{items: []*scene.Instance{scene.NewInstance(fakeMesh(backend.rec, "label"))}}
	camera := NewCamera()
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Render(camera, s, hud))
	}

	frame := []Pass{PassShadow, PassViewport, PassScene, PassSkyBox, PassParticles, PassHud}
	var want []Pass
	for i := 0; i < 3; i++ {
		want = append(want, frame...)
	}
	assert.Equal(t, want, passes)
}

func TestShadowPassDrawsBeforeSceneAndRestoresFramebuffer(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)
	backend.rec.events = nil

	s := testScene(backend.rec)
	require.NoError(t, r.Render(NewCamera(), s, nil))
	ev := backend.rec.events

	depth := indexOf(ev, "bind:depth", 0)
	sceneBind := indexOf(ev, "bind:scene", 0)
	require.NotEqual(t, -1, depth)
	require.NotEqual(t, -1, sceneBind)
	assert.Less(t, depth, sceneBind)

	assert.Equal(t, "viewport:0,0,1024,1024", lastBefore(ev, "viewport:", depth))
	assert.Equal(t, "fbo:0", lastBefore(ev, "fbo:", sceneBind))
	assert.Equal(t, "viewport:0,0,800,600", lastBefore(ev, "viewport:", sceneBind))

	// two cubes drawn once for depth and once for colour
	var cubeDraws int
	for _, e := range ev {
		if e == "draw:cube" {
			cubeDraws++
		}
	}
	assert.Equal(t, 4, cubeDraws)
}

func TestParticleStateRestoredBeforeHud(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)
	backend.rec.events = nil

	s := testScene(backend.rec)
	hud := &fakeHud{items: []*scene.Instance{scene.NewInstance(fakeMesh(backend.rec, "label"))}}
	require.NoError(t, r.Render(NewCamera(), s, hud))
	ev := backend.rec.events

	particles := indexOf(ev, "draw:particle", 0)
	hudBind := indexOf(ev, "bind:hud", 0)
	require.NotEqual(t, -1, particles)
	require.NotEqual(t, -1, hudBind)
	assert.Less(t, particles, hudBind)

	assert.Equal(t, "blend:additive", lastBefore(ev, "blend:", particles))
	assert.Equal(t, "depthMask:false", lastBefore(ev, "depthMask:", particles))
	assert.Equal(t, "blend:alpha", lastBefore(ev, "blend:", hudBind))
	assert.Equal(t, "depthMask:true", lastBefore(ev, "depthMask:", hudBind))

	label := indexOf(ev, "draw:label", hudBind)
	require.NotEqual(t, -1, label)
	assert.Equal(t, "depthTest:false", lastBefore(ev, "depthTest:", label))
	assert.Equal(t, "depthTest:true", lastBefore(ev, "depthTest:", len(ev)), "depth test is restored after the hud")
}

func TestParticleStateRestoredOnDrawError(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)

	var passes []Pass
	r.OnPass = func(p Pass) { passes = append(passes, p) }

	s := testScene(backend.rec)
	s.Emitters[0].Mesh().Buffers.(*fakeBuffers).failDraw = true
	backend.rec.events = nil

	err := r.Render(NewCamera(), s, &fakeHud{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "particles pass")
	assert.Equal(t, PassParticles, passes[len(passes)-1], "hud pass is skipped after a failure")

	ev := backend.rec.events
	assert.Equal(t, "blend:alpha", lastBefore(ev, "blend:", len(ev)))
	assert.Equal(t, "depthMask:true", lastBefore(ev, "depthMask:", len(ev)))
}

func TestRenderRejectsTooManyLights(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)

	var passes []Pass
	r.OnPass = func(p Pass) { passes = append(passes, p) }

	s := testScene(backend.rec)
	for i := 0; i < DefaultRenderConfig().MaxPointLights+1; i++ {
		s.Light.PointLights = append(s.Light.PointLights, scene.NewPointLight(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}, 1))
	}

	err := r.Render(NewCamera(), s, nil)
	assert.ErrorIs(t, err, ErrTooManyLights)
	assert.ErrorIs(t, r.ValidateScene(s), ErrTooManyLights)
	assert.Empty(t, passes)

	s.Light.PointLights = s.Light.PointLights[:1]
	s.Light.SpotLights = make([]scene.SpotLight, DefaultRenderConfig().MaxSpotLights+1)
	assert.ErrorIs(t, r.Render(NewCamera(), s, nil), ErrTooManyLights)
}

func TestLightsUploadedInViewSpaceWithoutMutation(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)

	s := testScene(backend.rec)
	world := mgl32.Vec3{1, 2, 3}
	s.Light.PointLights = []scene.PointLight{scene.NewPointLight(mgl32.Vec3{1, 1, 1}, world, 1)}

	camera := NewCamera()
	camera.SetPosition(0, 0, 5)
	require.NoError(t, r.Render(camera, s, nil))

	p := backend.programs["scene"]
	got := p.last("pointLights[0].position").(mgl32.Vec3)
	assert.InDelta(t, 1, got.X(), 1e-5)
	assert.InDelta(t, 2, got.Y(), 1e-5)
	assert.InDelta(t, -2, got.Z(), 1e-5)
	assert.Equal(t, world, s.Light.PointLights[0].Position)

	// second frame from the same camera uploads the same value
	require.NoError(t, r.Render(camera, s, nil))
	assert.Equal(t, got, p.last("pointLights[0].position"))

	// unused slots are switched off
	assert.Equal(t, float32(0), p.last("pointLights[1].intensity"))
	assert.Equal(t, float32(0), p.last("spotLights[0].pl.intensity"))
}

func TestSkyBoxIgnoresCameraTranslation(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)
	s := testScene(backend.rec)

	camera := NewCamera()
	require.NoError(t, r.Render(camera, s, nil))
	first := backend.programs["skybox"].last("modelViewMatrix").(mgl32.Mat4)

	camera.SetPosition(10, -4, 7)
	require.NoError(t, r.Render(camera, s, nil))
	second := backend.programs["skybox"].last("modelViewMatrix").(mgl32.Mat4)

	assert.True(t, matNear(first, second, 1e-6))
	assert.Equal(t, float32(0), second[12])
	assert.Equal(t, float32(0), second[13])
	assert.Equal(t, float32(0), second[14])
}

func TestJointsUploadedOnlyForAnimatedInstances(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)

	s := testScene(backend.rec)
	body := fakeMesh(backend.rec, "body")
	animated := scene.NewInstance(body)
	animated.Animation = &scene.AnimationState{Frames: [][]mgl32.Mat4{{mgl32.Ident4(), mgl32.Ident4()}}}
	s.SetInstances(append(s.Buckets()[0].Instances, animated))

	require.NoError(t, r.Render(NewCamera(), s, nil))

	uploads := backend.programs["scene"].values["jointsMatrix"]
	require.Len(t, uploads, 1)
	joints := uploads[0].([]mgl32.Mat4)
	assert.Len(t, joints, DefaultRenderConfig().MaxJoints)
	assert.Equal(t, mgl32.Ident4(), joints[1])
	assert.Equal(t, mgl32.Mat4{}, joints[2])
	assert.Len(t, backend.programs["depth"].values["jointsMatrix"], 1)
}

func TestInitFailureReturnsSetupErrorAndReleases(t *testing.T) {
	backend := newFakeBackend()
	backend.failProgram = "particles"

	r := NewRenderer(backend, DefaultRenderConfig())
	err := r.Init(800, 600, false)

	var setupErr *SetupError
	require.ErrorAs(t, err, &setupErr)
	assert.Equal(t, "particles shader", setupErr.Stage)
	for _, name := range []string{"depth", "scene", "skybox"} {
		assert.Equal(t, 1, backend.programs[name].cleaned, name)
	}
	assert.Equal(t, 1, backend.shadowDeleted)
}

func TestInitFailsOnMissingUniform(t *testing.T) {
	backend := newFakeBackend()
	backend.failUniform = "spotLights[2].conedir"

	r := NewRenderer(backend, DefaultRenderConfig())
	err := r.Init(800, 600, false)

	var setupErr *SetupError
	require.ErrorAs(t, err, &setupErr)
	assert.Equal(t, "scene shader", setupErr.Stage)
	assert.Contains(t, err.Error(), "spotLights[2].conedir")
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.MaxPointLights = 0
	backend := newFakeBackend()

	err := NewRenderer(backend, cfg).Init(800, 600, false)
	var setupErr *SetupError
	require.ErrorAs(t, err, &setupErr)
	assert.Equal(t, "config", setupErr.Stage)
	assert.Empty(t, backend.programs)
}

func TestCleanupContinuesAfterFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failCleanup = "scene"
	r := newTestRenderer(t, backend)

	err := r.Cleanup()
	require.Error(t, err)
	for name, p := range backend.programs {
		assert.Equal(t, 1, p.cleaned, name)
	}
	assert.Equal(t, 1, backend.shadowDeleted)

	// already released
	assert.NoError(t, r.Cleanup())
}

func TestShaderSourcesCarryConfiguredLimits(t *testing.T) {
	backend := newFakeBackend()
	cfg := HighQualityRenderConfig()
	r := NewRenderer(backend, cfg)
	require.NoError(t, r.Init(800, 600, false))

	fs := backend.programs["scene"].fragment
	assert.True(t, strings.HasPrefix(fs, "#version 330\n#define MAX_POINT_LIGHTS 16\n"))
	assert.Contains(t, fs, "#define MAX_SPOT_LIGHTS 8\n")
	assert.True(t, backend.programs["scene"].uniforms["pointLights[15].att.exponent"])
}

func TestWithDefines(t *testing.T) {
	src := "#version 330\nvoid main() {}\n"
	got := withDefines(src, define{"A", 1}, define{"B", 2})
	assert.Equal(t, "#version 330\n#define A 1\n#define B 2\nvoid main() {}\n", got)

	assert.Equal(t, src, withDefines(src))
	assert.Equal(t, "#define A 1\nvoid main() {}", withDefines("void main() {}", define{"A", 1}))
}

func TestLightRotation(t *testing.T) {
	got := lightRotation(mgl32.Vec3{0, 0, 1})
	assert.InDelta(t, 0, got.X(), 1e-4)
	assert.InDelta(t, 0, got.Y(), 1e-4)

	got = lightRotation(mgl32.Vec3{2, 0, 0})
	assert.InDelta(t, 90, got.X(), 1e-4)
	assert.InDelta(t, 90, got.Y(), 1e-4)

	// zero direction must not produce NaN
	got = lightRotation(mgl32.Vec3{})
	assert.False(t, got.X() != got.X())
}

func TestSetupErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := error(&SetupError{Stage: "hud shader", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "renderer setup failed at hud shader: boom", err.Error())
}
