package renderer

import (
	"errors"
	"fmt"

	"Terra3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// recorder collects every device call, program call and draw in order.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

type fakeBackend struct {
	rec *recorder

	programs      map[string]*fakeProgram
	failProgram   string
	failUniform   string
	failCleanup   string
	shadowDeleted int
	nextID        uint32
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{rec: &recorder{}, programs: make(map[string]*fakeProgram), nextID: 100}
}

func (b *fakeBackend) SetViewport(x, y, w, h int32) { b.rec.add("viewport:%d,%d,%d,%d", x, y, w, h) }
func (b *fakeBackend) Clear(colour, depth bool)     { b.rec.add("clear:%v,%v", colour, depth) }
func (b *fakeBackend) BindFramebuffer(fbo uint32)   { b.rec.add("fbo:%d", fbo) }
func (b *fakeBackend) SetDepthMask(enabled bool)    { b.rec.add("depthMask:%v", enabled) }
func (b *fakeBackend) SetDepthTest(enabled bool)    { b.rec.add("depthTest:%v", enabled) }
func (b *fakeBackend) SetBlendMode(mode BlendMode)  { b.rec.add("blend:%s", mode) }
func (b *fakeBackend) BindTexture(unit, tex uint32) { b.rec.add("texture:%d:%d", unit, tex) }

func (b *fakeBackend) NewShaderProgram(name, vertexSource, fragmentSource string) (ShaderProgram, error) {
	if name == b.failProgram {
		return nil, errors.New("compile failed")
	}
	p := &fakeProgram{
		name:     name,
		rec:      b.rec,
		vertex:   vertexSource,
		fragment: fragmentSource,
		uniforms: make(map[string]bool),
		values:   make(map[string][]interface{}),
	}
	if b.failUniform != "" {
		p.failUniform = b.failUniform
	}
	if name == b.failCleanup {
		p.failCleanup = true
	}
	b.programs[name] = p
	return p, nil
}

func (b *fakeBackend) NewShadowMap(width, height int32) (*ShadowMap, error) {
	b.nextID++
	fbo := b.nextID
	b.nextID++
	return &ShadowMap{FBO: fbo, DepthTexture: b.nextID, Width: width, Height: height}, nil
}

func (b *fakeBackend) DeleteShadowMap(sm *ShadowMap) error {
	b.shadowDeleted++
	return nil
}

type fakeProgram struct {
	name             string
	rec              *recorder
	vertex, fragment string
	uniforms         map[string]bool
	values           map[string][]interface{}
	failUniform      string
	failCleanup      bool
	cleaned          int
}

func (p *fakeProgram) Bind()   { p.rec.add("bind:%s", p.name) }
func (p *fakeProgram) Unbind() { p.rec.add("unbind:%s", p.name) }

func (p *fakeProgram) CreateUniform(name string) error {
	if name == p.failUniform {
		return fmt.Errorf("could not find uniform %q", name)
	}
	p.uniforms[name] = true
	return nil
}

func (p *fakeProgram) set(name string, v interface{}) {
	if !p.uniforms[name] {
		panic(fmt.Sprintf("%s: uniform %q set without being created", p.name, name))
	}
	p.values[name] = append(p.values[name], v)
}

func (p *fakeProgram) SetInt(name string, v int32)       { p.set(name, v) }
func (p *fakeProgram) SetFloat(name string, v float32)   { p.set(name, v) }
func (p *fakeProgram) SetVec3(name string, v mgl32.Vec3) { p.set(name, v) }
func (p *fakeProgram) SetVec4(name string, v mgl32.Vec4) { p.set(name, v) }
func (p *fakeProgram) SetMat4(name string, v mgl32.Mat4) { p.set(name, v) }
func (p *fakeProgram) SetMat4Array(name string, v []mgl32.Mat4) {
	p.set(name, append([]mgl32.Mat4(nil), v...))
}

func (p *fakeProgram) last(name string) interface{} {
	vals := p.values[name]
	if len(vals) == 0 {
		return nil
	}
	return vals[len(vals)-1]
}

func (p *fakeProgram) Cleanup() error {
	p.cleaned++
	if p.failCleanup {
		return errors.New("delete program failed")
	}
	return nil
}

type fakeBuffers struct {
	rec      *recorder
	name     string
	failDraw bool
}

func (f *fakeBuffers) Bind()   {}
func (f *fakeBuffers) Unbind() {}
func (f *fakeBuffers) Draw() error {
	f.rec.add("draw:%s", f.name)
	if f.failDraw {
		return errors.New("draw failed")
	}
	return nil
}
func (f *fakeBuffers) Cleanup() error { return nil }

func fakeMesh(rec *recorder, name string) *scene.Mesh {
	m := scene.NewMesh(name, &scene.MeshData{}, nil)
	m.Buffers = &fakeBuffers{rec: rec, name: name}
	return m
}

type fakeEmitter struct {
	mesh      *scene.Mesh
	particles []*scene.Instance
}

func (e *fakeEmitter) Mesh() *scene.Mesh            { return e.mesh }
func (e *fakeEmitter) Instances() []*scene.Instance { return e.particles }

type fakeHud struct {
	items []*scene.Instance
}

func (h *fakeHud) Instances() []*scene.Instance { return h.items }
