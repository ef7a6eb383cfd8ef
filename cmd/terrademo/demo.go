package main

import (
	"fmt"
	"image"
	"math"

	"Terra3D/internal/config"
	"Terra3D/internal/engine"
	"Terra3D/internal/loader"
	"Terra3D/internal/logger"
	"Terra3D/internal/particles"
	"Terra3D/internal/renderer"
	"Terra3D/internal/scene"
	"Terra3D/internal/terrain"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	mouseSensitivity = 0.2
	cameraStep       = 0.05
	eyeHeight        = 0.3
)

type demo struct {
	cfg       config.Config
	modelPath string

	backend  *renderer.OpenGLBackend
	renderer *renderer.Renderer
	camera   *renderer.Camera
	scene    *scene.Scene
	terrain  *terrain.Terrain
	system   *particles.System
	hud      *hud
	textures []*scene.Texture

	cameraInc  mgl32.Vec3
	lightAngle float32
}

func newDemo(cfg config.Config, modelPath string) *demo {
	return &demo{
		cfg:        cfg,
		modelPath:  modelPath,
		camera:     renderer.NewCamera(),
		scene:      scene.New(),
		system:     particles.NewSystem(),
		lightAngle: 45,
	}
}

func (d *demo) Init(w *engine.Window) error {
	d.backend = renderer.NewOpenGLBackend()
	if err := d.backend.Init(d.cfg.Render.ClearColour, d.cfg.Debug); err != nil {
		return err
	}
	d.renderer = renderer.NewRenderer(d.backend, d.cfg.Render)
	if err := d.renderer.Init(int32(w.Width()), int32(w.Height()), d.cfg.Debug); err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"terrain", d.setupTerrain},
		{"sky box", d.setupSkyBox},
		{"particles", d.setupParticles},
		{"hud", d.setupHud},
		{"model", d.setupModel},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	d.setupLights()
	d.scene.Fog = scene.NewFog(mgl32.Vec3{0.5, 0.5, 0.5}, 0.02)
	if err := d.renderer.ValidateScene(d.scene); err != nil {
		return err
	}

	// start above the centre of the terrain
	d.camera.SetPosition(0, 1, 0)
	if h := d.terrain.GetHeight(d.camera.Position); h != terrain.NoTerrain {
		d.camera.SetPosition(0, h+eyeHeight+0.5, 0)
	}
	d.camera.SetRotation(20, 0, 0)
	return nil
}

func (d *demo) setupTerrain() error {
	tc := d.cfg.Terrain
	var (
		hm  terrain.HeightMap
		err error
	)
	if tc.HeightMap != "" {
		hm, err = loader.LoadHeightMap(tc.HeightMap, tc.MinY, tc.MaxY)
	} else {
		noise := tc.Noise
		noise.MinY, noise.MaxY = tc.MinY, tc.MaxY
		hm, err = terrain.GenerateHeightMap(tc.Samples, tc.Samples, noise)
	}
	if err != nil {
		return err
	}

	material := scene.NewColourMaterial(mgl32.Vec4{0.35, 0.55, 0.25, 1}, 0.1)
	if tc.Texture != "" {
		img, _, err := loader.LoadImage(tc.Texture)
		if err != nil {
			return err
		}
		tex, err := d.uploadTexture(tc.Texture, img, 1, 1)
		if err != nil {
			return err
		}
		material = scene.NewTexturedMaterial(tex, 0.1)
	}

	d.terrain, err = terrain.New(hm, tc.BlocksPerRow, tc.Scale, tc.TextInc, terrain.WithMaterial(material))
	if err != nil {
		return err
	}
	return d.backend.UploadMesh(d.terrain.Mesh())
}

func (d *demo) setupSkyBox() error {
	mesh := scene.NewMesh("skybox", loader.Cube(), scene.NewColourMaterial(mgl32.Vec4{0.45, 0.65, 0.95, 1}, 0))
	if err := d.backend.UploadMesh(mesh); err != nil {
		return err
	}
	sky := scene.NewInstance(mesh)
	sky.Scale = d.cfg.Render.ZFar / 4
	d.scene.SkyBox = sky
	return nil
}

func (d *demo) setupParticles() error {
	tex, err := d.uploadTexture("flame-atlas", flameAtlas(4, 4, 32), 4, 4)
	if err != nil {
		return err
	}
	mesh := scene.NewMesh("particle", loader.Billboard(), scene.NewTexturedMaterial(tex, 0))
	if err := d.backend.UploadMesh(mesh); err != nil {
		return err
	}

	base := particles.NewParticle(mesh, mgl32.Vec3{0, 1, 0}, 4000, 100)
	base.Scale = 0.5
	origin := mgl32.Vec3{2, 0, -2}
	if h := d.terrain.GetHeight(origin); h != terrain.NoTerrain {
		origin[1] = h
	}
	base.Position = origin

	emitter := particles.NewEmitter(base, 200, 100, 1)
	emitter.SpeedRange = 0.2
	emitter.ScaleRange = 0.2
	d.system.Add(emitter)
	d.scene.Emitters = d.system.SceneEmitters()
	return nil
}

func (d *demo) setupHud() error {
	h, err := newHud(d.backend, float32(d.cfg.Window.Width))
	if err != nil {
		return err
	}
	d.hud = h
	return nil
}

func (d *demo) setupModel() error {
	instances := d.terrain.Instances()
	if d.modelPath != "" {
		parts, err := loader.LoadOBJ(d.modelPath, false)
		if err != nil {
			return err
		}
		meshes := make([]*scene.Mesh, 0, len(parts))
		for _, p := range parts {
			mesh := scene.NewMesh(p.Name, p.Data, p.Material)
			if p.TexturePath != "" {
				if err := d.attachTexture(mesh, p.TexturePath); err != nil {
					logger.Log.Warn("Model texture not loaded", zap.String("path", p.TexturePath), zap.Error(err))
				}
			}
			if err := d.backend.UploadMesh(mesh); err != nil {
				return err
			}
			meshes = append(meshes, mesh)
		}

		for i, pos := range []mgl32.Vec3{{-3, 0, -3}, {3, 0, -5}, {0, 0, -8}} {
			inst := scene.NewInstance(meshes...)
			if h := d.terrain.GetHeight(pos); h != terrain.NoTerrain {
				pos[1] = h
			}
			inst.Position = pos
			inst.SetRotation(0, float32(i)*40, 0)
			inst.Scale = 0.5
			instances = append(instances, inst)
		}
	}
	d.scene.SetInstances(instances)
	return nil
}

func (d *demo) attachTexture(mesh *scene.Mesh, path string) error {
	img, _, err := loader.LoadImage(path)
	if err != nil {
		return err
	}
	tex, err := d.uploadTexture(path, img, 1, 1)
	if err != nil {
		return err
	}
	mesh.Material.Texture = tex
	return nil
}

func (d *demo) setupLights() {
	sl := d.scene.Light
	sl.AmbientLight = mgl32.Vec3{0.3, 0.3, 0.3}
	sl.SkyBoxLight = mgl32.Vec3{1, 1, 1}

	dl := scene.NewDirectionalLight(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 1, 1}.Normalize(), 1)
	dl.ShadowPosMult = 5
	dl.Ortho = scene.OrthoCoords{Left: -20, Right: 20, Bottom: -20, Top: 20, Near: -1, Far: 40}
	sl.DirectionalLight = &dl

	pl := scene.NewPointLight(mgl32.Vec3{1, 0.6, 0.2}, mgl32.Vec3{2, 1, -2}, 1)
	pl.Attenuation = scene.Attenuation{Constant: 0, Linear: 0, Exponent: 1}
	sl.PointLights = []scene.PointLight{pl}
}

func (d *demo) uploadTexture(name string, img image.Image, rows, cols int) (*scene.Texture, error) {
	tex, err := d.backend.UploadTexture(name, img, rows, cols)
	if err != nil {
		return nil, err
	}
	d.textures = append(d.textures, tex)
	return tex, nil
}

func (d *demo) Input(w *engine.Window, _ *engine.MouseInput) {
	d.cameraInc = mgl32.Vec3{}
	if w.IsKeyPressed(glfw.KeyW) {
		d.cameraInc[2] = -1
	} else if w.IsKeyPressed(glfw.KeyS) {
		d.cameraInc[2] = 1
	}
	if w.IsKeyPressed(glfw.KeyA) {
		d.cameraInc[0] = -1
	} else if w.IsKeyPressed(glfw.KeyD) {
		d.cameraInc[0] = 1
	}
	if w.IsKeyPressed(glfw.KeySpace) {
		d.cameraInc[1] = 1
	} else if w.IsKeyPressed(glfw.KeyLeftShift) {
		d.cameraInc[1] = -1
	}
	if w.IsKeyPressed(glfw.KeyEscape) {
		w.SetShouldClose(true)
	}
}

func (d *demo) Update(interval float32, mouse *engine.MouseInput) {
	if mouse.IsRightButtonPressed() {
		rot := mouse.DisplVec()
		d.camera.MoveRotation(rot.X()*mouseSensitivity, rot.Y()*mouseSensitivity, 0)
		d.hud.SetHeading(d.camera.Rotation.Y())
	}

	step := d.cameraInc.Mul(cameraStep)
	next := d.camera.PositionAfterMove(step.X(), step.Y(), step.Z())
	// refuse to move below the ground
	if h := d.terrain.GetHeight(next); h == terrain.NoTerrain || next.Y() > h+eyeHeight {
		d.camera.SetPosition(next.X(), next.Y(), next.Z())
	}

	d.system.Update(int64(interval * 1000))
	d.updateSun(interval)
}

// updateSun swings the directional light slowly across the sky.
func (d *demo) updateSun(interval float32) {
	d.lightAngle += 2 * interval
	if d.lightAngle > 90 {
		d.lightAngle = -90
	}
	rad := float64(mgl32.DegToRad(d.lightAngle))
	dl := d.scene.Light.DirectionalLight
	dl.Direction = mgl32.Vec3{float32(math.Sin(rad)), float32(math.Cos(rad)), 0.3}.Normalize()
	dl.Intensity = max(0.2, float32(math.Cos(rad)))
}

func (d *demo) Render(w *engine.Window) error {
	if w.IsResized() {
		d.renderer.Resize(int32(w.Width()), int32(w.Height()))
		d.hud.Resize(float32(w.Width()))
		w.SetResized(false)
	}
	return d.renderer.Render(d.camera, d.scene, d.hud)
}

func (d *demo) Cleanup() error {
	var errs error
	d.system.Cleanup()
	if d.renderer != nil {
		errs = multierr.Append(errs, d.renderer.Cleanup())
	}
	errs = multierr.Append(errs, d.scene.Cleanup())
	if d.hud != nil {
		errs = multierr.Append(errs, d.hud.Cleanup())
	}
	if d.backend != nil {
		for _, tex := range d.textures {
			d.backend.ReleaseTexture(tex)
		}
		stats := d.backend.Textures.GetStats()
		logger.Log.Debug("Textures released",
			zap.Int("created", stats.TotalTextures),
			zap.Int("remaining", stats.ActiveTextures))
		d.backend.Cleanup()
	}
	return errs
}
