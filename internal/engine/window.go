package engine

import (
	"fmt"

	"Terra3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

type WindowOptions struct {
	Title  string
	Width  int
	Height int
	VSync  bool
	// DarkTitleBar asks the platform for a dark window frame where supported.
	DarkTitleBar bool
}

// Window owns the GLFW window and its OpenGL 4.1 core context. glfw.Init
// must have been called on the current, locked OS thread.
type Window struct {
	handle  *glfw.Window
	title   string
	width   int
	height  int
	vsync   bool
	resized bool
}

func NewWindow(opts WindowOptions) (*Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	handle, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	w := &Window{
		handle: handle,
		title:  opts.Title,
		width:  opts.Width,
		height: opts.Height,
		vsync:  opts.VSync,
	}
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		w.resized = true
	})

	if vm := glfw.GetPrimaryMonitor(); vm != nil {
		if mode := vm.GetVideoMode(); mode != nil {
			handle.SetPos((mode.Width-opts.Width)/2, (mode.Height-opts.Height)/2)
		}
	}

	handle.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	if err := gl.Init(); err != nil {
		handle.Destroy()
		return nil, fmt.Errorf("initialising OpenGL: %w", err)
	}
	if opts.DarkTitleBar {
		setDarkTitleBar(handle)
	}

	// the framebuffer can differ from the requested size on HiDPI screens
	w.width, w.height = handle.GetFramebufferSize()
	handle.Show()

	logger.Log.Info("Window created",
		zap.String("title", opts.Title),
		zap.Int("width", w.width),
		zap.Int("height", w.height),
		zap.Bool("vsync", opts.VSync),
		zap.String("glVersion", gl.GoStr(gl.GetString(gl.VERSION))))
	return w, nil
}

func (w *Window) Title() string { return w.title }
func (w *Window) Width() int    { return w.width }
func (w *Window) Height() int   { return w.height }
func (w *Window) VSync() bool   { return w.vsync }

// Handle exposes the GLFW window for input callbacks.
func (w *Window) Handle() *glfw.Window { return w.handle }

// IsResized reports a framebuffer size change not yet acknowledged with
// SetResized(false).
func (w *Window) IsResized() bool         { return w.resized }
func (w *Window) SetResized(resized bool) { w.resized = resized }

func (w *Window) IsKeyPressed(key glfw.Key) bool {
	return w.handle.GetKey(key) == glfw.Press
}

func (w *Window) ShouldClose() bool { return w.handle.ShouldClose() }

func (w *Window) SetShouldClose(v bool) { w.handle.SetShouldClose(v) }

// Update presents the frame and processes pending events.
func (w *Window) Update() {
	w.handle.SwapBuffers()
	glfw.PollEvents()
}

func (w *Window) Destroy() {
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
}
