package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// MouseInput turns cursor callbacks into a per-frame displacement.
type MouseInput struct {
	previous mgl32.Vec2
	current  mgl32.Vec2
	// displVec holds the last frame's movement: X is the vertical cursor
	// delta and Y the horizontal one, matching camera pitch and yaw.
	displVec mgl32.Vec2

	inWindow     bool
	leftPressed  bool
	rightPressed bool
}

func NewMouseInput() *MouseInput {
	return &MouseInput{previous: mgl32.Vec2{-1, -1}}
}

// Init installs the cursor and button callbacks on w.
func (m *MouseInput) Init(w *Window) {
	h := w.Handle()
	h.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		m.cursorMoved(x, y)
	})
	h.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		m.inWindow = entered
	})
	h.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		m.buttonChanged(button, action)
	})
}

func (m *MouseInput) cursorMoved(x, y float64) {
	m.current = mgl32.Vec2{float32(x), float32(y)}
}

func (m *MouseInput) buttonChanged(button glfw.MouseButton, action glfw.Action) {
	switch button {
	case glfw.MouseButtonLeft:
		m.leftPressed = action == glfw.Press
	case glfw.MouseButtonRight:
		m.rightPressed = action == glfw.Press
	}
}

// Input computes the displacement since the previous call.
func (m *MouseInput) Input() {
	m.displVec = mgl32.Vec2{}
	if m.previous.X() > 0 && m.previous.Y() > 0 && m.inWindow {
		dx := m.current.X() - m.previous.X()
		dy := m.current.Y() - m.previous.Y()
		m.displVec = mgl32.Vec2{dy, dx}
	}
	m.previous = m.current
}

func (m *MouseInput) DisplVec() mgl32.Vec2 { return m.displVec }

func (m *MouseInput) IsLeftButtonPressed() bool  { return m.leftPressed }
func (m *MouseInput) IsRightButtonPressed() bool { return m.rightPressed }
