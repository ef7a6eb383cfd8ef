package engine

import (
	"testing"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedStepDistributesElapsedTime(t *testing.T) {
	f := newFixedStep(30)
	require.InDelta(t, 1.0/30, f.Interval(), 1e-12)

	steps := func() int {
		n := 0
		for f.Next() {
			n++
		}
		return n
	}

	f.Add(0.01)
	assert.Equal(t, 0, steps())

	f.Add(0.1) // 0.11 in total
	assert.Equal(t, 3, steps())
	assert.InDelta(t, 0.11-3.0/30, f.accumulator, 1e-9)

	f.Add(0.03)
	assert.Equal(t, 1, steps())
}

func TestTimerElapsed(t *testing.T) {
	clock := time.Unix(100, 0)
	timer := &Timer{now: func() time.Time { return clock }}
	timer.Init()

	clock = clock.Add(250 * time.Millisecond)
	assert.InDelta(t, 0.25, timer.ElapsedTime(), 1e-9)
	assert.Equal(t, clock, timer.LastLoopTime())

	clock = clock.Add(time.Second)
	assert.InDelta(t, 1, timer.ElapsedTime(), 1e-9)
	assert.InDelta(t, 101.25, timer.Time(), 1e-6)
}

func TestMouseDisplacement(t *testing.T) {
	m := NewMouseInput()

	// first sample only records the position
	m.inWindow = true
	m.cursorMoved(100, 50)
	m.Input()
	assert.Equal(t, mgl32.Vec2{}, m.DisplVec())

	m.cursorMoved(110, 45)
	m.Input()
	assert.Equal(t, mgl32.Vec2{-5, 10}, m.DisplVec())

	// no movement reported while the cursor is outside
	m.inWindow = false
	m.cursorMoved(300, 300)
	m.Input()
	assert.Equal(t, mgl32.Vec2{}, m.DisplVec())
}

func TestMouseButtons(t *testing.T) {
	m := NewMouseInput()
	m.buttonChanged(glfw.MouseButtonRight, glfw.Press)
	assert.True(t, m.IsRightButtonPressed())
	assert.False(t, m.IsLeftButtonPressed())

	m.buttonChanged(glfw.MouseButtonRight, glfw.Release)
	m.buttonChanged(glfw.MouseButtonLeft, glfw.Press)
	assert.False(t, m.IsRightButtonPressed())
	assert.True(t, m.IsLeftButtonPressed())
}

type nopLogic struct{}

func (nopLogic) Init(*Window) error          { return nil }
func (nopLogic) Input(*Window, *MouseInput)  {}
func (nopLogic) Update(float32, *MouseInput) {}
func (nopLogic) Render(*Window) error        { return nil }
func (nopLogic) Cleanup() error              { return nil }

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(Options{TargetFPS: 0, TargetUPS: 30}, nopLogic{})
	assert.Error(t, err)
	_, err = New(Options{TargetFPS: 60, TargetUPS: 30}, nil)
	assert.Error(t, err)

	e, err := New(Options{TargetFPS: 60, TargetUPS: 30}, nopLogic{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0/30, e.step.Interval(), 1e-12)
}

func TestShutdownBeforeRunDoesNotBlock(t *testing.T) {
	e, err := New(Options{TargetFPS: 60, TargetUPS: 30}, nopLogic{})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		e.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown blocked although the loop never started")
	}
	assert.True(t, e.stop.Load())
}
