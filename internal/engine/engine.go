// Package engine runs the window, input and fixed-step game loop.
package engine

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"Terra3D/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// GameLogic is implemented by the game. Every method runs on the loop's
// thread with the GL context current.
type GameLogic interface {
	Init(w *Window) error
	Input(w *Window, mouse *MouseInput)
	Update(interval float32, mouse *MouseInput)
	Render(w *Window) error
	Cleanup() error
}

type Options struct {
	Window    WindowOptions
	TargetFPS int
	TargetUPS int
}

var errAlreadyRun = errors.New("engine already ran")

type Engine struct {
	opts  Options
	logic GameLogic

	window *Window
	mouse  *MouseInput
	timer  *Timer
	step   *fixedStep

	started atomic.Bool
	running atomic.Bool
	stop    atomic.Bool
	done    chan struct{}

	frames  int
	skipped int
}

func New(opts Options, logic GameLogic) (*Engine, error) {
	if opts.TargetFPS <= 0 || opts.TargetUPS <= 0 {
		return nil, fmt.Errorf("target fps and ups must be positive, got %d and %d", opts.TargetFPS, opts.TargetUPS)
	}
	if logic == nil {
		return nil, errors.New("nil game logic")
	}
	return &Engine{
		opts:  opts,
		logic: logic,
		mouse: NewMouseInput(),
		timer: NewTimer(),
		step:  newFixedStep(opts.TargetUPS),
		done:  make(chan struct{}),
	}, nil
}

// Run creates the window and drives the loop until the window is closed or
// Stop is called. It must be called from the main goroutine and only once.
// Game cleanup always runs once Init succeeded.
func (e *Engine) Run() (err error) {
	if !e.started.CompareAndSwap(false, true) {
		return errAlreadyRun
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	e.running.Store(true)
	defer func() {
		e.running.Store(false)
		close(e.done)
	}()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initialising glfw: %w", err)
	}
	defer glfw.Terminate()

	e.window, err = NewWindow(e.opts.Window)
	if err != nil {
		return err
	}
	defer e.window.Destroy()

	e.timer.Init()
	e.mouse.Init(e.window)

	if err := e.logic.Init(e.window); err != nil {
		return multierr.Append(fmt.Errorf("game init: %w", err), e.cleanup())
	}
	defer func() {
		err = multierr.Append(err, e.cleanup())
	}()

	e.loop()
	logger.Log.Info("Game loop finished", zap.Int("frames", e.frames), zap.Int("skippedFrames", e.skipped))
	return nil
}

// Stop asks the loop to exit after the current iteration.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Shutdown stops the loop and, when it is running, waits for Run to finish
// its cleanup. Safe to call from any goroutine.
func (e *Engine) Shutdown() {
	e.Stop()
	if e.running.Load() {
		<-e.done
	}
}

func (e *Engine) shouldStop() bool {
	return e.stop.Load() || e.window.ShouldClose()
}

func (e *Engine) loop() {
	for !e.shouldStop() {
		e.step.Add(e.timer.ElapsedTime())

		e.logic.Input(e.window, e.mouse)
		e.mouse.Input()

		for e.step.Next() {
			e.logic.Update(float32(e.step.Interval()), e.mouse)
		}

		e.render()

		if !e.window.VSync() {
			e.sync()
		}
	}
}

func (e *Engine) render() {
	if err := e.logic.Render(e.window); err != nil {
		e.skipped++
		logger.Log.Error("Frame skipped", zap.Int("frame", e.frames), zap.Error(err))
	}
	e.frames++
	e.window.Update()
}

// sync waits out the rest of the frame slot when vsync is off.
func (e *Engine) sync() {
	slot := time.Second / time.Duration(e.opts.TargetFPS)
	end := e.timer.LastLoopTime().Add(slot)
	for time.Now().Before(end) {
		time.Sleep(time.Millisecond)
	}
}

func (e *Engine) cleanup() error {
	if err := e.logic.Cleanup(); err != nil {
		logger.Log.Error("Game cleanup reported errors", zap.Error(err))
		return err
	}
	return nil
}
