// Command terrademo walks a camera over tiled Perlin terrain with shadows,
// a particle fountain, a sky box and a small HUD.
package main

import (
	"errors"
	"flag"

	"Terra3D/internal/config"
	"Terra3D/internal/engine"
	"Terra3D/internal/logger"
	"Terra3D/internal/renderer"

	"github.com/xlab/closer"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "terra3d.yaml", "YAML settings file")
	modelPath := flag.String("model", "", "optional OBJ model placed on the terrain")
	debug := flag.Bool("debug", false, "verbose logging and renderer diagnostics")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		closer.Fatalln(err)
	}
	cfg.Debug = cfg.Debug || *debug

	if err := logger.Init(cfg.Debug); err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(logger.Sync)

	game := newDemo(cfg, *modelPath)
	eng, err := engine.New(engine.Options{
		Window: engine.WindowOptions{
			Title:        cfg.Window.Title,
			Width:        cfg.Window.Width,
			Height:       cfg.Window.Height,
			VSync:        cfg.Window.VSync,
			DarkTitleBar: cfg.Window.DarkTitleBar,
		},
		TargetFPS: cfg.Engine.TargetFPS,
		TargetUPS: cfg.Engine.TargetUPS,
	}, game)
	if err != nil {
		closer.Fatalln(err)
	}
	// on SIGINT let the loop release GPU resources before the process exits
	closer.Bind(eng.Shutdown)

	logger.Log.Info("Starting", zap.String("config", *configPath), zap.Bool("debug", cfg.Debug))
	if err := eng.Run(); err != nil {
		var setupErr *renderer.SetupError
		if errors.As(err, &setupErr) {
			logger.Log.Error("Renderer setup failed", zap.String("stage", setupErr.Stage), zap.Error(setupErr.Err))
		}
		closer.Fatalln(err)
	}
	closer.Close()
}
