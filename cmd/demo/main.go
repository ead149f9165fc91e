package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"deferred-renderer/config"
	"deferred-renderer/core"
	"deferred-renderer/internal/logger"
	"deferred-renderer/internal/opengl"
	"deferred-renderer/lights"
	"deferred-renderer/renderer"
)

// orbitCamera circles the scene centre. A/D orbit, W/S zoom, Q/E raise and
// lower the eye.
type orbitCamera struct {
	yaw, height, distance float32
	aspect                float32
}

func (oc *orbitCamera) Update(w *core.Window, dt float32) {
	const (
		orbitSpeed = 1.2 // rad/s
		zoomSpeed  = 5.0
		liftSpeed  = 3.0
	)
	if w.IsKeyPressed(core.KeyA) {
		oc.yaw -= orbitSpeed * dt
	}
	if w.IsKeyPressed(core.KeyD) {
		oc.yaw += orbitSpeed * dt
	}
	if w.IsKeyPressed(core.KeyW) {
		oc.distance = max(oc.distance-zoomSpeed*dt, 2)
	}
	if w.IsKeyPressed(core.KeyS) {
		oc.distance = min(oc.distance+zoomSpeed*dt, 30)
	}
	if w.IsKeyPressed(core.KeyE) {
		oc.height = min(oc.height+liftSpeed*dt, 15)
	}
	if w.IsKeyPressed(core.KeyQ) {
		oc.height = max(oc.height-liftSpeed*dt, 0.2)
	}
}

func (oc *orbitCamera) Camera() renderer.Camera {
	eye := mgl32.Vec3{
		oc.distance * math32.Cos(oc.yaw),
		oc.height,
		oc.distance * math32.Sin(oc.yaw),
	}
	return renderer.NewCamera(eye, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0, 1, 0}, 45, oc.aspect, 0.1, 100)
}

func main() {
	configPath := flag.String("config", "", "TOML or YAML settings file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("demo failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	window, err := core.NewWindow(cfg.Window, log)
	if err != nil {
		return err
	}
	defer window.Destroy()

	dev, err := opengl.NewDevice(log)
	if err != nil {
		return err
	}

	pipeline, err := renderer.New(dev, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	scene, err := newShowcase(dev)
	if err != nil {
		return err
	}
	defer scene.Release()

	// The day/night cycle drives the first directional light
	var sun *lights.Directional
	for l := range pipeline.Lighting.Lights().All() {
		if d, ok := l.(*lights.Directional); ok {
			sun = d
			break
		}
	}
	dayNight := NewDayNight()

	cam := &orbitCamera{
		yaw:      math32.Pi / 2,
		height:   3,
		distance: 9,
		aspect:   float32(cfg.Viewport.Width) / float32(cfg.Viewport.Height),
	}
	hud := newTitleHUD(cfg.Window.Title, time.Second)

	var (
		last      = time.Now()
		pauseDown bool
	)
	for !window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		window.PollEvents()
		if window.IsKeyPressed(core.KeyEscape) {
			window.Close()
		}
		// Space pauses the cycle, once per press
		space := window.IsKeyPressed(core.KeySpace)
		if space && !pauseDown {
			dayNight.Active = !dayNight.Active
		}
		pauseDown = space

		cam.Update(window, dt)
		dayNight.Update(dt)
		dayNight.Apply(pipeline.Lighting, sun)

		pipeline.RenderFrame(cam.Camera(), scene, scene)
		window.SwapBuffers()

		hud.Add("%s", dayNight.TimeOfDay())
		hud.Add("lights %s", pipeline.Lighting.Lights().Counts())
		if title, ok := hud.Frame(now); ok {
			window.SetTitle(title)
		}
	}

	log.Info("exiting", zap.Uint64("frames", pipeline.Frames()))
	return nil
}
