package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/raytracer"
	"github.com/gekko3d/raytracer/rt/app"
	"github.com/gekko3d/raytracer/rt/capture"
	"github.com/gekko3d/raytracer/rt/core"
	"github.com/gekko3d/raytracer/rt/cpu"
	"github.com/gekko3d/raytracer/rt/scenes"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := raytracer.NewDefaultLogger("tracer", cfg.Debug)

	if cfg.Headless {
		if err := renderHeadless(cfg, log); err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		return
	}
	if err := run(cfg, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

// loadConfig applies, in order: defaults, the -config file, then the
// remaining flags.
func loadConfig(args []string) (raytracer.Config, error) {
	cfg := raytracer.DefaultConfig()

	pre := flag.NewFlagSet("tracer", flag.ContinueOnError)
	pre.SetOutput(new(strings.Builder))
	path := pre.String("config", "", "")
	_ = pre.Parse(filterConfigArgs(args))
	if *path != "" {
		var err error
		if cfg, err = raytracer.LoadConfig(*path); err != nil {
			return cfg, err
		}
	}

	fs := flag.NewFlagSet("tracer", flag.ContinueOnError)
	fs.String("config", "", "YAML or TOML config file")
	cfg.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: tracer [flags]\n\nScenes: %s\n\n", strings.Join(scenes.Names(), ", "))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if _, err := scenes.ByName(cfg.Scene); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// filterConfigArgs keeps only -config so the first pass never trips over
// flags it does not know.
func filterConfigArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-config" || a == "--config":
			out = append(out, a)
			if i+1 < len(args) {
				out = append(out, args[i+1])
				i++
			}
		case strings.HasPrefix(a, "-config=") || strings.HasPrefix(a, "--config="):
			out = append(out, a)
		}
	}
	return out
}

func renderHeadless(cfg raytracer.Config, log raytracer.Logger) error {
	fixture, err := scenes.ByName(cfg.Scene)
	if err != nil {
		return err
	}
	out := cfg.Output
	if out == "" {
		if out, err = capture.NewPath(cfg.CaptureDir, cfg.CaptureFormat); err != nil {
			return err
		}
	}

	cam := core.NewCameraState()
	cam.Fov = cfg.Fov
	tracer := cpu.NewTracer(cfg.MaxDepth, cfg.Ambient)
	img := tracer.Render(fixture.Build(), cam, cfg.Width, cfg.Height)
	if err := capture.Save(img, out); err != nil {
		return err
	}
	log.Infof("rendered %q %dx%d to %s", fixture.Name, cfg.Width, cfg.Height, out)
	return nil
}

func run(cfg raytracer.Config, log raytracer.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	application := app.NewApp(window, cfg, log)
	if err := application.Init(); err != nil {
		return err
	}
	defer application.Release()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	var lastX, lastY float64
	firstMove := true
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !application.MouseCaptured {
			firstMove = true
			return
		}
		if firstMove {
			lastX, lastY = xpos, ypos
			firstMove = false
			return
		}
		application.Camera.Rotate(float32(xpos-lastX), float32(ypos-lastY))
		lastX, lastY = xpos, ypos
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		application.Camera.Zoom(float32(yoff))
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if i, ok := app.SceneKey(key); ok {
			application.Triggers.RequestScene(i)
			return
		}
		switch key {
		case glfw.KeyC:
			application.Triggers.RequestCapture()
		case glfw.KeyTab:
			application.MouseCaptured = !application.MouseCaptured
			if application.MouseCaptured {
				w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			} else {
				w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			}
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		application.Update()
		application.Render()
	}
	return nil
}
