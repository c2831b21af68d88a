package app

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/raytracer"
	"github.com/gekko3d/raytracer/rt/capture"
	"github.com/gekko3d/raytracer/rt/core"
	"github.com/gekko3d/raytracer/rt/gpu"
	"github.com/gekko3d/raytracer/rt/scenes"
	"github.com/gekko3d/raytracer/rt/shaders"
)

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	TracePipeline *wgpu.ComputePipeline
	BlitPipeline  *wgpu.RenderPipeline

	StorageTexture *wgpu.Texture
	StorageView    *wgpu.TextureView
	Sampler        *wgpu.Sampler

	OutputBG *wgpu.BindGroup // trace output texture, group 1
	BlitBG   *wgpu.BindGroup

	Backend *gpu.WGPUBackend
	Params  *gpu.ParamBlock
	Packer  *gpu.ScenePacker

	// Scene is replaced wholesale on every switch, never edited.
	Scene      *core.Scene
	SceneIndex int
	Camera     *core.CameraState
	Triggers   *Triggers
	Profiler   *Profiler

	Settings raytracer.Config
	Log      raytracer.Logger

	LastTime       float64
	LastRenderTime float64
	MouseCaptured  bool
	DebugMode      bool

	FrameCount int
	FPS        float64
	FPSTime    float64
}

func NewApp(window *glfw.Window, settings raytracer.Config, log raytracer.Logger) *App {
	cam := core.NewCameraState()
	cam.Fov = settings.Fov
	return &App{
		Window:     window,
		Camera:     cam,
		Scene:      core.NewScene("none"),
		SceneIndex: -1,
		Triggers:   NewTriggers(),
		Profiler:   NewProfiler(),
		Settings:   settings,
		Log:        raytracer.OrNop(log),
		DebugMode:  settings.Debug,
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 {
		return errors.New("surface reports no formats")
	}
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	if err := a.createPipelines(); err != nil {
		return err
	}

	a.Sampler, err = a.Device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}

	if err := a.setupTextures(width, height); err != nil {
		return err
	}
	if err := a.setupBindGroups(); err != nil {
		return err
	}

	a.Params = gpu.NewParamBlock()
	a.Backend, err = gpu.NewWGPUBackend(a.Device, a.Params)
	if err != nil {
		return err
	}
	a.Backend.SetLayout(a.TracePipeline.GetBindGroupLayout(0))
	a.Packer = gpu.NewScenePacker(a.Backend, a.Params, a.Log.Named("packer"))

	start := scenes.IndexOf(a.Settings.Scene)
	if start < 0 {
		return fmt.Errorf("unknown scene %q", a.Settings.Scene)
	}
	a.LoadScene(start)

	a.LastTime = glfw.GetTime()
	return nil
}

func (a *App) createPipelines() error {
	csModule, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Raytrace CS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.RaytraceWGSL},
	})
	if err != nil {
		return fmt.Errorf("compile trace shader: %w", err)
	}
	defer csModule.Release()

	fsModule, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Fullscreen VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.FullscreenWGSL},
	})
	if err != nil {
		return fmt.Errorf("compile blit shader: %w", err)
	}
	defer fsModule.Release()

	a.TracePipeline, err = a.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "Raytrace Pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     csModule,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("create trace pipeline: %w", err)
	}

	a.BlitPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Blit Pipeline",
		Vertex: wgpu.VertexState{
			Module:     fsModule,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     fsModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    a.Config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create blit pipeline: %w", err)
	}
	return nil
}

// setupTextures (re)creates the trace target. CopySrc lets captures read it
// back.
func (a *App) setupTextures(w, h int) error {
	if w == 0 || h == 0 {
		return nil
	}
	if a.StorageView != nil {
		a.StorageView.Release()
	}
	if a.StorageTexture != nil {
		a.StorageTexture.Release()
	}

	var err error
	a.StorageTexture, err = a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Trace Output",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("create trace output: %w", err)
	}
	a.StorageView, err = a.StorageTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create trace output view: %w", err)
	}
	return nil
}

func (a *App) setupBindGroups() error {
	if a.OutputBG != nil {
		a.OutputBG.Release()
	}
	if a.BlitBG != nil {
		a.BlitBG.Release()
	}

	var err error
	a.OutputBG, err = a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "TraceOutputBG",
		Layout: a.TracePipeline.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: a.StorageView},
		},
	})
	if err != nil {
		return fmt.Errorf("create output bind group: %w", err)
	}

	a.BlitBG, err = a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "BlitBG",
		Layout: a.BlitPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: a.StorageView},
			{Binding: 1, Sampler: a.Sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("create blit bind group: %w", err)
	}
	return nil
}

func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
	if err := a.setupTextures(w, h); err != nil {
		a.Log.Errorf("resize: %v", err)
		return
	}
	if err := a.setupBindGroups(); err != nil {
		a.Log.Errorf("resize: %v", err)
	}
}

// LoadScene builds fixture i and packs it, replacing the current scene.
// Packing failures are logged by the packer; the new scene is kept with
// whatever counts were published.
func (a *App) LoadScene(i int) {
	fixture, err := scenes.ByIndex(i)
	if err != nil {
		a.Log.Warnf("%v", err)
		return
	}

	scene := fixture.Build()
	a.Profiler.Reset()
	a.Profiler.Measure("Pack", func() {
		err = a.Packer.Pack(scene)
	})
	if err != nil {
		a.Log.Warnf("scene %q packed with errors", fixture.Name)
	}
	a.Scene = scene
	a.SceneIndex = i

	counts := a.Packer.Counts()
	a.Profiler.SetCount("spheres", counts.Spheres)
	a.Profiler.SetCount("triangles", counts.Triangles)
	a.Profiler.SetCount("planes", counts.Planes)
	a.Profiler.SetCount("lights", counts.Lights)
	a.Log.Infof("loaded scene %q (%s)", fixture.Name, fixture.Description)
}

// Update applies pending triggers, moves the camera and publishes the
// per-frame parameters.
func (a *App) Update() {
	now := glfw.GetTime()
	dt := float32(now - a.LastTime)
	a.LastTime = now

	if i, ok := a.Triggers.TakeScene(); ok && i != a.SceneIndex {
		a.LoadScene(i)
	}

	f, r, u := MoveAxes(func(k glfw.Key) bool {
		return a.Window.GetKey(k) == glfw.Press
	})
	if f != 0 || r != 0 || u != 0 {
		a.Camera.Move(f, r, u, dt)
	}

	a.Packer.SetCamera(a.Camera)
	a.Packer.SetShading(a.Settings.MaxDepth, a.Settings.Ambient)

	if _, err := a.Backend.Sync(); err != nil {
		a.Log.Errorf("sync scene bindings: %v", err)
	}
}

func (a *App) Render() {
	if a.Backend.BindGroup == nil {
		return
	}
	var presented bool
	a.Profiler.Measure("Render", func() {
		presented = a.drawFrame()
	})
	if !presented {
		return
	}

	// The readback blocks, so the next frame cannot overwrite the target
	// before the copy is mapped.
	if a.Triggers.TakeCapture() {
		if path, err := a.Capture(); err != nil {
			a.Log.Errorf("capture: %v", err)
		} else {
			a.Log.Infof("captured %s", path)
		}
	}

	a.updateFPS()
}

// drawFrame traces into the storage texture and blits it to the surface.
// It reports whether a frame was presented.
func (a *App) drawFrame() bool {
	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture failed: %v", err)
		return false
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView failed: %v", err)
		return false
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("CreateCommandEncoder failed: %v", err)
		return false
	}

	cPass := encoder.BeginComputePass(nil)
	cPass.SetPipeline(a.TracePipeline)
	cPass.SetBindGroup(0, a.Backend.BindGroup, nil)
	cPass.SetBindGroup(1, a.OutputBG, nil)
	wgX := (a.Config.Width + 7) / 8
	wgY := (a.Config.Height + 7) / 8
	cPass.DispatchWorkgroups(wgX, wgY, 1)
	if err := cPass.End(); err != nil {
		a.Log.Errorf("trace pass End failed: %v", err)
	}

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	rPass.SetPipeline(a.BlitPipeline)
	rPass.SetBindGroup(0, a.BlitBG, nil)
	rPass.Draw(3, 1, 0, 0)
	if err := rPass.End(); err != nil {
		a.Log.Errorf("blit pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Log.Errorf("encoder Finish failed: %v", err)
		return false
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()
	return true
}

// Capture reads the last traced frame back and writes it to the capture
// directory.
func (a *App) Capture() (string, error) {
	var path string
	var err error
	a.Profiler.Measure("Capture", func() {
		img, rerr := gpu.ReadTexture(a.Device, a.StorageTexture, a.Config.Width, a.Config.Height)
		if rerr != nil {
			err = rerr
			return
		}
		path, err = capture.NewPath(a.Settings.CaptureDir, a.Settings.CaptureFormat)
		if err != nil {
			return
		}
		err = capture.Save(img, path)
	})
	return path, err
}

func (a *App) updateFPS() {
	now := glfw.GetTime()
	last := a.LastRenderTime
	a.LastRenderTime = now
	if last == 0 {
		return
	}
	a.FrameCount++
	a.FPSTime += now - last
	if a.FPSTime < 1.0 {
		return
	}
	a.FPS = float64(a.FrameCount) / a.FPSTime
	a.FrameCount = 0
	a.FPSTime = 0
	if a.DebugMode {
		a.Log.Debugf("%.1f fps\n%s", a.FPS, a.Profiler.Report())
	}
}

func (a *App) Release() {
	if a.Packer != nil {
		a.Packer.Release()
	}
	if a.Backend != nil {
		a.Backend.Release()
	}
	for _, bg := range []*wgpu.BindGroup{a.OutputBG, a.BlitBG} {
		if bg != nil {
			bg.Release()
		}
	}
	if a.StorageView != nil {
		a.StorageView.Release()
	}
	if a.StorageTexture != nil {
		a.StorageTexture.Release()
	}
	if a.Sampler != nil {
		a.Sampler.Release()
	}
	if a.TracePipeline != nil {
		a.TracePipeline.Release()
	}
	if a.BlitPipeline != nil {
		a.BlitPipeline.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Adapter != nil {
		a.Adapter.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}
