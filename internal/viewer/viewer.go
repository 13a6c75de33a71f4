package viewer

import (
	"GopherViewer/internal/config"
	"GopherViewer/internal/gui"
	"GopherViewer/internal/input"
	"GopherViewer/internal/logger"
	"GopherViewer/internal/renderer"
	"GopherViewer/internal/scene"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
	"go.uber.org/zap"
)

const watchDebounce = 150 * time.Millisecond

var (
	modelFilter = gui.Filter{Description: "Wavefront OBJ", Extensions: []string{"obj"}}
	imageFilter = gui.Filter{Description: "Images", Extensions: []string{"jpg", "png"}}
)

// Viewer owns the window, GL resources and the per-frame loop. Everything
// runs on the thread that calls Run.
type Viewer struct {
	cfg    config.Config
	window *glfw.Window

	state      *scene.State
	camera     *renderer.Camera
	ctrl       *Controller
	input      *input.Handler
	placements []scene.Placement

	programs []*renderer.Program
	models   [scene.SlotCount]*renderer.Model
	textures *renderer.TextureManager

	platform      *gui.GLFW
	imguiRenderer *gui.OpenGL3

	modelDialog   *gui.FileDialog
	diffuseDialog *gui.FileDialog
	normalDialog  *gui.FileDialog

	watcher *Watcher
}

func New(cfg config.Config) *Viewer {
	state := scene.NewState(cfg.Light)
	camera := renderer.NewDefaultCamera()
	mapsDir := cfg.AssetPath("maps")

	return &Viewer{
		cfg:           cfg,
		state:         state,
		camera:        camera,
		ctrl:          NewController(state, camera),
		input:         input.NewHandler(&state.Speeds),
		placements:    scene.BuildPlacements(),
		modelDialog:   gui.NewFileDialog("Load 3D Model", cfg.Assets, modelFilter),
		diffuseDialog: gui.NewFileDialog("Load Diffuse Map", mapsDir, imageFilter),
		normalDialog:  gui.NewFileDialog("Load Normal Map", mapsDir, imageFilter),
	}
}

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("could not initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(v.cfg.Window.Width), int(v.cfg.Window.Height), v.cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("could not create glfw window: %w", err)
	}
	defer window.Destroy()
	v.window = window
	matchTitleBar(window, clearColor)

	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return fmt.Errorf("could not initialize OpenGL: %w", err)
	}
	glfw.SwapInterval(1)
	logger.Log.Info("OpenGL ready", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	imguiContext := imgui.CreateContext(nil)
	defer imguiContext.Destroy()
	io := imgui.CurrentIO()

	v.platform = gui.NewGLFWFromExistingWindow(window, io)
	v.platform.OnKey = v.input.HandleKey
	v.imguiRenderer, err = gui.NewOpenGL3(io)
	if err != nil {
		return fmt.Errorf("could not create imgui renderer: %w", err)
	}
	defer v.imguiRenderer.Dispose()

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		v.resize(width, height)
	})

	v.initializeGL()
	defer v.terminateGL()

	if v.cfg.Watch {
		v.startWatcher()
	}

	v.loop()
	return nil
}

func (v *Viewer) loop() {
	lastTime := glfw.GetTime()
	for !v.window.ShouldClose() {
		glfw.PollEvents()

		currentTime := glfw.GetTime()
		deltaTime := float32(currentTime - lastTime)
		lastTime = currentTime

		if v.watcher != nil {
			for _, path := range v.watcher.Drain() {
				logger.Log.Info("Asset changed", zap.String("path", path))
				v.ctrl.HandleFileChange(path)
			}
		}

		v.modelDialog.Poll()
		v.diffuseDialog.Poll()
		v.normalDialog.Poll()

		v.ctrl.Update(deltaTime)
		v.render()

		v.platform.NewFrame()
		imgui.NewFrame()
		v.paintUI(v.platform.DisplaySize())
		imgui.Render()
		v.imguiRenderer.Render(v.platform.DisplaySize(), v.platform.FramebufferSize(), imgui.RenderedDrawData())

		v.window.SwapBuffers()
	}
}

// initializeGL compiles the programs, loads the models and sizes the
// viewport. Failures are logged; whatever loaded keeps working.
func (v *Viewer) initializeGL() {
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], 1)
	gl.Enable(gl.DEPTH_TEST)

	for _, name := range v.cfg.Shaders {
		vert, frag := v.cfg.ShaderPaths(name)
		program, err := renderer.LoadProgram(name, vert, frag)
		if err != nil {
			logger.Log.Error("Shader program failed", zap.String("name", name), zap.Error(err))
		}
		v.programs = append(v.programs, program)
		v.ctrl.Programs = append(v.ctrl.Programs, program)
	}

	v.textures = renderer.NewTextureManager()
	v.ctrl.Textures = v.textures
	paths := [scene.SlotCount]string{
		scene.SlotPrimary:   v.cfg.Models.Primary,
		scene.SlotSecondary: v.cfg.Models.Secondary,
		scene.SlotTertiary:  v.cfg.Models.Tertiary,
	}
	names := [scene.SlotCount]string{"primary", "secondary", "tertiary"}
	for slot := scene.SlotPrimary; slot < scene.SlotCount; slot++ {
		v.models[slot] = renderer.NewModel(names[slot], v.textures)
		v.ctrl.Models[slot] = v.models[slot]
		if err := v.ctrl.LoadModel(slot, v.cfg.AssetPath(paths[slot])); err != nil {
			logger.Log.Error("Model not loaded", zap.String("slot", names[slot]), zap.Error(err))
		}
	}
	v.state.MappingMode = scene.MappingFromMesh
	v.state.ClampMapping(v.ctrl.PrimaryUVMapped())

	width, height := v.window.GetFramebufferSize()
	v.resize(width, height)
}

func (v *Viewer) resize(width, height int) {
	v.ctrl.Resize(width, height)
}

func (v *Viewer) terminateGL() {
	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			logger.Log.Warn("Closing watcher", zap.Error(err))
		}
	}
	for _, m := range v.models {
		if m != nil {
			m.Destroy()
		}
	}
	for _, p := range v.programs {
		p.Delete()
	}
	if v.textures != nil {
		v.textures.Clear()
	}
}

func (v *Viewer) startWatcher() {
	w, err := NewWatcher(watchDebounce)
	if err != nil {
		logger.Log.Error("Hot reload disabled", zap.Error(err))
		return
	}

	var files []string
	for _, p := range v.programs {
		vert, frag := p.Sources()
		files = append(files, vert, frag)
	}
	if v.ctrl.PrimaryPath != "" {
		files = append(files, v.ctrl.PrimaryPath)
	}
	if err := w.Watch(files...); err != nil {
		logger.Log.Error("Hot reload disabled", zap.Error(err))
		w.Close()
		return
	}
	w.Start()
	v.watcher = w
	logger.Log.Info("Watching assets", zap.Int("files", len(files)), zap.String("shaders", filepath.Join(v.cfg.Assets, "shaders")))
}
