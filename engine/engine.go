package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/gin/engine/assets"
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/platform"
	"github.com/spaghettifunk/gin/engine/renderer"
	"github.com/spaghettifunk/gin/engine/renderer/components"
	"github.com/spaghettifunk/gin/engine/renderer/gl/glcore"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

const metricsLogInterval = 5 * time.Second

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	config        *core.Config
	isRunning     atomic.Bool
	isSuspended   bool
	platform      *platform.Platform
	context       *opengl.Context
	systemManager *systems.SystemManager
	renderer      *renderer.Renderer
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
	lastReport    time.Time
}

// New reads the configuration of g. Nothing touches the window or GL until
// Initialize.
func New(g *Game) (*Engine, error) {
	cfg, err := core.LoadConfig(g.ApplicationConfig.ConfigPath)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	if g.ApplicationConfig.AssetsDir != "" {
		cfg.Assets.Dir = g.ApplicationConfig.AssetsDir
	}
	cfg.Apply()
	g.Config = cfg

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       cfg,
		platform:     platform.New(),
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		width:        uint32(cfg.Window.Width),
		height:       uint32(cfg.Window.Height),
	}, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine initialized twice")
	}
	e.currentStage = EngineStageInitializing

	core.InputInitialize()
	core.EventInitialize()
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)

	if err := e.platform.Startup(e.config.Window, e.config.Renderer.GLMajor, e.config.Renderer.GLMinor); err != nil {
		return err
	}
	e.width, e.height = e.platform.FramebufferSize()

	functions, err := glcore.New()
	if err != nil {
		core.LogError("failed to load OpenGL: %s", err)
		return err
	}
	e.context = opengl.NewContext(functions)

	am, err := assets.NewAssetManager(e.config.Assets.Dir)
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	if e.config.Assets.Watch {
		if err := am.Watch(); err != nil {
			core.LogWarn("assets will not hot reload: %s", err)
		}
	}

	e.systemManager, err = systems.NewSystemManager(e.context, components.NewDefaultRegistry(), am)
	if err != nil {
		core.LogError(err.Error())
		return err
	}

	rcfg := e.gameInstance.ApplicationConfig.Renderer
	c := e.config.Renderer.ClearColour
	rcfg.ClearColour = math.NewVec4(c[0], c[1], c[2], c[3])
	rcfg.Particles.Count = e.config.Particles.Count
	e.renderer, err = renderer.New(e.context, e.systemManager, e.systemManager.Cameras.GetDefault(), rcfg)
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	e.renderer.OnResize(e.width, e.height)

	e.gameInstance.SystemManager = e.systemManager
	e.gameInstance.Renderer = e.renderer
	e.gameInstance.Metrics = e.metrics
	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}
	e.currentStage = EngineStageInitialized
	return nil
}

// Run drives frames until the window closes or Quit is called. It must be
// called on the thread that called Initialize.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before it runs")
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()
	e.lastReport = time.Now()
	targetFrameSeconds := 1.0 / 60.0

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}
		if e.isSuspended {
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := e.platform.GetAbsoluteTime()

		// finished texture loads and changed files land here
		e.systemManager.Update()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err)
			return err
		}

		packet := &renderer.RenderPacket{DeltaTime: delta}
		if err := e.gameInstance.FnRender(packet, delta); err != nil {
			core.LogError("game render failed, shutting down: %s", err)
			return err
		}
		e.renderer.DrawFrame(packet)
		e.platform.SwapBuffers()

		frameElapsedTime := e.platform.GetAbsoluteTime() - frameStartTime
		e.metrics.Update(frameElapsedTime)
		if time.Since(e.lastReport) >= metricsLogInterval {
			fps, ms := e.metrics.Frame()
			core.LogDebug("%.0f fps, %.2f ms per frame", fps, ms)
			e.lastReport = time.Now()
		}

		// Without vsync, give the rest of the frame back to the OS.
		if remaining := targetFrameSeconds - frameElapsedTime; !e.config.Window.VSync && remaining > 0 {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}

		// Input state rolls over last so this frame saw every transition.
		core.InputUpdate()
		e.lastTime = currentTime
	}
	return nil
}

// Quit stops the frame loop after the current frame. It is safe to call
// from any goroutine.
func (e *Engine) Quit() {
	e.isRunning.Store(false)
}

// Shutdown releases everything Initialize created. Call it on the thread
// that ran the frames.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if e.renderer != nil {
		e.renderer.Shutdown()
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	core.EventShutdown()
	core.InputShutdown()
	e.platform.Shutdown()
	e.currentStage = EngineStageUninitialized
	return nil
}

// GetFramebufferSize returns the width and height (in this order) of the
// default framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) bool {
	if context.Type == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.Quit()
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		// other listeners may want to know about the quit too
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.ResizeEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	width, height := se.Width, se.Height
	if width == e.width && height == e.height {
		return false
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)

	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return false
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	e.renderer.OnResize(width, height)
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	return false
}
