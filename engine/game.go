package engine

import (
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer"
	"github.com/spaghettifunk/gin/engine/systems"
)

// Game is the application the engine runs. The engine fills Config,
// SystemManager, Renderer and Metrics before FnInitialize is called.
type Game struct {
	ApplicationConfig *ApplicationConfig
	Config            *core.Config
	SystemManager     *systems.SystemManager
	Renderer          *renderer.Renderer
	Metrics           *core.Metrics
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error

// Render fills the packet drawn this frame.
type Render func(packet *renderer.RenderPacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
