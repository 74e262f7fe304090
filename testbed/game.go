package testbed

import (
	"fmt"

	"github.com/spaghettifunk/gin/engine"
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer"
	"github.com/spaghettifunk/gin/engine/renderer/components"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/renderer/particles"
	"github.com/spaghettifunk/gin/engine/renderer/views"
	"github.com/spaghettifunk/gin/engine/resources"
)

const (
	overlayFont = "mono"
	// seconds between overlay refreshes
	overlayInterval = 0.25
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	WorldCamera *components.Camera

	width  uint32
	height uint32

	models     []*views.Model
	crate      *views.Model
	pointLight *components.Values
	lightAngle float32

	// materials the crate cycles through
	crateMaterials []string
	crateMaterial  int

	// frame rate overlay, nil when the font is missing
	overlay        *views.Text
	overlayAge     float64
	overlayVisible bool
}

func NewTestGame(configPath string) *TestGame {
	fountain := particles.DefaultConfig()
	fountain.Emitter = math.NewVec3(0, 0.5, -4)

	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				ConfigPath: configPath,
				Renderer: renderer.Config{
					DepthShader:          "depth",
					LitShader:            "lit",
					SkyboxShader:         "skybox",
					ParticleUpdateShader: "particle_update",
					ParticleRenderShader: "particle_render",
					UIShader:             "ui",
					SkyTop:               [4]byte{36, 72, 160, 255},
					SkyBottom:            [4]byte{190, 200, 215, 255},
					Particles:            fountain,
				},
			},
			State: &gameState{
				crateMaterials: []string{"crate", "stone", "missing"},
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil || g.Renderer == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	state := g.State.(*gameState)
	ctx := g.Renderer.Context()
	materials := g.SystemManager.Materials

	state.WorldCamera = g.SystemManager.Cameras.GetDefault()
	state.WorldCamera.SetPosition(math.NewVec3(0, 3, 8))
	state.WorldCamera.SetEulerRotation(math.NewVec3(math.DegToRad(-15), 0, 0))

	floor := views.NewModel(ctx, resources.NewModelData("floor",
		resources.GeneratePlane(20, 20, 4, 4, 4, 4, "floor", "stone"),
	), materials.Lookup)

	state.crate = views.NewModel(ctx, resources.NewModelData("crates",
		resources.GenerateCube(1.5, 1.5, 1.5, 1, 1, "crate_big", "crate"),
		resources.GenerateCube(0.75, 0.75, 0.75, 1, 1, "crate_small", "crate"),
	), materials.Lookup)
	state.crate.Transform.Position = math.NewVec3(0, 0.75, 0)

	state.models = []*views.Model{floor, state.crate}

	g.Renderer.AddLight(components.NewDirectionalLight(g.SystemManager.Registry,
		math.NewVec3(-0.4, -1, -0.3), math.NewVec3(0.6, 0.6, 0.55)))
	state.pointLight = components.NewPointLight(g.SystemManager.Registry,
		math.NewVec3(3, 2, 0), math.NewVec3(1, 0.55, 0.2))
	g.Renderer.AddLight(state.pointLight)

	if font, err := g.SystemManager.Fonts.Acquire(overlayFont); err != nil {
		core.LogWarn("no frame rate overlay: %s", err)
	} else {
		state.overlay = views.NewText(ctx, font, overlayText(g.Metrics))
		state.overlay.Position = math.NewVec2(12, 12)
		state.overlay.Colour = math.NewVec4(1, 0.9, 0.3, 1)
		state.overlayVisible = true
	}

	core.EventRegister(core.EVENT_CODE_KEY_RELEASED, g.gameOnKey)
	core.EventRegister(core.EVENT_CODE_SHADER_RELOADED, g.gameOnShaderReloaded)

	return nil
}

var (
	tempMoveSpeed  float32 = 5.0
	tempTurnSpeed  float32 = 1.5
	lightOrbitRate float32 = 0.8
)

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	dt := float32(deltaTime)
	camera := state.WorldCamera

	if core.InputIsKeyDown(core.KEY_LEFT) {
		camera.Yaw(tempTurnSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_RIGHT) {
		camera.Yaw(-tempTurnSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_UP) {
		camera.Pitch(tempTurnSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_DOWN) {
		camera.Pitch(-tempTurnSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_W) {
		camera.MoveForward(tempMoveSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_S) {
		camera.MoveBackward(tempMoveSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_A) {
		camera.MoveLeft(tempMoveSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_D) {
		camera.MoveRight(tempMoveSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_SPACE) {
		camera.MoveUp(tempMoveSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_X) {
		camera.MoveDown(tempMoveSpeed * dt)
	}

	state.crate.Transform.Rotation.Y += 0.5 * dt

	state.lightAngle += lightOrbitRate * dt
	position := math.NewVec3(3*math.Cos(state.lightAngle), 2, 3*math.Sin(state.lightAngle))
	state.pointLight.Set(components.LightVector, opengl.Vec4(position.ToVec4(1)))

	if state.overlay != nil {
		state.overlayAge += deltaTime
		if state.overlayAge >= overlayInterval {
			state.overlay.SetText(overlayText(g.Metrics))
			state.overlayAge = 0
		}
	}
	return nil
}

// overlayText formats the frame rate and average frame time.
func overlayText(m *core.Metrics) string {
	fps, ms := 0.0, 0.0
	if m != nil {
		fps, ms = m.Frame()
	}
	return fmt.Sprintf("FPS %.0f\n%.1f ms", fps, ms)
}

func (g *TestGame) Render(packet *renderer.RenderPacket, deltaTime float64) error {
	state := g.State.(*gameState)
	packet.Models = state.models
	if state.overlay != nil && state.overlayVisible {
		packet.Texts = append(packet.Texts, state.overlay)
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	for _, m := range state.models {
		m.Release()
	}
	state.models = nil
	if state.overlay != nil {
		state.overlay.Release()
		state.overlay = nil
		g.SystemManager.Fonts.Release(overlayFont)
	}
	return nil
}

// cycleCrateMaterial swaps the material of every crate node. Unknown
// names fall back to the default material.
func (g *TestGame) cycleCrateMaterial() {
	state := g.State.(*gameState)
	materials := g.SystemManager.Materials
	old := state.crateMaterials[state.crateMaterial]
	state.crateMaterial = (state.crateMaterial + 1) % len(state.crateMaterials)
	name := state.crateMaterials[state.crateMaterial]

	values := materials.Lookup(name)
	for _, n := range state.crate.Nodes {
		n.Material = values
	}
	materials.Release(old)
	core.LogInfo("crate material is now %s", name)
}

func (g *TestGame) gameOnKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		return false
	}
	switch ke.KeyCode {
	case core.KEY_M:
		g.cycleCrateMaterial()
		return true
	case core.KEY_R:
		for _, name := range g.SystemManager.Shaders.Names() {
			if err := g.SystemManager.Shaders.Reload(name); err != nil {
				core.LogError("shader %s: %s", name, err)
			}
		}
		return true
	case core.KEY_F2:
		state := g.State.(*gameState)
		state.overlayVisible = !state.overlayVisible
		return true
	case core.KEY_F1:
		core.LogInfo("camera at %v, frame %d",
			g.State.(*gameState).WorldCamera.GetPosition(), g.Renderer.FrameNumber())
		return true
	}
	return false
}

func (g *TestGame) gameOnShaderReloaded(context core.EventContext) bool {
	core.LogDebug("testbed sees shader %v reloaded", context.Data)
	return false
}
