package testbed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gin/engine/assets"
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer"
	"github.com/spaghettifunk/gin/engine/renderer/components"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/gl/gltest"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/systems"
)

// newTestbed wires the game the way the engine does, on the fake driver
// and the shipped assets.
func newTestbed(t *testing.T) (*TestGame, *gltest.Driver) {
	t.Helper()
	core.EventInitialize()
	core.InputInitialize()
	t.Cleanup(func() {
		core.InputShutdown()
		core.EventShutdown()
	})

	tg := NewTestGame("gin.toml")
	cfg, err := core.LoadConfig(tg.ApplicationConfig.ConfigPath)
	require.NoError(t, err)
	tg.Config = cfg

	am, err := assets.NewAssetManager("assets")
	require.NoError(t, err)
	d := gltest.New()
	ctx := opengl.NewContext(d)
	sm, err := systems.NewSystemManager(ctx, components.NewDefaultRegistry(), am)
	require.NoError(t, err)

	rcfg := tg.ApplicationConfig.Renderer
	rcfg.Particles.Count = 64
	r, err := renderer.New(ctx, sm, sm.Cameras.GetDefault(), rcfg)
	require.NoError(t, err)
	tg.SystemManager, tg.Renderer = sm, r
	tg.Metrics = core.NewMetrics()
	t.Cleanup(func() {
		require.NoError(t, tg.Shutdown())
		r.Shutdown()
		require.NoError(t, sm.Shutdown())
	})

	require.NoError(t, tg.Initialize())
	r.OnResize(1280, 720)
	require.NoError(t, tg.OnResize(1280, 720))
	return tg, d
}

func TestConfigShipsWithTestbed(t *testing.T) {
	cfg, err := core.LoadConfig("gin.toml")
	require.NoError(t, err)
	assert.Equal(t, "testbed/assets", cfg.Assets.Dir)
	assert.Equal(t, 3, cfg.Renderer.GLMajor)
	assert.Positive(t, cfg.Particles.Count)
}

func TestFrame(t *testing.T) {
	tg, d := newTestbed(t)
	state := tg.State.(*gameState)

	tg.SystemManager.Jobs.Flush()
	diffuse, ok := tg.SystemManager.Registry.Lookup(components.Material, components.DiffuseTexture)
	require.True(t, ok)
	crate := tg.SystemManager.Materials.Lookup("crate").Texture(diffuse)
	require.NotNil(t, crate)
	assert.Equal(t, 128, crate.Size().Width)

	packet := &renderer.RenderPacket{DeltaTime: 1.0 / 60}
	require.NoError(t, tg.Update(packet.DeltaTime))
	require.NoError(t, tg.Render(packet, packet.DeltaTime))
	tg.Renderer.DrawFrame(packet)

	nodes := 0
	for _, m := range state.models {
		nodes += len(m.Nodes)
	}
	require.Equal(t, 3, nodes)
	lights := len(tg.Renderer.Forward().Lights)
	require.Equal(t, 2, lights)
	// particle update, depth, lit, skybox, particle render, overlay
	require.Len(t, d.Draws, 1+nodes+nodes*lights+1+1+1)
	ui, err := tg.SystemManager.Shaders.GetShader("ui")
	require.NoError(t, err)
	overlay := d.Draws[len(d.Draws)-1]
	assert.Equal(t, ui.ID(), overlay.Program)
	assert.Equal(t, state.overlay.VertexArray().ID(), overlay.VertexArray)
	assert.False(t, overlay.DepthMask)
	assert.Equal(t, gl.SRC_ALPHA, overlay.BlendSrc)
}

func TestOverlayShowsMetrics(t *testing.T) {
	tg, d := newTestbed(t)
	state := tg.State.(*gameState)
	require.NotNil(t, state.overlay)
	assert.Equal(t, "FPS 0\n0.0 ms", state.overlay.Text())
	assert.Equal(t, uint32(1), tg.SystemManager.Fonts.References(overlayFont))

	for i := 0; i < 64; i++ {
		tg.Metrics.Update(1.0 / 64.0)
	}
	require.NoError(t, tg.Update(0.1))
	assert.Equal(t, "FPS 0\n0.0 ms", state.overlay.Text(), "refreshes at most every %v s", overlayInterval)
	require.NoError(t, tg.Update(0.2))
	assert.Equal(t, "FPS 64\n15.6 ms", state.overlay.Text())

	// F2 hides the overlay
	core.InputProcessKey(core.KEY_F2, true)
	core.InputProcessKey(core.KEY_F2, false)
	packet := &renderer.RenderPacket{DeltaTime: 1.0 / 60}
	require.NoError(t, tg.Render(packet, packet.DeltaTime))
	assert.Empty(t, packet.Texts)
	tg.Renderer.DrawFrame(packet)
	ui, err := tg.SystemManager.Shaders.GetShader("ui")
	require.NoError(t, err)
	for _, call := range d.Draws {
		assert.NotEqual(t, ui.ID(), call.Program)
	}
}

func TestCameraFollowsKeys(t *testing.T) {
	tg, _ := newTestbed(t)
	camera := tg.State.(*gameState).WorldCamera
	before := camera.GetPosition()

	core.InputProcessKey(core.KEY_SPACE, true)
	require.NoError(t, tg.Update(0.5))
	core.InputProcessKey(core.KEY_SPACE, false)

	after := camera.GetPosition()
	assert.InDelta(t, before.Y+tempMoveSpeed*0.5, after.Y, 1e-4)
}

func TestCrateMaterialCycles(t *testing.T) {
	tg, _ := newTestbed(t)
	state := tg.State.(*gameState)
	materials := tg.SystemManager.Materials

	release := func() {
		core.InputProcessKey(core.KEY_M, true)
		core.InputProcessKey(core.KEY_M, false)
	}
	assert.Same(t, materials.Lookup("crate"), state.crate.Nodes[0].Material)

	release()
	assert.Same(t, materials.Lookup("stone"), state.crate.Nodes[0].Material)

	release()
	assert.Same(t, materials.GetDefault().Values, state.crate.Nodes[1].Material)
}
