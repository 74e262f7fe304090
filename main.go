// Command gin runs the testbed scene: a lit floor, rotating crates and a
// particle fountain, with shaders and materials reloaded from disk on change.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/gin/engine"
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/testbed"
)

func main() {
	configPath := flag.String("config", "testbed/gin.toml", "engine configuration file")
	assetsDir := flag.String("assets", "", "assets directory, overrides the configuration")
	flag.Parse()

	tb := testbed.NewTestGame(*configPath)
	tb.ApplicationConfig.AssetsDir = *assetsDir

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal("failed to create the engine: %s", err)
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal("failed to initialize the engine: %s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// the frame loop owns the GL context, so a signal only asks it to stop
	go func() {
		<-sigCh
		e.Quit()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil {
		core.LogFatal(runErr.Error())
	}
}
