package testbed

import (
	"github.com/vistralabs/tarn/engine"
	"github.com/vistralabs/tarn/engine/containers"
	"github.com/vistralabs/tarn/engine/core"
	"github.com/vistralabs/tarn/engine/resources"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	loadCount int
}

func NewTestGame() (*TestGame, error) {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:          "Tarn Testbed",
				LogLevel:      "debug",
				AssetBasePath: "assets",
				StartupScene:  "demo.scene.toml",
				HotReload:     true,
			},
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnSceneLoaded = tg.SceneLoaded
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Initialize() error {
	core.LogInfo("testbed initializing...")
	return nil
}

func (g *TestGame) SceneLoaded(collection *containers.Collection) error {
	state := g.State.(*gameState)
	state.loadCount++

	collection.Each(func(obj resources.Object) bool {
		core.LogDebug("scene object: %s '%s' (generation %d)", obj.Type(), obj.Name(), obj.Generation())
		return true
	})
	core.LogInfo("testbed observed load #%d with %d objects", state.loadCount, collection.Len())
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	core.LogInfo("testbed shutting down after %d loads", state.loadCount)
	return nil
}
